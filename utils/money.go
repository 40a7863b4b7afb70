package utils

import "math"

// Round2 rounds an amount to two decimals, half away from zero.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// ToMinorUnits converts an amount to integer cents, rounding half up.
func ToMinorUnits(f float64) int64 {
	return int64(math.Round(f * 100))
}
