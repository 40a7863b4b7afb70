package utils

import "testing"

func TestRound2(t *testing.T) {
	if got := Round2(12.5 * 2); got != 25 {
		t.Fatalf("Round2 = %v, want 25", got)
	}
	if got := Round2(0.1 + 0.2); got != 0.3 {
		t.Fatalf("Round2(0.1+0.2) = %v, want 0.3", got)
	}
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{27.50, 2750},
		{8.75 * 3, 2625},
		{0.1 + 0.2, 30},
		{19.99, 1999},
	}
	for _, tt := range tests {
		if got := ToMinorUnits(tt.amount); got != tt.want {
			t.Fatalf("ToMinorUnits(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
