// utils/validation.go
package utils

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnprocessableAddress is returned when no postal code can be read from an address.
var ErrUnprocessableAddress = errors.New("could not determine postal code from delivery address")

var (
	postalCodePattern = regexp.MustCompile(`\b(\d{4})\s*[A-Za-z]{0,2}\b`)
	dateLiteral       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeLiteral       = regexp.MustCompile(`^\d{2}:\d{2}$`)
	zoneLiteral       = regexp.MustCompile(`^\d{4}$`)
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// ExtractPostalPrefix returns the first four-digit postal prefix found in address,
// reading left to right. Dutch postcodes ("6811 AB") and bare prefixes both match.
func ExtractPostalPrefix(address string) (string, error) {
	m := postalCodePattern.FindStringSubmatch(address)
	if m == nil {
		return "", ErrUnprocessableAddress
	}
	return m[1], nil
}

// IsWithinZone reports whether prefix is one of the serviceable zones.
func IsWithinZone(prefix string, zones []string) bool {
	for _, z := range zones {
		if z == prefix {
			return true
		}
	}
	return false
}

// IsTimeInRange compares "HH:MM" strings lexically; both bounds are inclusive.
func IsTimeInRange(t, open, close string) bool {
	return t >= open && t <= close
}

// IsDateLiteral reports whether s has the strict YYYY-MM-DD shape.
func IsDateLiteral(s string) bool {
	return dateLiteral.MatchString(s)
}

// IsTimeLiteral reports whether s has the strict HH:MM shape.
func IsTimeLiteral(s string) bool {
	return timeLiteral.MatchString(s)
}

// IsZoneLiteral reports whether s is a four-digit postal prefix.
func IsZoneLiteral(s string) bool {
	return zoneLiteral.MatchString(s)
}
