package utils

import (
	"errors"
	"testing"
)

func TestExtractPostalPrefix(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"Keizerstraat 12, 6811 AB Arnhem", "6811"},
		{"Keizerstraat 12, 6811AB Arnhem", "6811"},
		{"Postbus 1234", "1234"},
		{"Dorpsstraat 7, 1000 Amsterdam, 2000 Haarlem", "1000"},
	}
	for _, tt := range tests {
		got, err := ExtractPostalPrefix(tt.address)
		if err != nil {
			t.Fatalf("ExtractPostalPrefix(%q) returned error: %v", tt.address, err)
		}
		if got != tt.want {
			t.Fatalf("ExtractPostalPrefix(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestExtractPostalPrefixUnprocessable(t *testing.T) {
	for _, address := range []string{"", "Keizerstraat 12 Arnhem", "Main St 12345"} {
		if _, err := ExtractPostalPrefix(address); !errors.Is(err, ErrUnprocessableAddress) {
			t.Fatalf("expected ErrUnprocessableAddress for %q, got %v", address, err)
		}
	}
}

func TestIsWithinZone(t *testing.T) {
	zones := []string{"6811", "6812"}
	if !IsWithinZone("6812", zones) {
		t.Fatal("expected 6812 to be inside the zone")
	}
	if IsWithinZone("1234", zones) {
		t.Fatal("expected 1234 to be outside the zone")
	}
	if IsWithinZone("6811", nil) {
		t.Fatal("expected no zone to match an empty list")
	}
}

func TestIsTimeInRangeIsInclusive(t *testing.T) {
	tests := []struct {
		at   string
		want bool
	}{
		{"11:59", false},
		{"12:00", true},
		{"18:30", true},
		{"22:00", true},
		{"22:01", false},
	}
	for _, tt := range tests {
		if got := IsTimeInRange(tt.at, "12:00", "22:00"); got != tt.want {
			t.Fatalf("IsTimeInRange(%q) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestLiterals(t *testing.T) {
	if !IsDateLiteral("2025-03-10") || IsDateLiteral("10-03-2025") || IsDateLiteral("2025-3-10") {
		t.Fatal("unexpected date literal result")
	}
	if !IsTimeLiteral("09:30") || IsTimeLiteral("9:30") || IsTimeLiteral("09:30:00") {
		t.Fatal("unexpected time literal result")
	}
	if !IsZoneLiteral("6811") || IsZoneLiteral("681") || IsZoneLiteral("6811AB") {
		t.Fatal("unexpected zone literal result")
	}
}

func TestValidatePhone(t *testing.T) {
	if !ValidatePhone("+31 6 1234 5678") {
		t.Fatal("expected a Dutch mobile number to be valid")
	}
	if ValidatePhone("call me") {
		t.Fatal("expected text to be rejected")
	}
}
