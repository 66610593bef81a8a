package cli

import "testing"

func TestFormatCost(t *testing.T) {
	tests := []struct {
		currency string
		in       float64
		want     string
	}{
		{"INR", 11000, "INR 11,000"},
		{"USD", 1234.5, "USD 1,234.5"},
		{"", 1234.567, "1,234.57"},
		{"", 0, "0"},
		{"EUR", 999, "EUR 999"},
	}
	for _, tt := range tests {
		if got := FormatCost(tt.currency, tt.in); got != tt.want {
			t.Errorf("FormatCost(%q, %v) = %q, want %q", tt.currency, tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := map[float64]string{
		950:     "950",
		1500:    "1.5K",
		1234567: "1.2M",
	}
	for in, want := range tests {
		if got := FormatCompact(in); got != want {
			t.Errorf("FormatCompact(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Errorf("FormatNumber(-1000) = %q", got)
	}
}

func TestFormatPercentAndDelta(t *testing.T) {
	if got := FormatPercent(0.4545); got != "45.5%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatDelta("", 120, 100); got != "+20" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta("", 100, 120); got != "-20" {
		t.Errorf("FormatDelta down = %q", got)
	}
	if got := FormatYearSpan(2020, 2024); got != "2020-2024" {
		t.Errorf("FormatYearSpan = %q", got)
	}
}
