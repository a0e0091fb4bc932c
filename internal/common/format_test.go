package common

import "testing"

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{12.3456, "R$ 12,35"},
		{1234.56, "R$ 1.234,56"},
		{1000000, "R$ 1.000.000,00"},
		{-500.5, "-R$ 500,50"},
		{19.995, "R$ 20,00"},
	}
	for _, tc := range cases {
		if got := FormatBRL(tc.in); got != tc.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPoints(t *testing.T) {
	if got := FormatPoints(100000); got != "100.000" {
		t.Errorf("FormatPoints(100000) = %q, want 100.000", got)
	}
	if got := FormatPoints(999); got != "999" {
		t.Errorf("FormatPoints(999) = %q, want 999", got)
	}
	if got := FormatPoints(-1500); got != "-1.500" {
		t.Errorf("FormatPoints(-1500) = %q, want -1.500", got)
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(12.34); got != "+12.3%" {
		t.Errorf("FormatSignedPct(12.34) = %q, want +12.3%%", got)
	}
	if got := FormatSignedPct(-33.33); got != "-33.3%" {
		t.Errorf("FormatSignedPct(-33.33) = %q, want -33.3%%", got)
	}
}
