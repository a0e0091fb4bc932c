package common

import (
	"fmt"
	"strings"
)

// FormatBRL formats a float as Brazilian reais: thousands separated by '.'
// and cents by ',' (e.g. R$ 1.234,56).
func FormatBRL(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := groupThousands(whole)
	if negative {
		return fmt.Sprintf("-R$ %s,%02d", s, cents)
	}
	return fmt.Sprintf("R$ %s,%02d", s, cents)
}

// FormatPoints formats a point quantity with '.' thousands separators.
func FormatPoints(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	return groupThousands(n)
}

// FormatSignedPct formats a percentage with a +/- prefix.
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ".")
}
