package scraper

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// quotePattern matches repeated "em <N> dias ... R$ <amount>" fragments in the
// rendered result text. The site renders both "em 30 dias" and "Até 90 dias"
// variants, and arbitrary markup sits between the tenor and the amount.
var quotePattern = regexp.MustCompile(`(?is)(?:em|até)\s+(\d+)\s+dias?.*?R\$\s?([\d.,]+)`)

// ParsedOption is one tenor/price pair extracted from a result page.
type ParsedOption struct {
	TenorDays  int
	TotalPrice float64
	CPM        float64
}

// ParseAmount converts a Brazilian-formatted amount ("1.234,56") to a float.
func ParseAmount(s string) (float64, error) {
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q: %w", s, err)
	}
	return v, nil
}

// ParseResultText extracts all quote options from rendered page text.
// The quantity is the fixed point quantity the batch quoted for, used to
// derive cost per thousand. When the same tenor appears more than once the
// larger amount wins: smaller matches are truncation artifacts of the page
// layout. Returns ErrParse when no option can be extracted.
func ParseResultText(text string, quantity int) ([]ParsedOption, error) {
	matches := quotePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %d bytes of text scanned", ErrParse, len(text))
	}

	byTenor := make(map[int]ParsedOption)
	for _, m := range matches {
		tenor, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		amount, err := ParseAmount(m[2])
		if err != nil {
			continue
		}
		if prev, ok := byTenor[tenor]; ok && prev.TotalPrice >= amount {
			continue
		}
		byTenor[tenor] = ParsedOption{
			TenorDays:  tenor,
			TotalPrice: amount,
			CPM:        amount / (float64(quantity) / 1000),
		}
	}

	if len(byTenor) == 0 {
		return nil, fmt.Errorf("%w: %d matches, none parseable", ErrParse, len(matches))
	}

	options := make([]ParsedOption, 0, len(byTenor))
	for _, opt := range byTenor {
		options = append(options, opt)
	}
	sort.Slice(options, func(i, j int) bool { return options[i].TenorDays < options[j].TenorDays })
	return options, nil
}
