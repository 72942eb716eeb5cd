package amount

import (
	"fmt"
	"strconv"
	"strings"
)

// multipliers lists magnitude suffixes found in termsheet text with their
// numeric scale, longest first so "million" wins over "m". Matching is
// case-insensitive.
var multipliers = []struct {
	suffix string
	scale  float64
}{
	{"billion", 1e9},
	{"million", 1e6},
	{"bil", 1e9},
	{"mil", 1e6},
	{"bn", 1e9},
	{"mm", 1e6},
	{"b", 1e9},
	{"m", 1e6},
}

// Parse converts a monetary or rate string to a float64. It tolerates the
// formatting that appears in termsheets and trade records: currency symbols,
// thousands separators, percent signs, and magnitude suffixes
// ("$52.5 million", "50,000,000", "4.75%").
func Parse(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	cleaned = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", "%", "").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	scale := 1.0
	lower := strings.ToLower(cleaned)
	for _, m := range multipliers {
		if strings.HasSuffix(lower, m.suffix) {
			trimmed := strings.TrimSpace(cleaned[:len(cleaned)-len(m.suffix)])
			// Require a numeric body so "m" alone does not parse.
			if trimmed == "" {
				continue
			}
			cleaned = trimmed
			scale = m.scale
			break
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v * scale, nil
}
