package extraction

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/veritrade/validator/internal/amount"
	"github.com/veritrade/validator/internal/domain"
)

// fieldPattern binds a trade field to the regexes that locate it in
// termsheet text, in priority order, plus the confidence assigned to a
// regex hit. Only the first matching pattern per field wins.
type fieldPattern struct {
	field      string
	confidence float64
	patterns   []*regexp.Regexp
	numeric    bool
	date       bool
}

var fieldPatterns = []fieldPattern{
	{
		field:      "trade_id",
		confidence: 0.95,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)trade\s+(?:id|reference)[:\s]+([A-Z0-9][A-Z0-9\-]+)`),
		},
	},
	{
		field:      "counterparty",
		confidence: 0.85,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^counterparty[:\s]+(.+)$`),
		},
	},
	{
		field:      "notional_amount",
		confidence: 0.9,
		numeric:    true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)notional\s+(?:amount|principal)[:\s]+(?:USD\s*)?([\$€£]?[\d,\.]+(?:\s*(?:million|mil|billion|bil|bn|mm|m|b))?)`),
			regexp.MustCompile(`(?im)principal\s+amount[:\s]+(?:USD\s*)?([\$€£]?[\d,\.]+(?:\s*(?:million|mil|billion|bil|bn|mm|m|b))?)`),
		},
	},
	{
		field:      "fixed_rate",
		confidence: 0.9,
		numeric:    true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)fixed\s+rate[:\s]+([\d\.]+)\s*%`),
		},
	},
	{
		field:      "interest_rate",
		confidence: 0.85,
		numeric:    true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)interest\s+rate[:\s]+([\d\.]+)\s*%`),
		},
	},
	{
		field:      "currency",
		confidence: 0.9,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)currency[:\s]+([A-Z]{3})\b`),
		},
	},
	{
		field:      "trade_type",
		confidence: 0.8,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)(?:trade|product)\s+type[:\s]+([A-Za-z ]+?(?:swap|forward|option|future))`),
		},
	},
	{
		field:      "payment_frequency",
		confidence: 0.85,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)payment\s+frequency[:\s]+(annually|semi[\- ]annually|quarterly|monthly|weekly|daily)`),
			regexp.MustCompile(`(?im)payments?\s+(?:made\s+)?(annually|semi[\- ]annually|quarterly|monthly)`),
		},
	},
	{
		field:      "reference_rate",
		confidence: 0.8,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)(?:reference|floating)\s+rate(?:\s+index)?[:\s]+([A-Z]+[A-Za-z0-9 \+\.\%]*)`),
		},
	},
	{
		field:      "legal_entity",
		confidence: 0.75,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^legal\s+entity[:\s]+(.+)$`),
		},
	},
	{
		field:      "settlement_date",
		confidence: 0.85,
		date:       true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)settlement\s+date[:\s]+([0-9]{4}-[0-9]{2}-[0-9]{2}|[A-Za-z]+ [0-9]{1,2},? [0-9]{4})`),
		},
	},
	{
		field:      "maturity_date",
		confidence: 0.85,
		date:       true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)maturity\s+date[:\s]+([0-9]{4}-[0-9]{2}-[0-9]{2}|[A-Za-z]+ [0-9]{1,2},? [0-9]{4})`),
		},
	},
	{
		field:      "effective_date",
		confidence: 0.85,
		date:       true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)effective\s+date[:\s]+([0-9]{4}-[0-9]{2}-[0-9]{2}|[A-Za-z]+ [0-9]{1,2},? [0-9]{4})`),
		},
	},
}

// dateLayouts are the document date formats normalized to the engine's
// fixed comparison layout.
var dateLayouts = []string{
	domain.DateFormat,
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
}

// ExtractTermSheet pulls trade fields out of raw termsheet text using
// pattern matching. Values are normalized (amounts to plain numbers, dates
// to the engine's fixed layout) so the validation engine never has to deal
// with document formatting. Fields that do not appear in the text are
// simply absent from the result.
func ExtractTermSheet(text string) *domain.TermSheet {
	fields := make(map[string]domain.ExtractedField)

	for _, fp := range fieldPatterns {
		for _, re := range fp.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil || strings.TrimSpace(m[1]) == "" {
				continue
			}
			raw := strings.TrimSpace(m[1])

			value, ok := normalize(raw, fp)
			if !ok {
				log.Printf("[extraction] Could not normalize %s value %q, keeping raw", fp.field, raw)
				value = raw
			}

			fields[fp.field] = domain.ExtractedField{Value: value, Confidence: fp.confidence}
			break
		}
	}

	ts := &domain.TermSheet{
		Fields:     fields,
		Source:     "regex_pattern",
		Confidence: overallConfidence(fields),
	}
	if f, ok := fields["trade_id"]; ok {
		ts.TradeID = f.Value
	}
	return ts
}

// FromFieldMap wraps pre-extracted field values (e.g. posted directly by a
// client that did its own extraction) into a term sheet with a uniform
// confidence.
func FromFieldMap(values map[string]string, confidence float64) *domain.TermSheet {
	fields := make(map[string]domain.ExtractedField, len(values))
	for name, v := range values {
		fields[name] = domain.ExtractedField{Value: v, Confidence: confidence}
	}
	return &domain.TermSheet{
		Fields:     fields,
		Source:     "client_supplied",
		Confidence: confidence,
	}
}

func normalize(raw string, fp fieldPattern) (string, bool) {
	switch {
	case fp.numeric:
		v, err := amount.Parse(raw)
		if err != nil {
			return "", false
		}
		return trimFloat(v), true
	case fp.date:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format(domain.DateFormat), true
			}
		}
		return "", false
	default:
		return strings.TrimSpace(raw), true
	}
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func overallConfidence(fields map[string]domain.ExtractedField) float64 {
	if len(fields) == 0 {
		return 0
	}
	var sum float64
	for _, f := range fields {
		sum += f.Confidence
	}
	return sum / float64(len(fields))
}
