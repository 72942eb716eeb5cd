package validation

import (
	"math"
	"strings"
	"time"

	"github.com/veritrade/validator/internal/amount"
	"github.com/veritrade/validator/internal/domain"
)

// Compare evaluates one extracted value against its reference value under
// the field's policy. It never returns an error: unparsable numeric or date
// values are tagged as format errors so the run can continue, and the
// classifier escalates them instead.
func Compare(fieldName, refValue, extValue string, policy domain.FieldPolicy) domain.ComparisonOutcome {
	out := domain.ComparisonOutcome{
		FieldName:      fieldName,
		ReferenceValue: refValue,
		ExtractedValue: extValue,
		Status:         domain.OutcomeOK,
	}

	switch policy.Type {
	case domain.TypeNumeric:
		ref, rerr := amount.Parse(refValue)
		ext, eerr := amount.Parse(extValue)
		if rerr != nil || eerr != nil {
			out.Status = domain.OutcomeFormatError
			return out
		}
		out.Deviation = percentDeviation(ref, ext)
		out.IsMatch = out.Deviation <= policy.Tolerance

	case domain.TypeDate:
		ref, rerr := time.Parse(domain.DateFormat, strings.TrimSpace(refValue))
		ext, eerr := time.Parse(domain.DateFormat, strings.TrimSpace(extValue))
		if rerr != nil || eerr != nil {
			out.Status = domain.OutcomeFormatError
			return out
		}
		out.Deviation = math.Abs(ext.Sub(ref).Hours() / 24)
		out.IsMatch = out.Deviation <= policy.Tolerance

	case domain.TypeCategorical:
		// Binary deviation, no partial credit.
		if foldEqual(refValue, extValue) {
			out.IsMatch = true
		} else {
			out.Deviation = 1
		}

	default: // text
		out.IsMatch = foldEqual(refValue, extValue)
	}

	return out
}

// percentDeviation returns |ext-ref|/ref as a percentage. A zero reference
// with a nonzero extracted value is treated as a 100% deviation.
func percentDeviation(ref, ext float64) float64 {
	if ref == 0 {
		if ext != 0 {
			return 100.0
		}
		return 0.0
	}
	return math.Abs(ext-ref) / ref * 100
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
