package validation

import (
	"fmt"
	"strings"

	"github.com/veritrade/validator/internal/domain"
)

// Classify turns a comparison outcome into a discrepancy, or nil when the
// field passed. Severity is a pure function of (deviation, policy).
//
// Numeric and date fields share a two-tier ladder:
//
//	deviation <= tolerance           -> pass
//	deviation <= critical_threshold  -> high     (15 points)
//	deviation >  critical_threshold  -> critical (25 points)
//
// Categorical mismatches escalate to critical only when the field's
// importance is critical. Text mismatches stay minor regardless of
// importance; free text never reaches critical through this path.
func Classify(out domain.ComparisonOutcome, policy domain.FieldPolicy) *domain.Discrepancy {
	switch out.Status {
	case domain.OutcomeFormatError:
		return newDiscrepancy(out, domain.SeverityHigh,
			fmt.Sprintf("%s format error: could not parse %q against %q", out.FieldName, out.ExtractedValue, out.ReferenceValue),
			fmt.Sprintf("Fix %s format in the source document", fieldLabel(out.FieldName)),
		)
	case domain.OutcomeMissing:
		return newDiscrepancy(out, domain.SeverityHigh,
			fmt.Sprintf("%s missing from extracted document", out.FieldName),
			fmt.Sprintf("Confirm %s is present in the termsheet", fieldLabel(out.FieldName)),
		)
	}

	if out.IsMatch {
		return nil
	}

	switch policy.Type {
	case domain.TypeNumeric:
		if out.Deviation <= policy.CriticalThreshold {
			return newDiscrepancy(out, domain.SeverityHigh,
				fmt.Sprintf("%s high variance: %.2f%% difference", out.FieldName, out.Deviation),
				fmt.Sprintf("Verify %s - investigate %.2f%% variance", fieldLabel(out.FieldName), out.Deviation),
			)
		}
		return newDiscrepancy(out, domain.SeverityCritical,
			fmt.Sprintf("%s critical variance: %.2f%% difference", out.FieldName, out.Deviation),
			fmt.Sprintf("URGENT: Review %s - %.2f%% variance requires immediate attention", fieldLabel(out.FieldName), out.Deviation),
		)

	case domain.TypeDate:
		days := int(out.Deviation)
		if out.Deviation <= policy.CriticalThreshold {
			return newDiscrepancy(out, domain.SeverityHigh,
				fmt.Sprintf("%s date variance: %d days", out.FieldName, days),
				fmt.Sprintf("Verify %s - %d day variance detected", fieldLabel(out.FieldName), days),
			)
		}
		return newDiscrepancy(out, domain.SeverityCritical,
			fmt.Sprintf("%s critical date variance: %d days", out.FieldName, days),
			fmt.Sprintf("URGENT: Review %s - major date discrepancy", fieldLabel(out.FieldName)),
		)

	case domain.TypeCategorical:
		sev := domain.SeverityHigh
		if policy.Importance == domain.ImportanceCritical {
			sev = domain.SeverityCritical
		}
		return newDiscrepancy(out, sev,
			fmt.Sprintf("%s mismatch: '%s' vs '%s'", out.FieldName, out.ExtractedValue, out.ReferenceValue),
			fmt.Sprintf("Correct %s - should be '%s'", fieldLabel(out.FieldName), out.ReferenceValue),
		)

	default: // text
		return newDiscrepancy(out, domain.SeverityMinor,
			fmt.Sprintf("%s text difference", out.FieldName),
			fmt.Sprintf("Review %s text accuracy", fieldLabel(out.FieldName)),
		)
	}
}

// riskScoreFor maps a severity tier to its fixed point contribution.
// Contributions are only ever 15 or 25.
func riskScoreFor(sev domain.Severity) int {
	if sev == domain.SeverityCritical {
		return domain.RiskCritical
	}
	return domain.RiskHigh
}

func newDiscrepancy(out domain.ComparisonOutcome, sev domain.Severity, description, recommendation string) *domain.Discrepancy {
	return &domain.Discrepancy{
		FieldName:      out.FieldName,
		Severity:       sev,
		RiskScore:      riskScoreFor(sev),
		ReferenceValue: out.ReferenceValue,
		ExtractedValue: out.ExtractedValue,
		Deviation:      out.Deviation,
		Description:    description,
		Recommendation: recommendation,
	}
}

func fieldLabel(fieldName string) string {
	return strings.ReplaceAll(fieldName, "_", " ")
}
