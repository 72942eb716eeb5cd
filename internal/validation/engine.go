package validation

import (
	"sort"

	"github.com/veritrade/validator/internal/domain"
)

// Options tunes a validation run.
type Options struct {
	// FlagMissing raises a high-severity discrepancy for any reference
	// field absent from the extracted map. Off by default: absent fields
	// are skipped entirely and contribute nothing.
	FlagMissing bool
}

// Result is everything one validation run produces.
type Result struct {
	Summary         domain.ValidationSummary    `json:"summary"`
	Outcomes        []domain.ComparisonOutcome  `json:"outcomes"`
	Discrepancies   []domain.Discrepancy        `json:"discrepancies"`
	Compliance      domain.ComplianceAssessment `json:"compliance_assessment"`
	Recommendations []string                    `json:"recommendations"`
}

// Evaluate compares every extracted field against its reference value and
// classifies the differences. Pure and deterministic: fields are walked in
// sorted name order, nothing is stamped with wall-clock time, and repeated
// evaluation of the same inputs yields identical results. Policies missing
// an entry for a field fall back to the default text policy.
func Evaluate(reference, extracted map[string]string, policies map[string]domain.FieldPolicy, opts Options) Result {
	if policies == nil {
		policies = domain.DefaultPolicies()
	}

	names := make([]string, 0, len(reference))
	for name := range reference {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		outcomes      []domain.ComparisonOutcome
		discrepancies []domain.Discrepancy
	)

	for _, name := range names {
		refValue := reference[name]
		policy := domain.PolicyFor(name, policies)

		extValue, ok := extracted[name]
		if !ok {
			if !opts.FlagMissing {
				continue
			}
			out := domain.ComparisonOutcome{
				FieldName:      name,
				ReferenceValue: refValue,
				Status:         domain.OutcomeMissing,
			}
			outcomes = append(outcomes, out)
			discrepancies = append(discrepancies, *Classify(out, policy))
			continue
		}

		out := Compare(name, refValue, extValue, policy)
		outcomes = append(outcomes, out)
		if d := Classify(out, policy); d != nil {
			discrepancies = append(discrepancies, *d)
		}
	}

	summary := Aggregate(len(outcomes), discrepancies)
	compliance := AssessCompliance(summary.CriticalCount, summary.HighCount)

	return Result{
		Summary:         summary,
		Outcomes:        outcomes,
		Discrepancies:   discrepancies,
		Compliance:      compliance,
		Recommendations: Recommendations(discrepancies, summary),
	}
}
