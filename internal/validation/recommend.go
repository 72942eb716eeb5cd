package validation

import "github.com/veritrade/validator/internal/domain"

// Recommendations derives the prioritized guidance list for a completed
// run. Output ordering is fixed: critical block, high block, risk remark,
// then the approval-ready block when nothing needs attention. Purely
// presentational; it is computed after the summary and never feeds back
// into compliance or decisions.
func Recommendations(discrepancies []domain.Discrepancy, summary domain.ValidationSummary) []string {
	var recs []string

	var critical, high []domain.Discrepancy
	for _, d := range discrepancies {
		switch d.Severity {
		case domain.SeverityCritical:
			critical = append(critical, d)
		case domain.SeverityHigh:
			high = append(high, d)
		}
	}

	if len(critical) > 0 {
		recs = append(recs, "IMMEDIATE ACTION REQUIRED: Critical discrepancies detected")
		for _, d := range critical {
			recs = append(recs, "CRITICAL: "+d.Recommendation)
		}
	}

	if len(high) > 0 {
		recs = append(recs, "HIGH PRIORITY: Significant discrepancies require attention")
		for _, d := range high {
			recs = append(recs, "HIGH: "+d.Recommendation)
		}
	}

	switch {
	case summary.TotalRiskScore > 50:
		recs = append(recs, "RISK ASSESSMENT: High risk score requires senior review")
	case summary.TotalRiskScore > 25:
		recs = append(recs, "RISK ASSESSMENT: Medium risk - additional verification recommended")
	}

	if len(critical) == 0 && len(high) == 0 {
		recs = append(recs,
			"APPROVAL READY: All validations passed successfully",
			"Trade can proceed with standard processing",
		)
	}

	return recs
}
