package validation

import "github.com/veritrade/validator/internal/domain"

// Aggregate folds a run's discrepancies into a summary. The sum is
// commutative and associative over the discrepancy set, so field ordering
// never affects the result, and the total saturates at 100 rather than
// wrapping.
func Aggregate(totalFields int, discrepancies []domain.Discrepancy) domain.ValidationSummary {
	s := domain.ValidationSummary{
		TotalFields: totalFields,
		PassedCount: totalFields - len(discrepancies),
	}

	total := 0
	for _, d := range discrepancies {
		total += d.RiskScore
		switch d.Severity {
		case domain.SeverityCritical:
			s.CriticalCount++
		case domain.SeverityHigh:
			s.HighCount++
		default:
			s.MinorCount++
		}
	}
	if total > 100 {
		total = 100
	}
	s.TotalRiskScore = total

	s.ComplianceLevel = ComplianceLevelFor(s.CriticalCount, s.HighCount)
	s.OverallStatus = OverallStatusFor(s.CriticalCount)
	return s
}

// ComplianceLevelFor maps issue counts to a compliance level. Minor issues
// are deliberately excluded: they affect the risk score only.
func ComplianceLevelFor(criticalCount, highCount int) domain.ComplianceLevel {
	switch {
	case criticalCount > 0:
		return domain.NonCompliant
	case highCount > 2:
		return domain.RequiresReview
	case highCount > 0:
		return domain.ConditionalApproval
	default:
		return domain.FullyCompliant
	}
}

// OverallStatusFor derives the processing status. Any critical issue blocks
// automatic approval.
func OverallStatusFor(criticalCount int) domain.OverallStatus {
	if criticalCount > 0 {
		return domain.StatusRequiresReview
	}
	return domain.StatusApproved
}
