package validation

import (
	"time"

	"github.com/veritrade/validator/internal/domain"
)

// RecommendedAction is the automatic decision policy, used when no human
// override is supplied. It recommends; it never records. A session with
// any critical issue is never recommended for approval.
func RecommendedAction(summary domain.ValidationSummary) domain.DecisionAction {
	if summary.CriticalCount > 0 || summary.HighCount > 2 {
		return domain.ActionManualReview
	}
	return domain.ActionApprove
}

// BuildDecision assembles the terminal decision record for a session,
// snapshotting the risk score, compliance verdicts, and counts as they
// stand at submission time. The snapshot is an audit record and is never
// recomputed afterwards.
func BuildDecision(
	sessionID string,
	action domain.DecisionAction,
	reason, decidedBy string,
	summary domain.ValidationSummary,
	compliance domain.ComplianceAssessment,
	now time.Time,
) domain.Decision {
	return domain.Decision{
		SessionID:          sessionID,
		Action:             action,
		Reason:             reason,
		RiskScore:          summary.TotalRiskScore,
		Compliance:         compliance,
		TotalDiscrepancies: summary.CriticalCount + summary.HighCount + summary.MinorCount,
		CriticalIssues:     summary.CriticalCount,
		HighIssues:         summary.HighCount,
		DecidedBy:          decidedBy,
		DecidedAt:          now,
	}
}
