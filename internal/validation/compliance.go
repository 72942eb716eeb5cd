package validation

import "github.com/veritrade/validator/internal/domain"

// AssessCompliance maps the critical and high issue counts to per-regime
// verdicts. The regimes are independent of each other and of the risk
// score: two runs with identical counts always assess identically, whatever
// their scores. That divergence is intentional and must not be "fixed".
func AssessCompliance(criticalCount, highCount int) domain.ComplianceAssessment {
	a := domain.ComplianceAssessment{
		MiFIDII: domain.VerdictCompliant,
		FCA:     domain.VerdictCompliant,
		SEC:     domain.VerdictCompliant,
	}

	// MiFID II and SEC both fail on any critical issue.
	if criticalCount > 0 {
		a.MiFIDII = domain.VerdictNonCompliant
		a.SEC = domain.VerdictNonCompliant
	}

	// FCA tolerates a single critical issue but has a stricter aggregate cap.
	if criticalCount > 1 || highCount > 3 {
		a.FCA = domain.VerdictRequiresReview
	}

	if criticalCount == 0 && highCount <= 2 {
		a.OverallRegulatory = domain.VerdictCompliant
	} else {
		a.OverallRegulatory = domain.VerdictRequiresReview
	}

	return a
}
