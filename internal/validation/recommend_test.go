package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrade/validator/internal/domain"
)

func disc(field string, sev domain.Severity, rec string) domain.Discrepancy {
	score := domain.RiskHigh
	if sev == domain.SeverityCritical {
		score = domain.RiskCritical
	}
	return domain.Discrepancy{FieldName: field, Severity: sev, RiskScore: score, Recommendation: rec}
}

func TestRecommendationsOrdering(t *testing.T) {
	discs := []domain.Discrepancy{
		disc("notional_amount", domain.SeverityHigh, "Verify notional amount"),
		disc("fixed_rate", domain.SeverityCritical, "URGENT: Review fixed rate"),
	}
	summary := Aggregate(5, discs)

	recs := Recommendations(discs, summary)
	require.NotEmpty(t, recs)

	// Critical block first, then the high block, then the risk remark.
	assert.Equal(t, "IMMEDIATE ACTION REQUIRED: Critical discrepancies detected", recs[0])
	assert.Equal(t, "CRITICAL: URGENT: Review fixed rate", recs[1])
	assert.Equal(t, "HIGH PRIORITY: Significant discrepancies require attention", recs[2])
	assert.Equal(t, "HIGH: Verify notional amount", recs[3])
	assert.Equal(t, "RISK ASSESSMENT: Medium risk - additional verification recommended", recs[4])
}

func TestRecommendationsHighRiskRemark(t *testing.T) {
	discs := []domain.Discrepancy{
		disc("a", domain.SeverityCritical, "fix a"),
		disc("b", domain.SeverityCritical, "fix b"),
		disc("c", domain.SeverityCritical, "fix c"),
	}
	summary := Aggregate(10, discs)
	require.Greater(t, summary.TotalRiskScore, 50)

	recs := Recommendations(discs, summary)
	assert.Contains(t, recs, "RISK ASSESSMENT: High risk score requires senior review")
}

func TestRecommendationsApprovalReady(t *testing.T) {
	summary := Aggregate(5, nil)
	recs := Recommendations(nil, summary)

	require.Len(t, recs, 2)
	assert.Equal(t, "APPROVAL READY: All validations passed successfully", recs[0])
	assert.Equal(t, "Trade can proceed with standard processing", recs[1])
}

func TestRecommendationsMinorOnlyStillApprovalReady(t *testing.T) {
	// Minor findings carry points but never block the approval-ready block.
	discs := []domain.Discrepancy{disc("legal_entity", domain.SeverityMinor, "Review legal entity text accuracy")}
	summary := Aggregate(5, discs)

	recs := Recommendations(discs, summary)
	assert.Contains(t, recs, "APPROVAL READY: All validations passed successfully")
	for _, r := range recs {
		assert.False(t, strings.HasPrefix(r, "CRITICAL:"))
		assert.False(t, strings.HasPrefix(r, "HIGH:"))
	}
}
