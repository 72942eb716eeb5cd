package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrade/validator/internal/domain"
)

func TestClassifyPassReturnsNil(t *testing.T) {
	out := Compare("notional_amount", "50000000", "50500000", numericPolicy(2.0, 5.0))
	assert.Nil(t, Classify(out, numericPolicy(2.0, 5.0)))
}

func TestClassifyNumericHighTier(t *testing.T) {
	policy := numericPolicy(2.0, 5.0)
	out := Compare("notional_amount", "50000000", "51500000", policy)

	d := Classify(out, policy)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
	assert.Equal(t, domain.RiskHigh, d.RiskScore)
	assert.Contains(t, d.Description, "high variance")
	assert.Contains(t, d.Description, "3.00%")
}

func TestClassifyNumericAtCriticalBoundaryStaysHigh(t *testing.T) {
	// A deviation exactly at the critical threshold classifies as high,
	// not critical.
	policy := numericPolicy(2.0, 5.0)
	out := Compare("notional_amount", "50000000", "52500000", policy)
	require.InDelta(t, 5.0, out.Deviation, 1e-12)

	d := Classify(out, policy)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
	assert.Equal(t, domain.RiskHigh, d.RiskScore)
}

func TestClassifyNumericCriticalTier(t *testing.T) {
	policy := numericPolicy(2.0, 5.0)
	out := Compare("notional_amount", "50000000", "53000000", policy)

	d := Classify(out, policy)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityCritical, d.Severity)
	assert.Equal(t, domain.RiskCritical, d.RiskScore)
	assert.Contains(t, d.Description, "critical variance")
	assert.Contains(t, d.Recommendation, "URGENT")
}

func TestClassifyDateTiers(t *testing.T) {
	policy := domain.FieldPolicy{
		FieldName: "settlement_date", Type: domain.TypeDate,
		Tolerance: 2, CriticalThreshold: 7, Importance: domain.ImportanceHigh,
	}

	out := Compare("settlement_date", "2025-01-15", "2025-01-20", policy)
	d := Classify(out, policy)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
	assert.Contains(t, d.Description, "5 days")

	out = Compare("settlement_date", "2025-01-15", "2025-01-27", policy)
	d = Classify(out, policy)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityCritical, d.Severity)
}

func TestClassifyCategoricalEscalatesByImportance(t *testing.T) {
	critical := domain.FieldPolicy{
		FieldName: "currency", Type: domain.TypeCategorical,
		Importance: domain.ImportanceCritical,
	}
	out := Compare("currency", "USD", "EUR", critical)
	d := Classify(out, critical)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityCritical, d.Severity)
	// The description names both the extracted and the reference value.
	assert.Contains(t, d.Description, "EUR")
	assert.Contains(t, d.Description, "USD")

	high := domain.FieldPolicy{
		FieldName: "payment_frequency", Type: domain.TypeCategorical,
		Importance: domain.ImportanceHigh,
	}
	out = Compare("payment_frequency", "Quarterly", "Monthly", high)
	d = Classify(out, high)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
}

func TestClassifyTextMismatchIsMinor(t *testing.T) {
	policy := domain.DefaultPolicy("legal_entity")
	out := Compare("legal_entity", "Barclays Bank PLC", "Barclays Capital", policy)

	d := Classify(out, policy)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityMinor, d.Severity)
	// Minor still contributes the high-tier points; contributions are only
	// ever 15 or 25.
	assert.Equal(t, domain.RiskHigh, d.RiskScore)
}

func TestClassifyFormatErrorIsHigh(t *testing.T) {
	policy := numericPolicy(2.0, 5.0)
	out := Compare("notional_amount", "50000000", "fifty million", policy)

	d := Classify(out, policy)
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
	assert.Equal(t, domain.RiskHigh, d.RiskScore)
	assert.Contains(t, d.Description, "format error")
}

func TestClassifyMissingIsHigh(t *testing.T) {
	out := domain.ComparisonOutcome{
		FieldName:      "fixed_rate",
		ReferenceValue: "4.75",
		Status:         domain.OutcomeMissing,
	}
	d := Classify(out, numericPolicy(0.05, 0.15))
	require.NotNil(t, d)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
	assert.Contains(t, d.Description, "missing")
}
