package domain

type SemanticType string

const (
	TypeNumeric     SemanticType = "numeric"
	TypeDate        SemanticType = "date"
	TypeCategorical SemanticType = "categorical"
	TypeText        SemanticType = "text"
)

type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// FieldPolicy describes how one trade field is compared. Tolerance and
// CriticalThreshold share a unit: relative percent for numeric fields,
// absolute days for date fields. Both are ignored for categorical and
// text fields, where any mismatch is a discrepancy.
type FieldPolicy struct {
	FieldName         string       `json:"field_name"`
	Type              SemanticType `json:"type"`
	Tolerance         float64      `json:"tolerance"`
	CriticalThreshold float64      `json:"critical_threshold"`
	Importance        Importance   `json:"importance"`
}

// DefaultPolicy is applied to any field without a registered policy, so an
// unregistered field is still compared (trimmed text equality) rather than
// silently ignored.
func DefaultPolicy(fieldName string) FieldPolicy {
	return FieldPolicy{
		FieldName:  fieldName,
		Type:       TypeText,
		Importance: ImportanceMedium,
	}
}

// DefaultPolicies returns the built-in rule registry for interest rate swap
// termsheets. Callers may override any entry per validation run.
func DefaultPolicies() map[string]FieldPolicy {
	policies := []FieldPolicy{
		{FieldName: "notional_amount", Type: TypeNumeric, Tolerance: 2.0, CriticalThreshold: 5.0, Importance: ImportanceCritical},
		{FieldName: "fixed_rate", Type: TypeNumeric, Tolerance: 0.05, CriticalThreshold: 0.15, Importance: ImportanceCritical},
		{FieldName: "interest_rate", Type: TypeNumeric, Tolerance: 0.25, CriticalThreshold: 0.5, Importance: ImportanceHigh},
		{FieldName: "settlement_date", Type: TypeDate, Tolerance: 2, CriticalThreshold: 7, Importance: ImportanceHigh},
		{FieldName: "effective_date", Type: TypeDate, Tolerance: 1, CriticalThreshold: 5, Importance: ImportanceHigh},
		{FieldName: "maturity_date", Type: TypeDate, Tolerance: 1, CriticalThreshold: 5, Importance: ImportanceHigh},
		{FieldName: "currency", Type: TypeCategorical, Importance: ImportanceCritical},
		{FieldName: "payment_frequency", Type: TypeCategorical, Importance: ImportanceHigh},
		{FieldName: "counterparty", Type: TypeCategorical, Importance: ImportanceHigh},
		{FieldName: "trade_type", Type: TypeCategorical, Importance: ImportanceHigh},
		{FieldName: "reference_rate", Type: TypeText, Importance: ImportanceMedium},
		{FieldName: "legal_entity", Type: TypeText, Importance: ImportanceMedium},
	}

	m := make(map[string]FieldPolicy, len(policies))
	for _, p := range policies {
		m[p.FieldName] = p
	}
	return m
}

// PolicyFor looks up the policy for a field, falling back to the default
// text policy when the field is unregistered.
func PolicyFor(fieldName string, policies map[string]FieldPolicy) FieldPolicy {
	if p, ok := policies[fieldName]; ok {
		if p.FieldName == "" {
			p.FieldName = fieldName
		}
		return p
	}
	return DefaultPolicy(fieldName)
}
