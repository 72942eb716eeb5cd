package domain

import "time"

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Risk score contributions per severity tier. These two values are the
// scoring currency of the whole system; every discrepancy contributes
// exactly one of them.
const (
	RiskHigh     = 15
	RiskCritical = 25
)

// OutcomeStatus tags a ComparisonOutcome. A format error does not abort the
// run; the classifier turns it into a high-severity discrepancy and the
// remaining fields are still compared.
type OutcomeStatus string

const (
	OutcomeOK          OutcomeStatus = "ok"
	OutcomeFormatError OutcomeStatus = "format_error"
	OutcomeMissing     OutcomeStatus = "missing"
)

// ComparisonOutcome is the result of comparing one extracted value against
// one reference value. Deviation is in the policy's unit (percent for
// numeric, days for dates, 0/1 for categorical, 0 for text).
type ComparisonOutcome struct {
	FieldName      string        `json:"field_name"`
	ReferenceValue string        `json:"reference_value"`
	ExtractedValue string        `json:"extracted_value"`
	Deviation      float64       `json:"deviation"`
	IsMatch        bool          `json:"is_match"`
	Status         OutcomeStatus `json:"status"`
}

// Discrepancy is derived 1:1 from a non-matching ComparisonOutcome and its
// FieldPolicy. Immutable once created.
type Discrepancy struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id,omitempty"`
	FieldName      string    `json:"field_name"`
	Severity       Severity  `json:"severity"`
	RiskScore      int       `json:"risk_score"`
	ReferenceValue string    `json:"reference_value"`
	ExtractedValue string    `json:"extracted_value"`
	Deviation      float64   `json:"deviation"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation,omitempty"`
	DetectedAt     time.Time `json:"detected_at"`
}

// ValidationSummary aggregates one validation run. TotalRiskScore is the
// saturating [0,100] sum of per-discrepancy contributions.
type ValidationSummary struct {
	TotalFields     int             `json:"total_fields"`
	PassedCount     int             `json:"passed_count"`
	CriticalCount   int             `json:"critical_count"`
	HighCount       int             `json:"high_count"`
	MinorCount      int             `json:"minor_count"`
	TotalRiskScore  int             `json:"total_risk_score"`
	ComplianceLevel ComplianceLevel `json:"compliance_level"`
	OverallStatus   OverallStatus   `json:"overall_status"`
}

type ComplianceLevel string

const (
	FullyCompliant      ComplianceLevel = "FULLY_COMPLIANT"
	ConditionalApproval ComplianceLevel = "CONDITIONAL_APPROVAL"
	RequiresReview      ComplianceLevel = "REQUIRES_REVIEW"
	NonCompliant        ComplianceLevel = "NON_COMPLIANT"
)

type OverallStatus string

const (
	StatusApproved       OverallStatus = "APPROVED"
	StatusRequiresReview OverallStatus = "REQUIRES_REVIEW"
)

// RegimeVerdict is one regulatory regime's view of a validation run.
type RegimeVerdict string

const (
	VerdictCompliant      RegimeVerdict = "compliant"
	VerdictNonCompliant   RegimeVerdict = "non_compliant"
	VerdictRequiresReview RegimeVerdict = "requires_review"
)

// ComplianceAssessment holds the three independent regime verdicts. It is
// a pure function of the critical and high issue counts and never reads
// the risk score.
type ComplianceAssessment struct {
	MiFIDII           RegimeVerdict `json:"mifid_ii_compliance"`
	FCA               RegimeVerdict `json:"fca_rules_compliance"`
	SEC               RegimeVerdict `json:"sec_regulations"`
	OverallRegulatory RegimeVerdict `json:"overall_regulatory_status"`
}
