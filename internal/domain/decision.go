package domain

import "time"

type DecisionAction string

const (
	ActionApprove      DecisionAction = "approve"
	ActionReject       DecisionAction = "reject"
	ActionManualReview DecisionAction = "manual_review"
)

// Valid reports whether the action is one of the three accepted values.
func (a DecisionAction) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionManualReview:
		return true
	}
	return false
}

// SessionStatusFor returns the terminal session status a decision implies.
func (a DecisionAction) SessionStatusFor() SessionStatus {
	switch a {
	case ActionReject:
		return SessionFailed
	case ActionManualReview:
		return SessionManualReview
	default:
		return SessionCompleted
	}
}

// Decision is the terminal outcome of a validation session. The compliance
// snapshot and counts are captured at submission time and never recomputed;
// a decision is an audit record, not a view.
type Decision struct {
	ID                 string               `json:"id"`
	SessionID          string               `json:"session_id"`
	Action             DecisionAction       `json:"decision"`
	Reason             string               `json:"decision_reason"`
	RiskScore          int                  `json:"risk_score"`
	Compliance         ComplianceAssessment `json:"compliance"`
	TotalDiscrepancies int                  `json:"total_discrepancies"`
	CriticalIssues     int                  `json:"critical_issues"`
	HighIssues         int                  `json:"high_issues"`
	DecidedBy          string               `json:"decided_by"`
	DecidedAt          time.Time            `json:"decided_at"`
}
