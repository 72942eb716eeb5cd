package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateDecision = errors.New("decision already recorded for session")
)

type SessionStatus string

const (
	SessionPending      SessionStatus = "pending"
	SessionProcessing   SessionStatus = "processing"
	SessionCompleted    SessionStatus = "completed"
	SessionFailed       SessionStatus = "failed"
	SessionManualReview SessionStatus = "manual_review"
)

// ValidationSession tracks one termsheet-vs-trade validation.
// Lifecycle: pending -> processing -> {completed | failed | manual_review}.
// The terminal transition happens exactly once, when a decision is recorded.
type ValidationSession struct {
	ID          string        `json:"id"`
	SessionName string        `json:"session_name"`
	TradeID     string        `json:"trade_id"`
	Status      SessionStatus `json:"status"`

	// Populated after a validation run.
	TotalFields    int  `json:"total_fields"`
	PassedCount    int  `json:"passed_count"`
	CriticalCount  int  `json:"critical_count"`
	HighCount      int  `json:"high_count"`
	MinorCount     int  `json:"minor_count"`
	TotalRiskScore int  `json:"total_risk_score"`
	Validated      bool `json:"validated"`

	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
