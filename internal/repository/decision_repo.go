package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/veritrade/validator/internal/domain"
)

type DecisionRepo struct {
	db *sql.DB
}

func NewDecisionRepo(db *sql.DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

// Insert records a session's terminal decision. Decisions are
// one-per-session: a second insert for the same session fails with
// domain.ErrDuplicateDecision and leaves the original untouched.
func (r *DecisionRepo) Insert(d *domain.Decision) error {
	_, err := r.db.Exec(
		`INSERT INTO decisions
		(id, session_id, action, reason, risk_score, mifid_status, fca_status,
		 sec_status, overall_status, total_discrepancies, critical_issues,
		 high_issues, decided_by, decided_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		d.ID, d.SessionID, string(d.Action), d.Reason, d.RiskScore,
		string(d.Compliance.MiFIDII), string(d.Compliance.FCA),
		string(d.Compliance.SEC), string(d.Compliance.OverallRegulatory),
		d.TotalDiscrepancies, d.CriticalIssues, d.HighIssues,
		d.DecidedBy, d.DecidedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDecision
		}
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// GetBySessionID returns the session's decision, or domain.ErrNotFound when
// none has been submitted yet.
func (r *DecisionRepo) GetBySessionID(sessionID string) (*domain.Decision, error) {
	row := r.db.QueryRow("SELECT * FROM decisions WHERE session_id = ?", sessionID)

	var d domain.Decision
	var action, mifid, fca, sec, overall, decidedAt string

	err := row.Scan(
		&d.ID, &d.SessionID, &action, &d.Reason, &d.RiskScore,
		&mifid, &fca, &sec, &overall,
		&d.TotalDiscrepancies, &d.CriticalIssues, &d.HighIssues,
		&d.DecidedBy, &decidedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	d.Action = domain.DecisionAction(action)
	d.Compliance = domain.ComplianceAssessment{
		MiFIDII:           domain.RegimeVerdict(mifid),
		FCA:               domain.RegimeVerdict(fca),
		SEC:               domain.RegimeVerdict(sec),
		OverallRegulatory: domain.RegimeVerdict(overall),
	}
	d.DecidedAt, _ = time.Parse(time.RFC3339, decidedAt)
	return &d, nil
}

// isUniqueViolation detects the SQLite unique-constraint error on
// decisions.session_id without depending on driver error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
