package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/veritrade/validator/internal/domain"
)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Insert(s *domain.ValidationSession) error {
	_, err := r.db.Exec(
		`INSERT INTO validation_sessions
		(id, session_name, trade_id, status, total_fields, passed_count,
		 critical_count, high_count, minor_count, total_risk_score, validated,
		 created_by, created_at, updated_at, completed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.SessionName, s.TradeID, string(s.Status), s.TotalFields,
		s.PassedCount, s.CriticalCount, s.HighCount, s.MinorCount,
		s.TotalRiskScore, boolToInt(s.Validated), s.CreatedBy,
		s.CreatedAt.Format(time.RFC3339),
		formatNullableTime(s.UpdatedAt), formatNullableTime(s.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID returns the session, or domain.ErrNotFound.
func (r *SessionRepo) GetByID(id string) (*domain.ValidationSession, error) {
	row := r.db.QueryRow("SELECT * FROM validation_sessions WHERE id = ?", id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return s, err
}

type SessionFilter struct {
	Status  string
	TradeID string
	Page    int
	Limit   int
}

func (r *SessionRepo) List(f SessionFilter) ([]domain.ValidationSession, int, error) {
	var clauses []string
	var args []any

	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if f.TradeID != "" {
		clauses = append(clauses, "trade_id = ?")
		args = append(args, f.TradeID)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM validation_sessions"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	q := "SELECT * FROM validation_sessions" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []domain.ValidationSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, rows.Err()
}

// UpdateStatus moves a session to a new lifecycle state. Terminal states
// also stamp completed_at.
func (r *SessionRepo) UpdateStatus(id string, status domain.SessionStatus, now time.Time) error {
	var completedAt any
	switch status {
	case domain.SessionCompleted, domain.SessionFailed, domain.SessionManualReview:
		completedAt = now.Format(time.RFC3339)
	}

	res, err := r.db.Exec(
		"UPDATE validation_sessions SET status = ?, updated_at = ?, completed_at = COALESCE(?, completed_at) WHERE id = ?",
		string(status), now.Format(time.RFC3339), completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordSummary persists a run's aggregate counts on the session.
func (r *SessionRepo) RecordSummary(id string, sum domain.ValidationSummary, now time.Time) error {
	res, err := r.db.Exec(
		`UPDATE validation_sessions SET
			total_fields = ?, passed_count = ?, critical_count = ?,
			high_count = ?, minor_count = ?, total_risk_score = ?,
			validated = 1, updated_at = ?
		 WHERE id = ?`,
		sum.TotalFields, sum.PassedCount, sum.CriticalCount, sum.HighCount,
		sum.MinorCount, sum.TotalRiskScore, now.Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("record summary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSession(row rowScanner) (*domain.ValidationSession, error) {
	var s domain.ValidationSession
	var status, createdAt string
	var validated int
	var updatedAt, completedAt sql.NullString

	err := row.Scan(
		&s.ID, &s.SessionName, &s.TradeID, &status, &s.TotalFields,
		&s.PassedCount, &s.CriticalCount, &s.HighCount, &s.MinorCount,
		&s.TotalRiskScore, &validated, &s.CreatedBy, &createdAt,
		&updatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = domain.SessionStatus(status)
	s.Validated = validated != 0
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	s.UpdatedAt = parseNullableTime(updatedAt)
	s.CompletedAt = parseNullableTime(completedAt)
	return &s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- term sheets ---

type TermSheetRepo struct {
	db *sql.DB
}

func NewTermSheetRepo(db *sql.DB) *TermSheetRepo {
	return &TermSheetRepo{db: db}
}

func (r *TermSheetRepo) Insert(ts *domain.TermSheet) error {
	fields, err := json.Marshal(ts.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO term_sheets
		(id, session_id, trade_id, fields_json, extraction_source,
		 extraction_confidence, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		ts.ID, ts.SessionID, nullableString(ts.TradeID), string(fields),
		ts.Source, ts.Confidence, ts.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert term sheet: %w", err)
	}
	return nil
}

// GetBySessionID returns the most recent term sheet for a session, or
// domain.ErrNotFound.
func (r *TermSheetRepo) GetBySessionID(sessionID string) (*domain.TermSheet, error) {
	row := r.db.QueryRow(
		"SELECT * FROM term_sheets WHERE session_id = ? ORDER BY created_at DESC LIMIT 1",
		sessionID,
	)

	var ts domain.TermSheet
	var tradeID sql.NullString
	var fieldsJSON, createdAt string

	err := row.Scan(&ts.ID, &ts.SessionID, &tradeID, &fieldsJSON, &ts.Source, &ts.Confidence, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if tradeID.Valid {
		ts.TradeID = tradeID.String
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &ts.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	ts.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &ts, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
