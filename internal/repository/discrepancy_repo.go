package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/veritrade/validator/internal/domain"
)

type DiscrepancyRepo struct {
	db *sql.DB
}

func NewDiscrepancyRepo(db *sql.DB) *DiscrepancyRepo {
	return &DiscrepancyRepo{db: db}
}

func (r *DiscrepancyRepo) BulkInsert(discs []domain.Discrepancy) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO discrepancies
		(id, session_id, field_name, severity, risk_score, reference_value,
		 extracted_value, deviation, description, recommendation, detected_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range discs {
		d := &discs[i]
		res, err := stmt.Exec(
			d.ID, d.SessionID, d.FieldName, string(d.Severity), d.RiskScore,
			d.ReferenceValue, d.ExtractedValue, d.Deviation, d.Description,
			nullableString(d.Recommendation), d.DetectedAt.Format(time.RFC3339),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// GetBySessionID returns all discrepancies recorded for a session, most
// severe first.
func (r *DiscrepancyRepo) GetBySessionID(sessionID string) ([]domain.Discrepancy, error) {
	rows, err := r.db.Query(
		`SELECT * FROM discrepancies WHERE session_id = ?
		 ORDER BY CASE severity
			WHEN 'critical' THEN 0
			WHEN 'high' THEN 1
			ELSE 2 END, field_name`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDiscrepancies(rows)
}

// ClearSession removes a session's discrepancies so a re-run starts clean.
func (r *DiscrepancyRepo) ClearSession(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM discrepancies WHERE session_id = ?", sessionID)
	return err
}

type DiscrepancyFilter struct {
	SessionID string
	Severity  string
	FieldName string
	Page      int
	Limit     int
}

func (r *DiscrepancyRepo) List(f DiscrepancyFilter) ([]domain.Discrepancy, int, error) {
	var clauses []string
	var args []any

	if f.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.Severity != "" {
		clauses = append(clauses, "severity = ?")
		args = append(args, f.Severity)
	}
	if f.FieldName != "" {
		clauses = append(clauses, "field_name = ?")
		args = append(args, f.FieldName)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM discrepancies"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	q := "SELECT * FROM discrepancies" + where + " ORDER BY detected_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	discs, err := scanDiscrepancies(rows)
	return discs, total, err
}

type DiscrepancySummary struct {
	TotalCount int            `json:"total_count"`
	BySeverity map[string]int `json:"by_severity"`
	ByField    map[string]int `json:"by_field"`
}

func (r *DiscrepancyRepo) GetSummary() (*DiscrepancySummary, error) {
	s := &DiscrepancySummary{
		BySeverity: make(map[string]int),
		ByField:    make(map[string]int),
	}

	if err := r.db.QueryRow("SELECT COUNT(*) FROM discrepancies").Scan(&s.TotalCount); err != nil {
		return nil, err
	}

	if err := scanGroupCount(r.db, "severity", s.BySeverity); err != nil {
		return nil, err
	}
	if err := scanGroupCount(r.db, "field_name", s.ByField); err != nil {
		return nil, err
	}

	return s, nil
}

// --- helpers ---

func scanGroupCount(db *sql.DB, col string, m map[string]int) error {
	rows, err := db.Query(
		"SELECT " + col + ", COUNT(*) FROM discrepancies GROUP BY " + col,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var v int
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		m[k] = v
	}
	return rows.Err()
}

func scanDiscrepancies(rows *sql.Rows) ([]domain.Discrepancy, error) {
	var discs []domain.Discrepancy
	for rows.Next() {
		var d domain.Discrepancy
		var sev, detectedAt string
		var recommendation sql.NullString

		err := rows.Scan(
			&d.ID, &d.SessionID, &d.FieldName, &sev, &d.RiskScore,
			&d.ReferenceValue, &d.ExtractedValue, &d.Deviation,
			&d.Description, &recommendation, &detectedAt,
		)
		if err != nil {
			return nil, err
		}

		d.Severity = domain.Severity(sev)
		if recommendation.Valid {
			d.Recommendation = recommendation.String
		}
		d.DetectedAt, _ = time.Parse(time.RFC3339, detectedAt)

		discs = append(discs, d)
	}
	return discs, rows.Err()
}
