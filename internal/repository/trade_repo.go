package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/veritrade/validator/internal/domain"
)

type TradeRepo struct {
	db *sql.DB
}

func NewTradeRepo(db *sql.DB) *TradeRepo {
	return &TradeRepo{db: db}
}

func (r *TradeRepo) Insert(t *domain.TradeRecord) error {
	_, err := r.db.Exec(
		`INSERT INTO trade_records
		(id, trade_id, counterparty, notional_amount, currency, trade_type,
		 fixed_rate, payment_frequency, reference_rate, legal_entity,
		 settlement_date, maturity_date, status, created_by, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.TradeID, t.Counterparty, t.NotionalAmount, t.Currency,
		t.TradeType, t.FixedRate, t.PaymentFreq, t.ReferenceRate, t.LegalEntity,
		t.SettlementDate.Format(time.RFC3339), t.MaturityDate.Format(time.RFC3339),
		t.Status, t.CreatedBy, t.CreatedAt.Format(time.RFC3339),
		formatNullableTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

func (r *TradeRepo) BulkInsert(trades []domain.TradeRecord) (int, error) {
	sqlTx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(
		`INSERT OR IGNORE INTO trade_records
		(id, trade_id, counterparty, notional_amount, currency, trade_type,
		 fixed_rate, payment_frequency, reference_rate, legal_entity,
		 settlement_date, maturity_date, status, created_by, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range trades {
		t := &trades[i]
		res, err := stmt.Exec(
			t.ID, t.TradeID, t.Counterparty, t.NotionalAmount, t.Currency,
			t.TradeType, t.FixedRate, t.PaymentFreq, t.ReferenceRate, t.LegalEntity,
			t.SettlementDate.Format(time.RFC3339), t.MaturityDate.Format(time.RFC3339),
			t.Status, t.CreatedBy, t.CreatedAt.Format(time.RFC3339),
			formatNullableTime(t.UpdatedAt),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert row %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *TradeRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM trade_records").Scan(&count)
	return count, err
}

// GetByTradeID returns the trade record with the given business trade ID,
// or domain.ErrNotFound.
func (r *TradeRepo) GetByTradeID(tradeID string) (*domain.TradeRecord, error) {
	row := r.db.QueryRow("SELECT * FROM trade_records WHERE trade_id = ?", tradeID)
	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return t, err
}

type TradeFilter struct {
	Status       string
	Counterparty string
	Page         int
	Limit        int
}

func (r *TradeRepo) List(f TradeFilter) ([]domain.TradeRecord, int, error) {
	var clauses []string
	var args []any

	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if f.Counterparty != "" {
		clauses = append(clauses, "counterparty = ?")
		args = append(args, f.Counterparty)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trade_records"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	q := "SELECT * FROM trade_records" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trades []domain.TradeRecord
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, 0, err
		}
		trades = append(trades, *t)
	}
	return trades, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	var settlementAt, maturityAt, createdAt string
	var updatedAt sql.NullString

	err := row.Scan(
		&t.ID, &t.TradeID, &t.Counterparty, &t.NotionalAmount, &t.Currency,
		&t.TradeType, &t.FixedRate, &t.PaymentFreq, &t.ReferenceRate,
		&t.LegalEntity, &settlementAt, &maturityAt, &t.Status, &t.CreatedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.SettlementDate, _ = time.Parse(time.RFC3339, settlementAt)
	t.MaturityDate, _ = time.Parse(time.RFC3339, maturityAt)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt = parseNullableTime(updatedAt)
	return &t, nil
}

// --- shared helpers ---

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
