package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trade_records (
			id TEXT PRIMARY KEY,
			trade_id TEXT UNIQUE NOT NULL,
			counterparty TEXT NOT NULL,
			notional_amount REAL NOT NULL,
			currency TEXT NOT NULL,
			trade_type TEXT NOT NULL,
			fixed_rate REAL NOT NULL,
			payment_frequency TEXT NOT NULL,
			reference_rate TEXT NOT NULL,
			legal_entity TEXT NOT NULL,
			settlement_date DATETIME NOT NULL,
			maturity_date DATETIME NOT NULL,
			status TEXT NOT NULL,
			created_by TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_records_trade_id ON trade_records(trade_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_records_status ON trade_records(status)`,

		`CREATE TABLE IF NOT EXISTS validation_sessions (
			id TEXT PRIMARY KEY,
			session_name TEXT NOT NULL,
			trade_id TEXT NOT NULL,
			status TEXT NOT NULL,
			total_fields INTEGER NOT NULL DEFAULT 0,
			passed_count INTEGER NOT NULL DEFAULT 0,
			critical_count INTEGER NOT NULL DEFAULT 0,
			high_count INTEGER NOT NULL DEFAULT 0,
			minor_count INTEGER NOT NULL DEFAULT 0,
			total_risk_score INTEGER NOT NULL DEFAULT 0,
			validated INTEGER NOT NULL DEFAULT 0,
			created_by TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME,
			completed_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_trade_id ON validation_sessions(trade_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_status ON validation_sessions(status)`,

		`CREATE TABLE IF NOT EXISTS term_sheets (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			trade_id TEXT,
			fields_json TEXT NOT NULL,
			extraction_source TEXT NOT NULL,
			extraction_confidence REAL NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES validation_sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_term_sheets_session ON term_sheets(session_id)`,

		`CREATE TABLE IF NOT EXISTS discrepancies (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			field_name TEXT NOT NULL,
			severity TEXT NOT NULL,
			risk_score INTEGER NOT NULL,
			reference_value TEXT NOT NULL,
			extracted_value TEXT NOT NULL,
			deviation REAL NOT NULL,
			description TEXT NOT NULL,
			recommendation TEXT,
			detected_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES validation_sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_discrepancies_session ON discrepancies(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_discrepancies_severity ON discrepancies(severity)`,

		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			session_id TEXT UNIQUE NOT NULL,
			action TEXT NOT NULL,
			reason TEXT NOT NULL,
			risk_score INTEGER NOT NULL,
			mifid_status TEXT NOT NULL,
			fca_status TEXT NOT NULL,
			sec_status TEXT NOT NULL,
			overall_status TEXT NOT NULL,
			total_discrepancies INTEGER NOT NULL,
			critical_issues INTEGER NOT NULL,
			high_issues INTEGER NOT NULL,
			decided_by TEXT NOT NULL,
			decided_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES validation_sessions(id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
