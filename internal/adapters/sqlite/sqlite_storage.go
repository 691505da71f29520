package sqlite

import (
	"context"
	"database/sql" // basic sql
	"fmt"

	"github.com/dappnode/validator-status/internal/application/domain"
	_ "github.com/mattn/go-sqlite3" // additional driver for sqlite
)

// Implements ports.ReportSink

type SQLiteStorage struct {
	DB *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite db: %w", err)
	}
	return &SQLiteStorage{DB: db}, nil
}

func migrate(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS status_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			generated_at DATETIME NOT NULL,
			node TEXT NOT NULL,
			total_keys INTEGER NOT NULL,
			total_validators INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS status_report_counts (
			report_id INTEGER NOT NULL REFERENCES status_reports(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (report_id, label)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON status_reports(generated_at);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.DB.Close()
}

// SaveReport upserts the report row by name and replaces its counts. Everything
// happens in one transaction.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report domain.StatusReport) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO status_reports (name, generated_at, node, total_keys, total_validators)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			generated_at=excluded.generated_at,
			node=excluded.node,
			total_keys=excluded.total_keys,
			total_validators=excluded.total_validators;`,
		report.Name, report.GeneratedAt.UTC(), string(report.Node), report.TotalKeys, report.TotalValidators,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert report %s: %w", report.Name, err)
	}

	var reportID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM status_reports WHERE name = ?`, report.Name).Scan(&reportID); err != nil {
		return fmt.Errorf("failed to look up report %s: %w", report.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM status_report_counts WHERE report_id = ?`, reportID); err != nil {
		return fmt.Errorf("failed to clear counts of report %s: %w", report.Name, err)
	}
	for _, label := range report.Histogram.Keys() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO status_report_counts (report_id, label, count) VALUES (?, ?, ?)`,
			reportID, label, report.Histogram[label],
		)
		if err != nil {
			return fmt.Errorf("failed to insert count %s of report %s: %w", label, report.Name, err)
		}
	}

	return tx.Commit()
}
