// Package inventory archives completed runs in SQLite.
//
// The correlation accumulators themselves are per-run and in-memory; the
// archive only stores the final correlated rows, mirroring the CSV
// artifact, so successive runs can be compared without keeping old CSVs
// around. The archive is optional and enabled by a database path.
package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mactrace/internal/domain"
)

// RunSummary describes one archived run.
type RunSummary struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	Mode        string // "arp" or "overlay"
	L2Devices   int
	L3Devices   int
	RecordCount int
}

// Store is a SQLite-backed run archive.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the archive database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		mode TEXT NOT NULL,
		l2_devices INTEGER NOT NULL,
		l3_devices INTEGER NOT NULL,
		record_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		run_id INTEGER NOT NULL,
		hostname TEXT NOT NULL DEFAULT '',
		ip TEXT NOT NULL,
		mac TEXT NOT NULL,
		switch TEXT NOT NULL,
		port TEXT NOT NULL,
		vlan TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
	CREATE INDEX IF NOT EXISTS idx_records_mac ON records(mac);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun archives a completed run and its correlated records in one
// transaction, returning the run's archive ID.
func (s *Store) SaveRun(ctx context.Context, summary RunSummary, records []domain.CorrelatedRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, mode, l2_devices, l3_devices, record_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		summary.StartedAt, summary.FinishedAt, summary.Mode,
		summary.L2Devices, summary.L3Devices, len(records),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, hostname, ip, mac, switch, port, vlan)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, r.Hostname, r.IP, r.Mac, r.Device, r.Port, r.Vlan); err != nil {
			return 0, fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return runID, nil
}

// RecentRuns returns the newest archived runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, mode, l2_devices, l3_devices, record_count
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Mode,
			&r.L2Devices, &r.L3Devices, &r.RecordCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RecordsForRun loads the correlated records archived for one run.
func (s *Store) RecordsForRun(ctx context.Context, runID int64) ([]domain.CorrelatedRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hostname, ip, mac, switch, port, vlan
		FROM records WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.CorrelatedRecord
	for rows.Next() {
		var r domain.CorrelatedRecord
		if err := rows.Scan(&r.Hostname, &r.IP, &r.Mac, &r.Device, &r.Port, &r.Vlan); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
