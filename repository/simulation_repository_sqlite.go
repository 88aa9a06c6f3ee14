package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/kayleers/clearledger-sub001/domain"
)

const simulationsSchema = `
CREATE TABLE IF NOT EXISTS simulations (
	id             TEXT PRIMARY KEY,
	kind           TEXT NOT NULL,
	request        TEXT NOT NULL,
	outcome        TEXT NOT NULL,
	months         INTEGER NOT NULL,
	total_interest REAL NOT NULL,
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_simulations_created_at ON simulations(created_at);
`

// SimulationRepositorySQLite stores the audit log in a SQLite file.
type SimulationRepositorySQLite struct {
	conn *sql.DB
	path string
}

// NewSimulationRepositorySQLite opens (and creates if needed) the database at
// path and applies the schema.
func NewSimulationRepositorySQLite(ctx context.Context, path string) (*SimulationRepositorySQLite, error) {
	if !strings.HasPrefix(path, "file:") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = absPath
	}

	conn, err := sql.Open("sqlite", buildConnectionString(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, simulationsSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SimulationRepositorySQLite{conn: conn, path: path}, nil
}

func buildConnectionString(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep +
		"_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"
}

func (r *SimulationRepositorySQLite) Save(ctx context.Context, record domain.SimulationRecord) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO simulations (id, kind, request, outcome, months, total_interest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Kind,
		record.Request,
		string(record.Outcome),
		record.Months,
		record.TotalInterest,
		record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation %s: %w", record.ID, err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (r *SimulationRepositorySQLite) List(ctx context.Context, limit int) ([]domain.SimulationRecord, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, kind, request, outcome, months, total_interest, created_at
		 FROM simulations
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulations: %w", err)
	}
	defer rows.Close()

	records := []domain.SimulationRecord{}
	for rows.Next() {
		var (
			rec       domain.SimulationRecord
			outcome   string
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Request, &outcome, &rec.Months, &rec.TotalInterest, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		rec.Outcome = domain.Outcome(outcome)
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate simulations: %w", err)
	}
	return records, nil
}

// Path returns the database file path.
func (r *SimulationRepositorySQLite) Path() string {
	return r.path
}

func (r *SimulationRepositorySQLite) Close() error {
	return r.conn.Close()
}
