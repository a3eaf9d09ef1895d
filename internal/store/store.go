// Package store persists finished runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/wesleyorama2/salvo/internal/shooter"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	method     TEXT NOT NULL,
	url        TEXT NOT NULL,
	guns       INTEGER NOT NULL,
	repeat     INTEGER NOT NULL,
	start_time INTEGER NOT NULL,
	duration   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS shots (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	gun_id      INTEGER NOT NULL,
	iter_id     INTEGER NOT NULL,
	timestamp   INTEGER NOT NULL,
	latency     INTEGER NOT NULL,
	status_code INTEGER NOT NULL,
	bytes       INTEGER NOT NULL,
	err         INTEGER NOT NULL,
	result      TEXT NOT NULL,
	extracted   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shots_run ON shots(run_id);
`

// RunSummary is a stored run without its shots.
type RunSummary struct {
	ID        string        `json:"id" yaml:"id"`
	Method    string        `json:"method" yaml:"method"`
	URL       string        `json:"url" yaml:"url"`
	Guns      int           `json:"guns" yaml:"guns"`
	Repeat    int           `json:"repeat" yaml:"repeat"`
	StartTime time.Time     `json:"startTime" yaml:"startTime"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Shots     int64         `json:"shots" yaml:"shots"`
	Failed    int64         `json:"failed" yaml:"failed"`
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. A path may carry a
// "sqlite://" or "sqlite:" prefix.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(path), "sqlite://"), "sqlite:")
	if dsn == "" {
		return nil, fmt.Errorf("empty database path")
	}

	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun stores run and all of its shots in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *shooter.Run) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, method, url, guns, repeat, start_time, duration) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Method, run.URL, run.Guns, run.Repeat, run.StartTime.UnixNano(), int64(run.Duration))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO shots (run_id, gun_id, iter_id, timestamp, latency, status_code, bytes, err, result, extracted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare shot insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range run.Results {
		_, err = stmt.ExecContext(ctx,
			run.ID, res.GunID, res.IterID, res.Timestamp.UnixNano(), int64(res.Latency),
			res.StatusCode, res.Bytes, res.Err, res.Result, res.Extracted)
		if err != nil {
			return fmt.Errorf("failed to insert shot %d/%d: %w", res.GunID, res.IterID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT r.id, r.method, r.url, r.guns, r.repeat, r.start_time, r.duration,
		       COUNT(s.run_id),
		       COALESCE(SUM(CASE WHEN s.err = 1 OR s.status_code >= 400 THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN shots s ON s.run_id = r.id
		GROUP BY r.id
		ORDER BY r.start_time DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			summary   RunSummary
			startTime int64
			duration  int64
		)
		if err := rows.Scan(&summary.ID, &summary.Method, &summary.URL, &summary.Guns, &summary.Repeat,
			&startTime, &duration, &summary.Shots, &summary.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		summary.StartTime = time.Unix(0, startTime)
		summary.Duration = time.Duration(duration)
		runs = append(runs, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// GetRun loads a stored run with its shots ordered by gun and iteration.
func (s *Store) GetRun(ctx context.Context, id string) (*shooter.Run, error) {
	run := &shooter.Run{ID: id}
	var startTime, duration int64

	err := s.db.QueryRowContext(ctx,
		`SELECT method, url, guns, repeat, start_time, duration FROM runs WHERE id = ?`, id).
		Scan(&run.Method, &run.URL, &run.Guns, &run.Repeat, &startTime, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	run.StartTime = time.Unix(0, startTime)
	run.Duration = time.Duration(duration)
	run.EndTime = run.StartTime.Add(run.Duration)

	rows, err := s.db.QueryContext(ctx,
		`SELECT gun_id, iter_id, timestamp, latency, status_code, bytes, err, result, extracted
		 FROM shots WHERE run_id = ? ORDER BY gun_id, iter_id`, id)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res       shooter.ShootResult
			timestamp int64
			latency   int64
		)
		if err := rows.Scan(&res.GunID, &res.IterID, &timestamp, &latency, &res.StatusCode,
			&res.Bytes, &res.Err, &res.Result, &res.Extracted); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		res.Timestamp = time.Unix(0, timestamp)
		res.Latency = time.Duration(latency)
		run.Results = append(run.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return run, nil
}
