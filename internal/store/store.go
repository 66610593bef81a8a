// Package store provides a SQLite-backed store for cost history and saved estimates.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/forecast"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ObservationsQuery selects the stored history in year order.
const ObservationsQuery = "SELECT year, cost FROM observations ORDER BY year"

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Estimate is one saved cost estimate.
type Estimate struct {
	ID             string
	Project        string
	DurationMonths int
	Breakdown      estimate.Breakdown
	Total          float64
	Currency       string
	CreatedAt      time.Time
}

// Open opens or creates the store database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the handle so the history package can query it directly.
func (s *Store) DB() *sql.DB {
	return s.db
}

// PutObservation records the cost for a year, replacing any existing value.
func (s *Store) PutObservation(ctx context.Context, o forecast.Observation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO observations (year, cost, recorded_at) VALUES (?, ?, ?)`,
		o.Year, o.Cost, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving observation %d: %w", o.Year, err)
	}
	return nil
}

// PutSeries records every observation in one transaction. Later entries for
// the same year win.
func (s *Store) PutSeries(ctx context.Context, series forecast.Series) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, o := range series {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO observations (year, cost, recorded_at) VALUES (?, ?, ?)`,
			o.Year, o.Cost, now); err != nil {
			return fmt.Errorf("saving observation %d: %w", o.Year, err)
		}
	}
	return tx.Commit()
}

// DeleteObservation removes the observation for a year.
func (s *Store) DeleteObservation(ctx context.Context, year int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM observations WHERE year = ?", year)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("year %d: %w", year, ErrNotFound)
	}
	return nil
}

// Observations returns the stored history in year order.
func (s *Store) Observations(ctx context.Context) (forecast.Series, error) {
	rows, err := s.db.QueryContext(ctx, ObservationsQuery)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var series forecast.Series
	for rows.Next() {
		var o forecast.Observation
		if err := rows.Scan(&o.Year, &o.Cost); err != nil {
			return nil, err
		}
		series = append(series, o)
	}
	return series, rows.Err()
}

// ObservationCount returns the number of stored years.
func (s *Store) ObservationCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM observations").Scan(&count)
	return count, err
}

// createdLayout is fixed width so created_at sorts correctly as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SaveEstimate stores an estimate. CreatedAt defaults to now.
func (s *Store) SaveEstimate(ctx context.Context, e Estimate) error {
	if e.ID == "" {
		return errors.New("estimate id is required")
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO estimates
		(id, project, duration_months, labor, material, equipment, misc, total, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Project, e.DurationMonths,
		e.Breakdown.Labor, e.Breakdown.Material, e.Breakdown.Equipment, e.Breakdown.Misc,
		e.Total, e.Currency, created.UTC().Format(createdLayout),
	)
	if err != nil {
		return fmt.Errorf("saving estimate %s: %w", e.ID, err)
	}
	return nil
}

// ListEstimates returns the most recent estimates first. limit <= 0 means all.
func (s *Store) ListEstimates(ctx context.Context, limit int) ([]Estimate, error) {
	query := `SELECT id, project, duration_months, labor, material, equipment, misc,
		total, currency, created_at FROM estimates ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Estimate
	for rows.Next() {
		var e Estimate
		var created string
		err := rows.Scan(&e.ID, &e.Project, &e.DurationMonths,
			&e.Breakdown.Labor, &e.Breakdown.Material, &e.Breakdown.Equipment, &e.Breakdown.Misc,
			&e.Total, &e.Currency, &created)
		if err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(createdLayout, created)
		out = append(out, e)
	}
	return out, rows.Err()
}
