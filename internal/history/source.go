// Package history loads the historical cost series used for forecasting.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/theirongolddev/costcast/internal/forecast"
)

// ErrMalformed is returned when a history input has rows that cannot be read.
var ErrMalformed = errors.New("malformed history")

// Source yields a historical cost series.
type Source interface {
	Load(ctx context.Context) (forecast.Series, error)
	Describe() string
}

// sampleSeries is the placeholder history used when nothing else is configured.
var sampleSeries = forecast.Series{
	{Year: 2020, Cost: 10000},
	{Year: 2021, Cost: 12000},
	{Year: 2022, Cost: 14000},
	{Year: 2023, Cost: 16000},
	{Year: 2024, Cost: 18000},
}

type sample struct{}

// Sample returns the built-in five year series (2020..2024).
func Sample() Source { return sample{} }

func (sample) Load(context.Context) (forecast.Series, error) {
	out := make(forecast.Series, len(sampleSeries))
	copy(out, sampleSeries)
	return out, nil
}

func (sample) Describe() string { return "built-in sample" }

// Static wraps an in-memory series.
type Static struct {
	Series forecast.Series
	Name   string
}

// Load returns a copy of the wrapped series.
func (s Static) Load(context.Context) (forecast.Series, error) {
	out := make(forecast.Series, len(s.Series))
	copy(out, s.Series)
	return out, nil
}

// Describe implements Source.
func (s Static) Describe() string {
	if s.Name == "" {
		return "inline series"
	}
	return s.Name
}

// DBSource reads (year, cost) rows from any database/sql handle.
type DBSource struct {
	db    *sql.DB
	query string
	name  string
}

// SQL returns a source reading rows from db with query. The query must
// select exactly two columns, year and cost.
func SQL(db *sql.DB, query, name string) *DBSource {
	return &DBSource{db: db, query: query, name: name}
}

// Load runs the query.
func (s *DBSource) Load(ctx context.Context) (forecast.Series, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var series forecast.Series
	for rows.Next() {
		var o forecast.Observation
		if err := rows.Scan(&o.Year, &o.Cost); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		series = append(series, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history rows: %w", err)
	}
	return series, nil
}

// Describe implements Source.
func (s *DBSource) Describe() string { return s.name }
