// Package report builds the plain-text project cost report.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/store"
)

// FileName is the name of the document written by WriteFile.
const FileName = "Project_Cost_Report.txt"

// Title heads every report.
const Title = "Project Cost Estimation Report"

var (
	// ErrZeroTotalCost is returned when the breakdown sums to zero.
	ErrZeroTotalCost = errors.New("total cost cannot be zero")
	// ErrInvalidDuration is returned when the duration is under one month.
	ErrInvalidDuration = errors.New("project duration must be at least 1 month")
)

var now = time.Now

// Request carries the inputs for a report.
type Request struct {
	ProjectName    string
	DurationMonths int
	Breakdown      estimate.Breakdown
	Currency       string
	// Forecast, when set, is appended as its own section.
	Forecast *forecast.Result
}

// Report is a validated, ready to render cost report.
type Report struct {
	ID             string
	GeneratedAt    time.Time
	ProjectName    string
	DurationMonths int
	Currency       string
	Breakdown      estimate.Breakdown
	Total          float64
	Forecast       *forecast.Result
}

// Build validates req and computes the total.
func Build(req Request) (Report, error) {
	total, err := estimate.ComputeTotal(req.Breakdown)
	if err != nil {
		return Report{}, err
	}
	if total <= 0 {
		return Report{}, ErrZeroTotalCost
	}
	if req.DurationMonths < 1 {
		return Report{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, req.DurationMonths)
	}

	return Report{
		ID:             uuid.NewString(),
		GeneratedAt:    now(),
		ProjectName:    req.ProjectName,
		DurationMonths: req.DurationMonths,
		Currency:       req.Currency,
		Breakdown:      req.Breakdown,
		Total:          total,
		Forecast:       req.Forecast,
	}, nil
}

// Amount renders v as the shortest exact decimal, e.g. 5000 or 1234.5.
func Amount(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func (r Report) money(v float64) string {
	if r.Currency == "" {
		return Amount(v)
	}
	return r.Currency + " " + Amount(v)
}

// Lines returns the report body in document order, title first.
func (r Report) Lines() []string {
	b := r.Breakdown
	lines := []string{
		Title,
		"Project Name: " + r.ProjectName,
		fmt.Sprintf("Project Duration: %d months", r.DurationMonths),
		"Labor Cost: " + r.money(b.Labor),
		"Material Cost: " + r.money(b.Material),
		"Equipment Cost: " + r.money(b.Equipment),
		"Miscellaneous Cost: " + r.money(b.Misc),
		"Total Project Cost: " + r.money(r.Total),
	}
	return append(lines, r.forecastLines()...)
}

func (r Report) forecastLines() []string {
	if r.Forecast == nil {
		return nil
	}
	out := []string{"", "Cost Forecast"}
	if r.Forecast.Status == forecast.InsufficientData {
		return append(out, "Not enough data for prediction")
	}
	for _, p := range r.Forecast.Points {
		rounded := decimal.NewFromFloat(p.PredictedCost).Round(2)
		cost := rounded.String()
		if r.Currency != "" {
			cost = r.Currency + " " + cost
		}
		out = append(out, fmt.Sprintf("%d: %s", p.Year, cost))
	}
	return out
}

// WriteTo writes the document, with a blank line under the title.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for i, line := range r.Lines() {
		c, err := fmt.Fprintln(bw, line)
		n += int64(c)
		if err != nil {
			return n, err
		}
		if i == 0 {
			c, err = fmt.Fprintln(bw)
			n += int64(c)
			if err != nil {
				return n, err
			}
		}
	}
	return n, bw.Flush()
}

// WriteFile writes the document into dir as FileName and returns its path.
func (r Report) WriteFile(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if _, err := r.WriteTo(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, f.Close()
}

// Estimate converts the report into a store record.
func (r Report) Estimate() store.Estimate {
	return store.Estimate{
		ID:             r.ID,
		Project:        r.ProjectName,
		DurationMonths: r.DurationMonths,
		Breakdown:      r.Breakdown,
		Total:          r.Total,
		Currency:       r.Currency,
		CreatedAt:      r.GeneratedAt,
	}
}
