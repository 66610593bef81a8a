// Package pipeline ties the estimate, history and forecast steps together.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/history"
)

// Input holds everything a full run needs. A nil Source means the built-in
// sample history.
type Input struct {
	Breakdown estimate.Breakdown
	Source    history.Source
	Horizon   int
}

// Summary is the combined result of one run.
type Summary struct {
	Breakdown estimate.Breakdown
	Total     float64
	Shares    []estimate.Share
	History   forecast.Series
	Source    string
	Forecast  forecast.Result
}

// Run computes the total and shares, then loads history and forecasts it.
// Too little history is reported through Forecast.Status, not as an error.
func Run(ctx context.Context, in Input) (Summary, error) {
	total, err := estimate.ComputeTotal(in.Breakdown)
	if err != nil {
		return Summary{}, err
	}
	shares, err := estimate.Shares(in.Breakdown)
	if err != nil {
		return Summary{}, err
	}

	src := in.Source
	if src == nil {
		src = history.Sample()
	}
	series, err := src.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading history from %s: %w", src.Describe(), err)
	}

	res, err := forecast.Forecast(series, in.Horizon)
	if err != nil {
		return Summary{}, fmt.Errorf("forecasting: %w", err)
	}

	return Summary{
		Breakdown: in.Breakdown,
		Total:     total,
		Shares:    shares,
		History:   series,
		Source:    src.Describe(),
		Forecast:  res,
	}, nil
}

// IsInputError reports whether err came from invalid caller input rather
// than from a failing history backend.
func IsInputError(err error) bool {
	return errors.Is(err, estimate.ErrInvalidInput) ||
		errors.Is(err, forecast.ErrInvalidHorizon) ||
		errors.Is(err, forecast.ErrInvalidObservation)
}
