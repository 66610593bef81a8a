// Package forecast projects future yearly costs from a historical series
// with an ordinary least-squares linear trend.
package forecast

import (
	"errors"
	"fmt"
	"math"
)

// DefaultHorizon is the number of years forecast when the caller has no preference.
const DefaultHorizon = 5

var (
	// ErrInvalidHorizon is returned for a negative horizon.
	ErrInvalidHorizon = errors.New("invalid forecast horizon")
	// ErrInvalidObservation is returned when a historical cost is NaN or infinite.
	ErrInvalidObservation = errors.New("invalid historical observation")
)

// Observation is one historical (year, cost) data point.
type Observation struct {
	Year int     `json:"year" yaml:"year"`
	Cost float64 `json:"cost" yaml:"cost"`
}

// Series is a set of historical observations. Order is not significant.
type Series []Observation

// Point is one forecast output.
type Point struct {
	Year          int     `json:"year"`
	PredictedCost float64 `json:"predicted_cost"`
}

// Status distinguishes a usable forecast from a series that was too short.
type Status int

const (
	// Success means Points holds exactly horizon forecast points.
	Success Status = iota
	// InsufficientData means the series had fewer than two observations.
	InsufficientData
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case InsufficientData:
		return "insufficient_data"
	default:
		return "unknown"
	}
}

// MarshalText renders the status name for JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Line is a fitted trend cost = Slope*year + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	MeanYear  float64 `json:"mean_year"`
	MeanCost  float64 `json:"mean_cost"`
	// Degenerate is set when every observation shares one year. The line is
	// then flat at the mean cost.
	Degenerate bool `json:"degenerate,omitempty"`
}

// At evaluates the line at year. It uses the centred form so that exactly
// linear input reproduces exact values far from year zero.
func (l Line) At(year int) float64 {
	return l.MeanCost + l.Slope*(float64(year)-l.MeanYear)
}

// Result is the outcome of Forecast.
type Result struct {
	Status Status  `json:"status"`
	Points []Point `json:"points,omitempty"`
	Fit    *Line   `json:"fit,omitempty"`
}

// Fit computes the least-squares line over every observation with equal weight.
// The series must hold at least one observation.
func Fit(series Series) (Line, error) {
	if len(series) == 0 {
		return Line{}, fmt.Errorf("%w: empty series", ErrInvalidObservation)
	}

	n := float64(len(series))
	var sumX, sumY float64
	for _, o := range series {
		if math.IsNaN(o.Cost) || math.IsInf(o.Cost, 0) {
			return Line{}, fmt.Errorf("%w: year %d cost is not a finite number", ErrInvalidObservation, o.Year)
		}
		sumX += float64(o.Year)
		sumY += o.Cost
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for _, o := range series {
		dx := float64(o.Year) - meanX
		sxx += dx * dx
		sxy += dx * (o.Cost - meanY)
	}

	line := Line{MeanYear: meanX, MeanCost: meanY}
	if sxx == 0 {
		line.Degenerate = true
	} else {
		line.Slope = sxy / sxx
	}
	line.Intercept = meanY - line.Slope*meanX
	return line, nil
}

// Forecast fits a linear trend to series and extrapolates horizon yearly
// points starting the year after the latest observation.
//
// A series with fewer than two observations yields InsufficientData and a nil
// error. The input slice is not modified.
func Forecast(series Series, horizon int) (Result, error) {
	if horizon < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}
	if len(series) < 2 {
		return Result{Status: InsufficientData}, nil
	}

	line, err := Fit(series)
	if err != nil {
		return Result{}, err
	}

	maxYear := series[0].Year
	for _, o := range series[1:] {
		if o.Year > maxYear {
			maxYear = o.Year
		}
	}

	points := make([]Point, horizon)
	for i := range points {
		year := maxYear + i + 1
		points[i] = Point{Year: year, PredictedCost: line.At(year)}
	}

	return Result{Status: Success, Points: points, Fit: &line}, nil
}

// ForecastDefault is Forecast with DefaultHorizon.
func ForecastDefault(series Series) (Result, error) {
	return Forecast(series, DefaultHorizon)
}
