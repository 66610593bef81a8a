package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/pipeline"
	"github.com/theirongolddev/costcast/internal/report"
)

const maxBodyBytes = 1 << 20

type shareJSON struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Fraction float64 `json:"fraction"`
}

type totalResponse struct {
	Total  float64     `json:"total"`
	Shares []shareJSON `json:"shares"`
}

type forecastRequest struct {
	Series  forecast.Series `json:"series"`
	Horizon *int            `json:"horizon,omitempty"`
}

type reportRequest struct {
	ProjectName     string  `json:"project_name"`
	DurationMonths  int     `json:"duration_months"`
	Labor           float64 `json:"labor"`
	Material        float64 `json:"material"`
	Equipment       float64 `json:"equipment"`
	Misc            float64 `json:"misc"`
	Currency        string  `json:"currency,omitempty"`
	IncludeForecast bool    `json:"include_forecast,omitempty"`
}

type reportResponse struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Total       float64   `json:"total"`
	Lines       []string  `json:"lines"`
}

type summaryResponse struct {
	totalResponse
	Source   string          `json:"source"`
	Forecast forecast.Result `json:"forecast"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body: "+err.Error()))
		return false
	}
	return true
}

func parseAmount(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", estimate.ErrInvalidInput, v)
	}
	return f, nil
}

func toShares(shares []estimate.Share) []shareJSON {
	out := make([]shareJSON, len(shares))
	for i, s := range shares {
		out[i] = shareJSON{Name: s.Name, Amount: s.Amount, Fraction: s.Fraction}
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	var b estimate.Breakdown
	if !decode(w, r, &b) {
		return
	}
	total, err := estimate.ComputeTotal(b)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	shares, err := estimate.Shares(b)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.publishEvent(Event{Type: "total", Total: total})
	writeJSON(w, http.StatusOK, totalResponse{Total: total, Shares: toShares(shares)})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if !decode(w, r, &req) {
		return
	}

	horizon := s.cfg.Horizon
	if req.Horizon != nil {
		horizon = *req.Horizon
	}

	series := req.Series
	if series == nil {
		loaded, err := s.cfg.Source.Load(r.Context())
		if err != nil {
			s.log.WithError(err).Warn("loading history")
			writeError(w, http.StatusBadGateway, err)
			return
		}
		series = loaded
	}

	res, err := forecast.Forecast(series, horizon)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.publishEvent(Event{Type: "forecast", Points: len(res.Points)})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !decode(w, r, &req) {
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	build := report.Request{
		ProjectName:    req.ProjectName,
		DurationMonths: req.DurationMonths,
		Breakdown: estimate.Breakdown{
			Labor: req.Labor, Material: req.Material, Equipment: req.Equipment, Misc: req.Misc,
		},
		Currency: currency,
	}

	rep, err := report.Build(build)
	switch {
	case errors.Is(err, report.ErrZeroTotalCost):
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.IncludeForecast {
		series, err := s.cfg.Source.Load(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		res, err := forecast.Forecast(series, s.cfg.Horizon)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		rep.Forecast = &res
	}

	if s.cfg.Store != nil {
		if err := s.cfg.Store.SaveEstimate(r.Context(), rep.Estimate()); err != nil {
			s.log.WithError(err).WithField("id", rep.ID).Warn("saving estimate")
		}
	}

	s.publishEvent(Event{Type: "report", Total: rep.Total, Timestamp: rep.GeneratedAt})
	writeJSON(w, http.StatusOK, reportResponse{
		ID:          rep.ID,
		GeneratedAt: rep.GeneratedAt,
		Total:       rep.Total,
		Lines:       rep.Lines(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var b estimate.Breakdown
	q := r.URL.Query()
	for name, dst := range map[string]*float64{
		"labor": &b.Labor, "material": &b.Material, "equipment": &b.Equipment, "misc": &b.Misc,
	} {
		if v := q.Get(name); v != "" {
			f, err := parseAmount(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			*dst = f
		}
	}

	sum, err := pipeline.Run(r.Context(), pipeline.Input{Breakdown: b, Source: s.cfg.Source, Horizon: s.cfg.Horizon})
	if err != nil {
		code := http.StatusBadGateway
		if pipeline.IsInputError(err) {
			code = http.StatusBadRequest
		}
		writeError(w, code, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		totalResponse: totalResponse{Total: sum.Total, Shares: toShares(sum.Shares)},
		Source:        sum.Source,
		Forecast:      sum.Forecast,
	})
}
