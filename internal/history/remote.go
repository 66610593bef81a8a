package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/costcast/internal/forecast"
)

const (
	remoteTimeout = 10 * time.Second
	maxRemoteBody = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized means the history endpoint rejected the token.
	ErrUnauthorized = errors.New("history: unauthorized (token missing or invalid)")
	// ErrRateLimited means the history endpoint asked us to back off.
	ErrRateLimited = errors.New("history: rate limited")
)

// HTTPSource fetches a series from an HTTP endpoint. The body is decoded by
// Content-Type: text/csv, application/yaml, or JSON for anything else.
type HTTPSource struct {
	URL   string
	token string
	http  *http.Client
}

// Remote returns a source for url. A non-empty token is sent as a bearer token.
func Remote(url, token string) *HTTPSource {
	return &HTTPSource{
		URL:   url,
		token: strings.TrimSpace(token),
		http:  &http.Client{},
	}
}

// Describe implements Source.
func (s *HTTPSource) Describe() string { return s.URL }

// Load performs the GET and decodes the response.
func (s *HTTPSource) Load(ctx context.Context) (forecast.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating history request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9, application/yaml;q=0.8")
	req.Header.Set("User-Agent", "github.com/theirongolddev/costcast/1.0")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	//nolint:gosec // URL comes from the user's config
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("history: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading history response: %w", err)
	}
	if len(body) > maxRemoteBody {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrMalformed, maxRemoteBody)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mediaType {
	case "text/csv":
		return ParseCSV(bytes.NewReader(body))
	case "application/yaml", "application/x-yaml", "text/yaml":
		return parseYAML(body)
	default:
		return parseJSON(body)
	}
}
