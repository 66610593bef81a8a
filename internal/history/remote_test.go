package history

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/costcast/internal/config"
)

func TestRemote_ContentTypes(t *testing.T) {
	cases := map[string]string{
		"application/json":        `[{"year":2020,"cost":10000},{"year":2021,"cost":12000.5}]`,
		"text/csv; charset=utf-8": "year,cost\n2020,10000\n2021,12000.5\n",
		"application/yaml":        "- {year: 2020, cost: 10000}\n- {year: 2021, cost: 12000.5}\n",
		"":                        `[{"year":2020,"cost":10000},{"year":2021,"cost":12000.5}]`,
	}
	for ct, body := range cases {
		t.Run(ct, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ct != "" {
					w.Header().Set("Content-Type", ct)
				}
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			got, err := Remote(srv.URL, "").Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRemote_SendsToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := Remote(srv.URL, " secret ").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestRemote_StatusErrors(t *testing.T) {
	cases := map[int]error{
		http.StatusUnauthorized:    ErrUnauthorized,
		http.StatusForbidden:       ErrUnauthorized,
		http.StatusTooManyRequests: ErrRateLimited,
	}
	for code, wantErr := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
		}))
		_, err := Remote(srv.URL, "").Load(context.Background())
		assert.ErrorIs(t, err, wantErr, "status %d", code)
		srv.Close()
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err := Remote(srv.URL, "").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestRemote_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"year":`))
	}))
	defer srv.Close()

	_, err := Remote(srv.URL, "").Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRemote_OversizedBodyRejected(t *testing.T) {
	var body strings.Builder
	body.WriteString("year,cost\n")
	for year := 1; body.Len() <= maxRemoteBody; year++ {
		fmt.Fprintf(&body, "%d,99999999999\n", year)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body.String()))
	}))
	defer srv.Close()

	series, err := Remote(srv.URL, "").Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Nil(t, series)
}

func TestRemote_BodyAtLimitAccepted(t *testing.T) {
	row := "2020,10000\n"
	payload := strings.Repeat(" ", maxRemoteBody-len(row)) + row
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	series, err := Remote(srv.URL, "").Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, series, 1)
}

func TestOpen_HTTP(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.Source = config.SourceHTTP
	_, _, err := Open(cfg)
	assert.Error(t, err, "http source without url")

	cfg.History.URL = "http://127.0.0.1:1/history"
	src, closer, err := Open(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1/history", src.Describe())
	assert.NoError(t, closer.Close())
}
