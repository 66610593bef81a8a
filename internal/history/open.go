package history

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	_ "github.com/lib/pq" // register postgres driver

	"github.com/theirongolddev/costcast/internal/config"
	"github.com/theirongolddev/costcast/internal/store"
)

// DefaultPostgresQuery is used when history.query is empty.
const DefaultPostgresQuery = "SELECT year, cost FROM cost_history ORDER BY year"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the source named by cfg.History.Source. The returned closer
// releases any database handle and must be called once the source is done.
func Open(cfg config.Config) (Source, io.Closer, error) {
	h := cfg.History
	switch h.Source {
	case "", config.SourceSample:
		return Sample(), nopCloser{}, nil

	case config.SourceFile:
		if h.Path == "" {
			return nil, nil, errors.New("history.path is required for file source")
		}
		return File(h.Path), nopCloser{}, nil

	case config.SourceStore:
		path := h.Path
		if path == "" {
			path = config.StorePath()
		}
		st, err := store.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return SQL(st.DB(), store.ObservationsQuery, "store "+path), st, nil

	case config.SourcePostgres:
		if h.DSN == "" {
			return nil, nil, errors.New("history.dsn (or COSTCAST_PG_DSN) is required for postgres source")
		}
		db, err := sql.Open("postgres", h.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres: %w", err)
		}
		query := h.Query
		if query == "" {
			query = DefaultPostgresQuery
		}
		return SQL(db, query, "postgres"), db, nil

	case config.SourceHTTP:
		if h.URL == "" {
			return nil, nil, errors.New("history.url is required for http source")
		}
		return Remote(h.URL, h.Token), nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown history source %q", h.Source)
	}
}
