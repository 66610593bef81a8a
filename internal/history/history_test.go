package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/costcast/internal/config"
	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/store"
)

var want = forecast.Series{
	{Year: 2020, Cost: 10000},
	{Year: 2021, Cost: 12000.5},
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSample_ReturnsCopy(t *testing.T) {
	s, err := Sample().Load(context.Background())
	require.NoError(t, err)
	require.Len(t, s, 5)
	assert.Equal(t, 2020, s[0].Year)
	assert.Equal(t, 18000.0, s[4].Cost)

	s[0].Cost = -1
	again, _ := Sample().Load(context.Background())
	assert.Equal(t, 10000.0, again[0].Cost)
}

func TestFile_Formats(t *testing.T) {
	cases := map[string]string{
		"h.csv":  "year,cost\n2020,10000\n2021, 12000.5\n",
		"h.json": `[{"year":2020,"cost":10000},{"year":2021,"cost":12000.5}]`,
		"h.yaml": "- year: 2020\n  cost: 10000\n- year: 2021\n  cost: 12000.5\n",
		"h.yml":  "- {year: 2020, cost: 10000}\n- {year: 2021, cost: 12000.5}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := File(writeFile(t, name, body)).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseCSV_NoHeader(t *testing.T) {
	got, err := ParseCSV(strings.NewReader("2020,10000\n2021,12000.5\n"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseCSV_CountsMalformed(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("year,cost\n2020,10000\nabc,1\n2022\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "2 bad rows")
	assert.Contains(t, err.Error(), "row 3")
}

func TestFile_Unsupported(t *testing.T) {
	_, err := File(writeFile(t, "h.txt", "x")).Load(context.Background())
	assert.Error(t, err)
}

func TestFile_BadJSON(t *testing.T) {
	_, err := File(writeFile(t, "h.json", "{")).Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSQL_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT year, cost FROM cost_history").
		WillReturnRows(sqlmock.NewRows([]string{"year", "cost"}).
			AddRow(2020, 10000.0).
			AddRow(2021, 12000.5))

	got, err := SQL(db, DefaultPostgresQuery, "postgres").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("relation does not exist"))

	_, err = SQL(db, "SELECT year, cost FROM nope", "pg").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying history")
}

func TestOpen_Sources(t *testing.T) {
	cfg := config.DefaultConfig()

	src, closer, err := Open(cfg)
	require.NoError(t, err)
	assert.Equal(t, "built-in sample", src.Describe())
	assert.NoError(t, closer.Close())

	cfg.History.Source = config.SourceFile
	_, _, err = Open(cfg)
	assert.Error(t, err, "file source without path")

	cfg.History.Source = config.SourcePostgres
	cfg.History.DSN = ""
	_, _, err = Open(cfg)
	assert.Error(t, err, "postgres source without dsn")

	cfg.History.Source = "ftp"
	_, _, err = Open(cfg)
	assert.Error(t, err)
}

func TestOpen_Store(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "costcast.db")

	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.PutSeries(ctx, want))
	require.NoError(t, st.Close())

	cfg := config.DefaultConfig()
	cfg.History.Source = config.SourceStore
	cfg.History.Path = path

	src, closer, err := Open(cfg)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
