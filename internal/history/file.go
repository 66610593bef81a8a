package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/costcast/internal/forecast"
)

// FileSource reads a series from a csv, json or yaml file.
type FileSource struct {
	Path string
}

// File returns a source for path. The format is chosen by extension.
func File(path string) *FileSource {
	return &FileSource{Path: path}
}

// Describe implements Source.
func (f *FileSource) Describe() string { return f.Path }

// Load reads and decodes the file.
func (f *FileSource) Load(_ context.Context) (forecast.Series, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported history file type %q", ext)
	}
}

// ParseCSV reads "year,cost" rows. A header row is optional. Rows that do not
// parse are counted and reported together.
func ParseCSV(r io.Reader) (forecast.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var (
		series    forecast.Series
		malformed int
		firstBad  int
		line      int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		o, ok := parseRecord(rec)
		if !ok {
			malformed++
			if firstBad == 0 {
				firstBad = line
			}
			continue
		}
		series = append(series, o)
	}

	if malformed > 0 {
		return nil, fmt.Errorf("%w: %d bad rows (first at row %d)", ErrMalformed, malformed, firstBad)
	}
	return series, nil
}

func isHeader(rec []string) bool {
	return len(rec) >= 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "year")
}

func parseRecord(rec []string) (forecast.Observation, bool) {
	if len(rec) != 2 {
		return forecast.Observation{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return forecast.Observation{}, false
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	if err != nil {
		return forecast.Observation{}, false
	}
	return forecast.Observation{Year: year, Cost: cost}, true
}

func parseJSON(data []byte) (forecast.Series, error) {
	var series forecast.Series
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return series, nil
}

func parseYAML(data []byte) (forecast.Series, error) {
	var series forecast.Series
	if err := yaml.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return series, nil
}
