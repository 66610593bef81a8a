package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/forecast"
)

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}); got != "▁▂▃▄▅▆▇█" {
		t.Fatalf("RenderSparkline = %q", got)
	}
	if got := RenderSparkline([]float64{5, 5}); got != "██" {
		t.Fatalf("flat sparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Fatal("empty input should render nothing")
	}
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Year", "Cost"},
		Rows:    [][]string{{"2025", "20,000"}, {"2026", "9"}},
	})
	if !strings.Contains(out, "2026") || !strings.Contains(out, "     9 ") {
		t.Fatalf("table not right-aligned:\n%s", out)
	}
	if RenderTable(Table{}) != "" {
		t.Fatal("empty table should render nothing")
	}
}

func TestRenderShareBar(t *testing.T) {
	shares, err := estimate.Shares(estimate.Breakdown{Labor: 5000, Material: 3000, Equipment: 2000, Misc: 1000})
	if err != nil {
		t.Fatal(err)
	}
	out := RenderShareBar(shares, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Labor") || strings.Count(lines[0], "█") != 10 {
		t.Fatalf("largest share should fill the bar: %q", lines[0])
	}
	if strings.Count(lines[3], "█") != 2 {
		t.Fatalf("misc bar = %q, want 2 blocks", lines[3])
	}
}

func TestRenderBreakdown(t *testing.T) {
	b := estimate.Breakdown{Labor: 5000, Material: 3000, Equipment: 2000, Misc: 1000}
	shares, _ := estimate.Shares(b)
	out := RenderBreakdown("INR", shares, 11000)
	for _, want := range []string{"Labor", "INR 5,000", "Total", "INR 11,000", "100.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("breakdown missing %q:\n%s", want, out)
		}
	}
}

func TestRenderForecast(t *testing.T) {
	history := forecast.Series{{Year: 2021, Cost: 12000}, {Year: 2020, Cost: 10000}}
	res, err := forecast.Forecast(history, 2)
	if err != nil {
		t.Fatal(err)
	}
	out := RenderForecast("INR", history, res)
	for _, want := range []string{"Next 2 Years", "2022", "INR 14,000", "INR 16,000", "▁", "2 history + 2 forecast", "+INR 2,000 per year"} {
		if !strings.Contains(out, want) {
			t.Errorf("forecast missing %q:\n%s", want, out)
		}
	}

	short := RenderForecast("INR", nil, forecast.Result{Status: forecast.InsufficientData})
	if !strings.Contains(short, "Not enough data for prediction") {
		t.Fatalf("insufficient output = %q", short)
	}
}
