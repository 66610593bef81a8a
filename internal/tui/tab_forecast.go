package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/tui/components"
	"github.com/theirongolddev/costcast/internal/tui/theme"
)

// forecastBars lays out history (accent) followed by predictions (forecast color).
func forecastBars(series forecast.Series, res forecast.Result) []components.Bar {
	t := theme.Active
	hist := make(forecast.Series, len(series))
	copy(hist, series)
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Year < hist[j].Year })

	bars := make([]components.Bar, 0, len(hist)+len(res.Points))
	for _, o := range hist {
		bars = append(bars, components.Bar{Label: strconv.Itoa(o.Year), Value: o.Cost, Color: t.Accent})
	}
	for _, p := range res.Points {
		bars = append(bars, components.Bar{Label: strconv.Itoa(p.Year), Value: p.PredictedCost, Color: t.Forecast})
	}
	return bars
}

func (a App) renderForecastTab(cw, h int) string {
	t := theme.Active
	sum := a.summary
	cur := a.opts.Currency
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if sum.Forecast.Status == forecast.InsufficientData {
		body := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Render("Not enough data for prediction") +
			"\n" + muted.Render(fmt.Sprintf("%d observation(s) in %s; at least 2 are needed.", len(sum.History), sum.Source))
		return components.ContentCard("Cost Forecast", body, cw)
	}

	res := sum.Forecast
	trend, next := "n/a", "n/a"
	if res.Fit != nil {
		trend = cli.FormatDelta(cur, res.Fit.Slope, 0) + " / yr"
		if res.Fit.Degenerate {
			trend = "flat"
		}
	}
	if len(res.Points) > 0 {
		next = cli.FormatCost(cur, res.Points[0].PredictedCost)
	}
	cards := components.MetricCardRow([]components.Metric{
		{Label: "Trend", Value: trend},
		{Label: "Next Year", Value: next},
		{Label: "History", Value: fmt.Sprintf("%d years", len(sum.History)), Note: sum.Source},
	}, cw)

	innerW := components.CardInnerWidth(cw)
	chartH := max(h-lipgloss.Height(cards)-6-len(res.Points), 4)
	chart := components.BarChart(forecastBars(sum.History, res), innerW, min(chartH, 12))

	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	var table strings.Builder
	table.WriteString(header.Render(fmt.Sprintf("%-6s %18s", "Year", "Predicted Cost")))
	for _, p := range res.Points {
		table.WriteString("\n")
		table.WriteString(row.Render(fmt.Sprintf("%-6d %18s", p.Year, cli.FormatCost(cur, p.PredictedCost))))
	}
	if len(res.Points) == 0 {
		table.WriteString("\n")
		table.WriteString(muted.Render("Horizon is 0 years. Press + to extend."))
	}

	title := fmt.Sprintf("Cost Forecast for the Next %d Years", len(res.Points))
	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")
	b.WriteString(components.ContentCard(title, chart, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Predictions", table.String(), cw))
	return b.String()
}
