package cli

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/forecast"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// categoryColors gives each cost category a stable bar colour.
var categoryColors = map[string]lipgloss.Color{
	estimate.CategoryLabor:     ColorBlue,
	estimate.CategoryMaterial:  ColorGreen,
	estimate.CategoryEquipment: ColorOrange,
	estimate.CategoryMisc:      ColorPurple,
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	costStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table is a bordered text table. A row holding the single cell "---"
// draws a separator.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderWarning renders a warning line.
func RenderWarning(msg string) string {
	return warnStyle.Render("  ! " + msg)
}

// RenderMuted renders dim secondary text.
func RenderMuted(msg string) string {
	return mutedStyle.Render(msg)
}

func rule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

func pad(cell string, w int, right bool) string {
	gap := w - lipgloss.Width(cell)
	if gap < 0 {
		gap = 0
	}
	if right {
		return " " + strings.Repeat(" ", gap) + cell + " "
	}
	return " " + cell + strings.Repeat(" ", gap) + " "
}

// RenderTable renders the table. All columns after the first are
// right-aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule(&b, widths, "╭", "┬", "╮")
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], i > 0)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule(&b, widths, "├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule(&b, widths, "├", "┼", "┤")
			continue
		}
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], i > 0)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}
	rule(&b, widths, "╰", "┴", "╯")

	return b.String()
}

// RenderBreakdown renders the category table with the total underneath.
func RenderBreakdown(currency string, shares []estimate.Share, total float64) string {
	t := Table{
		Title:   "Cost Breakdown",
		Headers: []string{"Category", "Cost", "Share"},
	}
	for _, s := range shares {
		t.Rows = append(t.Rows, []string{s.Name, FormatCost(currency, s.Amount), FormatPercent(s.Fraction)})
	}
	t.Rows = append(t.Rows,
		[]string{"---"},
		[]string{"Total", FormatCost(currency, total), FormatPercent(1)},
	)
	if total == 0 {
		t.Rows[len(t.Rows)-1][2] = FormatPercent(0)
	}
	return RenderTable(t)
}

// RenderShareBar renders one horizontal bar per category, scaled so the
// largest share fills width. It stands in for a pie chart.
func RenderShareBar(shares []estimate.Share, width int) string {
	if len(shares) == 0 || width <= 0 {
		return ""
	}

	labelW := 0
	maxFrac := 0.0
	for _, s := range shares {
		labelW = max(labelW, lipgloss.Width(s.Name))
		maxFrac = math.Max(maxFrac, s.Fraction)
	}

	var b strings.Builder
	for _, s := range shares {
		n := 0
		if maxFrac > 0 {
			n = int(math.Round(s.Fraction / maxFrac * float64(width)))
		}
		color, ok := categoryColors[s.Name]
		if !ok {
			color = ColorAccent
		}
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "  %-*s %s%s %s\n", labelW, s.Name, bar,
			strings.Repeat(" ", width-n), mutedStyle.Render(FormatPercent(s.Fraction)))
	}
	return b.String()
}

// RenderSparkline generates a unicode block sparkline scaled between the
// smallest and largest value.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range values {
		idx := len(blocks) - 1
		if span > 0 {
			idx = int((v - lo) / span * float64(len(blocks)-1))
		}
		idx = min(max(idx, 0), len(blocks)-1)
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderForecast renders the forecast table followed by a sparkline over
// history and predictions. Insufficient history renders a notice instead.
func RenderForecast(currency string, history forecast.Series, res forecast.Result) string {
	if res.Status == forecast.InsufficientData {
		return RenderWarning("Not enough data for prediction") + "\n"
	}
	if len(res.Points) == 0 {
		return mutedStyle.Render("  No forecast requested") + "\n"
	}

	t := Table{
		Title:   fmt.Sprintf("Cost Forecast for the Next %d Years", len(res.Points)),
		Headers: []string{"Year", "Predicted Cost"},
	}
	for _, p := range res.Points {
		t.Rows = append(t.Rows, []string{fmt.Sprintf("%d", p.Year), FormatCost(currency, p.PredictedCost)})
	}

	var b strings.Builder
	b.WriteString(RenderTable(t))

	sorted := make(forecast.Series, len(history))
	copy(sorted, history)
	sortByYear(sorted)

	values := make([]float64, 0, len(sorted)+len(res.Points))
	for _, o := range sorted {
		values = append(values, o.Cost)
	}
	for _, p := range res.Points {
		values = append(values, p.PredictedCost)
	}
	fmt.Fprintf(&b, "  %s  %s\n", costStyle.Render(RenderSparkline(values)),
		mutedStyle.Render(fmt.Sprintf("%d history + %d forecast", len(sorted), len(res.Points))))

	if res.Fit != nil {
		trend := fmt.Sprintf("  Trend: %s per year", FormatDelta(currency, res.Fit.Slope, 0))
		if res.Fit.Degenerate {
			trend = "  Trend: flat (all history in one year)"
		}
		b.WriteString(mutedStyle.Render(trend))
		b.WriteString("\n")
	}
	return b.String()
}

func sortByYear(s forecast.Series) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Year < s[j].Year })
}
