package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/costcast/internal/tui/theme"
)

// Bar is one column of a BarChart.
type Bar struct {
	Label string
	Value float64
	Color lipgloss.Color
}

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values scaled to their peak.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * 7)
		idx = min(max(idx, 0), 7)
		buf.WriteRune(blocks[idx+1])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// BarChart renders vertical bars with a y-axis and one label per bar.
// Too little room falls back to a sparkline.
func BarChart(bars []Bar, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		values := make([]float64, len(bars))
		for i, b := range bars {
			values[i] = b.Value
		}
		return Sparkline(values, t.Accent)
	}

	maxVal := 0.0
	for _, b := range bars {
		maxVal = math.Max(maxVal, b.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 1)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	n := len(bars)
	chartW := max(width-yLabelW-1, 5)
	barW := min(max((chartW-(n-1))/n, 1), 6)
	for _, b := range bars {
		barW = max(barW, min(len(b.Label), 6))
	}
	axisLen := n*barW + (n - 1)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var sb strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		sb.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		sb.WriteString(axisStyle.Render("│"))
		for i, b := range bars {
			if i > 0 {
				sb.WriteString(space.Render(" "))
			}
			style := lipgloss.NewStyle().Foreground(b.Color).Background(t.Surface)
			switch {
			case b.Value >= rowTop:
				sb.WriteString(style.Render(strings.Repeat("█", barW)))
			case b.Value > rowBottom:
				frac := (b.Value - rowBottom) / (rowTop - rowBottom)
				idx := min(max(int(frac*8), 1), 8)
				sb.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				sb.WriteString(space.Render(strings.Repeat(" ", barW)))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	sb.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))
	sb.WriteString("\n")
	sb.WriteString(space.Render(strings.Repeat(" ", yLabelW+1)))
	for i, b := range bars {
		if i > 0 {
			sb.WriteString(space.Render(" "))
		}
		lbl := b.Label
		if len(lbl) > barW {
			lbl = lbl[len(lbl)-barW:]
		}
		sb.WriteString(axisStyle.Render(fmt.Sprintf("%-*s", barW, lbl)))
	}
	return sb.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
