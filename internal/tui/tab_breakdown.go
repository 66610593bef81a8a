package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/tui/components"
	"github.com/theirongolddev/costcast/internal/tui/theme"
)

// categoryColor maps a category to its theme color.
func categoryColor(name string) lipgloss.Color {
	t := theme.Active
	switch name {
	case estimate.CategoryLabor:
		return t.Categories[0]
	case estimate.CategoryMaterial:
		return t.Categories[1]
	case estimate.CategoryEquipment:
		return t.Categories[2]
	default:
		return t.Categories[3]
	}
}

func (a App) renderBreakdownTab(cw int) string {
	t := theme.Active
	sum := a.summary
	cur := a.opts.Currency

	largest := "n/a"
	largestNote := ""
	if len(sum.Shares) > 0 && sum.Total > 0 {
		largest = sum.Shares[0].Name
		largestNote = cli.FormatPercent(sum.Shares[0].Fraction) + " of total"
	}
	perMonth := "n/a"
	if a.opts.DurationMonths > 0 {
		perMonth = cli.FormatCost(cur, sum.Total/float64(a.opts.DurationMonths))
	}

	cards := components.MetricCardRow([]components.Metric{
		{Label: "Total Estimated Cost", Value: cli.FormatCost(cur, sum.Total)},
		{Label: "Largest Category", Value: largest, Note: largestNote},
		{Label: "Cost per Month", Value: perMonth},
	}, cw)

	innerW := components.CardInnerWidth(cw)
	labelW := 14
	barW := max(innerW-labelW-9, 10)

	var bars strings.Builder
	for i, s := range sum.Shares {
		if i > 0 {
			bars.WriteString("\n")
		}
		bars.WriteString(components.ShareBar(s.Name, s.Fraction, categoryColor(s.Name), labelW, barW))
	}

	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	costW := 18

	var table strings.Builder
	table.WriteString(header.Render(fmt.Sprintf("%-*s %*s %7s", labelW, "Category", costW, "Cost", "Share")))
	table.WriteString("\n")
	table.WriteString(muted.Render(strings.Repeat("─", labelW+costW+9)))
	table.WriteString("\n")
	for _, c := range sum.Breakdown.Categories() {
		frac := 0.0
		if sum.Total > 0 {
			frac = c.Amount / sum.Total
		}
		nameStyle := lipgloss.NewStyle().Foreground(categoryColor(c.Name)).Background(t.Surface)
		table.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", labelW, c.Name)))
		table.WriteString(row.Render(fmt.Sprintf(" %*s %7s", costW, cli.FormatCost(cur, c.Amount), cli.FormatPercent(frac))))
		table.WriteString("\n")
	}
	table.WriteString(muted.Render(strings.Repeat("─", labelW+costW+9)))
	table.WriteString("\n")
	table.WriteString(header.Render(fmt.Sprintf("%-*s %*s", labelW, "Total", costW, cli.FormatCost(cur, sum.Total))))

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Cost Breakdown", bars.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Categories", table.String(), cw))
	return b.String()
}
