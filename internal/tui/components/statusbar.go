package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/costcast/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar with hints on the left and
// info on the right.
func RenderStatusBar(width int, hints, info string) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(width)

	left := " " + hints
	right := info
	if right != "" {
		right += " "
	}
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
