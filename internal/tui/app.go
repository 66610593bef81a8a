// Package tui provides the interactive Bubble Tea dashboard for costcast.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/history"
	"github.com/theirongolddev/costcast/internal/pipeline"
	"github.com/theirongolddev/costcast/internal/tui/components"
	"github.com/theirongolddev/costcast/internal/tui/theme"
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
	maxHorizon       = 30
	loadTimeout      = 30 * time.Second
)

// Options configures a dashboard run.
type Options struct {
	ProjectName    string
	DurationMonths int
	Breakdown      estimate.Breakdown
	Currency       string
	Horizon        int
	Source         history.Source
}

// SummaryMsg is sent when the pipeline finishes.
type SummaryMsg struct {
	Summary  pipeline.Summary
	Err      error
	LoadTime time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	summary  pipeline.Summary
	loaded   bool
	loadErr  error
	loadTime time.Duration
	notice   string

	width     int
	height    int
	activeTab int
	showHelp  bool

	editForm *huh.Form
	editVals *EstimateValues

	spinner spinner.Model
}

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	if opts.Source == nil {
		opts.Source = history.Sample()
	}
	if opts.Horizon < 0 {
		opts.Horizon = 0
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{opts: opts, spinner: sp}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		runCmd(a.opts.Breakdown, a.opts.Source, a.opts.Horizon),
	)
}

func runCmd(b estimate.Breakdown, src history.Source, horizon int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		start := time.Now()
		sum, err := pipeline.Run(ctx, pipeline.Input{Breakdown: b, Source: src, Horizon: horizon})
		return SummaryMsg{Summary: sum, Err: err, LoadTime: time.Since(start)}
	}
}

// recompute reruns the pipeline over the already loaded history.
func (a *App) recompute() {
	cached := history.Static{Series: a.summary.History, Name: a.summary.Source}
	sum, err := pipeline.Run(context.Background(), pipeline.Input{
		Breakdown: a.opts.Breakdown,
		Source:    cached,
		Horizon:   a.opts.Horizon,
	})
	if err != nil {
		a.notice = err.Error()
		return
	}
	a.summary = sum
	a.notice = ""
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.editForm != nil {
			a.editForm = a.editForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case SummaryMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.summary = msg.Summary
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.editForm != nil {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.editForm != nil {
			return a.updateEditForm(msg)
		}
		return a.handleKey(msg)
	}

	if a.editForm != nil {
		return a.updateEditForm(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if key.Matches(msg, keys.Quit) {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	n := len(components.Tabs)
	switch {
	case key.Matches(msg, keys.Breakdown):
		a.activeTab = 0
	case key.Matches(msg, keys.Forecast):
		a.activeTab = 1
	case key.Matches(msg, keys.Next):
		a.activeTab = (a.activeTab + 1) % n
	case key.Matches(msg, keys.Prev):
		a.activeTab = (a.activeTab - 1 + n) % n
	case key.Matches(msg, keys.Refresh):
		a.loaded = false
		return a, tea.Batch(a.spinner.Tick, runCmd(a.opts.Breakdown, a.opts.Source, a.opts.Horizon))
	case key.Matches(msg, keys.MoreYears):
		if a.loadErr == nil && a.opts.Horizon < maxHorizon {
			a.opts.Horizon++
			a.recompute()
		}
	case key.Matches(msg, keys.FewerYears):
		if a.loadErr == nil && a.opts.Horizon > 0 {
			a.opts.Horizon--
			a.recompute()
		}
	case key.Matches(msg, keys.CycleTheme):
		a.cycleTheme()
	case key.Matches(msg, keys.Edit):
		if a.loadErr != nil {
			return a, nil
		}
		vals := NewEstimateValues(a.opts.ProjectName, max(a.opts.DurationMonths, 1), a.opts.Breakdown)
		a.editVals = &vals
		a.editForm = NewEstimateForm(a.editVals)
		if a.width > 0 {
			a.editForm = a.editForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.editForm.Init()
	}
	return a, nil
}

func (a *App) cycleTheme() {
	for i, th := range theme.All {
		if th.Name == theme.Active.Name {
			theme.Active = theme.All[(i+1)%len(theme.All)]
			return
		}
	}
	theme.Active = theme.All[0]
}

func (a App) updateEditForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.editForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.editForm = f
	}

	switch a.editForm.State {
	case huh.StateCompleted:
		if b, err := a.editVals.Breakdown(); err == nil {
			a.opts.Breakdown = b
		} else {
			a.notice = err.Error()
		}
		if months, err := a.editVals.DurationMonths(); err == nil {
			a.opts.DurationMonths = months
		}
		a.opts.ProjectName = strings.TrimSpace(a.editVals.ProjectName)
		a.editForm, a.editVals = nil, nil
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.editForm, a.editVals = nil, nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.editForm != nil {
		return a.editForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  costcast needs at least %d columns.\n",
		a.width, minTerminalWidth)
	h := max(a.height, 5)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) overlay(body string) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ costcast") + sub.Render(" · Project Cost Estimator") + "\n\n" +
		a.spinner.View() + sub.Render(" Loading history from "+a.opts.Source.Describe())
	return a.overlay(body)
}

func (a App) viewHelp() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for i, group := range keys.helpSections() {
		b.WriteString("\n")
		b.WriteString(section.Render([]string{"Navigation", "Actions"}[i]))
		b.WriteString("\n")
		for _, bind := range group {
			h := bind.Help()
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-6s", h.Key)), desc.Render(h.Desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("Press any key to close"))
	return a.overlay(b.String())
}

func (a App) viewMain() string {
	t := theme.Active
	w, h, cw := a.width, a.height, a.contentWidth()

	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	project := a.opts.ProjectName
	if project == "" {
		project = "untitled project"
	}
	info := pill.Render(" ") + accent.Render(project)
	if a.opts.DurationMonths > 0 {
		info += pill.Render(fmt.Sprintf(" │ %d months", a.opts.DurationMonths))
	}
	info += pill.Render(fmt.Sprintf(" │ %d-year horizon │ %s ", a.opts.Horizon, a.opts.Currency))
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(info)

	hints := "[?]help  [e]dit  [+/-]horizon  [q]uit"
	status := fmt.Sprintf("%s · %.0fms", a.summary.Source, float64(a.loadTime.Microseconds())/1000)
	if a.loadErr != nil {
		status = "load failed"
	}
	statusBar := components.RenderStatusBar(w, hints, status)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil:
		content = a.renderError(cw)
	case a.activeTab == 0:
		content = a.renderBreakdownTab(cw)
	default:
		content = a.renderForecastTab(cw, contentH)
	}
	if a.notice != "" {
		content = lipgloss.NewStyle().Foreground(t.Warn).Background(t.Background).Render("  "+a.notice) + "\n" + content
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	out := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, out,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderError(cw int) string {
	t := theme.Active
	warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body := warn.Render(a.loadErr.Error()) + "\n\n" + muted.Render("Press r to retry, q to quit.")
	return components.ContentCard("Could not compute estimate", body, cw)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
