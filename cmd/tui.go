package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/tui"
	"github.com/theirongolddev/costcast/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive estimate dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&flagProject, "project", "p", "", "Project name")
	tuiCmd.Flags().IntVar(&flagMonths, "months", 1, "Project duration in months")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Without this lipgloss may pick the Ascii profile and drop all backgrounds.
	lipgloss.SetColorProfile(termenv.TrueColor)

	src, closer, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	app := tui.NewApp(tui.Options{
		ProjectName:    flagProject,
		DurationMonths: flagMonths,
		Breakdown:      cfg.Defaults,
		Currency:       cfg.General.Currency,
		Horizon:        cfg.General.Horizon,
		Source:         src,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
