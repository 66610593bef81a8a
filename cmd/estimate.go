package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/tui"
)

var (
	flagProject     string
	flagMonths      int
	flagInteractive bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Compute the total project cost and category shares",
	RunE:  runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&flagProject, "project", "p", "", "Project name")
	estimateCmd.Flags().IntVar(&flagMonths, "months", 1, "Project duration in months")
	estimateCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Prompt for the inputs")
	rootCmd.AddCommand(estimateCmd)
}

// promptEstimate runs the input form pre-filled with the given values.
func promptEstimate(project string, months int, b estimate.Breakdown) (string, int, estimate.Breakdown, error) {
	vals := tui.NewEstimateValues(project, months, b)
	if err := tui.NewEstimateForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", 0, b, errors.New("input canceled")
		}
		return "", 0, b, fmt.Errorf("input form: %w", err)
	}
	parsed, err := vals.Breakdown()
	if err != nil {
		return "", 0, b, err
	}
	n, err := vals.DurationMonths()
	if err != nil {
		return "", 0, b, err
	}
	return vals.ProjectName, n, parsed, nil
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	project, months, b := flagProject, flagMonths, cfg.Defaults
	if flagInteractive {
		project, months, b, err = promptEstimate(project, max(months, 1), b)
		if err != nil {
			return err
		}
	}

	shares, err := estimate.Shares(b)
	if err != nil {
		return err
	}
	total, err := estimate.ComputeTotal(b)
	if err != nil {
		return err
	}
	log.WithField("total", total).Debug("estimate computed")

	cur := cfg.General.Currency
	fmt.Println()
	title := "COST ESTIMATE"
	if project != "" {
		title += "  " + project
	}
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	printBreakdown(cur, shares, total)
	if months > 0 && total > 0 {
		fmt.Printf("\n  %s per month over %d months\n", cli.FormatCost(cur, total/float64(months)), months)
	}
	return nil
}
