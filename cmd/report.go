package cmd

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/config"
	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/report"
	"github.com/theirongolddev/costcast/internal/store"
)

var (
	flagReportOutput      string
	flagReportForecast    bool
	flagReportNoSave      bool
	flagReportInteractive bool
	flagReportLimit       int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the project cost report to " + report.FileName,
	RunE:  runReport,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List previously generated reports",
	RunE:  runReportList,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&flagProject, "project", "p", "", "Project name")
	f.IntVar(&flagMonths, "months", 1, "Project duration in months")
	f.StringVarP(&flagReportOutput, "output", "o", "", "Output directory (default from config, else current dir)")
	f.BoolVar(&flagReportForecast, "with-forecast", false, "Append the cost forecast section")
	f.BoolVar(&flagReportNoSave, "no-save", false, "Do not record the report in the local store")
	f.BoolVarP(&flagReportInteractive, "interactive", "i", false, "Prompt for the inputs")

	reportListCmd.Flags().IntVarP(&flagReportLimit, "limit", "l", 20, "Maximum reports to show (0 for all)")
	reportCmd.AddCommand(reportListCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	project, months, b := flagProject, flagMonths, cfg.Defaults
	if flagReportInteractive {
		project, months, b, err = promptEstimate(project, max(months, 1), b)
		if err != nil {
			return err
		}
	}

	req := report.Request{
		ProjectName:    project,
		DurationMonths: months,
		Breakdown:      b,
		Currency:       cfg.General.Currency,
	}
	if flagReportForecast {
		res, err := loadForecast(cmd, cfg, log)
		if err != nil {
			return err
		}
		req.Forecast = &res
	}

	rep, err := report.Build(req)
	if err != nil {
		return err
	}

	dir := flagReportOutput
	if dir == "" {
		dir = cfg.Report.OutputDir
	}
	path, err := rep.WriteFile(dir)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"id": rep.ID, "path": path}).Info("report written")

	if !flagReportNoSave {
		if err := saveReport(cmd, rep); err != nil {
			log.WithError(err).Warn("report not recorded in store")
		}
	}

	fmt.Println()
	for _, line := range rep.Lines() {
		fmt.Println("  " + line)
	}
	fmt.Println()
	fmt.Println(cli.RenderMuted("  Saved to " + path))
	return nil
}

func loadForecast(cmd *cobra.Command, cfg config.Config, log *logrus.Logger) (forecast.Result, error) {
	src, closer, err := openHistory(cfg, log)
	if err != nil {
		return forecast.Result{}, err
	}
	defer func() { _ = closer.Close() }()

	series, err := src.Load(cmd.Context())
	if err != nil {
		return forecast.Result{}, fmt.Errorf("loading history from %s: %w", src.Describe(), err)
	}
	return forecast.Forecast(series, cfg.General.Horizon)
}

func saveReport(cmd *cobra.Command, rep report.Report) error {
	st, err := store.Open(config.StorePath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return st.SaveEstimate(cmd.Context(), rep.Estimate())
}

func runReportList(cmd *cobra.Command, _ []string) error {
	if _, _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := store.Open(config.StorePath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	list, err := st.ListEstimates(cmd.Context(), flagReportLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("\n  No reports recorded yet. Run `costcast report` to create one.")
		return nil
	}

	t := cli.Table{
		Title:   "Recorded Reports",
		Headers: []string{"Created", "Project", "Months", "Total", "ID"},
	}
	for _, e := range list {
		t.Rows = append(t.Rows, []string{
			humanize.Time(e.CreatedAt),
			e.Project,
			strconv.Itoa(e.DurationMonths),
			cli.FormatCost(e.Currency, e.Total),
			e.ID[:min(8, len(e.ID))],
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	return nil
}
