// Package cmd implements the costcast CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/config"
	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/history"
	"github.com/theirongolddev/costcast/internal/logging"
	"github.com/theirongolddev/costcast/internal/pipeline"
)

var (
	flagConfig      string
	flagLabor       float64
	flagMaterial    float64
	flagEquipment   float64
	flagMisc        float64
	flagCurrency    string
	flagHorizon     int
	flagHistory     string
	flagHistoryPath string
	flagLogLevel    string
	flagQuiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "costcast",
	Short: "Project cost estimator and forecaster",
	Long: "Estimate a project's total cost from its labor, material, equipment and\n" +
		"miscellaneous costs, and forecast future costs from a yearly history.",
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.Path()+")")
	pf.Float64Var(&flagLabor, "labor", 0, "Labor cost (default from config)")
	pf.Float64Var(&flagMaterial, "material", 0, "Material cost (default from config)")
	pf.Float64Var(&flagEquipment, "equipment", 0, "Equipment cost (default from config)")
	pf.Float64Var(&flagMisc, "misc", 0, "Miscellaneous cost (default from config)")
	pf.StringVar(&flagCurrency, "currency", "", "ISO 4217 currency code (default from config)")
	pf.IntVarP(&flagHorizon, "horizon", "y", 0, "Years to forecast (default from config)")
	pf.StringVar(&flagHistory, "history", "", "History source: sample, file, store, postgres or http")
	pf.StringVar(&flagHistoryPath, "history-path", "", "History file or store path")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig is the shared setup path used by all commands: config file,
// then environment, then flags. The result is validated.
func loadConfig(cmd *cobra.Command) (config.Config, *logrus.Logger, error) {
	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return cfg, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("currency") {
		cfg.General.Currency = flagCurrency
	}
	if flags.Changed("horizon") {
		cfg.General.Horizon = flagHorizon
	}
	if flags.Changed("history") {
		cfg.History.Source = flagHistory
	}
	if flags.Changed("history-path") {
		cfg.History.Path = flagHistoryPath
		if !flags.Changed("history") && cfg.History.Source == config.SourceSample {
			cfg.History.Source = config.SourceFile
		}
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("labor") {
		cfg.Defaults.Labor = flagLabor
	}
	if flags.Changed("material") {
		cfg.Defaults.Material = flagMaterial
	}
	if flags.Changed("equipment") {
		cfg.Defaults.Equipment = flagEquipment
	}
	if flags.Changed("misc") {
		cfg.Defaults.Misc = flagMisc
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var log *logrus.Logger
	if flagQuiet {
		log = logging.Discard()
	} else {
		log = logging.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return cfg, log, nil
}

// openHistory opens the configured source. The closer is never nil.
func openHistory(cfg config.Config, log *logrus.Logger) (history.Source, io.Closer, error) {
	src, closer, err := history.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	log.WithField("source", src.Describe()).Debug("history source opened")
	return src, closer, nil
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, closer, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	sum, err := pipeline.Run(cmd.Context(), pipeline.Input{
		Breakdown: cfg.Defaults,
		Source:    src,
		Horizon:   cfg.General.Horizon,
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"total":  sum.Total,
		"points": len(sum.Forecast.Points),
	}).Debug("summary computed")

	printSummary(cfg.General.Currency, sum)
	return nil
}

func printSummary(currency string, sum pipeline.Summary) {
	fmt.Println()
	fmt.Println(cli.RenderTitle("PROJECT COST ESTIMATE"))
	fmt.Println()
	printBreakdown(currency, sum.Shares, sum.Total)
	fmt.Println()
	fmt.Print(cli.RenderForecast(currency, sum.History, sum.Forecast))
	fmt.Println(cli.RenderMuted("  History: " + sum.Source))
}

func printBreakdown(currency string, shares []estimate.Share, total float64) {
	fmt.Print(cli.RenderBreakdown(currency, shares, total))
	if total > 0 {
		fmt.Println()
		fmt.Print(cli.RenderShareBar(shares, 40))
	}
}
