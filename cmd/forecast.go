package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/forecast"
)

var flagForecastJSON bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Predict future yearly costs from the cost history",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagForecastJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, closer, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	series, err := src.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading history from %s: %w", src.Describe(), err)
	}
	res, err := forecast.Forecast(series, cfg.General.Horizon)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"observations": len(series),
		"status":       res.Status.String(),
	}).Debug("forecast computed")

	if flagForecastJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println()
	fmt.Print(cli.RenderForecast(cfg.General.Currency, series, res))
	fmt.Println(cli.RenderMuted("  History: " + src.Describe()))
	return nil
}
