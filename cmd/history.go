package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/config"
	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/history"
	"github.com/theirongolddev/costcast/internal/pipeline"
	"github.com/theirongolddev/costcast/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage the yearly cost history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the configured history series",
	RunE:  runHistoryList,
}

var historyAddCmd = &cobra.Command{
	Use:   "add YEAR COST",
	Short: "Record the cost of a year in the local store",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryAdd,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm YEAR",
	Short: "Remove a year from the local store",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRm,
}

var historyImportCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import csv, json or yaml history files into the local store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryImport,
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyAddCmd, historyRmCmd, historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}

// openStore opens the store that the store history source reads from.
func openStore(cfg config.Config) (*store.Store, error) {
	path := config.StorePath()
	if cfg.History.Source == config.SourceStore && cfg.History.Path != "" {
		path = cfg.History.Path
	}
	return store.Open(path)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
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
	if len(series) == 0 {
		fmt.Printf("\n  No history in %s.\n", src.Describe())
		return nil
	}

	t := cli.Table{
		Title:   "Cost History (" + src.Describe() + ")",
		Headers: []string{"Year", "Cost", "Change"},
	}
	for i, o := range series {
		change := "-"
		if i > 0 {
			change = cli.FormatDelta(cfg.General.Currency, o.Cost, series[i-1].Cost)
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(o.Year), cli.FormatCost(cfg.General.Currency, o.Cost), change})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	return nil
}

func runHistoryAdd(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("year %q: %w", args[0], err)
	}
	cost, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("cost %q: %w", args[1], err)
	}
	if cost < 0 {
		return fmt.Errorf("%w: cost cannot be negative", forecast.ErrInvalidObservation)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.PutObservation(cmd.Context(), forecast.Observation{Year: year, Cost: cost}); err != nil {
		return err
	}
	n, err := st.ObservationCount(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("  Recorded %d (%d years stored)\n", year, n)
	return nil
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("year %q: %w", args[0], err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteObservation(cmd.Context(), year); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no stored cost for %d", year)
		}
		return err
	}
	fmt.Printf("  Removed %d\n", year)
	return nil
}

func runHistoryImport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sources := make([]history.Source, len(args))
	for i, path := range args {
		sources[i] = history.File(path)
	}

	progressFn := func(current, total int) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  Reading [%d/%d]", current, total)
		}
	}
	res := pipeline.LoadAll(cmd.Context(), sources, progressFn)
	if !flagQuiet {
		fmt.Fprintln(os.Stderr)
	}
	for name, ferr := range res.Errors {
		log.WithError(ferr).WithField("file", name).Warn("skipped history file")
	}
	if res.Loaded == 0 {
		return fmt.Errorf("no history files could be read (%d failed)", res.Failed)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.PutSeries(cmd.Context(), res.Series); err != nil {
		return err
	}
	n, err := st.ObservationCount(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("  Imported %d rows from %d of %d files (%d years stored)\n",
		len(res.Series), res.Loaded, res.TotalSources, n)
	return nil
}
