package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/costcast/internal/cli"
	"github.com/theirongolddev/costcast/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	fmt.Printf("  Config file: %s\n", path)
	if flagConfig == "" && !config.Exists() {
		fmt.Println("  Status: using defaults (no config file)")
	} else {
		fmt.Println("  Status: loaded")
	}
	fmt.Println()

	cur := cfg.General.Currency
	fmt.Println("  [General]")
	fmt.Printf("    Currency:  %s\n", cur)
	fmt.Printf("    Horizon:   %d years\n", cfg.General.Horizon)
	fmt.Println()

	fmt.Println("  [Defaults]")
	for _, c := range cfg.Defaults.Categories() {
		fmt.Printf("    %-14s %s\n", c.Name+":", cli.FormatCost(cur, c.Amount))
	}
	fmt.Println()

	fmt.Println("  [History]")
	fmt.Printf("    Source:    %s\n", cfg.History.Source)
	if cfg.History.Path != "" {
		fmt.Printf("    Path:      %s\n", cfg.History.Path)
	}
	if cfg.History.DSN != "" {
		fmt.Println("    DSN:       (set)")
	}
	if cfg.History.URL != "" {
		fmt.Printf("    URL:       %s\n", cfg.History.URL)
	}
	if cfg.History.Token != "" {
		fmt.Println("    Token:     (set)")
	}
	if cfg.History.Query != "" {
		fmt.Printf("    Query:     %s\n", cfg.History.Query)
	}
	fmt.Printf("    Store:     %s\n", config.StorePath())
	fmt.Println()

	fmt.Println("  [Report]")
	dir := cfg.Report.OutputDir
	if dir == "" {
		dir = "(current directory)"
	}
	fmt.Printf("    Output:    %s\n", dir)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:     %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:     %s\n", cfg.Log.Level)
	fmt.Printf("    JSON:      %v\n", cfg.Log.JSON)

	return nil
}
