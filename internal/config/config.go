// Package config loads and saves costcast settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/currency"

	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/forecast"
)

// History source kinds.
const (
	SourceSample   = "sample"
	SourceFile     = "file"
	SourceStore    = "store"
	SourcePostgres = "postgres"
	SourceHTTP     = "http"
)

// Config holds all costcast configuration.
type Config struct {
	General    GeneralConfig      `toml:"general"`
	Defaults   estimate.Breakdown `toml:"defaults"`
	History    HistoryConfig      `toml:"history"`
	Report     ReportConfig       `toml:"report"`
	Appearance AppearanceConfig   `toml:"appearance"`
	Log        LogConfig          `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency string `toml:"currency"`
	Horizon  int    `toml:"horizon"`
}

// HistoryConfig selects where the historical cost series comes from.
type HistoryConfig struct {
	Source string `toml:"source"`
	Path   string `toml:"path,omitempty"`
	DSN    string `toml:"dsn,omitempty"`
	Query  string `toml:"query,omitempty"`
	URL    string `toml:"url,omitempty"`
	Token  string `toml:"token,omitempty"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	OutputDir string `toml:"output_dir,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "INR",
			Horizon:  forecast.DefaultHorizon,
		},
		Defaults: estimate.Breakdown{
			Labor:     5000,
			Material:  3000,
			Equipment: 2000,
			Misc:      1000,
		},
		History: HistoryConfig{
			Source: SourceSample,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "costcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "costcast")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory used for the local store.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "costcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "costcast")
}

// StorePath returns the path of the SQLite store.
func StorePath() string {
	return filepath.Join(DataDir(), "costcast.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config location
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COSTCAST_CURRENCY"); v != "" {
		cfg.General.Currency = v
	}
	if v := os.Getenv("COSTCAST_PG_DSN"); v != "" {
		cfg.History.DSN = v
	}
	if v := os.Getenv("COSTCAST_HISTORY_TOKEN"); v != "" {
		cfg.History.Token = v
	}
	if v := os.Getenv("COSTCAST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the settings that the estimator depends on and stores the
// currency in its canonical ISO 4217 form.
func (c *Config) Validate() error {
	code := strings.ToUpper(strings.TrimSpace(c.General.Currency))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Errorf("currency %q: %w", c.General.Currency, err)
	}
	c.General.Currency = unit.String()
	if c.General.Horizon < 0 {
		return fmt.Errorf("horizon must be >= 0, got %d", c.General.Horizon)
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	switch c.History.Source {
	case SourceSample, SourceStore:
	case SourceFile:
		if c.History.Path == "" {
			return errors.New("history source \"file\" requires history.path")
		}
	case SourcePostgres:
		if c.History.DSN == "" {
			return errors.New("history source \"postgres\" requires history.dsn or COSTCAST_PG_DSN")
		}
	case SourceHTTP:
		if c.History.URL == "" {
			return errors.New("history source \"http\" requires history.url")
		}
	default:
		return fmt.Errorf("unknown history source %q", c.History.Source)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile is Save for an explicit path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
