package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	t.Setenv("COSTCAST_CURRENCY", "")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.Currency != "INR" {
		t.Errorf("Currency = %q, want INR", cfg.General.Currency)
	}
	if cfg.General.Horizon != 5 {
		t.Errorf("Horizon = %d, want 5", cfg.General.Horizon)
	}
	if cfg.Defaults.Labor != 5000 || cfg.Defaults.Misc != 1000 {
		t.Errorf("Defaults = %+v, want 5000/3000/2000/1000", cfg.Defaults)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("COSTCAST_CURRENCY", "")
	path := filepath.Join(t.TempDir(), "costcast", "config.toml")

	cfg := DefaultConfig()
	cfg.General.Currency = "USD"
	cfg.General.Horizon = 10
	cfg.History.Source = SourceFile
	cfg.History.Path = "/tmp/history.csv"
	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.General != cfg.General || got.History != cfg.History || got.Defaults != cfg.Defaults {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv("COSTCAST_CURRENCY", "EUR")
	t.Setenv("COSTCAST_PG_DSN", "postgres://localhost/costs")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", cfg.General.Currency)
	}
	if cfg.History.DSN != "postgres://localhost/costs" {
		t.Errorf("DSN = %q", cfg.History.DSN)
	}
}

func TestLoadFile_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\ncurrency = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing config error", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad currency", func(c *Config) { c.General.Currency = "XX1" }, "currency"},
		{"negative horizon", func(c *Config) { c.General.Horizon = -2 }, "horizon"},
		{"negative default", func(c *Config) { c.Defaults.Equipment = -5 }, "defaults"},
		{"file without path", func(c *Config) { c.History.Source = SourceFile }, "history.path"},
		{"postgres without dsn", func(c *Config) { c.History.Source = SourcePostgres }, "history.dsn"},
		{"http without url", func(c *Config) { c.History.Source = SourceHTTP }, "history.url"},
		{"unknown source", func(c *Config) { c.History.Source = "s3" }, "unknown history source"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestValidate_CanonicalCurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.Currency = " usd "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.General.Currency != "USD" {
		t.Fatalf("Currency = %q, want USD", cfg.General.Currency)
	}
}

func TestDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/x/cfg")
	t.Setenv("XDG_DATA_HOME", "/x/data")
	if Path() != filepath.Join("/x/cfg", "costcast", "config.toml") {
		t.Errorf("Path() = %q", Path())
	}
	if StorePath() != filepath.Join("/x/data", "costcast", "costcast.db") {
		t.Errorf("StorePath() = %q", StorePath())
	}
}
