package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the repo root.
const FileName = "budgetwatch.yaml"

// Environment overrides.
const (
	EnvLocale    = "BUDGETWATCH_LOCALE"
	EnvThreshold = "BUDGETWATCH_THRESHOLD"
	EnvLogLevel  = "BUDGETWATCH_LOG_LEVEL"
)

// Config represents the top-level budgetwatch.yaml configuration.
type Config struct {
	Insights InsightsConfig `yaml:"insights"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// InsightsConfig controls insight generation.
type InsightsConfig struct {
	Threshold float64 `yaml:"threshold"` // relative change, e.g. 0.25
	Locale    string  `yaml:"locale"`
	Timezone  string  `yaml:"timezone"` // IANA name; empty means local time
}

// LedgerConfig locates the transactions file.
type LedgerConfig struct {
	Path string `yaml:"path"` // relative to the repo root
}

// StorageConfig locates persisted insight state.
type StorageConfig struct {
	Dir string `yaml:"dir"` // relative to the repo root
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a budgetwatch.yaml file from disk. Fields missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Insights: InsightsConfig{
			Threshold: 0.25,
			Locale:    "en",
		},
		Ledger: LedgerConfig{
			Path: "transactions.csv",
		},
		Storage: StorageConfig{
			Dir: ".budgetwatch",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnv overrides cfg from environment variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvLocale)); v != "" {
		cfg.Insights.Locale = v
	}
	if v := strings.TrimSpace(getenv(EnvThreshold)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvThreshold, v, err)
		}
		cfg.Insights.Threshold = f
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Insights.Threshold < 0 {
		return fmt.Errorf("insights.threshold must not be negative, got %v", c.Insights.Threshold)
	}
	if c.Ledger.Path == "" {
		return errors.New("ledger.path is required")
	}
	if c.Storage.Dir == "" {
		return errors.New("storage.dir is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves insights.timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Insights.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Insights.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Insights.Timezone, err)
	}
	return loc, nil
}
