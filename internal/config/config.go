// Package config loads standup configuration from a YAML file with
// STANDUP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/standup/internal/kv"
	"github.com/idilsaglam/standup/internal/store"
	"github.com/idilsaglam/standup/internal/ui"
)

const (
	appName   = "standup"
	envPrefix = "STANDUP_"

	// LogFileOff disables logging entirely.
	LogFileOff = "off"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Config holds all standup configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" envPrefix:"STORE_"`
	Form   FormConfig   `yaml:"form"`
	List   ListConfig   `yaml:"list"`
	Report ReportConfig `yaml:"report"`
	UI     UIConfig     `yaml:"ui"`
	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

// StoreConfig selects and locates the key-value backend.
type StoreConfig struct {
	Driver     string `yaml:"driver" env:"DRIVER"`
	Path       string `yaml:"path" env:"PATH"`
	Key        string `yaml:"key" env:"KEY"`
	QuotaBytes int64  `yaml:"quota_bytes" env:"QUOTA_BYTES"`
}

// FormConfig toggles optional validation rules.
type FormConfig struct {
	RequireYesterday bool `yaml:"require_yesterday" env:"REQUIRE_YESTERDAY"`
}

// ListConfig bounds the interactive list. Days <= 0 shows everything.
type ListConfig struct {
	Days int `yaml:"days" env:"LIST_DAYS"`
}

type ReportConfig struct {
	Days int `yaml:"days" env:"REPORT_DAYS"`
}

type UIConfig struct {
	Theme string `yaml:"theme" env:"THEME"`
}

// LogConfig controls the zap logger. File "off" disables logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	File  string `yaml:"file" env:"FILE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:     DriverFile,
			Key:        store.DefaultKey,
			QuotaBytes: kv.DefaultQuota,
		},
		Form:   FormConfig{RequireYesterday: true},
		Report: ReportConfig{Days: store.DefaultRecentDays},
		UI:     UIConfig{Theme: "classic"},
		Log:    LogConfig{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/standup/config.yaml or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+appName, "config.yaml")
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// DataDir is where on-disk stores and logs live by default.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".local", "share", appName)
}

// Load reads path (a missing file yields defaults), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures values are usable.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverSQLite, DriverBolt, DriverMemory:
	default:
		return fmt.Errorf("store.driver %q: want one of file, sqlite, bolt, memory", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.Key) == "" {
		return errors.New("store.key is required")
	}
	if c.Store.QuotaBytes < 0 {
		return errors.New("store.quota_bytes must not be negative")
	}
	if c.List.Days < 0 || c.Report.Days < 0 {
		return errors.New("list.days and report.days must not be negative")
	}
	if !ui.KnownTheme(c.UI.Theme) {
		return fmt.Errorf("ui.theme %q: want one of %s", c.UI.Theme, strings.Join(ui.Themes, ", "))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	return nil
}

// StorePath resolves Store.Path, defaulting per driver inside DataDir.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch c.Store.Driver {
	case DriverSQLite:
		return filepath.Join(DataDir(), "standup.db")
	case DriverBolt:
		return filepath.Join(DataDir(), "standup.bolt")
	default:
		return DataDir()
	}
}

// LogPath resolves Log.File; "" when logging is off.
func (c *Config) LogPath() string {
	switch c.Log.File {
	case LogFileOff:
		return ""
	case "":
		return filepath.Join(DataDir(), "standup.log")
	default:
		return c.Log.File
	}
}
