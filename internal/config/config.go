//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-opsgen.
// Configuration is loaded from config files and CLI flags. CLI flags take
// precedence over config file values. An optional .env file is loaded into
// the process environment so libpq-style PG* variables reach the driver.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DateLayout is the ISO-8601 calendar date layout used for end_date.
const DateLayout = "2006-01-02"

// Supported warehouse backends.
const (
	BackendPostgres = "postgres"
	BackendPsql     = "psql"
	BackendSQLite   = "sqlite"
)

// ConfigurationError reports an invalid or degenerate configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Config holds all configuration for pgedge-opsgen.
type Config struct {
	// Connection is the warehouse connection string (PostgreSQL URL or
	// SQLite file path).
	Connection string `mapstructure:"connection"`

	// Backend selects the warehouse command interface.
	// Options: postgres, psql, sqlite
	Backend string `mapstructure:"backend"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for data synthesis.
	Generate GenerateConfig `mapstructure:"generate"`

	// Output holds configuration for staged artifacts.
	Output OutputConfig `mapstructure:"output"`

	// Psql holds configuration for the psql subprocess backend.
	Psql PsqlConfig `mapstructure:"psql"`

	// Serve holds configuration for the reporting API.
	Serve ServeConfig `mapstructure:"serve"`
}

// GenerateConfig holds configuration for dataset generation.
type GenerateConfig struct {
	// Days is the lookback window length ending at EndDate.
	Days int `mapstructure:"days"`

	// Locations is the number of restaurant locations.
	Locations int `mapstructure:"locations"`

	// Items is the number of menu items.
	Items int `mapstructure:"items"`

	// Seed drives every random draw. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed"`

	// EndDate is the last day of the window (YYYY-MM-DD). Empty means today.
	EndDate string `mapstructure:"end_date"`

	// Brand prefixes synthesized location names.
	Brand string `mapstructure:"brand"`
}

// OutputConfig holds configuration for the staging directory.
type OutputConfig struct {
	// Dir is where CSV artifacts and the manifest are written.
	Dir string `mapstructure:"dir"`
}

// PsqlConfig holds configuration for running psql inside a container.
type PsqlConfig struct {
	// Container is the docker container running PostgreSQL. Empty runs
	// psql directly on the host.
	Container string `mapstructure:"container"`

	// User is the database role passed to psql -U.
	User string `mapstructure:"user"`

	// Database is the database name passed to psql -d.
	Database string `mapstructure:"database"`
}

// ServeConfig holds configuration for the reporting API.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendPostgres,
		LogLevel: "info",
		Generate: GenerateConfig{
			Days:      180,
			Locations: 12,
			Items:     30,
			Seed:      42,
			Brand:     "Cactus",
		},
		Output: OutputConfig{
			Dir: filepath.Join("data", "seed", "out"),
		},
		Psql: PsqlConfig{
			Container: "cactus_ops_db",
			User:      "cactus",
			Database:  "cactus_ops",
		},
		Serve: ServeConfig{
			Addr: ":4000",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-opsgen.yaml
// 3. ~/.config/pgedge-opsgen/config.yaml
//
// If envFile is non-empty and exists it is loaded into the environment
// first; a missing env file is not an error.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file: %w", err)
		}
	}

	v := viper.New()

	v.SetConfigName("pgedge-opsgen")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-opsgen"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks the warehouse settings shared by every command that
// talks to the database.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres, BackendSQLite:
		if c.Connection == "" {
			return &ConfigurationError{Field: "connection", Reason: "is required for backend " + c.Backend}
		}
	case BackendPsql:
		if c.Psql.User == "" {
			return &ConfigurationError{Field: "psql.user", Reason: "is required"}
		}
		if c.Psql.Database == "" {
			return &ConfigurationError{Field: "psql.database", Reason: "is required"}
		}
	default:
		return &ConfigurationError{Field: "backend", Reason: fmt.Sprintf("must be one of postgres, psql, sqlite (got %q)", c.Backend)}
	}
	return nil
}

// ValidateGenerate checks configuration required to synthesize and stage
// a dataset. Zero counts are allowed and produce empty tables.
func (c *Config) ValidateGenerate() error {
	g := c.Generate
	if g.Days < 0 {
		return &ConfigurationError{Field: "generate.days", Reason: "must not be negative"}
	}
	if g.Locations < 0 {
		return &ConfigurationError{Field: "generate.locations", Reason: "must not be negative"}
	}
	if g.Items < 0 {
		return &ConfigurationError{Field: "generate.items", Reason: "must not be negative"}
	}
	if _, err := g.End(time.Now()); err != nil {
		return err
	}
	if c.Output.Dir == "" {
		return &ConfigurationError{Field: "output.dir", Reason: "is required"}
	}
	return nil
}

// ValidateLoad checks configuration required to load a staged dataset.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Output.Dir == "" {
		return &ConfigurationError{Field: "output.dir", Reason: "is required"}
	}
	return nil
}

// ValidateRun checks configuration required for a full generate-and-load run.
func (c *Config) ValidateRun() error {
	if err := c.ValidateGenerate(); err != nil {
		return err
	}
	return c.ValidateLoad()
}

// End returns the last day of the lookback window as a UTC date. An empty
// EndDate resolves to the calendar date of now.
func (g GenerateConfig) End(now time.Time) (time.Time, error) {
	if g.EndDate == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, g.EndDate)
	if err != nil {
		return time.Time{}, &ConfigurationError{Field: "generate.end_date", Reason: fmt.Sprintf("must be YYYY-MM-DD (got %q)", g.EndDate)}
	}
	return t, nil
}
