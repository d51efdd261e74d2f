// Package config loads the darts configuration from an HCL file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/darts/internal/game"
)

// FileName is the config file looked up in the data directory.
const FileName = "darts.hcl"

// Environment variables that override the file.
const (
	EnvDataDir     = "DARTS_DATA_DIR"
	EnvStore       = "DARTS_STORE"
	EnvDatabaseURL = "DARTS_DATABASE_URL"
	EnvLogLevel    = "DARTS_LOG_LEVEL"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config is the complete darts configuration.
type Config struct {
	LogLevel       string                `hcl:"log_level,optional"`
	Store          *StoreConfig          `hcl:"store,block"`
	X01            *X01Config            `hcl:"x01,block"`
	AroundTheClock *AroundTheClockConfig `hcl:"around_the_clock,block"`

	// DataDir is never read from the file; it comes from flags or the
	// environment.
	DataDir string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// X01Config holds defaults for new matches.
type X01Config struct {
	StartScore int `hcl:"start_score,optional"`
	BestOfLegs int `hcl:"best_of_legs,optional"`
}

// AroundTheClockConfig holds defaults for practice rounds.
type AroundTheClockConfig struct {
	MaxTarget    int `hcl:"max_target,optional"`
	DartsPerTurn int `hcl:"darts_per_turn,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// DefaultDataDir is ~/.darts, or .darts in the working directory when the
// home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".darts"
	}
	return filepath.Join(home, ".darts")
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverFile
	}
	if c.X01 == nil {
		c.X01 = &X01Config{}
	}
	if c.X01.StartScore == 0 {
		c.X01.StartScore = 501
	}
	if c.X01.BestOfLegs == 0 {
		c.X01.BestOfLegs = 1
	}
	if c.AroundTheClock == nil {
		c.AroundTheClock = &AroundTheClockConfig{}
	}
	if c.AroundTheClock.MaxTarget == 0 {
		c.AroundTheClock.MaxTarget = game.DefaultMaxTarget
	}
	if c.AroundTheClock.DartsPerTurn == 0 {
		c.AroundTheClock.DartsPerTurn = 3
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
}

// ApplyEnv overrides fields from the environment. getenv is usually
// os.Getenv; empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvStore); v != "" {
		c.Store.Driver = v
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		c.Store.DSN = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration for values the tracker cannot use.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	switch c.Store.Driver {
	case DriverFile, DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store: postgres requires a dsn (or %s)", EnvDatabaseURL)
		}
	default:
		return fmt.Errorf("store: unknown driver %q", c.Store.Driver)
	}

	if c.X01.StartScore < 2 {
		return fmt.Errorf("x01: start_score must be at least 2, got %d", c.X01.StartScore)
	}
	if c.X01.BestOfLegs < 1 {
		return fmt.Errorf("x01: best_of_legs must be at least 1, got %d", c.X01.BestOfLegs)
	}

	if c.AroundTheClock.MaxTarget < 1 || c.AroundTheClock.MaxTarget > game.DefaultMaxTarget {
		return fmt.Errorf("around_the_clock: max_target must be between 1 and %d, got %d",
			game.DefaultMaxTarget, c.AroundTheClock.MaxTarget)
	}
	if c.AroundTheClock.DartsPerTurn < 1 {
		return fmt.Errorf("around_the_clock: darts_per_turn must be at least 1, got %d", c.AroundTheClock.DartsPerTurn)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
