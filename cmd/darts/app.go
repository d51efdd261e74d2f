package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/lox/darts/cmd/darts/shared"
	"github.com/lox/darts/internal/config"
	"github.com/lox/darts/internal/store/filestore"
	"github.com/lox/darts/internal/store/memstore"
	"github.com/lox/darts/internal/store/pgstore"
	"github.com/lox/darts/internal/tracker"
)

// LogFile is written in the data directory while the TUI is running.
const LogFile = "darts.log"

// Globals are flags shared by every command.
type Globals struct {
	Config    string `help:"Config file (default: <data-dir>/darts.hcl)" type:"path"`
	DataDir   string `help:"Directory holding history and config" type:"path"`
	Debug     bool   `help:"Enable debug logging"`
	Ephemeral bool   `help:"Keep history in memory only"`

	stdout io.Writer           `kong:"-"`
	getenv func(string) string `kong:"-"`
}

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	tracker *tracker.Tracker
	out     io.Writer

	closers []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

func (g *Globals) out() io.Writer {
	if g.stdout != nil {
		return g.stdout
	}
	return os.Stdout
}

func (g *Globals) env(key string) string {
	if g.getenv != nil {
		return g.getenv(key)
	}
	return os.Getenv(key)
}

func (g *Globals) loadConfig() (*config.Config, error) {
	dataDir := g.DataDir
	if dataDir == "" {
		dataDir = g.env(config.EnvDataDir)
	}
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	path := g.Config
	if path == "" {
		path = filepath.Join(dataDir, config.FileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.ApplyEnv(g.env)
	cfg.DataDir = dataDir
	if g.Ephemeral {
		cfg.Store.Driver = config.DriverMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// open resolves config, logging and the store, and loads history. With
// toFile set the logger writes to the data directory instead of stderr.
func (g *Globals) open(ctx context.Context, toFile bool) (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, out: g.out()}
	if toFile {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		logger, f, err := shared.SetupFileLogger(g.Debug, filepath.Join(cfg.DataDir, LogFile))
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logger = logger
		a.closers = append(a.closers, f)
	} else {
		a.logger = shared.SetupLogger(g.Debug, nil)
	}
	if !g.Debug {
		a.logger.SetLevel(cfg.Level())
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.tracker = tracker.New(
		tracker.WithLogger(a.logger),
		tracker.WithStore(store),
		tracker.WithDartsPerTurn(cfg.AroundTheClock.DartsPerTurn),
	)
	if err := a.tracker.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (tracker.Store, error) {
	switch a.cfg.Store.Driver {
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverPostgres:
		s, err := pgstore.Open(ctx, a.cfg.Store.DSN, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		return filestore.New(a.cfg.DataDir, a.logger), nil
	}
}
