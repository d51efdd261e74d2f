// Package tracker owns the active X01 match, the active Around the Clock
// round and the append-only history of finished games.
//
// The scoring rules live in package game as pure functions. Tracker is the
// imperative shell around them: it keeps the current state, feeds each user
// action through the engine, assigns the result, and hands sealed records to
// a Store. It is not safe for concurrent use; callers serialise actions.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/darts/internal/game"
	"github.com/lox/darts/internal/ids"
)

var (
	ErrNoActiveMatch = errors.New("no active match")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrInvalidPlayer = errors.New("invalid player")
)

const (
	// MaxX01Players is the largest field an X01 match accepts.
	MaxX01Players = 4
	// DefaultDartsPerTurn is the Around the Clock turn size.
	DefaultDartsPerTurn = 3
)

// Store persists players and sealed games. In-progress legs and practice
// rounds are never written.
type Store interface {
	Load(ctx context.Context) (game.History, error)
	SavePlayer(ctx context.Context, p game.Player) error
	SaveMatch(ctx context.Context, m game.Match) error
	SavePracticeSession(ctx context.Context, s game.PracticeSession) error
}

// IDSource produces unique identifiers.
type IDSource interface {
	New() string
}

// Option configures a Tracker.
type Option func(*config)

type config struct {
	clock        quartz.Clock
	logger       *log.Logger
	store        Store
	ids          IDSource
	bus          game.EventBus
	dartsPerTurn int
}

// WithClock sets the clock used for every timestamp. Defaults to the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStore sets the persistence backend. Without one nothing is persisted.
func WithStore(store Store) Option {
	return func(c *config) { c.store = store }
}

// WithIDSource overrides ID generation.
func WithIDSource(src IDSource) Option {
	return func(c *config) { c.ids = src }
}

// WithEventBus publishes events on an existing bus instead of a private one.
func WithEventBus(bus game.EventBus) Option {
	return func(c *config) { c.bus = bus }
}

// WithDartsPerTurn sets how many Around the Clock darts a player throws before
// the turn passes.
func WithDartsPerTurn(n int) Option {
	return func(c *config) { c.dartsPerTurn = n }
}

// Tracker holds the current games and the finished history.
type Tracker struct {
	clock        quartz.Clock
	logger       *log.Logger
	store        Store
	ids          IDSource
	bus          game.EventBus
	dartsPerTurn int

	players  []game.Player
	matches  []game.Match
	sessions []game.PracticeSession

	active   *activeMatch
	practice *practiceRound
}

// New creates a tracker with empty history.
func New(opts ...Option) *Tracker {
	cfg := &config{dartsPerTurn: DefaultDartsPerTurn}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.ids == nil {
		cfg.ids = ids.NewGenerator(nil)
	}
	if cfg.bus == nil {
		cfg.bus = game.NewEventBus()
	}
	if cfg.dartsPerTurn < 1 {
		cfg.dartsPerTurn = DefaultDartsPerTurn
	}

	return &Tracker{
		clock:        cfg.clock,
		logger:       cfg.logger.WithPrefix("tracker"),
		store:        cfg.store,
		ids:          cfg.ids,
		bus:          cfg.bus,
		dartsPerTurn: cfg.dartsPerTurn,
	}
}

// Load replaces the in-memory history with what the store holds.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	h, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	t.players = h.Players
	t.matches = h.Matches
	t.sessions = h.Sessions
	t.logger.Debug("History loaded",
		"players", len(t.players),
		"matches", len(t.matches),
		"sessions", len(t.sessions))
	return nil
}

// Events returns the bus the tracker publishes on.
func (t *Tracker) Events() game.EventBus {
	return t.bus
}

// DartsPerTurn returns the configured Around the Clock turn size.
func (t *Tracker) DartsPerTurn() int {
	return t.dartsPerTurn
}

// Matches returns the finished matches, oldest first.
func (t *Tracker) Matches() []game.Match {
	return append([]game.Match(nil), t.matches...)
}

// Match looks up a finished match by id.
func (t *Tracker) Match(id string) (game.Match, bool) {
	for _, m := range t.matches {
		if m.ID == id {
			return m, true
		}
	}
	return game.Match{}, false
}

// Sessions returns the finished practice sessions, oldest first.
func (t *Tracker) Sessions() []game.PracticeSession {
	return append([]game.PracticeSession(nil), t.sessions...)
}
