// Package filestore persists darts history as JSON files in a directory:
// players.json, matches.json and sessions.json. Each save rewrites one file
// atomically.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/darts/internal/fileutil"
	"github.com/lox/darts/internal/game"
	"golang.org/x/sync/errgroup"
)

const (
	PlayersFile  = "players.json"
	MatchesFile  = "matches.json"
	SessionsFile = "sessions.json"

	// FormatVersion is written into every file. Files with a newer version
	// are refused.
	FormatVersion = 1

	filePerm = 0o644
)

type envelope[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// Store is a directory-backed tracker.Store. It is safe for concurrent use.
type Store struct {
	dir    string
	logger *log.Logger

	mu       sync.Mutex
	loaded   bool
	players  []game.Player
	matches  []game.Match
	sessions []game.PracticeSession
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Store{dir: dir, logger: logger.WithPrefix("filestore")}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the three files concurrently. Missing files are empty.
func (s *Store) Load(ctx context.Context) (game.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (game.History, error) {
	var h game.History
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return readEnvelope(filepath.Join(s.dir, PlayersFile), &h.Players) })
	g.Go(func() error { return readEnvelope(filepath.Join(s.dir, MatchesFile), &h.Matches) })
	g.Go(func() error { return readEnvelope(filepath.Join(s.dir, SessionsFile), &h.Sessions) })
	if err := g.Wait(); err != nil {
		return game.History{}, err
	}

	s.players, s.matches, s.sessions = h.Players, h.Matches, h.Sessions
	s.loaded = true
	s.logger.Debug("Loaded history",
		"dir", s.dir,
		"players", len(h.Players),
		"matches", len(h.Matches),
		"sessions", len(h.Sessions))

	return game.History{
		Players:  slices.Clone(h.Players),
		Matches:  slices.Clone(h.Matches),
		Sessions: slices.Clone(h.Sessions),
	}, nil
}

func (s *Store) SavePlayer(ctx context.Context, p game.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	next := upsert(s.players, p, func(x game.Player) string { return x.ID })
	if err := writeEnvelope(filepath.Join(s.dir, PlayersFile), next); err != nil {
		return err
	}
	s.players = next
	return nil
}

func (s *Store) SaveMatch(ctx context.Context, m game.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	next := upsert(s.matches, m, func(x game.Match) string { return x.ID })
	if err := writeEnvelope(filepath.Join(s.dir, MatchesFile), next); err != nil {
		return err
	}
	s.matches = next
	s.logger.Debug("Saved match", "match", m.ID, "total", len(next))
	return nil
}

func (s *Store) SavePracticeSession(ctx context.Context, ps game.PracticeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	next := upsert(s.sessions, ps, func(x game.PracticeSession) string { return x.ID })
	if err := writeEnvelope(filepath.Join(s.dir, SessionsFile), next); err != nil {
		return err
	}
	s.sessions = next
	s.logger.Debug("Saved practice session", "session", ps.ID, "total", len(next))
	return nil
}

// ensureLoaded reads existing files before the first write so a save never
// truncates history it has not seen. Callers hold s.mu.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	_, err := s.load(ctx)
	return err
}

func readEnvelope[T any](path string, out *[]T) error {
	var env envelope[T]
	found, err := fileutil.ReadJSON(path, &env)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if env.Version > FormatVersion {
		return fmt.Errorf("%s: unsupported format version %d", filepath.Base(path), env.Version)
	}
	*out = env.Items
	return nil
}

func writeEnvelope[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := fileutil.WriteJSONAtomic(path, envelope[T]{Version: FormatVersion, Items: items}, os.FileMode(filePerm)); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// upsert returns a new slice with v replacing the element sharing its id, or
// appended.
func upsert[T any](list []T, v T, id func(T) string) []T {
	out := slices.Clone(list)
	key := id(v)
	if i := slices.IndexFunc(out, func(x T) bool { return id(x) == key }); i >= 0 {
		out[i] = v
		return out
	}
	return append(out, v)
}
