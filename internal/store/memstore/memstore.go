// Package memstore keeps history in memory. It backs tests and the CLI's
// --ephemeral mode.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/lox/darts/internal/game"
)

// Store is an in-memory tracker.Store. Saves upsert by id and keep first-save
// order.
type Store struct {
	mu       sync.Mutex
	players  []game.Player
	matches  []game.Match
	sessions []game.PracticeSession

	// Err, when set, is returned by every save. Tests use it to simulate a
	// failing backend.
	Err error
}

// New returns an empty store, optionally seeded with history.
func New(seed ...game.History) *Store {
	s := &Store{}
	for _, h := range seed {
		s.players = append(s.players, h.Players...)
		s.matches = append(s.matches, h.Matches...)
		s.sessions = append(s.sessions, h.Sessions...)
	}
	return s
}

func (s *Store) Load(ctx context.Context) (game.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.History{
		Players:  slices.Clone(s.players),
		Matches:  slices.Clone(s.matches),
		Sessions: slices.Clone(s.sessions),
	}, nil
}

func (s *Store) SavePlayer(ctx context.Context, p game.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.players = upsert(s.players, p, func(x game.Player) string { return x.ID })
	return nil
}

func (s *Store) SaveMatch(ctx context.Context, m game.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.matches = upsert(s.matches, m, func(x game.Match) string { return x.ID })
	return nil
}

func (s *Store) SavePracticeSession(ctx context.Context, ps game.PracticeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sessions = upsert(s.sessions, ps, func(x game.PracticeSession) string { return x.ID })
	return nil
}

func upsert[T any](list []T, v T, id func(T) string) []T {
	key := id(v)
	if i := slices.IndexFunc(list, func(x T) bool { return id(x) == key }); i >= 0 {
		list[i] = v
		return list
	}
	return append(list, v)
}
