package tracker

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/lox/darts/internal/game"
)

type practiceRound struct {
	playerIDs  []string
	maxTarget  int
	states     map[string]game.ClockState
	current    int
	dartInTurn int
	startedAt  time.Time
	winnerID   string
}

// PracticeSnapshot is a read-only view of the Around the Clock round.
type PracticeSnapshot struct {
	PlayerIDs      []string
	MaxTarget      int
	States         map[string]game.ClockState
	CurrentIndex   int
	DartInTurn     int
	DartsPerTurn   int
	StartedAt      time.Time
	WinnerPlayerID string
}

// CurrentPlayerID returns the player due to throw.
func (s PracticeSnapshot) CurrentPlayerID() string {
	if len(s.PlayerIDs) == 0 {
		return ""
	}
	return s.PlayerIDs[s.CurrentIndex]
}

// Finished reports whether someone has completed the clock.
func (s PracticeSnapshot) Finished() bool {
	return s.WinnerPlayerID != ""
}

// DartResult reports what RegisterDart did.
type DartResult struct {
	Applied      bool
	PlayerID     string
	Target       int // target aimed at
	Hit          bool
	State        game.ClockState
	Finished     bool
	Session      game.PracticeSession // set when Finished
	NextPlayerID string
}

// StartAroundTheClock begins a round for playerIDs, in throwing order. A
// non-positive maxTarget uses game.DefaultMaxTarget. Any unfinished round is
// discarded.
func (t *Tracker) StartAroundTheClock(playerIDs []string, maxTarget int) error {
	if len(playerIDs) == 0 {
		return fmt.Errorf("%w: around the clock needs at least one player", game.ErrInvalidPlayers)
	}
	if maxTarget <= 0 {
		maxTarget = game.DefaultMaxTarget
	}

	states := make(map[string]game.ClockState, len(playerIDs))
	for _, id := range playerIDs {
		if _, dup := states[id]; dup {
			return fmt.Errorf("%w: duplicate player %q", game.ErrInvalidPlayers, id)
		}
		states[id] = game.NewClockState(maxTarget)
	}

	t.practice = &practiceRound{
		playerIDs: slices.Clone(playerIDs),
		maxTarget: maxTarget,
		states:    states,
		startedAt: t.clock.Now(),
	}
	t.logger.Info("Around the clock started", "players", len(playerIDs), "maxTarget", maxTarget)
	return nil
}

// RegisterDart applies one hit or miss for the current player. The first
// player to complete the clock wins immediately and the round is recorded.
// Otherwise the turn passes after DartsPerTurn darts. Without an active round,
// or once it has a winner, nothing happens and Applied is false.
func (t *Tracker) RegisterDart(ctx context.Context, hit bool) (DartResult, error) {
	p := t.practice
	if p == nil || p.winnerID != "" || len(p.playerIDs) == 0 {
		return DartResult{}, nil
	}

	now := t.clock.Now()
	playerID := p.playerIDs[p.current]
	before := p.states[playerID]
	after := game.ApplyDart(before, hit)

	states := maps.Clone(p.states)
	states[playerID] = after
	p.states = states

	result := DartResult{
		Applied:  true,
		PlayerID: playerID,
		Target:   before.CurrentTarget,
		Hit:      hit,
		State:    after,
	}

	t.logger.Debug("Dart registered",
		"player", playerID,
		"target", before.CurrentTarget,
		"hit", hit,
		"streak", after.CurrentStreak)
	t.bus.Publish(game.NewDartRegisteredEvent(playerID, before.CurrentTarget, hit, after, now))

	if after.Finished {
		session := t.summarise(p, playerID, now)
		p.winnerID = playerID
		t.sessions = append(t.sessions, session)

		result.Finished = true
		result.Session = session
		result.NextPlayerID = playerID

		t.logger.Info("Around the clock finished",
			"winner", playerID,
			"darts", session.DartsThrown,
			"bestStreak", session.BestStreak)
		t.bus.Publish(game.NewPracticeFinishedEvent(session, now))

		if t.store != nil {
			if err := t.store.SavePracticeSession(ctx, session); err != nil {
				t.logger.Error("Failed to save practice session", "session", session.ID, "error", err)
				return result, fmt.Errorf("save practice session %s: %w", session.ID, err)
			}
		}
		return result, nil
	}

	p.dartInTurn++
	if p.dartInTurn >= t.dartsPerTurn {
		p.current = (p.current + 1) % len(p.playerIDs)
		p.dartInTurn = 0
	}
	result.NextPlayerID = p.playerIDs[p.current]
	return result, nil
}

func (t *Tracker) summarise(p *practiceRound, winnerID string, now time.Time) game.PracticeSession {
	var darts, best int
	for _, id := range p.playerIDs {
		s := p.states[id]
		darts += s.DartsThrown
		best = max(best, s.BestStreak)
	}
	return game.PracticeSession{
		ID:             t.ids.New(),
		WinnerPlayerID: winnerID,
		PlayerIDs:      slices.Clone(p.playerIDs),
		MaxTarget:      p.maxTarget,
		DartsThrown:    darts,
		BestStreak:     best,
		StartedAt:      p.startedAt,
		FinishedAt:     now,
	}
}

// ResetAroundTheClock drops the current round without recording it.
func (t *Tracker) ResetAroundTheClock() {
	t.practice = nil
}

// Practice returns the current round, including a finished one that has not
// been reset yet.
func (t *Tracker) Practice() (PracticeSnapshot, bool) {
	p := t.practice
	if p == nil {
		return PracticeSnapshot{}, false
	}
	return PracticeSnapshot{
		PlayerIDs:      slices.Clone(p.playerIDs),
		MaxTarget:      p.maxTarget,
		States:         maps.Clone(p.states),
		CurrentIndex:   p.current,
		DartInTurn:     p.dartInTurn,
		DartsPerTurn:   t.dartsPerTurn,
		StartedAt:      p.startedAt,
		WinnerPlayerID: p.winnerID,
	}, true
}
