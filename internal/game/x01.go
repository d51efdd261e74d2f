package game

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// PendingLegID is the leg id stamped on visits produced by ApplyVisit. The
// engine has no notion of leg identity; the tracker replaces it.
const PendingLegID = "leg-pending"

// MaxDartsPerVisit is the number of darts a player throws in one visit.
const MaxDartsPerVisit = 3

// LegState is the state of one X01 leg. Values are never modified in place:
// ApplyVisit returns a fresh LegState and leaves its input untouched.
type LegState struct {
	StartScore      int
	PlayerOrder     []string
	Scores          map[string]int // remaining score per player
	CurrentPlayerID string
	Visits          []Visit
	WinnerPlayerID  string
}

// NewLegState creates the initial state of a leg. Every player starts on
// startScore and the first player in order throws first.
func NewLegState(playerOrder []string, startScore int) (LegState, error) {
	if len(playerOrder) == 0 {
		return LegState{}, fmt.Errorf("%w: leg needs at least one player", ErrInvalidPlayers)
	}
	if startScore < 2 {
		return LegState{}, fmt.Errorf("%w: start score %d", ErrInvalidSettings, startScore)
	}

	scores := make(map[string]int, len(playerOrder))
	for _, id := range playerOrder {
		if _, dup := scores[id]; dup {
			return LegState{}, fmt.Errorf("%w: duplicate player %q", ErrInvalidPlayers, id)
		}
		scores[id] = startScore
	}

	return LegState{
		StartScore:      startScore,
		PlayerOrder:     slices.Clone(playerOrder),
		Scores:          scores,
		CurrentPlayerID: playerOrder[0],
	}, nil
}

// IsFinished reports whether a player has checked out.
func (s LegState) IsFinished() bool {
	return s.WinnerPlayerID != ""
}

// Remaining returns the score the player still needs.
func (s LegState) Remaining(playerID string) int {
	return s.Scores[playerID]
}

// ApplyVisit scores one visit for playerID and returns the new leg state with
// the visit record appended.
//
// Leaving a negative score or exactly 1 is a bust: the player's score stays at
// its pre-visit value and the visit is recorded with that value. Reaching 0 is
// a checkout and ends the leg. Otherwise the turn passes to the next player.
func ApplyVisit(state LegState, playerID string, darts []int, at time.Time) (LegState, Visit, error) {
	if state.IsFinished() {
		return state, Visit{}, ErrLegFinished
	}
	if playerID != state.CurrentPlayerID {
		return state, Visit{}, fmt.Errorf("%w: expected %s, got %s", ErrNotPlayersTurn, state.CurrentPlayerID, playerID)
	}
	if len(darts) == 0 || len(darts) > MaxDartsPerVisit {
		return state, Visit{}, fmt.Errorf("%w: %d darts", ErrInvalidVisit, len(darts))
	}

	total := 0
	for _, d := range darts {
		if d < 0 {
			return state, Visit{}, fmt.Errorf("%w: negative dart score %d", ErrInvalidVisit, d)
		}
		total += d
	}

	before := state.Scores[playerID]
	remaining := before - total

	var bust, checkout bool
	switch {
	case remaining < 0, remaining == 1:
		bust = true
		remaining = before
	case remaining == 0:
		checkout = true
	}

	visit := Visit{
		LegID:          PendingLegID,
		PlayerID:       playerID,
		Scores:         slices.Clone(darts),
		Total:          total,
		RemainingAfter: remaining,
		Bust:           bust,
		Checkout:       checkout,
		CreatedAt:      at,
	}

	next := state
	next.Scores = maps.Clone(state.Scores)
	next.Scores[playerID] = remaining
	next.Visits = append(slices.Clip(state.Visits), visit)

	if checkout {
		next.WinnerPlayerID = playerID
	} else {
		next.CurrentPlayerID = nextInOrder(state.PlayerOrder, playerID)
	}

	return next, visit, nil
}

// nextInOrder returns the player after id in order, wrapping around.
func nextInOrder(order []string, id string) string {
	idx := slices.Index(order, id)
	return order[(idx+1)%len(order)]
}

// RotateOrder returns order rotated so it begins at index start.
func RotateOrder(order []string, start int) []string {
	if len(order) == 0 {
		return nil
	}
	start %= len(order)
	rotated := make([]string, 0, len(order))
	rotated = append(rotated, order[start:]...)
	rotated = append(rotated, order[:start]...)
	return rotated
}

// LegAverage returns the player's 3-dart average for the leg. Every visit is
// counted as three darts regardless of how many scores were entered.
func LegAverage(state LegState, playerID string) float64 {
	var scored, visits int
	for _, v := range state.Visits {
		if v.PlayerID != playerID {
			continue
		}
		scored += v.Total
		visits++
	}
	if visits == 0 {
		return 0
	}
	perDart := float64(scored) / float64(visits*MaxDartsPerVisit)
	return perDart * MaxDartsPerVisit
}
