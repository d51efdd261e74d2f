package tracker

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/lox/darts/internal/game"
)

type activeMatch struct {
	match   game.Match
	leg     game.LegState
	legID   string
	legWins map[string]int
}

// LegResult reports what CloseLegIfWon did.
type LegResult struct {
	LegClosed      bool
	MatchFinished  bool
	MatchID        string
	Leg            game.Leg // the sealed leg, when LegClosed
	WinnerPlayerID string   // leg winner, and match winner when MatchFinished
}

// StartMatch begins a new X01 match and its first leg, thrown in the order of
// playerIDs. A bestOfLegs below 1 means a single leg. Any unfinished match is
// discarded without a history entry.
func (t *Tracker) StartMatch(playerIDs []string, startScore, bestOfLegs int) (game.Match, error) {
	if len(playerIDs) == 0 || len(playerIDs) > MaxX01Players {
		return game.Match{}, fmt.Errorf("%w: x01 needs 1 to %d players, got %d",
			game.ErrInvalidPlayers, MaxX01Players, len(playerIDs))
	}
	if bestOfLegs < 1 {
		bestOfLegs = 1
	}

	leg, err := game.NewLegState(playerIDs, startScore)
	if err != nil {
		return game.Match{}, err
	}

	wins := make(map[string]int, len(playerIDs))
	for _, id := range playerIDs {
		wins[id] = 0
	}

	m := game.Match{
		ID:         t.ids.New(),
		Mode:       game.ModeX01,
		StartScore: startScore,
		BestOfLegs: bestOfLegs,
		PlayerIDs:  slices.Clone(playerIDs),
		LegWins:    maps.Clone(wins),
		CreatedAt:  t.clock.Now(),
	}

	if t.active != nil {
		t.logger.Warn("Discarding unfinished match", "match", t.active.match.ID)
	}
	t.active = &activeMatch{
		match:   m,
		leg:     leg,
		legID:   t.ids.New(),
		legWins: wins,
	}

	t.logger.Info("Match started",
		"match", m.ID,
		"players", len(playerIDs),
		"startScore", startScore,
		"bestOf", bestOfLegs)
	return m, nil
}

// RecordVisit scores a visit for whoever is due to throw in the active leg.
// Busts and checkouts are reported through the returned visit. Recording into
// a leg that already has a winner fails with game.ErrLegFinished.
func (t *Tracker) RecordVisit(darts []int) (game.Visit, error) {
	if t.active == nil {
		return game.Visit{}, ErrNoActiveMatch
	}
	a := t.active

	next, visit, err := game.ApplyVisit(a.leg, a.leg.CurrentPlayerID, darts, t.clock.Now())
	if err != nil {
		return game.Visit{}, fmt.Errorf("match %s: %w", a.match.ID, err)
	}

	visit.ID = t.ids.New()
	visit.LegID = a.legID
	next.Visits[len(next.Visits)-1] = visit
	a.leg = next

	t.logger.Debug("Visit recorded",
		"match", a.match.ID,
		"player", visit.PlayerID,
		"total", visit.Total,
		"remaining", visit.RemainingAfter,
		"bust", visit.Bust,
		"checkout", visit.Checkout)
	t.bus.Publish(game.NewVisitRecordedEvent(a.match.ID, visit, visit.CreatedAt))
	return visit, nil
}

// CloseLegIfWon seals the active leg once it has a winner. If that win takes
// the match, the match is stamped, moved to history and persisted; otherwise
// the next leg starts with the throwing order rotated by one. Without an
// active match or a leg winner it does nothing.
func (t *Tracker) CloseLegIfWon(ctx context.Context) (LegResult, error) {
	if t.active == nil || !t.active.leg.IsFinished() {
		return LegResult{}, nil
	}
	a := t.active
	now := t.clock.Now()

	sealed := game.Leg{
		ID:               a.legID,
		MatchID:          a.match.ID,
		Sequence:         len(a.match.Legs) + 1,
		StartingPlayerID: a.leg.PlayerOrder[0],
		PlayerOrder:      slices.Clone(a.leg.PlayerOrder),
		WinnerPlayerID:   a.leg.WinnerPlayerID,
		Visits:           a.leg.Visits,
	}

	m := a.match
	m.Legs = append(slices.Clip(m.Legs), sealed)
	wins := countLegWins(m)
	m.LegWins = maps.Clone(wins)

	result := LegResult{
		LegClosed:      true,
		MatchID:        m.ID,
		Leg:            sealed,
		WinnerPlayerID: sealed.WinnerPlayerID,
	}

	t.logger.Info("Leg won",
		"match", m.ID,
		"leg", sealed.Sequence,
		"winner", sealed.WinnerPlayerID,
		"visits", len(sealed.Visits))
	t.bus.Publish(game.NewLegWonEvent(m.ID, sealed, wins, now))

	legsToWin := game.LegsToWin(m.BestOfLegs)
	winnerIdx := slices.IndexFunc(m.PlayerIDs, func(id string) bool { return wins[id] >= legsToWin })
	if winnerIdx >= 0 {
		winner := m.PlayerIDs[winnerIdx]
		m.FinishedAt = &now
		t.matches = append(t.matches, m)
		t.active = nil
		result.MatchFinished = true
		result.WinnerPlayerID = winner

		t.logger.Info("Match finished", "match", m.ID, "winner", winner, "legs", len(m.Legs))
		t.bus.Publish(game.NewMatchFinishedEvent(m, winner, now))

		if t.store != nil {
			if err := t.store.SaveMatch(ctx, m); err != nil {
				t.logger.Error("Failed to save match", "match", m.ID, "error", err)
				return result, fmt.Errorf("save match %s: %w", m.ID, err)
			}
		}
		return result, nil
	}

	order := game.RotateOrder(m.PlayerIDs, len(m.Legs)%len(m.PlayerIDs))
	leg, err := game.NewLegState(order, m.StartScore)
	if err != nil {
		return result, fmt.Errorf("start leg %d: %w", len(m.Legs)+1, err)
	}
	t.active = &activeMatch{
		match:   m,
		leg:     leg,
		legID:   t.ids.New(),
		legWins: wins,
	}
	t.logger.Debug("Next leg started", "match", m.ID, "leg", len(m.Legs)+1, "starter", order[0])
	return result, nil
}

// AbandonMatch drops the active match without recording it. It reports
// whether there was anything to abandon.
func (t *Tracker) AbandonMatch() bool {
	if t.active == nil {
		return false
	}
	t.logger.Info("Match abandoned", "match", t.active.match.ID, "legs", len(t.active.match.Legs))
	t.active = nil
	return true
}

// ActiveMatch returns the match in progress.
func (t *Tracker) ActiveMatch() (game.Match, bool) {
	if t.active == nil {
		return game.Match{}, false
	}
	m := t.active.match
	m.LegWins = maps.Clone(m.LegWins)
	return m, true
}

// ActiveLeg returns the leg in progress and its id.
func (t *Tracker) ActiveLeg() (game.LegState, string, bool) {
	if t.active == nil {
		return game.LegState{}, "", false
	}
	leg := t.active.leg
	leg.Scores = maps.Clone(leg.Scores)
	return leg, t.active.legID, true
}

// LegWins returns the leg-win counts of the active match.
func (t *Tracker) LegWins() map[string]int {
	if t.active == nil {
		return map[string]int{}
	}
	return maps.Clone(t.active.legWins)
}

func countLegWins(m game.Match) map[string]int {
	wins := make(map[string]int, len(m.PlayerIDs))
	for _, id := range m.PlayerIDs {
		wins[id] = 0
	}
	for _, leg := range m.Legs {
		if leg.WinnerPlayerID != "" {
			wins[leg.WinnerPlayerID]++
		}
	}
	return wins
}
