// Package statistics derives read-only figures from finished games.
package statistics

import "github.com/lox/darts/internal/game"

// CheckoutThreshold is the highest score that can be finished in one visit.
// Any visit started on this score or lower is a checkout opportunity.
const CheckoutThreshold = 170

// MatchWinner returns the player with the most legs won. Ties go to whoever
// comes first in the match's player order. Matches without leg-win counts
// fall back to the winner of the last leg. A match with no legs has no winner.
func MatchWinner(m game.Match) (string, bool) {
	if len(m.Legs) == 0 {
		return "", false
	}
	if m.LegWins == nil {
		w := m.Legs[len(m.Legs)-1].WinnerPlayerID
		return w, w != ""
	}

	best, bestWins := "", -1
	for _, id := range m.PlayerIDs {
		if wins, ok := m.LegWins[id]; ok && wins > bestWins {
			best, bestWins = id, wins
		}
	}
	return best, best != ""
}

// PlayerMatchAverage is the mean visit total for playerID across the match.
// Every visit counts as one three-dart turn, however many darts were entered.
func PlayerMatchAverage(m game.Match, playerID string) float64 {
	var visits, total int
	for _, v := range m.Visits() {
		if v.PlayerID != playerID {
			continue
		}
		visits++
		total += v.Total
	}
	if visits == 0 {
		return 0
	}
	return float64(total) / float64(visits)
}

// CheckoutRate counts finishing chances and how many were taken.
type CheckoutRate struct {
	Successes     int
	Opportunities int
	Percent       float64
}

// PlayerCheckoutRate evaluates every visit playerID started within reach of a
// finish.
func PlayerCheckoutRate(m game.Match, playerID string) CheckoutRate {
	var r CheckoutRate
	for _, v := range m.Visits() {
		if v.PlayerID != playerID || v.RemainingBefore() > CheckoutThreshold {
			continue
		}
		r.Opportunities++
		if v.Checkout {
			r.Successes++
		}
	}
	if r.Opportunities > 0 {
		r.Percent = float64(r.Successes) / float64(r.Opportunities) * 100
	}
	return r
}

// HighestCheckout returns playerID's largest finishing visit in the match, or 0.
func HighestCheckout(m game.Match, playerID string) int {
	best := 0
	for _, v := range m.Visits() {
		if v.PlayerID == playerID && v.Checkout {
			best = max(best, v.Total)
		}
	}
	return best
}

// LegStats summarises one player's visits in a leg.
type LegStats struct {
	Visits      int
	DartsThrown int
	TotalScored int
	Busts       int
	Checkouts   int
	Maximums    int // 180s
	Ton40Plus   int // 140-179
	TonPlus     int // 100-139
}

// ThreeDartAverage scales the points scored to three darts using the darts
// actually entered.
func (s LegStats) ThreeDartAverage() float64 {
	if s.DartsThrown == 0 {
		return 0
	}
	return float64(s.TotalScored*3) / float64(s.DartsThrown)
}

// LegPlayerStats tallies playerID's visits. Visit totals are counted as
// entered, busts included.
func LegPlayerStats(visits []game.Visit, playerID string) LegStats {
	var s LegStats
	for _, v := range visits {
		if v.PlayerID != playerID {
			continue
		}
		s.Visits++
		s.DartsThrown += len(v.Scores)
		s.TotalScored += v.Total
		if v.Bust {
			s.Busts++
		}
		if v.Checkout {
			s.Checkouts++
		}
		switch {
		case v.Total >= 180:
			s.Maximums++
		case v.Total >= 140:
			s.Ton40Plus++
		case v.Total >= 100:
			s.TonPlus++
		}
	}
	return s
}
