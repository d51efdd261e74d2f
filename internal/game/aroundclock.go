package game

import "maps"

// DefaultMaxTarget is the last number of a standard Around the Clock round.
const DefaultMaxTarget = 20

// ClockState tracks one player's progress through targets 1..MaxTarget.
type ClockState struct {
	CurrentTarget int
	MaxTarget     int
	DartsThrown   int
	HitsByNumber  map[int]int
	CurrentStreak int
	BestStreak    int
	Finished      bool
}

// NewClockState returns a fresh state aiming at 1. A non-positive maxTarget
// falls back to DefaultMaxTarget.
func NewClockState(maxTarget int) ClockState {
	if maxTarget <= 0 {
		maxTarget = DefaultMaxTarget
	}
	hits := make(map[int]int, maxTarget)
	for n := 1; n <= maxTarget; n++ {
		hits[n] = 0
	}
	return ClockState{
		CurrentTarget: 1,
		MaxTarget:     maxTarget,
		HitsByNumber:  hits,
	}
}

// ApplyDart records one dart. A hit on the current target advances to the
// next number, or finishes the round on the last one; a miss only breaks the
// streak. Both count as a dart thrown. Finished states are returned as-is.
func ApplyDart(state ClockState, hit bool) ClockState {
	if state.Finished {
		return state
	}

	next := state
	next.HitsByNumber = maps.Clone(state.HitsByNumber)
	next.DartsThrown++

	if !hit {
		next.CurrentStreak = 0
		return next
	}

	next.HitsByNumber[state.CurrentTarget]++
	next.CurrentStreak++
	if next.CurrentStreak > next.BestStreak {
		next.BestStreak = next.CurrentStreak
	}

	if state.CurrentTarget >= state.MaxTarget {
		next.Finished = true
	} else {
		next.CurrentTarget = state.CurrentTarget + 1
	}
	return next
}

// NumbersCompleted returns how many targets have been hit so far.
func (s ClockState) NumbersCompleted() int {
	if s.Finished {
		return s.MaxTarget
	}
	return s.CurrentTarget - 1
}

// ReachedTarget returns the highest target the player has reached, capped at
// MaxTarget.
func (s ClockState) ReachedTarget() int {
	return min(s.CurrentTarget, s.MaxTarget)
}

// AverageDartsPerNumber returns darts thrown per completed number. Before the
// first hit the divisor is 1.
func AverageDartsPerNumber(s ClockState) float64 {
	if s.MaxTarget <= 0 {
		return 0
	}
	if s.Finished {
		return float64(s.DartsThrown) / float64(s.MaxTarget)
	}
	return float64(s.DartsThrown) / float64(max(s.CurrentTarget-1, 1))
}
