// Package game implements the darts scoring rules for X01 and Around the
// Clock.
//
// The package is a functional core: every transition takes a state value and
// returns a new one, leaving the input untouched. It performs no I/O and
// holds no clock; timestamps are passed in by the caller.
//
// # X01
//
// A LegState counts every player down from a start score:
//
//	leg, _ := game.NewLegState([]string{"alice", "bob"}, 501)
//	leg, visit, err := game.ApplyVisit(leg, "alice", []int{60, 60, 60}, time.Now())
//	if visit.Bust { ... }
//	if leg.IsFinished() { winner := leg.WinnerPlayerID }
//
// A visit that would leave the player below zero or on exactly 1 is a bust and
// the score reverts. Reaching zero checks out and ends the leg. Calling
// ApplyVisit on a finished leg, or for a player whose turn it is not, returns
// ErrLegFinished or ErrNotPlayersTurn.
//
// # Around the Clock
//
// A ClockState tracks one player hitting 1..MaxTarget in order:
//
//	s := game.NewClockState(game.DefaultMaxTarget)
//	s = game.ApplyDart(s, true)  // target 1 hit, now on 2
//	s = game.ApplyDart(s, false) // miss, streak reset
//
// # Events
//
// The tracker publishes GameEvent values on an EventBus as visits, legs and
// practice rounds complete. EventFormatter renders them as log lines.
package game
