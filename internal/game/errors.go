package game

import "errors"

// Contract violations. These are caller errors, never game outcomes: a bust
// or checkout is reported through Visit flags instead.
var (
	ErrLegFinished     = errors.New("leg already finished")
	ErrNotPlayersTurn  = errors.New("not this player's turn")
	ErrInvalidVisit    = errors.New("invalid visit")
	ErrInvalidPlayers  = errors.New("invalid player list")
	ErrInvalidSettings = errors.New("invalid game settings")
)
