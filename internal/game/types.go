package game

import "time"

// Mode identifies the kind of game a history entry belongs to.
type Mode string

const (
	ModeX01            Mode = "x01"
	ModeAroundTheClock Mode = "around_the_clock"
)

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// Player is a person who can throw darts. Players are never deleted, only
// hidden from selection lists.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	Nickname  string    `json:"nickname,omitempty"`
	Flag      string    `json:"flag,omitempty"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the nickname when set, otherwise the name.
func (p Player) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}

// Visit is one turn by one player: up to three darts.
type Visit struct {
	ID             string    `json:"id"`
	LegID          string    `json:"leg_id"`
	PlayerID       string    `json:"player_id"`
	Scores         []int     `json:"scores"`
	Total          int       `json:"total"`
	RemainingAfter int       `json:"remaining_after"`
	Bust           bool      `json:"bust"`
	Checkout       bool      `json:"checkout"`
	CreatedAt      time.Time `json:"created_at"`
}

// RemainingBefore reconstructs the score the player had on the board before
// this visit. Busts store the reverted pre-visit score in RemainingAfter.
func (v Visit) RemainingBefore() int {
	if v.Bust {
		return v.RemainingAfter
	}
	return v.RemainingAfter + v.Total
}

// Leg is a sealed X01 leg inside a match.
type Leg struct {
	ID               string   `json:"id"`
	MatchID          string   `json:"match_id"`
	Sequence         int      `json:"sequence"`
	StartingPlayerID string   `json:"starting_player_id"`
	PlayerOrder      []string `json:"player_order"`
	WinnerPlayerID   string   `json:"winner_player_id,omitempty"`
	Visits           []Visit  `json:"visits"`
}

// Match is a best-of-N sequence of X01 legs between 1 and 4 players.
type Match struct {
	ID         string         `json:"id"`
	Mode       Mode           `json:"mode"`
	StartScore int            `json:"start_score"`
	BestOfLegs int            `json:"best_of_legs"`
	PlayerIDs  []string       `json:"player_ids"`
	Legs       []Leg          `json:"legs"`
	LegWins    map[string]int `json:"leg_wins,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// IsFinished reports whether the match has been stamped with a finish time.
func (m Match) IsFinished() bool {
	return m.FinishedAt != nil
}

// HasPlayer reports whether playerID takes part in the match.
func (m Match) HasPlayer(playerID string) bool {
	for _, id := range m.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Visits returns every visit in the match, in leg order.
func (m Match) Visits() []Visit {
	var out []Visit
	for _, leg := range m.Legs {
		out = append(out, leg.Visits...)
	}
	return out
}

// PracticeSession summarises a finished Around the Clock round.
type PracticeSession struct {
	ID             string    `json:"id"`
	WinnerPlayerID string    `json:"winner_player_id"`
	PlayerIDs      []string  `json:"player_ids"`
	MaxTarget      int       `json:"max_target"`
	DartsThrown    int       `json:"darts_thrown"`
	BestStreak     int       `json:"best_streak"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// History is the durable part of the tracker state.
type History struct {
	Players  []Player          `json:"players"`
	Matches  []Match           `json:"matches"`
	Sessions []PracticeSession `json:"sessions"`
}

// LegsToWin returns the number of legs a player needs to take a best-of-N match.
func LegsToWin(bestOfLegs int) int {
	if bestOfLegs < 1 {
		bestOfLegs = 1
	}
	return bestOfLegs/2 + 1
}

// NormalizeBestOfLegs maps a requested best-of count onto an odd number so a
// strict majority always exists.
func NormalizeBestOfLegs(n int) int {
	if n < 1 {
		return 1
	}
	if n%2 == 0 {
		return n + 1
	}
	return n
}
