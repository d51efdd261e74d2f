package pgstore

import (
	"slices"
	"time"

	"github.com/lox/darts/internal/game"
)

// PlayerRecord is the players table row.
type PlayerRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(26)"`
	Name      string `gorm:"not null"`
	Handle    string `gorm:"index;not null"`
	Nickname  string
	Flag      string `gorm:"type:varchar(8)"`
	Hidden    bool   `gorm:"default:false"`
	CreatedAt time.Time
}

func (PlayerRecord) TableName() string { return "players" }

// MatchRecord is the matches table row. Legs and their visits are stored as
// one JSON document; a sealed match is never queried below match level.
type MatchRecord struct {
	ID         string         `gorm:"primaryKey;type:varchar(26)"`
	Mode       string         `gorm:"type:varchar(32);not null"`
	StartScore int            `gorm:"not null"`
	BestOfLegs int            `gorm:"not null"`
	PlayerIDs  []string       `gorm:"serializer:json"`
	Legs       []game.Leg     `gorm:"serializer:json"`
	LegWins    map[string]int `gorm:"serializer:json"`
	CreatedAt  time.Time      `gorm:"index"`
	FinishedAt *time.Time
}

func (MatchRecord) TableName() string { return "matches" }

// PracticeSessionRecord is the practice_sessions table row.
type PracticeSessionRecord struct {
	ID             string   `gorm:"primaryKey;type:varchar(26)"`
	WinnerPlayerID string   `gorm:"index;type:varchar(26)"`
	PlayerIDs      []string `gorm:"serializer:json"`
	MaxTarget      int
	DartsThrown    int
	BestStreak     int
	StartedAt      time.Time
	FinishedAt     time.Time `gorm:"index"`
}

func (PracticeSessionRecord) TableName() string { return "practice_sessions" }

func playerToRecord(p game.Player) PlayerRecord {
	return PlayerRecord{
		ID:        p.ID,
		Name:      p.Name,
		Handle:    p.Handle,
		Nickname:  p.Nickname,
		Flag:      p.Flag,
		Hidden:    p.Hidden,
		CreatedAt: p.CreatedAt,
	}
}

func playerFromRecord(r PlayerRecord) game.Player {
	return game.Player{
		ID:        r.ID,
		Name:      r.Name,
		Handle:    r.Handle,
		Nickname:  r.Nickname,
		Flag:      r.Flag,
		Hidden:    r.Hidden,
		CreatedAt: r.CreatedAt,
	}
}

func matchToRecord(m game.Match) MatchRecord {
	return MatchRecord{
		ID:         m.ID,
		Mode:       m.Mode.String(),
		StartScore: m.StartScore,
		BestOfLegs: m.BestOfLegs,
		PlayerIDs:  slices.Clone(m.PlayerIDs),
		Legs:       m.Legs,
		LegWins:    m.LegWins,
		CreatedAt:  m.CreatedAt,
		FinishedAt: m.FinishedAt,
	}
}

func matchFromRecord(r MatchRecord) game.Match {
	return game.Match{
		ID:         r.ID,
		Mode:       game.Mode(r.Mode),
		StartScore: r.StartScore,
		BestOfLegs: r.BestOfLegs,
		PlayerIDs:  r.PlayerIDs,
		Legs:       r.Legs,
		LegWins:    r.LegWins,
		CreatedAt:  r.CreatedAt,
		FinishedAt: r.FinishedAt,
	}
}

func sessionToRecord(s game.PracticeSession) PracticeSessionRecord {
	return PracticeSessionRecord{
		ID:             s.ID,
		WinnerPlayerID: s.WinnerPlayerID,
		PlayerIDs:      slices.Clone(s.PlayerIDs),
		MaxTarget:      s.MaxTarget,
		DartsThrown:    s.DartsThrown,
		BestStreak:     s.BestStreak,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
	}
}

func sessionFromRecord(r PracticeSessionRecord) game.PracticeSession {
	return game.PracticeSession{
		ID:             r.ID,
		WinnerPlayerID: r.WinnerPlayerID,
		PlayerIDs:      r.PlayerIDs,
		MaxTarget:      r.MaxTarget,
		DartsThrown:    r.DartsThrown,
		BestStreak:     r.BestStreak,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}
