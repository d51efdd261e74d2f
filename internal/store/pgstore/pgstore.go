// Package pgstore persists darts history in PostgreSQL through gorm.
package pgstore

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/darts/internal/game"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store is a gorm-backed tracker.Store.
type Store struct {
	db     *gorm.DB
	logger *log.Logger
}

// Open connects to dsn and migrates the schema.
func Open(ctx context.Context, dsn string, l *log.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	s := New(db, l)
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection.
func New(db *gorm.DB, l *log.Logger) *Store {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Store{db: db, logger: l.WithPrefix("pgstore")}
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&PlayerRecord{},
		&MatchRecord{},
		&PracticeSessionRecord{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Load(ctx context.Context) (game.History, error) {
	db := s.db.WithContext(ctx)

	var players []PlayerRecord
	if err := db.Order("created_at, id").Find(&players).Error; err != nil {
		return game.History{}, fmt.Errorf("load players: %w", err)
	}
	var matches []MatchRecord
	if err := db.Order("created_at, id").Find(&matches).Error; err != nil {
		return game.History{}, fmt.Errorf("load matches: %w", err)
	}
	var sessions []PracticeSessionRecord
	if err := db.Order("finished_at, id").Find(&sessions).Error; err != nil {
		return game.History{}, fmt.Errorf("load practice sessions: %w", err)
	}

	h := game.History{
		Players:  make([]game.Player, 0, len(players)),
		Matches:  make([]game.Match, 0, len(matches)),
		Sessions: make([]game.PracticeSession, 0, len(sessions)),
	}
	for _, r := range players {
		h.Players = append(h.Players, playerFromRecord(r))
	}
	for _, r := range matches {
		h.Matches = append(h.Matches, matchFromRecord(r))
	}
	for _, r := range sessions {
		h.Sessions = append(h.Sessions, sessionFromRecord(r))
	}
	s.logger.Debug("Loaded history", "players", len(h.Players), "matches", len(h.Matches), "sessions", len(h.Sessions))
	return h, nil
}

func (s *Store) SavePlayer(ctx context.Context, p game.Player) error {
	rec := playerToRecord(p)
	return s.upsert(ctx, &rec, "player", p.ID)
}

func (s *Store) SaveMatch(ctx context.Context, m game.Match) error {
	rec := matchToRecord(m)
	return s.upsert(ctx, &rec, "match", m.ID)
}

func (s *Store) SavePracticeSession(ctx context.Context, ps game.PracticeSession) error {
	rec := sessionToRecord(ps)
	return s.upsert(ctx, &rec, "practice session", ps.ID)
}

func (s *Store) upsert(ctx context.Context, rec any, kind, id string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("save %s %s: %w", kind, id, err)
	}
	return nil
}
