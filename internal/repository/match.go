package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smite-parser/internal/db"
	"smite-parser/internal/domain"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *MatchRepository) Exists(ctx context.Context, matchID string) (bool, error) {
	exists, err := r.queries.MatchExists(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("failed to check match %s: %w", matchID, err)
	}
	return exists, nil
}

func (r *MatchRepository) Create(ctx context.Context, match *domain.Match) error {
	err := r.queries.CreateMatch(ctx, db.CreateMatchParams{
		MatchID:         match.MatchID,
		SourceFile:      match.SourceFile,
		MapName:         match.MapName,
		GameType:        match.GameType,
		StartTime:       match.StartTime,
		EndTime:         match.EndTime,
		DurationSeconds: toInt64Ptr(match.DurationSeconds),
		MatchData:       match.MatchData,
	})
	if err != nil {
		return &PersistenceError{Op: "create match", MatchID: match.MatchID, Err: err}
	}
	return nil
}

func (r *MatchRepository) UpdateMatchData(ctx context.Context, matchID string, data string) error {
	err := r.queries.UpdateMatchData(ctx, db.UpdateMatchDataParams{
		MatchData: &data,
		MatchID:   matchID,
	})
	if err != nil {
		return &PersistenceError{Op: "update match data", MatchID: matchID, Err: err}
	}
	return nil
}

// Clear removes the match and everything derived from it, children first.
func (r *MatchRepository) Clear(ctx context.Context, matchID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	steps := []struct {
		table string
		del   func(context.Context, string) error
	}{
		{"timeline_events", qtx.DeleteTimelineEvents},
		{"combat_events", qtx.DeleteCombatEvents},
		{"reward_events", qtx.DeleteRewardEvents},
		{"item_events", qtx.DeleteItemEvents},
		{"player_events", qtx.DeletePlayerEvents},
		{"player_stats", qtx.DeletePlayerStats},
		{"abilities", qtx.DeleteAbilities},
		{"items", qtx.DeleteItems},
		{"entities", qtx.DeleteEntities},
		{"players", qtx.DeletePlayers},
		{"matches", qtx.DeleteMatch},
	}
	for _, step := range steps {
		if err := step.del(ctx, matchID); err != nil {
			return &PersistenceError{Op: "clear " + step.table, MatchID: matchID, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit clear", MatchID: matchID, Err: err}
	}

	r.logger.Info().Str("match_id", matchID).Msg("cleared existing match data")
	return nil
}

func (r *MatchRepository) ListMatches(ctx context.Context) ([]domain.Match, error) {
	rows, err := r.queries.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := make([]domain.Match, len(rows))
	for i, m := range rows {
		result[i] = toDomainMatch(m)
	}
	return result, nil
}

func (r *MatchRepository) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	m, err := r.queries.GetMatch(ctx, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}

	match := toDomainMatch(m)
	return &match, nil
}

func toDomainMatch(m db.Match) domain.Match {
	return domain.Match{
		MatchID:         m.MatchID,
		SourceFile:      m.SourceFile,
		MapName:         m.MapName,
		GameType:        m.GameType,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		DurationSeconds: toIntPtr(m.DurationSeconds),
		MatchData:       m.MatchData,
	}
}
