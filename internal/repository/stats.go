package repository

import (
	"context"
	"database/sql"
	"fmt"

	"smite-parser/internal/db"
	"smite-parser/internal/domain"

	"github.com/rs/zerolog"
)

type StatsRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStatsRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Replace drops the match's stat rows and upserts stats in one transaction.
func (r *StatsRepository) Replace(ctx context.Context, matchID string, stats []domain.PlayerStat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if err := qtx.DeletePlayerStats(ctx, matchID); err != nil {
		return fmt.Errorf("failed to delete player stats: %w", err)
	}

	for _, s := range stats {
		err := qtx.UpsertPlayerStat(ctx, db.UpsertPlayerStatParams{
			MatchID:          matchID,
			PlayerName:       s.PlayerName,
			TeamID:           toInt64Ptr(s.TeamID),
			Kills:            int64(s.Kills),
			Deaths:           int64(s.Deaths),
			Assists:          int64(s.Assists),
			DamageDealt:      int64(s.DamageDealt),
			DamageTaken:      int64(s.DamageTaken),
			DamageMitigated:  int64(s.DamageMitigated),
			HealingDone:      int64(s.HealingDone),
			GoldEarned:       int64(s.GoldEarned),
			ExperienceEarned: int64(s.ExperienceEarned),
			CcInstances:      int64(s.CCInstances),
			StructureDamage:  int64(s.StructureDamage),
		})
		if err != nil {
			return fmt.Errorf("failed to upsert stats for %s: %w", s.PlayerName, err)
		}
	}

	return tx.Commit()
}

func (r *StatsRepository) List(ctx context.Context, matchID string) ([]domain.PlayerStat, error) {
	rows, err := r.queries.ListPlayerStats(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player stats: %w", err)
	}

	result := make([]domain.PlayerStat, len(rows))
	for i, s := range rows {
		result[i] = domain.PlayerStat{
			MatchID:          s.MatchID,
			PlayerName:       s.PlayerName,
			TeamID:           toIntPtr(s.TeamID),
			Kills:            int(s.Kills),
			Deaths:           int(s.Deaths),
			Assists:          int(s.Assists),
			DamageDealt:      int(s.DamageDealt),
			DamageTaken:      int(s.DamageTaken),
			DamageMitigated:  int(s.DamageMitigated),
			HealingDone:      int(s.HealingDone),
			GoldEarned:       int(s.GoldEarned),
			ExperienceEarned: int(s.ExperienceEarned),
			CCInstances:      int(s.CcInstances),
			StructureDamage:  int(s.StructureDamage),
		}
	}
	return result, nil
}
