package repository

import (
	"context"
	"database/sql"
	"fmt"

	"smite-parser/internal/db"
	"smite-parser/internal/domain"

	"github.com/rs/zerolog"
)

// Catalog is the per-match reference data written right after the match row.
type Catalog struct {
	Players   []domain.Player
	Entities  []domain.Entity
	Items     []domain.Item
	Abilities []domain.Ability
}

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// InsertCatalog writes players, entities, items and abilities in one
// transaction. Names already present for the match are left untouched.
func (r *PlayerRepository) InsertCatalog(ctx context.Context, matchID string, c Catalog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin catalog", MatchID: matchID, Err: err}
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for _, p := range c.Players {
		err := qtx.InsertPlayer(ctx, db.InsertPlayerParams{
			MatchID:    matchID,
			PlayerName: p.PlayerName,
			TeamID:     toInt64Ptr(p.TeamID),
			Role:       p.Role,
			GodID:      toInt64Ptr(p.GodID),
			GodName:    p.GodName,
		})
		if err != nil {
			return &PersistenceError{Op: "insert player " + p.PlayerName, MatchID: matchID, Err: err}
		}
	}

	for _, e := range c.Entities {
		err := qtx.InsertEntity(ctx, db.InsertEntityParams{
			MatchID:    matchID,
			EntityName: e.EntityName,
			EntityType: e.EntityType,
			TeamID:     toInt64Ptr(e.TeamID),
		})
		if err != nil {
			return &PersistenceError{Op: "insert entity " + e.EntityName, MatchID: matchID, Err: err}
		}
	}

	for _, it := range c.Items {
		err := qtx.InsertItem(ctx, db.InsertItemParams{
			MatchID:  matchID,
			ItemName: it.ItemName,
			ItemID:   toInt64Ptr(it.ItemID),
			ItemType: it.ItemType,
		})
		if err != nil {
			return &PersistenceError{Op: "insert item " + it.ItemName, MatchID: matchID, Err: err}
		}
	}

	for _, a := range c.Abilities {
		err := qtx.InsertAbility(ctx, db.InsertAbilityParams{
			MatchID:       matchID,
			AbilityName:   a.AbilityName,
			AbilitySource: a.AbilitySource,
			AbilityType:   a.AbilityType,
		})
		if err != nil {
			return &PersistenceError{Op: "insert ability " + a.AbilityName, MatchID: matchID, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit catalog", MatchID: matchID, Err: err}
	}

	r.logger.Debug().
		Str("match_id", matchID).
		Int("players", len(c.Players)).
		Int("entities", len(c.Entities)).
		Int("items", len(c.Items)).
		Int("abilities", len(c.Abilities)).
		Msg("catalog stored")
	return nil
}

func (r *PlayerRepository) ListPlayers(ctx context.Context, matchID string) ([]domain.Player, error) {
	rows, err := r.queries.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	result := make([]domain.Player, len(rows))
	for i, p := range rows {
		result[i] = domain.Player{
			MatchID:    p.MatchID,
			PlayerName: p.PlayerName,
			TeamID:     toIntPtr(p.TeamID),
			Role:       p.Role,
			GodID:      toIntPtr(p.GodID),
			GodName:    p.GodName,
		}
	}
	return result, nil
}

func (r *PlayerRepository) ListItems(ctx context.Context, matchID string) ([]domain.Item, error) {
	rows, err := r.queries.ListItems(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	result := make([]domain.Item, len(rows))
	for i, it := range rows {
		result[i] = domain.Item{
			MatchID:  it.MatchID,
			ItemID:   toIntPtr(it.ItemID),
			ItemName: it.ItemName,
			ItemType: it.ItemType,
		}
	}
	return result, nil
}

// EntityTypeCounts returns the number of entities per category.
func (r *PlayerRepository) EntityTypeCounts(ctx context.Context, matchID string) (map[string]int, error) {
	rows, err := r.queries.CountEntitiesByType(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.EntityType] = int(row.Count)
	}
	return counts, nil
}
