package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smite-parser/internal/db"
	"smite-parser/internal/domain"

	"github.com/rs/zerolog"
)

type EventRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *EventRepository {
	return &EventRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func backfill(matchID *string, ts **time.Time, eventTime time.Time, id string) {
	if *matchID == "" {
		*matchID = id
	}
	if *ts == nil {
		t := eventTime
		*ts = &t
	}
}

func (r *EventRepository) CombatWriter(matchID string, size int) *BatchWriter[domain.CombatEvent] {
	return NewBatchWriter[domain.CombatEvent](r.db, r.queries, r.logger, matchID, "combat_events", size,
		func(ctx context.Context, q *db.Queries, e domain.CombatEvent) error {
			return q.InsertCombatEvent(ctx, db.InsertCombatEventParams{
				MatchID:         e.MatchID,
				EventTime:       e.EventTime,
				Timestamp:       e.Timestamp,
				EventType:       e.EventType,
				SourceEntity:    e.SourceEntity,
				TargetEntity:    e.TargetEntity,
				AbilityName:     e.AbilityName,
				LocationX:       e.LocationX,
				LocationY:       e.LocationY,
				DamageAmount:    toInt64Ptr(e.DamageAmount),
				DamageMitigated: toInt64Ptr(e.DamageMitigated),
				EventText:       e.EventText,
			})
		},
		func(e *domain.CombatEvent, id string) { backfill(&e.MatchID, &e.Timestamp, e.EventTime, id) },
	)
}

func (r *EventRepository) RewardWriter(matchID string, size int) *BatchWriter[domain.RewardEvent] {
	return NewBatchWriter[domain.RewardEvent](r.db, r.queries, r.logger, matchID, "reward_events", size,
		func(ctx context.Context, q *db.Queries, e domain.RewardEvent) error {
			return q.InsertRewardEvent(ctx, db.InsertRewardEventParams{
				MatchID:      e.MatchID,
				EventTime:    e.EventTime,
				Timestamp:    e.Timestamp,
				EventType:    e.EventType,
				EntityName:   e.EntityName,
				LocationX:    e.LocationX,
				LocationY:    e.LocationY,
				RewardAmount: toInt64Ptr(e.RewardAmount),
				SourceType:   e.SourceType,
				EventText:    e.EventText,
			})
		},
		func(e *domain.RewardEvent, id string) { backfill(&e.MatchID, &e.Timestamp, e.EventTime, id) },
	)
}

func (r *EventRepository) ItemWriter(matchID string, size int) *BatchWriter[domain.ItemEvent] {
	return NewBatchWriter[domain.ItemEvent](r.db, r.queries, r.logger, matchID, "item_events", size,
		func(ctx context.Context, q *db.Queries, e domain.ItemEvent) error {
			return q.InsertItemEvent(ctx, db.InsertItemEventParams{
				MatchID:    e.MatchID,
				EventTime:  e.EventTime,
				Timestamp:  e.Timestamp,
				EventType:  e.EventType,
				PlayerName: e.PlayerName,
				ItemID:     toInt64Ptr(e.ItemID),
				ItemName:   e.ItemName,
				LocationX:  e.LocationX,
				LocationY:  e.LocationY,
				Cost:       toInt64Ptr(e.Cost),
				EventText:  e.EventText,
			})
		},
		func(e *domain.ItemEvent, id string) { backfill(&e.MatchID, &e.Timestamp, e.EventTime, id) },
	)
}

func (r *EventRepository) PlayerWriter(matchID string, size int) *BatchWriter[domain.PlayerEvent] {
	return NewBatchWriter[domain.PlayerEvent](r.db, r.queries, r.logger, matchID, "player_events", size,
		func(ctx context.Context, q *db.Queries, e domain.PlayerEvent) error {
			return q.InsertPlayerEvent(ctx, db.InsertPlayerEventParams{
				MatchID:    e.MatchID,
				EventTime:  e.EventTime,
				Timestamp:  e.Timestamp,
				EventType:  e.EventType,
				PlayerName: e.PlayerName,
				EntityName: e.EntityName,
				TeamID:     toInt64Ptr(e.TeamID),
				Value:      e.Value,
				ItemID:     toInt64Ptr(e.ItemID),
				ItemName:   e.ItemName,
				LocationX:  e.LocationX,
				LocationY:  e.LocationY,
				EventText:  e.EventText,
			})
		},
		func(e *domain.PlayerEvent, id string) { backfill(&e.MatchID, &e.Timestamp, e.EventTime, id) },
	)
}

func (r *EventRepository) ListCombat(ctx context.Context, matchID string) ([]domain.CombatEvent, error) {
	rows, err := r.queries.ListCombatEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list combat events: %w", err)
	}

	result := make([]domain.CombatEvent, len(rows))
	for i, e := range rows {
		result[i] = domain.CombatEvent{
			MatchID:         e.MatchID,
			EventTime:       e.EventTime.UTC(),
			Timestamp:       e.Timestamp,
			EventType:       e.EventType,
			SourceEntity:    e.SourceEntity,
			TargetEntity:    e.TargetEntity,
			AbilityName:     e.AbilityName,
			LocationX:       e.LocationX,
			LocationY:       e.LocationY,
			DamageAmount:    toIntPtr(e.DamageAmount),
			DamageMitigated: toIntPtr(e.DamageMitigated),
			EventText:       e.EventText,
		}
	}
	return result, nil
}

func (r *EventRepository) ListRewards(ctx context.Context, matchID string) ([]domain.RewardEvent, error) {
	rows, err := r.queries.ListRewardEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reward events: %w", err)
	}

	result := make([]domain.RewardEvent, len(rows))
	for i, e := range rows {
		result[i] = domain.RewardEvent{
			MatchID:      e.MatchID,
			EventTime:    e.EventTime.UTC(),
			Timestamp:    e.Timestamp,
			EventType:    e.EventType,
			EntityName:   e.EntityName,
			LocationX:    e.LocationX,
			LocationY:    e.LocationY,
			RewardAmount: toIntPtr(e.RewardAmount),
			SourceType:   e.SourceType,
			EventText:    e.EventText,
		}
	}
	return result, nil
}

func (r *EventRepository) ListItems(ctx context.Context, matchID string) ([]domain.ItemEvent, error) {
	rows, err := r.queries.ListItemEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item events: %w", err)
	}

	result := make([]domain.ItemEvent, len(rows))
	for i, e := range rows {
		result[i] = domain.ItemEvent{
			MatchID:    e.MatchID,
			EventTime:  e.EventTime.UTC(),
			Timestamp:  e.Timestamp,
			EventType:  e.EventType,
			PlayerName: e.PlayerName,
			ItemID:     toIntPtr(e.ItemID),
			ItemName:   e.ItemName,
			LocationX:  e.LocationX,
			LocationY:  e.LocationY,
			Cost:       toIntPtr(e.Cost),
			EventText:  e.EventText,
		}
	}
	return result, nil
}

func (r *EventRepository) ListPlayerEvents(ctx context.Context, matchID string) ([]domain.PlayerEvent, error) {
	rows, err := r.queries.ListPlayerEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player events: %w", err)
	}

	result := make([]domain.PlayerEvent, len(rows))
	for i, e := range rows {
		result[i] = domain.PlayerEvent{
			MatchID:    e.MatchID,
			EventTime:  e.EventTime.UTC(),
			Timestamp:  e.Timestamp,
			EventType:  e.EventType,
			PlayerName: e.PlayerName,
			EntityName: e.EntityName,
			TeamID:     toIntPtr(e.TeamID),
			Value:      e.Value,
			ItemID:     toIntPtr(e.ItemID),
			ItemName:   e.ItemName,
			LocationX:  e.LocationX,
			LocationY:  e.LocationY,
			EventText:  e.EventText,
		}
	}
	return result, nil
}

type EventCounts struct {
	Combat   int
	Reward   int
	Item     int
	Player   int
	Timeline int
}

func (r *EventRepository) Count(ctx context.Context, matchID string) (EventCounts, error) {
	row, err := r.queries.CountEvents(ctx, matchID)
	if err != nil {
		return EventCounts{}, fmt.Errorf("failed to count events: %w", err)
	}
	return EventCounts{
		Combat:   int(row.CombatCount),
		Reward:   int(row.RewardCount),
		Item:     int(row.ItemCount),
		Player:   int(row.PlayerCount),
		Timeline: int(row.TimelineCount),
	}, nil
}
