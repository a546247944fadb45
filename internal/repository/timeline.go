package repository

import (
	"context"
	"database/sql"
	"fmt"

	"smite-parser/internal/db"
	"smite-parser/internal/domain"

	"github.com/Masterminds/squirrel"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type TimelineRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewTimelineRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *TimelineRepository {
	return &TimelineRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Replace swaps the match's timeline for events inside one transaction.
func (r *TimelineRepository) Replace(ctx context.Context, matchID string, events []domain.TimelineEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if err := qtx.DeleteTimelineEvents(ctx, matchID); err != nil {
		return fmt.Errorf("failed to delete timeline events: %w", err)
	}

	for _, e := range events {
		id := e.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		desc := e.Description

		err := qtx.InsertTimelineEvent(ctx, db.InsertTimelineEventParams{
			EventID:          id,
			MatchID:          matchID,
			EventTime:        e.EventTime,
			Timestamp:        e.Timestamp,
			GameTimeSeconds:  int64(e.GameTimeSeconds),
			EventType:        e.EventType,
			EventCategory:    e.EventCategory,
			Importance:       int64(e.Importance),
			EventDescription: &desc,
			EntityName:       e.EntityName,
			TargetName:       e.TargetName,
			TeamID:           toInt64Ptr(e.TeamID),
			Value:            e.Value,
			RelatedEventID:   e.RelatedEventID,
			OtherEntities:    e.OtherEntities,
			LocationX:        e.LocationX,
			LocationY:        e.LocationY,
			EventDetails:     e.EventDetails,
			Sequence:         int64(e.Sequence),
		})
		if err != nil {
			return fmt.Errorf("failed to insert timeline event %s: %w", e.EventType, err)
		}
	}

	return tx.Commit()
}

// TimelineFilter narrows a timeline read. Zero values match everything.
type TimelineFilter struct {
	MinImportance int
	Category      string
	EventType     string
	Limit         int
}

var timelineColumns = []string{
	"event_id", "match_id", "event_time", "timestamp", "game_time_seconds", "event_type",
	"event_category", "importance", "event_description", "entity_name", "target_name",
	"team_id", "value", "related_event_id", "other_entities", "location_x", "location_y",
	"event_details", "sequence",
}

func (r *TimelineRepository) List(ctx context.Context, matchID string, f TimelineFilter) ([]domain.TimelineEvent, error) {
	query := squirrel.Select(timelineColumns...).
		From("timeline_events").
		Where(squirrel.Eq{"match_id": matchID}).
		OrderBy("event_time", "sequence")

	if f.MinImportance > 0 {
		query = query.Where(squirrel.GtOrEq{"importance": f.MinImportance})
	}
	if f.Category != "" {
		query = query.Where(squirrel.Eq{"event_category": f.Category})
	}
	if f.EventType != "" {
		query = query.Where(squirrel.Eq{"event_type": f.EventType})
	}
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	defer rows.Close()

	var result []domain.TimelineEvent
	for rows.Next() {
		var t db.TimelineEvent
		if err := rows.Scan(
			&t.EventID,
			&t.MatchID,
			&t.EventTime,
			&t.Timestamp,
			&t.GameTimeSeconds,
			&t.EventType,
			&t.EventCategory,
			&t.Importance,
			&t.EventDescription,
			&t.EntityName,
			&t.TargetName,
			&t.TeamID,
			&t.Value,
			&t.RelatedEventID,
			&t.OtherEntities,
			&t.LocationX,
			&t.LocationY,
			&t.EventDetails,
			&t.Sequence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}

		ev := domain.TimelineEvent{
			ID:              t.EventID,
			MatchID:         t.MatchID,
			EventTime:       t.EventTime.UTC(),
			Timestamp:       t.Timestamp,
			GameTimeSeconds: int(t.GameTimeSeconds),
			EventType:       t.EventType,
			EventCategory:   t.EventCategory,
			Importance:      int(t.Importance),
			EntityName:      t.EntityName,
			TargetName:      t.TargetName,
			TeamID:          toIntPtr(t.TeamID),
			Value:           t.Value,
			RelatedEventID:  t.RelatedEventID,
			OtherEntities:   t.OtherEntities,
			LocationX:       t.LocationX,
			LocationY:       t.LocationY,
			EventDetails:    t.EventDetails,
			Sequence:        int(t.Sequence),
		}
		if t.EventDescription != nil {
			ev.Description = *t.EventDescription
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timeline rows: %w", err)
	}
	return result, nil
}
