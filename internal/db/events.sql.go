package db

import (
	"context"
	"time"
)

const insertCombatEvent = `
INSERT INTO combat_events (
    match_id, event_time, timestamp, event_type, source_entity, target_entity,
    ability_name, location_x, location_y, damage_amount, damage_mitigated, event_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertCombatEventParams struct {
	MatchID         string
	EventTime       time.Time
	Timestamp       *time.Time
	EventType       string
	SourceEntity    *string
	TargetEntity    *string
	AbilityName     *string
	LocationX       *float64
	LocationY       *float64
	DamageAmount    *int64
	DamageMitigated *int64
	EventText       *string
}

func (q *Queries) InsertCombatEvent(ctx context.Context, arg InsertCombatEventParams) error {
	_, err := q.db.ExecContext(ctx, insertCombatEvent,
		arg.MatchID,
		arg.EventTime,
		arg.Timestamp,
		arg.EventType,
		arg.SourceEntity,
		arg.TargetEntity,
		arg.AbilityName,
		arg.LocationX,
		arg.LocationY,
		arg.DamageAmount,
		arg.DamageMitigated,
		arg.EventText,
	)
	return err
}

const listCombatEvents = `
SELECT event_id, match_id, event_time, timestamp, event_type, source_entity, target_entity,
       ability_name, location_x, location_y, damage_amount, damage_mitigated, event_text
FROM combat_events
WHERE match_id = ?
ORDER BY event_time, event_id
`

func (q *Queries) ListCombatEvents(ctx context.Context, matchID string) ([]CombatEvent, error) {
	rows, err := q.db.QueryContext(ctx, listCombatEvents, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CombatEvent
	for rows.Next() {
		var i CombatEvent
		if err := rows.Scan(
			&i.EventID,
			&i.MatchID,
			&i.EventTime,
			&i.Timestamp,
			&i.EventType,
			&i.SourceEntity,
			&i.TargetEntity,
			&i.AbilityName,
			&i.LocationX,
			&i.LocationY,
			&i.DamageAmount,
			&i.DamageMitigated,
			&i.EventText,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertRewardEvent = `
INSERT INTO reward_events (
    match_id, event_time, timestamp, event_type, entity_name,
    location_x, location_y, reward_amount, source_type, event_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertRewardEventParams struct {
	MatchID      string
	EventTime    time.Time
	Timestamp    *time.Time
	EventType    string
	EntityName   *string
	LocationX    *float64
	LocationY    *float64
	RewardAmount *int64
	SourceType   *string
	EventText    *string
}

func (q *Queries) InsertRewardEvent(ctx context.Context, arg InsertRewardEventParams) error {
	_, err := q.db.ExecContext(ctx, insertRewardEvent,
		arg.MatchID,
		arg.EventTime,
		arg.Timestamp,
		arg.EventType,
		arg.EntityName,
		arg.LocationX,
		arg.LocationY,
		arg.RewardAmount,
		arg.SourceType,
		arg.EventText,
	)
	return err
}

const listRewardEvents = `
SELECT event_id, match_id, event_time, timestamp, event_type, entity_name,
       location_x, location_y, reward_amount, source_type, event_text
FROM reward_events
WHERE match_id = ?
ORDER BY event_time, event_id
`

func (q *Queries) ListRewardEvents(ctx context.Context, matchID string) ([]RewardEvent, error) {
	rows, err := q.db.QueryContext(ctx, listRewardEvents, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RewardEvent
	for rows.Next() {
		var i RewardEvent
		if err := rows.Scan(
			&i.EventID,
			&i.MatchID,
			&i.EventTime,
			&i.Timestamp,
			&i.EventType,
			&i.EntityName,
			&i.LocationX,
			&i.LocationY,
			&i.RewardAmount,
			&i.SourceType,
			&i.EventText,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertItemEvent = `
INSERT INTO item_events (
    match_id, event_time, timestamp, event_type, player_name, item_id,
    item_name, location_x, location_y, cost, event_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertItemEventParams struct {
	MatchID    string
	EventTime  time.Time
	Timestamp  *time.Time
	EventType  string
	PlayerName *string
	ItemID     *int64
	ItemName   *string
	LocationX  *float64
	LocationY  *float64
	Cost       *int64
	EventText  *string
}

func (q *Queries) InsertItemEvent(ctx context.Context, arg InsertItemEventParams) error {
	_, err := q.db.ExecContext(ctx, insertItemEvent,
		arg.MatchID,
		arg.EventTime,
		arg.Timestamp,
		arg.EventType,
		arg.PlayerName,
		arg.ItemID,
		arg.ItemName,
		arg.LocationX,
		arg.LocationY,
		arg.Cost,
		arg.EventText,
	)
	return err
}

const listItemEvents = `
SELECT event_id, match_id, event_time, timestamp, event_type, player_name, item_id,
       item_name, location_x, location_y, cost, event_text
FROM item_events
WHERE match_id = ?
ORDER BY event_time, event_id
`

func (q *Queries) ListItemEvents(ctx context.Context, matchID string) ([]ItemEvent, error) {
	rows, err := q.db.QueryContext(ctx, listItemEvents, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemEvent
	for rows.Next() {
		var i ItemEvent
		if err := rows.Scan(
			&i.EventID,
			&i.MatchID,
			&i.EventTime,
			&i.Timestamp,
			&i.EventType,
			&i.PlayerName,
			&i.ItemID,
			&i.ItemName,
			&i.LocationX,
			&i.LocationY,
			&i.Cost,
			&i.EventText,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertPlayerEvent = `
INSERT INTO player_events (
    match_id, event_time, timestamp, event_type, player_name, entity_name, team_id,
    value, item_id, item_name, location_x, location_y, event_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertPlayerEventParams struct {
	MatchID    string
	EventTime  time.Time
	Timestamp  *time.Time
	EventType  string
	PlayerName *string
	EntityName *string
	TeamID     *int64
	Value      *string
	ItemID     *int64
	ItemName   *string
	LocationX  *float64
	LocationY  *float64
	EventText  *string
}

func (q *Queries) InsertPlayerEvent(ctx context.Context, arg InsertPlayerEventParams) error {
	_, err := q.db.ExecContext(ctx, insertPlayerEvent,
		arg.MatchID,
		arg.EventTime,
		arg.Timestamp,
		arg.EventType,
		arg.PlayerName,
		arg.EntityName,
		arg.TeamID,
		arg.Value,
		arg.ItemID,
		arg.ItemName,
		arg.LocationX,
		arg.LocationY,
		arg.EventText,
	)
	return err
}

const listPlayerEvents = `
SELECT event_id, match_id, event_time, timestamp, event_type, player_name, entity_name, team_id,
       value, item_id, item_name, location_x, location_y, event_text
FROM player_events
WHERE match_id = ?
ORDER BY event_time, event_id
`

func (q *Queries) ListPlayerEvents(ctx context.Context, matchID string) ([]PlayerEvent, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerEvents, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerEvent
	for rows.Next() {
		var i PlayerEvent
		if err := rows.Scan(
			&i.EventID,
			&i.MatchID,
			&i.EventTime,
			&i.Timestamp,
			&i.EventType,
			&i.PlayerName,
			&i.EntityName,
			&i.TeamID,
			&i.Value,
			&i.ItemID,
			&i.ItemName,
			&i.LocationX,
			&i.LocationY,
			&i.EventText,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEvents = `
SELECT
    (SELECT COUNT(*) FROM combat_events c WHERE c.match_id = ?1) AS combat_count,
    (SELECT COUNT(*) FROM reward_events r WHERE r.match_id = ?1) AS reward_count,
    (SELECT COUNT(*) FROM item_events i WHERE i.match_id = ?1) AS item_count,
    (SELECT COUNT(*) FROM player_events p WHERE p.match_id = ?1) AS player_count,
    (SELECT COUNT(*) FROM timeline_events t WHERE t.match_id = ?1) AS timeline_count
`

type CountEventsRow struct {
	CombatCount   int64
	RewardCount   int64
	ItemCount     int64
	PlayerCount   int64
	TimelineCount int64
}

func (q *Queries) CountEvents(ctx context.Context, matchID string) (CountEventsRow, error) {
	row := q.db.QueryRowContext(ctx, countEvents, matchID)
	var i CountEventsRow
	err := row.Scan(
		&i.CombatCount,
		&i.RewardCount,
		&i.ItemCount,
		&i.PlayerCount,
		&i.TimelineCount,
	)
	return i, err
}
