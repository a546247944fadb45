package db

import (
	"context"
	"time"
)

const upsertPlayerStat = `
INSERT INTO player_stats (
    match_id, player_name, team_id, kills, deaths, assists, damage_dealt, damage_taken,
    damage_mitigated, healing_done, gold_earned, experience_earned, cc_instances, structure_damage
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(match_id, player_name) DO UPDATE SET
    team_id = excluded.team_id,
    kills = excluded.kills,
    deaths = excluded.deaths,
    assists = excluded.assists,
    damage_dealt = excluded.damage_dealt,
    damage_taken = excluded.damage_taken,
    damage_mitigated = excluded.damage_mitigated,
    healing_done = excluded.healing_done,
    gold_earned = excluded.gold_earned,
    experience_earned = excluded.experience_earned,
    cc_instances = excluded.cc_instances,
    structure_damage = excluded.structure_damage
`

type UpsertPlayerStatParams struct {
	MatchID          string
	PlayerName       string
	TeamID           *int64
	Kills            int64
	Deaths           int64
	Assists          int64
	DamageDealt      int64
	DamageTaken      int64
	DamageMitigated  int64
	HealingDone      int64
	GoldEarned       int64
	ExperienceEarned int64
	CcInstances      int64
	StructureDamage  int64
}

func (q *Queries) UpsertPlayerStat(ctx context.Context, arg UpsertPlayerStatParams) error {
	_, err := q.db.ExecContext(ctx, upsertPlayerStat,
		arg.MatchID,
		arg.PlayerName,
		arg.TeamID,
		arg.Kills,
		arg.Deaths,
		arg.Assists,
		arg.DamageDealt,
		arg.DamageTaken,
		arg.DamageMitigated,
		arg.HealingDone,
		arg.GoldEarned,
		arg.ExperienceEarned,
		arg.CcInstances,
		arg.StructureDamage,
	)
	return err
}

const listPlayerStats = `
SELECT stat_id, match_id, player_name, team_id, kills, deaths, assists, damage_dealt, damage_taken,
       damage_mitigated, healing_done, gold_earned, experience_earned, cc_instances, structure_damage
FROM player_stats
WHERE match_id = ?
ORDER BY team_id, player_name
`

func (q *Queries) ListPlayerStats(ctx context.Context, matchID string) ([]PlayerStat, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerStats, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerStat
	for rows.Next() {
		var i PlayerStat
		if err := rows.Scan(
			&i.StatID,
			&i.MatchID,
			&i.PlayerName,
			&i.TeamID,
			&i.Kills,
			&i.Deaths,
			&i.Assists,
			&i.DamageDealt,
			&i.DamageTaken,
			&i.DamageMitigated,
			&i.HealingDone,
			&i.GoldEarned,
			&i.ExperienceEarned,
			&i.CcInstances,
			&i.StructureDamage,
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

const insertTimelineEvent = `
INSERT INTO timeline_events (
    event_id, match_id, event_time, timestamp, game_time_seconds, event_type, event_category,
    importance, event_description, entity_name, target_name, team_id, value, related_event_id,
    other_entities, location_x, location_y, event_details, sequence
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertTimelineEventParams struct {
	EventID          string
	MatchID          string
	EventTime        time.Time
	Timestamp        *time.Time
	GameTimeSeconds  int64
	EventType        string
	EventCategory    string
	Importance       int64
	EventDescription *string
	EntityName       *string
	TargetName       *string
	TeamID           *int64
	Value            *float64
	RelatedEventID   *string
	OtherEntities    *string
	LocationX        *float64
	LocationY        *float64
	EventDetails     *string
	Sequence         int64
}

func (q *Queries) InsertTimelineEvent(ctx context.Context, arg InsertTimelineEventParams) error {
	_, err := q.db.ExecContext(ctx, insertTimelineEvent,
		arg.EventID,
		arg.MatchID,
		arg.EventTime,
		arg.Timestamp,
		arg.GameTimeSeconds,
		arg.EventType,
		arg.EventCategory,
		arg.Importance,
		arg.EventDescription,
		arg.EntityName,
		arg.TargetName,
		arg.TeamID,
		arg.Value,
		arg.RelatedEventID,
		arg.OtherEntities,
		arg.LocationX,
		arg.LocationY,
		arg.EventDetails,
		arg.Sequence,
	)
	return err
}
