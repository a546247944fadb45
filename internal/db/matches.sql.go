package db

import (
	"context"
	"time"
)

const createMatch = `
INSERT INTO matches (match_id, source_file, map_name, game_type, start_time, end_time, duration_seconds, match_data)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateMatchParams struct {
	MatchID         string
	SourceFile      string
	MapName         *string
	GameType        *string
	StartTime       *time.Time
	EndTime         *time.Time
	DurationSeconds *int64
	MatchData       *string
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) error {
	_, err := q.db.ExecContext(ctx, createMatch,
		arg.MatchID,
		arg.SourceFile,
		arg.MapName,
		arg.GameType,
		arg.StartTime,
		arg.EndTime,
		arg.DurationSeconds,
		arg.MatchData,
	)
	return err
}

const updateMatchData = `
UPDATE matches SET match_data = ? WHERE match_id = ?
`

type UpdateMatchDataParams struct {
	MatchData *string
	MatchID   string
}

func (q *Queries) UpdateMatchData(ctx context.Context, arg UpdateMatchDataParams) error {
	_, err := q.db.ExecContext(ctx, updateMatchData, arg.MatchData, arg.MatchID)
	return err
}

const matchExists = `
SELECT EXISTS(SELECT 1 FROM matches WHERE match_id = ?)
`

func (q *Queries) MatchExists(ctx context.Context, matchID string) (bool, error) {
	row := q.db.QueryRowContext(ctx, matchExists, matchID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getMatch = `
SELECT match_id, source_file, map_name, game_type, start_time, end_time, duration_seconds, match_data
FROM matches
WHERE match_id = ?
`

func (q *Queries) GetMatch(ctx context.Context, matchID string) (Match, error) {
	row := q.db.QueryRowContext(ctx, getMatch, matchID)
	var i Match
	err := row.Scan(
		&i.MatchID,
		&i.SourceFile,
		&i.MapName,
		&i.GameType,
		&i.StartTime,
		&i.EndTime,
		&i.DurationSeconds,
		&i.MatchData,
	)
	return i, err
}

const listMatches = `
SELECT match_id, source_file, map_name, game_type, start_time, end_time, duration_seconds, match_data
FROM matches
ORDER BY start_time DESC, match_id
`

func (q *Queries) ListMatches(ctx context.Context) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.MatchID,
			&i.SourceFile,
			&i.MapName,
			&i.GameType,
			&i.StartTime,
			&i.EndTime,
			&i.DurationSeconds,
			&i.MatchData,
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

const deleteTimelineEvents = `DELETE FROM timeline_events WHERE match_id = ?`

func (q *Queries) DeleteTimelineEvents(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteTimelineEvents, matchID)
	return err
}

const deleteCombatEvents = `DELETE FROM combat_events WHERE match_id = ?`

func (q *Queries) DeleteCombatEvents(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteCombatEvents, matchID)
	return err
}

const deleteRewardEvents = `DELETE FROM reward_events WHERE match_id = ?`

func (q *Queries) DeleteRewardEvents(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteRewardEvents, matchID)
	return err
}

const deleteItemEvents = `DELETE FROM item_events WHERE match_id = ?`

func (q *Queries) DeleteItemEvents(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteItemEvents, matchID)
	return err
}

const deletePlayerEvents = `DELETE FROM player_events WHERE match_id = ?`

func (q *Queries) DeletePlayerEvents(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deletePlayerEvents, matchID)
	return err
}

const deletePlayerStats = `DELETE FROM player_stats WHERE match_id = ?`

func (q *Queries) DeletePlayerStats(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deletePlayerStats, matchID)
	return err
}

const deleteAbilities = `DELETE FROM abilities WHERE match_id = ?`

func (q *Queries) DeleteAbilities(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteAbilities, matchID)
	return err
}

const deleteItems = `DELETE FROM items WHERE match_id = ?`

func (q *Queries) DeleteItems(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteItems, matchID)
	return err
}

const deleteEntities = `DELETE FROM entities WHERE match_id = ?`

func (q *Queries) DeleteEntities(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteEntities, matchID)
	return err
}

const deletePlayers = `DELETE FROM players WHERE match_id = ?`

func (q *Queries) DeletePlayers(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deletePlayers, matchID)
	return err
}

const deleteMatch = `DELETE FROM matches WHERE match_id = ?`

func (q *Queries) DeleteMatch(ctx context.Context, matchID string) error {
	_, err := q.db.ExecContext(ctx, deleteMatch, matchID)
	return err
}
