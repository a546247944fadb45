package db

import (
	"context"
)

const insertPlayer = `
INSERT INTO players (match_id, player_name, team_id, role, god_id, god_name)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(match_id, player_name) DO NOTHING
`

type InsertPlayerParams struct {
	MatchID    string
	PlayerName string
	TeamID     *int64
	Role       *string
	GodID      *int64
	GodName    *string
}

func (q *Queries) InsertPlayer(ctx context.Context, arg InsertPlayerParams) error {
	_, err := q.db.ExecContext(ctx, insertPlayer,
		arg.MatchID,
		arg.PlayerName,
		arg.TeamID,
		arg.Role,
		arg.GodID,
		arg.GodName,
	)
	return err
}

const listPlayers = `
SELECT player_id, match_id, player_name, team_id, role, god_id, god_name
FROM players
WHERE match_id = ?
ORDER BY team_id, player_name
`

func (q *Queries) ListPlayers(ctx context.Context, matchID string) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.PlayerID,
			&i.MatchID,
			&i.PlayerName,
			&i.TeamID,
			&i.Role,
			&i.GodID,
			&i.GodName,
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

const insertEntity = `
INSERT INTO entities (match_id, entity_name, entity_type, team_id)
VALUES (?, ?, ?, ?)
ON CONFLICT(match_id, entity_name) DO NOTHING
`

type InsertEntityParams struct {
	MatchID    string
	EntityName string
	EntityType string
	TeamID     *int64
}

func (q *Queries) InsertEntity(ctx context.Context, arg InsertEntityParams) error {
	_, err := q.db.ExecContext(ctx, insertEntity,
		arg.MatchID,
		arg.EntityName,
		arg.EntityType,
		arg.TeamID,
	)
	return err
}

const countEntitiesByType = `
SELECT entity_type, COUNT(*) AS count
FROM entities
WHERE match_id = ?
GROUP BY entity_type
ORDER BY entity_type
`

type CountEntitiesByTypeRow struct {
	EntityType string
	Count      int64
}

func (q *Queries) CountEntitiesByType(ctx context.Context, matchID string) ([]CountEntitiesByTypeRow, error) {
	rows, err := q.db.QueryContext(ctx, countEntitiesByType, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountEntitiesByTypeRow
	for rows.Next() {
		var i CountEntitiesByTypeRow
		if err := rows.Scan(&i.EntityType, &i.Count); err != nil {
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

const insertItem = `
INSERT INTO items (match_id, item_name, item_id, item_type)
VALUES (?, ?, ?, ?)
ON CONFLICT(match_id, item_name) DO NOTHING
`

type InsertItemParams struct {
	MatchID  string
	ItemName string
	ItemID   *int64
	ItemType string
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) error {
	_, err := q.db.ExecContext(ctx, insertItem,
		arg.MatchID,
		arg.ItemName,
		arg.ItemID,
		arg.ItemType,
	)
	return err
}

const listItems = `
SELECT match_id, item_name, item_id, item_type
FROM items
WHERE match_id = ?
ORDER BY item_name
`

func (q *Queries) ListItems(ctx context.Context, matchID string) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listItems, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.MatchID, &i.ItemName, &i.ItemID, &i.ItemType); err != nil {
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

const insertAbility = `
INSERT INTO abilities (match_id, ability_name, ability_source, ability_type)
VALUES (?, ?, ?, ?)
ON CONFLICT(match_id, ability_name) DO NOTHING
`

type InsertAbilityParams struct {
	MatchID       string
	AbilityName   string
	AbilitySource *string
	AbilityType   string
}

func (q *Queries) InsertAbility(ctx context.Context, arg InsertAbilityParams) error {
	_, err := q.db.ExecContext(ctx, insertAbility,
		arg.MatchID,
		arg.AbilityName,
		arg.AbilitySource,
		arg.AbilityType,
	)
	return err
}
