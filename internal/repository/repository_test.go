package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"smite-parser/internal/config"
	"smite-parser/internal/database"
	"smite-parser/internal/db"
	"smite-parser/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()
	cfg := &config.Config{
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
		DBDriver: "sqlite",
	}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB, db.New(sqlDB)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func createMatch(t *testing.T, repo *MatchRepository, id string) {
	t.Helper()
	start := t0
	require.NoError(t, repo.Create(context.Background(), &domain.Match{
		MatchID:    id,
		SourceFile: "test.log",
		StartTime:  &start,
	}))
}

func TestMatchCreateExistsGet(t *testing.T) {
	sqlDB, q := newTestDB(t)
	repo := NewMatchRepository(sqlDB, q, zerolog.Nop())
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "M1")
	require.NoError(t, err)
	assert.False(t, exists)

	createMatch(t, repo, "M1")

	exists, err = repo.Exists(ctx, "M1")
	require.NoError(t, err)
	assert.True(t, exists)

	m, err := repo.GetMatch(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, "test.log", m.SourceFile)
	require.NotNil(t, m.StartTime)
	assert.True(t, t0.Equal(*m.StartTime))

	_, err = repo.GetMatch(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.Create(ctx, &domain.Match{MatchID: "M1", SourceFile: "again.log"})
	var perr *PersistenceError
	assert.True(t, errors.As(err, &perr))
}

func TestBatchWriterFlushesPerBatch(t *testing.T) {
	sqlDB, q := newTestDB(t)
	ctx := context.Background()
	createMatch(t, NewMatchRepository(sqlDB, q, zerolog.Nop()), "M1")

	events := NewEventRepository(sqlDB, q, zerolog.Nop())
	w := events.CombatWriter("M1", 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Add(ctx, domain.CombatEvent{
			EventTime:    t0.Add(time.Duration(i) * time.Second),
			EventType:    "Damage",
			SourceEntity: strPtr("A"),
			DamageAmount: intPtr(10 * i),
		}))
	}
	assert.Equal(t, 4, w.Written())
	assert.Equal(t, 2, w.Batches())

	require.NoError(t, w.Close(ctx))
	assert.Equal(t, 5, w.Written())

	rows, err := events.ListCombat(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, r := range rows {
		assert.Equal(t, "M1", r.MatchID)
		require.NotNil(t, r.Timestamp)
		assert.True(t, r.EventTime.Equal(*r.Timestamp))
		assert.Equal(t, 10*i, *r.DamageAmount)
	}
}

func TestBatchWriterPersistenceError(t *testing.T) {
	sqlDB, q := newTestDB(t)
	ctx := context.Background()

	w := NewEventRepository(sqlDB, q, zerolog.Nop()).RewardWriter("no-such-match", 10)
	require.NoError(t, w.Add(ctx, domain.RewardEvent{EventTime: t0, EventType: "Currency"}))

	err := w.Close(ctx)
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "no-such-match", perr.MatchID)
}

func TestClearRemovesEverything(t *testing.T) {
	sqlDB, q := newTestDB(t)
	ctx := context.Background()
	matches := NewMatchRepository(sqlDB, q, zerolog.Nop())
	players := NewPlayerRepository(sqlDB, q, zerolog.Nop())
	events := NewEventRepository(sqlDB, q, zerolog.Nop())
	stats := NewStatsRepository(sqlDB, q, zerolog.Nop())
	timeline := NewTimelineRepository(sqlDB, q, zerolog.Nop())

	createMatch(t, matches, "M1")
	createMatch(t, matches, "M2")

	for _, id := range []string{"M1", "M2"} {
		require.NoError(t, players.InsertCatalog(ctx, id, Catalog{
			Players:   []domain.Player{{PlayerName: "A", TeamID: intPtr(1)}},
			Entities:  []domain.Entity{{EntityName: "A", EntityType: "player"}},
			Items:     []domain.Item{{ItemName: "Boots", ItemType: "item"}},
			Abilities: []domain.Ability{{AbilityName: "Ice Wall", AbilityType: "ability"}},
		}))
		w := events.PlayerWriter(id, 10)
		require.NoError(t, w.Add(ctx, domain.PlayerEvent{EventTime: t0, EventType: "RoleAssigned"}))
		require.NoError(t, w.Close(ctx))
		require.NoError(t, stats.Replace(ctx, id, []domain.PlayerStat{{PlayerName: "A", Kills: 1}}))
		require.NoError(t, timeline.Replace(ctx, id, []domain.TimelineEvent{{
			EventTime: t0, EventType: "PlayerKill", EventCategory: "Kill", Importance: 7,
		}}))
	}

	require.NoError(t, matches.Clear(ctx, "M1"))

	exists, err := matches.Exists(ctx, "M1")
	require.NoError(t, err)
	assert.False(t, exists)

	counts, err := events.Count(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, EventCounts{}, counts)

	ps, err := players.ListPlayers(ctx, "M1")
	require.NoError(t, err)
	assert.Empty(t, ps)

	counts, err = events.Count(ctx, "M2")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Player)
	assert.Equal(t, 1, counts.Timeline)
}

func TestStatsReplaceIsIdempotent(t *testing.T) {
	sqlDB, q := newTestDB(t)
	ctx := context.Background()
	createMatch(t, NewMatchRepository(sqlDB, q, zerolog.Nop()), "M1")
	repo := NewStatsRepository(sqlDB, q, zerolog.Nop())

	rows := []domain.PlayerStat{
		{PlayerName: "A", TeamID: intPtr(1), Kills: 2, DamageDealt: 300},
		{PlayerName: "B", TeamID: intPtr(2), Deaths: 2},
	}
	require.NoError(t, repo.Replace(ctx, "M1", rows))
	require.NoError(t, repo.Replace(ctx, "M1", rows))

	got, err := repo.List(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Kills)
	assert.Equal(t, 300, got[0].DamageDealt)
	assert.Equal(t, 2, got[1].Deaths)
}

func TestTimelineListFilters(t *testing.T) {
	sqlDB, q := newTestDB(t)
	ctx := context.Background()
	createMatch(t, NewMatchRepository(sqlDB, q, zerolog.Nop()), "M1")
	repo := NewTimelineRepository(sqlDB, q, zerolog.Nop())

	require.NoError(t, repo.Replace(ctx, "M1", []domain.TimelineEvent{
		{EventTime: t0, EventType: "PlayerKill", EventCategory: "Kill", Importance: 7, Sequence: 0},
		{EventTime: t0, EventType: "FirstBlood", EventCategory: "Kill", Importance: 8, Sequence: 1},
		{EventTime: t0.Add(time.Second), EventType: "GoldReward", EventCategory: "Economy", Importance: 3, Sequence: 2},
	}))

	all, err := repo.List(ctx, "M1", TimelineFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "PlayerKill", all[0].EventType)
	assert.NotEmpty(t, all[0].ID)

	key, err := repo.List(ctx, "M1", TimelineFilter{MinImportance: 7})
	require.NoError(t, err)
	assert.Len(t, key, 2)

	econ, err := repo.List(ctx, "M1", TimelineFilter{Category: "Economy"})
	require.NoError(t, err)
	require.Len(t, econ, 1)
	assert.Equal(t, "GoldReward", econ[0].EventType)

	fb, err := repo.List(ctx, "M1", TimelineFilter{EventType: "FirstBlood", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, fb, 1)
}

func TestTimelineReplaceRollsBackOnFailure(t *testing.T) {
	sqlDB, q := newTestDB(t)
	ctx := context.Background()
	createMatch(t, NewMatchRepository(sqlDB, q, zerolog.Nop()), "M1")
	repo := NewTimelineRepository(sqlDB, q, zerolog.Nop())

	require.NoError(t, repo.Replace(ctx, "M1", []domain.TimelineEvent{
		{EventTime: t0, EventType: "MatchStart", EventCategory: "Match", Importance: 5, Sequence: 0},
		{EventTime: t0.Add(time.Second), EventType: "PlayerKill", EventCategory: "Kill", Importance: 7, Sequence: 1},
	}))

	err := repo.Replace(ctx, "M1", []domain.TimelineEvent{
		{ID: "dup", EventTime: t0, EventType: "GoldReward", EventCategory: "Economy", Importance: 3, Sequence: 0},
		{ID: "dup", EventTime: t0, EventType: "GoldReward", EventCategory: "Economy", Importance: 3, Sequence: 1},
	})
	require.Error(t, err)

	got, err := repo.List(ctx, "M1", TimelineFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "MatchStart", got[0].EventType)
	assert.Equal(t, "PlayerKill", got[1].EventType)
}
