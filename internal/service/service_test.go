package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"smite-parser/internal/analytics"
	"smite-parser/internal/config"
	"smite-parser/internal/database"
	"smite-parser/internal/db"
	"smite-parser/internal/domain"
	"smite-parser/internal/repository"
	"smite-parser/internal/source"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	ingest  *IngestService
	report  *ReportService
	matches *repository.MatchRepository
	events  *repository.EventRepository
	cfg     *config.Config
	db      *sql.DB
}

func newServices(t *testing.T) *services {
	t.Helper()
	cfg := &config.Config{
		DBPath:        filepath.Join(t.TempDir(), "smite.db"),
		DBDriver:      "sqlite",
		BatchSize:     2,
		SkipMalformed: true,
		Heuristics:    config.DefaultHeuristics(),
	}
	log := zerolog.Nop()

	sqlDB, err := database.New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	q := db.New(sqlDB)

	matchRepo := repository.NewMatchRepository(sqlDB, q, log)
	playerRepo := repository.NewPlayerRepository(sqlDB, q, log)
	eventRepo := repository.NewEventRepository(sqlDB, q, log)
	statsRepo := repository.NewStatsRepository(sqlDB, q, log)
	timelineRepo := repository.NewTimelineRepository(sqlDB, q, log)

	statsSvc := NewStatsService(cfg, playerRepo, eventRepo, statsRepo, log)
	timelineSvc := NewTimelineService(analytics.NewSynthesizer(cfg.Heuristics), matchRepo, playerRepo, eventRepo, timelineRepo, log)

	return &services{
		ingest:  NewIngestService(cfg, source.New(log), matchRepo, playerRepo, eventRepo, statsSvc, timelineSvc, log),
		report:  NewReportService(matchRepo, playerRepo, eventRepo, statsRepo, timelineRepo, log),
		matches: matchRepo,
		events:  eventRepo,
		cfg:     cfg,
		db:      sqlDB,
	}
}

func lines(ls ...string) *strings.Reader {
	return strings.NewReader(strings.Join(ls, "\n") + "\n")
}

const (
	startM1    = `{"eventType":"start","matchID":"M1","time":"2024.01.01-10.00.00"}`
	damageAtoB = `{"eventType":"CombatMsg","type":"Damage","time":"2024.01.01-10.00.05","sourceowner":"A","targetowner":"B","value1":"100"}`
)

func matchLog() *strings.Reader {
	return lines(
		"[",
		startM1+",",
		`{"eventType":"playermsg","type":"RoleAssigned","time":"2024.01.01-10.00.01","sourceowner":"A","itemname":"EMid","value1":"1"},`,
		`{"eventType":"playermsg","type":"RoleAssigned","time":"2024.01.01-10.00.01","sourceowner":"B","itemname":"ESolo","value1":"2"},`,
		`{"eventType":"playermsg","type":"GodPicked","time":"2024.01.01-10.00.02","sourceowner":"A","itemname":"Zeus","itemid":"1"},`,
		`{"eventType":"itemmsg","type":"ItemPurchase","time":"2024.01.01-10.00.30","sourceowner":"A","itemname":"Book of Thoth","itemid":"77","value1":"2800"},`,
		`{"eventType":"itemmsg","type":"ItemPurchase","time":"2024.01.01-10.00.31","sourceowner":"A","itemname":"Health Potion","value1":"50"},`,
		`{"eventType":"CombatMsg","type":"Damage","time":"2024.01.01-10.01.00","sourceowner":"A","targetowner":"B","itemname":"Chain Lightning","value1":"450","value2":"20"},`,
		`{"eventType":"CombatMsg","type":"Kill","time":"2024.01.01-10.01.02","sourceowner":"A","targetowner":"B","itemname":"Chain Lightning"},`,
		`{"eventType":"RewardMsg","type":"Currency","time":"2024.01.01-10.01.02","sourceowner":"A","itemname":"Gold","value1":"300","text":"A earned gold"},`,
		`{"eventType":"CombatMsg","type":"Kill","time":"2024.01.01-10.02.00","sourceowner":"A","targetowner":"Order Phoenix"}`,
		"]",
	)
}

func TestParseTwoLineLog(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	res, err := s.ingest.Parse(ctx, lines(startM1, damageAtoB), "two.log", Options{})
	require.NoError(t, err)
	assert.Equal(t, "M1", res.MatchID)
	assert.Equal(t, 1, res.Counts["combat"])
	assert.False(t, res.Degraded())

	matches, err := s.report.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "M1", matches[0].MatchID)
	assert.Equal(t, "two.log", matches[0].SourceFile)
	assert.Equal(t, 5, *matches[0].DurationSeconds)

	combat, err := s.events.ListCombat(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, combat, 1)
	assert.Equal(t, 100, *combat[0].DamageAmount)
	assert.Equal(t, "A", *combat[0].SourceEntity)

	detail, err := s.report.GetMatch(ctx, "M1")
	require.NoError(t, err)
	for _, st := range detail.Stats {
		assert.Zero(t, st.Kills, st.PlayerName)
	}
}

func TestParseFullMatch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	res, err := s.ingest.Parse(ctx, matchLog(), "full.log", Options{})
	require.NoError(t, err)
	assert.False(t, res.Degraded())
	assert.Equal(t, 2, res.Players)
	assert.Equal(t, 3, res.Counts["combat"])
	assert.Equal(t, 2, res.Counts["item"])
	assert.Equal(t, 1, res.Counts["reward"])
	assert.Equal(t, 3, res.Counts["player"])
	assert.Equal(t, 2, res.Stats)
	assert.Positive(t, res.TimelineEvents)

	detail, err := s.report.GetMatch(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, detail.Players, 2)
	assert.Equal(t, 3, detail.Counts.Combat)
	assert.Equal(t, res.TimelineEvents, detail.Counts.Timeline)
	assert.Equal(t, 2, detail.Entities["player"])
	assert.Equal(t, 1, detail.Entities["objective"])
	assert.Contains(t, *detail.Match.MatchData, `"player_count":2`)

	stats := make(map[string]domain.PlayerStat)
	for _, st := range detail.Stats {
		stats[st.PlayerName] = st
	}
	assert.Equal(t, 1, stats["A"].Kills)
	assert.Equal(t, 450, stats["A"].DamageDealt)
	assert.Equal(t, 300, stats["A"].GoldEarned)
	assert.Equal(t, 1, stats["B"].Deaths)
	assert.Equal(t, 450, stats["B"].DamageTaken)
	assert.Equal(t, 20, stats["B"].DamageMitigated)

	require.Len(t, detail.Teams, 2)
	assert.Equal(t, TeamTotals{TeamID: 1, Players: 1, Kills: 1, DamageDealt: 450, GoldEarned: 300}, detail.Teams[0])
	assert.Equal(t, 1, detail.Teams[1].Deaths)

	timeline, err := s.report.Timeline(ctx, "M1", repository.TimelineFilter{})
	require.NoError(t, err)
	types := make(map[string]bool)
	for _, ev := range timeline {
		types[ev.EventType] = true
		assert.GreaterOrEqual(t, ev.Importance, 1)
		assert.LessOrEqual(t, ev.Importance, 10)
		assert.GreaterOrEqual(t, ev.GameTimeSeconds, 0)
	}
	assert.True(t, types["PlayerKill"])
	assert.True(t, types["FirstBlood"])
	assert.True(t, types["PhoenixDestroyed"])
	assert.True(t, types["MajorPurchase"])
	assert.True(t, types["HighDamage"])
	assert.True(t, types["GoldReward"])

	kills, err := s.report.Timeline(ctx, "M1", repository.TimelineFilter{EventType: "PlayerKill"})
	require.NoError(t, err)
	require.Len(t, kills, 1)
	assert.Equal(t, 62, kills[0].GameTimeSeconds)

	builds, err := s.report.ItemBuilds(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "A", builds[0].PlayerName)
	assert.Equal(t, 2850, builds[0].TotalCost)
	assert.Equal(t, "Book of Thoth", builds[0].Items[0].ItemName)
}

func TestParseExistingMatchFails(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.ingest.Parse(ctx, matchLog(), "full.log", Options{})
	require.NoError(t, err)

	_, err = s.ingest.Parse(ctx, matchLog(), "full.log", Options{})
	assert.ErrorIs(t, err, ErrMatchExists)
}

func TestReprocessIsIdempotent(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	first, err := s.ingest.Parse(ctx, matchLog(), "full.log", Options{})
	require.NoError(t, err)
	before, err := s.report.GetMatch(ctx, "M1")
	require.NoError(t, err)
	timelineBefore, err := s.report.Timeline(ctx, "M1", repository.TimelineFilter{})
	require.NoError(t, err)

	second, err := s.ingest.Parse(ctx, matchLog(), "full.log", Options{Reprocess: true})
	require.NoError(t, err)
	after, err := s.report.GetMatch(ctx, "M1")
	require.NoError(t, err)
	timelineAfter, err := s.report.Timeline(ctx, "M1", repository.TimelineFilter{})
	require.NoError(t, err)

	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, before.Counts, after.Counts)
	assert.Equal(t, before.Stats, after.Stats)
	assert.Equal(t, before.Players, after.Players)

	require.NotEmpty(t, timelineBefore)
	assert.Equal(t, withoutIDs(timelineBefore), withoutIDs(timelineAfter))
}

// withoutIDs blanks the generated identifiers so two timelines can be
// compared by content.
func withoutIDs(events []domain.TimelineEvent) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, len(events))
	for i, e := range events {
		e.ID = ""
		e.RelatedEventID = nil
		out[i] = e
	}
	return out
}

func TestParseDiscardsMatchOnFlushFailure(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `CREATE TRIGGER fail_item_insert BEFORE INSERT ON item_events
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	_, err = s.ingest.Parse(ctx, matchLog(), "full.log", Options{})
	require.Error(t, err)
	var pe *repository.PersistenceError
	assert.ErrorAs(t, err, &pe)

	exists, err := s.matches.Exists(ctx, "M1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.ingest.Regenerate(ctx, "M1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.db.ExecContext(ctx, `DROP TRIGGER fail_item_insert`)
	require.NoError(t, err)

	res, err := s.ingest.Parse(ctx, matchLog(), "full.log", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Counts["item"])
}

func TestParseMalformedLines(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	res, err := s.ingest.Parse(ctx, lines(startM1, `{"eventType": broken`, damageAtoB), "bad.log", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Decode.Malformed)
	assert.Equal(t, 1, res.Counts["combat"])

	s.cfg.SkipMalformed = false
	_, err = s.ingest.Parse(ctx, lines(`{"eventType":"start","matchID":"M2"}`, `{"eventType": broken`), "bad.log", Options{})
	assert.Error(t, err)
}

func TestParseDropsRecordsMissingTime(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	noTime := `{"eventType":"CombatMsg","type":"Damage","sourceowner":"A","targetowner":"B","value1":"5"}`
	res, err := s.ingest.Parse(ctx, lines(startM1, noTime, damageAtoB), "drop.log", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 1, res.Counts["combat"])
}

func TestParseFileLocal(t *testing.T) {
	s := newServices(t)

	_, err := s.ingest.ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.log"), Options{})
	assert.Error(t, err)
}

func TestRegenerate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.ingest.Regenerate(ctx, "nope")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	parsed, err := s.ingest.Parse(ctx, matchLog(), "full.log", Options{})
	require.NoError(t, err)

	res, err := s.ingest.Regenerate(ctx, "M1")
	require.NoError(t, err)
	assert.False(t, res.Degraded())
	assert.Equal(t, parsed.Stats, res.Stats)
	assert.Equal(t, parsed.TimelineEvents, res.TimelineEvents)
}

func TestReportUnknownMatch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.report.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.report.Timeline(ctx, "missing", repository.TimelineFilter{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDerivationErrorUnwraps(t *testing.T) {
	err := &DerivationError{Pass: PassStats, MatchID: "M1", Err: repository.ErrNotFound}
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "stats pass failed for match M1")
}
