package analytics

import (
	"testing"

	"smite-parser/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ofType(events []domain.TimelineEvent, typ string) []domain.TimelineEvent {
	var out []domain.TimelineEvent
	for _, e := range events {
		if e.EventType == typ {
			out = append(out, e)
		}
	}
	return out
}

func types(events []domain.TimelineEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType
	}
	return out
}

func TestTimelineKillsStreaksAndOrder(t *testing.T) {
	start := at(0)
	in := TimelineInput{
		MatchID: "M1",
		Start:   &start,
		Players: []domain.Player{player("A", 1), player("H", 1), player("B", 2), player("C", 2), player("D", 2)},
		Combat: []domain.CombatEvent{
			combat(55, "Damage", "H", "B", 60),
			combat(60, "KillingBlow", "A", "B", 0),
			combat(70, "KillingBlow", "A", "C", 0),
			combat(80, "KillingBlow", "A", "D", 0),
			combat(90, "KillingBlow", "B", "A", 0),
		},
	}

	events, err := testSynth().Build(in)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"TeamFight", "PlayerKill", "FirstBlood", "PlayerKill",
		"PlayerKill", "KillStreak", "PlayerKill", "StreakEnded",
	}, types(events))

	for i, e := range events {
		assert.Equal(t, i, e.Sequence)
		assert.Equal(t, "M1", e.MatchID)
		assert.Equal(t, int(e.EventTime.Sub(start).Seconds()), e.GameTimeSeconds)
		assert.NotNil(t, e.Timestamp)
	}

	first := events[1]
	assert.Equal(t, 7, first.Importance)
	require.NotNil(t, first.OtherEntities)
	assert.Equal(t, "H", *first.OtherEntities)
	assert.Equal(t, 8, events[2].Importance)
	assert.Equal(t, 60, events[2].GameTimeSeconds)

	streak := ofType(events, "KillStreak")[0]
	ended := ofType(events, "StreakEnded")[0]
	assert.Equal(t, 6, streak.Importance)
	assert.Equal(t, "B", *ended.EntityName)
	assert.Equal(t, "A", *ended.TargetName)
	require.NotNil(t, ended.RelatedEventID)
	assert.Equal(t, streak.ID, *ended.RelatedEventID)

	fight := ofType(events, "TeamFight")[0]
	assert.Equal(t, 10, fight.Importance)
	assert.Equal(t, "A,B,C,D,H", *fight.OtherEntities)
}

func TestTimelineFallback(t *testing.T) {
	var rows []domain.CombatEvent
	for i := 0; i < 12; i++ {
		rows = append(rows, combat(i, "Damage", "A", "B", 10))
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, combat(20+i, "Damage", "B", "A", 10))
	}
	rows = append(rows, combat(30, "Damage", "Archer", "A", 10))

	events, err := testSynth().Build(TimelineInput{
		MatchID: "M1",
		Players: []domain.Player{player("A", 1), player("B", 2)},
		Combat:  rows,
	})
	require.NoError(t, err)

	require.Len(t, events, 13)
	for _, e := range events {
		assert.Equal(t, "CombatStart", e.EventType)
		assert.Equal(t, 1, e.Importance)
	}
	assert.Len(t, ofType(events, "CombatStart"), 13)
	assert.Equal(t, 0, events[0].GameTimeSeconds)
	assert.Equal(t, 22, events[12].GameTimeSeconds)
}

func TestTimelineObjectives(t *testing.T) {
	events, err := testSynth().Build(TimelineInput{
		MatchID: "M1",
		Players: []domain.Player{player("A", 1)},
		Combat: []domain.CombatEvent{
			combat(10, "KillingBlow", "A", "Chaos Titan", 0),
			combat(10, "Kill", "A", "Chaos Titan", 0),
			combat(20, "KillingBlow", "Archer", "Order Tower", 0),
			combat(30, "KillingBlow", "A", "Gold Fury", 0),
		},
		Rewards: []domain.RewardEvent{
			{EventTime: at(40), EventType: "ObjectiveComplete", EntityName: sp("A")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"TitanDestroyed", "TowerDestroyed", "GoldFuryKill", "ObjectiveComplete"}, types(events))
	assert.Equal(t, []int{10, 6, 8, 7}, []int{events[0].Importance, events[1].Importance, events[2].Importance, events[3].Importance})
	assert.Nil(t, events[1].TeamID)
	assert.Equal(t, 1, *events[0].TeamID)
}

func TestTimelineEconomyAndMilestones(t *testing.T) {
	purchase := func(sec, cost int, name string) domain.ItemEvent {
		return domain.ItemEvent{EventTime: at(sec), EventType: "ItemPurchase", PlayerName: sp("A"), ItemName: sp(name), Cost: ip(cost)}
	}
	items := []domain.ItemEvent{purchase(1, 800, "Deathbringer")}
	for i := 0; i < 5; i++ {
		items = append(items, purchase(2+i, 100, "Potion"))
	}
	items = append(items, purchase(10, 850, "Boots"), purchase(11, 950, "Rod"), purchase(12, 5000, "Ring"))

	levelEvent := func(sec int, text string) domain.PlayerEvent {
		return domain.PlayerEvent{EventTime: at(sec), EventType: "LevelUp", PlayerName: sp("A"), EventText: sp(text)}
	}
	pes := []domain.PlayerEvent{levelEvent(20, "A reached Level 5")}
	for i := 0; i < 5; i++ {
		pes = append(pes, levelEvent(21+i, ""))
	}

	events, err := testSynth().Build(TimelineInput{
		MatchID:      "M1",
		Players:      []domain.Player{player("A", 1)},
		Items:        items,
		PlayerEvents: pes,
		Rewards: []domain.RewardEvent{
			{EventTime: at(30), EventType: "Currency", EntityName: sp("A"), RewardAmount: ip(199)},
			{EventTime: at(31), EventType: "Currency", EntityName: sp("A"), RewardAmount: ip(450)},
		},
	})
	require.NoError(t, err)

	major := ofType(events, "MajorPurchase")
	require.Len(t, major, 3)
	assert.Equal(t, "A purchased Deathbringer (800 gold)", major[0].Description)
	assert.Equal(t, 3, major[0].Importance)
	assert.InDelta(t, 950, *major[1].Value, 0.1)
	assert.Equal(t, 6, major[2].Importance)

	firstMajor := ofType(events, "FirstMajorItem")
	require.Len(t, firstMajor, 1)
	assert.Equal(t, 4, firstMajor[0].Importance)
	assert.InDelta(t, 800, *firstMajor[0].Value, 0.1)

	gold := ofType(events, "GoldReward")
	require.Len(t, gold, 1)
	assert.Equal(t, 4, gold[0].Importance)

	levels := ofType(events, "LevelMilestone")
	require.Len(t, levels, 2)
	assert.InDelta(t, 5, *levels[0].Value, 0.1)
	assert.InDelta(t, 10, *levels[1].Value, 0.1)
	assert.Equal(t, 4, levels[1].Importance)

	assert.Empty(t, ofType(events, "CombatStart"))
}

func TestTimelineCombatThresholds(t *testing.T) {
	events, err := testSynth().Build(TimelineInput{
		MatchID: "M1",
		Players: []domain.Player{player("A", 1), player("B", 2), player("C", 1)},
		Combat: []domain.CombatEvent{
			combat(1, "Damage", "A", "B", 299),
			combat(2, "Damage", "A", "B", 300),
			combat(3, "Damage", "A", "B", 2000),
			combat(4, "Healing", "A", "C", 250),
			combat(5, "Healing", "A", "B", 900),
			combat(6, "Heal", "C", "C", 650),
			combat(7, "KillingBlow", "A", "B", 0),
		},
	})
	require.NoError(t, err)

	high := ofType(events, "HighDamage")
	require.Len(t, high, 2)
	assert.Equal(t, 4, high[0].Importance)
	assert.Equal(t, 6, high[1].Importance)

	heals := ofType(events, "BigHeal")
	require.Len(t, heals, 2)
	assert.Equal(t, 4, heals[0].Importance)
	assert.Equal(t, 6, heals[1].Importance)
}

func TestImportanceAlwaysInRange(t *testing.T) {
	for _, v := range []int{-50, 0, 1, 5, 10, 11, 1000} {
		got := ClampImportance(v)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 10)
	}
	assert.Equal(t, 3, ScaleImportance(701, 700, 500, 3, 6))
	assert.Equal(t, 6, ScaleImportance(100000, 700, 500, 3, 6))
	assert.Equal(t, 3, ScaleImportance(10, 700, 0, 3, 6))

	var rows []domain.CombatEvent
	players := []domain.Player{player("P1", 1), player("P2", 1), player("P3", 1), player("Q1", 2), player("Q2", 2)}
	for i := 0; i < 40; i++ {
		rows = append(rows, combat(i, "Damage", "P1", "Q1", 10000))
		rows = append(rows, combat(i, "KillingBlow", []string{"P1", "P2", "P3"}[i%3], []string{"Q1", "Q2"}[i%2], 0))
	}
	events, err := testSynth().Build(TimelineInput{MatchID: "M1", Players: players, Combat: rows})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.GreaterOrEqual(t, e.Importance, 1, e.EventType)
		assert.LessOrEqual(t, e.Importance, 10, e.EventType)
	}
}
