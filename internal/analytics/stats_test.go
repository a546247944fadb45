package analytics

import (
	"testing"

	"smite-parser/internal/config"
	"smite-parser/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	players := []domain.Player{player("Alice", 1), player("Bob", 2), player("Cara", 1)}
	rows := []domain.CombatEvent{
		combat(1, "Damage", "Alice", "Bob", 100),
		combat(2, "Damage", "Cara", "Bob", 80),
		combat(3, "Damage", "Alice", "Chaos Tower", 250),
		combat(4, "Healing", "Cara", "Alice", 40),
		combat(4, "Heal", "Cara", "Cara", 10),
		combat(5, "CrowdControl", "Cara", "Bob", 0),
		combat(5, "CrowdControl", "Cara", "Archer", 0),
		combat(6, "KillingBlow", "Alice", "Bob", 0),
		combat(6, "Kill", "Alice", "Bob", 0),
		combat(7, "KillingBlow", "Bob", "Bob", 0),
	}
	rows[0].DamageMitigated = ip(15)

	rewards := []domain.RewardEvent{
		{EventTime: at(6), EventType: "Currency", EntityName: sp("Alice"), RewardAmount: ip(300)},
		{EventTime: at(7), EventType: "Experience", EntityName: sp("Bob"), RewardAmount: ip(120)},
		{EventTime: at(8), EventType: "Reward", SourceType: sp("Gold"), EventText: sp("Cara earned a bounty"), RewardAmount: ip(50)},
		{EventTime: at(9), EventType: "Reward", SourceType: sp("Relic"), EntityName: sp("Alice"), RewardAmount: ip(999)},
	}

	stats := ComputeStats("M1", NewIndex(players, rows), rewards, config.DefaultHeuristics())
	require.Len(t, stats, 3)

	alice, bob, cara := stats[0], stats[1], stats[2]

	assert.Equal(t, 1, alice.Kills)
	assert.Equal(t, 0, alice.Deaths)
	assert.Equal(t, 350, alice.DamageDealt)
	assert.Equal(t, 250, alice.StructureDamage)
	assert.Equal(t, 300, alice.GoldEarned)

	assert.Equal(t, 0, bob.Kills)
	assert.Equal(t, 1, bob.Deaths)
	assert.Equal(t, 180, bob.DamageTaken)
	assert.Equal(t, 15, bob.DamageMitigated)
	assert.Equal(t, 120, bob.ExperienceEarned)

	assert.Equal(t, 1, cara.Assists)
	assert.Equal(t, 50, cara.HealingDone)
	assert.Equal(t, 2, cara.CCInstances)
	assert.Equal(t, 50, cara.GoldEarned)
	assert.Equal(t, 1, *cara.TeamID)
}

func TestComputeStatsZeroKillsWithoutKillRows(t *testing.T) {
	players := []domain.Player{player("A", 1), player("B", 2)}
	stats := ComputeStats("M1", NewIndex(players, []domain.CombatEvent{
		combat(5, "Damage", "A", "B", 100),
	}), nil, config.DefaultHeuristics())

	require.Len(t, stats, 2)
	assert.Equal(t, 0, stats[0].Kills)
	assert.Equal(t, 100, stats[0].DamageDealt)
	assert.Equal(t, 100, stats[1].DamageTaken)
}

func TestClassifyReward(t *testing.T) {
	assert.Equal(t, RewardGold, ClassifyReward(domain.RewardEvent{EventType: "Currency"}))
	assert.Equal(t, RewardGold, ClassifyReward(domain.RewardEvent{EventType: "X", SourceType: sp("Passive Gold")}))
	assert.Equal(t, RewardExperience, ClassifyReward(domain.RewardEvent{EventType: "Experience"}))
	assert.Equal(t, RewardOther, ClassifyReward(domain.RewardEvent{EventType: "ObjectiveComplete"}))
}
