package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeEntity(t *testing.T) {
	players := map[string]bool{"Alice": true}
	isPlayer := func(n string) bool { return players[n] }

	tests := map[string]string{
		"Alice":               EntityPlayer,
		"Order Tower 1":       EntityObjective,
		"Chaos Phoenix":       EntityObjective,
		"Titan":               EntityObjective,
		"Archer Minion":       EntityMinion,
		"Champion Brute":      EntityMinion,
		"Gold Fury":           EntityJungle,
		"Alpha Harpy":         EntityJungle,
		"Scorpion Camp":       EntityJungle,
		"Mysterious Stranger": EntityUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, CategorizeEntity(name, isPlayer), name)
	}
}

func TestMatchObjective(t *testing.T) {
	r, ok := MatchObjective("Order Tower")
	assert.True(t, ok)
	assert.Equal(t, "Structure", r.Kind)
	assert.Equal(t, 6, r.Importance)

	r, ok = MatchObjective("Chaos Titan")
	assert.True(t, ok)
	assert.Equal(t, 10, r.Importance)

	r, ok = MatchObjective("Gold Fury")
	assert.True(t, ok)
	assert.Equal(t, "Boss", r.Kind)
	assert.Equal(t, 8, r.Importance)

	r, ok = MatchObjective("Fire Giant")
	assert.True(t, ok)
	assert.Equal(t, 9, r.Importance)

	_, ok = MatchStructure("Pyromancer")
	assert.False(t, ok)
	_, ok = MatchObjective("Archer")
	assert.False(t, ok)
}

func TestItemType(t *testing.T) {
	assert.Equal(t, ItemConsumable, ItemType("Health Potion"))
	assert.Equal(t, ItemRelic, ItemType("Purification Beads"))
	assert.Equal(t, ItemStarter, ItemType("Bumba's Cudgel"))
	assert.Equal(t, ItemDefault, ItemType("Deathbringer"))
}

func TestAbilityType(t *testing.T) {
	assert.Equal(t, AbilityBasic, AbilityType("Basic Attack"))
	assert.Equal(t, AbilityDefault, AbilityType("Ice Wall"))
}
