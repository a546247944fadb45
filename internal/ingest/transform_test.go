package ingest

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"smite-parser/internal/logparse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, CategoryCombat, Classify(logparse.Record{"eventType": "CombatMsg"}))
	assert.Equal(t, CategoryReward, Classify(logparse.Record{"eventType": "RewardMsg"}))
	assert.Equal(t, CategoryItem, Classify(logparse.Record{"eventType": "itemmsg"}))
	assert.Equal(t, CategoryPlayer, Classify(logparse.Record{"eventType": "playermsg"}))
	assert.Equal(t, CategoryUnknown, Classify(logparse.Record{"eventType": "start"}))
	assert.Equal(t, CategoryUnknown, Classify(logparse.Record{}))
}

func TestTransformCombat(t *testing.T) {
	ev, err := Transform(logparse.Record{
		"eventType":   "CombatMsg",
		"type":        "Damage",
		"time":        "2024.01.01-10.00.05",
		"sourceowner": "A",
		"targetowner": "B",
		"itemname":    "Ice Wall",
		"value1":      json.Number("100"),
		"value2":      json.Number("12"),
		"locationx":   json.Number("1.5"),
		"locationy":   "not a number",
	})
	require.NoError(t, err)

	c, ok := ev.(CombatRecord)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 5, 0, time.UTC), c.At())
	assert.Equal(t, "Damage", c.EventType)
	assert.Equal(t, "A", *c.SourceEntity)
	assert.Equal(t, "B", *c.TargetEntity)
	assert.Equal(t, 100, *c.DamageAmount)
	assert.Equal(t, 12, *c.DamageMitigated)
	assert.InDelta(t, 1.5, *c.LocationX, 0.001)
	assert.Nil(t, c.LocationY)
}

func TestTransformItemCostFromText(t *testing.T) {
	ev, err := Transform(logparse.Record{
		"eventType":   "itemmsg",
		"time":        "2024-01-01-10:01:00",
		"sourceowner": "A",
		"itemname":    "Bumba's Cudgel",
		"itemid":      "17",
		"value1":      json.Number("0"),
		"text":        "A purchased (x) Bumba's Cudgel (800)",
	})
	require.NoError(t, err)

	it := ev.(ItemRecord)
	assert.Equal(t, "ItemPurchase", it.EventType)
	assert.Equal(t, 800, *it.Cost)
	assert.Equal(t, 17, *it.ItemID)
	assert.Equal(t, CategoryItem, it.Category())
}

func TestTransformPlayerDefaultSpawn(t *testing.T) {
	for team, wantX := range map[string]float64{"1": -10500, "2": 10500} {
		ev, err := Transform(logparse.Record{
			"eventType":   "playermsg",
			"type":        "RoleAssigned",
			"time":        "2024.01.01-10.00.00",
			"sourceowner": "A",
			"itemname":    "EJungle",
			"value1":      team,
		})
		require.NoError(t, err)
		p := ev.(PlayerRecord)
		require.NotNil(t, p.LocationX)
		assert.Equal(t, wantX, *p.LocationX)
		assert.Equal(t, 0.0, *p.LocationY)
		assert.Equal(t, team, *p.Value)
	}

	ev, err := Transform(logparse.Record{
		"eventType": "playermsg",
		"type":      "LevelUp",
		"time":      "2024.01.01-10.00.00",
		"value1":    "1",
	})
	require.NoError(t, err)
	assert.Nil(t, ev.(PlayerRecord).LocationX)
}

func TestTransformMandatoryFields(t *testing.T) {
	_, err := Transform(logparse.Record{"eventType": "CombatMsg", "type": "Damage", "time": "garbage"})
	var terr *TransformError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "time", terr.Field)
	assert.Equal(t, CategoryCombat, terr.Category)

	_, err = Transform(logparse.Record{"eventType": "RewardMsg", "time": "2024.01.01-10.00.00"})
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "type", terr.Field)

	ev, err := Transform(logparse.Record{"eventType": "start", "matchID": "M1"})
	assert.NoError(t, err)
	assert.Nil(t, ev)
}
