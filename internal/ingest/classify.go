package ingest

import "smite-parser/internal/logparse"

type Category int

const (
	CategoryUnknown Category = iota
	CategoryCombat
	CategoryReward
	CategoryItem
	CategoryPlayer
)

func (c Category) String() string {
	switch c {
	case CategoryCombat:
		return "combat"
	case CategoryReward:
		return "reward"
	case CategoryItem:
		return "item"
	case CategoryPlayer:
		return "player"
	default:
		return "unknown"
	}
}

var categoryByEventType = map[string]Category{
	"CombatMsg": CategoryCombat,
	"RewardMsg": CategoryReward,
	"itemmsg":   CategoryItem,
	"playermsg": CategoryPlayer,
}

// Classify maps a record's eventType to its category. Everything else,
// including the "start" record, is CategoryUnknown.
func Classify(rec logparse.Record) Category {
	return categoryByEventType[rec.EventType()]
}
