package ingest

import (
	"strings"
	"time"

	"smite-parser/internal/constants"
	"smite-parser/internal/domain"
	"smite-parser/internal/logparse"
)

// Event is one transformed record. The concrete types are CombatRecord,
// RewardRecord, ItemRecord and PlayerRecord.
type Event interface {
	Category() Category
	At() time.Time
}

type CombatRecord struct{ domain.CombatEvent }

type RewardRecord struct{ domain.RewardEvent }

type ItemRecord struct{ domain.ItemEvent }

type PlayerRecord struct{ domain.PlayerEvent }

func (CombatRecord) Category() Category { return CategoryCombat }
func (RewardRecord) Category() Category { return CategoryReward }
func (ItemRecord) Category() Category   { return CategoryItem }
func (PlayerRecord) Category() Category { return CategoryPlayer }

func (r CombatRecord) At() time.Time { return r.EventTime }
func (r RewardRecord) At() time.Time { return r.EventTime }
func (r ItemRecord) At() time.Time   { return r.EventTime }
func (r PlayerRecord) At() time.Time { return r.EventTime }

var spawnTypes = map[string]bool{
	"RoleAssigned": true,
	"GodPicked":    true,
	"GodHovered":   true,
}

// Transform converts a classified record into its typed event. Unknown
// records return (nil, nil).
func Transform(rec logparse.Record) (Event, error) {
	cat := Classify(rec)
	if cat == CategoryUnknown {
		return nil, nil
	}

	t, ok := ParseTimestamp(rec.String("time"))
	if !ok {
		return nil, &TransformError{Category: cat, Field: "time"}
	}

	eventType := rec.Type()
	if eventType == "" {
		if cat != CategoryItem {
			return nil, &TransformError{Category: cat, Field: "type"}
		}
		eventType = "ItemPurchase"
	}

	x, y := location(rec)
	text := optString(rec, "text")

	switch cat {
	case CategoryCombat:
		return CombatRecord{domain.CombatEvent{
			EventTime:       t,
			EventType:       eventType,
			SourceEntity:    optString(rec, "sourceowner"),
			TargetEntity:    optString(rec, "targetowner"),
			AbilityName:     optString(rec, "itemname"),
			LocationX:       x,
			LocationY:       y,
			DamageAmount:    coerceField(rec, "value1"),
			DamageMitigated: coerceField(rec, "value2"),
			EventText:       text,
		}}, nil

	case CategoryReward:
		return RewardRecord{domain.RewardEvent{
			EventTime:    t,
			EventType:    eventType,
			EntityName:   optString(rec, "sourceowner"),
			LocationX:    x,
			LocationY:    y,
			RewardAmount: coerceField(rec, "value1"),
			SourceType:   optString(rec, "itemname"),
			EventText:    text,
		}}, nil

	case CategoryItem:
		cost := coerceField(rec, "value1")
		if cost == nil || *cost == 0 {
			if parsed := costFromText(rec.String("text")); parsed != nil {
				cost = parsed
			}
		}
		return ItemRecord{domain.ItemEvent{
			EventTime:  t,
			EventType:  eventType,
			PlayerName: optString(rec, "sourceowner"),
			ItemID:     coerceField(rec, "itemid"),
			ItemName:   optString(rec, "itemname"),
			LocationX:  x,
			LocationY:  y,
			Cost:       cost,
			EventText:  text,
		}}, nil

	default:
		team := coerceField(rec, "value1")
		if (x == nil || y == nil) && spawnTypes[eventType] && team != nil {
			switch *team {
			case 1:
				x, y = ptr(constants.Team1SpawnX), ptr(0.0)
			case 2:
				x, y = ptr(constants.Team2SpawnX), ptr(0.0)
			}
		}
		player := optString(rec, "sourceowner")
		return PlayerRecord{domain.PlayerEvent{
			EventTime:  t,
			EventType:  eventType,
			PlayerName: player,
			EntityName: player,
			TeamID:     team,
			Value:      optString(rec, "value1"),
			ItemID:     coerceField(rec, "itemid"),
			ItemName:   optString(rec, "itemname"),
			LocationX:  x,
			LocationY:  y,
			EventText:  text,
		}}, nil
	}
}

// costFromText reads the number between the last "(" and the ")" after it,
// as in "Purchased Bumba's Cudgel (800)".
func costFromText(text string) *int {
	open := strings.LastIndex(text, "(")
	if open < 0 {
		return nil
	}
	rest := text[open+1:]
	end := strings.Index(rest, ")")
	if end < 0 {
		return nil
	}
	return CoerceInt(rest[:end])
}

func location(rec logparse.Record) (*float64, *float64) {
	x, _ := rec.Value("locationx")
	y, _ := rec.Value("locationy")
	return CoerceFloat(x), CoerceFloat(y)
}

func coerceField(rec logparse.Record, key string) *int {
	v, _ := rec.Value(key)
	return CoerceInt(v)
}

func optString(rec logparse.Record, key string) *string {
	if !rec.Has(key) {
		return nil
	}
	s := rec.String(key)
	if s == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T { return &v }
