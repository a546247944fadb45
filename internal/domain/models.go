package domain

import (
	"time"
)

type Match struct {
	MatchID         string
	SourceFile      string
	MapName         *string
	GameType        *string
	StartTime       *time.Time
	EndTime         *time.Time
	DurationSeconds *int
	MatchData       *string // JSON summary of the ingest run
}

type Player struct {
	MatchID    string
	PlayerName string
	TeamID     *int // 1 or 2
	Role       *string
	GodID      *int
	GodName    *string
}

type Entity struct {
	MatchID    string
	EntityName string
	EntityType string // player, objective, minion, jungle, unknown
	TeamID     *int
}

type Item struct {
	MatchID  string
	ItemID   *int
	ItemName string
	ItemType string // consumable, relic, starter, item
}

type Ability struct {
	MatchID       string
	AbilityName   string
	AbilitySource *string
	AbilityType   string // basic, ability
}

type CombatEvent struct {
	MatchID         string
	EventTime       time.Time
	Timestamp       *time.Time
	EventType       string
	SourceEntity    *string
	TargetEntity    *string
	AbilityName     *string
	LocationX       *float64
	LocationY       *float64
	DamageAmount    *int
	DamageMitigated *int
	EventText       *string
}

type RewardEvent struct {
	MatchID      string
	EventTime    time.Time
	Timestamp    *time.Time
	EventType    string
	EntityName   *string
	LocationX    *float64
	LocationY    *float64
	RewardAmount *int
	SourceType   *string
	EventText    *string
}

type ItemEvent struct {
	MatchID    string
	EventTime  time.Time
	Timestamp  *time.Time
	EventType  string
	PlayerName *string
	ItemID     *int
	ItemName   *string
	LocationX  *float64
	LocationY  *float64
	Cost       *int
	EventText  *string
}

type PlayerEvent struct {
	MatchID    string
	EventTime  time.Time
	Timestamp  *time.Time
	EventType  string
	PlayerName *string
	EntityName *string
	TeamID     *int
	Value      *string
	ItemID     *int
	ItemName   *string
	LocationX  *float64
	LocationY  *float64
	EventText  *string
}

type PlayerStat struct {
	MatchID          string
	PlayerName       string
	TeamID           *int
	Kills            int
	Deaths           int
	Assists          int
	DamageDealt      int
	DamageTaken      int
	DamageMitigated  int
	HealingDone      int
	GoldEarned       int
	ExperienceEarned int
	CCInstances      int
	StructureDamage  int
}

type TimelineEvent struct {
	ID              string // nanoid
	MatchID         string
	EventTime       time.Time
	Timestamp       *time.Time
	GameTimeSeconds int
	EventType       string
	EventCategory   string
	Importance      int // 1-10
	Description     string
	EntityName      *string
	TargetName      *string
	TeamID          *int
	Value           *float64
	RelatedEventID  *string
	OtherEntities   *string // comma separated
	LocationX       *float64
	LocationY       *float64
	EventDetails    *string // JSON
	Sequence        int
}
