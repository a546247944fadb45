package db

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
	DurationSeconds *int64
	MatchData       *string
}

type Player struct {
	PlayerID   int64
	MatchID    string
	PlayerName string
	TeamID     *int64
	Role       *string
	GodID      *int64
	GodName    *string
}

type Entity struct {
	EntityID   int64
	MatchID    string
	EntityName string
	EntityType string
	TeamID     *int64
}

type Item struct {
	MatchID  string
	ItemName string
	ItemID   *int64
	ItemType string
}

type Ability struct {
	AbilityID     int64
	MatchID       string
	AbilityName   string
	AbilitySource *string
	AbilityType   string
}

type CombatEvent struct {
	EventID         int64
	MatchID         string
	EventTime       time.Time
	Timestamp       *time.Time
	EventType       string
	SourceEntity    *string
	TargetEntity    *string
	AbilityName     *string
	LocationX       *float64
	LocationY       *float64
	DamageAmount    *int64
	DamageMitigated *int64
	EventText       *string
}

type RewardEvent struct {
	EventID      int64
	MatchID      string
	EventTime    time.Time
	Timestamp    *time.Time
	EventType    string
	EntityName   *string
	LocationX    *float64
	LocationY    *float64
	RewardAmount *int64
	SourceType   *string
	EventText    *string
}

type ItemEvent struct {
	EventID    int64
	MatchID    string
	EventTime  time.Time
	Timestamp  *time.Time
	EventType  string
	PlayerName *string
	ItemID     *int64
	ItemName   *string
	LocationX  *float64
	LocationY  *float64
	Cost       *int64
	EventText  *string
}

type PlayerEvent struct {
	EventID    int64
	MatchID    string
	EventTime  time.Time
	Timestamp  *time.Time
	EventType  string
	PlayerName *string
	EntityName *string
	TeamID     *int64
	Value      *string
	ItemID     *int64
	ItemName   *string
	LocationX  *float64
	LocationY  *float64
	EventText  *string
}

type PlayerStat struct {
	StatID           int64
	MatchID          string
	PlayerName       string
	TeamID           *int64
	Kills            int64
	Deaths           int64
	Assists          int64
	DamageDealt      int64
	DamageTaken      int64
	DamageMitigated  int64
	HealingDone      int64
	GoldEarned       int64
	ExperienceEarned int64
	CcInstances      int64
	StructureDamage  int64
}

type TimelineEvent struct {
	EventID          string
	MatchID          string
	EventTime        time.Time
	Timestamp        *time.Time
	GameTimeSeconds  int64
	EventType        string
	EventCategory    string
	Importance       int64
	EventDescription *string
	EntityName       *string
	TargetName       *string
	TeamID           *int64
	Value            *float64
	RelatedEventID   *string
	OtherEntities    *string
	LocationX        *float64
	LocationY        *float64
	EventDetails     *string
	Sequence         int64
}
