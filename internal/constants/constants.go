package constants

import "time"

const (
	DefaultBatchSize = 1000
	MaxLineBytes     = 4 * 1024 * 1024
)

// heuristics with no ground truth in the telemetry; overridable via config
const (
	AssistWindow        = 10 * time.Second
	AssistMinDamage     = 50
	TeamFightGap        = 15 * time.Second
	TeamFightMinPlayers = 4
	TeamFightMinPerTeam = 2
)

const (
	HighDamageThreshold   = 300
	BigHealThreshold      = 200
	GoldRewardThreshold   = 200
	FirstMajorItemCost    = 500
	EarlyPurchaseCost     = 700
	MidPurchaseCost       = 900
	LatePurchaseCost      = 1200
	MidStagePurchases     = 6
	LateStagePurchases    = 12
	FallbackEventsPerUser = 10
)

const (
	MinImportance = 1
	MaxImportance = 10
)

const (
	Team1SpawnX = -10500.0
	Team2SpawnX = 10500.0
)

const (
	RemoteSourceTimeout = 30 * time.Second
	DatabaseTimeout     = 5 * time.Second
	RequestTimeout      = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	KeyMomentImportance = 7
	TimelinePageLimit   = 500
)
