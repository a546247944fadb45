package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"smite-parser/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath        string
	DBDriver      string
	BatchSize     int
	SkipMalformed bool
	LogLevel      string
	ServerPort    string

	Heuristics Heuristics
}

// Heuristics holds the tunable thresholds of the derivation passes.
type Heuristics struct {
	AssistWindow        time.Duration
	AssistMinDamage     int
	TeamFightGap        time.Duration
	TeamFightMinPlayers int
	TeamFightMinPerTeam int
}

func DefaultHeuristics() Heuristics {
	return Heuristics{
		AssistWindow:        constants.AssistWindow,
		AssistMinDamage:     constants.AssistMinDamage,
		TeamFightGap:        constants.TeamFightGap,
		TeamFightMinPlayers: constants.TeamFightMinPlayers,
		TeamFightMinPerTeam: constants.TeamFightMinPerTeam,
	}
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:        getEnv("SMITE_DB_PATH", "smite_matches.db"),
		DBDriver:      getEnv("SMITE_DB_DRIVER", "sqlite3"),
		BatchSize:     getEnvInt("SMITE_BATCH_SIZE", constants.DefaultBatchSize),
		SkipMalformed: getEnvBool("SMITE_SKIP_MALFORMED", true),
		LogLevel:      getEnv("SMITE_LOG_LEVEL", "info"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Heuristics: Heuristics{
			AssistWindow:        getEnvDuration("SMITE_ASSIST_WINDOW", constants.AssistWindow),
			AssistMinDamage:     getEnvInt("SMITE_ASSIST_MIN_DAMAGE", constants.AssistMinDamage),
			TeamFightGap:        getEnvDuration("SMITE_TEAMFIGHT_GAP", constants.TeamFightGap),
			TeamFightMinPlayers: getEnvInt("SMITE_TEAMFIGHT_MIN_PLAYERS", constants.TeamFightMinPlayers),
			TeamFightMinPerTeam: getEnvInt("SMITE_TEAMFIGHT_MIN_PER_TEAM", constants.TeamFightMinPerTeam),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid SMITE_LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("db_driver", cfg.DBDriver).
		Int("batch_size", cfg.BatchSize).
		Bool("skip_malformed", cfg.SkipMalformed).
		Str("log_level", cfg.LogLevel).
		Dur("assist_window", cfg.Heuristics.AssistWindow).
		Dur("teamfight_gap", cfg.Heuristics.TeamFightGap).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("SMITE_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	switch c.DBDriver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("unsupported SMITE_DB_DRIVER %q (want sqlite3 or sqlite)", c.DBDriver)
	}
	if c.Heuristics.TeamFightMinPerTeam*2 > c.Heuristics.TeamFightMinPlayers {
		return fmt.Errorf("team fight needs at least %d players for %d per team",
			c.Heuristics.TeamFightMinPerTeam*2, c.Heuristics.TeamFightMinPerTeam)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
