package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"smite-parser/internal/config"
	"smite-parser/internal/constants"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type pragma struct {
	name  string
	value string
}

// Applied once after open. busy_timeout and foreign_keys are per connection
// and also go into the DSN.
var pragmas = []pragma{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"cache_size", "-64000"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
	{"temp_store", "MEMORY"},
}

// New opens the match store, applies pragmas and runs pending migrations.
func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	log := logger.With().Str("path", cfg.DBPath).Str("driver", cfg.DBDriver).Logger()
	log.Info().Msg("opening match store")

	sqlDB, err := sql.Open(cfg.DBDriver, dsn(cfg.DBDriver, cfg.DBPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(constants.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	for _, step := range []struct {
		name string
		run  func(context.Context, *sql.DB, zerolog.Logger) error
	}{
		{"ping", func(ctx context.Context, d *sql.DB, _ zerolog.Logger) error { return d.PingContext(ctx) }},
		{"apply pragmas", applyPragmas},
		{"migrate", migrate},
	} {
		if err := step.run(ctx, sqlDB, log); err != nil {
			log.Error().Err(err).Str("step", step.name).Msg("database setup failed")
			sqlDB.Close()
			return nil, fmt.Errorf("failed to %s: %w", step.name, err)
		}
	}

	log.Info().Msg("match store ready")
	return sqlDB, nil
}

func dsn(driver, path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	if driver == "sqlite" {
		return path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	return path + "?_busy_timeout=5000&_foreign_keys=on"
}

func migrate(ctx context.Context, sqlDB *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return err
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return err
	}
	logger.Debug().Int64("version", version).Msg("schema migrated")
	return nil
}

func applyPragmas(ctx context.Context, sqlDB *sql.DB, logger zerolog.Logger) error {
	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("PRAGMA %s: %w", p.name, err)
		}
		logger.Debug().Str("pragma", p.name).Str("value", p.value).Msg("pragma set")
	}
	return nil
}
