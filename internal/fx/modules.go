package fx

import (
	"database/sql"

	"smite-parser/internal/analytics"
	"smite-parser/internal/config"
	"smite-parser/internal/database"
	"smite-parser/internal/db"
	"smite-parser/internal/logger"
	"smite-parser/internal/repository"
	"smite-parser/internal/server"
	"smite-parser/internal/service"
	"smite-parser/internal/source"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideSynthesizer(cfg *config.Config) *analytics.Synthesizer {
	return analytics.NewSynthesizer(cfg.Heuristics)
}

func ProvideOpener(src *source.Source) service.LogOpener {
	return src
}

func ProvideReports(svc *service.ReportService) server.Reports {
	return svc
}

// Core is everything the CLI needs.
var Core = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewEventRepository),
	fx.Provide(repository.NewStatsRepository),
	fx.Provide(repository.NewTimelineRepository),
	// log sources
	fx.Provide(source.New),
	fx.Provide(ProvideOpener),
	// svc
	fx.Provide(ProvideSynthesizer),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewTimelineService),
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewReportService),
)

var Module = fx.Options(
	Core,
	// server
	fx.Provide(ProvideReports),
	fx.Provide(server.NewReportServer),
)
