package service

import (
	"context"
	"fmt"

	"smite-parser/internal/analytics"
	"smite-parser/internal/config"
	"smite-parser/internal/constants"
	"smite-parser/internal/domain"
	"smite-parser/internal/repository"

	"github.com/rs/zerolog"
)

const PassStats = "stats"

type StatsService struct {
	playerRepo *repository.PlayerRepository
	eventRepo  *repository.EventRepository
	statsRepo  *repository.StatsRepository
	heuristics config.Heuristics
	logger     zerolog.Logger
}

func NewStatsService(cfg *config.Config, playerRepo *repository.PlayerRepository, eventRepo *repository.EventRepository, statsRepo *repository.StatsRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		statsRepo:  statsRepo,
		heuristics: cfg.Heuristics,
		logger:     logger,
	}
}

// Generate recomputes the per-player stats of a match from its persisted
// events and replaces the stored rows.
func (s *StatsService) Generate(ctx context.Context, matchID string) ([]domain.PlayerStat, error) {
	stats, err := s.generate(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("stats pass failed")
		return nil, &DerivationError{Pass: PassStats, MatchID: matchID, Err: err}
	}
	return stats, nil
}

func (s *StatsService) generate(ctx context.Context, matchID string) ([]domain.PlayerStat, error) {
	players, err := s.playerRepo.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}
	combat, err := s.eventRepo.ListCombat(ctx, matchID)
	if err != nil {
		return nil, err
	}
	rewards, err := s.eventRepo.ListRewards(ctx, matchID)
	if err != nil {
		return nil, err
	}

	ix := analytics.NewIndex(players, combat)
	stats := analytics.ComputeStats(matchID, ix, rewards, s.heuristics)

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := s.statsRepo.Replace(dbCtx, matchID, stats); err != nil {
		return nil, fmt.Errorf("failed to store player stats: %w", err)
	}

	s.logger.Info().
		Str("match_id", matchID).
		Int("players", len(stats)).
		Int("kills", len(ix.Kills())).
		Msg("player stats generated")
	return stats, nil
}
