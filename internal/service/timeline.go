package service

import (
	"context"
	"fmt"

	"smite-parser/internal/analytics"
	"smite-parser/internal/constants"
	"smite-parser/internal/domain"
	"smite-parser/internal/repository"

	"github.com/rs/zerolog"
)

const PassTimeline = "timeline"

type TimelineService struct {
	synth        *analytics.Synthesizer
	matchRepo    *repository.MatchRepository
	playerRepo   *repository.PlayerRepository
	eventRepo    *repository.EventRepository
	timelineRepo *repository.TimelineRepository
	logger       zerolog.Logger
}

func NewTimelineService(synth *analytics.Synthesizer, matchRepo *repository.MatchRepository, playerRepo *repository.PlayerRepository, eventRepo *repository.EventRepository, timelineRepo *repository.TimelineRepository, logger zerolog.Logger) *TimelineService {
	return &TimelineService{
		synth:        synth,
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
		eventRepo:    eventRepo,
		timelineRepo: timelineRepo,
		logger:       logger,
	}
}

// Generate rebuilds the timeline of a match from its persisted events.
func (s *TimelineService) Generate(ctx context.Context, matchID string) ([]domain.TimelineEvent, error) {
	events, err := s.generate(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("timeline pass failed")
		return nil, &DerivationError{Pass: PassTimeline, MatchID: matchID, Err: err}
	}
	return events, nil
}

func (s *TimelineService) generate(ctx context.Context, matchID string) ([]domain.TimelineEvent, error) {
	in, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}

	events, err := s.synth.Build(in)
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}

	if err := s.timelineRepo.Replace(ctx, matchID, events); err != nil {
		return nil, fmt.Errorf("failed to store timeline: %w", err)
	}

	key := 0
	for _, ev := range events {
		if ev.Importance >= constants.KeyMomentImportance {
			key++
		}
	}
	s.logger.Info().
		Str("match_id", matchID).
		Int("events", len(events)).
		Int("key_moments", key).
		Msg("timeline generated")
	return events, nil
}

func (s *TimelineService) load(ctx context.Context, matchID string) (analytics.TimelineInput, error) {
	in := analytics.TimelineInput{MatchID: matchID}

	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return in, err
	}
	in.Start = match.StartTime

	if in.Players, err = s.playerRepo.ListPlayers(ctx, matchID); err != nil {
		return in, err
	}
	if in.Combat, err = s.eventRepo.ListCombat(ctx, matchID); err != nil {
		return in, err
	}
	if in.Rewards, err = s.eventRepo.ListRewards(ctx, matchID); err != nil {
		return in, err
	}
	if in.Items, err = s.eventRepo.ListItems(ctx, matchID); err != nil {
		return in, err
	}
	if in.PlayerEvents, err = s.eventRepo.ListPlayerEvents(ctx, matchID); err != nil {
		return in, err
	}
	return in, nil
}
