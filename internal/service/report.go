package service

import (
	"context"
	"fmt"
	"sort"

	"smite-parser/internal/constants"
	"smite-parser/internal/domain"
	"smite-parser/internal/repository"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// TeamTotals aggregates the player stats of one team. Players without a
// team are totalled under TeamID 0.
type TeamTotals struct {
	TeamID      int
	Players     int
	Kills       int
	Deaths      int
	Assists     int
	DamageDealt int
	GoldEarned  int
}

type MatchDetail struct {
	Match    domain.Match
	Players  []domain.Player
	Stats    []domain.PlayerStat
	Teams    []TeamTotals
	Counts   repository.EventCounts
	Entities map[string]int // entity type -> count
}

type ItemPurchase struct {
	Time     string
	ItemName string
	Cost     *int
}

// PlayerBuild is one player's purchases in the order they were made.
type PlayerBuild struct {
	PlayerName string
	Items      []ItemPurchase
	TotalCost  int
}

type ReportService struct {
	matchRepo    *repository.MatchRepository
	playerRepo   *repository.PlayerRepository
	eventRepo    *repository.EventRepository
	statsRepo    *repository.StatsRepository
	timelineRepo *repository.TimelineRepository
	logger       zerolog.Logger
}

func NewReportService(matchRepo *repository.MatchRepository, playerRepo *repository.PlayerRepository, eventRepo *repository.EventRepository, statsRepo *repository.StatsRepository, timelineRepo *repository.TimelineRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
		eventRepo:    eventRepo,
		statsRepo:    statsRepo,
		timelineRepo: timelineRepo,
		logger:       logger,
	}
}

func (s *ReportService) ListMatches(ctx context.Context) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	return s.matchRepo.ListMatches(ctx)
}

func (s *ReportService) GetMatch(ctx context.Context, matchID string) (*MatchDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Debug().Str("match_id", matchID).Msg("getting match detail")

	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	detail := &MatchDetail{Match: *match}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		detail.Players, err = s.playerRepo.ListPlayers(gCtx, matchID)
		return err
	})

	g.Go(func() error {
		var err error
		detail.Stats, err = s.statsRepo.List(gCtx, matchID)
		return err
	})

	g.Go(func() error {
		var err error
		detail.Counts, err = s.eventRepo.Count(gCtx, matchID)
		return err
	})

	g.Go(func() error {
		var err error
		detail.Entities, err = s.playerRepo.EntityTypeCounts(gCtx, matchID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to load match detail")
		return nil, fmt.Errorf("failed to load match detail: %w", err)
	}

	detail.Teams = teamTotals(detail.Stats)
	return detail, nil
}

func (s *ReportService) Timeline(ctx context.Context, matchID string, f repository.TimelineFilter) ([]domain.TimelineEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if _, err := s.matchRepo.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	if f.Limit <= 0 || f.Limit > constants.TimelinePageLimit {
		f.Limit = constants.TimelinePageLimit
	}
	return s.timelineRepo.List(ctx, matchID, f)
}

// ItemBuilds groups the purchases of a match by player.
func (s *ReportService) ItemBuilds(ctx context.Context, matchID string) ([]PlayerBuild, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if _, err := s.matchRepo.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListItems(ctx, matchID)
	if err != nil {
		return nil, err
	}

	purchases := lo.Filter(events, func(e domain.ItemEvent, _ int) bool {
		return e.EventType == "ItemPurchase" && e.PlayerName != nil && e.ItemName != nil
	})

	byPlayer := make(map[string]*PlayerBuild)
	var order []string
	for _, e := range purchases {
		b, ok := byPlayer[*e.PlayerName]
		if !ok {
			b = &PlayerBuild{PlayerName: *e.PlayerName}
			byPlayer[*e.PlayerName] = b
			order = append(order, *e.PlayerName)
		}
		b.Items = append(b.Items, ItemPurchase{
			Time:     e.EventTime.UTC().Format("15:04:05"),
			ItemName: *e.ItemName,
			Cost:     e.Cost,
		})
		if e.Cost != nil {
			b.TotalCost += *e.Cost
		}
	}

	sort.Strings(order)
	builds := make([]PlayerBuild, len(order))
	for i, name := range order {
		builds[i] = *byPlayer[name]
	}
	return builds, nil
}

func teamTotals(stats []domain.PlayerStat) []TeamTotals {
	grouped := lo.GroupBy(stats, func(st domain.PlayerStat) int {
		if st.TeamID == nil {
			return 0
		}
		return *st.TeamID
	})

	teams := lo.Keys(grouped)
	sort.Ints(teams)

	totals := make([]TeamTotals, 0, len(teams))
	for _, team := range teams {
		t := TeamTotals{TeamID: team}
		for _, st := range grouped[team] {
			t.Players++
			t.Kills += st.Kills
			t.Deaths += st.Deaths
			t.Assists += st.Assists
			t.DamageDealt += st.DamageDealt
			t.GoldEarned += st.GoldEarned
		}
		totals = append(totals, t)
	}
	return totals
}
