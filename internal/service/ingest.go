package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"smite-parser/internal/config"
	"smite-parser/internal/constants"
	"smite-parser/internal/domain"
	"smite-parser/internal/ingest"
	"smite-parser/internal/logparse"
	"smite-parser/internal/repository"
	"smite-parser/internal/source"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LogOpener resolves a log location to a reader.
type LogOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

type Options struct {
	// Reprocess clears an existing match with the same id before parsing.
	Reprocess bool
}

// Result summarizes one ingest run.
type Result struct {
	RunID      string
	MatchID    string
	SourceFile string

	Decode  logparse.Stats
	Counts  map[string]int // persisted rows per event category
	Dropped int            // records that failed to transform

	Players        int
	Stats          int
	TimelineEvents int

	// DerivationErrors is non-empty when a derived pass failed. The raw
	// events are persisted either way.
	DerivationErrors []error
	Elapsed          time.Duration
}

func (r *Result) Degraded() bool { return len(r.DerivationErrors) > 0 }

type IngestService struct {
	cfg         *config.Config
	opener      LogOpener
	matchRepo   *repository.MatchRepository
	playerRepo  *repository.PlayerRepository
	eventRepo   *repository.EventRepository
	statsSvc    *StatsService
	timelineSvc *TimelineService
	logger      zerolog.Logger
}

func NewIngestService(
	cfg *config.Config,
	opener LogOpener,
	matchRepo *repository.MatchRepository,
	playerRepo *repository.PlayerRepository,
	eventRepo *repository.EventRepository,
	statsSvc *StatsService,
	timelineSvc *TimelineService,
	logger zerolog.Logger,
) *IngestService {
	return &IngestService{
		cfg:         cfg,
		opener:      opener,
		matchRepo:   matchRepo,
		playerRepo:  playerRepo,
		eventRepo:   eventRepo,
		statsSvc:    statsSvc,
		timelineSvc: timelineSvc,
		logger:      logger,
	}
}

// ParseFile ingests the log at path, which may be a local file or an
// http(s) URL.
func (s *IngestService) ParseFile(ctx context.Context, path string, opts Options) (*Result, error) {
	rc, err := s.opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return s.Parse(ctx, rc, path, opts)
}

// Parse runs the full pipeline over r: decode, metadata, persistence of the
// match and its events, then the stats and timeline passes.
func (s *IngestService) Parse(ctx context.Context, r io.Reader, sourceFile string, opts Options) (*Result, error) {
	started := time.Now()
	res := &Result{
		RunID:      uuid.NewString(),
		SourceFile: sourceFile,
		Counts:     make(map[string]int),
	}
	log := s.logger.With().Str("run_id", res.RunID).Logger()

	log.Info().Str("source", sourceFile).Bool("reprocess", opts.Reprocess).Msg("parsing combat log")

	records, stats, err := logparse.NewDecoder(s.cfg.SkipMalformed, log).Decode(ctx, r)
	res.Decode = stats
	if err != nil {
		return res, fmt.Errorf("failed to decode log: %w", err)
	}

	md := ingest.CollectMetadata(records, source.Name(sourceFile), log)
	pc := ingest.NewParseContext(md, sourceFile, s.cfg.SkipMalformed, log)
	res.MatchID = md.MatchID
	res.Players = len(md.Players)

	events, err := s.transform(pc, records)
	if err != nil {
		return res, err
	}

	if err := s.prepareMatch(ctx, pc, opts); err != nil {
		return res, err
	}

	if err := s.persist(ctx, pc, events); err != nil {
		s.discard(ctx, pc)
		return res, err
	}
	res.Dropped = pc.Dropped
	for cat, n := range pc.Counts {
		res.Counts[cat.String()] = n
	}

	if err := s.matchRepo.UpdateMatchData(ctx, md.MatchID, matchData(pc, stats)); err != nil {
		pc.Logger.Warn().Err(err).Msg("failed to store match metadata blob")
	}

	s.derive(ctx, md.MatchID, res)

	res.Elapsed = time.Since(started)
	ev := pc.Logger.Info()
	if res.Degraded() {
		ev = pc.Logger.Warn()
	}
	ev.Int("records", stats.Records).
		Int("dropped", res.Dropped).
		Int("malformed", stats.Malformed).
		Int("timeline_events", res.TimelineEvents).
		Bool("degraded", res.Degraded()).
		Dur("elapsed", res.Elapsed).
		Msg("combat log parsed")

	return res, nil
}

// Regenerate re-runs both derivation passes for a stored match.
func (s *IngestService) Regenerate(ctx context.Context, matchID string) (*Result, error) {
	started := time.Now()
	ok, err := s.matchRepo.Exists(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("failed to regenerate match %s: %w", matchID, repository.ErrNotFound)
	}

	players, err := s.playerRepo.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), MatchID: matchID, Players: len(players), Counts: make(map[string]int)}
	s.derive(ctx, matchID, res)
	res.Elapsed = time.Since(started)

	s.logger.Info().
		Str("run_id", res.RunID).
		Str("match_id", matchID).
		Bool("degraded", res.Degraded()).
		Msg("derived data regenerated")
	return res, nil
}

func (s *IngestService) transform(pc *ingest.ParseContext, records []logparse.Record) ([]ingest.Event, error) {
	events := make([]ingest.Event, 0, len(records))
	for i, rec := range records {
		ev, err := ingest.Transform(rec)
		if err != nil {
			var te *ingest.TransformError
			if errors.As(err, &te) {
				te.Line = i + 1
			}
			if !pc.SkipMalformed {
				return nil, fmt.Errorf("failed to transform record: %w", err)
			}
			pc.Dropped++
			pc.Logger.Warn().Err(err).Msg("dropping record")
			continue
		}
		if ev != nil {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (s *IngestService) prepareMatch(ctx context.Context, pc *ingest.ParseContext, opts Options) error {
	md := pc.Metadata

	exists, err := s.matchRepo.Exists(ctx, md.MatchID)
	if err != nil {
		return err
	}
	if exists {
		if !opts.Reprocess {
			return fmt.Errorf("%w: %s", ErrMatchExists, md.MatchID)
		}
		pc.Logger.Info().Msg("clearing existing match for reprocess")
		if err := s.matchRepo.Clear(ctx, md.MatchID); err != nil {
			return err
		}
	}

	match := &domain.Match{
		MatchID:    md.MatchID,
		SourceFile: pc.SourceFile,
		MapName:    md.MapName,
		GameType:   md.GameType,
		StartTime:  md.StartTime,
		EndTime:    md.EndTime,
	}
	if md.StartTime != nil && md.EndTime != nil {
		secs := int(md.Duration().Seconds())
		match.DurationSeconds = &secs
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return err
	}

	return nil
}

func (s *IngestService) persist(ctx context.Context, pc *ingest.ParseContext, events []ingest.Event) error {
	if err := s.playerRepo.InsertCatalog(ctx, pc.MatchID, buildCatalog(pc.Metadata, events)); err != nil {
		return err
	}

	size := s.cfg.BatchSize
	if size <= 0 {
		size = constants.DefaultBatchSize
	}
	combatW := s.eventRepo.CombatWriter(pc.MatchID, size)
	rewardW := s.eventRepo.RewardWriter(pc.MatchID, size)
	itemW := s.eventRepo.ItemWriter(pc.MatchID, size)
	playerW := s.eventRepo.PlayerWriter(pc.MatchID, size)

	for _, ev := range events {
		var err error
		switch e := ev.(type) {
		case ingest.CombatRecord:
			err = combatW.Add(ctx, e.CombatEvent)
		case ingest.RewardRecord:
			err = rewardW.Add(ctx, e.RewardEvent)
		case ingest.ItemRecord:
			err = itemW.Add(ctx, e.ItemEvent)
		case ingest.PlayerRecord:
			err = playerW.Add(ctx, e.PlayerEvent)
		}
		if err != nil {
			return err
		}
	}

	for _, closer := range []func(context.Context) error{combatW.Close, rewardW.Close, itemW.Close, playerW.Close} {
		if err := closer(ctx); err != nil {
			return err
		}
	}

	pc.Counts[ingest.CategoryCombat] = combatW.Written()
	pc.Counts[ingest.CategoryReward] = rewardW.Written()
	pc.Counts[ingest.CategoryItem] = itemW.Written()
	pc.Counts[ingest.CategoryPlayer] = playerW.Written()
	return nil
}

// discard drops a match whose persistence failed part way so a later parse
// starts from an empty store.
func (s *IngestService) discard(ctx context.Context, pc *ingest.ParseContext) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
	defer cancel()

	if err := s.matchRepo.Clear(ctx, pc.MatchID); err != nil {
		pc.Logger.Error().Err(err).Msg("failed to discard partially persisted match")
		return
	}
	pc.Logger.Warn().Msg("discarded partially persisted match")
}

// derive runs the stats pass then the timeline pass. A failed pass is
// recorded on the result and does not stop the other.
func (s *IngestService) derive(ctx context.Context, matchID string, res *Result) {
	stats, err := s.statsSvc.Generate(ctx, matchID)
	if err != nil {
		res.DerivationErrors = append(res.DerivationErrors, err)
	}
	res.Stats = len(stats)

	timeline, err := s.timelineSvc.Generate(ctx, matchID)
	if err != nil {
		res.DerivationErrors = append(res.DerivationErrors, err)
	}
	res.TimelineEvents = len(timeline)
}

func buildCatalog(md *ingest.Metadata, events []ingest.Event) repository.Catalog {
	var c repository.Catalog

	for _, p := range md.Players {
		c.Players = append(c.Players, domain.Player{
			MatchID:    md.MatchID,
			PlayerName: p.Name,
			TeamID:     p.TeamID,
			Role:       p.Role,
			GodID:      p.GodID,
			GodName:    p.GodName,
		})
	}

	for _, name := range md.Entities {
		e := domain.Entity{
			MatchID:    md.MatchID,
			EntityName: name,
			EntityType: ingest.CategorizeEntity(name, md.IsPlayer),
		}
		if p, ok := md.Player(name); ok {
			e.TeamID = p.TeamID
		}
		c.Entities = append(c.Entities, e)
	}

	seenItem := make(map[string]bool)
	seenAbility := make(map[string]bool)
	for _, ev := range events {
		switch e := ev.(type) {
		case ingest.ItemRecord:
			if e.ItemName == nil || *e.ItemName == "" || seenItem[*e.ItemName] {
				continue
			}
			seenItem[*e.ItemName] = true
			c.Items = append(c.Items, domain.Item{
				MatchID:  md.MatchID,
				ItemID:   e.ItemID,
				ItemName: *e.ItemName,
				ItemType: ingest.ItemType(*e.ItemName),
			})
		case ingest.CombatRecord:
			if e.AbilityName == nil || *e.AbilityName == "" || seenAbility[*e.AbilityName] {
				continue
			}
			seenAbility[*e.AbilityName] = true
			c.Abilities = append(c.Abilities, domain.Ability{
				MatchID:       md.MatchID,
				AbilityName:   *e.AbilityName,
				AbilitySource: e.SourceEntity,
				AbilityType:   ingest.AbilityType(*e.AbilityName),
			})
		}
	}

	return c
}

type matchSummary struct {
	Players        int            `json:"player_count"`
	Entities       int            `json:"entity_count"`
	Events         map[string]int `json:"event_counts"`
	Lines          int            `json:"lines"`
	SkippedLines   int            `json:"skipped_lines"`
	MalformedLines int            `json:"malformed_lines"`
	Dropped        int            `json:"dropped_records"`
}

func matchData(pc *ingest.ParseContext, stats logparse.Stats) string {
	summary := matchSummary{
		Players:        len(pc.Metadata.Players),
		Entities:       len(pc.Metadata.Entities),
		Events:         make(map[string]int, len(pc.Counts)),
		Lines:          stats.Lines,
		SkippedLines:   stats.Skipped,
		MalformedLines: stats.Malformed,
		Dropped:        pc.Dropped,
	}
	for cat, n := range pc.Counts {
		summary.Events[cat.String()] = n
	}
	b, _ := json.Marshal(summary)
	return string(b)
}
