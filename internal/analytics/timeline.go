package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"smite-parser/internal/config"
	"smite-parser/internal/constants"
	"smite-parser/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	CategoryKill      = "Kill"
	CategoryObjective = "Objective"
	CategoryEconomy   = "Economy"
	CategoryCombat    = "Combat"
	CategoryTeamFight = "TeamFight"
	CategoryMilestone = "Milestone"
)

// TimelineInput is the persisted state of one match.
type TimelineInput struct {
	MatchID      string
	Start        *time.Time
	Players      []domain.Player
	Combat       []domain.CombatEvent
	Rewards      []domain.RewardEvent
	Items        []domain.ItemEvent
	PlayerEvents []domain.PlayerEvent
}

type Synthesizer struct {
	Heuristics config.Heuristics
	NewID      func() (string, error)
}

func NewSynthesizer(h config.Heuristics) *Synthesizer {
	return &Synthesizer{Heuristics: h, NewID: func() (string, error) { return gonanoid.New() }}
}

// build accumulates the events of one run in generator order.
type build struct {
	s      *Synthesizer
	in     TimelineInput
	ix     *Index
	events []domain.TimelineEvent
	err    error
}

func (b *build) emit(ev domain.TimelineEvent) string {
	if b.err != nil {
		return ""
	}
	id, err := b.s.NewID()
	if err != nil {
		b.err = fmt.Errorf("failed to generate timeline id: %w", err)
		return ""
	}
	ev.ID = id
	ev.MatchID = b.in.MatchID
	ev.Importance = ClampImportance(ev.Importance)
	b.events = append(b.events, ev)
	return id
}

// Build runs every generator and returns the ordered timeline.
func (s *Synthesizer) Build(in TimelineInput) ([]domain.TimelineEvent, error) {
	b := &build{s: s, in: in, ix: NewIndex(in.Players, in.Combat)}

	b.kills()
	b.objectives()
	b.economy()
	b.combat()
	b.teamFights()
	b.milestones()
	if !b.hasKeyEvents() {
		b.fallback()
	}
	if b.err != nil {
		return nil, b.err
	}

	base := matchStart(in)
	sort.SliceStable(b.events, func(i, j int) bool {
		return b.events[i].EventTime.Before(b.events[j].EventTime)
	})
	for i := range b.events {
		ev := &b.events[i]
		ev.Sequence = i
		if ev.Timestamp == nil {
			t := ev.EventTime
			ev.Timestamp = &t
		}
		if base != nil {
			ev.GameTimeSeconds = max(0, int(ev.EventTime.Sub(*base)/time.Second))
		}
	}
	return b.events, nil
}

func (b *build) hasKeyEvents() bool {
	for _, ev := range b.events {
		if ev.EventCategory == CategoryKill || ev.EventCategory == CategoryObjective {
			return true
		}
	}
	return false
}

// fallback keeps the timeline non-empty when combat happened but nothing
// notable was found.
func (b *build) fallback() {
	taken := make(map[string]int)
	for _, e := range b.ix.Combat() {
		src := deref(e.SourceEntity)
		if !b.ix.IsPlayer(src) || taken[src] >= constants.FallbackEventsPerUser {
			continue
		}
		taken[src]++
		b.emit(domain.TimelineEvent{
			EventTime:     e.EventTime,
			Timestamp:     e.Timestamp,
			EventType:     "CombatStart",
			EventCategory: CategoryCombat,
			Importance:    constants.MinImportance,
			Description:   describeCombat(e),
			EntityName:    e.SourceEntity,
			TargetName:    e.TargetEntity,
			TeamID:        b.ix.Team(src),
			Value:         floatOf(e.DamageAmount),
			LocationX:     e.LocationX,
			LocationY:     e.LocationY,
		})
	}
}

func matchStart(in TimelineInput) *time.Time {
	if in.Start != nil {
		return in.Start
	}
	var earliest *time.Time
	consider := func(t time.Time) {
		if earliest == nil || t.Before(*earliest) {
			earliest = &t
		}
	}
	for _, e := range in.Combat {
		consider(e.EventTime)
	}
	for _, e := range in.Rewards {
		consider(e.EventTime)
	}
	for _, e := range in.Items {
		consider(e.EventTime)
	}
	for _, e := range in.PlayerEvents {
		consider(e.EventTime)
	}
	return earliest
}

func describeCombat(e domain.CombatEvent) string {
	desc := fmt.Sprintf("%s %s %s", deref(e.SourceEntity), e.EventType, deref(e.TargetEntity))
	if e.AbilityName != nil {
		desc += " with " + *e.AbilityName
	}
	if e.DamageAmount != nil {
		desc += fmt.Sprintf(" (%d)", *e.DamageAmount)
	}
	return desc
}

func details(v any) *string {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

func floatOf(n *int) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

func strPtr(s string) *string { return &s }
