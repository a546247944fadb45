package analytics

import (
	"fmt"
	"time"

	"smite-parser/internal/config"
	"smite-parser/internal/domain"
)

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func sp(s string) *string { return &s }
func ip(i int) *int       { return &i }

func player(name string, team int) domain.Player {
	return domain.Player{MatchID: "M1", PlayerName: name, TeamID: ip(team)}
}

func combat(sec int, typ, src, tgt string, amount int) domain.CombatEvent {
	return domain.CombatEvent{
		MatchID:      "M1",
		EventTime:    at(sec),
		EventType:    typ,
		SourceEntity: sp(src),
		TargetEntity: sp(tgt),
		DamageAmount: ip(amount),
	}
}

func counterIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("ev%03d", n), nil
	}
}

func testSynth() *Synthesizer {
	return &Synthesizer{Heuristics: config.DefaultHeuristics(), NewID: counterIDs()}
}
