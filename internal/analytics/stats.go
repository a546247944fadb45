package analytics

import (
	"strings"

	"smite-parser/internal/config"
	"smite-parser/internal/domain"
	"smite-parser/internal/ingest"
)

type RewardKind int

const (
	RewardOther RewardKind = iota
	RewardGold
	RewardExperience
)

// ClassifyReward reads the reward label, falling back to the event type.
func ClassifyReward(r domain.RewardEvent) RewardKind {
	label := strings.ToLower(deref(r.SourceType))
	switch {
	case strings.Contains(label, "gold"), r.EventType == "Currency":
		return RewardGold
	case strings.Contains(label, "experience"), label == "xp", r.EventType == "Experience":
		return RewardExperience
	}
	return RewardOther
}

// ComputeStats derives one PlayerStat per known player from persisted combat
// and reward rows only.
func ComputeStats(matchID string, ix *Index, rewards []domain.RewardEvent, h config.Heuristics) []domain.PlayerStat {
	byName := make(map[string]*domain.PlayerStat, len(ix.Players()))
	out := make([]domain.PlayerStat, len(ix.Players()))
	for i, name := range ix.Players() {
		out[i] = domain.PlayerStat{MatchID: matchID, PlayerName: name, TeamID: ix.Team(name)}
		byName[name] = &out[i]
	}

	for _, k := range ix.Kills() {
		byName[k.Killer].Kills++
		byName[k.Victim].Deaths++
		for _, a := range ix.Assists(k, h.AssistWindow, h.AssistMinDamage) {
			byName[a].Assists++
		}
	}

	for _, e := range ix.Combat() {
		src, tgt := deref(e.SourceEntity), deref(e.TargetEntity)
		amount := derefInt(e.DamageAmount)

		switch e.EventType {
		case "Damage":
			if s, ok := byName[src]; ok {
				s.DamageDealt += amount
				if _, structure := ingest.MatchStructure(tgt); structure {
					s.StructureDamage += amount
				}
			}
			if s, ok := byName[tgt]; ok {
				s.DamageTaken += amount
				s.DamageMitigated += derefInt(e.DamageMitigated)
			}
		case "Healing", "Heal":
			if s, ok := byName[src]; ok && ix.IsPlayer(tgt) {
				s.HealingDone += amount
			}
		case "CrowdControl":
			if s, ok := byName[src]; ok {
				s.CCInstances++
			}
		}
	}

	for _, r := range rewards {
		kind := ClassifyReward(r)
		if kind == RewardOther {
			continue
		}
		amount := derefInt(r.RewardAmount)
		text := deref(r.EventText)
		entity := deref(r.EntityName)

		for name, s := range byName {
			if entity != name && !strings.Contains(text, name) {
				continue
			}
			if kind == RewardGold {
				s.GoldEarned += amount
			} else {
				s.ExperienceEarned += amount
			}
		}
	}

	return out
}
