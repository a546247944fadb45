package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"smite-parser/internal/constants"
	"smite-parser/internal/domain"
	"smite-parser/internal/ingest"
)

func (b *build) kills() {
	h := b.s.Heuristics
	for i, k := range b.ix.Kills() {
		assists := b.ix.Assists(k, h.AssistWindow, h.AssistMinDamage)
		desc := fmt.Sprintf("%s killed %s", k.Killer, k.Victim)
		var others *string
		if len(assists) > 0 {
			desc += " (assisted by " + strings.Join(assists, ", ") + ")"
			others = strPtr(strings.Join(assists, ","))
		}

		b.emit(domain.TimelineEvent{
			EventTime:     k.Time,
			EventType:     "PlayerKill",
			EventCategory: CategoryKill,
			Importance:    7,
			Description:   desc,
			EntityName:    strPtr(k.Killer),
			TargetName:    strPtr(k.Victim),
			TeamID:        b.ix.Team(k.Killer),
			OtherEntities: others,
			LocationX:     k.X,
			LocationY:     k.Y,
			EventDetails:  details(map[string]any{"ability": k.Ability, "assists": assists}),
		})

		if i == 0 {
			b.emit(domain.TimelineEvent{
				EventTime:     k.Time,
				EventType:     "FirstBlood",
				EventCategory: CategoryMilestone,
				Importance:    8,
				Description:   fmt.Sprintf("First blood: %s killed %s", k.Killer, k.Victim),
				EntityName:    strPtr(k.Killer),
				TargetName:    strPtr(k.Victim),
				TeamID:        b.ix.Team(k.Killer),
				LocationX:     k.X,
				LocationY:     k.Y,
			})
		}
	}
}

type objectiveKey struct {
	t      time.Time
	target string
}

func (b *build) objectives() {
	seen := make(map[objectiveKey]bool)
	for _, e := range b.ix.OfType("Kill", "KillingBlow") {
		target := deref(e.TargetEntity)
		rule, ok := ingest.MatchObjective(target)
		if !ok {
			continue
		}
		key := objectiveKey{e.EventTime, target}
		if seen[key] {
			continue
		}
		seen[key] = true

		verb := "killed"
		eventType := strings.ReplaceAll(rule.Label, " ", "") + "Kill"
		if rule.Kind == "Structure" {
			verb = "destroyed"
			eventType = rule.Label + "Destroyed"
		}
		src := deref(e.SourceEntity)

		b.emit(domain.TimelineEvent{
			EventTime:     e.EventTime,
			Timestamp:     e.Timestamp,
			EventType:     eventType,
			EventCategory: CategoryObjective,
			Importance:    rule.Importance,
			Description:   fmt.Sprintf("%s %s %s", src, verb, target),
			EntityName:    e.SourceEntity,
			TargetName:    e.TargetEntity,
			TeamID:        b.ix.Team(src),
			LocationX:     e.LocationX,
			LocationY:     e.LocationY,
			EventDetails:  details(map[string]any{"objective": rule.Label, "kind": rule.Kind}),
		})
	}

	for _, r := range b.in.Rewards {
		if !isObjectiveReward(r.EventType) {
			continue
		}
		entity := deref(r.EntityName)
		desc := entity + " completed an objective"
		if r.EventText != nil {
			desc = *r.EventText
		}
		b.emit(domain.TimelineEvent{
			EventTime:     r.EventTime,
			Timestamp:     r.Timestamp,
			EventType:     "ObjectiveComplete",
			EventCategory: CategoryObjective,
			Importance:    7,
			Description:   desc,
			EntityName:    r.EntityName,
			TeamID:        b.ix.Team(entity),
			Value:         floatOf(r.RewardAmount),
			LocationX:     r.LocationX,
			LocationY:     r.LocationY,
		})
	}
}

func isObjectiveReward(eventType string) bool {
	return eventType == "ObjectiveComplete" || eventType == "Structure" ||
		strings.Contains(eventType, "Objective")
}

// purchaseThreshold is the cost a purchase must exceed to count as major,
// given how many items the player bought before it.
func purchaseThreshold(prior int) int {
	switch {
	case prior < constants.MidStagePurchases:
		return constants.EarlyPurchaseCost
	case prior < constants.LateStagePurchases:
		return constants.MidPurchaseCost
	default:
		return constants.LatePurchaseCost
	}
}

func isPurchase(e domain.ItemEvent) bool {
	return e.EventType == "ItemPurchase"
}

func (b *build) economy() {
	prior := make(map[string]int)
	for _, e := range b.in.Items {
		if !isPurchase(e) {
			continue
		}
		player := deref(e.PlayerName)
		threshold := purchaseThreshold(prior[player])
		prior[player]++

		cost := derefInt(e.Cost)
		if cost <= threshold {
			continue
		}
		b.emit(domain.TimelineEvent{
			EventTime:     e.EventTime,
			Timestamp:     e.Timestamp,
			EventType:     "MajorPurchase",
			EventCategory: CategoryEconomy,
			Importance:    ScaleImportance(cost, threshold, 500, 3, 6),
			Description:   fmt.Sprintf("%s purchased %s (%d gold)", player, deref(e.ItemName), cost),
			EntityName:    e.PlayerName,
			TeamID:        b.ix.Team(player),
			Value:         floatOf(e.Cost),
			LocationX:     e.LocationX,
			LocationY:     e.LocationY,
			EventDetails:  details(map[string]any{"item": e.ItemName, "item_id": e.ItemID, "purchase_number": prior[player]}),
		})
	}

	for _, r := range b.in.Rewards {
		amount := derefInt(r.RewardAmount)
		if ClassifyReward(r) != RewardGold || amount < constants.GoldRewardThreshold {
			continue
		}
		entity := deref(r.EntityName)
		b.emit(domain.TimelineEvent{
			EventTime:     r.EventTime,
			Timestamp:     r.Timestamp,
			EventType:     "GoldReward",
			EventCategory: CategoryEconomy,
			Importance:    ScaleImportance(amount, constants.GoldRewardThreshold, 200, 3, 6),
			Description:   fmt.Sprintf("%s earned %d gold", entity, amount),
			EntityName:    r.EntityName,
			TeamID:        b.ix.Team(entity),
			Value:         floatOf(r.RewardAmount),
			LocationX:     r.LocationX,
			LocationY:     r.LocationY,
		})
	}
}

func (b *build) combat() {
	for _, e := range b.ix.Combat() {
		src, tgt := deref(e.SourceEntity), deref(e.TargetEntity)
		if !b.ix.IsPlayer(src) || !b.ix.IsPlayer(tgt) {
			continue
		}
		amount := derefInt(e.DamageAmount)

		var (
			eventType string
			threshold int
		)
		switch e.EventType {
		case "Damage":
			if src == tgt || b.ix.SameTeam(src, tgt) {
				continue
			}
			eventType, threshold = "HighDamage", constants.HighDamageThreshold
		case "Healing", "Heal":
			if src != tgt && !b.ix.SameTeam(src, tgt) {
				continue
			}
			eventType, threshold = "BigHeal", constants.BigHealThreshold
		default:
			continue
		}
		if amount < threshold {
			continue
		}

		b.emit(domain.TimelineEvent{
			EventTime:     e.EventTime,
			Timestamp:     e.Timestamp,
			EventType:     eventType,
			EventCategory: CategoryCombat,
			Importance:    ScaleImportance(amount, threshold, 200, 4, 6),
			Description:   describeCombat(e),
			EntityName:    e.SourceEntity,
			TargetName:    e.TargetEntity,
			TeamID:        b.ix.Team(src),
			Value:         floatOf(e.DamageAmount),
			LocationX:     e.LocationX,
			LocationY:     e.LocationY,
			EventDetails:  details(map[string]any{"ability": e.AbilityName, "mitigated": e.DamageMitigated}),
		})
	}
}

func (b *build) teamFights() {
	for _, f := range DetectTeamFights(b.ix, b.s.Heuristics) {
		b.emit(domain.TimelineEvent{
			EventTime:     f.Start,
			EventType:     "TeamFight",
			EventCategory: CategoryTeamFight,
			Importance:    f.Importance,
			Description: fmt.Sprintf("Team fight: %d players, %d kills over %ds",
				len(f.Participants), f.Kills, int(f.End.Sub(f.Start)/time.Second)),
			Value:         floatOf(&f.Kills),
			OtherEntities: strPtr(strings.Join(f.Participants, ",")),
			EventDetails: details(map[string]any{
				"start":        f.Start,
				"end":          f.End,
				"participants": f.Participants,
				"per_team":     f.PerTeam,
				"kills":        f.Kills,
				"events":       f.Events,
			}),
		})
	}
}

var (
	levelPattern  = regexp.MustCompile(`(?i)level\D{0,12}(\d{1,2})`)
	levelMarks    = map[int]int{5: 3, 10: 4, 15: 5, 20: 6}
	levelFallback = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// parseLevel reads a level number from free text.
func parseLevel(text string) (int, bool) {
	if m := levelPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	if m := levelFallback.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	return 0, false
}

type levelUp struct {
	t      time.Time
	ts     *time.Time
	player string
	text   string
	x, y   *float64
}

func (b *build) levelUps() []levelUp {
	var out []levelUp
	for _, e := range b.in.PlayerEvents {
		if strings.Contains(strings.ToLower(e.EventType), "level") {
			out = append(out, levelUp{e.EventTime, e.Timestamp, deref(e.PlayerName), deref(e.EventText), e.LocationX, e.LocationY})
		}
	}
	for _, r := range b.in.Rewards {
		if strings.Contains(strings.ToLower(r.EventType), "level") {
			out = append(out, levelUp{r.EventTime, r.Timestamp, deref(r.EntityName), deref(r.EventText), r.LocationX, r.LocationY})
		}
	}
	return out
}

func (b *build) milestones() {
	firstMajor := make(map[string]bool)
	for _, e := range b.in.Items {
		player := deref(e.PlayerName)
		cost := derefInt(e.Cost)
		if !isPurchase(e) || player == "" || firstMajor[player] || cost <= constants.FirstMajorItemCost {
			continue
		}
		firstMajor[player] = true
		b.emit(domain.TimelineEvent{
			EventTime:     e.EventTime,
			Timestamp:     e.Timestamp,
			EventType:     "FirstMajorItem",
			EventCategory: CategoryMilestone,
			Importance:    4,
			Description:   fmt.Sprintf("%s completed first major item: %s", player, deref(e.ItemName)),
			EntityName:    e.PlayerName,
			TeamID:        b.ix.Team(player),
			Value:         floatOf(e.Cost),
			LocationX:     e.LocationX,
			LocationY:     e.LocationY,
		})
	}

	levels := make(map[string]int)
	reached := make(map[string]map[int]bool)
	for _, l := range b.levelUps() {
		if l.player == "" {
			continue
		}
		level, ok := parseLevel(l.text)
		if !ok {
			level = levels[l.player] + 1
		}
		levels[l.player] = level

		importance, mark := levelMarks[level]
		if !mark || reached[l.player][level] {
			continue
		}
		if reached[l.player] == nil {
			reached[l.player] = make(map[int]bool)
		}
		reached[l.player][level] = true

		b.emit(domain.TimelineEvent{
			EventTime:     l.t,
			Timestamp:     l.ts,
			EventType:     "LevelMilestone",
			EventCategory: CategoryMilestone,
			Importance:    importance,
			Description:   fmt.Sprintf("%s reached level %d", l.player, level),
			EntityName:    strPtr(l.player),
			TeamID:        b.ix.Team(l.player),
			Value:         floatOf(&level),
			LocationX:     l.x,
			LocationY:     l.y,
		})
	}

	streakStart := make(map[int]string)
	for _, s := range Streaks(b.ix.Deaths()) {
		d := s.Death
		switch s.Kind {
		case StreakReached:
			id := b.emit(domain.TimelineEvent{
				EventTime:     d.Time,
				EventType:     "KillStreak",
				EventCategory: CategoryMilestone,
				Importance:    s.Importance,
				Description:   fmt.Sprintf("%s is on a %d kill streak", s.Player, s.Count),
				EntityName:    strPtr(s.Player),
				TargetName:    strPtr(s.Victim),
				TeamID:        b.ix.Team(s.Player),
				Value:         floatOf(&s.Count),
				LocationX:     d.X,
				LocationY:     d.Y,
			})
			if _, ok := streakStart[s.StartOrdinal]; !ok {
				streakStart[s.StartOrdinal] = id
			}
		case StreakEnded:
			var related *string
			if id, ok := streakStart[s.StartOrdinal]; ok {
				related = strPtr(id)
			}
			b.emit(domain.TimelineEvent{
				EventTime:      d.Time,
				EventType:      "StreakEnded",
				EventCategory:  CategoryMilestone,
				Importance:     s.Importance,
				Description:    fmt.Sprintf("%s ended %s's %d kill streak", s.Player, s.Victim, s.Count),
				EntityName:     strPtr(s.Player),
				TargetName:     strPtr(s.Victim),
				TeamID:         b.ix.Team(s.Player),
				Value:          floatOf(&s.Count),
				RelatedEventID: related,
				LocationX:      d.X,
				LocationY:      d.Y,
			})
		}
	}
}
