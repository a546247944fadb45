package analytics

import (
	"sort"
	"time"

	"smite-parser/internal/domain"

	"github.com/samber/lo"
)

// Death is one de-duplicated Kill/KillingBlow on a known player.
type Death struct {
	Time    time.Time
	Killer  string
	Victim  string
	Ability *string
	X, Y    *float64
	// PvP is set when the killer is another known player.
	PvP bool
}

type deathKey struct {
	t      time.Time
	target string
}

// Index is built once per derivation pass from the persisted rows of a
// match and answers the per-player lookups the passes need.
type Index struct {
	players map[string]*int
	names   []string

	combat []domain.CombatEvent
	byType map[string][]int

	// damage rows from a known player onto a known player, keyed by target
	damageOn map[string][]int

	deaths []Death
}

func NewIndex(players []domain.Player, combat []domain.CombatEvent) *Index {
	ix := &Index{
		players:  make(map[string]*int, len(players)),
		byType:   make(map[string][]int),
		damageOn: make(map[string][]int),
	}
	for _, p := range players {
		if _, ok := ix.players[p.PlayerName]; ok {
			continue
		}
		ix.players[p.PlayerName] = p.TeamID
		ix.names = append(ix.names, p.PlayerName)
	}

	ix.combat = make([]domain.CombatEvent, len(combat))
	copy(ix.combat, combat)
	sort.SliceStable(ix.combat, func(i, j int) bool {
		return ix.combat[i].EventTime.Before(ix.combat[j].EventTime)
	})

	seen := make(map[deathKey]bool)
	for i, e := range ix.combat {
		ix.byType[e.EventType] = append(ix.byType[e.EventType], i)

		src, tgt := deref(e.SourceEntity), deref(e.TargetEntity)
		switch e.EventType {
		case "Damage":
			if ix.IsPlayer(src) && ix.IsPlayer(tgt) && src != tgt {
				ix.damageOn[tgt] = append(ix.damageOn[tgt], i)
			}
		case "Kill", "KillingBlow":
			if !ix.IsPlayer(tgt) {
				continue
			}
			key := deathKey{e.EventTime, tgt}
			if seen[key] {
				continue
			}
			seen[key] = true
			ix.deaths = append(ix.deaths, Death{
				Time:    e.EventTime,
				Killer:  src,
				Victim:  tgt,
				Ability: e.AbilityName,
				X:       e.LocationX,
				Y:       e.LocationY,
				PvP:     ix.IsPlayer(src) && src != tgt,
			})
		}
	}
	return ix
}

func (ix *Index) IsPlayer(name string) bool {
	if name == "" {
		return false
	}
	_, ok := ix.players[name]
	return ok
}

// Team returns the player's team id, nil when unknown.
func (ix *Index) Team(name string) *int {
	return ix.players[name]
}

func (ix *Index) SameTeam(a, b string) bool {
	ta, tb := ix.Team(a), ix.Team(b)
	return ta != nil && tb != nil && *ta == *tb
}

// Players returns the known player names in insertion order.
func (ix *Index) Players() []string { return ix.names }

// Combat returns all combat rows in chronological order.
func (ix *Index) Combat() []domain.CombatEvent { return ix.combat }

// OfType returns the combat rows of one event type in chronological order.
func (ix *Index) OfType(types ...string) []domain.CombatEvent {
	var idx []int
	for _, t := range types {
		idx = append(idx, ix.byType[t]...)
	}
	sort.Ints(idx)
	out := make([]domain.CombatEvent, len(idx))
	for i, n := range idx {
		out[i] = ix.combat[n]
	}
	return out
}

// Deaths returns every player death, including those to towers and minions.
func (ix *Index) Deaths() []Death { return ix.deaths }

// Kills returns the player-vs-player deaths.
func (ix *Index) Kills() []Death {
	return lo.Filter(ix.deaths, func(d Death, _ int) bool { return d.PvP })
}

// Assists lists the players other than killer and victim whose damage on
// the victim within [t-window, t] adds up to at least minDamage.
func (ix *Index) Assists(k Death, window time.Duration, minDamage int) []string {
	from := k.Time.Add(-window)
	dealt := make(map[string]int)
	var order []string

	for _, i := range ix.damageOn[k.Victim] {
		e := ix.combat[i]
		if e.EventTime.Before(from) || e.EventTime.After(k.Time) {
			continue
		}
		src := deref(e.SourceEntity)
		if src == k.Killer || src == k.Victim {
			continue
		}
		if _, ok := dealt[src]; !ok {
			order = append(order, src)
		}
		dealt[src] += derefInt(e.DamageAmount)
	}

	var out []string
	for _, name := range order {
		if dealt[name] >= minDamage {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
