package ingest

import "strings"

const (
	EntityPlayer    = "player"
	EntityObjective = "objective"
	EntityMinion    = "minion"
	EntityJungle    = "jungle"
	EntityUnknown   = "unknown"
)

type keywordRule struct {
	Category string
	Keywords []string
}

// Evaluated in order, first match wins.
var entityRules = []keywordRule{
	{EntityObjective, []string{"tower", "phoenix", "titan"}},
	{EntityMinion, []string{"archer", "brute", "swordsman", "champion"}},
	{EntityJungle, []string{
		"fury", "pyromancer", "harpy", "satyr", "cyclops", "chimera",
		"manticore", "centaur", "naga", "minotaur", "scorpion",
	}},
}

// CategorizeEntity classifies a name seen as a source or target owner.
func CategorizeEntity(name string, isPlayer func(string) bool) string {
	if isPlayer != nil && isPlayer(name) {
		return EntityPlayer
	}
	lower := strings.ToLower(name)
	for _, rule := range entityRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return EntityUnknown
}

// ObjectiveRule maps a target name keyword to an objective kind and the
// importance of taking it.
type ObjectiveRule struct {
	Keyword    string
	Kind       string
	Label      string
	Importance int
}

var structureRules = []ObjectiveRule{
	{Keyword: "titan", Kind: "Structure", Label: "Titan", Importance: 10},
	{Keyword: "phoenix", Kind: "Structure", Label: "Phoenix", Importance: 8},
	{Keyword: "tower", Kind: "Structure", Label: "Tower", Importance: 6},
}

var bossRules = []ObjectiveRule{
	{Keyword: "fire giant", Kind: "Boss", Label: "Fire Giant", Importance: 9},
	{Keyword: "gold fury", Kind: "Boss", Label: "Gold Fury", Importance: 8},
	{Keyword: "pyromancer", Kind: "Boss", Label: "Pyromancer", Importance: 7},
}

func matchObjective(rules []ObjectiveRule, name string) (ObjectiveRule, bool) {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if strings.Contains(lower, r.Keyword) {
			return r, true
		}
	}
	return ObjectiveRule{}, false
}

// MatchStructure reports whether name is a tower, phoenix or titan.
func MatchStructure(name string) (ObjectiveRule, bool) {
	return matchObjective(structureRules, name)
}

// MatchBoss reports whether name is a boss monster.
func MatchBoss(name string) (ObjectiveRule, bool) {
	return matchObjective(bossRules, name)
}

// MatchObjective checks structures first, then bosses.
func MatchObjective(name string) (ObjectiveRule, bool) {
	if r, ok := MatchStructure(name); ok {
		return r, true
	}
	return MatchBoss(name)
}

const (
	ItemConsumable = "consumable"
	ItemRelic      = "relic"
	ItemStarter    = "starter"
	ItemDefault    = "item"
)

var itemRules = []keywordRule{
	{ItemConsumable, []string{"potion", "elixir", "ward", "chalice", "consumable"}},
	{ItemRelic, []string{"relic", "beads", "aegis", "blink", "sprint", "shell", "horrific", "teleport"}},
	{ItemStarter, []string{"starter", "bumba", "mark of the vanguard", "leather cowl", "death's toll", "conduit gem", "warrior's axe", "sands of time", "bluestone", "manikin", "vampiric shroud", "gilded arrow", "war flag", "eye of the jungle", "sentinel's gift", "archmage's gem", "hunter's cowl", "tainted amulet", "gauntlet of thebes", "diamond arrow", "protector of the jungle", "bounty", "blood-soaked shroud", "spartan flag"}},
}

// ItemType classifies a purchased item by name.
func ItemType(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range itemRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return ItemDefault
}

const (
	AbilityBasic   = "basic"
	AbilityDefault = "ability"
)

var basicAttackKeywords = []string{"basic attack", "basicattack", "auto attack"}

// AbilityType separates basic attacks from god abilities.
func AbilityType(name string) string {
	lower := strings.ToLower(name)
	for _, kw := range basicAttackKeywords {
		if strings.Contains(lower, kw) {
			return AbilityBasic
		}
	}
	return AbilityDefault
}
