package ingest

import (
	"strings"
	"time"

	"smite-parser/internal/logparse"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type PlayerInfo struct {
	Name    string
	TeamID  *int
	Role    *string
	GodName *string
	GodID   *int
}

// Metadata is everything the first pass over a log learns about the match.
type Metadata struct {
	MatchID   string
	MapName   *string
	GameType  *string
	StartTime *time.Time
	EndTime   *time.Time

	Players  []*PlayerInfo // first-seen order
	Entities []string      // first-seen order

	players map[string]*PlayerInfo
}

func (m *Metadata) IsPlayer(name string) bool {
	_, ok := m.players[name]
	return ok
}

func (m *Metadata) Player(name string) (*PlayerInfo, bool) {
	p, ok := m.players[name]
	return p, ok
}

func (m *Metadata) PlayerNames() []string {
	names := make([]string, len(m.Players))
	for i, p := range m.Players {
		names[i] = p.Name
	}
	return names
}

// Duration is zero when the log carried no parseable timestamps.
func (m *Metadata) Duration() time.Duration {
	if m.StartTime == nil || m.EndTime == nil {
		return 0
	}
	return m.EndTime.Sub(*m.StartTime)
}

func (m *Metadata) addPlayer(name string) *PlayerInfo {
	if p, ok := m.players[name]; ok {
		return p
	}
	p := &PlayerInfo{Name: name}
	m.players[name] = p
	m.Players = append(m.Players, p)
	return p
}

var (
	mapIndicators  = []string{"conquest", "joust", "arena", "assault", "clash", "siege"}
	modeIndicators = []string{"casual", "ranked", "custom", "tutorial", "practice"}
)

// CollectMetadata makes one forward pass over the decoded records.
func CollectMetadata(records []logparse.Record, sourceName string, logger zerolog.Logger) *Metadata {
	md := &Metadata{players: make(map[string]*PlayerInfo)}
	seenEntity := make(map[string]bool)
	title := cases.Title(language.English)

	var textMap, textMode string

	for _, rec := range records {
		eventType := rec.EventType()
		subtype := rec.Type()

		if eventType == "start" && md.MatchID == "" {
			md.MatchID = rec.String("matchID", "matchid")
		}

		if md.MapName == nil {
			if v := rec.String("mapname", "map"); v != "" {
				md.MapName = &v
			}
		}
		if md.GameType == nil {
			if v := rec.String("gametype", "gamemode", "gameType"); v != "" {
				md.GameType = &v
			}
		}

		if t, ok := ParseTimestamp(rec.String("time")); ok {
			if md.StartTime == nil || t.Before(*md.StartTime) {
				md.StartTime = ptr(t)
			}
			if md.EndTime == nil || t.After(*md.EndTime) {
				md.EndTime = ptr(t)
			}
		}

		source := rec.String("sourceowner")

		if eventType == "playermsg" && source != "" {
			switch subtype {
			case "RoleAssigned":
				collectRole(md, rec, source, logger)
			case "GodPicked":
				p := md.addPlayer(source)
				if p.GodName == nil {
					if god := rec.String("itemname"); god != "" {
						p.GodName = &god
					}
					p.GodID = coerceField(rec, "itemid")
				}
			}
		}

		switch {
		case source == "":
		case eventType == "playermsg":
			md.addPlayer(source)
		case subtype == "Kill" || subtype == "ItemPurchase" || strings.Contains(source, "Player"):
			if playerLike(source) {
				md.addPlayer(source)
			}
		}

		for _, name := range []string{source, rec.String("targetowner")} {
			if name != "" && !seenEntity[name] {
				seenEntity[name] = true
				md.Entities = append(md.Entities, name)
			}
		}

		if textMap == "" || textMode == "" {
			text := strings.ToLower(rec.String("text"))
			if text != "" {
				if textMap == "" {
					textMap = firstIndicator(text, mapIndicators)
				}
				if textMode == "" {
					textMode = firstIndicator(text, modeIndicators)
				}
			}
		}
	}

	if md.MatchID == "" {
		md.MatchID = "match-" + sourceName
		logger.Warn().Str("match_id", md.MatchID).Msg("no start record, using fallback match id")
	}
	if md.MapName == nil && textMap != "" {
		md.MapName = ptr(title.String(textMap))
	}
	if md.GameType == nil && textMode != "" {
		md.GameType = ptr(title.String(textMode))
	}

	logger.Info().
		Str("match_id", md.MatchID).
		Int("players", len(md.Players)).
		Int("entities", len(md.Entities)).
		Msg("collected match metadata")

	return md
}

func collectRole(md *Metadata, rec logparse.Record, source string, logger zerolog.Logger) {
	role := rec.String("itemname")
	if role == "" {
		return
	}
	role = strings.TrimPrefix(role, "E")

	var team *int
	if t := coerceField(rec, "value1"); t != nil {
		if *t == 1 || *t == 2 {
			team = t
		} else {
			logger.Warn().Str("player", source).Int("team_id", *t).Msg("ignoring invalid team id")
		}
	}

	p := md.addPlayer(source)
	if p.Role == nil {
		p.Role = &role
	}
	switch {
	case team == nil:
	case p.TeamID == nil:
		p.TeamID = team
	case *p.TeamID != *team:
		logger.Warn().
			Str("player", source).
			Int("team_id", *p.TeamID).
			Int("conflicting_team_id", *team).
			Msg("conflicting team assignment, keeping first")
	}
}

func firstIndicator(text string, indicators []string) string {
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			return ind
		}
	}
	return ""
}

// playerLike rejects names the entity rules place as structures, minions or
// jungle camps. Those can still own a Kill record.
func playerLike(name string) bool {
	return CategorizeEntity(name, nil) == EntityUnknown
}
