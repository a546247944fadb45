package server

import (
	"encoding/json"
	"time"

	"smite-parser/internal/domain"
	"smite-parser/internal/service"
)

type matchResponse struct {
	MatchID         string          `json:"match_id"`
	SourceFile      string          `json:"source_file"`
	MapName         *string         `json:"map_name"`
	GameType        *string         `json:"game_type"`
	StartTime       *time.Time      `json:"start_time"`
	EndTime         *time.Time      `json:"end_time"`
	DurationSeconds *int            `json:"duration_seconds"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

type playerResponse struct {
	Name    string  `json:"name"`
	TeamID  *int    `json:"team_id"`
	Role    *string `json:"role"`
	GodName *string `json:"god_name"`
	GodID   *int    `json:"god_id"`
}

type statResponse struct {
	PlayerName       string `json:"player_name"`
	TeamID           *int   `json:"team_id"`
	Kills            int    `json:"kills"`
	Deaths           int    `json:"deaths"`
	Assists          int    `json:"assists"`
	DamageDealt      int    `json:"damage_dealt"`
	DamageTaken      int    `json:"damage_taken"`
	DamageMitigated  int    `json:"damage_mitigated"`
	HealingDone      int    `json:"healing_done"`
	GoldEarned       int    `json:"gold_earned"`
	ExperienceEarned int    `json:"experience_earned"`
	CCInstances      int    `json:"cc_instances"`
	StructureDamage  int    `json:"structure_damage"`
}

type teamResponse struct {
	TeamID      int `json:"team_id"`
	Players     int `json:"players"`
	Kills       int `json:"kills"`
	Deaths      int `json:"deaths"`
	Assists     int `json:"assists"`
	DamageDealt int `json:"damage_dealt"`
	GoldEarned  int `json:"gold_earned"`
}

type matchDetailResponse struct {
	Match    matchResponse    `json:"match"`
	Players  []playerResponse `json:"players"`
	Stats    []statResponse   `json:"stats"`
	Teams    []teamResponse   `json:"teams"`
	Events   map[string]int   `json:"event_counts"`
	Entities map[string]int   `json:"entity_types"`
}

type timelineEventResponse struct {
	ID              string          `json:"id"`
	GameTimeSeconds int             `json:"game_time_seconds"`
	EventType       string          `json:"event_type"`
	Category        string          `json:"category"`
	Importance      int             `json:"importance"`
	Description     string          `json:"description"`
	EntityName      *string         `json:"entity_name,omitempty"`
	TargetName      *string         `json:"target_name,omitempty"`
	TeamID          *int            `json:"team_id,omitempty"`
	Value           *float64        `json:"value,omitempty"`
	RelatedEventID  *string         `json:"related_event_id,omitempty"`
	OtherEntities   *string         `json:"other_entities,omitempty"`
	LocationX       *float64        `json:"location_x,omitempty"`
	LocationY       *float64        `json:"location_y,omitempty"`
	Details         json.RawMessage `json:"details,omitempty"`
}

type itemResponse struct {
	Time     string `json:"time"`
	ItemName string `json:"item_name"`
	Cost     *int   `json:"cost"`
}

type buildResponse struct {
	PlayerName string         `json:"player_name"`
	TotalCost  int            `json:"total_cost"`
	Items      []itemResponse `json:"items"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func rawJSON(s *string) json.RawMessage {
	if s == nil || !json.Valid([]byte(*s)) {
		return nil
	}
	return json.RawMessage(*s)
}

func toMatchResponse(m domain.Match) matchResponse {
	return matchResponse{
		MatchID:         m.MatchID,
		SourceFile:      m.SourceFile,
		MapName:         m.MapName,
		GameType:        m.GameType,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		DurationSeconds: m.DurationSeconds,
		Metadata:        rawJSON(m.MatchData),
	}
}

func toMatchDetailResponse(d *service.MatchDetail) matchDetailResponse {
	resp := matchDetailResponse{
		Match:   toMatchResponse(d.Match),
		Players: make([]playerResponse, len(d.Players)),
		Stats:   make([]statResponse, len(d.Stats)),
		Teams:   make([]teamResponse, len(d.Teams)),
		Events: map[string]int{
			"combat":   d.Counts.Combat,
			"reward":   d.Counts.Reward,
			"item":     d.Counts.Item,
			"player":   d.Counts.Player,
			"timeline": d.Counts.Timeline,
		},
		Entities: d.Entities,
	}
	if resp.Entities == nil {
		resp.Entities = map[string]int{}
	}

	for i, p := range d.Players {
		resp.Players[i] = playerResponse{
			Name:    p.PlayerName,
			TeamID:  p.TeamID,
			Role:    p.Role,
			GodName: p.GodName,
			GodID:   p.GodID,
		}
	}
	for i, st := range d.Stats {
		resp.Stats[i] = statResponse{
			PlayerName:       st.PlayerName,
			TeamID:           st.TeamID,
			Kills:            st.Kills,
			Deaths:           st.Deaths,
			Assists:          st.Assists,
			DamageDealt:      st.DamageDealt,
			DamageTaken:      st.DamageTaken,
			DamageMitigated:  st.DamageMitigated,
			HealingDone:      st.HealingDone,
			GoldEarned:       st.GoldEarned,
			ExperienceEarned: st.ExperienceEarned,
			CCInstances:      st.CCInstances,
			StructureDamage:  st.StructureDamage,
		}
	}
	for i, t := range d.Teams {
		resp.Teams[i] = teamResponse(t)
	}
	return resp
}

func toTimelineResponse(events []domain.TimelineEvent) []timelineEventResponse {
	out := make([]timelineEventResponse, len(events))
	for i, e := range events {
		out[i] = timelineEventResponse{
			ID:              e.ID,
			GameTimeSeconds: e.GameTimeSeconds,
			EventType:       e.EventType,
			Category:        e.EventCategory,
			Importance:      e.Importance,
			Description:     e.Description,
			EntityName:      e.EntityName,
			TargetName:      e.TargetName,
			TeamID:          e.TeamID,
			Value:           e.Value,
			RelatedEventID:  e.RelatedEventID,
			OtherEntities:   e.OtherEntities,
			LocationX:       e.LocationX,
			LocationY:       e.LocationY,
			Details:         rawJSON(e.EventDetails),
		}
	}
	return out
}

func toBuildResponse(builds []service.PlayerBuild) []buildResponse {
	out := make([]buildResponse, len(builds))
	for i, b := range builds {
		items := make([]itemResponse, len(b.Items))
		for j, it := range b.Items {
			items[j] = itemResponse(it)
		}
		out[i] = buildResponse{PlayerName: b.PlayerName, TotalCost: b.TotalCost, Items: items}
	}
	return out
}
