package analytics

import (
	"sort"
	"time"

	"smite-parser/internal/config"
	"smite-parser/internal/domain"

	"github.com/samber/lo"
)

type TeamFight struct {
	Start        time.Time
	End          time.Time
	Participants []string
	PerTeam      map[int]int
	Kills        int
	Events       int
	Importance   int
}

// DetectTeamFights clusters cross-team player combat rows. A row joins the
// open cluster when it follows the previous row by at most h.TeamFightGap.
func DetectTeamFights(ix *Index, h config.Heuristics) []TeamFight {
	var (
		fights  []TeamFight
		cluster []domain.CombatEvent
	)

	flush := func() {
		if len(cluster) > 0 {
			if f, ok := evaluateCluster(ix, cluster, h); ok {
				fights = append(fights, f)
			}
		}
		cluster = cluster[:0]
	}

	for _, e := range ix.Combat() {
		src, tgt := deref(e.SourceEntity), deref(e.TargetEntity)
		if !ix.IsPlayer(src) || !ix.IsPlayer(tgt) {
			continue
		}
		ts, tt := ix.Team(src), ix.Team(tgt)
		if ts == nil || tt == nil || *ts == *tt {
			continue
		}
		if len(cluster) > 0 && e.EventTime.Sub(cluster[len(cluster)-1].EventTime) > h.TeamFightGap {
			flush()
		}
		cluster = append(cluster, e)
	}
	flush()

	return fights
}

func evaluateCluster(ix *Index, rows []domain.CombatEvent, h config.Heuristics) (TeamFight, bool) {
	players := make(map[string]int)
	for _, e := range rows {
		for _, name := range []string{deref(e.SourceEntity), deref(e.TargetEntity)} {
			players[name] = *ix.Team(name)
		}
	}

	perTeam := lo.CountValues(lo.Values(players))
	if len(players) < h.TeamFightMinPlayers {
		return TeamFight{}, false
	}
	if len(perTeam) < 2 {
		return TeamFight{}, false
	}
	for _, n := range perTeam {
		if n < h.TeamFightMinPerTeam {
			return TeamFight{}, false
		}
	}

	start, end := rows[0].EventTime, rows[len(rows)-1].EventTime
	kills := lo.CountBy(ix.Kills(), func(d Death) bool {
		_, involved := players[d.Victim]
		return involved && !d.Time.Before(start) && !d.Time.After(end)
	})

	names := lo.Keys(players)
	sort.Strings(names)

	return TeamFight{
		Start:        start,
		End:          end,
		Participants: names,
		PerTeam:      perTeam,
		Kills:        kills,
		Events:       len(rows),
		Importance:   ClampImportance(4 + len(players)/2 + kills),
	}, true
}
