package analytics

import "github.com/samber/lo"

var streakImportance = map[int]int{3: 6, 5: 7, 7: 8, 10: 9}

var streakThresholds = []int{3, 5, 7, 10}

type StreakKind int

const (
	StreakReached StreakKind = iota
	StreakEnded
)

// StreakEvent is one KillStreak or StreakEnded moment. For StreakEnded,
// Player is the one who ended it and Victim the streak holder.
type StreakEvent struct {
	Kind       StreakKind
	Death      Death
	Player     string
	Victim     string
	Count      int
	Importance int
	// StartOrdinal numbers the streaks of a match; a StreakEnded carries the
	// ordinal of the streak it closed.
	StartOrdinal int
}

// Streaks walks deaths chronologically. A kill extends the killer's streak;
// any death resets the victim's.
func Streaks(deaths []Death) []StreakEvent {
	var (
		out     []StreakEvent
		count   = make(map[string]int)
		ordinal = make(map[string]int)
		next    int
	)

	for _, d := range deaths {
		if d.PvP {
			count[d.Killer]++
			n := count[d.Killer]
			if lo.Contains(streakThresholds, n) {
				if n == streakThresholds[0] {
					next++
					ordinal[d.Killer] = next
				}
				out = append(out, StreakEvent{
					Kind:         StreakReached,
					Death:        d,
					Player:       d.Killer,
					Victim:       d.Victim,
					Count:        n,
					Importance:   streakImportance[n],
					StartOrdinal: ordinal[d.Killer],
				})
			}
		}

		if n := count[d.Victim]; n >= streakThresholds[0] && d.PvP {
			out = append(out, StreakEvent{
				Kind:         StreakEnded,
				Death:        d,
				Player:       d.Killer,
				Victim:       d.Victim,
				Count:        n,
				Importance:   7,
				StartOrdinal: ordinal[d.Victim],
			})
		}
		count[d.Victim] = 0
		delete(ordinal, d.Victim)
	}
	return out
}
