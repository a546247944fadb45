package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"smite-parser/internal/domain"
	"smite-parser/internal/service"
)

func parse(ctx context.Context, ingest *service.IngestService, location string, opts service.Options, out io.Writer) error {
	res, err := ingest.ParseFile(ctx, location, opts)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func regenerate(ctx context.Context, ingest *service.IngestService, matchID string, out io.Writer) error {
	res, err := ingest.Regenerate(ctx, matchID)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func printResult(out io.Writer, res *service.Result) {
	fmt.Fprintf(out, "match %s (run %s) in %s\n", res.MatchID, res.RunID, res.Elapsed.Round(time.Millisecond))
	if res.SourceFile != "" {
		fmt.Fprintf(out, "  lines %d, records %d, skipped %d, malformed %d, dropped %d\n",
			res.Decode.Lines, res.Decode.Records, res.Decode.Skipped, res.Decode.Malformed, res.Dropped)

		cats := make([]string, 0, len(res.Counts))
		for c := range res.Counts {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(out, "  %-8s %d events\n", c, res.Counts[c])
		}
	}
	fmt.Fprintf(out, "  players %d, stat rows %d, timeline events %d\n", res.Players, res.Stats, res.TimelineEvents)
	for _, err := range res.DerivationErrors {
		fmt.Fprintf(out, "  degraded: %v\n", err)
	}
}

func listMatches(ctx context.Context, report *service.ReportService, out io.Writer) error {
	matches, err := report.ListMatches(ctx)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(out, "no matches stored")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tMAP\tMODE\tSTARTED\tDURATION\tSOURCE")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.MatchID, orDash(m.MapName), orDash(m.GameType), startedAt(m), duration(m.DurationSeconds), m.SourceFile)
	}
	return tw.Flush()
}

func describeMatch(ctx context.Context, report *service.ReportService, matchID string, out io.Writer) error {
	d, err := report.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	m := d.Match
	fmt.Fprintf(out, "match     %s\n", m.MatchID)
	fmt.Fprintf(out, "source    %s\n", m.SourceFile)
	fmt.Fprintf(out, "map       %s\n", orDash(m.MapName))
	fmt.Fprintf(out, "mode      %s\n", orDash(m.GameType))
	fmt.Fprintf(out, "started   %s\n", startedAt(m))
	fmt.Fprintf(out, "duration  %s\n", duration(m.DurationSeconds))
	fmt.Fprintf(out, "events    combat %d, reward %d, item %d, player %d, timeline %d\n\n",
		d.Counts.Combat, d.Counts.Reward, d.Counts.Item, d.Counts.Player, d.Counts.Timeline)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tTEAM\tROLE\tGOD\tK\tD\tA\tDAMAGE\tTAKEN\tHEALING\tGOLD")
	stats := make(map[string]domain.PlayerStat, len(d.Stats))
	for _, st := range d.Stats {
		stats[st.PlayerName] = st
	}
	for _, p := range d.Players {
		st := stats[p.PlayerName]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			p.PlayerName, team(p.TeamID), orDash(p.Role), orDash(p.GodName),
			st.Kills, st.Deaths, st.Assists, st.DamageDealt, st.DamageTaken, st.HealingDone, st.GoldEarned)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(d.Teams) > 0 {
		fmt.Fprintln(out)
	}
	for _, t := range d.Teams {
		fmt.Fprintf(out, "team %s: %d players, %d kills, %d deaths, %d damage, %d gold\n",
			team(&t.TeamID), t.Players, t.Kills, t.Deaths, t.DamageDealt, t.GoldEarned)
	}
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func team(id *int) string {
	if id == nil || *id == 0 {
		return "-"
	}
	return fmt.Sprint(*id)
}

func startedAt(m domain.Match) string {
	if m.StartTime == nil {
		return "-"
	}
	return m.StartTime.UTC().Format("2006-01-02 15:04:05")
}

func duration(secs *int) string {
	if secs == nil {
		return "-"
	}
	return fmt.Sprintf("%dm%02ds", *secs/60, *secs%60)
}
