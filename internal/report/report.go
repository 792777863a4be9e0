package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/cricmetrics/internal/classifier"
	"github.com/pable/cricmetrics/internal/ingest"
	"github.com/pable/cricmetrics/internal/metrics"
	"github.com/pable/cricmetrics/internal/model"
	"github.com/pable/cricmetrics/internal/profile"
	"github.com/pable/cricmetrics/internal/storage"
	"github.com/pable/cricmetrics/internal/team"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func itoa(n int) string { return strconv.Itoa(n) }

func f1(v float64) string { return fmt.Sprintf("%.1f", v) }

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ---- Matches ----

// PrintMatchHeader prints a one-line summary header for the match.
func PrintMatchHeader(w io.Writer, m model.Match) {
	s := model.MatchSummary{Winner: m.Winner, ResultType: m.ResultType, ResultMargin: m.ResultMargin}
	fmt.Fprintf(w, "\n%s vs %s  |  %s  |  %s, %s  |  Season %d  |  %s\n",
		m.Team1, m.Team2, m.Date, m.Venue, m.City, m.Season, m.MatchType)
	fmt.Fprintf(w, "Toss: %s chose to %s  |  Result: %s  |  Player of the match: %s\n\n",
		orDash(m.TossWinner), orDash(m.TossDecision), s.Result(), orDash(m.PlayerOfMatch))
}

// PrintBoxScore prints the header and, per innings, the batting and bowling cards.
func PrintBoxScore(w io.Writer, rec *model.MatchRecord) {
	PrintMatchHeader(w, rec.Match)

	innings := map[int]bool{}
	var order []int
	for _, f := range rec.Batting {
		if !innings[f.Innings] {
			innings[f.Innings] = true
			order = append(order, f.Innings)
		}
	}
	for _, f := range rec.Bowling {
		if !innings[f.Innings] {
			innings[f.Innings] = true
			order = append(order, f.Innings)
		}
	}

	for _, n := range order {
		var bat []model.BattingFact
		var bowl []model.BowlingFact
		for _, f := range rec.Batting {
			if f.Innings == n {
				bat = append(bat, f)
			}
		}
		for _, f := range rec.Bowling {
			if f.Innings == n {
				bowl = append(bowl, f)
			}
		}
		side := ""
		if len(bat) > 0 {
			side = bat[0].Team
		} else if len(bowl) > 0 {
			side = rec.Match.OtherTeam(bowl[0].Team)
		}
		fmt.Fprintf(w, "Innings %d: %s\n", n, side)
		PrintBattingCard(w, bat)
		PrintBowlingCard(w, bowl)
		fmt.Fprintln(w)
	}
}

// PrintBattingCard prints batting facts in position order as stored.
func PrintBattingCard(w io.Writer, facts []model.BattingFact) {
	table := newTable(w)
	table.Header("#", "BATTER", "DISMISSAL", "R", "B", "4S", "6S", "SR")
	total := 0
	for _, f := range facts {
		total += f.Runs
		dismissal := "not out"
		if !f.NotOut {
			dismissal = f.DismissalKind
		}
		table.Append(
			itoa(f.Position),
			f.Player,
			dismissal,
			itoa(f.Runs),
			itoa(f.Balls),
			itoa(f.Fours),
			itoa(f.Sixes),
			f2(f.StrikeRate),
		)
	}
	table.Footer("", "TOTAL (off the bat)", "", itoa(total), "", "", "", "")
	table.Render()
}

// PrintBowlingCard prints bowling facts.
func PrintBowlingCard(w io.Writer, facts []model.BowlingFact) {
	table := newTable(w)
	table.Header("BOWLER", "O", "R", "W", "ECON", "DOTS", "DOT%")
	for i := range facts {
		f := &facts[i]
		table.Append(
			f.Player,
			f1(f.Overs),
			itoa(f.RunsConceded),
			itoa(f.Wickets),
			f2(f.Economy),
			itoa(f.Dots),
			pct(f.DotPct()),
		)
	}
	table.Render()
}

// PrintMatchList prints one row per match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("ID", "SEASON", "DATE", "TYPE", "TEAMS", "VENUE", "RESULT", "POTM")
	for i := range matches {
		m := &matches[i]
		table.Append(
			strconv.FormatInt(m.ID, 10),
			itoa(m.Season),
			m.Date,
			string(m.MatchType),
			m.Team1+" v "+m.Team2,
			m.Venue,
			m.Result(),
			orDash(m.PlayerOfMatch),
		)
	}
	table.Render()
}

// ---- Leaderboards ----

// PrintScorers prints a run-scoring leaderboard.
func PrintScorers(w io.Writer, rows []model.ScorerRow) {
	table := newTable(w)
	table.Header("#", "PLAYER", "M", "INN", "RUNS", "AVG SR")
	for i, r := range rows {
		table.Append(itoa(i+1), r.Player, itoa(r.Matches), itoa(r.Innings), itoa(r.Runs), f2(r.AvgStrikeRate))
	}
	table.Render()
}

// PrintWicketTakers prints a wicket-taking leaderboard.
func PrintWicketTakers(w io.Writer, rows []model.WicketRow) {
	table := newTable(w)
	table.Header("#", "PLAYER", "M", "WKTS", "AVG ECON")
	for i, r := range rows {
		table.Append(itoa(i+1), r.Player, itoa(r.Matches), itoa(r.Wickets), f2(r.AvgEconomy))
	}
	table.Render()
}

// PrintHighScores prints the highest individual innings.
func PrintHighScores(w io.Writer, rows []model.HighScore) {
	table := newTable(w)
	table.Header("#", "PLAYER", "TEAM", "SEASON", "MATCH", "R", "B", "4S", "6S", "SR")
	for i, r := range rows {
		table.Append(
			itoa(i+1), r.Player, r.Team, itoa(r.Season), strconv.FormatInt(r.MatchID, 10),
			itoa(r.Runs), itoa(r.Balls), itoa(r.Fours), itoa(r.Sixes), f2(r.StrikeRate),
		)
	}
	table.Render()
}

// PrintValueLeaders prints batters ranked by value score.
func PrintValueLeaders(w io.Writer, rows []model.ValueRow) {
	table := newTable(w)
	table.Header("#", "PLAYER", "M", "RUNS", "AVG SR", "VALUE")
	for i, r := range rows {
		table.Append(itoa(i+1), r.Player, itoa(r.Matches), itoa(r.Runs), f2(r.AvgStrikeRate), f2(r.Score))
	}
	table.Render()
}

// PrintCounts prints a two-column labelled count table.
func PrintCounts(w io.Writer, label string, rows []model.CountRow) {
	table := newTable(w)
	table.Header(strings.ToUpper(label), "COUNT")
	for _, r := range rows {
		table.Append(r.Key, itoa(r.Count))
	}
	table.Render()
}

// PrintSeasonRuns prints total runs per season.
func PrintSeasonRuns(w io.Writer, rows []model.SeasonRuns) {
	table := newTable(w)
	table.Header("SEASON", "MATCHES", "RUNS", "RUNS/MATCH")
	for _, r := range rows {
		perMatch := 0.0
		if r.Matches > 0 {
			perMatch = float64(r.Runs) / float64(r.Matches)
		}
		table.Append(itoa(r.Season), itoa(r.Matches), itoa(r.Runs), f1(perMatch))
	}
	table.Render()
}

// ---- Players ----

// PrintPlayerStats prints a player's batting and bowling aggregates.
func PrintPlayerStats(w io.Writer, s model.PlayerStats) {
	scope := "all seasons"
	if s.Season != 0 {
		scope = "season " + itoa(s.Season)
	}
	fmt.Fprintf(w, "\n%s (%s)\n\n", s.Player, scope)

	b := s.Batting
	if b.Innings > 0 {
		table := newTable(w)
		table.Header("M", "INN", "RUNS", "BALLS", "HS", "AVG", "AVG SR", "4S", "6S", "50S", "100S", "NO")
		table.Append(
			itoa(b.Matches), itoa(b.Innings), itoa(b.Runs), itoa(b.Balls), itoa(b.HighestScore),
			f2(b.Average()), f2(b.AvgStrikeRate), itoa(b.Fours), itoa(b.Sixes),
			itoa(b.Fifties), itoa(b.Hundreds), itoa(b.NotOuts),
		)
		table.Render()
	} else {
		fmt.Fprintln(w, "No batting innings.")
	}

	o := s.Bowling
	if o.Balls > 0 {
		table := newTable(w)
		table.Header("M", "OVERS", "WKTS", "RUNS", "ECON", "AVG ECON", "3W", "4W+", "DOTS")
		table.Append(
			itoa(o.Matches), f1(o.Overs), itoa(o.Wickets), itoa(o.RunsConceded),
			f2(o.EconomyRate()), f2(o.AvgEconomy), itoa(o.ThreeWickets), itoa(o.FourWickets), itoa(o.Dots),
		)
		table.Render()
	} else {
		fmt.Fprintln(w, "No bowling spells.")
	}
}

// PrintPlayerMetrics prints classifications and derived metrics.
func PrintPlayerMetrics(w io.Writer, m profile.Player) {
	fmt.Fprintf(w, "\nStyle: %s / %s\n", m.Style.Batting, m.Style.Bowling)
	printClassification(w, "Batting", m.Batting)
	printClassification(w, "Bowling", m.Bowling)

	table := newTable(w)
	table.Header("METRIC", "VALUE")
	table.Append("Batting consistency", f2(m.BattingConsistency))
	table.Append("Bowling consistency", f2(m.BowlingConsistency))
	table.Append("Pressure rating", f2(m.Pressure.Rating))
	table.Append("  close-match avg", fmt.Sprintf("%.2f (%d inn)", m.Pressure.CloseAvg, m.Pressure.CloseInnings))
	table.Append("  knockout avg", fmt.Sprintf("%.2f (%d inn)", m.Pressure.KnockoutAvg, m.Pressure.KnockoutInnings))
	table.Append("Strike rotation", pct(m.Rotation))
	table.Append("Impact score", f2(m.Impact))
	table.Render()

	fmt.Fprintln(w)
	PrintPhaseSplit(w, m.Phases)
}

func printClassification(w io.Writer, role string, c classifier.Classification) {
	if c.IsInsufficient() {
		fmt.Fprintf(w, "%s: %s\n", role, c.Class)
		return
	}
	fmt.Fprintf(w, "%s: %s (confidence %.0f%%)\n", role, c.Class, c.Confidence*100)
	fmt.Fprintf(w, "  traits:    %s\n", strings.Join(c.Characteristics, ", "))
	fmt.Fprintf(w, "  strengths: %s\n", strings.Join(c.Strengths, ", "))
}

// PrintPhaseSplit prints the per-phase batting lines.
func PrintPhaseSplit(w io.Writer, p metrics.PhaseSplit) {
	table := newTable(w)
	table.Header("PHASE", "INN", "AVG RUNS", "AVG SR")
	for _, row := range []struct {
		name string
		line metrics.PhaseLine
	}{
		{"Powerplay (1-2)", p.Powerplay},
		{"Middle (3-5)", p.Middle},
		{"Death (6+)", p.Death},
	} {
		table.Append(row.name, itoa(row.line.Innings), f2(row.line.AvgRuns), f2(row.line.AvgStrikeRate))
	}
	table.Render()
}

// PrintMatchup prints a batter-versus-bowler comparison.
func PrintMatchup(w io.Writer, m metrics.MatchupResult) {
	if m.Encounters == 0 {
		fmt.Fprintf(w, "%s and %s have no shared matches with 5+ balls faced.\n", m.Batter, m.Bowler)
		return
	}
	table := newTable(w)
	table.Header("BATTER", "BOWLER", "ENCOUNTERS", "BAT AVG", "SR", "ADVANTAGE")
	table.Append(m.Batter, m.Bowler, itoa(m.Encounters), f2(m.BatterAvg), f2(m.StrikeRate), string(m.Advantage))
	table.Render()
}

// ---- Teams ----

// PrintTeamProfile prints a team's record and top scorers.
func PrintTeamProfile(w io.Writer, p team.Profile) {
	scope := "all seasons"
	if p.Season != 0 {
		scope = "season " + itoa(p.Season)
	}
	fmt.Fprintf(w, "\n%s (%s)\n\n", p.Team, scope)

	table := newTable(w)
	table.Header("M", "W", "L", "NR", "WIN%", "AVG TOTAL", "HIGHEST", "LOWEST")
	table.Append(
		itoa(p.Matches), itoa(p.Wins), itoa(p.Losses), itoa(p.NoResults), pct(p.WinPct),
		f1(p.AvgScore), itoa(p.HighestScore), itoa(p.LowestScore),
	)
	table.Render()

	if len(p.TopBatsmen) > 0 {
		fmt.Fprintln(w, "\nTop run scorers:")
		PrintScorers(w, p.TopBatsmen)
	}
}

// PrintVenues prints a team's record per ground.
func PrintVenues(w io.Writer, rows []model.VenueRecord) {
	table := newTable(w)
	table.Header("VENUE", "CITY", "M", "W", "WIN%")
	for _, v := range rows {
		table.Append(v.Venue, v.City, itoa(v.Matches), itoa(v.Wins), pct(v.WinPct))
	}
	table.Render()
}

// PrintSeasonRecords prints a team's season-by-season record.
func PrintSeasonRecords(w io.Writer, rows []model.SeasonRecord) {
	table := newTable(w)
	table.Header("SEASON", "M", "W", "L", "WIN%")
	for _, s := range rows {
		table.Append(itoa(s.Season), itoa(s.Matches), itoa(s.Wins), itoa(s.Losses), pct(s.WinPct))
	}
	table.Render()
}

// PrintToss prints the toss-impact line.
func PrintToss(w io.Writer, t team.Toss) {
	fmt.Fprintf(w, "Won %d tosses, went on to win %d (%.1f%%)\n", t.TossesWon, t.MatchesWon, t.WinPct)
}

// PrintHeadToHead prints the normalised win-rate comparison.
func PrintHeadToHead(w io.Writer, h team.HeadToHead) {
	table := newTable(w)
	table.Header("TEAM", "WIN RATE", "SHARE")
	table.Append(h.TeamA, pct(h.TeamAWinRate), pct(h.TeamAPct))
	table.Append(h.TeamB, pct(h.TeamBWinRate), pct(h.TeamBPct))
	table.Render()
}

// PrintPlayerTrend prints one row per season the player appeared in.
func PrintPlayerTrend(w io.Writer, seasons []model.PlayerStats) {
	table := newTable(w)
	table.Header("SEASON", "INN", "RUNS", "AVG", "AVG SR", "HS", "OVERS", "WKTS", "ECON")
	for _, s := range seasons {
		b, o := s.Batting, s.Bowling
		table.Append(
			itoa(s.Season), itoa(b.Innings), itoa(b.Runs), f2(b.Average()), f2(b.AvgStrikeRate), itoa(b.HighestScore),
			f1(o.Overs), itoa(o.Wickets), f2(o.EconomyRate()),
		)
	}
	table.Render()
}

// PrintTeamTrend prints the cached per-season summaries of a team.
func PrintTeamTrend(w io.Writer, rows []model.TeamSeasonStats) {
	table := newTable(w)
	table.Header("SEASON", "P", "W", "WIN%", "AVG TOTAL", "HIGHEST", "LOWEST", "UPDATED")
	for _, s := range rows {
		table.Append(
			itoa(s.Season), itoa(s.Played), itoa(s.Won), pct(s.WinPct),
			f1(s.AvgScore), itoa(s.Highest), itoa(s.Lowest), s.UpdatedAt,
		)
	}
	table.Render()
}

// PrintCachedClassification prints the stored classification row.
func PrintCachedClassification(w io.Writer, c model.PlayerClassification) {
	fmt.Fprintf(w, "\nCached (%s): batting %s %.2f, bowling %s %.2f, impact %.1f\n",
		c.UpdatedAt, orDash(c.BattingClass), c.BattingConf, orDash(c.BowlingClass), c.BowlingConf, c.Impact)
}

// ---- Ingestion ----

// PrintRunSummary prints the counters of one ingestion run.
func PrintRunSummary(w io.Writer, s *ingest.Summary) {
	fmt.Fprintf(w, "\nRun %s  |  %s  |  %s\n\n", s.RunID, s.Source, s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	table := newTable(w)
	table.Header("OUTCOME", "COUNT")
	table.Append("processed", itoa(s.Processed))
	for _, r := range s.Reasons() {
		table.Append(string(r), itoa(s.Skipped[r]))
	}
	table.Append("failed", itoa(s.Failed))
	table.Render()
}

// PrintRuns prints stored ingestion runs.
func PrintRuns(w io.Writer, runs []storage.IngestRun) {
	table := newTable(w)
	table.Header("RUN", "FINISHED", "SOURCE", "PROCESSED", "SKIPPED", "DUPLICATES", "FAILED")
	for _, r := range runs {
		table.Append(
			r.RunID[:min(8, len(r.RunID))],
			r.FinishedAt.Format("2006-01-02 15:04"),
			r.Source,
			itoa(r.Processed),
			itoa(r.Skipped),
			itoa(r.Duplicates),
			itoa(r.Failed),
		)
	}
	table.Render()
}

// PrintRows prints the result of a raw query followed by its row count.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, r := range rows {
		table.Append(toAny(r)...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
