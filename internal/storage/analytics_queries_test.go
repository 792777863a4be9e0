package storage

import (
	"testing"

	"github.com/pable/cricmetrics/internal/model"
)

// withRuns returns a copy of the sample match on date where RG Sharma scores runs.
func withRuns(date string, runs int) *model.MatchRecord {
	r := sampleRecord(date, "Mumbai Indians")
	r.Batting[0].Runs = runs
	r.Batting[0].StrikeRate = model.StrikeRate(runs, r.Batting[0].Balls)
	return r
}

func TestRecentBattingRunsNewestFirst(t *testing.T) {
	db := openMemDB(t)
	insertRecords(t, db,
		withRuns("2020-04-01", 10),
		withRuns("2020-04-03", 30),
		withRuns("2020-04-02", 20),
	)

	got, err := db.RecentBattingRuns("RG Sharma", 5, 2)
	if err != nil {
		t.Fatalf("RecentBattingRuns: %v", err)
	}
	if len(got) != 2 || got[0] != 30 || got[1] != 20 {
		t.Errorf("recent runs = %v, want [30 20]", got)
	}

	none, err := db.RecentBattingRuns("RG Sharma", 41, 20)
	if err != nil {
		t.Fatalf("RecentBattingRuns: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("no innings reach 41 balls, got %v", none)
	}
}

func TestRecentBowlingEconomies(t *testing.T) {
	db := openMemDB(t)
	insertRecords(t, db, sampleRecord("2020-04-01", "Mumbai Indians"))

	got, err := db.RecentBowlingEconomies("JJ Bumrah", 2, 20)
	if err != nil {
		t.Fatalf("RecentBowlingEconomies: %v", err)
	}
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("economies = %v, want [5]", got)
	}
}

func TestBattingAveragesFilters(t *testing.T) {
	db := openMemDB(t)
	final := withRuns("2020-05-10", 80)
	final.Match.MatchType = model.MatchFinal
	final.Match.ResultMargin = 30
	insertRecords(t, db, withRuns("2020-04-01", 40), final)

	tests := []struct {
		name    string
		f       model.InningsFilter
		innings int
		avg     float64
	}{
		{"all", model.InningsFilter{}, 2, 60},
		{"close only", model.InningsFilter{MaxMargin: 20}, 1, 40},
		{"knockouts", model.InningsFilter{MatchTypes: model.KnockoutTypes}, 1, 80},
		{"openers", model.InningsFilter{MinPosition: 1, MaxPosition: 2}, 2, 60},
		{"death", model.InningsFilter{MinPosition: 6}, 0, 0},
		{"min balls", model.InningsFilter{MinBalls: 41}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.BattingAverages("RG Sharma", tt.f)
			if err != nil {
				t.Fatalf("BattingAverages: %v", err)
			}
			if got.Innings != tt.innings || got.AvgRuns != tt.avg {
				t.Errorf("got %+v, want %d innings averaging %v", got, tt.innings, tt.avg)
			}
		})
	}
}

func TestBoundaryTotalsAndMatchup(t *testing.T) {
	db := openMemDB(t)
	insertRecords(t, db, sampleRecord("2020-04-01", "Mumbai Indians"))

	runs, fours, sixes, err := db.BoundaryTotals("RG Sharma")
	if err != nil {
		t.Fatalf("BoundaryTotals: %v", err)
	}
	if runs != 60 || fours != 4 || sixes != 2 {
		t.Errorf("totals = %d/%d/%d, want 60/4/2", runs, fours, sixes)
	}

	m, err := db.Matchup("RG Sharma", "DL Chahar", 5)
	if err != nil {
		t.Fatalf("Matchup: %v", err)
	}
	if m.Innings != 1 || m.AvgStrikeRate != 150 {
		t.Errorf("matchup = %+v, want 1 innings at SR 150", m)
	}

	m, err = db.Matchup("RG Sharma", "Nobody", 5)
	if err != nil {
		t.Fatalf("Matchup: %v", err)
	}
	if m.Innings != 0 || m.AvgRuns != 0 {
		t.Errorf("unknown bowler should give zero matchup, got %+v", m)
	}
}

func TestProfilesAndWinningContributions(t *testing.T) {
	db := openMemDB(t)
	insertRecords(t, db,
		sampleRecord("2020-04-01", "Mumbai Indians"),
		sampleRecord("2020-04-02", "Chennai Super Kings"),
	)

	bp, err := db.BattingProfile("RG Sharma", 10)
	if err != nil {
		t.Fatalf("BattingProfile: %v", err)
	}
	if bp.Innings != 2 || bp.AvgRuns != 60 || bp.FiftyRate != 100 || bp.BoundariesPerInning != 6 || bp.TotalRuns != 120 {
		t.Errorf("batting profile = %+v", bp)
	}

	empty, err := db.BattingProfile("Nobody", 10)
	if err != nil {
		t.Fatalf("BattingProfile: %v", err)
	}
	if empty.Innings != 0 || empty.FiftyRate != 0 {
		t.Errorf("empty profile = %+v", empty)
	}

	wp, err := db.BowlingProfile("JJ Bumrah", 2)
	if err != nil {
		t.Fatalf("BowlingProfile: %v", err)
	}
	if wp.Matches != 2 || wp.WicketsPerMatch != 2 || wp.DotBallPct != 50 || wp.TotalWickets != 4 {
		t.Errorf("bowling profile = %+v", wp)
	}

	runs, err := db.WinningRuns("RG Sharma")
	if err != nil {
		t.Fatalf("WinningRuns: %v", err)
	}
	if len(runs) != 1 || runs[0] != 60 {
		t.Errorf("winning runs = %v, want [60]", runs)
	}

	wkts, err := db.WinningWickets("DL Chahar")
	if err != nil {
		t.Fatalf("WinningWickets: %v", err)
	}
	if len(wkts) != 1 || wkts[0] != 1 {
		t.Errorf("winning wickets = %v, want [1]", wkts)
	}
}

func TestTeamQueries(t *testing.T) {
	db := openMemDB(t)
	nr := sampleRecord("2020-04-04", "")
	other := sampleRecord("2021-04-05", "Mumbai Indians")
	other.Match.Season = 2021
	other.Match.TossWinner = "Chennai Super Kings"
	insertRecords(t, db,
		sampleRecord("2020-04-01", "Mumbai Indians"),
		sampleRecord("2020-04-02", "Mumbai Indians"),
		sampleRecord("2020-04-03", "Chennai Super Kings"),
		nr,
		other,
	)

	rec, err := db.TeamRecord("Mumbai Indians", 0)
	if err != nil {
		t.Fatalf("TeamRecord: %v", err)
	}
	if rec.Matches != 5 || rec.Wins != 3 || rec.NoResults != 1 || rec.Losses() != 1 {
		t.Errorf("record = %+v", rec)
	}
	rec, err = db.TeamRecord("Mumbai Indians", 2021)
	if err != nil {
		t.Fatalf("TeamRecord: %v", err)
	}
	if rec.Matches != 1 || rec.Wins != 1 {
		t.Errorf("2021 record = %+v", rec)
	}

	totals, err := db.TeamInningsTotals("Mumbai Indians", 2020)
	if err != nil {
		t.Fatalf("TeamInningsTotals: %v", err)
	}
	if len(totals) != 4 || totals[0] != 80 {
		t.Errorf("totals = %v", totals)
	}

	venues, err := db.TeamVenues("Mumbai Indians", 3)
	if err != nil {
		t.Fatalf("TeamVenues: %v", err)
	}
	if len(venues) != 1 || venues[0].Matches != 5 || venues[0].WinPct != 60 {
		t.Errorf("venues = %+v", venues)
	}
	venues, err = db.TeamVenues("Mumbai Indians", 6)
	if err != nil {
		t.Fatalf("TeamVenues: %v", err)
	}
	if len(venues) != 0 {
		t.Errorf("no venue reaches 6 matches, got %+v", venues)
	}

	tosses, wins, err := db.TossRecord("Mumbai Indians")
	if err != nil {
		t.Fatalf("TossRecord: %v", err)
	}
	if tosses != 4 || wins != 2 {
		t.Errorf("toss record = %d/%d, want 4/2", tosses, wins)
	}

	seasons, err := db.TeamSeasons("Mumbai Indians")
	if err != nil {
		t.Fatalf("TeamSeasons: %v", err)
	}
	if len(seasons) != 2 || seasons[0].Season != 2021 || seasons[1].Losses != 1 {
		t.Errorf("seasons = %+v", seasons)
	}
}

func TestClassificationCache(t *testing.T) {
	db := openMemDB(t)

	got, err := db.GetClassification("RG Sharma")
	if err != nil || got != nil {
		t.Fatalf("missing classification = %v, %v", got, err)
	}

	c := model.PlayerClassification{Player: "RG Sharma", BattingClass: "Anchor", BattingConf: 0.8, BowlingClass: "Insufficient Data", Impact: 55}
	if err := db.UpsertClassification(c); err != nil {
		t.Fatalf("UpsertClassification: %v", err)
	}
	c.BattingClass = "Aggressive Opener"
	if err := db.UpsertClassification(c); err != nil {
		t.Fatalf("UpsertClassification: %v", err)
	}

	got, err = db.GetClassification("RG Sharma")
	if err != nil {
		t.Fatalf("GetClassification: %v", err)
	}
	if got == nil || got.BattingClass != "Aggressive Opener" || got.Impact != 55 || got.UpdatedAt == "" {
		t.Errorf("classification = %+v", got)
	}
}

func TestTeamSeasonStatsCache(t *testing.T) {
	db := openMemDB(t)
	for _, s := range []model.TeamSeasonStats{
		{Team: "Mumbai Indians", Season: 2020, Played: 16, Won: 11, WinPct: 68.75, AvgScore: 170.5, Highest: 208, Lowest: 114},
		{Team: "Mumbai Indians", Season: 2021, Played: 14, Won: 7, WinPct: 50},
		{Team: "Mumbai Indians", Season: 2021, Played: 14, Won: 8, WinPct: 57.14},
	} {
		if err := db.UpsertTeamSeasonStats(s); err != nil {
			t.Fatalf("UpsertTeamSeasonStats: %v", err)
		}
	}
	got, err := db.ListTeamSeasonStats("Mumbai Indians")
	if err != nil {
		t.Fatalf("ListTeamSeasonStats: %v", err)
	}
	if len(got) != 2 || got[0].Season != 2021 || got[0].Won != 8 || got[1].Highest != 208 {
		t.Errorf("team stats = %+v", got)
	}
}

func TestDashboardQueries(t *testing.T) {
	db := openMemDB(t)
	old := sampleRecord("2019-04-01", "Chennai Super Kings")
	old.Match.Season = 2019
	old.Match.PlayerOfMatch = "MS Dhoni"
	old.Match.Venue = "MA Chidambaram Stadium"
	insertRecords(t, db,
		sampleRecord("2020-04-01", "Mumbai Indians"),
		sampleRecord("2020-04-02", "Mumbai Indians"),
		old,
	)

	scorers, err := db.TopRunScorers(2020, 2)
	if err != nil {
		t.Fatalf("TopRunScorers: %v", err)
	}
	if len(scorers) != 2 || scorers[0].Player != "RG Sharma" || scorers[0].Runs != 120 || scorers[0].Matches != 2 {
		t.Errorf("scorers = %+v", scorers)
	}

	wickets, err := db.TopWicketTakers(0, 1)
	if err != nil {
		t.Fatalf("TopWicketTakers: %v", err)
	}
	if len(wickets) != 1 || wickets[0].Player != "JJ Bumrah" || wickets[0].Wickets != 6 {
		t.Errorf("wicket takers = %+v", wickets)
	}

	high, err := db.HighestScores(0, 1)
	if err != nil {
		t.Fatalf("HighestScores: %v", err)
	}
	if len(high) != 1 || high[0].Runs != 60 {
		t.Errorf("high scores = %+v", high)
	}

	value, err := db.ValueLeaders(0, 1)
	if err != nil {
		t.Fatalf("ValueLeaders: %v", err)
	}
	// 180*0.5 + 3*20 + 150*0.3
	if len(value) != 1 || value[0].Player != "RG Sharma" || value[0].Score != 195 {
		t.Errorf("value leaders = %+v", value)
	}

	ps, err := db.PlayerStats("RG Sharma", 2020)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if ps.Batting.Innings != 2 || ps.Batting.Fifties != 2 || ps.Batting.NotOuts != 2 || ps.Batting.HighestScore != 60 {
		t.Errorf("player stats = %+v", ps.Batting)
	}
	bowl, err := db.PlayerStats("JJ Bumrah", 0)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if bowl.Bowling.Balls != 72 || bowl.Bowling.EconomyRate() != 5 || bowl.Batting.Innings != 0 {
		t.Errorf("bowler stats = %+v", bowl)
	}

	names, err := db.SearchPlayers("sharma", 10)
	if err != nil {
		t.Fatalf("SearchPlayers: %v", err)
	}
	if len(names) != 1 || names[0] != "RG Sharma" {
		t.Errorf("search = %v", names)
	}
	names, err = db.SearchPlayers("100%", 10)
	if err != nil {
		t.Fatalf("SearchPlayers: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("literal %% should not match everything, got %v", names)
	}

	wins, err := db.TeamWins(0, 10)
	if err != nil {
		t.Fatalf("TeamWins: %v", err)
	}
	if len(wins) != 2 || wins[0].Key != "Mumbai Indians" || wins[0].Count != 2 {
		t.Errorf("team wins = %+v", wins)
	}

	potm, err := db.PlayerOfMatchCounts(2019, 10)
	if err != nil {
		t.Fatalf("PlayerOfMatchCounts: %v", err)
	}
	if len(potm) != 1 || potm[0].Key != "MS Dhoni" {
		t.Errorf("potm = %+v", potm)
	}

	seasons, err := db.RunsPerSeason()
	if err != nil {
		t.Fatalf("RunsPerSeason: %v", err)
	}
	if len(seasons) != 2 || seasons[1].Season != 2020 || seasons[1].Matches != 2 || seasons[1].Runs != 220 {
		t.Errorf("runs per season = %+v", seasons)
	}

	venues, err := db.PopularVenues(0, 1)
	if err != nil {
		t.Fatalf("PopularVenues: %v", err)
	}
	if len(venues) != 1 || venues[0].Key != "Wankhede Stadium" || venues[0].Count != 2 {
		t.Errorf("venues = %+v", venues)
	}
}
