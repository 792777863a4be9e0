package model

import "strconv"

// BattingProfile holds a batter's averages over qualifying innings (balls >= 10).
// It is the sole input of the batting classifier.
type BattingProfile struct {
	Innings             int
	AvgRuns             float64
	AvgStrikeRate       float64
	BoundariesPerInning float64
	AvgPosition         float64
	TotalRuns           int
	FiftyRate           float64 // % of innings with 50+ runs
}

// BowlingProfile holds a bowler's averages over qualifying spells (overs >= 2).
// It is the sole input of the bowling classifier.
type BowlingProfile struct {
	Matches         int
	AvgEconomy      float64
	WicketsPerMatch float64
	DotBallPct      float64
	TotalWickets    int
}

// PlayerBatting is a player's batting aggregate, optionally for one season.
type PlayerBatting struct {
	Player        string
	Matches       int
	Innings       int
	Runs          int
	Balls         int
	AvgRuns       float64
	HighestScore  int
	AvgStrikeRate float64
	Fours         int
	Sixes         int
	Fifties       int
	Hundreds      int
	NotOuts       int
}

// Average returns runs per dismissal, or total runs when never dismissed.
func (p *PlayerBatting) Average() float64 {
	outs := p.Innings - p.NotOuts
	if outs <= 0 {
		return float64(p.Runs)
	}
	return float64(p.Runs) / float64(outs)
}

// PlayerBowling is a player's bowling aggregate, optionally for one season.
type PlayerBowling struct {
	Player       string
	Matches      int
	Balls        int
	Overs        float64
	Wickets      int
	RunsConceded int
	AvgEconomy   float64
	ThreeWickets int
	FourWickets  int
	Dots         int
}

// EconomyRate returns the career economy from summed balls and runs.
func (p *PlayerBowling) EconomyRate() float64 {
	return Economy(p.RunsConceded, p.Balls)
}

// PlayerStats bundles a player's batting and bowling aggregates.
type PlayerStats struct {
	Player  string
	Season  int // 0 = all seasons
	Batting PlayerBatting
	Bowling PlayerBowling
}

// MatchSummary is a lightweight record for list/recent commands.
type MatchSummary struct {
	ID            int64
	Season        int
	Date          string
	Team1, Team2  string
	Venue         string
	Winner        string
	ResultType    ResultType
	ResultMargin  int
	PlayerOfMatch string
	MatchType     MatchType
}

// Result renders the winner and margin, e.g. "Mumbai Indians by 5 wickets".
func (s *MatchSummary) Result() string {
	switch {
	case s.Winner == "" && s.ResultType == ResultTie:
		return "tie"
	case s.Winner == "":
		return "no result"
	case s.ResultType == ResultTie:
		return s.Winner + " (tie)"
	}
	return s.Winner + " by " + strconv.Itoa(s.ResultMargin) + " " + string(s.ResultType)
}
