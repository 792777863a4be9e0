package model

// ---- Read-side filters and rows shared by storage and the analytics packages ----

// InningsFilter narrows the batting facts fed to an averaging query.
// Zero values disable each bound.
type InningsFilter struct {
	MinBalls    int
	MaxMargin   int // only matches decided by at most this margin; <= 0 disables
	MatchTypes  []MatchType
	MinPosition int
	MaxPosition int
}

// BattingAverage is the mean output over a filtered set of innings.
type BattingAverage struct {
	Innings       int
	AvgRuns       float64
	AvgStrikeRate float64
}

// TeamRecord is a team's win/loss tally, optionally for one season.
type TeamRecord struct {
	Team      string
	Season    int // 0 = all seasons
	Matches   int
	Wins      int
	NoResults int
}

// Losses counts decided matches the team did not win.
func (r TeamRecord) Losses() int {
	return r.Matches - r.Wins - r.NoResults
}

// WinPct returns wins as a percentage of matches, 0 when none were played.
func (r TeamRecord) WinPct() float64 {
	if r.Matches == 0 {
		return 0
	}
	return Round(float64(r.Wins)/float64(r.Matches)*100, 2)
}

// SeasonRecord is one season line of a team's history.
type SeasonRecord struct {
	Season  int
	Matches int
	Wins    int
	Losses  int
	WinPct  float64
}

// VenueRecord is a team's results at one ground.
type VenueRecord struct {
	Venue   string
	City    string
	Matches int
	Wins    int
	WinPct  float64
}

// ScorerRow is one line of a run-scoring leaderboard.
type ScorerRow struct {
	Player        string
	Matches       int
	Innings       int
	Runs          int
	AvgStrikeRate float64
}

// WicketRow is one line of a wicket-taking leaderboard.
type WicketRow struct {
	Player     string
	Matches    int
	Wickets    int
	AvgEconomy float64
}

// HighScore is one individual innings on the highest-scores board.
type HighScore struct {
	MatchID    int64
	Season     int
	Player     string
	Team       string
	Runs       int
	Balls      int
	Fours      int
	Sixes      int
	StrikeRate float64
}

// CountRow is a labelled count (venue, player of the match, result type...).
type CountRow struct {
	Key   string
	Count int
}

// SeasonRuns is the total runs scored in one season.
type SeasonRuns struct {
	Season  int
	Matches int
	Runs    int
}

// ValueRow ranks a batter by the composite value score.
type ValueRow struct {
	Player        string
	Matches       int
	Runs          int
	AvgStrikeRate float64
	Score         float64
}

// ValueScore weighs volume and tempo: runs x 0.5 + matches x 20 + avg SR x 0.3.
func ValueScore(runs, matches int, avgSR float64) float64 {
	return Round(float64(runs)*0.5+float64(matches)*20+avgSR*0.3, 2)
}

// PlayerClassification is a cached analytics snapshot for one player.
type PlayerClassification struct {
	Player       string
	BattingClass string
	BattingConf  float64
	BowlingClass string
	BowlingConf  float64
	Consistency  float64
	Impact       float64
	Pressure     float64
	UpdatedAt    string
}

// TeamSeasonStats is a cached per-team, per-season summary.
type TeamSeasonStats struct {
	Team      string
	Season    int
	Played    int
	Won       int
	WinPct    float64
	AvgScore  float64
	Highest   int
	Lowest    int
	UpdatedAt string
}
