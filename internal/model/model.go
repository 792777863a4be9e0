package model

import "math"

// ResultType describes how a match was decided.
type ResultType string

const (
	ResultRuns    ResultType = "runs"
	ResultWickets ResultType = "wickets"
	ResultTie     ResultType = "tie"
)

// MatchType is the competition stage of a fixture.
type MatchType string

const (
	MatchLeague     MatchType = "League"
	MatchQualifier  MatchType = "Qualifier"
	MatchEliminator MatchType = "Eliminator"
	MatchFinal      MatchType = "Final"
)

// IsKnockout reports whether the stage is a playoff fixture.
func (t MatchType) IsKnockout() bool {
	switch t {
	case MatchQualifier, MatchEliminator, MatchFinal:
		return true
	}
	return false
}

// KnockoutTypes lists the stages counted as knockout matches.
var KnockoutTypes = []MatchType{MatchQualifier, MatchEliminator, MatchFinal}

// Role selects batting or bowling facts.
type Role string

const (
	RoleBatting Role = "batting"
	RoleBowling Role = "bowling"
)

// ---- Fact store rows ----

// Match is one completed fixture.
type Match struct {
	ID            int64
	Season        int
	MatchNumber   int    // 0 when the record carries none
	Date          string // "YYYY-MM-DD"
	Venue         string
	City          string
	Team1, Team2  string
	TossWinner    string
	TossDecision  string // "bat" or "field"
	Winner        string // empty on no-result / tie
	ResultType    ResultType
	ResultMargin  int
	PlayerOfMatch string // empty when not awarded
	MatchType     MatchType
}

// Fingerprint returns the dedup key of the fixture.
func (m *Match) Fingerprint() Fingerprint {
	return Fingerprint{
		Season: m.Season,
		Date:   m.Date,
		Team1:  m.Team1,
		Team2:  m.Team2,
		Venue:  m.Venue,
	}
}

// OtherTeam returns the opponent of team in this match. Any name that is not
// Team1 resolves to Team1.
func (m *Match) OtherTeam(team string) string {
	if team == m.Team1 {
		return m.Team2
	}
	return m.Team1
}

// Fingerprint identifies a fixture across overlapping source files.
type Fingerprint struct {
	Season int
	Date   string
	Team1  string
	Team2  string
	Venue  string
}

// BattingFact is one player's batting contribution in one innings.
type BattingFact struct {
	ID            int64
	MatchID       int64
	Player        string
	Team          string
	Innings       int
	Runs          int
	Balls         int
	Fours         int
	Sixes         int
	StrikeRate    float64
	Position      int
	DismissalKind string // empty => not out
	NotOut        bool
}

// BowlingFact is one player's bowling contribution in one innings.
type BowlingFact struct {
	ID           int64
	MatchID      int64
	Player       string
	Team         string // the bowling side
	Innings      int
	Balls        int
	Overs        float64
	RunsConceded int
	Wickets      int
	Economy      float64
	Dots         int
}

// DotPct returns the share of deliveries that conceded nothing.
func (f *BowlingFact) DotPct() float64 {
	if f.Balls == 0 {
		return 0
	}
	return float64(f.Dots) / float64(f.Balls) * 100
}

// MatchRecord is one ingestible unit: a match and every fact it produced.
type MatchRecord struct {
	Match   Match
	Batting []BattingFact
	Bowling []BowlingFact
}

// ---- Derived values ----

// StrikeRate returns runs per 100 balls, rounded to 2 decimals.
func StrikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return Round(float64(runs)/float64(balls)*100, 2)
}

// Overs converts a ball count to overs, rounded to 1 decimal.
func Overs(balls int) float64 {
	return Round(float64(balls)/6.0, 1)
}

// Economy returns runs conceded per over, rounded to 2 decimals.
func Economy(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return Round(float64(runs)/(float64(balls)/6.0), 2)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
