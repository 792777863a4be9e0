// Package team builds team-level profiles from aggregate queries over the
// fact store. Every percentage is 0 when its denominator is 0.
package team

import (
	"fmt"

	"github.com/pable/cricmetrics/internal/model"
)

const (
	topBatsmen      = 5
	minVenueMatches = 3
)

// Source is the read surface the analyzer needs. *storage.DB satisfies it.
type Source interface {
	TeamRecord(team string, season int) (model.TeamRecord, error)
	TeamInningsTotals(team string, season int) ([]int, error)
	TopTeamBatsmen(team string, season, limit int) ([]model.ScorerRow, error)
	TeamVenues(team string, minMatches int) ([]model.VenueRecord, error)
	TossRecord(team string) (tossWins, matchWins int, err error)
	TeamSeasons(team string) ([]model.SeasonRecord, error)
}

// Profile is a team's record and batting summary for one season, or for all
// seasons when Season is 0.
type Profile struct {
	Team         string
	Season       int
	Matches      int
	Wins         int
	Losses       int
	NoResults    int
	WinPct       float64
	AvgScore     float64
	HighestScore int
	LowestScore  int
	TopBatsmen   []model.ScorerRow
}

// Toss is the team's win rate in matches where it won the toss.
type Toss struct {
	Team       string
	TossesWon  int
	MatchesWon int
	WinPct     float64
}

// HeadToHead is two teams' historical win rates normalised to sum to 100.
type HeadToHead struct {
	TeamA        string
	TeamB        string
	TeamAWinRate float64
	TeamBWinRate float64
	TeamAPct     float64
	TeamBPct     float64
}

// Analyzer answers team questions against a Source.
type Analyzer struct {
	src Source
}

// New returns an analyzer reading from src.
func New(src Source) *Analyzer {
	return &Analyzer{src: src}
}

// Profile returns the team's win/loss record, innings totals and top five run
// scorers. season 0 spans every season.
func (a *Analyzer) Profile(team string, season int) (Profile, error) {
	rec, err := a.src.TeamRecord(team, season)
	if err != nil {
		return Profile{}, fmt.Errorf("team record: %w", err)
	}
	totals, err := a.src.TeamInningsTotals(team, season)
	if err != nil {
		return Profile{}, fmt.Errorf("innings totals: %w", err)
	}
	top, err := a.src.TopTeamBatsmen(team, season, topBatsmen)
	if err != nil {
		return Profile{}, fmt.Errorf("top batsmen: %w", err)
	}

	p := Profile{
		Team:       team,
		Season:     season,
		Matches:    rec.Matches,
		Wins:       rec.Wins,
		Losses:     rec.Losses(),
		NoResults:  rec.NoResults,
		WinPct:     rec.WinPct(),
		TopBatsmen: top,
	}
	p.AvgScore, p.HighestScore, p.LowestScore = summarize(totals)
	return p, nil
}

func summarize(totals []int) (avg float64, hi, lo int) {
	if len(totals) == 0 {
		return 0, 0, 0
	}
	hi, lo = totals[0], totals[0]
	sum := 0
	for _, t := range totals {
		sum += t
		hi = max(hi, t)
		lo = min(lo, t)
	}
	return model.Round(float64(sum)/float64(len(totals)), 2), hi, lo
}

// Venues returns the team's record at grounds where it played 3+ matches,
// best win percentage first.
func (a *Analyzer) Venues(team string) ([]model.VenueRecord, error) {
	return a.src.TeamVenues(team, minVenueMatches)
}

// TossImpact reports how often the team won the match after winning the toss.
func (a *Analyzer) TossImpact(team string) (Toss, error) {
	tosses, wins, err := a.src.TossRecord(team)
	if err != nil {
		return Toss{}, err
	}
	return Toss{Team: team, TossesWon: tosses, MatchesWon: wins, WinPct: pct(wins, tosses)}, nil
}

// SeasonRecord returns the team's record season by season, newest first.
func (a *Analyzer) SeasonRecord(team string) ([]model.SeasonRecord, error) {
	return a.src.TeamSeasons(team)
}

// SeasonStats summarizes every season the team played, in the shape stored
// in team_stats_cache.
func (a *Analyzer) SeasonStats(team string) ([]model.TeamSeasonStats, error) {
	seasons, err := a.src.TeamSeasons(team)
	if err != nil {
		return nil, fmt.Errorf("team seasons: %w", err)
	}
	out := make([]model.TeamSeasonStats, 0, len(seasons))
	for _, s := range seasons {
		totals, err := a.src.TeamInningsTotals(team, s.Season)
		if err != nil {
			return nil, fmt.Errorf("innings totals %d: %w", s.Season, err)
		}
		st := model.TeamSeasonStats{
			Team:   team,
			Season: s.Season,
			Played: s.Matches,
			Won:    s.Wins,
			WinPct: pct(s.Wins, s.Matches),
		}
		st.AvgScore, st.Highest, st.Lowest = summarize(totals)
		out = append(out, st)
	}
	return out, nil
}

// HeadToHead compares two teams by their overall win rates. A team with no
// matches counts as 0.5; if both rates are 0 the split is even.
func (a *Analyzer) HeadToHead(teamA, teamB string) (HeadToHead, error) {
	rateA, err := a.winRate(teamA)
	if err != nil {
		return HeadToHead{}, err
	}
	rateB, err := a.winRate(teamB)
	if err != nil {
		return HeadToHead{}, err
	}
	h := HeadToHead{
		TeamA:        teamA,
		TeamB:        teamB,
		TeamAWinRate: model.Round(rateA*100, 2),
		TeamBWinRate: model.Round(rateB*100, 2),
		TeamAPct:     50,
		TeamBPct:     50,
	}
	if total := rateA + rateB; total > 0 {
		h.TeamAPct = model.Round(rateA/total*100, 2)
		h.TeamBPct = model.Round(100-h.TeamAPct, 2)
	}
	return h, nil
}

func (a *Analyzer) winRate(team string) (float64, error) {
	rec, err := a.src.TeamRecord(team, 0)
	if err != nil {
		return 0, err
	}
	if rec.Matches == 0 {
		return 0.5, nil
	}
	return float64(rec.Wins) / float64(rec.Matches), nil
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return model.Round(float64(n)/float64(d)*100, 2)
}
