// Package metrics computes derived per-player statistics over the fact store.
// Too little data is an ordinary result (zero values), never an error.
package metrics

import (
	"math"

	"github.com/pable/cricmetrics/internal/model"
)

const (
	consistencyWindow   = 20 // most recent qualifying facts considered
	consistencyMinFacts = 10
	consistencyMinBalls = 5
	consistencyMinOvers = 2.0

	pressureMinBalls = 10
	closeMargin      = 20 // runs or wickets; units are not distinguished

	matchupMinBalls = 5
	matchupBatterSR = 140.0
)

// Source is the read surface the engine needs. *storage.DB satisfies it.
type Source interface {
	RecentBattingRuns(player string, minBalls, limit int) ([]float64, error)
	RecentBowlingEconomies(player string, minOvers float64, limit int) ([]float64, error)
	BattingAverages(player string, f model.InningsFilter) (model.BattingAverage, error)
	BoundaryTotals(player string) (runs, fours, sixes int, err error)
	Matchup(batter, bowler string, minBalls int) (model.BattingAverage, error)
}

// Engine evaluates metrics against a Source. It holds no other state.
type Engine struct {
	src Source
}

// New returns an engine reading from src.
func New(src Source) *Engine {
	return &Engine{src: src}
}

// ---- Consistency ----

// ConsistencyIndex scores how steady a player's recent output is, in [0, 100].
// Batting uses runs from innings of 5+ balls, bowling uses economy from spells
// of 2+ overs. Fewer than 10 samples, or a non-positive mean, scores 0.
func (e *Engine) ConsistencyIndex(player string, role model.Role) (float64, error) {
	var values []float64
	var err error
	if role == model.RoleBowling {
		values, err = e.src.RecentBowlingEconomies(player, consistencyMinOvers, consistencyWindow)
	} else {
		values, err = e.src.RecentBattingRuns(player, consistencyMinBalls, consistencyWindow)
	}
	if err != nil {
		return 0, err
	}
	return consistencyScore(values), nil
}

func consistencyScore(values []float64) float64 {
	if len(values) < consistencyMinFacts {
		return 0
	}
	mean, std := meanStd(values)
	if mean <= 0 {
		return 0
	}
	cv := std / mean
	return model.Round(math.Max(0, 100-cv*100), 2)
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)))
}

// ---- Pressure ----

// Pressure compares a batter's output in close and knockout matches against
// their overall average.
type Pressure struct {
	Rating          float64 // > 100 means better under pressure
	CloseAvg        float64
	CloseInnings    int
	KnockoutAvg     float64
	KnockoutInnings int
	OverallAvg      float64
}

// Clutch reports whether the player raises their output under pressure.
func (p Pressure) Clutch() bool { return p.Rating > 100 }

// PressureRating averages the close-match and knockout ratios, times 100.
// Innings need 10+ balls. A zero or missing overall average counts as 1.
func (e *Engine) PressureRating(player string) (Pressure, error) {
	overall, err := e.src.BattingAverages(player, model.InningsFilter{MinBalls: pressureMinBalls})
	if err != nil {
		return Pressure{}, err
	}
	closeAvg, err := e.src.BattingAverages(player, model.InningsFilter{MinBalls: pressureMinBalls, MaxMargin: closeMargin})
	if err != nil {
		return Pressure{}, err
	}
	knockout, err := e.src.BattingAverages(player, model.InningsFilter{MinBalls: pressureMinBalls, MatchTypes: model.KnockoutTypes})
	if err != nil {
		return Pressure{}, err
	}

	base := overall.AvgRuns
	if base == 0 {
		base = 1
	}
	var closeRatio, knockoutRatio float64
	if closeAvg.AvgRuns > 0 {
		closeRatio = closeAvg.AvgRuns / base
	}
	if knockout.AvgRuns > 0 {
		knockoutRatio = knockout.AvgRuns / base
	}

	return Pressure{
		Rating:          model.Round((closeRatio+knockoutRatio)/2*100, 2),
		CloseAvg:        model.Round(closeAvg.AvgRuns, 2),
		CloseInnings:    closeAvg.Innings,
		KnockoutAvg:     model.Round(knockout.AvgRuns, 2),
		KnockoutInnings: knockout.Innings,
		OverallAvg:      model.Round(base, 2),
	}, nil
}

// ---- Strike rotation ----

// StrikeRotation is the percentage of career runs not scored in boundaries.
// It is 0 when the player has no runs.
func (e *Engine) StrikeRotation(player string) (float64, error) {
	runs, fours, sixes, err := e.src.BoundaryTotals(player)
	if err != nil {
		return 0, err
	}
	return rotationPct(runs, fours, sixes), nil
}

func rotationPct(runs, fours, sixes int) float64 {
	if runs <= 0 {
		return 0
	}
	return model.Round(float64(runs-4*fours-6*sixes)/float64(runs)*100, 2)
}

// ---- Phase split ----

// PhaseLine is the mean output for one phase bucket.
type PhaseLine struct {
	Innings       int
	AvgRuns       float64
	AvgStrikeRate float64
}

// PhaseSplit buckets innings by batting position: 1-2 powerplay, 3-5 middle,
// 6+ death. Position stands in for the over phase, which facts do not keep.
type PhaseSplit struct {
	Powerplay PhaseLine
	Middle    PhaseLine
	Death     PhaseLine
}

var phaseBuckets = []struct {
	min, max int
	pick     func(*PhaseSplit) *PhaseLine
}{
	{1, 2, func(p *PhaseSplit) *PhaseLine { return &p.Powerplay }},
	{3, 5, func(p *PhaseSplit) *PhaseLine { return &p.Middle }},
	{6, 0, func(p *PhaseSplit) *PhaseLine { return &p.Death }},
}

// PhaseWise reports the phase split. Only batting is split; any other role
// yields an empty result.
func (e *Engine) PhaseWise(player string, role model.Role) (PhaseSplit, error) {
	var out PhaseSplit
	if role != model.RoleBatting {
		return out, nil
	}
	for _, b := range phaseBuckets {
		avg, err := e.src.BattingAverages(player, model.InningsFilter{MinPosition: b.min, MaxPosition: b.max})
		if err != nil {
			return PhaseSplit{}, err
		}
		*b.pick(&out) = PhaseLine{
			Innings:       avg.Innings,
			AvgRuns:       model.Round(avg.AvgRuns, 2),
			AvgStrikeRate: model.Round(avg.AvgStrikeRate, 2),
		}
	}
	return out, nil
}

// ---- Matchup ----

// Advantage names the side a matchup favours.
type Advantage string

const (
	AdvantageBatsman Advantage = "Batsman"
	AdvantageBowler  Advantage = "Bowler"
)

// MatchupResult summarises a batter's innings in matches shared with a bowler.
// Advantage is empty when they never met.
type MatchupResult struct {
	Batter     string
	Bowler     string
	Encounters int
	BatterAvg  float64
	StrikeRate float64
	Advantage  Advantage
}

// Matchup compares a batter against a bowler over the matches where both
// have facts, counting batting innings of 5+ balls. The bowler is favoured
// unless the batter's average strike rate exceeds 140.
func (e *Engine) Matchup(batter, bowler string) (MatchupResult, error) {
	avg, err := e.src.Matchup(batter, bowler, matchupMinBalls)
	if err != nil {
		return MatchupResult{}, err
	}
	res := MatchupResult{Batter: batter, Bowler: bowler, Encounters: avg.Innings}
	if avg.Innings == 0 {
		return res, nil
	}
	res.BatterAvg = model.Round(avg.AvgRuns, 2)
	res.StrikeRate = model.Round(avg.AvgStrikeRate, 2)
	res.Advantage = AdvantageBowler
	if avg.AvgStrikeRate > matchupBatterSR {
		res.Advantage = AdvantageBatsman
	}
	return res, nil
}
