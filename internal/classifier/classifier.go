// Package classifier assigns rule-based archetypes to players from their
// aggregate statistics and scores their impact in winning matches.
package classifier

import (
	"github.com/pable/cricmetrics/internal/model"
)

// Insufficient is the class reported when a player has too few qualifying
// innings or matches to classify.
const Insufficient = "Insufficient Data"

const (
	minInnings      = 10
	minBattingBalls = 10
	minMatches      = 10
	minBowlingOvers = 2.0
)

// Source is the read surface the classifier needs. *storage.DB satisfies it.
type Source interface {
	BattingProfile(player string, minBalls int) (model.BattingProfile, error)
	BowlingProfile(player string, minOvers float64) (model.BowlingProfile, error)
	WinningRuns(player string) ([]int, error)
	WinningWickets(player string) ([]int, error)
}

// Classification is the archetype assigned to a player in one role, with the
// rounded figures that produced it.
type Classification struct {
	Player          string
	Role            model.Role
	Class           string
	Confidence      float64
	Characteristics []string
	Strengths       []string
	Batting         *model.BattingProfile `json:",omitempty"`
	Bowling         *model.BowlingProfile `json:",omitempty"`
}

// IsInsufficient reports whether the player could not be classified.
func (c Classification) IsInsufficient() bool { return c.Class == Insufficient }

// Classifier reads profiles from a Source and applies the rule tables.
type Classifier struct {
	src    Source
	styles StyleLookup
}

// New returns a classifier. styles may be nil.
func New(src Source, styles StyleLookup) *Classifier {
	return &Classifier{src: src, styles: styles}
}

// ClassifyBatsman classifies the player's batting from innings of 10+ balls.
func (c *Classifier) ClassifyBatsman(player string) (Classification, error) {
	p, err := c.src.BattingProfile(player, minBattingBalls)
	if err != nil {
		return Classification{}, err
	}
	out := ClassifyBatting(p)
	out.Player = player
	return out, nil
}

// ClassifyBowler classifies the player's bowling from spells of 2+ overs.
func (c *Classifier) ClassifyBowler(player string) (Classification, error) {
	p, err := c.src.BowlingProfile(player, minBowlingOvers)
	if err != nil {
		return Classification{}, err
	}
	out := ClassifyBowling(p)
	out.Player = player
	return out, nil
}

// Style returns the player's recorded batting and bowling style.
func (c *Classifier) Style(player string) Style {
	return c.styles.Lookup(player)
}

// ClassifyBatting applies BattingRules to a profile. Fewer than 10 innings
// yields Insufficient with zero confidence.
func ClassifyBatting(p model.BattingProfile) Classification {
	out := Classification{Role: model.RoleBatting}
	if p.Innings < minInnings {
		out.Class = Insufficient
		return out
	}
	r, _ := Evaluate(BattingRules, p)
	fill(&out, r.Class, r.Confidence, r.Characteristics, r.Strengths)
	out.Batting = &model.BattingProfile{
		Innings:             p.Innings,
		AvgRuns:             model.Round(p.AvgRuns, 2),
		AvgStrikeRate:       model.Round(p.AvgStrikeRate, 2),
		BoundariesPerInning: model.Round(p.BoundariesPerInning, 2),
		AvgPosition:         model.Round(p.AvgPosition, 1),
		TotalRuns:           p.TotalRuns,
		FiftyRate:           model.Round(p.FiftyRate, 1),
	}
	return out
}

// ClassifyBowling applies BowlingRules to a profile. Fewer than 10 matches
// yields Insufficient with zero confidence.
func ClassifyBowling(p model.BowlingProfile) Classification {
	out := Classification{Role: model.RoleBowling}
	if p.Matches < minMatches {
		out.Class = Insufficient
		return out
	}
	r, _ := Evaluate(BowlingRules, p)
	fill(&out, r.Class, r.Confidence, r.Characteristics, r.Strengths)
	out.Bowling = &model.BowlingProfile{
		Matches:         p.Matches,
		AvgEconomy:      model.Round(p.AvgEconomy, 2),
		WicketsPerMatch: model.Round(p.WicketsPerMatch, 2),
		DotBallPct:      model.Round(p.DotBallPct, 1),
		TotalWickets:    p.TotalWickets,
	}
	return out
}

func fill(c *Classification, class string, conf float64, chars, strengths []string) {
	c.Class = class
	c.Confidence = conf
	c.Characteristics = append([]string(nil), chars...)
	c.Strengths = append([]string(nil), strengths...)
}

// ---- Impact ----

// ImpactScore averages a stepped score over the player's contributions in
// matches their team won. A side counts only when its average is positive;
// with both sides the result is their mean.
func (c *Classifier) ImpactScore(player string) (float64, error) {
	runs, err := c.src.WinningRuns(player)
	if err != nil {
		return 0, err
	}
	wickets, err := c.src.WinningWickets(player)
	if err != nil {
		return 0, err
	}
	return combineImpact(average(runs, battingImpact), average(wickets, bowlingImpact)), nil
}

func battingImpact(runs int) float64 {
	switch {
	case runs >= 50:
		return 100
	case runs >= 30:
		return 70
	case runs >= 20:
		return 50
	}
	return float64(runs * 2)
}

func bowlingImpact(wickets int) float64 {
	switch {
	case wickets >= 3:
		return 100
	case wickets >= 2:
		return 70
	case wickets >= 1:
		return 50
	}
	return 20
}

func average(vals []int, score func(int) float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += score(v)
	}
	return sum / float64(len(vals))
}

func combineImpact(bat, bowl float64) float64 {
	switch {
	case bat > 0 && bowl > 0:
		return model.Round((bat+bowl)/2, 2)
	case bat > 0:
		return model.Round(bat, 2)
	case bowl > 0:
		return model.Round(bowl, 2)
	}
	return 0
}
