package classifier

import "github.com/pable/cricmetrics/internal/model"

// Rule is one row of an ordered decision table. Tables are evaluated top to
// bottom and the first matching rule wins; conditions overlap, so order is
// part of the table.
type Rule[P any] struct {
	Class           string
	Confidence      float64
	Characteristics []string
	Strengths       []string
	Match           func(P) bool
}

func always[P any](P) bool { return true }

// BattingRules classifies a batter's profile. The last rule is the fallback.
var BattingRules = []Rule[model.BattingProfile]{
	{
		Class:           "Power Hitter",
		Confidence:      0.85,
		Characteristics: []string{"Explosive batting", "High boundary percentage", "Game changer"},
		Strengths:       []string{"Can accelerate quickly", "Intimidates bowlers", "Match-winning ability"},
		Match: func(p model.BattingProfile) bool {
			return p.AvgStrikeRate > 145 && p.BoundariesPerInning > 7
		},
	},
	{
		Class:           "Finisher",
		Confidence:      0.82,
		Characteristics: []string{"Death overs specialist", "High pressure performer", "Lower middle order"},
		Strengths:       []string{"Excellent under pressure", "Can hit from ball one", "Smart shot selection"},
		Match: func(p model.BattingProfile) bool {
			return p.AvgPosition > 5 && p.AvgStrikeRate > 140 && p.AvgRuns > 20
		},
	},
	{
		Class:           "Aggressive Opener",
		Confidence:      0.88,
		Characteristics: []string{"Sets tone in powerplay", "Fast starter", "Boundary hitter"},
		Strengths:       []string{"Powerplay domination", "Pressure absorber", "Quick runs"},
		Match: func(p model.BattingProfile) bool {
			return p.AvgPosition <= 2 && p.AvgStrikeRate > 140
		},
	},
	{
		Class:           "Anchor",
		Confidence:      0.80,
		Characteristics: []string{"Consistent performer", "Builds innings", "Reliable"},
		Strengths:       []string{"High consistency", "Rotates strike well", "Long innings"},
		Match: func(p model.BattingProfile) bool {
			return p.AvgStrikeRate >= 120 && p.AvgStrikeRate <= 135 && p.FiftyRate > 20
		},
	},
	{
		Class:           "Accumulator",
		Confidence:      0.75,
		Characteristics: []string{"Steady scorer", "Builds partnerships", "Low risk"},
		Strengths:       []string{"Dependable", "Few dismissals", "Good technique"},
		Match: func(p model.BattingProfile) bool {
			return p.AvgStrikeRate >= 115 && p.AvgStrikeRate <= 130 && p.AvgRuns > 30
		},
	},
	{
		Class:           "Middle Order Stabilizer",
		Confidence:      0.78,
		Characteristics: []string{"Crisis management", "Adaptable", "Match awareness"},
		Strengths:       []string{"Versatile batting", "Anchors innings", "Smart play"},
		Match: func(p model.BattingProfile) bool {
			return p.AvgPosition >= 3 && p.AvgPosition <= 5 && p.AvgRuns > 25
		},
	},
	{
		Class:           "All-rounder Batsman",
		Confidence:      0.65,
		Characteristics: []string{"Flexible role", "Adaptable", "Team player"},
		Strengths:       []string{"Can bat anywhere", "Multiple gears", "Versatile"},
		Match:           always[model.BattingProfile],
	},
}

// BowlingRules classifies a bowler's profile. The last rule is the fallback.
var BowlingRules = []Rule[model.BowlingProfile]{
	{
		Class:           "Death Specialist",
		Confidence:      0.85,
		Characteristics: []string{"Calm under pressure", "Yorker expert", "Death overs bowler"},
		Strengths:       []string{"Excellent variations", "Composure", "Strategic bowling"},
		Match: func(p model.BowlingProfile) bool {
			return p.AvgEconomy < 9 && p.WicketsPerMatch >= 0.8
		},
	},
	{
		Class:           "Wicket Taker",
		Confidence:      0.88,
		Characteristics: []string{"Strike bowler", "Breakthrough specialist", "Aggressive"},
		Strengths:       []string{"Takes key wickets", "Game changer", "High impact"},
		Match: func(p model.BowlingProfile) bool {
			return p.WicketsPerMatch >= 1.3
		},
	},
	{
		Class:           "Economy Bowler",
		Confidence:      0.82,
		Characteristics: []string{"Tight lines", "Pressure builder", "Difficult to score"},
		Strengths:       []string{"Builds pressure", "Consistent", "Reliable"},
		Match: func(p model.BowlingProfile) bool {
			return p.AvgEconomy < 7.5 && p.DotBallPct > 45
		},
	},
	{
		Class:           "Powerplay Expert",
		Confidence:      0.80,
		Characteristics: []string{"New ball specialist", "Early wickets", "Sets tone"},
		Strengths:       []string{"Swing/seam bowling", "Early breakthroughs", "Restricts powerplay"},
		Match: func(p model.BowlingProfile) bool {
			return p.WicketsPerMatch >= 1.0 && p.AvgEconomy < 8
		},
	},
	{
		Class:           "All-Phase Bowler",
		Confidence:      0.70,
		Characteristics: []string{"Versatile", "Can bowl any phase", "Adaptable"},
		Strengths:       []string{"Flexible role", "Multiple variations", "Team player"},
		Match:           always[model.BowlingProfile],
	},
}

// Evaluate returns the first rule of table that matches p. The boolean is
// false only when no rule matches, which cannot happen for the built-in
// tables since each ends in a fallback.
func Evaluate[P any](table []Rule[P], p P) (Rule[P], bool) {
	for _, r := range table {
		if r.Match(p) {
			return r, true
		}
	}
	return Rule[P]{}, false
}
