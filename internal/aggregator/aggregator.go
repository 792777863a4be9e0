package aggregator

import (
	"fmt"

	"github.com/pable/cricmetrics/internal/model"
)

// Aggregate builds the batting and bowling facts of every regular innings in
// raw. Super-over innings are ignored and do not consume an innings number.
// The returned facts carry no match id yet.
func Aggregate(match model.Match, raw *model.RawRecord) (*model.MatchRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil RawRecord")
	}

	rec := &model.MatchRecord{Match: match}
	number := 0
	for _, inn := range raw.Innings {
		if inn.SuperOver {
			continue
		}
		number++
		bat, bowl := Innings(inn, number, match.OtherTeam(inn.Team))
		rec.Batting = append(rec.Batting, bat...)
		rec.Bowling = append(rec.Bowling, bowl...)
	}
	return rec, nil
}

// Innings walks one innings in over-then-ball order and emits one fact per
// batter who faced a delivery and one per bowler who bowled one.
func Innings(inn model.RawInnings, number int, bowlingTeam string) ([]model.BattingFact, []model.BowlingFact) {
	bat := newBattingLedger()
	bowl := newBowlingLedger()

	for _, ov := range inn.Overs {
		for _, d := range ov.Deliveries {
			bat.add(d)
			bowl.add(d)
		}
	}
	return bat.facts(inn.Team, number), bowl.facts(bowlingTeam, number)
}

// ---- Batting ----

type batterTally struct {
	runs, balls, fours, sixes int
	position                  int
	dismissal                 string
}

// battingLedger accumulates one innings. Order records first plate appearance.
type battingLedger struct {
	byName map[string]*batterTally
	order  []string
}

func newBattingLedger() *battingLedger {
	return &battingLedger{byName: make(map[string]*batterTally)}
}

func (l *battingLedger) add(d model.RawDelivery) {
	t, ok := l.byName[d.Batter]
	if !ok {
		l.order = append(l.order, d.Batter)
		t = &batterTally{position: len(l.order)}
		l.byName[d.Batter] = t
	}

	// Every delivery entry counts as a ball faced, extras included.
	t.balls++
	t.runs += d.Runs.Batter
	switch d.Runs.Batter {
	case 4:
		t.fours++
	case 6:
		t.sixes++
	}

	for _, w := range d.Wickets {
		if w.PlayerOut != d.Batter {
			continue
		}
		kind := w.Kind
		if kind == "" {
			kind = "out"
		}
		t.dismissal = kind
	}
}

func (l *battingLedger) facts(team string, innings int) []model.BattingFact {
	out := make([]model.BattingFact, 0, len(l.order))
	for _, name := range l.order {
		t := l.byName[name]
		if t.balls == 0 {
			continue
		}
		out = append(out, model.BattingFact{
			Player:        name,
			Team:          team,
			Innings:       innings,
			Runs:          t.runs,
			Balls:         t.balls,
			Fours:         t.fours,
			Sixes:         t.sixes,
			StrikeRate:    model.StrikeRate(t.runs, t.balls),
			Position:      t.position,
			DismissalKind: t.dismissal,
			NotOut:        t.dismissal == "",
		})
	}
	return out
}

// ---- Bowling ----

type bowlerTally struct {
	balls, runs, dots, wickets int
}

type bowlingLedger struct {
	byName map[string]*bowlerTally
	order  []string
}

func newBowlingLedger() *bowlingLedger {
	return &bowlingLedger{byName: make(map[string]*bowlerTally)}
}

func (l *bowlingLedger) add(d model.RawDelivery) {
	t, ok := l.byName[d.Bowler]
	if !ok {
		l.order = append(l.order, d.Bowler)
		t = &bowlerTally{}
		l.byName[d.Bowler] = t
	}

	t.balls++
	t.runs += d.Runs.Total
	if d.Runs.Total == 0 {
		t.dots++
	}
	// Every wicket on the delivery is credited to its bowler, run outs included.
	t.wickets += len(d.Wickets)
}

func (l *bowlingLedger) facts(team string, innings int) []model.BowlingFact {
	out := make([]model.BowlingFact, 0, len(l.order))
	for _, name := range l.order {
		t := l.byName[name]
		if t.balls == 0 {
			continue
		}
		out = append(out, model.BowlingFact{
			Player:       name,
			Team:         team,
			Innings:      innings,
			Balls:        t.balls,
			Overs:        model.Overs(t.balls),
			RunsConceded: t.runs,
			Wickets:      t.wickets,
			Economy:      model.Economy(t.runs, t.balls),
			Dots:         t.dots,
		})
	}
	return out
}
