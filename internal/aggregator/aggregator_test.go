package aggregator

import (
	"testing"

	"github.com/pable/cricmetrics/internal/model"
)

// del builds a delivery with runs off the bat and any extras.
func del(batter, bowler string, bat, extras int, wickets ...model.RawWicket) model.RawDelivery {
	return model.RawDelivery{
		Batter:  batter,
		Bowler:  bowler,
		Runs:    model.RawRuns{Batter: bat, Extras: extras, Total: bat + extras},
		Wickets: wickets,
	}
}

// overs packs deliveries into consecutive six-ball overs.
func overs(ds []model.RawDelivery) []model.RawOver {
	var out []model.RawOver
	for i := 0; i < len(ds); i += 6 {
		end := i + 6
		if end > len(ds) {
			end = len(ds)
		}
		out = append(out, model.RawOver{Over: i / 6, Deliveries: ds[i:end]})
	}
	return out
}

func testMatch() model.Match {
	return model.Match{Season: 2020, Date: "2020-09-19", Team1: "Alpha", Team2: "Beta", Venue: "Ground"}
}

func findBat(t *testing.T, facts []model.BattingFact, player string) model.BattingFact {
	t.Helper()
	for _, f := range facts {
		if f.Player == player {
			return f
		}
	}
	t.Fatalf("no batting fact for %q", player)
	return model.BattingFact{}
}

func findBowl(t *testing.T, facts []model.BowlingFact, player string) model.BowlingFact {
	t.Helper()
	for _, f := range facts {
		if f.Player == player {
			return f
		}
	}
	t.Fatalf("no bowling fact for %q", player)
	return model.BowlingFact{}
}

// ---- Batting ----

// X scores 60 off 40: 4 fours, 2 sixes, 32 singles, 2 dots.
func TestBattingExampleInnings(t *testing.T) {
	var ds []model.RawDelivery
	for i := 0; i < 4; i++ {
		ds = append(ds, del("X", "B1", 4, 0))
	}
	for i := 0; i < 2; i++ {
		ds = append(ds, del("X", "B1", 6, 0))
	}
	for i := 0; i < 32; i++ {
		ds = append(ds, del("X", "B2", 1, 0))
	}
	ds = append(ds, del("X", "B2", 0, 0), del("X", "B2", 0, 0))

	bat, _ := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 1, "Beta")
	x := findBat(t, bat, "X")

	if x.Runs != 60 || x.Balls != 40 {
		t.Errorf("runs/balls: got %d/%d, want 60/40", x.Runs, x.Balls)
	}
	if x.Fours != 4 || x.Sixes != 2 {
		t.Errorf("fours/sixes: got %d/%d, want 4/2", x.Fours, x.Sixes)
	}
	if x.StrikeRate != 150.00 {
		t.Errorf("StrikeRate: got %.2f, want 150.00", x.StrikeRate)
	}
	if !x.NotOut || x.DismissalKind != "" {
		t.Errorf("expected not out, got dismissal %q", x.DismissalKind)
	}
	if x.Team != "Alpha" || x.Innings != 1 {
		t.Errorf("team/innings: got %s/%d", x.Team, x.Innings)
	}
}

func TestBattingPositionsByFirstAppearance(t *testing.T) {
	ds := []model.RawDelivery{
		del("Opener2", "B", 1, 0), // non-striker of record faces first
		del("Opener1", "B", 0, 0),
		del("Opener2", "B", 0, 0, model.RawWicket{PlayerOut: "Opener2", Kind: "bowled"}),
		del("Three", "B", 2, 0),
		del("Opener1", "B", 4, 0),
	}
	bat, _ := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 1, "Beta")

	want := map[string]int{"Opener2": 1, "Opener1": 2, "Three": 3}
	for name, pos := range want {
		if got := findBat(t, bat, name).Position; got != pos {
			t.Errorf("%s position: got %d, want %d", name, got, pos)
		}
	}
	if len(bat) != 3 {
		t.Fatalf("expected 3 batting facts, got %d", len(bat))
	}
	if bat[0].Player != "Opener2" || bat[2].Player != "Three" {
		t.Errorf("facts not emitted in appearance order: %v", bat)
	}
}

func TestBattingDismissal(t *testing.T) {
	ds := []model.RawDelivery{
		del("A", "B", 1, 0),
		del("C", "B", 0, 0, model.RawWicket{PlayerOut: "C", Kind: "caught"}),
		// run out of the non-striker is not attributed to the striker
		del("A", "B", 0, 0, model.RawWicket{PlayerOut: "D", Kind: "run out"}),
		del("E", "B", 0, 0, model.RawWicket{PlayerOut: "E"}),
	}
	bat, _ := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 2, "Beta")

	if c := findBat(t, bat, "C"); c.NotOut || c.DismissalKind != "caught" {
		t.Errorf("C: got notOut=%v kind=%q, want caught", c.NotOut, c.DismissalKind)
	}
	if a := findBat(t, bat, "A"); !a.NotOut {
		t.Errorf("A: expected not out, got %q", a.DismissalKind)
	}
	if e := findBat(t, bat, "E"); e.DismissalKind != "out" {
		t.Errorf("E: missing kind should default to %q, got %q", "out", e.DismissalKind)
	}
	for _, f := range bat {
		if f.Player == "D" {
			t.Errorf("D never faced a ball and must not produce a fact")
		}
	}
}

func TestBattingExtrasCountAsBallsFaced(t *testing.T) {
	ds := []model.RawDelivery{
		del("A", "B", 0, 1), // wide
		del("A", "B", 2, 0),
	}
	bat, _ := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 1, "Beta")
	a := findBat(t, bat, "A")
	if a.Balls != 2 || a.Runs != 2 {
		t.Errorf("got runs=%d balls=%d, want 2/2", a.Runs, a.Balls)
	}
	if a.StrikeRate != 100 {
		t.Errorf("StrikeRate: got %.2f, want 100", a.StrikeRate)
	}
}

// Batting runs of one innings must sum to the runs off the bat of its deliveries.
func TestBattingRunsMatchDeliveries(t *testing.T) {
	ds := []model.RawDelivery{
		del("A", "P", 4, 0), del("A", "P", 1, 1), del("B", "P", 6, 0),
		del("B", "Q", 0, 0, model.RawWicket{PlayerOut: "B", Kind: "lbw"}),
		del("C", "Q", 2, 0), del("A", "Q", 3, 4),
	}
	bat, _ := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 1, "Beta")

	var want, got int
	for _, d := range ds {
		want += d.Runs.Batter
	}
	for _, f := range bat {
		got += f.Runs
		if f.Balls <= 0 {
			t.Errorf("%s has %d balls", f.Player, f.Balls)
		}
		if f.StrikeRate != model.StrikeRate(f.Runs, f.Balls) {
			t.Errorf("%s strike rate %.2f does not match runs/balls", f.Player, f.StrikeRate)
		}
	}
	if got != want {
		t.Errorf("batting runs: got %d, want %d", got, want)
	}
}

// ---- Bowling ----

func TestBowlingFigures(t *testing.T) {
	ds := []model.RawDelivery{
		del("A", "P", 0, 0),
		del("A", "P", 4, 0),
		del("A", "P", 0, 1), // wide: not a dot, charged to bowler
		del("A", "P", 0, 0, model.RawWicket{PlayerOut: "A", Kind: "bowled"}),
		del("C", "P", 1, 0),
		del("C", "P", 0, 0),
	}
	_, bowl := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 1, "Beta")
	p := findBowl(t, bowl, "P")

	if p.Balls != 6 || p.Overs != 1.0 {
		t.Errorf("balls/overs: got %d/%.1f, want 6/1.0", p.Balls, p.Overs)
	}
	if p.RunsConceded != 6 {
		t.Errorf("RunsConceded: got %d, want 6", p.RunsConceded)
	}
	if p.Dots != 3 {
		t.Errorf("Dots: got %d, want 3", p.Dots)
	}
	if p.Wickets != 1 {
		t.Errorf("Wickets: got %d, want 1", p.Wickets)
	}
	if p.Economy != 6.0 {
		t.Errorf("Economy: got %.2f, want 6.00", p.Economy)
	}
	if p.Team != "Beta" {
		t.Errorf("bowling team: got %q, want Beta", p.Team)
	}
}

func TestBowlingCreditsEveryWicketOnDelivery(t *testing.T) {
	ds := []model.RawDelivery{
		del("A", "P", 0, 0,
			model.RawWicket{PlayerOut: "A", Kind: "caught"},
			model.RawWicket{PlayerOut: "B", Kind: "run out"}),
	}
	_, bowl := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 1, "Beta")
	if w := findBowl(t, bowl, "P").Wickets; w != 2 {
		t.Errorf("Wickets: got %d, want 2", w)
	}
}

func TestBowlingOversRounding(t *testing.T) {
	var ds []model.RawDelivery
	for i := 0; i < 22; i++ {
		ds = append(ds, del("A", "P", 1, 0))
	}
	_, bowl := Innings(model.RawInnings{Team: "Alpha", Overs: overs(ds)}, 1, "Beta")
	p := findBowl(t, bowl, "P")
	if p.Overs != 3.7 {
		t.Errorf("Overs: got %.1f, want 3.7 (22/6 rounded)", p.Overs)
	}
	if p.Economy != 6.0 {
		t.Errorf("Economy: got %.2f, want 6.00", p.Economy)
	}
}

// ---- Whole match ----

func TestAggregateResolvesBowlingTeamAndSkipsSuperOver(t *testing.T) {
	m := testMatch()
	raw := &model.RawRecord{
		Innings: []model.RawInnings{
			{Team: "Alpha", Overs: overs([]model.RawDelivery{del("A1", "B1", 1, 0)})},
			{Team: "Beta", Overs: overs([]model.RawDelivery{del("B1", "A1", 2, 0)})},
			{Team: "Alpha", SuperOver: true, Overs: overs([]model.RawDelivery{del("A1", "B2", 6, 0)})},
		},
	}
	rec, err := Aggregate(m, raw)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(rec.Batting) != 2 || len(rec.Bowling) != 2 {
		t.Fatalf("expected 2 batting and 2 bowling facts, got %d/%d", len(rec.Batting), len(rec.Bowling))
	}

	first := rec.Bowling[0]
	if first.Player != "B1" || first.Team != "Beta" || first.Innings != 1 {
		t.Errorf("innings 1 bowler: got %+v", first)
	}
	second := rec.Bowling[1]
	if second.Player != "A1" || second.Team != "Alpha" || second.Innings != 2 {
		t.Errorf("innings 2 bowler: got %+v", second)
	}
	if a1 := rec.Batting[0]; a1.Runs != 1 {
		t.Errorf("super over runs leaked into A1: %d", a1.Runs)
	}
}

func TestAggregateNilRecord(t *testing.T) {
	if _, err := Aggregate(testMatch(), nil); err == nil {
		t.Error("expected error for nil record")
	}
}

func TestAggregateEmptyInnings(t *testing.T) {
	rec, err := Aggregate(testMatch(), &model.RawRecord{Innings: []model.RawInnings{{Team: "Alpha"}}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(rec.Batting) != 0 || len(rec.Bowling) != 0 {
		t.Errorf("empty innings produced facts: %+v", rec)
	}
}
