package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pable/cricmetrics/internal/model"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) RecentBattingRuns(player string, minBalls, limit int) ([]float64, error) {
	args := m.Called(player, minBalls, limit)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockSource) RecentBowlingEconomies(player string, minOvers float64, limit int) ([]float64, error) {
	args := m.Called(player, minOvers, limit)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockSource) BattingAverages(player string, f model.InningsFilter) (model.BattingAverage, error) {
	args := m.Called(player, f)
	return args.Get(0).(model.BattingAverage), args.Error(1)
}

func (m *MockSource) BoundaryTotals(player string) (int, int, int, error) {
	args := m.Called(player)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}

func (m *MockSource) Matchup(batter, bowler string, minBalls int) (model.BattingAverage, error) {
	args := m.Called(batter, bowler, minBalls)
	return args.Get(0).(model.BattingAverage), args.Error(1)
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestConsistencyIndex(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"too few samples", repeat(30, 9), 0},
		{"identical scores", repeat(30, 10), 100},
		{"zero mean", repeat(0, 12), 0},
		// mean 20, population std 10 => cv 0.5
		{"alternating", []float64{10, 30, 10, 30, 10, 30, 10, 30, 10, 30}, 50},
		// cv > 1 clamps at 0
		{"wild", []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(MockSource)
			src.On("RecentBattingRuns", "X", 5, 20).Return(tt.values, nil)

			got, err := New(src).ConsistencyIndex("X", model.RoleBatting)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
			src.AssertExpectations(t)
		})
	}
}

func TestConsistencyIndexBowling(t *testing.T) {
	src := new(MockSource)
	src.On("RecentBowlingEconomies", "Y", 2.0, 20).Return(repeat(7.5, 15), nil)

	got, err := New(src).ConsistencyIndex("Y", model.RoleBowling)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
	src.AssertExpectations(t)
}

func TestConsistencyIndexError(t *testing.T) {
	src := new(MockSource)
	src.On("RecentBattingRuns", "X", 5, 20).Return([]float64(nil), errors.New("boom"))

	_, err := New(src).ConsistencyIndex("X", model.RoleBatting)
	assert.Error(t, err)
}

func pressureSource(overall, close, knockout float64) *MockSource {
	src := new(MockSource)
	src.On("BattingAverages", "X", model.InningsFilter{MinBalls: 10}).
		Return(model.BattingAverage{Innings: 40, AvgRuns: overall}, nil)
	src.On("BattingAverages", "X", model.InningsFilter{MinBalls: 10, MaxMargin: 20}).
		Return(model.BattingAverage{Innings: 12, AvgRuns: close}, nil)
	src.On("BattingAverages", "X", model.InningsFilter{MinBalls: 10, MatchTypes: model.KnockoutTypes}).
		Return(model.BattingAverage{Innings: 4, AvgRuns: knockout}, nil)
	return src
}

func TestPressureRating(t *testing.T) {
	src := pressureSource(30, 36, 45)
	p, err := New(src).PressureRating("X")
	require.NoError(t, err)

	// (1.2 + 1.5) / 2 * 100
	assert.Equal(t, 135.0, p.Rating)
	assert.True(t, p.Clutch())
	assert.Equal(t, 4, p.KnockoutInnings)
	src.AssertExpectations(t)
}

func TestPressureRatingNoKnockouts(t *testing.T) {
	p, err := New(pressureSource(30, 30, 0)).PressureRating("X")
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Rating)
	assert.False(t, p.Clutch())
}

func TestPressureRatingZeroOverall(t *testing.T) {
	p, err := New(pressureSource(0, 0, 0)).PressureRating("X")
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 1.0, p.OverallAvg)
}

func TestStrikeRotation(t *testing.T) {
	src := new(MockSource)
	src.On("BoundaryTotals", "X").Return(200, 10, 5, nil)
	src.On("BoundaryTotals", "Nobody").Return(0, 0, 0, nil)
	e := New(src)

	got, err := e.StrikeRotation("X")
	require.NoError(t, err)
	// (200 - 40 - 30) / 200
	assert.Equal(t, 65.0, got)

	got, err = e.StrikeRotation("Nobody")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestPhaseWise(t *testing.T) {
	src := new(MockSource)
	src.On("BattingAverages", "X", model.InningsFilter{MinPosition: 1, MaxPosition: 2}).
		Return(model.BattingAverage{Innings: 10, AvgRuns: 31.456, AvgStrikeRate: 138.123}, nil)
	src.On("BattingAverages", "X", model.InningsFilter{MinPosition: 3, MaxPosition: 5}).
		Return(model.BattingAverage{Innings: 3, AvgRuns: 22, AvgStrikeRate: 120}, nil)
	src.On("BattingAverages", "X", model.InningsFilter{MinPosition: 6}).
		Return(model.BattingAverage{}, nil)

	split, err := New(src).PhaseWise("X", model.RoleBatting)
	require.NoError(t, err)
	assert.Equal(t, 31.46, split.Powerplay.AvgRuns)
	assert.Equal(t, 138.12, split.Powerplay.AvgStrikeRate)
	assert.Equal(t, 3, split.Middle.Innings)
	assert.Equal(t, PhaseLine{}, split.Death)
	src.AssertExpectations(t)
}

func TestPhaseWiseBowlingIsEmpty(t *testing.T) {
	src := new(MockSource)
	split, err := New(src).PhaseWise("X", model.RoleBowling)
	require.NoError(t, err)
	assert.Equal(t, PhaseSplit{}, split)
	src.AssertNotCalled(t, "BattingAverages", mock.Anything, mock.Anything)
}

func TestMatchup(t *testing.T) {
	src := new(MockSource)
	src.On("Matchup", "Bat", "Ball", 5).Return(model.BattingAverage{Innings: 6, AvgRuns: 28.333, AvgStrikeRate: 152.5}, nil)
	src.On("Matchup", "Bat", "Tight", 5).Return(model.BattingAverage{Innings: 4, AvgRuns: 12, AvgStrikeRate: 140}, nil)
	src.On("Matchup", "Bat", "Stranger", 5).Return(model.BattingAverage{}, nil)
	e := New(src)

	m, err := e.Matchup("Bat", "Ball")
	require.NoError(t, err)
	assert.Equal(t, 6, m.Encounters)
	assert.Equal(t, 28.33, m.BatterAvg)
	assert.Equal(t, AdvantageBatsman, m.Advantage)

	m, err = e.Matchup("Bat", "Tight")
	require.NoError(t, err)
	assert.Equal(t, AdvantageBowler, m.Advantage, "strike rate of exactly 140 favours the bowler")

	m, err = e.Matchup("Bat", "Stranger")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Encounters)
	assert.Empty(t, m.Advantage)
}
