// Package profile assembles a player's classifications and derived metrics
// into one view shared by the CLI, the JSON API and the cache refresher.
package profile

import (
	"fmt"

	"github.com/pable/cricmetrics/internal/classifier"
	"github.com/pable/cricmetrics/internal/metrics"
	"github.com/pable/cricmetrics/internal/model"
)

// Player is everything derived about one player.
type Player struct {
	Player             string
	Style              classifier.Style
	Batting            classifier.Classification
	Bowling            classifier.Classification
	BattingConsistency float64
	BowlingConsistency float64
	Pressure           metrics.Pressure
	Rotation           float64
	Impact             float64
	Phases             metrics.PhaseSplit
}

// Classification returns the row cached in player_classifications.
func (p *Player) Classification() model.PlayerClassification {
	return model.PlayerClassification{
		Player:       p.Player,
		BattingClass: p.Batting.Class,
		BattingConf:  p.Batting.Confidence,
		BowlingClass: p.Bowling.Class,
		BowlingConf:  p.Bowling.Confidence,
		Consistency:  p.BattingConsistency,
		Impact:       p.Impact,
		Pressure:     p.Pressure.Rating,
	}
}

// Builder computes player views.
type Builder struct {
	engine *metrics.Engine
	cls    *classifier.Classifier
}

// NewBuilder returns a builder over an engine and classifier sharing one store.
func NewBuilder(engine *metrics.Engine, cls *classifier.Classifier) *Builder {
	return &Builder{engine: engine, cls: cls}
}

// Build computes the full view for player. A player with no facts yields
// Insufficient classifications and zero metrics, not an error.
func (b *Builder) Build(player string) (Player, error) {
	p := Player{Player: player, Style: b.cls.Style(player)}
	var err error

	if p.Batting, err = b.cls.ClassifyBatsman(player); err != nil {
		return Player{}, fmt.Errorf("classify batting: %w", err)
	}
	if p.Bowling, err = b.cls.ClassifyBowler(player); err != nil {
		return Player{}, fmt.Errorf("classify bowling: %w", err)
	}
	if p.BattingConsistency, err = b.engine.ConsistencyIndex(player, model.RoleBatting); err != nil {
		return Player{}, fmt.Errorf("batting consistency: %w", err)
	}
	if p.BowlingConsistency, err = b.engine.ConsistencyIndex(player, model.RoleBowling); err != nil {
		return Player{}, fmt.Errorf("bowling consistency: %w", err)
	}
	if p.Pressure, err = b.engine.PressureRating(player); err != nil {
		return Player{}, fmt.Errorf("pressure rating: %w", err)
	}
	if p.Rotation, err = b.engine.StrikeRotation(player); err != nil {
		return Player{}, fmt.Errorf("strike rotation: %w", err)
	}
	if p.Impact, err = b.cls.ImpactScore(player); err != nil {
		return Player{}, fmt.Errorf("impact score: %w", err)
	}
	if p.Phases, err = b.engine.PhaseWise(player, model.RoleBatting); err != nil {
		return Player{}, fmt.Errorf("phase split: %w", err)
	}
	return p, nil
}
