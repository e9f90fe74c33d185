// Package risk scores service visits and aggregates them into customer and
// dealership risk. Everything here is pure: no I/O, no clock, no shared state.
package risk

import (
	"fmt"
	"math"
)

// Engine computes assessments from a fixed Config. It is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New validates cfg and returns an Engine bound to it.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Default returns an Engine using DefaultConfig.
func Default() *Engine {
	e, err := New(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("default risk config: %v", err))
	}
	return e
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// LevelFor maps a 0-100 score to its level using inclusive upper bounds.
func (e *Engine) LevelFor(score float64) Level {
	switch {
	case score <= e.cfg.SafeMaxScore:
		return LevelSafe
	case score <= e.cfg.AtRiskMaxScore:
		return LevelAtRisk
	default:
		return LevelCritical
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toScore turns a weighted risk sum into an integer-valued 0-100 score.
func toScore(sum float64) float64 {
	return math.Round(clamp01(sum) * 100)
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}
