package risk

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid risk config")

// VisitWeights are the per-factor weights of a single visit score.
type VisitWeights struct {
	Delay      float64
	Price      float64
	Feedback   float64
	Repeat     float64
	Resolution float64
}

func (w VisitWeights) sum() float64 {
	return w.Delay + w.Price + w.Feedback + w.Repeat + w.Resolution
}

// HistoryWeights are the per-signal weights of a customer aggregate.
type HistoryWeights struct {
	AvgDelay        float64
	AvgVisitScore   float64
	AvgFeedback     float64
	MissingFeedback float64
	Repeat          float64
	Unresolved      float64
	Recency         float64
}

func (w HistoryWeights) sum() float64 {
	return w.AvgDelay + w.AvgVisitScore + w.AvgFeedback + w.MissingFeedback + w.Repeat + w.Unresolved + w.Recency
}

// Config holds the normalization baselines, weights and level thresholds.
type Config struct {
	BasePrice         float64
	MaxDelayDays      int
	MaxRepeatIssues   int
	MaxFeedbackStars  int
	RecencyWindowDays int
	SafeMaxScore      float64
	AtRiskMaxScore    float64
	WorstVisitsLimit  int
	CurrencySymbol    string
	VisitWeights      VisitWeights
	HistoryWeights    HistoryWeights
}

// DefaultConfig returns the canonical 0-100 model.
func DefaultConfig() Config {
	return Config{
		BasePrice:         5000,
		MaxDelayDays:      30,
		MaxRepeatIssues:   2,
		MaxFeedbackStars:  5,
		RecencyWindowDays: 180,
		SafeMaxScore:      30,
		AtRiskMaxScore:    60,
		WorstVisitsLimit:  3,
		CurrencySymbol:    "₹",
		VisitWeights: VisitWeights{
			Delay:      0.20,
			Price:      0.25,
			Feedback:   0.20,
			Repeat:     0.20,
			Resolution: 0.15,
		},
		HistoryWeights: HistoryWeights{
			AvgDelay:        0.18,
			AvgVisitScore:   0.20,
			AvgFeedback:     0.18,
			MissingFeedback: 0.12,
			Repeat:          0.12,
			Unresolved:      0.12,
			Recency:         0.08,
		},
	}
}

const weightTolerance = 1e-9

// Validate checks baselines and that both weight sets sum to 1.
func (c Config) Validate() error {
	switch {
	case c.BasePrice <= 0:
		return fmt.Errorf("%w: base price must be positive", ErrInvalidConfig)
	case c.MaxDelayDays <= 0:
		return fmt.Errorf("%w: max delay days must be positive", ErrInvalidConfig)
	case c.MaxRepeatIssues <= 0:
		return fmt.Errorf("%w: max repeat issues must be positive", ErrInvalidConfig)
	case c.MaxFeedbackStars <= 0:
		return fmt.Errorf("%w: max feedback stars must be positive", ErrInvalidConfig)
	case c.RecencyWindowDays <= 0:
		return fmt.Errorf("%w: recency window must be positive", ErrInvalidConfig)
	case c.SafeMaxScore < 0 || c.AtRiskMaxScore < c.SafeMaxScore || c.AtRiskMaxScore > 100:
		return fmt.Errorf("%w: thresholds must satisfy 0 <= safe <= at-risk <= 100", ErrInvalidConfig)
	}
	if s := c.VisitWeights.sum(); math.Abs(s-1) > weightTolerance {
		return fmt.Errorf("%w: visit weights sum to %.4f, want 1", ErrInvalidConfig, s)
	}
	if s := c.HistoryWeights.sum(); math.Abs(s-1) > weightTolerance {
		return fmt.Errorf("%w: history weights sum to %.4f, want 1", ErrInvalidConfig, s)
	}
	return nil
}
