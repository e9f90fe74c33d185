package grpc

import (
	"context"
	"time"

	"github.com/godilite/dealer-risk/internal/risk"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type RiskService interface {
	EvaluateVisit(ctx context.Context, v risk.Visit) (risk.Assessment, error)
	ScoreVisit(ctx context.Context, visitID string) (risk.ScoredVisit, error)
	GetCustomerRisk(ctx context.Context, customerID string, asOf time.Time) (risk.CustomerRisk, error)
	GetDealershipRisk(ctx context.Context, dealershipID string, asOf time.Time) (risk.Rollup, error)
	GetWorstVisits(ctx context.Context, dealershipID string, limit int) ([]risk.ScoredVisit, error)
}
