package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/dealer-risk/internal/repository"
	"github.com/godilite/dealer-risk/internal/risk"
	"go.uber.org/zap"
)

const (
	dbTimeout = 2 * time.Second
)

var (
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")
)

type Option func(*RiskService)

// WithClock sets the source of "now" used when a caller passes a zero as-of time.
func WithClock(now func() time.Time) Option {
	return func(s *RiskService) { s.now = now }
}

// WithEngine replaces the default scoring engine.
func WithEngine(e *risk.Engine) Option {
	return func(s *RiskService) { s.engine = e }
}

// RiskService loads CRM records and runs them through the risk engine.
type RiskService struct {
	storage RiskRepository
	engine  *risk.Engine
	logger  *zap.Logger
	now     func() time.Time
}

// NewRiskService creates a new RiskService instance.
func NewRiskService(storage RiskRepository, logger *zap.Logger, opts ...Option) *RiskService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	s := &RiskService{
		storage: storage,
		engine:  risk.Default(),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RiskService) asOf(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t.UTC()
}

func storageErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrStorageFailure, op, err)
}

// EvaluateVisit scores a visit that is not stored anywhere.
func (s *RiskService) EvaluateVisit(_ context.Context, v risk.Visit) (risk.Assessment, error) {
	a, err := s.engine.ScoreVisit(v)
	if err != nil {
		return risk.Assessment{}, fmt.Errorf("evaluate visit: %w", err)
	}
	return a, nil
}

// ScoreVisit loads a stored visit and scores it, naming its customer when known.
func (s *RiskService) ScoreVisit(ctx context.Context, visitID string) (risk.ScoredVisit, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	v, err := s.storage.GetVisit(dbCtx, visitID)
	if err != nil {
		return risk.ScoredVisit{}, storageErr("get visit", err)
	}

	var a risk.Assessment
	c, err := s.storage.GetCustomer(dbCtx, v.CustomerID)
	switch {
	case err == nil:
		a, err = s.engine.ScoreCustomerVisit(c, v)
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Warn("visit references unknown customer",
			zap.String("visit_id", v.ID),
			zap.String("customer_id", v.CustomerID))
		a, err = s.engine.ScoreVisit(v)
	default:
		return risk.ScoredVisit{}, storageErr("get customer", err)
	}
	if err != nil {
		return risk.ScoredVisit{}, fmt.Errorf("score visit %q: %w", visitID, err)
	}

	s.logger.Info("scored visit",
		zap.String("visit_id", v.ID),
		zap.Float64("score", a.Score),
		zap.String("level", string(a.Level)))

	return risk.ScoredVisit{Visit: v, Assessment: a}, nil
}

// GetCustomerRisk aggregates a customer's full visit history as of asOf.
// A zero asOf means now.
func (s *RiskService) GetCustomerRisk(ctx context.Context, customerID string, asOf time.Time) (risk.CustomerRisk, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	c, err := s.storage.GetCustomer(dbCtx, customerID)
	if err != nil {
		return risk.CustomerRisk{}, storageErr("get customer", err)
	}
	visits, err := s.storage.ListVisitsByCustomer(dbCtx, customerID)
	if err != nil {
		return risk.CustomerRisk{}, storageErr("list customer visits", err)
	}

	now := s.asOf(asOf)
	a, err := s.engine.AggregateCustomer(c, visits, now)
	if err != nil {
		return risk.CustomerRisk{}, fmt.Errorf("aggregate customer %q: %w", customerID, err)
	}

	out := risk.CustomerRisk{Customer: c, VisitCount: len(visits), Assessment: a}
	for _, v := range visits {
		if v.VisitDate.After(out.LastVisit) {
			out.LastVisit = v.VisitDate
		}
	}

	s.logger.Info("aggregated customer risk",
		zap.String("customer_id", customerID),
		zap.Int("visits", len(visits)),
		zap.Float64("score", a.Score),
		zap.String("level", string(a.Level)),
		zap.Time("as_of", now))

	return out, nil
}

// GetDealershipRisk rolls up every customer of a dealership as of asOf.
// A zero asOf means now.
func (s *RiskService) GetDealershipRisk(ctx context.Context, dealershipID string, asOf time.Time) (risk.Rollup, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	d, err := s.storage.GetDealership(dbCtx, dealershipID)
	if err != nil {
		return risk.Rollup{}, storageErr("get dealership", err)
	}
	customers, err := s.storage.ListCustomersByDealership(dbCtx, dealershipID)
	if err != nil {
		return risk.Rollup{}, storageErr("list dealership customers", err)
	}
	visits, err := s.storage.ListVisitsByDealership(dbCtx, dealershipID)
	if err != nil {
		return risk.Rollup{}, storageErr("list dealership visits", err)
	}

	now := s.asOf(asOf)
	r, err := s.engine.Rollup(d, customers, visits, now)
	if err != nil {
		return risk.Rollup{}, fmt.Errorf("roll up dealership %q: %w", dealershipID, err)
	}

	s.logger.Info("aggregated dealership risk",
		zap.String("dealership_id", dealershipID),
		zap.Int("customers", len(r.Customers)),
		zap.Int("visits", len(visits)),
		zap.Float64("score", r.Assessment.Score),
		zap.String("level", string(r.Assessment.Level)),
		zap.Time("as_of", now))

	return r, nil
}

// GetWorstVisits returns a dealership's highest-risk visits, most recent first
// among equal scores. A limit <= 0 uses the engine default.
func (s *RiskService) GetWorstVisits(ctx context.Context, dealershipID string, limit int) ([]risk.ScoredVisit, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.storage.GetDealership(dbCtx, dealershipID); err != nil {
		return nil, storageErr("get dealership", err)
	}
	visits, err := s.storage.ListVisitsByDealership(dbCtx, dealershipID)
	if err != nil {
		return nil, storageErr("list dealership visits", err)
	}

	scored, err := s.engine.ScoreVisits(visits)
	if err != nil {
		return nil, fmt.Errorf("score dealership %q visits: %w", dealershipID, err)
	}
	if limit <= 0 {
		limit = s.engine.Config().WorstVisitsLimit
	}
	return risk.RankVisits(scored, limit), nil
}
