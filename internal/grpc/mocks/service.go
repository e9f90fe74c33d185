package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/godilite/dealer-risk/internal/risk"
)

// MockRiskService is a function-based mock of the handler's RiskService.
type MockRiskService struct {
	EvaluateVisitFunc     func(ctx context.Context, v risk.Visit) (risk.Assessment, error)
	ScoreVisitFunc        func(ctx context.Context, visitID string) (risk.ScoredVisit, error)
	GetCustomerRiskFunc   func(ctx context.Context, customerID string, asOf time.Time) (risk.CustomerRisk, error)
	GetDealershipRiskFunc func(ctx context.Context, dealershipID string, asOf time.Time) (risk.Rollup, error)
	GetWorstVisitsFunc    func(ctx context.Context, dealershipID string, limit int) ([]risk.ScoredVisit, error)
}

func (m *MockRiskService) EvaluateVisit(ctx context.Context, v risk.Visit) (risk.Assessment, error) {
	if m.EvaluateVisitFunc != nil {
		return m.EvaluateVisitFunc(ctx, v)
	}
	return risk.Assessment{}, errors.New("EvaluateVisitFunc not implemented")
}

func (m *MockRiskService) ScoreVisit(ctx context.Context, visitID string) (risk.ScoredVisit, error) {
	if m.ScoreVisitFunc != nil {
		return m.ScoreVisitFunc(ctx, visitID)
	}
	return risk.ScoredVisit{}, errors.New("ScoreVisitFunc not implemented")
}

func (m *MockRiskService) GetCustomerRisk(ctx context.Context, customerID string, asOf time.Time) (risk.CustomerRisk, error) {
	if m.GetCustomerRiskFunc != nil {
		return m.GetCustomerRiskFunc(ctx, customerID, asOf)
	}
	return risk.CustomerRisk{}, errors.New("GetCustomerRiskFunc not implemented")
}

func (m *MockRiskService) GetDealershipRisk(ctx context.Context, dealershipID string, asOf time.Time) (risk.Rollup, error) {
	if m.GetDealershipRiskFunc != nil {
		return m.GetDealershipRiskFunc(ctx, dealershipID, asOf)
	}
	return risk.Rollup{}, errors.New("GetDealershipRiskFunc not implemented")
}

func (m *MockRiskService) GetWorstVisits(ctx context.Context, dealershipID string, limit int) ([]risk.ScoredVisit, error) {
	if m.GetWorstVisitsFunc != nil {
		return m.GetWorstVisitsFunc(ctx, dealershipID, limit)
	}
	return nil, errors.New("GetWorstVisitsFunc not implemented")
}
