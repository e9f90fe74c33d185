package mocks

import (
	"context"
	"errors"

	"github.com/godilite/dealer-risk/internal/risk"
)

// MockRiskRepository is a mock implementation of the RiskRepository interface
// for testing the service layer.
type MockRiskRepository struct {
	GetVisitFunc                  func(ctx context.Context, id string) (risk.Visit, error)
	GetCustomerFunc               func(ctx context.Context, id string) (risk.Customer, error)
	GetDealershipFunc             func(ctx context.Context, id string) (risk.Dealership, error)
	ListVisitsByCustomerFunc      func(ctx context.Context, customerID string) ([]risk.Visit, error)
	ListVisitsByDealershipFunc    func(ctx context.Context, dealershipID string) ([]risk.Visit, error)
	ListCustomersByDealershipFunc func(ctx context.Context, dealershipID string) ([]risk.Customer, error)
}

// GetVisit implements the RiskRepository interface
func (m *MockRiskRepository) GetVisit(ctx context.Context, id string) (risk.Visit, error) {
	if m.GetVisitFunc != nil {
		return m.GetVisitFunc(ctx, id)
	}
	return risk.Visit{}, errors.New("GetVisitFunc not implemented")
}

// GetCustomer implements the RiskRepository interface
func (m *MockRiskRepository) GetCustomer(ctx context.Context, id string) (risk.Customer, error) {
	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, id)
	}
	return risk.Customer{}, errors.New("GetCustomerFunc not implemented")
}

// GetDealership implements the RiskRepository interface
func (m *MockRiskRepository) GetDealership(ctx context.Context, id string) (risk.Dealership, error) {
	if m.GetDealershipFunc != nil {
		return m.GetDealershipFunc(ctx, id)
	}
	return risk.Dealership{}, errors.New("GetDealershipFunc not implemented")
}

// ListVisitsByCustomer implements the RiskRepository interface
func (m *MockRiskRepository) ListVisitsByCustomer(ctx context.Context, customerID string) ([]risk.Visit, error) {
	if m.ListVisitsByCustomerFunc != nil {
		return m.ListVisitsByCustomerFunc(ctx, customerID)
	}
	return nil, errors.New("ListVisitsByCustomerFunc not implemented")
}

// ListVisitsByDealership implements the RiskRepository interface
func (m *MockRiskRepository) ListVisitsByDealership(ctx context.Context, dealershipID string) ([]risk.Visit, error) {
	if m.ListVisitsByDealershipFunc != nil {
		return m.ListVisitsByDealershipFunc(ctx, dealershipID)
	}
	return nil, errors.New("ListVisitsByDealershipFunc not implemented")
}

// ListCustomersByDealership implements the RiskRepository interface
func (m *MockRiskRepository) ListCustomersByDealership(ctx context.Context, dealershipID string) ([]risk.Customer, error) {
	if m.ListCustomersByDealershipFunc != nil {
		return m.ListCustomersByDealershipFunc(ctx, dealershipID)
	}
	return nil, errors.New("ListCustomersByDealershipFunc not implemented")
}
