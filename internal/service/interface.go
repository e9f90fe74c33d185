package service

import (
	"context"

	"github.com/godilite/dealer-risk/internal/risk"
)

// RiskRepository defines the storage reads the service needs.
type RiskRepository interface {
	GetVisit(ctx context.Context, id string) (risk.Visit, error)
	GetCustomer(ctx context.Context, id string) (risk.Customer, error)
	GetDealership(ctx context.Context, id string) (risk.Dealership, error)
	ListVisitsByCustomer(ctx context.Context, customerID string) ([]risk.Visit, error)
	ListVisitsByDealership(ctx context.Context, dealershipID string) ([]risk.Visit, error)
	ListCustomersByDealership(ctx context.Context, dealershipID string) ([]risk.Customer, error)
}
