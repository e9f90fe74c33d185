package repository

import (
	"fmt"
	"time"

	"github.com/godilite/dealer-risk/internal/repository/models"
	"github.com/godilite/dealer-risk/internal/risk"
)

const storedTimeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func toRiskVisit(row models.Visit) (risk.Visit, error) {
	at, err := parseTime(row.VisitDate)
	if err != nil {
		return risk.Visit{}, err
	}
	return risk.Visit{
		ID:                 row.ID,
		CustomerID:         row.CustomerID,
		DealershipID:       row.DealershipID,
		VisitDate:          at,
		ServiceDelayInDays: row.ServiceDelayInDays,
		Price:              row.Price,
		Feedback:           risk.Feedback{Provided: row.FeedbackProvided, Stars: row.Stars},
		RepeatIssues:       row.RepeatIssues,
		WasIssueResolved:   row.WasIssueResolved,
	}, nil
}

func fromRiskVisit(v risk.Visit) models.Visit {
	return models.Visit{
		ID:                 v.ID,
		CustomerID:         v.CustomerID,
		DealershipID:       v.DealershipID,
		VisitDate:          formatTime(v.VisitDate),
		ServiceDelayInDays: v.ServiceDelayInDays,
		Price:              v.Price,
		FeedbackProvided:   v.Feedback.Provided,
		Stars:              v.Feedback.Stars,
		RepeatIssues:       v.RepeatIssues,
		WasIssueResolved:   v.WasIssueResolved,
	}
}

func toRiskCustomer(row models.Customer) risk.Customer {
	return risk.Customer{
		ID:           row.ID,
		Name:         row.Name,
		DealershipID: row.DealershipID,
		Car: risk.Car{
			Model:              row.CarModel,
			Year:               row.CarYear,
			RegistrationNumber: row.CarRegistration,
		},
	}
}

func toRiskDealership(row models.Dealership) risk.Dealership {
	return risk.Dealership{
		ID:         row.ID,
		Company:    row.Company,
		UniqueName: row.UniqueName,
		Address:    row.Address,
	}
}
