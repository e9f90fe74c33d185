package models

// Dealership is a row of the dealerships table.
type Dealership struct {
	ID         string
	Company    string
	UniqueName string
	Address    string
}

// Customer is a row of the customers table.
type Customer struct {
	ID              string
	DealershipID    string
	Name            string
	CarModel        string
	CarYear         int
	CarRegistration string
}

// Visit is a row of the visits table. VisitDate is stored as UTC text.
type Visit struct {
	ID                 string
	CustomerID         string
	DealershipID       string
	VisitDate          string
	ServiceDelayInDays int
	Price              float64
	FeedbackProvided   bool
	Stars              int
	RepeatIssues       int
	WasIssueResolved   bool
}
