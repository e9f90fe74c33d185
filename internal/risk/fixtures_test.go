package risk

import "time"

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// cleanVisit carries no risk on any factor.
func cleanVisit(id string, at time.Time) Visit {
	return Visit{
		ID:               id,
		CustomerID:       "cust-1",
		DealershipID:     "dlr-1",
		VisitDate:        at,
		Price:            5000,
		Feedback:         Feedback{Provided: true, Stars: 5},
		WasIssueResolved: true,
	}
}

// worstVisit maxes every factor except feedback, which is missing.
func worstVisit(id string, at time.Time) Visit {
	return Visit{
		ID:                 id,
		CustomerID:         "cust-1",
		DealershipID:       "dlr-1",
		VisitDate:          at,
		ServiceDelayInDays: 30,
		Price:              50000,
		Feedback:           Feedback{Provided: false},
		RepeatIssues:       5,
		WasIssueResolved:   false,
	}
}

func mustEngine() *Engine {
	return Default()
}
