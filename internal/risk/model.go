package risk

import "time"

// Level is the risk category derived from a score.
type Level string

const (
	LevelSafe     Level = "SAFE"
	LevelAtRisk   Level = "AT_RISK"
	LevelCritical Level = "CRITICAL"
)

// Rank orders levels so that SAFE < AT_RISK < CRITICAL.
func (l Level) Rank() int {
	switch l {
	case LevelSafe:
		return 0
	case LevelAtRisk:
		return 1
	case LevelCritical:
		return 2
	default:
		return -1
	}
}

// Label is the human form used in explanations.
func (l Level) Label() string {
	if l == LevelAtRisk {
		return "AT RISK"
	}
	return string(l)
}

type Feedback struct {
	Provided bool `json:"feedbackProvided"`
	// Stars is only read when Provided is set; its range comes from Config.MaxFeedbackStars.
	Stars int `json:"stars,omitempty"`
}

type Visit struct {
	ID                 string    `json:"id"`
	CustomerID         string    `json:"customerId"`
	DealershipID       string    `json:"dealershipId"`
	VisitDate          time.Time `json:"visitDate" validate:"required"`
	ServiceDelayInDays int       `json:"serviceDelayInDays" validate:"gte=0"`
	Price              float64   `json:"price" validate:"gte=0"`
	Feedback           Feedback  `json:"feedback"`
	RepeatIssues       int       `json:"repeatIssues" validate:"gte=0"`
	WasIssueResolved   bool      `json:"wasIssueResolved"`
}

type Car struct {
	Model              string `json:"model"`
	Year               int    `json:"year"`
	RegistrationNumber string `json:"registrationNumber"`
}

type Customer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Car          Car    `json:"car"`
	DealershipID string `json:"dealershipId,omitempty"`
}

type Dealership struct {
	ID         string `json:"id"`
	Company    string `json:"company"`
	UniqueName string `json:"uniqueName"`
	Address    string `json:"address"`
}

// Assessment is the computed, disposable result of every scoring call.
type Assessment struct {
	Score       float64  `json:"score"`
	Level       Level    `json:"level"`
	Explanation string   `json:"explanation"`
	Positives   []string `json:"positives"`
	Concerns    []string `json:"concerns"`
	Suggestions []string `json:"suggestions"`
}

// ScoredVisit pairs a visit with its assessment for ranking.
type ScoredVisit struct {
	Visit      Visit      `json:"visit"`
	Assessment Assessment `json:"assessment"`
}

// CustomerRisk is one customer's aggregate inside a dealership rollup.
type CustomerRisk struct {
	Customer   Customer   `json:"customer"`
	VisitCount int        `json:"visitCount"`
	LastVisit  time.Time  `json:"lastVisit"`
	Assessment Assessment `json:"assessment"`
}

// Rollup is the full dealership result: the aggregate plus what it was built from.
type Rollup struct {
	Dealership  Dealership     `json:"dealership"`
	Assessment  Assessment     `json:"assessment"`
	Customers   []CustomerRisk `json:"customers"`
	WorstVisits []ScoredVisit  `json:"worstVisits"`
}
