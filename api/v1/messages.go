package riskv1

import "google.golang.org/protobuf/types/known/timestamppb"

// Visit is a single service visit as carried on the wire.
type Visit struct {
	Id                 string                 `json:"id,omitempty"`
	CustomerId         string                 `json:"customer_id,omitempty"`
	DealershipId       string                 `json:"dealership_id,omitempty"`
	VisitDate          *timestamppb.Timestamp `json:"visit_date,omitempty"`
	ServiceDelayInDays int32                  `json:"service_delay_in_days"`
	Price              float64                `json:"price"`
	FeedbackProvided   bool                   `json:"feedback_provided"`
	Stars              int32                  `json:"stars,omitempty"`
	RepeatIssues       int32                  `json:"repeat_issues"`
	WasIssueResolved   bool                   `json:"was_issue_resolved"`
}

func (x *Visit) GetVisitDate() *timestamppb.Timestamp {
	if x != nil {
		return x.VisitDate
	}
	return nil
}

func (x *Visit) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Visit) GetCustomerId() string {
	if x != nil {
		return x.CustomerId
	}
	return ""
}

func (x *Visit) GetDealershipId() string {
	if x != nil {
		return x.DealershipId
	}
	return ""
}

func (x *Visit) GetServiceDelayInDays() int32 {
	if x != nil {
		return x.ServiceDelayInDays
	}
	return 0
}

func (x *Visit) GetPrice() float64 {
	if x != nil {
		return x.Price
	}
	return 0
}

func (x *Visit) GetFeedbackProvided() bool {
	if x != nil {
		return x.FeedbackProvided
	}
	return false
}

func (x *Visit) GetStars() int32 {
	if x != nil {
		return x.Stars
	}
	return 0
}

func (x *Visit) GetRepeatIssues() int32 {
	if x != nil {
		return x.RepeatIssues
	}
	return 0
}

func (x *Visit) GetWasIssueResolved() bool {
	if x != nil {
		return x.WasIssueResolved
	}
	return false
}

// Assessment mirrors the engine result. Level is SAFE, AT_RISK or CRITICAL.
type Assessment struct {
	Score       float64  `json:"score"`
	Level       string   `json:"level"`
	Explanation string   `json:"explanation,omitempty"`
	Positives   []string `json:"positives,omitempty"`
	Concerns    []string `json:"concerns,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (x *Assessment) GetScore() float64 {
	if x != nil {
		return x.Score
	}
	return 0
}

func (x *Assessment) GetLevel() string {
	if x != nil {
		return x.Level
	}
	return ""
}

func (x *Assessment) GetExplanation() string {
	if x != nil {
		return x.Explanation
	}
	return ""
}

func (x *Assessment) GetPositives() []string {
	if x != nil {
		return x.Positives
	}
	return nil
}

func (x *Assessment) GetConcerns() []string {
	if x != nil {
		return x.Concerns
	}
	return nil
}

func (x *Assessment) GetSuggestions() []string {
	if x != nil {
		return x.Suggestions
	}
	return nil
}

type EvaluateVisitRequest struct {
	Visit *Visit `json:"visit,omitempty"`
}

func (x *EvaluateVisitRequest) GetVisit() *Visit {
	if x != nil {
		return x.Visit
	}
	return nil
}

type ScoreVisitRequest struct {
	VisitId string `json:"visit_id"`
}

func (x *ScoreVisitRequest) GetVisitId() string {
	if x != nil {
		return x.VisitId
	}
	return ""
}

type VisitRiskResponse struct {
	Visit      *Visit      `json:"visit,omitempty"`
	Assessment *Assessment `json:"assessment,omitempty"`
}

func (x *VisitRiskResponse) GetVisit() *Visit {
	if x != nil {
		return x.Visit
	}
	return nil
}

func (x *VisitRiskResponse) GetAssessment() *Assessment {
	if x != nil {
		return x.Assessment
	}
	return nil
}

// CustomerRiskRequest asks for a customer aggregate. A nil AsOf means now.
type CustomerRiskRequest struct {
	CustomerId string                 `json:"customer_id"`
	AsOf       *timestamppb.Timestamp `json:"as_of,omitempty"`
}

func (x *CustomerRiskRequest) GetCustomerId() string {
	if x != nil {
		return x.CustomerId
	}
	return ""
}

func (x *CustomerRiskRequest) GetAsOf() *timestamppb.Timestamp {
	if x != nil {
		return x.AsOf
	}
	return nil
}

type CustomerRiskResponse struct {
	CustomerId string                 `json:"customer_id"`
	Name       string                 `json:"name,omitempty"`
	CarModel   string                 `json:"car_model,omitempty"`
	VisitCount int32                  `json:"visit_count"`
	LastVisit  *timestamppb.Timestamp `json:"last_visit,omitempty"`
	Assessment *Assessment            `json:"assessment,omitempty"`
}

func (x *CustomerRiskResponse) GetCustomerId() string {
	if x != nil {
		return x.CustomerId
	}
	return ""
}

func (x *CustomerRiskResponse) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *CustomerRiskResponse) GetCarModel() string {
	if x != nil {
		return x.CarModel
	}
	return ""
}

func (x *CustomerRiskResponse) GetVisitCount() int32 {
	if x != nil {
		return x.VisitCount
	}
	return 0
}

func (x *CustomerRiskResponse) GetLastVisit() *timestamppb.Timestamp {
	if x != nil {
		return x.LastVisit
	}
	return nil
}

func (x *CustomerRiskResponse) GetAssessment() *Assessment {
	if x != nil {
		return x.Assessment
	}
	return nil
}

type DealershipRiskRequest struct {
	DealershipId string                 `json:"dealership_id"`
	AsOf         *timestamppb.Timestamp `json:"as_of,omitempty"`
}

func (x *DealershipRiskRequest) GetDealershipId() string {
	if x != nil {
		return x.DealershipId
	}
	return ""
}

func (x *DealershipRiskRequest) GetAsOf() *timestamppb.Timestamp {
	if x != nil {
		return x.AsOf
	}
	return nil
}

type DealershipRiskResponse struct {
	DealershipId string                  `json:"dealership_id"`
	Company      string                  `json:"company,omitempty"`
	Assessment   *Assessment             `json:"assessment,omitempty"`
	Customers    []*CustomerRiskResponse `json:"customers,omitempty"`
	WorstVisits  []*VisitRiskResponse    `json:"worst_visits,omitempty"`
}

func (x *DealershipRiskResponse) GetDealershipId() string {
	if x != nil {
		return x.DealershipId
	}
	return ""
}

func (x *DealershipRiskResponse) GetCompany() string {
	if x != nil {
		return x.Company
	}
	return ""
}

func (x *DealershipRiskResponse) GetAssessment() *Assessment {
	if x != nil {
		return x.Assessment
	}
	return nil
}

func (x *DealershipRiskResponse) GetCustomers() []*CustomerRiskResponse {
	if x != nil {
		return x.Customers
	}
	return nil
}

func (x *DealershipRiskResponse) GetWorstVisits() []*VisitRiskResponse {
	if x != nil {
		return x.WorstVisits
	}
	return nil
}

// WorstVisitsRequest lists the highest-risk visits. Limit 0 uses the server default.
type WorstVisitsRequest struct {
	DealershipId string `json:"dealership_id"`
	Limit        int32  `json:"limit,omitempty"`
}

func (x *WorstVisitsRequest) GetDealershipId() string {
	if x != nil {
		return x.DealershipId
	}
	return ""
}

func (x *WorstVisitsRequest) GetLimit() int32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type WorstVisitsResponse struct {
	Visits []*VisitRiskResponse `json:"visits"`
}

func (x *WorstVisitsResponse) GetVisits() []*VisitRiskResponse {
	if x != nil {
		return x.Visits
	}
	return nil
}
