package grpc

import (
	"time"

	pb "github.com/godilite/dealer-risk/api/v1"
	"github.com/godilite/dealer-risk/internal/risk"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func timestampOrNil(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func timeOrZero(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

func fromPBVisit(v *pb.Visit) risk.Visit {
	return risk.Visit{
		ID:                 v.Id,
		CustomerID:         v.CustomerId,
		DealershipID:       v.DealershipId,
		VisitDate:          timeOrZero(v.GetVisitDate()),
		ServiceDelayInDays: int(v.ServiceDelayInDays),
		Price:              v.Price,
		Feedback:           risk.Feedback{Provided: v.FeedbackProvided, Stars: int(v.Stars)},
		RepeatIssues:       int(v.RepeatIssues),
		WasIssueResolved:   v.WasIssueResolved,
	}
}

func toPBVisit(v risk.Visit) *pb.Visit {
	return &pb.Visit{
		Id:                 v.ID,
		CustomerId:         v.CustomerID,
		DealershipId:       v.DealershipID,
		VisitDate:          timestampOrNil(v.VisitDate),
		ServiceDelayInDays: int32(v.ServiceDelayInDays),
		Price:              v.Price,
		FeedbackProvided:   v.Feedback.Provided,
		Stars:              int32(v.Feedback.Stars),
		RepeatIssues:       int32(v.RepeatIssues),
		WasIssueResolved:   v.WasIssueResolved,
	}
}

func toPBAssessment(a risk.Assessment) *pb.Assessment {
	return &pb.Assessment{
		Score:       a.Score,
		Level:       string(a.Level),
		Explanation: a.Explanation,
		Positives:   a.Positives,
		Concerns:    a.Concerns,
		Suggestions: a.Suggestions,
	}
}

func toPBScoredVisits(scored []risk.ScoredVisit) []*pb.VisitRiskResponse {
	out := make([]*pb.VisitRiskResponse, len(scored))
	for i, sv := range scored {
		out[i] = &pb.VisitRiskResponse{Visit: toPBVisit(sv.Visit), Assessment: toPBAssessment(sv.Assessment)}
	}
	return out
}

func toPBCustomerRisk(cr risk.CustomerRisk) *pb.CustomerRiskResponse {
	return &pb.CustomerRiskResponse{
		CustomerId: cr.Customer.ID,
		Name:       cr.Customer.Name,
		CarModel:   cr.Customer.Car.Model,
		VisitCount: int32(cr.VisitCount),
		LastVisit:  timestampOrNil(cr.LastVisit),
		Assessment: toPBAssessment(cr.Assessment),
	}
}

func toPBRollup(r risk.Rollup) *pb.DealershipRiskResponse {
	customers := make([]*pb.CustomerRiskResponse, len(r.Customers))
	for i, cr := range r.Customers {
		customers[i] = toPBCustomerRisk(cr)
	}
	return &pb.DealershipRiskResponse{
		DealershipId: r.Dealership.ID,
		Company:      r.Dealership.Company,
		Assessment:   toPBAssessment(r.Assessment),
		Customers:    customers,
		WorstVisits:  toPBScoredVisits(r.WorstVisits),
	}
}
