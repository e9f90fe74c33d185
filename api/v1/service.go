package riskv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "dealerrisk.v1.RiskScoring"

const (
	RiskScoring_EvaluateVisit_FullMethodName     = "/dealerrisk.v1.RiskScoring/EvaluateVisit"
	RiskScoring_ScoreVisit_FullMethodName        = "/dealerrisk.v1.RiskScoring/ScoreVisit"
	RiskScoring_GetCustomerRisk_FullMethodName   = "/dealerrisk.v1.RiskScoring/GetCustomerRisk"
	RiskScoring_GetDealershipRisk_FullMethodName = "/dealerrisk.v1.RiskScoring/GetDealershipRisk"
	RiskScoring_ListWorstVisits_FullMethodName   = "/dealerrisk.v1.RiskScoring/ListWorstVisits"
)

// RiskScoringClient is the client API for the RiskScoring service.
type RiskScoringClient interface {
	EvaluateVisit(ctx context.Context, in *EvaluateVisitRequest, opts ...grpc.CallOption) (*VisitRiskResponse, error)
	ScoreVisit(ctx context.Context, in *ScoreVisitRequest, opts ...grpc.CallOption) (*VisitRiskResponse, error)
	GetCustomerRisk(ctx context.Context, in *CustomerRiskRequest, opts ...grpc.CallOption) (*CustomerRiskResponse, error)
	GetDealershipRisk(ctx context.Context, in *DealershipRiskRequest, opts ...grpc.CallOption) (*DealershipRiskResponse, error)
	ListWorstVisits(ctx context.Context, in *WorstVisitsRequest, opts ...grpc.CallOption) (*WorstVisitsResponse, error)
}

type riskScoringClient struct {
	cc grpc.ClientConnInterface
}

// NewRiskScoringClient returns a client that always requests the JSON codec.
func NewRiskScoringClient(cc grpc.ClientConnInterface) RiskScoringClient {
	return &riskScoringClient{cc}
}

func (c *riskScoringClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *riskScoringClient) EvaluateVisit(ctx context.Context, in *EvaluateVisitRequest, opts ...grpc.CallOption) (*VisitRiskResponse, error) {
	out := new(VisitRiskResponse)
	if err := c.invoke(ctx, RiskScoring_EvaluateVisit_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskScoringClient) ScoreVisit(ctx context.Context, in *ScoreVisitRequest, opts ...grpc.CallOption) (*VisitRiskResponse, error) {
	out := new(VisitRiskResponse)
	if err := c.invoke(ctx, RiskScoring_ScoreVisit_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskScoringClient) GetCustomerRisk(ctx context.Context, in *CustomerRiskRequest, opts ...grpc.CallOption) (*CustomerRiskResponse, error) {
	out := new(CustomerRiskResponse)
	if err := c.invoke(ctx, RiskScoring_GetCustomerRisk_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskScoringClient) GetDealershipRisk(ctx context.Context, in *DealershipRiskRequest, opts ...grpc.CallOption) (*DealershipRiskResponse, error) {
	out := new(DealershipRiskResponse)
	if err := c.invoke(ctx, RiskScoring_GetDealershipRisk_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskScoringClient) ListWorstVisits(ctx context.Context, in *WorstVisitsRequest, opts ...grpc.CallOption) (*WorstVisitsResponse, error) {
	out := new(WorstVisitsResponse)
	if err := c.invoke(ctx, RiskScoring_ListWorstVisits_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// RiskScoringServer is the server API for the RiskScoring service.
// Implementations must embed UnimplementedRiskScoringServer.
type RiskScoringServer interface {
	EvaluateVisit(context.Context, *EvaluateVisitRequest) (*VisitRiskResponse, error)
	ScoreVisit(context.Context, *ScoreVisitRequest) (*VisitRiskResponse, error)
	GetCustomerRisk(context.Context, *CustomerRiskRequest) (*CustomerRiskResponse, error)
	GetDealershipRisk(context.Context, *DealershipRiskRequest) (*DealershipRiskResponse, error)
	ListWorstVisits(context.Context, *WorstVisitsRequest) (*WorstVisitsResponse, error)
	mustEmbedUnimplementedRiskScoringServer()
}

type UnimplementedRiskScoringServer struct{}

func (UnimplementedRiskScoringServer) EvaluateVisit(context.Context, *EvaluateVisitRequest) (*VisitRiskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EvaluateVisit not implemented")
}

func (UnimplementedRiskScoringServer) ScoreVisit(context.Context, *ScoreVisitRequest) (*VisitRiskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ScoreVisit not implemented")
}

func (UnimplementedRiskScoringServer) GetCustomerRisk(context.Context, *CustomerRiskRequest) (*CustomerRiskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCustomerRisk not implemented")
}

func (UnimplementedRiskScoringServer) GetDealershipRisk(context.Context, *DealershipRiskRequest) (*DealershipRiskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDealershipRisk not implemented")
}

func (UnimplementedRiskScoringServer) ListWorstVisits(context.Context, *WorstVisitsRequest) (*WorstVisitsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListWorstVisits not implemented")
}

func (UnimplementedRiskScoringServer) mustEmbedUnimplementedRiskScoringServer() {}

func RegisterRiskScoringServer(s grpc.ServiceRegistrar, srv RiskScoringServer) {
	s.RegisterService(&RiskScoring_ServiceDesc, srv)
}

func _RiskScoring_EvaluateVisit_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EvaluateVisitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskScoringServer).EvaluateVisit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RiskScoring_EvaluateVisit_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskScoringServer).EvaluateVisit(ctx, req.(*EvaluateVisitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RiskScoring_ScoreVisit_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ScoreVisitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskScoringServer).ScoreVisit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RiskScoring_ScoreVisit_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskScoringServer).ScoreVisit(ctx, req.(*ScoreVisitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RiskScoring_GetCustomerRisk_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CustomerRiskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskScoringServer).GetCustomerRisk(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RiskScoring_GetCustomerRisk_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskScoringServer).GetCustomerRisk(ctx, req.(*CustomerRiskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RiskScoring_GetDealershipRisk_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DealershipRiskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskScoringServer).GetDealershipRisk(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RiskScoring_GetDealershipRisk_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskScoringServer).GetDealershipRisk(ctx, req.(*DealershipRiskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RiskScoring_ListWorstVisits_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WorstVisitsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskScoringServer).ListWorstVisits(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RiskScoring_ListWorstVisits_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskScoringServer).ListWorstVisits(ctx, req.(*WorstVisitsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RiskScoring_ServiceDesc is the grpc.ServiceDesc for the RiskScoring service.
var RiskScoring_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskScoringServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "EvaluateVisit", Handler: _RiskScoring_EvaluateVisit_Handler},
		{MethodName: "ScoreVisit", Handler: _RiskScoring_ScoreVisit_Handler},
		{MethodName: "GetCustomerRisk", Handler: _RiskScoring_GetCustomerRisk_Handler},
		{MethodName: "GetDealershipRisk", Handler: _RiskScoring_GetDealershipRisk_Handler},
		{MethodName: "ListWorstVisits", Handler: _RiskScoring_ListWorstVisits_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dealerrisk/v1/risk.proto",
}
