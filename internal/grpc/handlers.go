package grpc

import (
	"context"
	"errors"
	"strconv"
	"time"

	pb "github.com/godilite/dealer-risk/api/v1"
	"github.com/godilite/dealer-risk/internal/risk"
	"github.com/godilite/dealer-risk/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
	maxWorstVisits       = 100
)

type CacheKeyType string

const (
	cacheKeyVisitRisk      CacheKeyType = "grpc:visit_risk"
	cacheKeyCustomerRisk   CacheKeyType = "grpc:customer_risk"
	cacheKeyDealershipRisk CacheKeyType = "grpc:dealership_risk"
	cacheKeyWorstVisits    CacheKeyType = "grpc:worst_visits"
)

type asOfRequest interface {
	GetAsOf() *timestamppb.Timestamp
}

type GRPCHandlers struct {
	pb.UnimplementedRiskScoringServer
	risk     RiskService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
	now      func() time.Time
}

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(svc RiskService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if svc == nil {
		panic("nil RiskService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		risk:     svc,
		cache:    cache,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
		now:      time.Now,
	}
}

// asOfDay resolves an optional as-of timestamp to the end of its UTC day,
// defaulting to today. Every request sharing a cache key is scored at the
// same instant, so recency never differs within a day.
func (s *GRPCHandlers) asOfDay(req asOfRequest) (time.Time, string) {
	asOf := timeOrZero(req.GetAsOf())
	if asOf.IsZero() {
		asOf = s.now()
	}
	y, m, d := asOf.UTC().Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	return endOfDay, endOfDay.Format("2006-01-02")
}

func requireID(name, value string) error {
	if value == "" {
		return status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		s.logger.Info("record not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, risk.ErrInvalidVisit):
		s.logger.Info("invalid visit", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// EvaluateVisit scores an inline visit. Results are not cached.
func (s *GRPCHandlers) EvaluateVisit(ctx context.Context, req *pb.EvaluateVisitRequest) (*pb.VisitRiskResponse, error) {
	if req.GetVisit() == nil {
		return nil, status.Error(codes.InvalidArgument, "visit is required")
	}

	v := fromPBVisit(req.GetVisit())
	a, err := s.risk.EvaluateVisit(ctx, v)
	if err != nil {
		return nil, s.handleError(ctx, "EvaluateVisit", err)
	}
	return &pb.VisitRiskResponse{Visit: toPBVisit(v), Assessment: toPBAssessment(a)}, nil
}

func (s *GRPCHandlers) ScoreVisit(ctx context.Context, req *pb.ScoreVisitRequest) (*pb.VisitRiskResponse, error) {
	if err := requireID("visit_id", req.GetVisitId()); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	key := cacheKey(cacheKeyVisitRisk, req.GetVisitId())
	sv, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(fetchCtx context.Context) (risk.ScoredVisit, error) {
		return s.risk.ScoreVisit(fetchCtx, req.GetVisitId())
	})
	if err != nil {
		return nil, s.handleError(ctx, "ScoreVisit", err)
	}

	return &pb.VisitRiskResponse{Visit: toPBVisit(sv.Visit), Assessment: toPBAssessment(sv.Assessment)}, nil
}

func (s *GRPCHandlers) GetCustomerRisk(ctx context.Context, req *pb.CustomerRiskRequest) (*pb.CustomerRiskResponse, error) {
	if err := requireID("customer_id", req.GetCustomerId()); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	asOf, day := s.asOfDay(req)
	key := cacheKey(cacheKeyCustomerRisk, req.GetCustomerId(), day)

	cr, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(fetchCtx context.Context) (risk.CustomerRisk, error) {
		return s.risk.GetCustomerRisk(fetchCtx, req.GetCustomerId(), asOf)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetCustomerRisk", err)
	}

	return toPBCustomerRisk(cr), nil
}

func (s *GRPCHandlers) GetDealershipRisk(ctx context.Context, req *pb.DealershipRiskRequest) (*pb.DealershipRiskResponse, error) {
	if err := requireID("dealership_id", req.GetDealershipId()); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	asOf, day := s.asOfDay(req)
	key := cacheKey(cacheKeyDealershipRisk, req.GetDealershipId(), day)

	r, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(fetchCtx context.Context) (risk.Rollup, error) {
		return s.risk.GetDealershipRisk(fetchCtx, req.GetDealershipId(), asOf)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetDealershipRisk", err)
	}

	return toPBRollup(r), nil
}

func (s *GRPCHandlers) ListWorstVisits(ctx context.Context, req *pb.WorstVisitsRequest) (*pb.WorstVisitsResponse, error) {
	if err := requireID("dealership_id", req.GetDealershipId()); err != nil {
		return nil, err
	}
	limit := int(req.GetLimit())
	if limit < 0 || limit > maxWorstVisits {
		return nil, status.Errorf(codes.InvalidArgument, "limit must be between 0 and %d", maxWorstVisits)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	key := cacheKey(cacheKeyWorstVisits, req.GetDealershipId(), strconv.Itoa(limit))
	scored, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(fetchCtx context.Context) ([]risk.ScoredVisit, error) {
		return s.risk.GetWorstVisits(fetchCtx, req.GetDealershipId(), limit)
	})
	if err != nil {
		return nil, s.handleError(ctx, "ListWorstVisits", err)
	}

	return &pb.WorstVisitsResponse{Visits: toPBScoredVisits(scored)}, nil
}
