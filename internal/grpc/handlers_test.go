package grpc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	pb "github.com/godilite/dealer-risk/api/v1"
	"github.com/godilite/dealer-risk/internal/grpc/mocks"
	"github.com/godilite/dealer-risk/internal/risk"
	"github.com/godilite/dealer-risk/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var handlerNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestHandlers(svc RiskService, cache Cacher) *GRPCHandlers {
	h := NewGRPCHandlers(svc, cache, zap.NewNop(), time.Minute)
	h.now = func() time.Time { return handlerNow }
	return h
}

func sampleScoredVisit() risk.ScoredVisit {
	return risk.ScoredVisit{
		Visit: risk.Visit{
			ID:                 "v-1",
			CustomerID:         "c-1",
			DealershipID:       "d-1",
			VisitDate:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ServiceDelayInDays: 30,
			Price:              50000,
			RepeatIssues:       5,
		},
		Assessment: risk.Assessment{
			Score:       90,
			Level:       risk.LevelCritical,
			Explanation: "Visit Risk Score: 90/100 (CRITICAL)",
			Concerns:    []string{"Issue Not Resolved"},
			Suggestions: []string{"Management intervention recommended."},
		},
	}
}

// TestNewGRPCHandlers tests the constructor
func TestNewGRPCHandlers(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		svc := &mocks.MockRiskService{}
		cache := &mocks.MockCacher{}

		handlers := NewGRPCHandlers(svc, cache, zap.NewNop(), 5*time.Minute)

		assert.NotNil(t, handlers)
		assert.Equal(t, svc, handlers.risk)
		assert.Equal(t, cache, handlers.cache)
		assert.Equal(t, 5*time.Minute, handlers.cacheTTL)
		assert.NotNil(t, handlers.logger)
	})

	t.Run("nil risk service panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewGRPCHandlers(nil, &mocks.MockCacher{}, zap.NewNop(), time.Minute)
		})
	})

	t.Run("nil logger is replaced", func(t *testing.T) {
		handlers := NewGRPCHandlers(&mocks.MockRiskService{}, &mocks.MockCacher{}, nil, time.Minute)
		assert.NotNil(t, handlers.logger)
	})

	t.Run("non-positive TTL uses default", func(t *testing.T) {
		for _, ttl := range []time.Duration{0, -time.Minute} {
			handlers := NewGRPCHandlers(&mocks.MockRiskService{}, &mocks.MockCacher{}, zap.NewNop(), ttl)
			assert.Equal(t, defaultCacheDuration, handlers.cacheTTL)
		}
	})
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		prefix   CacheKeyType
		parts    []string
		expected string
	}{
		{cacheKeyVisitRisk, []string{"v-1"}, "grpc:visit_risk:v-1"},
		{cacheKeyCustomerRisk, []string{"c-1", "2024-03-15"}, "grpc:customer_risk:c-1:2024-03-15"},
		{cacheKeyDealershipRisk, []string{"d-1", "2024-03-15"}, "grpc:dealership_risk:d-1:2024-03-15"},
		{cacheKeyWorstVisits, []string{"d-1", "3"}, "grpc:worst_visits:d-1:3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, cacheKey(tt.prefix, tt.parts...))
	}
}

// TestHandleError tests error handling and status code mapping
func TestHandleError(t *testing.T) {
	handlers := &GRPCHandlers{logger: zap.NewNop()}

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := handlers.handleError(ctx, "test_operation", errors.New("some error"))

		assert.Equal(t, codes.Canceled, status.Code(err))
		assert.Contains(t, err.Error(), "request canceled")
	})

	t.Run("context deadline exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		err := handlers.handleError(ctx, "test_operation", errors.New("some error"))

		assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
		assert.Contains(t, err.Error(), "request timed out")
	})

	t.Run("not found", func(t *testing.T) {
		err := handlers.handleError(context.Background(), "test_operation",
			fmt.Errorf("%w: get visit: missing", service.ErrNotFound))

		assert.Equal(t, codes.NotFound, status.Code(err))
		assert.Contains(t, err.Error(), "get visit")
	})

	t.Run("invalid visit", func(t *testing.T) {
		err := handlers.handleError(context.Background(), "test_operation",
			fmt.Errorf("evaluate visit: %w", &risk.InvalidVisitError{Field: "Price", Reason: "must be >= 0"}))

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Contains(t, err.Error(), "Price")
	})

	t.Run("storage failure", func(t *testing.T) {
		err := handlers.handleError(context.Background(), "test_operation", service.ErrStorageFailure)

		assert.Equal(t, codes.Internal, status.Code(err))
		assert.Contains(t, err.Error(), "database error")
		assert.NotContains(t, err.Error(), "storage failure")
	})

	t.Run("unknown error", func(t *testing.T) {
		err := handlers.handleError(context.Background(), "test_operation", errors.New("connection lost"))

		assert.Equal(t, codes.Internal, status.Code(err))
		assert.Contains(t, err.Error(), "test_operation failed")
		assert.Contains(t, err.Error(), "connection lost")
	})
}

func TestEvaluateVisit(t *testing.T) {
	t.Run("maps request into the engine visit", func(t *testing.T) {
		var got risk.Visit
		svc := &mocks.MockRiskService{
			EvaluateVisitFunc: func(_ context.Context, v risk.Visit) (risk.Assessment, error) {
				got = v
				return risk.Assessment{Score: 10, Level: risk.LevelSafe}, nil
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		resp, err := handlers.EvaluateVisit(context.Background(), &pb.EvaluateVisitRequest{
			Visit: &pb.Visit{
				Id:                 "v-9",
				VisitDate:          timestamppb.New(date),
				ServiceDelayInDays: 2,
				Price:              5200,
				FeedbackProvided:   true,
				Stars:              4,
				WasIssueResolved:   true,
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 10.0, resp.GetAssessment().GetScore())
		assert.Equal(t, "SAFE", resp.GetAssessment().GetLevel())
		assert.Equal(t, "v-9", resp.GetVisit().GetId())

		assert.Equal(t, date, got.VisitDate)
		assert.Equal(t, 2, got.ServiceDelayInDays)
		assert.Equal(t, risk.Feedback{Provided: true, Stars: 4}, got.Feedback)
		assert.True(t, got.WasIssueResolved)
	})

	t.Run("missing visit", func(t *testing.T) {
		handlers := newTestHandlers(&mocks.MockRiskService{}, &mocks.MockCacher{})

		resp, err := handlers.EvaluateVisit(context.Background(), &pb.EvaluateVisitRequest{})

		assert.Nil(t, resp)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("missing date reaches the engine as zero time", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			EvaluateVisitFunc: func(_ context.Context, v risk.Visit) (risk.Assessment, error) {
				assert.True(t, v.VisitDate.IsZero())
				return risk.Assessment{}, &risk.InvalidVisitError{Field: "VisitDate", Reason: "is required"}
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		_, err := handlers.EvaluateVisit(context.Background(), &pb.EvaluateVisitRequest{Visit: &pb.Visit{Id: "v-1"}})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestScoreVisit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			ScoreVisitFunc: func(_ context.Context, id string) (risk.ScoredVisit, error) {
				assert.Equal(t, "v-1", id)
				return sampleScoredVisit(), nil
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		resp, err := handlers.ScoreVisit(context.Background(), &pb.ScoreVisitRequest{VisitId: "v-1"})

		require.NoError(t, err)
		assert.Equal(t, 90.0, resp.GetAssessment().GetScore())
		assert.Equal(t, "CRITICAL", resp.GetAssessment().GetLevel())
		assert.Equal(t, int32(30), resp.GetVisit().GetServiceDelayInDays())
		assert.Equal(t, []string{"Management intervention recommended."}, resp.GetAssessment().GetSuggestions())
	})

	t.Run("empty id", func(t *testing.T) {
		handlers := newTestHandlers(&mocks.MockRiskService{}, &mocks.MockCacher{})

		_, err := handlers.ScoreVisit(context.Background(), &pb.ScoreVisitRequest{})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Contains(t, err.Error(), "visit_id is required")
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			ScoreVisitFunc: func(context.Context, string) (risk.ScoredVisit, error) {
				return risk.ScoredVisit{}, service.ErrNotFound
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		_, err := handlers.ScoreVisit(context.Background(), &pb.ScoreVisitRequest{VisitId: "nope"})

		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("second call is served from cache", func(t *testing.T) {
		calls := 0
		svc := &mocks.MockRiskService{
			ScoreVisitFunc: func(context.Context, string) (risk.ScoredVisit, error) {
				calls++
				return sampleScoredVisit(), nil
			},
		}
		cache := mocks.NewInMemoryCache()
		handlers := newTestHandlers(svc, cache)

		_, err := handlers.ScoreVisit(context.Background(), &pb.ScoreVisitRequest{VisitId: "v-1"})
		require.NoError(t, err)

		require.Eventually(t, func() bool { return cache.Keys() == 1 }, time.Second, 5*time.Millisecond)

		resp, err := handlers.ScoreVisit(context.Background(), &pb.ScoreVisitRequest{VisitId: "v-1"})
		require.NoError(t, err)
		assert.Equal(t, 90.0, resp.GetAssessment().GetScore())
		assert.Equal(t, 1, calls)
	})
}

func TestGetCustomerRisk(t *testing.T) {
	risky := risk.CustomerRisk{
		Customer:   risk.Customer{ID: "c-1", Name: "Asha", Car: risk.Car{Model: "Nexon"}},
		VisitCount: 2,
		LastVisit:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Assessment: risk.Assessment{Score: 52, Level: risk.LevelAtRisk},
	}

	t.Run("nil as-of scores at the end of today", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			GetCustomerRiskFunc: func(_ context.Context, id string, asOf time.Time) (risk.CustomerRisk, error) {
				assert.Equal(t, "c-1", id)
				assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), asOf)
				return risky, nil
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		resp, err := handlers.GetCustomerRisk(context.Background(), &pb.CustomerRiskRequest{CustomerId: "c-1"})

		require.NoError(t, err)
		assert.Equal(t, "Asha", resp.GetName())
		assert.Equal(t, "Nexon", resp.GetCarModel())
		assert.Equal(t, int32(2), resp.GetVisitCount())
		assert.Equal(t, risky.LastVisit, resp.GetLastVisit().AsTime())
		assert.Equal(t, "AT_RISK", resp.GetAssessment().GetLevel())
	})

	t.Run("as-of is widened to its day and keys the cache by day", func(t *testing.T) {
		asOf := time.Date(2024, 2, 1, 18, 30, 0, 0, time.UTC)
		svc := &mocks.MockRiskService{
			GetCustomerRiskFunc: func(_ context.Context, _ string, got time.Time) (risk.CustomerRisk, error) {
				assert.Equal(t, time.Date(2024, 2, 1, 23, 59, 59, 999999999, time.UTC), got)
				return risky, nil
			},
		}
		var gotKey string
		cache := &mocks.MockCacher{
			GetFunc: func(_ context.Context, key string, _ any) error {
				gotKey = key
				return errors.New("redis down")
			},
		}
		handlers := newTestHandlers(svc, cache)

		_, err := handlers.GetCustomerRisk(context.Background(), &pb.CustomerRiskRequest{
			CustomerId: "c-1",
			AsOf:       timestamppb.New(asOf),
		})

		require.NoError(t, err)
		assert.Equal(t, "grpc:customer_risk:c-1:2024-02-01", gotKey)
	})

	t.Run("empty id", func(t *testing.T) {
		handlers := newTestHandlers(&mocks.MockRiskService{}, &mocks.MockCacher{})

		_, err := handlers.GetCustomerRisk(context.Background(), &pb.CustomerRiskRequest{})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			GetCustomerRiskFunc: func(context.Context, string, time.Time) (risk.CustomerRisk, error) {
				return risk.CustomerRisk{}, fmt.Errorf("%w: list visits: boom", service.ErrStorageFailure)
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		_, err := handlers.GetCustomerRisk(context.Background(), &pb.CustomerRiskRequest{CustomerId: "c-1"})

		assert.Equal(t, codes.Internal, status.Code(err))
		assert.Contains(t, err.Error(), "database error")
	})
}

func TestGetCustomerRisk_SameDayRequestsShareAsOf(t *testing.T) {
	var calls atomic.Int32
	var scoredAt []time.Time
	svc := &mocks.MockRiskService{
		GetCustomerRiskFunc: func(_ context.Context, _ string, asOf time.Time) (risk.CustomerRisk, error) {
			calls.Add(1)
			scoredAt = append(scoredAt, asOf)
			return risk.CustomerRisk{Customer: risk.Customer{ID: "c-1"}}, nil
		},
	}
	cache := mocks.NewInMemoryCache()
	handlers := newTestHandlers(svc, cache)

	early := time.Date(2024, 8, 28, 1, 0, 0, 0, time.UTC)
	late := time.Date(2024, 8, 28, 23, 0, 0, 0, time.UTC)

	earlyAsOf, earlyKey := handlers.asOfDay(&pb.CustomerRiskRequest{AsOf: timestamppb.New(early)})
	lateAsOf, lateKey := handlers.asOfDay(&pb.CustomerRiskRequest{AsOf: timestamppb.New(late)})
	assert.Equal(t, earlyKey, lateKey)
	assert.Equal(t, earlyAsOf, lateAsOf)

	_, err := handlers.GetCustomerRisk(context.Background(), &pb.CustomerRiskRequest{CustomerId: "c-1", AsOf: timestamppb.New(early)})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return cache.Keys() == 1 }, time.Second, 5*time.Millisecond)

	_, err = handlers.GetCustomerRisk(context.Background(), &pb.CustomerRiskRequest{CustomerId: "c-1", AsOf: timestamppb.New(late)})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, scoredAt, 1)
	assert.Equal(t, lateAsOf, scoredAt[0])
}

func TestGetDealershipRisk(t *testing.T) {
	rollup := risk.Rollup{
		Dealership: risk.Dealership{ID: "d-1", Company: "DriveMax Motors"},
		Assessment: risk.Assessment{Score: 45, Level: risk.LevelAtRisk},
		Customers: []risk.CustomerRisk{
			{Customer: risk.Customer{ID: "c-2", Name: "Ravi"}, VisitCount: 1, Assessment: risk.Assessment{Score: 90, Level: risk.LevelCritical}},
			{Customer: risk.Customer{ID: "c-1", Name: "Asha"}, VisitCount: 1, Assessment: risk.Assessment{Score: 0, Level: risk.LevelSafe}},
		},
		WorstVisits: []risk.ScoredVisit{sampleScoredVisit()},
	}

	t.Run("success", func(t *testing.T) {
		var gotKey string
		cache := &mocks.MockCacher{
			GetFunc: func(_ context.Context, key string, _ any) error {
				gotKey = key
				return errors.New("miss")
			},
		}
		svc := &mocks.MockRiskService{
			GetDealershipRiskFunc: func(_ context.Context, id string, _ time.Time) (risk.Rollup, error) {
				assert.Equal(t, "d-1", id)
				return rollup, nil
			},
		}
		handlers := newTestHandlers(svc, cache)

		resp, err := handlers.GetDealershipRisk(context.Background(), &pb.DealershipRiskRequest{DealershipId: "d-1"})

		require.NoError(t, err)
		assert.Equal(t, "grpc:dealership_risk:d-1:2024-03-15", gotKey)
		assert.Equal(t, "DriveMax Motors", resp.GetCompany())
		assert.Equal(t, 45.0, resp.GetAssessment().GetScore())
		require.Len(t, resp.GetCustomers(), 2)
		assert.Equal(t, "Ravi", resp.GetCustomers()[0].GetName())
		assert.Nil(t, resp.GetCustomers()[0].GetLastVisit())
		require.Len(t, resp.GetWorstVisits(), 1)
		assert.Equal(t, "v-1", resp.GetWorstVisits()[0].GetVisit().GetId())
	})

	t.Run("unknown dealership", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			GetDealershipRiskFunc: func(context.Context, string, time.Time) (risk.Rollup, error) {
				return risk.Rollup{}, service.ErrNotFound
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		_, err := handlers.GetDealershipRisk(context.Background(), &pb.DealershipRiskRequest{DealershipId: "x"})

		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestListWorstVisits(t *testing.T) {
	t.Run("forwards the limit", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			GetWorstVisitsFunc: func(_ context.Context, id string, limit int) ([]risk.ScoredVisit, error) {
				assert.Equal(t, "d-1", id)
				assert.Equal(t, 5, limit)
				return []risk.ScoredVisit{sampleScoredVisit()}, nil
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		resp, err := handlers.ListWorstVisits(context.Background(), &pb.WorstVisitsRequest{DealershipId: "d-1", Limit: 5})

		require.NoError(t, err)
		require.Len(t, resp.GetVisits(), 1)
		assert.Equal(t, 90.0, resp.GetVisits()[0].GetAssessment().GetScore())
	})

	t.Run("limit out of range", func(t *testing.T) {
		handlers := newTestHandlers(&mocks.MockRiskService{}, &mocks.MockCacher{})

		for _, limit := range []int32{-1, maxWorstVisits + 1} {
			_, err := handlers.ListWorstVisits(context.Background(), &pb.WorstVisitsRequest{DealershipId: "d-1", Limit: limit})
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		}
	})

	t.Run("empty dealership id", func(t *testing.T) {
		handlers := newTestHandlers(&mocks.MockRiskService{}, &mocks.MockCacher{})

		_, err := handlers.ListWorstVisits(context.Background(), &pb.WorstVisitsRequest{})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("empty result maps to empty list", func(t *testing.T) {
		svc := &mocks.MockRiskService{
			GetWorstVisitsFunc: func(context.Context, string, int) ([]risk.ScoredVisit, error) {
				return nil, nil
			},
		}
		handlers := newTestHandlers(svc, &mocks.MockCacher{})

		resp, err := handlers.ListWorstVisits(context.Background(), &pb.WorstVisitsRequest{DealershipId: "d-1"})

		require.NoError(t, err)
		assert.Empty(t, resp.GetVisits())
	})
}
