package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

var scoreInfo = &grpc.UnaryServerInfo{FullMethod: "/dealerrisk.v1.RiskScoring/ScoreVisit"}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel zapcore.Level
		wantMsg   string
		wantCode  string
	}{
		{"ok", nil, zapcore.InfoLevel, "gRPC request completed", "OK"},
		{"not found", status.Error(codes.NotFound, "visit v-9 not found"), zapcore.WarnLevel, "gRPC request failed", "NotFound"},
		{"invalid", status.Error(codes.InvalidArgument, "visit_id is required"), zapcore.WarnLevel, "gRPC request failed", "InvalidArgument"},
		{"internal", status.Error(codes.Internal, "database error"), zapcore.ErrorLevel, "gRPC request failed", "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			interceptor := LoggingInterceptor(zap.New(core))

			resp, err := interceptor(context.Background(), "req", scoreInfo, func(ctx context.Context, req any) (any, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return "scored", nil
			})

			if tt.err == nil {
				require.NoError(t, err)
				assert.Equal(t, "scored", resp)
			} else {
				assert.Equal(t, tt.err, err)
			}

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.wantCode, fields["status_code"])
			assert.Equal(t, scoreInfo.FullMethod, fields["method"])
			assert.Equal(t, "unknown", fields["client_addr"])
		})
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zaptest.NewLogger(t))

	t.Run("panic becomes Internal", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", scoreInfo, func(ctx context.Context, req any) (any, error) {
			panic("nil map write")
		})
		assert.Nil(t, resp)
		assert.Equal(t, codes.Internal, status.Code(err))
	})

	t.Run("normal calls pass through", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", scoreInfo, func(ctx context.Context, req any) (any, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})
}

func TestInterceptorOrder(t *testing.T) {
	var calls []string
	tag := func(name string) grpc.UnaryServerInterceptor {
		return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			calls = append(calls, name)
			return handler(ctx, req)
		}
	}

	o := &Options{logger: zap.NewNop(), enableRecovery: true, enableLogging: true}
	WithUnaryInterceptors(tag("a"), tag("b"))(o)
	assert.Len(t, o.interceptors(), 4)

	o = &Options{logger: zap.NewNop()}
	assert.Empty(t, o.interceptors())

	WithUnaryInterceptors(tag("a"), tag("b"))(o)
	chain := o.interceptors()
	require.Len(t, chain, 2)

	_, err := chain[0](context.Background(), nil, scoreInfo, func(ctx context.Context, req any) (any, error) {
		return chain[1](ctx, req, scoreInfo, func(context.Context, any) (any, error) { return nil, nil })
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func newTestServer(t *testing.T, opts ...Option) (*Server, healthpb.HealthClient) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv, err := New(append([]Option{WithListener(lis), WithLogger(zaptest.NewLogger(t))}, opts...)...)
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	conn, err := grpc.NewClient(srv.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return srv, healthpb.NewHealthClient(conn)
}

func TestServer_Health(t *testing.T) {
	srv, client := newTestServer(t, WithLogging(true), WithRecovery(true), WithServerOptions(grpc.MaxRecvMsgSize(1<<20)))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	_, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "dealerrisk.v1.RiskScoring"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	srv.RegisterServiceWithHealth("dealerrisk.v1.RiskScoring", func(*grpc.Server) {})
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "dealerrisk.v1.RiskScoring"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	srv.SetServiceHealth("dealerrisk.v1.RiskScoring", healthpb.HealthCheckResponse_NOT_SERVING)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "dealerrisk.v1.RiskScoring"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(WithPort(70000))
	assert.ErrorIs(t, err, ErrInvalidPort)

	_, err = New(WithPort(0))
	assert.ErrorIs(t, err, ErrInvalidPort)
}
