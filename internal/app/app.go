package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	pb "github.com/godilite/dealer-risk/api/v1"
	"github.com/godilite/dealer-risk/internal/config"
	handler "github.com/godilite/dealer-risk/internal/grpc"
	"github.com/godilite/dealer-risk/internal/repository"
	"github.com/godilite/dealer-risk/internal/risk"
	"github.com/godilite/dealer-risk/internal/service"
	"github.com/godilite/dealer-risk/pkg/cache"
	dbbuilder "github.com/godilite/dealer-risk/pkg/database"
	grpcsrv "github.com/godilite/dealer-risk/pkg/grpc/server"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	grpcServer *grpcsrv.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	riskCfg, err := cfg.RiskConfig()
	if err != nil {
		return nil, fmt.Errorf("risk config: %w", err)
	}
	engine, err := risk.New(riskCfg)
	if err != nil {
		return nil, fmt.Errorf("risk engine init failed: %w", err)
	}

	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("driver", cfg.DBDriver))

	dialect := repository.DialectForDriver(cfg.DBDriver)
	applied, err := repository.Migrate(ctx, dbPool, dialect)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	logger.Info("Database migrated", zap.Int("applied", applied), zap.String("dialect", string(dialect)))

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
		cache.WithKeyPrefix(cfg.RedisKeyPrefix),
	)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	riskRepo := repository.NewRiskRepository(dbPool,
		repository.WithDialect(dialect),
		repository.WithEngine(engine))

	riskService := service.NewRiskService(riskRepo, logger, service.WithEngine(engine))

	grpcHandlers := handler.NewGRPCHandlers(riskService, cacheClient, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithRecovery(true),
		grpcsrv.WithLogging(true),
	)
	if err != nil {
		cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterRiskScoringServer(s, grpcHandlers)
	})

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
	}, nil
}

// Run serves until ctx is cancelled, then drains the server and closes the stores.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()
	<-ctx.Done()

	a.logger.Info("application shutting down")
	a.grpcServer.SetServiceHealth(pb.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		a.logger.Warn("shutdown completed but deadline exceeded")
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}
