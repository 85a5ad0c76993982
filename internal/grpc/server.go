package grpcserver

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	maintenancev1 "maintenanceManagement/api/maintenance/v1"
	"maintenanceManagement/internal/auth"
	"maintenanceManagement/internal/config"
	"maintenanceManagement/repository"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// NewServer builds the gRPC server with the WorkOrderService, the
// DirectoryService and the health service registered behind the
// authentication interceptor.
func NewServer(secret string, users *repository.UserRepository, orders *repository.WorkOrderRepository, catalog *repository.CatalogRepository, logger *zap.Logger) *grpc.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(logger),
		auth.NewUnaryAuthInterceptor(secret, healthCheckMethod),
	))

	maintenancev1.RegisterWorkOrderServiceServer(srv, &WorkOrderServer{Users: users, Orders: orders, Logger: logger})
	maintenancev1.RegisterDirectoryServiceServer(srv, &DirectoryServer{Users: users, Catalog: catalog})

	hs := health.NewServer()
	hs.SetServingStatus(maintenancev1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(maintenancev1.DirectoryServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC starts the gRPC server on the configured address and returns a shutdown function.
func StartGRPC(cfg *config.Config, users *repository.UserRepository, orders *repository.WorkOrderRepository, catalog *repository.CatalogRepository, logger *zap.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	// Plaintext; terminate TLS in front of the server in production.
	srv := NewServer(cfg.Auth.JWTSecret, users, orders, catalog, logger)

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc serve", zap.Error(err))
		}
	}()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Info("rpc failed", zap.String("method", info.FullMethod), zap.Error(err))
		} else {
			logger.Debug("rpc", zap.String("method", info.FullMethod))
		}
		return resp, err
	}
}
