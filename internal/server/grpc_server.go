package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/oggyb/pinmark/internal/config"
	"github.com/oggyb/pinmark/internal/identity"
)

// NewGRPCServer builds a gRPC server with identity + logging interceptors,
// a health service, and registers all provided services.
// public lists full method names callable without a viewer id.
func NewGRPCServer(log *slog.Logger, public []string, registrars ...Registrar) *grpc.Server {
	open := append([]string{healthpb.Health_Check_FullMethodName}, public...)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logUnary(log),
			identity.UnaryInterceptor(open...),
		),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	return grpcServer
}

// StartGRPCServer listens on the configured address and serves until ctx is done.
func StartGRPCServer(ctx context.Context, cfg *config.Config, grpcServer *grpc.Server) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	return grpcServer.Serve(lis)
}

func logUnary(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Info("rpc failed", "method", info.FullMethod, "code", status.Code(err).String(), "err", err, "took", time.Since(start))
			return resp, err
		}
		log.Debug("rpc", "method", info.FullMethod, "took", time.Since(start))
		return resp, nil
	}
}
