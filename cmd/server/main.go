package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/pinmark/internal/app"
	"github.com/oggyb/pinmark/internal/cache"
	"github.com/oggyb/pinmark/internal/config"
	"github.com/oggyb/pinmark/internal/db"
	"github.com/oggyb/pinmark/internal/logger"
	"github.com/oggyb/pinmark/internal/server"
	"github.com/oggyb/pinmark/internal/service/accounts"
	"github.com/oggyb/pinmark/internal/service/images"
	"github.com/oggyb/pinmark/internal/service/social"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis. View counters are best-effort, so a dead Redis is not fatal.
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, view counters degraded", "addr", cfg.Redis.Addr, "err", err)
	}

	// Inject logger into app context
	appCtx := app.New(cfg, database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	grpcServer := server.NewGRPCServer(log, accounts.PublicMethods,
		accounts.NewRegistrar(appCtx),
		social.NewRegistrar(appCtx),
		images.NewRegistrar(appCtx),
	)

	addr := cfg.GRPC.Host + ":" + cfg.GRPC.Port
	log.Info("starting gRPC server", "addr", addr, "env", cfg.App.ENV)

	if err := server.StartGRPCServer(ctx, cfg, grpcServer); err != nil {
		log.Error("failed to start gRPC server", "err", err)
	}
	log.Info("gRPC server stopped")
}
