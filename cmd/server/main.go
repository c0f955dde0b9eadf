package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/rl1809/invenedu/internal/adapter/handler"
	"github.com/rl1809/invenedu/internal/adapter/storage"
	"github.com/rl1809/invenedu/internal/config"
	"github.com/rl1809/invenedu/internal/core/service"
	"github.com/rl1809/invenedu/internal/logger"
	"github.com/rl1809/invenedu/internal/port"
	"github.com/rl1809/invenedu/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}

	// Initialize store
	dialect, err := storage.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	store, err := storage.Open(ctx, dialect, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("connected to database", "driver", dialect)

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize request guard
	var guard port.RequestGuard
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		defer rdb.Close()
		guard = storage.NewRedisGuard(rdb, cfg.RequestGuardTTL)
		slog.Info("connected to redis", "addr", cfg.RedisAddr)
	} else {
		guard = storage.NewMemoryGuard(0, cfg.RequestGuardTTL)
		slog.Info("using in-memory request guard")
	}

	// Initialize services
	ledger := service.NewLedgerService(store)
	categories := service.NewCategoryService(store)
	engine := service.NewIssuanceService(store)
	queries := service.NewQueryService(store, cfg.PageSize)
	directory := service.NewDirectoryService(store)

	// Initialize gRPC server
	grpcHandler := handler.NewGRPCHandler(engine, queries, directory)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcHandler.UnaryAuthInterceptor()))
	handler.RegisterIssuanceServer(grpcServer, grpcHandler)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}

	go func() {
		slog.Info("gRPC server listening", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(ledger, categories, engine, queries, directory, guard).
		WithPinger(store)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown", "error", err)
	}
	slog.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	slog.Info("gRPC server stopped")

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracer shutdown", "error", err)
	}
	return nil
}
