package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photomind/internal/bootstrap"
	"photomind/internal/config"
	"photomind/internal/pkg/logger"
	"photomind/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapters, err := bootstrap.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to build adapters", zap.Error(err))
	}
	defer func() { _ = adapters.Close() }()

	if cfg.Metadata.Backend == config.MetadataStoreSQL {
		if err := adapters.Images.EnsureSchema(ctx); err != nil {
			zl.Fatal("Failed to migrate images", zap.Error(err))
		}
		if err := adapters.Tags.EnsureSchema(ctx); err != nil {
			zl.Fatal("Failed to migrate tags", zap.Error(err))
		}
	}

	srv := server.New(cfg, server.NewRouter(cfg, adapters, zl), zl)

	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited")
}
