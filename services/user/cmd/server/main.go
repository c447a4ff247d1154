package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	pkgconfig "github.com/AfsalAzizi/food-delivery-platform/pkg/config"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/logger"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/app"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/config"
)

func main() {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("user-service", cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting user service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("user service stopped")
}
