package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"kyatbook/internal/amqp"
	"kyatbook/internal/auth"
	"kyatbook/internal/config"
	apphttp "kyatbook/internal/http"
	"kyatbook/internal/services"
	"kyatbook/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	tokens, err := auth.NewTokenStore(cfg.TokenDBPath)
	if err != nil {
		logger.Error("Failed to initialize token store", "error", err, "path", cfg.TokenDBPath)
		os.Exit(1)
	}
	defer tokens.Close()

	// AMQP is optional, records still save when the broker is down.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, ledger sync messages disabled", "error", err)
		} else {
			defer amqpClient.Close()
		}
	}

	srv := apphttp.NewServer(
		services.NewRecordService(repo, amqpClient),
		services.NewFeeService(repo),
		services.NewReportService(repo),
		tokens,
		repo,
		cfg.PageLimit,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting kyatbook server", "port", cfg.Port)
	if err := srv.Start(ctx, cfg.Port); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
