package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"refboard/internal/amqp"
	"refboard/internal/config"
	applog "refboard/internal/log"
	"refboard/internal/service"
	"refboard/internal/source"
	gsheet "refboard/internal/source/google"
	mem "refboard/internal/source/memory"
	"refboard/internal/source/webapp"
	"refboard/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting refresh-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.RefreshUserID == "" {
		logger.Error("REFRESH_USER_ID is required for the refresh worker")
		os.Exit(1)
	}

	var src source.TableReader

	switch cfg.SourceBackend {
	case "webapp":
		cli, err := webapp.New(cfg.WebAppURL, nil)
		if err != nil {
			logger.Error("Failed to initialize web app client", "error", err)
			os.Exit(1)
		}
		src = cli
	case "sheets":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		src = cli
	default:
		src = mem.NewFromFiles(cfg.SeedDataDir)
	}

	// AMQP is optional: without a URL the worker refreshes silently.
	var publisher worker.RefreshPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without publishing", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - refreshes will not be published")
	}

	svc := service.NewReportService(src)
	// The holder receives each refreshed dataset for in-process readers;
	// standalone, this binary's observable output is the AMQP publish.
	holder := service.NewHolder()
	w := worker.NewRefreshWorker(svc, holder, publisher, cfg.RefreshUserID, cfg.RefreshInterval)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Refresh worker configured",
		"user_id", cfg.RefreshUserID,
		"interval", cfg.RefreshInterval,
		"backend", cfg.SourceBackend)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Refresh worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Refresh worker stopped gracefully")
}
