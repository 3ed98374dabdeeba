package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"refboard/internal/config"
	apphttp "refboard/internal/http"
	applog "refboard/internal/log"
	"refboard/internal/service"
	"refboard/internal/source"
	gsheet "refboard/internal/source/google"
	mem "refboard/internal/source/memory"
	"refboard/internal/source/webapp"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var src source.TableReader

	switch cfg.SourceBackend {
	case "webapp":
		cli, err := webapp.New(cfg.WebAppURL, nil)
		if err != nil {
			logger.Error("Failed to initialize web app client", "error", err, "backend", cfg.SourceBackend)
			os.Exit(1)
		}
		src = cli
		logger.Info("Initialized web app backend", "backend", cfg.SourceBackend, "url", cfg.WebAppURL)
	case "sheets":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.SourceBackend)
			os.Exit(1)
		}
		src = cli
		logger.Info("Initialized Google Sheets backend", "backend", cfg.SourceBackend)
	default:
		src = mem.NewFromFiles(cfg.SeedDataDir)
		logger.Info("Initialized memory backend", "backend", cfg.SourceBackend, "seed_dir", cfg.SeedDataDir)
	}

	svc := service.NewReportService(src)
	srv := apphttp.NewServer(":"+cfg.Port, svc, src, cfg.CacheSize, cfg.CacheTTL)
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting referral report server", "port", cfg.Port, "backend", cfg.SourceBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
