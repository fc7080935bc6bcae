package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Almonte5/Finance-Tracker/internal/auth"
	"github.com/Almonte5/Finance-Tracker/internal/config"
	"github.com/Almonte5/Finance-Tracker/internal/dashboard"
	"github.com/Almonte5/Finance-Tracker/internal/events"
	apphttp "github.com/Almonte5/Finance-Tracker/internal/http"
	"github.com/Almonte5/Finance-Tracker/internal/services"
	"github.com/Almonte5/Finance-Tracker/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Event publishing is optional; without a broker the API still serves.
	var publisher *events.Client
	if cfg.AMQPURL != "" {
		publisher, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
			os.Exit(1)
		}
		defer publisher.Close()
		logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Event publishing disabled")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(repo, tokens)
	categorySvc := services.NewCategoryService(repo)
	transactionSvc := services.NewTransactionService(repo, publisher)
	dashboardSvc := dashboard.NewService(repo)

	srv := apphttp.NewServer(":"+cfg.Port, authSvc, categorySvc, transactionSvc, dashboardSvc, cfg.RateLimitPerMinute)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
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

	logger.Info("Starting finance-tracker server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
