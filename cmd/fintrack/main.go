package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.Open(cfg, logger.WithComponent(applog.ComponentStorage).Logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Storage cleanup error", "error", err)
		}
	}()

	var queue apphttp.JobPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		queue = client
		logger.Info("AMQP client initialized", "queue", cfg.AMQPQueue)
	} else {
		logger.Warn("AMQP disabled - signups cannot deliver OTP mail")
	}

	authMgr := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	reports := report.NewAssembler(result.Store)

	srv := apphttp.NewServer(cfg, result.Store, authMgr, reports, queue)
	srv.Handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(srv.Handler)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
