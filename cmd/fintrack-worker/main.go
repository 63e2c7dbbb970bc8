package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/mail"
	"fintrack/internal/render"
	"fintrack/internal/report"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Google Sheets exporter is optional; snapshot jobs fall back to mail
	// only.
	var exporter worker.SnapshotExporter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := render.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	mailer := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderEmail)
	reports := report.NewAssembler(result.Store)
	w := worker.New(result.Store, reports, mailer, exporter, amqpClient)

	schedules, err := w.StartSchedules(ctx, cfg.OTPPurgeSchedule, cfg.SnapshotSchedule)
	if err != nil {
		logger.Error("Failed to start maintenance schedules", "error", err)
		os.Exit(1)
	}
	defer schedules.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.Consume(gctx, func(job *amqp.Job) error {
			return w.HandleJob(gctx, job)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
