package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/grafline/tracking/internal/config"
	"github.com/grafline/tracking/internal/database"
	"github.com/grafline/tracking/internal/events"
	"github.com/grafline/tracking/internal/importer"
	"github.com/grafline/tracking/internal/importer/parser"
	importedpostgres "github.com/grafline/tracking/internal/imported/postgres"
	"github.com/grafline/tracking/internal/mail/imap"
	"github.com/grafline/tracking/internal/orders/adapters"
	orderspostgres "github.com/grafline/tracking/internal/orders/adapters/postgres"
	ordersapp "github.com/grafline/tracking/internal/orders/app"
	ordersmetrics "github.com/grafline/tracking/internal/orders/metrics"
	"github.com/grafline/tracking/internal/telemetry"
)

// The importer is a one-shot process: connect, drain unseen mail, exit.
// Scheduling recurring runs is left to cron or a systemd timer.
//
// main stays a thin exit-code shim so the deferred cleanup in run (pool,
// telemetry flush, mailbox logout inside Run) always fires before the
// process terminates with a non-zero status.
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := telemetry.NewLogger(telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	// Refuse to start with partial mailbox credentials. Failing here beats
	// a confusing dial error against a half-configured host.
	if err := cfg.IMAP.Validate(); err != nil {
		logger.Error("importer cannot start", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name + "-importer",
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing && cfg.Telemetry.OTelEndpoint != "",
		EnableMetrics:  cfg.Telemetry.EnableMetrics && cfg.Telemetry.OTelEndpoint != "",
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			return err
		}
	}

	meter := otel.Meter("github.com/grafline/tracking")

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		return err
	}
	eventMetrics, err := events.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create event metrics", "error", err)
		return err
	}
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		return err
	}
	importerMetrics, err := importer.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create importer metrics", "error", err)
		return err
	}

	repo := adapters.NewObservableRepository(orderspostgres.NewRepository(pool), dbMetrics)
	eventBus := adapters.NewObservableEventBus(events.NewNoopBus(), eventMetrics)
	service := ordersapp.NewService(repo, eventBus, logger, orderMetrics)

	mailbox, err := imap.Connect(
		cfg.IMAP.Addr(),
		cfg.IMAP.Username,
		cfg.IMAP.Password,
		time.Duration(cfg.IMAP.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		logger.Error("failed to connect to IMAP server", "host", cfg.IMAP.Host, "port", cfg.IMAP.Port, "error", err)
		return err
	}

	// Run logs out of the mailbox when the pass ends, success or failure.
	report, err := importer.New(
		mailbox,
		parser.NewStub(),
		service,
		importedpostgres.NewStore(pool),
		eventBus,
		logger,
		importerMetrics,
	).Run(ctx)
	if err != nil {
		logger.Error("importer run failed", "error", err)
		return fmt.Errorf("importer run: %w", err)
	}

	logger.Info("importer run finished",
		"imported", report.Imported,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return nil
}
