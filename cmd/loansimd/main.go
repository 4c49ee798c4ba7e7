package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edufin/loansim/internal/application/dto"
	"github.com/edufin/loansim/internal/application/usecase"
	"github.com/edufin/loansim/internal/infrastructure/config"
	"github.com/edufin/loansim/internal/infrastructure/kafka"
	pgRepo "github.com/edufin/loansim/internal/infrastructure/postgres"
	pkgkafka "github.com/edufin/loansim/pkg/kafka"
	"github.com/edufin/loansim/pkg/observability"
	pkgpostgres "github.com/edufin/loansim/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(cfg.ServiceName, observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	logger.Info("starting loansim",
		"seed", cfg.Sim.Seed,
		"batch_limit", cfg.Sim.BatchLimit,
	)

	// Parameter catalog, with optional file overrides.
	cat, err := config.LoadCatalog(cfg.Sim.ParamsFile)
	if err != nil {
		logger.Error("failed to load parameter catalog", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.MigrateUp(cfg.MigrationsURL, pgCfg); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// Kafka producer.
	producer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer producer.Close()

	// Wire adapters and the use case.
	runSimulation, err := usecase.NewRunSimulationUseCase(
		cat,
		pgRepo.NewApplicationSource(pool),
		pgRepo.NewLoanRepo(pool),
		pgRepo.NewPaymentEventRepo(pool),
		pgRepo.NewDefaultRecordRepo(pool),
		kafka.NewEventPublisher(producer, logger),
		logger,
	)
	if err != nil {
		logger.Error("failed to build simulation use case", "error", err)
		os.Exit(1)
	}

	result, err := runSimulation.Execute(ctx, dto.SimulationRequest{
		Seed:        cfg.Sim.Seed,
		AsOf:        cfg.Sim.AsOf,
		Parallelism: cfg.Sim.Parallelism,
		BatchLimit:  cfg.Sim.BatchLimit,
	})
	if err != nil {
		logger.Error("simulation run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("portfolio persisted",
		"run_id", result.Summary.RunID,
		"loans", result.Summary.Loans,
		"rejected", result.Summary.Rejected,
		"skipped", result.Summary.Skipped,
		"defaulted", result.Summary.Defaulted,
		"payments", result.Summary.Payments,
		"duration", result.Summary.Duration,
	)
}
