package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"exam-supervision/proctorate/internal/api"
	"exam-supervision/proctorate/internal/config"
	"exam-supervision/proctorate/internal/db"
	"exam-supervision/proctorate/internal/db/repositories"
	"exam-supervision/proctorate/internal/jobs"
	"exam-supervision/proctorate/internal/logging"
	"exam-supervision/proctorate/internal/metrics"
	"exam-supervision/proctorate/internal/providers"
	"exam-supervision/proctorate/internal/routes"
	"exam-supervision/proctorate/internal/services"
)

// @title Proctorate Sync API
// @version 1.0
// @description Synchronization backend mirroring the national exam registry.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Proctorate starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	dsn := cfg.Database.DSN()

	// Connect to DB with sqlx
	if err := db.InitPostgres(dsn); err != nil {
		logging.Fatal("failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	if err := db.RunMigrations(dsn); err != nil {
		logging.Fatal("failed to run migrations", "error", err.Error())
	}
	logging.Info("Database schema up to date")

	// Connect to DB with GORM for the ledger
	if _, err := db.InitPostgresORM(dsn); err != nil {
		logging.Fatal("failed to connect to Postgres (GORM)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	metricsReg := metrics.NewMetricsRegistry()

	// Repositories and services
	txManager := db.NewTransactionManager(db.DB)
	buildingRepo := repositories.NewBuildingRepository(db.DB)
	roomRepo := repositories.NewRoomRepository(db.DB)
	participantRepo := repositories.NewParticipantRepository(db.DB)
	ledger := repositories.NewSyncLogRepository(db.PgDB)

	registry := providers.NewRegistryProvider(cfg.Registry)
	reconciler := services.NewReconciliationService(buildingRepo, roomRepo, participantRepo, txManager)
	statusSvc := services.NewStatusService(ledger)

	facilityJob := jobs.NewFacilitySyncJob(registry, reconciler, ledger, metricsReg, cfg.Sync.StaleRunThreshold)
	participantJob := jobs.NewParticipantSyncJob(registry, reconciler, ledger, metricsReg, cfg.Sync.StaleRunThreshold)

	// Scheduler loops stop with this context on shutdown.
	schedCtx, stopSched := context.WithCancel(context.Background())
	defer stopSched()

	jobs.InitializeJobs(schedCtx, cfg.Sync, facilityJob, participantJob)

	upSince := time.Now()
	handlers := api.NewSyncHandlers(facilityJob, participantJob, statusSvc, cfg.Sync.WindowDays)
	router := routes.RegisterRoutes(upSince, metricsReg, handlers, cfg.AuthSecret)

	// Metrics endpoint lives outside the Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: mux,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.HTTPPort, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server exited", "error", err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Info("Shutdown signal received")
	stopSched()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("graceful shutdown failed", "error", err.Error())
	}

	logging.Info("Server stopped")
}
