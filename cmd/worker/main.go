package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hospitalon/hospital-api/internal/config"
	"github.com/hospitalon/hospital-api/internal/repository/postgres"
	"github.com/hospitalon/hospital-api/pkg/logger"
	redisBroker "github.com/hospitalon/hospital-api/pkg/messaging/redis"
	"github.com/hospitalon/hospital-api/pkg/metrics"
	"github.com/hospitalon/hospital-api/pkg/worker"
)

// Standalone outbox processor for deployments that publish events from a
// dedicated process instead of the API server.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisBroker.NewRedisBroker(cfg.Redis.ToBrokerConfig(), appLogger.Zerolog())
	if err != nil {
		appLogger.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	txManager := postgres.NewTxManager(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo, txManager, broker,
		cfg.Outbox.ToWorkerConfig(),
		appLogger,
		metrics.NewMetrics("hospital", "worker"),
	)

	startHealthServer(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down worker")
		cancel()
	}()

	processor.Start(ctx)
}

func startHealthServer(appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			appLogger.Error(err, "health check server failed")
		}
	}()
}
