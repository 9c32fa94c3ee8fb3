package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hospitalon/hospital-api/internal/config"
	"github.com/hospitalon/hospital-api/internal/email"
	"github.com/hospitalon/hospital-api/internal/handler"
	appointmentHandler "github.com/hospitalon/hospital-api/internal/handler/appointment"
	departmentHandler "github.com/hospitalon/hospital-api/internal/handler/department"
	doctorHandler "github.com/hospitalon/hospital-api/internal/handler/doctor"
	insuranceHandler "github.com/hospitalon/hospital-api/internal/handler/insurance"
	patientHandler "github.com/hospitalon/hospital-api/internal/handler/patient"
	"github.com/hospitalon/hospital-api/internal/middleware"
	"github.com/hospitalon/hospital-api/internal/repository/postgres"
	"github.com/hospitalon/hospital-api/internal/router"
	appointmentService "github.com/hospitalon/hospital-api/internal/service/appointment"
	departmentService "github.com/hospitalon/hospital-api/internal/service/department"
	doctorService "github.com/hospitalon/hospital-api/internal/service/doctor"
	insuranceService "github.com/hospitalon/hospital-api/internal/service/insurance"
	patientService "github.com/hospitalon/hospital-api/internal/service/patient"
	"github.com/hospitalon/hospital-api/pkg/logger"
	redisBroker "github.com/hospitalon/hospital-api/pkg/messaging/redis"
	"github.com/hospitalon/hospital-api/pkg/metrics"
	"github.com/hospitalon/hospital-api/pkg/validator"
	"github.com/hospitalon/hospital-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      parseLogLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	if err := validator.RegisterCustomValidations(); err != nil {
		appLogger.Fatal(err, "failed to register validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	insuranceRepo := postgres.NewInsuranceRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	txManager := postgres.NewTxManager(db)

	appMetrics := metrics.NewMetrics("hospital", "api")

	var notifier appointmentService.Notifier
	if cfg.SMTP.Enabled {
		notifier = email.NewService(cfg.SMTP, appLogger)
	}

	// Services
	patientSvc := patientService.NewService(patientRepo, insuranceRepo, appointmentRepo, txManager, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, departmentRepo, appointmentRepo, txManager, appLogger)
	departmentSvc := departmentService.NewService(departmentRepo, doctorRepo, txManager, appLogger)
	insuranceSvc := insuranceService.NewService(insuranceRepo, txManager, appLogger)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, patientRepo, doctorRepo, outboxRepo,
		txManager, notifier, appLogger, appMetrics,
	)

	// Handlers
	h := handler.NewHandler(db)
	r := router.NewRouter(
		patientHandler.NewHandler(patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		departmentHandler.NewHandler(departmentSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		insuranceHandler.NewHandler(insuranceSvc),
		h,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RequestTimeout:   cfg.Server.RequestTimeout,
			CacheEnabled:     cfg.Cache.Enabled,
			CacheTTL:         cfg.Cache.TTL,
			CacheCleanup:     cfg.Cache.CleanupInterval,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsPrefix:    "hospital_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox processor runs in-process; cmd/worker hosts a standalone copy
	// for deployments that scale event publishing separately.
	broker, err := redisBroker.NewRedisBroker(cfg.Redis.ToBrokerConfig(), appLogger.Zerolog())
	if err != nil {
		appLogger.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(
		outboxRepo, txManager, broker,
		cfg.Outbox.ToWorkerConfig(),
		appLogger, appMetrics,
	)
	go processor.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "failed to start server")
		}
	}()
	appLogger.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}

func parseLogLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
