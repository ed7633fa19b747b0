package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/config"
	"github.com/Dan9191/bank-credit-engine/internal/handler"
	"github.com/Dan9191/bank-credit-engine/internal/integrations/cbr"
	"github.com/Dan9191/bank-credit-engine/internal/metrics"
	"github.com/Dan9191/bank-credit-engine/internal/middleware"
	"github.com/Dan9191/bank-credit-engine/internal/rates"
	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/Dan9191/bank-credit-engine/internal/scoring"
	"github.com/Dan9191/bank-credit-engine/internal/service"
	"github.com/Dan9191/bank-credit-engine/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// memoryDSN runs the engine on the in-memory store instead of PostgreSQL.
const memoryDSN = "memory"

const rateCacheTTL = time.Hour

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// Initialize layers
	m := metrics.New()
	cbrClient := cbr.NewCBRClient(cfg, logger)
	rateProvider := rates.NewProvider(cbrClient, cfg.FallbackMortgageRate, rateCacheTTL, logger, m)
	gate := scoring.NewGate(scoring.NewEngine(cfg.Scoring), cfg.MinDownPaymentPercent)
	svc := service.NewService(store, gate, rateProvider, email.NewSender(cfg, logger), m, logger, cfg)
	h := handler.NewHandler(svc, logger)

	loginLimit, err := middleware.RateLimit(cfg.LoginRateLimit)
	if err != nil {
		logger.Fatalf("Failed to configure rate limit: %v", err)
	}
	router := handler.NewRouter(h, handler.Middlewares{
		Logging:    middleware.Logging(logger, m),
		Auth:       middleware.AuthMiddleware(cfg.JWTSecret, logger),
		LoginLimit: loginLimit,
	}, m.Handler())

	scheduler, err := service.NewScheduler(svc, cfg.SweepSchedule, cfg.RateRefreshSchedule, logger)
	if err != nil {
		logger.Fatalf("Failed to configure scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}

// openStore connects to PostgreSQL and applies migrations, or returns the
// in-memory store when DB_CONN is "memory".
func openStore(cfg *config.Config, logger *logrus.Logger) (repository.Store, func(), error) {
	if cfg.DBConn == memoryDSN {
		logger.Warn("Using the in-memory store; data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := repository.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return repository.NewRepository(db, cfg.HMACSecret), func() { db.Close() }, nil
}
