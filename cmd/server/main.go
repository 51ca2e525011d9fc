package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/portfolio-reporting/internal/config"
	"github.com/segyhp/portfolio-reporting/internal/database"
	"github.com/segyhp/portfolio-reporting/internal/handler"
	"github.com/segyhp/portfolio-reporting/internal/repository"
	"github.com/segyhp/portfolio-reporting/internal/service"
	"github.com/segyhp/portfolio-reporting/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Setup(cfg.Logging, "report-api")

	if cfg.IsProduction() && cfg.App.Debug {
		log.Warn().Msg("APP_DEBUG is on in production: fallback responses expose data store errors")
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	var digests repository.DigestStore
	if redisClient != nil {
		defer redisClient.Close()
		digests = repository.NewDigestRepository(redisClient, cfg.Report.DigestTTL)
	}

	// Initialize repositories
	loanRepo := repository.NewLedgerRepository(db, cfg.Report.NextDueLookbackDays)
	reportItemRepo := repository.NewReportItemRepository(db, cfg.Report.NextDueLookbackDays)

	// Initialize service
	reportService := service.NewReportService(loanRepo, reportItemRepo, cfg)
	reportHandler := handler.NewReportHandler(reportService, digests)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Start server
	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.NewRouter(reportHandler, healthHandler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Strs("kinds", reportService.Kinds()).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited")
}

// initDB opens the pool and, when the store answers, applies migrations if
// enabled. An unreachable store is only logged: requests fall back to demo data.
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Health.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Str("driver", cfg.Database.Driver).Msg("Database unreachable, reports will serve demo data")
		return db, nil
	}

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(cfg.Database.Driver, cfg.Database.DSN()); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Msg("Migrations applied")
	}

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled() {
		log.Info().Msg("Redis not configured, digest endpoint disabled")
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
