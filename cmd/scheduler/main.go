package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/segyhp/portfolio-reporting/internal/config"
	"github.com/segyhp/portfolio-reporting/internal/database"
	"github.com/segyhp/portfolio-reporting/internal/repository"
	"github.com/segyhp/portfolio-reporting/internal/scheduler"
	"github.com/segyhp/portfolio-reporting/internal/service"
	"github.com/segyhp/portfolio-reporting/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Setup(cfg.Logging, "report-scheduler")
	log.Info().Msg("Starting digest scheduler...")

	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_HOST is required to store digests")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	reportService := service.NewReportService(
		repository.NewLedgerRepository(db, cfg.Report.NextDueLookbackDays),
		repository.NewReportItemRepository(db, cfg.Report.NextDueLookbackDays),
		cfg,
	)
	job := scheduler.NewDigestJob(
		reportService,
		repository.NewDigestRepository(redisClient, cfg.Report.DigestTTL),
		cfg.Report.RequestTimeout,
	)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.SchedulerLocation()))

	if _, err := scheduler.Register(c, cfg.Scheduler.DigestCron, job); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Scheduler.DigestCron).Msg("Error scheduling digest job")
	}

	// Warm the digests so the endpoint has data before the first tick.
	if err := job.Run(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Initial digest refresh incomplete")
	}

	// Start the scheduler
	c.Start()
	log.Info().Str("cron", cfg.Scheduler.DigestCron).Msg("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}
