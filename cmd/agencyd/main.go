package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dj_booking_service/internal/app"
	"dj_booking_service/internal/infra/clock"
	"dj_booking_service/internal/infra/config"
	idb "dj_booking_service/internal/infra/database"
	"dj_booking_service/internal/infra/logger"
	"dj_booking_service/internal/infra/mail"
	"dj_booking_service/internal/infra/scheduler"
	"dj_booking_service/internal/infra/telegram"
	"dj_booking_service/internal/infra/web"

	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("DJ Booking Agency service starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Configuration loaded")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	if err := idb.Migrate(context.Background(), db); err != nil {
		log.WithError(err).Fatal("Could not apply database schema")
	}
	log.Info("Database schema applied.")

	// Initialize Repositories
	bookingRepo := idb.NewPostgresBookingRepository(db)
	interactionRepo := idb.NewPostgresInteractionRepository(db)
	djRepo := idb.NewPostgresDJRepository(db)
	log.Info("Repositories initialized.")

	// Optional Telegram alert channel
	var notifier app.AdminNotifier
	if cfg.TelegramToken != "" {
		tgNotifier, err := telegram.NewAdminNotifier(cfg.TelegramToken, cfg.AdminChatID)
		if err != nil {
			log.WithError(err).Fatal("Could not create Telegram admin notifier")
		}
		notifier = tgNotifier
		log.Info("Telegram admin notifier initialized.")
	} else {
		log.Info("Telegram admin notifier disabled (no token configured).")
	}

	// Initialize Services
	sysClock := clock.NewSystem()
	mailClient := mail.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	followUpService := app.NewFollowUpServiceImpl(
		bookingRepo,
		interactionRepo,
		mailClient,
		notifier,
		sysClock,
		log,
		cfg.FollowUpClaimLease,
	)
	bookingService := app.NewBookingService(bookingRepo, interactionRepo, sysClock, log)
	adminService := app.NewAdminService(djRepo)
	log.Info("Application services initialized.")

	// Initialize SweepScheduler
	sweepScheduler := scheduler.NewSweepScheduler(
		followUpService,
		log,
		cfg.CronSpecFollowUpSweep,
		cfg.SweepTimeout,
	)
	sweepScheduler.Start() // Start the cron job

	// Initialize HTTP server
	server := web.NewServer(cfg.HTTPAddr, web.Deps{
		Bookings:  bookingService,
		FollowUps: followUpService,
		Admin:     adminService,
		Sweep:     sweepScheduler,
		Logger:    log,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	log.Info("Application setup complete. Scheduler and HTTP server are running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	sweepScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}
	// db.Close() is handled by defer
	log.Info("Application shut down gracefully.")
}
