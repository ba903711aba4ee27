package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "fitreminder/internal/application/service"

	// Domain Layer
	"fitreminder/internal/domain/constant"
	"fitreminder/internal/domain/repository"

	// Infrastructure Layer
	"fitreminder/internal/infrastructure/database"
	"fitreminder/internal/infrastructure/fcm"
	lineClient "fitreminder/internal/infrastructure/line"
	"fitreminder/internal/infrastructure/lock"
	"fitreminder/internal/infrastructure/notify"
	"fitreminder/internal/infrastructure/scheduler"
	"fitreminder/internal/infrastructure/twilio"

	// Interfaces Layer
	"fitreminder/internal/interfaces/api/handler"
	"fitreminder/internal/interfaces/api/router"

	// Packages
	"fitreminder/internal/pkg/auth"
	"fitreminder/internal/pkg/config"
	appLogger "fitreminder/internal/pkg/logger"

	"gorm.io/gorm"
)

const tickLockKey = "fitreminder:scheduler:tick"

func gracefulShutdown(apiServer *http.Server, schedulerService appService.SchedulerService, db *gorm.DB, locker *lock.RedisLocker, log appLogger.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Stop the scheduler first; an in-flight tick is allowed to finish.
	log.Info("Stopping scheduler...")
	schedulerService.Stop()
	log.Info("Scheduler stopped.")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Error closing redis connection", err)
		}
	}

	log.Info("Closing database connection...")
	if err := database.Close(db); err != nil {
		log.Error("Error closing database", err)
	} else {
		log.Info("Database connection closed.")
	}

	log.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// buildChannels creates a delivery channel for every configured name.
func buildChannels(ctx context.Context, cfg *config.Config, contacts repository.ContactRepository, log appLogger.Logger) ([]notify.Channel, *lineClient.Client, error) {
	var (
		channels []notify.Channel
		line     *lineClient.Client
	)
	for _, name := range cfg.NotifyChannels {
		if !constant.Channel(name).Valid() {
			return nil, nil, fmt.Errorf("unknown notify channel %q", name)
		}
		switch constant.Channel(name) {
		case constant.ChannelLog:
			channels = append(channels, notify.NewLogChannel(log))
		case constant.ChannelLine:
			client, err := lineClient.NewClient(cfg.LineChannelSecret, cfg.LineChannelAccessToken, log)
			if err != nil {
				return nil, nil, err
			}
			line = client
			channels = append(channels, notify.NewLineChannel(client, contacts))
		case constant.ChannelFCM:
			client, err := fcm.NewClient(ctx, cfg.FirebaseCredentialsFile)
			if err != nil {
				return nil, nil, err
			}
			channels = append(channels, notify.NewFCMChannel(client, contacts))
		case constant.ChannelTwilio:
			client, err := twilio.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
			if err != nil {
				return nil, nil, err
			}
			channels = append(channels, notify.NewSMSChannel(client, contacts))
		}
	}
	return channels, line, nil
}

func main() {
	// --- Initialization ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLog := appLogger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = appLog.Sync() }()
	appLog.Info("Logger initialized.")

	// --- Infrastructure ---
	db, err := database.Open(database.Options{
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		Verbose:     !cfg.IsProduction(),
	}, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	reminderRepo := database.NewReminderRepository(db)
	contactRepo := database.NewContactRepository(db)
	appLog.Info("Database and repositories initialized.")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStartup()

	channels, line, err := buildChannels(startupCtx, cfg, contactRepo, appLog)
	if err != nil {
		appLog.Error("Failed to initialize notify channels", err)
		os.Exit(1)
	}
	dispatcher := notify.NewMulti(appLog, channels...)
	appLog.Info(fmt.Sprintf("Notify channels: %v", dispatcher.Names()))

	var locker *lock.RedisLocker
	schedCfg := appService.SchedulerConfig{
		Interval:    cfg.PollInterval,
		TickTimeout: cfg.TickTimeout,
		Concurrency: cfg.DispatchConcurrency,
		MaxAttempts: cfg.MaxDispatchAttempts,
	}
	if cfg.RedisAddr != "" {
		locker, err = lock.NewRedisLocker(startupCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisLockDB, tickLockKey, cfg.TickLockTTL)
		if err != nil {
			appLog.Error("Failed to connect to redis", err)
			os.Exit(1)
		}
		schedCfg.Locker = locker
		appLog.Info("Redis tick lock enabled.")
	}

	// --- Application Services ---
	cronScheduler := scheduler.NewScheduler(appLog)
	schedulerSvc := appService.NewSchedulerService(cronScheduler, reminderRepo, dispatcher, schedCfg, appLog)
	reminderSvc := appService.NewReminderService(reminderRepo, cfg.ReminderMessage, time.Now, appLog)
	contactSvc := appService.NewContactService(contactRepo, appLog)
	appLog.Info("Application services initialized.")

	if err := schedulerSvc.Start(); err != nil {
		appLog.Error("Failed to start scheduler", err)
		os.Exit(1)
	}

	// --- API Handlers ---
	checks := map[string]handler.Pinger{"database": reminderRepo}
	if locker != nil {
		checks["redis"] = locker
	}
	routerCfg := &router.Config{
		ReminderHandler:    handler.NewReminderHandler(reminderSvc, appLog),
		ContactHandler:     handler.NewContactHandler(contactSvc, appLog),
		HealthHandler:      handler.NewHealthHandler(checks, appLog),
		Verifier:           auth.NewTokenVerifier(cfg.JWTSecret),
		Logger:             appLog,
		AllowOrigins:       cfg.CORSAllowOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	if line != nil {
		routerCfg.LineHandler = handler.NewLineHandler(line, contactSvc, appLog)
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, schedulerSvc, db, locker, appLog, done)

	appLog.Info(fmt.Sprintf("Server starting on port %s", cfg.Port))
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
