package main

import (
	"channel-gate/api"
	"channel-gate/infrastructure/broker"
	"channel-gate/internal"
	"channel-gate/repositories"
	"channel-gate/runtime"
	"channel-gate/runtime/workers"
	"channel-gate/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component, serves HTTP until a signal arrives and releases
// everything in reverse order so deferred cleanups always execute.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	watchlistMode, _ := config.Watchlist()

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()
	debug := logger.Enabled(ctx, slog.LevelDebug)

	// 2. Identity store (BadgerDB)
	db, err := repositories.OpenStore(config.IdentityStorePath, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	directory := repositories.NewIdentityRepository(db, logger, config.SessionTTL)

	// 3. Broker, scheduler and services
	pusherBroker := broker.NewPusherBroker(broker.Config{
		AppID:   config.PusherAppID,
		Key:     config.PusherAppKey,
		Secret:  config.PusherAppSecret,
		Host:    config.PusherHost,
		Secure:  config.PusherSecure,
		Cluster: config.PusherCluster,
		Timeout: config.BrokerTimeout,
	}, logger)

	scheduler := runtime.NewOccupancyScheduler(logger, pusherBroker, runtime.NewTimerRegistry(), config.BroadcastInterval)

	authService := services.NewAuthService(logger, directory, pusherBroker, services.AuthPolicy{
		BannedPrefix:   config.BannedPrefix,
		WatchlistMode:  watchlistMode,
		WatchlistLimit: config.WatchlistLimit,
		Profile:        config.Profile(),
	})
	webhookService := services.NewWebhookService(logger, scheduler, services.WebhookConfig{
		AppKey:    config.PusherAppKey,
		Secret:    []byte(config.PusherAppSecret),
		AllEvents: config.WebhookAllEvents,
	})

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background workers
	sup := workers.NewSupervisor(logger)
	sup.Add(
		workers.NewStoreGCWorker(logger, db, config.StoreGCInterval),
		workers.NewHealthWorker(logger, scheduler, directory, config.HealthInterval),
	)
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 6. HTTP Server Setup
	router := api.NewRouter(logger, api.RouterConfig{
		AllowedOrigins:  config.Origins(),
		EventSigningKey: []byte(config.EventSigningKey),
		StaticDir:       config.StaticDir,
		Debug:           debug,
	}, api.Dependencies{
		Auth:       authService,
		Webhooks:   webhookService,
		Broker:     pusherBroker,
		Scheduler:  scheduler,
		Identities: directory,
	})
	server := &http.Server{
		Addr:              config.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if debug {
			logger.Debug("Debug endpoints enabled", "identities", "/debug/identities", "channels", "/debug/channels")
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 8. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", "error", err)
	}
	scheduler.Close()
	// A persisted store keeps its sessions for the next start.
	if config.IdentityStorePath == "" {
		if err := directory.Clear(); err != nil {
			logger.Warn("Identity directory not cleared", "error", err)
		}
	}
	stop()
	<-supDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}
