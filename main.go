package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tranmq/bida-club/internal/badges"
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/config"
	"github.com/tranmq/bida-club/internal/database"
	server "github.com/tranmq/bida-club/internal/http"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/metrics"
	"github.com/tranmq/bida-club/internal/notifier"
	"github.com/tranmq/bida-club/internal/notifier/slack"
	"github.com/tranmq/bida-club/internal/processor"
	"github.com/tranmq/bida-club/internal/stats"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db, cfg.Players.PayerOrder)
	matchLedger := ledger.New(db, cfg.Players.PayerOrder)
	aggregator := stats.New(db)
	badgeStore := badges.New(db)
	evaluator := badges.NewEvaluator(db, badgeStore)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var notify notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Token != "" {
		notify = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
		log.Info("Slack notifications enabled", "channel", cfg.Slack.ChannelID)
	} else {
		log.Info("No Slack token configured, notifications disabled")
	}

	proc := processor.New(clubStore, matchLedger, evaluator, notify, metricsSvc)

	if cfg.Players.AutoInit {
		proc.SeedPlayers(cfg.Players.DefaultPlayers)
	}

	s := server.NewServer(
		clubStore,
		matchLedger,
		aggregator,
		badgeStore,
		proc,
		metricsSvc,
		metricsHandler,
		cfg,
		db,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
