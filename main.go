package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/robfig/cron/v3"

	"multi-unit-enrichment/internal/codes"
	"multi-unit-enrichment/internal/datastore"
	"multi-unit-enrichment/internal/notify"
	"multi-unit-enrichment/internal/processor"
	"multi-unit-enrichment/internal/registry"
	"multi-unit-enrichment/internal/retry"
	"multi-unit-enrichment/internal/server"
	"multi-unit-enrichment/internal/vworld"
	"multi-unit-enrichment/pkg/config"
	"multi-unit-enrichment/pkg/health"
	"multi-unit-enrichment/pkg/logging"
	"multi-unit-enrichment/pkg/ratelimit"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		EnableFile: cfg.EnableFileLogging,
		FilePath:   cfg.LogFile,
	})
	if err != nil {
		os.Stderr.WriteString("logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("configuration invalid", err)
	}

	logger.Info("starting multi-unit enrichment service",
		logging.String("schedule", cfg.Schedule),
		logging.String("port", cfg.Port))

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// One token bucket paces every registry and valuation call, matching
	// the public API quota rather than per-client limits.
	limiter := ratelimit.New(cfg.APIRatePerSecond, cfg.APIRatePerSecond)
	limiter.Start()
	defer limiter.Stop()

	store := datastore.NewAirtableStore(cfg, logger)
	resolver := codes.NewResolver(cfg.CodeLookupURL, httpClient, cfg.CodeLookupAttempts, cfg.CodeLookupDelay, logger)
	registryClient := registry.NewClient(cfg.RegistryBaseURL, cfg.PublicAPIKey, httpClient, limiter, logger)
	valuationClient := vworld.NewClient(cfg.VWorldBaseURL, cfg.VWorldAPIKey, cfg.LandStdrYear, httpClient, limiter, logger)

	ledger := retry.NewLedger(cfg.MaxRetryAttempts, time.Duration(cfg.RetryResetDays)*24*time.Hour)
	notifier := notify.NewEmailNotifier(cfg, logger)

	proc := processor.NewRecordProcessor(resolver, registryClient, valuationClient, store, ledger, logger)
	runner := processor.NewJobRunner(store, proc, ledger, notifier, cfg.RecordDelay, logger)

	healthReg := health.NewRegistry()
	if cfg.CodeLookupURL != "" {
		healthReg.Register(health.NewHTTPChecker("code_lookup", cfg.CodeLookupURL, httpClient))
	}
	healthReg.Register(health.NewHTTPChecker("registry", cfg.RegistryBaseURL, httpClient))

	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	_, err = scheduler.AddFunc(cfg.Schedule, func() {
		ctx := context.Background()
		if !runner.ShouldRun(ctx) {
			return
		}
		if _, err := runner.Run(ctx); err != nil {
			logger.Warn("scheduled run did not start", logging.String("reason", err.Error()))
		}
	})
	if err != nil {
		logger.Fatal("invalid job schedule", err, logging.String("schedule", cfg.Schedule))
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := server.New(cfg, runner, ledger, healthReg, logger)
	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Router()}

	go func() {
		logger.Info("http server listening", logging.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown incomplete", err)
	}
}
