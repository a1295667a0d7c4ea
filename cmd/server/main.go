package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/supportdesk/backend/internal/config"
	"github.com/supportdesk/backend/internal/db"
	httpapi "github.com/supportdesk/backend/internal/http"
	"github.com/supportdesk/backend/internal/http/handlers"
	"github.com/supportdesk/backend/internal/ingest"
	"github.com/supportdesk/backend/internal/models"
	"github.com/supportdesk/backend/internal/priority"
	"github.com/supportdesk/backend/internal/response"
	"github.com/supportdesk/backend/internal/sentiment"
	"github.com/supportdesk/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "supportdesk-triage").Logger()

	ctx := context.Background()

	var clock priority.Clock = priority.SystemClock{}
	if ref, _ := cfg.Reference(); !ref.IsZero() {
		clock = priority.FixedClock{At: ref}
		logger.Info().Time("reference_time", ref).Msg("scoring against fixed reference time")
	}

	scorer, err := sentiment.New(cfg.SentimentScorer, cfg.SentimentURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid sentiment scorer")
	}
	logger.Info().Str("scorer", fmt.Sprintf("%T", scorer)).Msg("sentiment scorer selected")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(reg)

	triage := service.New(service.Options{
		Scorer:    scorer,
		Clock:     clock,
		Responses: response.DefaultConfig(),
		Logger:    logger,
		Hooks:     metrics.Hooks(),
	})

	var emailStore handlers.EmailStore
	if cfg.DatabaseURL != "" {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
		emailStore = store

		emails, err := store.ListEmails(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load emails from db")
		}
		ingestBatch(ctx, triage, emails, "database", logger)
	}

	if cfg.EmailsCSV != "" {
		batch := ingest.NewBatch()
		emails, _, err := ingest.LoadFile(cfg.EmailsCSV, ingest.Options{
			Batch:  batch,
			Logger: logger.With().Str("path", cfg.EmailsCSV).Str("batch", batch).Logger(),
		})
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.EmailsCSV).Msg("failed to load emails csv")
		}
		ingestBatch(ctx, triage, emails, cfg.EmailsCSV, logger)
	}

	router := httpapi.Router(cfg, triage, emailStore, reg, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

func ingestBatch(ctx context.Context, triage *service.TriageService, emails []models.Email, source string, logger zerolog.Logger) {
	summary, err := triage.Ingest(ctx, emails)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("startup ingest stopped")
		return
	}
	logger.Info().
		Str("source", source).
		Int("processed", summary.Processed).
		Int("filtered", summary.Filtered).
		Int("failed", summary.Failed).
		Msg("startup ingest")
}
