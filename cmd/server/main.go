package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finboard/finboard/internal/config"
	"github.com/finboard/finboard/internal/handler"
	"github.com/finboard/finboard/internal/pricing"
	"github.com/finboard/finboard/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	// Initialize Services
	dbService, err := services.NewTableService(
		cfg.Storage.TableURL,
		cfg.Storage.TransactionsTable,
		cfg.Storage.NetWorthTable,
		cfg.Storage.HoldingsTable,
	)
	if err != nil {
		slog.Error("Failed to init TableService", "error", err)
		os.Exit(1)
	}

	blobService, err := services.NewBlobService(cfg.Storage.BlobURL)
	if err != nil {
		slog.Error("Failed to init BlobService", "error", err)
		os.Exit(1)
	}

	queueService, err := services.NewQueueService(cfg.Storage.QueueURL)
	if err != nil {
		slog.Error("Failed to init QueueService", "error", err)
		os.Exit(1)
	}
	if err := queueService.EnsureQueue(context.Background(), cfg.Storage.ProcessQueue); err != nil {
		slog.Error("Failed to create process queue", "queue", cfg.Storage.ProcessQueue, "error", err)
		os.Exit(1)
	}

	var emailService *services.EmailService
	if cfg.Email.Endpoint != "" {
		emailService, err = services.NewEmailService(cfg.Email.Endpoint, cfg.Email.Sender, nil)
		if err != nil {
			slog.Warn("Failed to init EmailService (continuing anyway)", "error", err)
			emailService = nil
		}
	} else {
		slog.Info("email endpoint not configured, email delivery disabled")
	}

	deps := &handler.Dependencies{
		Database:         dbService,
		Blob:             blobService,
		Queue:            queueService,
		Prices:           buildPriceSource(cfg),
		UploadsContainer: cfg.Storage.UploadsContainer,
		ReportsContainer: cfg.Storage.ReportsContainer,
		ProcessQueue:     cfg.Storage.ProcessQueue,
		Recipient:        cfg.Email.Recipient,
	}
	if emailService != nil {
		deps.Email = emailService
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Queue consumer
	go deps.RunConsumer(ctx)

	// Nightly report schedule
	scheduler := cron.New(cron.WithSeconds())
	_, err = scheduler.AddFunc(cfg.Schedule.NightlyCron, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := deps.RunNightlyReport(jobCtx); err != nil {
			slog.Error("nightly report failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("Failed to schedule nightly report", "cron", cfg.Schedule.NightlyCron, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("nightly report scheduled", "cron", cfg.Schedule.NightlyCron)

	// Router
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/upload", deps.HandleUpload)

	mux.HandleFunc("GET /api/report", deps.HandleReport)
	mux.HandleFunc("POST /api/report/run", deps.HandleRunReport)
	mux.HandleFunc("GET /api/cashflow", deps.HandleCashFlow)

	mux.HandleFunc("GET /api/holdings", deps.HandleHoldings)
	mux.HandleFunc("POST /api/holdings", deps.HandleHoldings)
	mux.HandleFunc("DELETE /api/holdings", deps.HandleHoldings)

	mux.HandleFunc("GET /api/health", deps.HandleHealth)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: loggingMiddleware(mux),
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func buildPriceSource(cfg *config.Config) pricing.Source {
	var static pricing.Source
	if len(cfg.Pricing.Static) > 0 {
		static = pricing.NewStatic(cfg.Pricing.Static)
	} else {
		static = pricing.DefaultStatic()
	}

	if cfg.Pricing.Source == "quotes" {
		// Live quotes with the static table as a fallback for misses.
		return &pricing.Fallback{
			Primary:   pricing.NewQuoteClient(cfg.Pricing.QuoteBaseURL),
			Secondary: static,
		}
	}
	return static
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", duration)
	})
}
