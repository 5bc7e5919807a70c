// Package main is the entry point for the marketplace API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/templatehub/marketplace/internal/analytics"
	"github.com/templatehub/marketplace/internal/api"
	"github.com/templatehub/marketplace/internal/auth"
	"github.com/templatehub/marketplace/internal/config"
	"github.com/templatehub/marketplace/internal/download"
	"github.com/templatehub/marketplace/internal/favorites"
	"github.com/templatehub/marketplace/internal/health"
	"github.com/templatehub/marketplace/internal/kv"
	"github.com/templatehub/marketplace/internal/middleware"
	"github.com/templatehub/marketplace/internal/ranking"
	"github.com/templatehub/marketplace/internal/rating"
	"github.com/templatehub/marketplace/internal/search"
	"github.com/templatehub/marketplace/internal/template"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Template Marketplace API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "summary", cfg.LogSummary())

	ctx := context.Background()

	// Pick the backing store: Redis when configured, in-memory otherwise.
	var store kv.Store
	checkers := map[string]health.Checker{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis URL", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		store = kv.NewRedisStore(client, "marketplace")
		checkers["redis"] = health.NewRedisChecker(client)
		logger.Info("using redis store")
	} else {
		store = kv.NewMemoryStore()
		logger.Info("using in-memory store; data will not survive restarts")
	}
	checkers["store"] = health.NewStoreChecker(store)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpMetrics := middleware.NewMetrics()
	searchMetrics := search.NewMetrics()
	ratingMetrics := rating.NewMetrics()
	analyticsMetrics := analytics.NewMetrics()
	for _, register := range []func(prometheus.Registerer) error{
		httpMetrics.Register,
		searchMetrics.Register,
		ratingMetrics.Register,
		analyticsMetrics.Register,
	} {
		if err := register(reg); err != nil {
			logger.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
	}

	repo, err := template.NewKVRepository(ctx, store)
	if err != nil {
		logger.Error("failed to initialize template repository", "error", err)
		os.Exit(1)
	}

	weights, err := ranking.LoadCalibration(cfg.RankingCalibrationPath)
	if err != nil {
		// LoadCalibration already fell back to defaults.
		logger.Warn("ranking calibration not applied", "error", err)
	}

	history, err := search.NewHistory(ctx, store)
	if err != nil {
		logger.Error("failed to initialize search history", "error", err)
		os.Exit(1)
	}
	searcher := search.NewSearcher(repo, weights, history, searchMetrics, logger)

	aggregator, err := rating.NewAggregator(ctx, store, repo, ratingMetrics)
	if err != nil {
		logger.Error("failed to initialize rating aggregator", "error", err)
		os.Exit(1)
	}
	reviews, err := rating.NewReviews(ctx, store, ratingMetrics)
	if err != nil {
		logger.Error("failed to initialize reviews", "error", err)
		os.Exit(1)
	}

	tracker, err := analytics.NewTracker(ctx, store, repo, analyticsMetrics)
	if err != nil {
		logger.Error("failed to initialize analytics", "error", err)
		os.Exit(1)
	}
	favoriteSvc, err := favorites.NewService(ctx, store, repo, tracker, logger)
	if err != nil {
		logger.Error("failed to initialize favorites", "error", err)
		os.Exit(1)
	}
	tracker.SetFavoriteCounter(favoriteSvc)
	downloadSvc, err := download.NewService(ctx, store, repo, tracker, logger)
	if err != nil {
		logger.Error("failed to initialize downloads", "error", err)
		os.Exit(1)
	}

	jwtService := auth.NewJWTServiceWithRotation(cfg.AdminJWTSecret, cfg.AdminJWTSecretPrevious)

	server := api.NewServer(
		api.NewTemplateHandlers(repo, searcher),
		api.NewSearchHandlers(searcher, history, tracker),
		api.NewRatingHandlers(aggregator, reviews, tracker),
		api.NewDownloadHandlers(downloadSvc),
		api.NewFavoritesHandlers(favoriteSvc),
		api.NewAnalyticsHandlers(tracker, aggregator, reviews, downloadSvc),
		api.NewHealthHandlers(checkers),
		jwtService,
	)

	mux := server.Routes()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Only handle exact root path, everything else returns 404
		if r.URL.Path != "/" {
			api.WriteError(w, r.Context(), http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"service": "marketplace-api", "version": "0.1.0"})
	})

	// Apply middleware: RequestID -> CORS -> HTTPMetrics -> Logging
	var handler http.Handler = mux
	handler = middleware.Logging(logger)(handler)
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	if origins := cfg.Origins(); len(origins) > 0 {
		handler = middleware.CORS(middleware.DefaultCORSConfig(origins))(handler)
	}
	handler = middleware.RequestID(handler)

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
