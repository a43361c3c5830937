package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/catalog"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/logging"
	"github.com/pricelens/backend/internal/infrastructure/storefront"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Server.Environment, os.Stdout)

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache_type", cfg.Cache.Type).
		Msg("Starting PriceLens Backend v1.0.0")

	// Catalog: operator file or built-in basket
	cat := catalog.Default()
	if cfg.Matching.CatalogPath != "" {
		cat, err = catalog.Load(cfg.Matching.CatalogPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Matching.CatalogPath).Msg("Failed to load catalog")
		}
	}
	logger.Info().Int("sections", len(cat.Sections)).Int("entries", len(cat.Keys())).Msg("Catalog loaded")

	matcher := usecase.NewCatalogMatcher(cat, logger)

	// Storefront collection is optional
	var collector *usecase.Collector
	if cfg.Storefront.Enabled {
		pageCache, err := newCache(cfg.Cache)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize cache")
		}

		client := storefront.NewClient(storefront.ClientConfig{
			Timeout:           cfg.Storefront.Timeout,
			RequestsPerSecond: cfg.Storefront.RequestsPerSecond,
			Burst:             cfg.Storefront.Burst,
			MaxRetries:        cfg.Storefront.MaxRetries,
			UserAgent:         cfg.Storefront.UserAgent,
		}, logger)

		collector = usecase.NewCollector(client, pageCache, matcher, usecase.CollectorConfig{
			MaxCards: cfg.Storefront.MaxCards,
			CacheTTL: cfg.Cache.TTL,
		}, logger)

		logger.Info().
			Float64("requests_per_second", cfg.Storefront.RequestsPerSecond).
			Int("max_cards", cfg.Storefront.MaxCards).
			Dur("cache_ttl", cfg.Cache.TTL).
			Msg("Storefront collection enabled")
	} else {
		logger.Warn().Msg("Storefront collection disabled")
	}

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(matcher, collector, usecase.ComparisonConfig{
		IntraSourceThreshold: &cfg.Matching.IntraSourceThreshold,
		CrossSourceThreshold: &cfg.Matching.CrossSourceThreshold,
		MinNameLength:        cfg.Matching.MinNameLength,
		SplitTiedPoints:      cfg.Matching.SplitTiedPoints,
		SampleLimit:          cfg.Matching.SampleLimit,
	}, logger)

	logger.Info().
		Int("intra_threshold", cfg.Matching.IntraSourceThreshold).
		Int("cross_threshold", cfg.Matching.CrossSourceThreshold).
		Bool("split_tied_points", cfg.Matching.SplitTiedPoints).
		Msg("Matching configured")

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("Server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// newCache builds the search-page cache selected by configuration
func newCache(cfg config.CacheConfig) (domain.CacheRepository, error) {
	switch cfg.Type {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cache.NewRedisCache(ctx, cfg.RedisURL, "pricelens:")
	default:
		return cache.NewMemoryCache(), nil
	}
}
