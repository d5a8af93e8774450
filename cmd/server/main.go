package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bharatpricing/backend/config"
	httpDelivery "github.com/bharatpricing/backend/internal/delivery/http"
	"github.com/bharatpricing/backend/internal/infrastructure/cache"
	"github.com/bharatpricing/backend/internal/infrastructure/meta"
	"github.com/bharatpricing/backend/internal/infrastructure/openai"
	"github.com/bharatpricing/backend/internal/infrastructure/serp"
	"github.com/bharatpricing/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting BharatPricing Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(cfg.Cache.Enabled)
	log.Printf("Cache: enabled=%v search_ttl=%s brand_ttl=%s",
		cfg.Cache.Enabled, cfg.Cache.SearchTTL, cfg.Cache.BrandTTL)

	serpClient := serp.NewClient(
		cfg.Serp.APIKey,
		cfg.Serp.BaseURL,
		cfg.Serp.GoogleDomain,
		cfg.Serp.Location,
		cfg.RateLimit.Serp,
	)
	log.Printf("Search API configured: %s (domain: %s)", cfg.Serp.BaseURL, cfg.Serp.GoogleDomain)

	openaiClient := openai.NewClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		cfg.OpenAI.Timeout,
	)
	if openaiClient.Available() {
		log.Printf("OpenAI configured: %s (model: %s)", cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	} else {
		log.Printf("WARNING: OpenAI API key not configured - running fully deterministic")
	}

	fetcher := meta.NewFetcher(cfg.Serp.Timeout)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		memoryCache,
		serpClient,
		openaiClient,
		openaiClient,
		fetcher,
		usecase.SearchServiceConfig{
			SearchTTL:          cfg.Cache.SearchTTL,
			BrandTTL:           cfg.Cache.BrandTTL,
			MinConfidence:      cfg.Matching.MinRecommendationConfidence,
			ClassifyTopN:       cfg.Matching.ClassifyTopN,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	log.Printf("Matching: min_confidence=%.2f classify_top_n=%d debug=%v",
		cfg.Matching.MinRecommendationConfidence,
		cfg.Matching.ClassifyTopN,
		cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, memoryCache)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
