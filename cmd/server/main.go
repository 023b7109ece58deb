package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/sqlite"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	store, err := sqlite.NewStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer store.Close()
	log.Printf("Catalog database: %s", cfg.Storage.SQLitePath)

	memoryCache := cache.NewMemoryCache()

	// Enable debug logging in development environment
	debugLogging := cfg.Matching.EnableDebugLogging
	if cfg.Server.Environment == "development" {
		debugLogging = true
		log.Printf("Matching debug logging enabled")
	}

	// Initialize usecase layer
	vocab := usecase.DefaultVocabulary()
	units := usecase.NewUnitNormalizer()
	scorer := usecase.NewSimilarityScorer(vocab, usecase.ScoringWeights{
		ExactScore:       cfg.Matching.ExactScore,
		ReorderedScore:   cfg.Matching.ReorderedScore,
		OverlapBase:      cfg.Matching.OverlapBase,
		AllTokensBonus:   cfg.Matching.AllTokensBonus,
		DescriptiveBonus: cfg.Matching.DescriptiveBonus,
		ExtraWordPenalty: cfg.Matching.ExtraWordPenalty,
	}, debugLogging)

	matcher := usecase.NewMatcherService(scorer, units, debugLogging)
	comparison := usecase.NewComparisonService(store, units, usecase.ComparisonConfig{
		MinSavingsPct:    cfg.Comparison.MinSavingsPct,
		MaxAgeDays:       cfg.Comparison.MaxAgeDays,
		MaxBetterDeals:   cfg.Comparison.MaxBetterDeals,
		SuspiciousLowPct: cfg.Comparison.SuspiciousLowPct,
		OverpricedPct:    cfg.Comparison.OverpricedPct,
		AverageBandPct:   cfg.Comparison.AverageBandPct,
	})
	ingest := usecase.NewIngestService(store, memoryCache, matcher, comparison, units, usecase.IngestConfig{
		EnableDebugLogging: debugLogging,
	})

	log.Printf("Matching: exact=%d reordered=%d overlap=%.0f debug=%v",
		cfg.Matching.ExactScore, cfg.Matching.ReorderedScore, cfg.Matching.OverlapBase, debugLogging)
	log.Printf("Comparison: min_savings=%.1f%% freshness=%dd max_deals=%d",
		cfg.Comparison.MinSavingsPct, cfg.Comparison.MaxAgeDays, cfg.Comparison.MaxBetterDeals)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(store, matcher, ingest, comparison)

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
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
