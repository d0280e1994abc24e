package main

import (
	"context"
	"log"
	"os"

	"github.com/daystar/grant-hub/internal/ai"
	"github.com/daystar/grant-hub/internal/api"
	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/db"
	"github.com/daystar/grant-hub/internal/filter"
	"github.com/daystar/grant-hub/internal/ingest"
	"github.com/daystar/grant-hub/internal/scrape"
)

func main() {
	settings := config.FromEnv()

	registry, err := config.LoadRegistry(os.Getenv("INSTITUTIONS_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load institutions config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	store := db.NewStore(pool)

	// The runner is only wired up when scraping is configured; the API
	// still serves stored grants without it.
	var runner *ingest.Runner
	if settings.SerpAPIKey != "" {
		scraper, err := scrape.NewClient(settings.SerpAPIKey)
		if err != nil {
			log.Fatalf("Failed to build scraper: %v", err)
		}

		var enricher filter.Enricher
		if settings.AIAPIKey != "" {
			classifier, err := ai.NewClassifier(ai.Config{
				APIKey:  settings.AIAPIKey,
				BaseURL: settings.AIBaseURL,
				Model:   settings.AIModel,
			})
			if err != nil {
				log.Fatalf("Failed to build AI classifier: %v", err)
			}
			enricher = classifier
		} else {
			log.Printf("AI_API_KEY not set; enrichment disabled")
		}

		runner = &ingest.Runner{
			Registry: registry,
			Scraper:  scraper,
			Filter: filter.NewPipeline(registry, filter.Options{
				RelevanceThreshold: settings.RelevanceThreshold,
				MaxDeadlineDays:    settings.MaxDeadlineDays,
				EnrichDelay:        settings.AIRateLimit,
			}, enricher),
			Store: store,
		}
	} else {
		log.Printf("SERPAPI_KEY not set; pipeline trigger disabled")
	}

	srv := api.NewServer(store, runner, settings.AdminSecret)
	log.Printf("Server starting on port %s...", settings.Port)
	if err := srv.Start(settings.Port); err != nil {
		log.Fatal(err)
	}
}
