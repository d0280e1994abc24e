package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/daystar/grant-hub/internal/ai"
	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/db"
	"github.com/daystar/grant-hub/internal/filter"
	"github.com/daystar/grant-hub/internal/ingest"
	"github.com/daystar/grant-hub/internal/scrape"
)

// Runs one full scrape-filter-store cycle from the command line and prints
// a summary table. Intended for cron and manual runs.
func main() {
	settings := config.FromEnv()
	if settings.SerpAPIKey == "" {
		log.Fatal("SERPAPI_KEY is required")
	}

	registry, err := config.LoadRegistry(os.Getenv("INSTITUTIONS_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load institutions config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	scraper, err := scrape.NewClient(settings.SerpAPIKey)
	if err != nil {
		log.Fatal(err)
	}

	var enricher filter.Enricher
	if settings.AIAPIKey != "" {
		classifier, err := ai.NewClassifier(ai.Config{
			APIKey:  settings.AIAPIKey,
			BaseURL: settings.AIBaseURL,
			Model:   settings.AIModel,
		})
		if err != nil {
			log.Fatal(err)
		}
		enricher = classifier
	}

	runner := &ingest.Runner{
		Registry: registry,
		Scraper:  scraper,
		Filter: filter.NewPipeline(registry, filter.Options{
			RelevanceThreshold: settings.RelevanceThreshold,
			MaxDeadlineDays:    settings.MaxDeadlineDays,
			EnrichDelay:        settings.AIRateLimit,
		}, enricher),
		Store: db.NewStore(pool),
	}

	stats, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Pipeline run failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Schools", "Scraped", "Filtered", "Saved", "Failed", "Duration"})
	t.AppendRow(table.Row{
		stats.Schools, stats.Scraped, stats.Filtered, stats.Saved, stats.Failed,
		stats.Duration.Round(time.Second).String(),
	})
	t.Render()
}
