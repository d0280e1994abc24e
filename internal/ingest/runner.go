package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/models"
)

// Scraper produces raw grant candidates for every configured institution.
type Scraper interface {
	Scrape(ctx context.Context, reg *config.Registry) ([]models.RawGrant, error)
}

// Filter turns raw candidates into the filtered, enriched grants worth
// keeping.
type Filter interface {
	Process(ctx context.Context, raws []models.RawGrant) ([]models.Grant, error)
}

// Storage persists the run's output.
type Storage interface {
	SyncSchools(ctx context.Context, reg *config.Registry) (map[string]uuid.UUID, error)
	StoreGrants(ctx context.Context, grants []models.Grant, schoolIDs map[string]uuid.UUID) (saved, failed int)
}

// Stats summarizes one pipeline run.
type Stats struct {
	Schools   int           `json:"schools"`
	Scraped   int           `json:"scraped"`
	Filtered  int           `json:"filtered"`
	Saved     int           `json:"saved"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"-"`
	StartedAt time.Time     `json:"started_at"`
}

// Runner wires the scraper, the filter pipeline and the store into one
// scheduled run.
type Runner struct {
	Registry *config.Registry
	Scraper  Scraper
	Filter   Filter
	Store    Storage
}

// Run executes a full scrape-filter-store cycle and reports what happened.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	stats := Stats{
		Schools:   len(r.Registry.Institutions),
		StartedAt: time.Now(),
	}
	defer func() {
		stats.Duration = time.Since(stats.StartedAt)
	}()

	log.Printf("Pipeline run started: %d schools configured", stats.Schools)

	raws, err := r.Scraper.Scrape(ctx, r.Registry)
	if err != nil {
		return stats, fmt.Errorf("scraping failed: %w", err)
	}
	stats.Scraped = len(raws)
	if len(raws) == 0 {
		log.Printf("Pipeline run finished: nothing scraped")
		return stats, nil
	}

	grants, err := r.Filter.Process(ctx, raws)
	if err != nil {
		return stats, fmt.Errorf("filtering failed: %w", err)
	}
	stats.Filtered = len(grants)

	schoolIDs, err := r.Store.SyncSchools(ctx, r.Registry)
	if err != nil {
		return stats, fmt.Errorf("failed to sync schools: %w", err)
	}

	stats.Saved, stats.Failed = r.Store.StoreGrants(ctx, grants, schoolIDs)

	log.Printf("Pipeline run finished: %d scraped, %d filtered, %d saved, %d failed",
		stats.Scraped, stats.Filtered, stats.Saved, stats.Failed)
	return stats, nil
}
