package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/models"
)

type stubScraper struct {
	raws []models.RawGrant
	err  error
}

func (s *stubScraper) Scrape(context.Context, *config.Registry) ([]models.RawGrant, error) {
	return s.raws, s.err
}

type stubFilter struct {
	grants []models.Grant
	err    error
}

func (f *stubFilter) Process(context.Context, []models.RawGrant) ([]models.Grant, error) {
	return f.grants, f.err
}

type stubStorage struct {
	saved, failed int
	syncErr       error
	stored        []models.Grant
}

func (s *stubStorage) SyncSchools(context.Context, *config.Registry) (map[string]uuid.UUID, error) {
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	return map[string]uuid.UUID{"School of Science": uuid.New()}, nil
}

func (s *stubStorage) StoreGrants(_ context.Context, grants []models.Grant, _ map[string]uuid.UUID) (int, int) {
	s.stored = grants
	return s.saved, s.failed
}

func testRunnerRegistry() *config.Registry {
	return &config.Registry{Institutions: map[string]config.Institution{
		"School of Science": {Queries: []string{"science grants"}},
	}}
}

func TestRunnerFullCycle(t *testing.T) {
	raws := []models.RawGrant{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	grants := []models.Grant{{Title: "a"}, {Title: "b"}}
	storage := &stubStorage{saved: 2}

	r := &Runner{
		Registry: testRunnerRegistry(),
		Scraper:  &stubScraper{raws: raws},
		Filter:   &stubFilter{grants: grants},
		Store:    storage,
	}

	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Schools)
	assert.Equal(t, 3, stats.Scraped)
	assert.Equal(t, 2, stats.Filtered)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, 0, stats.Failed)
	assert.Len(t, storage.stored, 2)
}

func TestRunnerNothingScraped(t *testing.T) {
	storage := &stubStorage{}
	r := &Runner{
		Registry: testRunnerRegistry(),
		Scraper:  &stubScraper{},
		Filter:   &stubFilter{},
		Store:    storage,
	}

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Scraped)
	assert.Nil(t, storage.stored)
}

func TestRunnerScrapeError(t *testing.T) {
	r := &Runner{
		Registry: testRunnerRegistry(),
		Scraper:  &stubScraper{err: errors.New("provider down")},
		Filter:   &stubFilter{},
		Store:    &stubStorage{},
	}

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestRunnerSyncError(t *testing.T) {
	r := &Runner{
		Registry: testRunnerRegistry(),
		Scraper:  &stubScraper{raws: []models.RawGrant{{Title: "a"}}},
		Filter:   &stubFilter{grants: []models.Grant{{Title: "a"}}},
		Store:    &stubStorage{syncErr: errors.New("db down")},
	}

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
