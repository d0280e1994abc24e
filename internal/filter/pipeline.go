package filter

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/models"
)

// Enricher is the optional AI classification capability invoked per grant.
// Implementations must be safe to call sequentially; the pipeline paces
// calls itself.
type Enricher interface {
	Classify(ctx context.Context, g models.Grant) (*models.GrantMetadata, error)
}

// Options tunes the filtering stages.
type Options struct {
	// RelevanceThreshold is the minimum score a grant must reach to
	// survive the relevance stage. Scores exactly equal to the threshold
	// pass, so a threshold of zero or below admits zero-score grants.
	// The standard default of 2 comes from the config layer, not from
	// here, so an explicit zero is honored.
	RelevanceThreshold int
	// MaxDeadlineDays bounds the deadline window [today, today+N],
	// inclusive on both ends. Default 365.
	MaxDeadlineDays int
	// EnrichDelay is the minimum pause between consecutive enrichment
	// calls, respecting the external provider's rate limit. Default 5s.
	EnrichDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxDeadlineDays <= 0 {
		o.MaxDeadlineDays = 365
	}
	if o.EnrichDelay <= 0 {
		o.EnrichDelay = 5 * time.Second
	}
	return o
}

// Pipeline sequences normalize -> deduplicate -> relevance-filter ->
// optional AI enrichment -> deadline-filter. Each stage fully materializes
// its output before the next one runs; a grant rejected at one stage never
// reaches the next. The pipeline holds no storage or transport
// dependencies.
type Pipeline struct {
	registry *config.Registry
	opts     Options
	enricher Enricher
	limiter  *rate.Limiter

	// now is evaluated fresh on every run so long-lived deployments filter
	// against the current date, never one captured at construction time.
	now func() time.Time
}

// NewPipeline builds a pipeline over the institution registry. A nil
// enricher disables the AI stage.
func NewPipeline(registry *config.Registry, opts Options, enricher Enricher) *Pipeline {
	opts = opts.withDefaults()
	return &Pipeline{
		registry: registry,
		opts:     opts,
		enricher: enricher,
		limiter:  rate.NewLimiter(rate.Every(opts.EnrichDelay), 1),
		now:      time.Now,
	}
}

// Process runs the full filter chain over a batch of raw grants and
// returns the survivors in input order. Empty input yields empty output.
// The only error condition is context cancellation during the enrichment
// stage; every data-level problem is absorbed into the records themselves.
func (p *Pipeline) Process(ctx context.Context, raws []models.RawGrant) ([]models.Grant, error) {
	grants := Normalize(raws)

	unique := Deduplicate(grants)
	log.Printf("Dedup: %d -> %d grants", len(grants), len(unique))

	relevant := p.filterByRelevance(unique)
	log.Printf("Relevance filter (threshold %d): %d -> %d grants",
		p.opts.RelevanceThreshold, len(unique), len(relevant))

	if p.enricher != nil {
		if err := p.enrich(ctx, relevant); err != nil {
			return nil, err
		}
	}

	final := p.filterByDeadline(relevant)
	log.Printf("Deadline filter (%d days): %d -> %d grants",
		p.opts.MaxDeadlineDays, len(relevant), len(final))

	return final, nil
}

// filterByRelevance scores every grant and keeps those at or above the
// threshold. The score is written back even for rejected grants so an
// inspected record always carries it.
func (p *Pipeline) filterByRelevance(grants []models.Grant) []models.Grant {
	kept := make([]models.Grant, 0, len(grants))
	for i := range grants {
		inst := p.registry.Lookup(grants[i].School)
		grants[i].RelevanceScore = RelevanceScore(grants[i], inst)
		if grants[i].RelevanceScore >= p.opts.RelevanceThreshold {
			kept = append(kept, grants[i])
		}
	}
	return kept
}

// filterByDeadline keeps grants whose extracted deadline falls inside
// [today, today+MaxDeadlineDays], inclusive. Today is the start of the
// current day so a deadline falling on the run day is retained. Accepted
// grants get their free-text deadline replaced by the parsed date in
// RFC 3339 form; that rewrite is deliberate and observable.
func (p *Pipeline) filterByDeadline(grants []models.Grant) []models.Grant {
	now := p.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := today.AddDate(0, 0, p.opts.MaxDeadlineDays)

	kept := make([]models.Grant, 0, len(grants))
	for _, g := range grants {
		deadline, ok := ExtractDeadline(g.Title + " " + g.Snippet)
		if !ok {
			continue
		}
		if deadline.Before(today) || deadline.After(windowEnd) {
			continue
		}
		g.Deadline = deadline.Format(time.RFC3339)
		kept = append(kept, g)
	}
	return kept
}

// enrich classifies each grant in place, pausing between calls to honor
// the provider's rate limit. A single grant's failure never aborts the
// batch; the grant simply carries nil metadata and zero confidence.
func (p *Pipeline) enrich(ctx context.Context, grants []models.Grant) error {
	for i := range grants {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		meta, err := p.enricher.Classify(ctx, grants[i])
		if err != nil || meta == nil {
			if err != nil {
				log.Printf("Enrichment failed for %q: %v", grants[i].Title, err)
			}
			grants[i].AIMetadata = nil
			grants[i].AIConfidenceScore = 0.0
			continue
		}

		grants[i].AIMetadata = meta
		grants[i].AIConfidenceScore = meta.ConfidenceScore
	}
	return nil
}
