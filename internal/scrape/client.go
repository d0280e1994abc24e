package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/filter"
	"github.com/daystar/grant-hub/internal/models"
)

const (
	defaultBaseURL     = "https://serpapi.com/search.json"
	defaultEngine      = "google"
	defaultResultLimit = 5

	// recencyFilter restricts results to the past month so stale listings
	// don't keep resurfacing run after run.
	recencyFilter = "qdr:m"
)

// SearchResult is one organic result from the search provider.
type SearchResult struct {
	Title         string `json:"title"`
	Snippet       string `json:"snippet"`
	Link          string `json:"link"`
	Source        string `json:"source"`
	DisplayedLink string `json:"displayed_link"`
}

type searchResponse struct {
	OrganicResults []SearchResult `json:"organic_results"`
	Error          string         `json:"error"`
}

// Client fetches grant candidates from a SerpAPI-compatible search
// endpoint. Requests are rate limited to stay polite with the provider.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a search client. The API key is required; everything
// else has sensible defaults.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2.0), 1),
	}, nil
}

// FetchQuery runs a single search query and returns its organic results.
// Provider-side errors come back as an error; an empty result set is not
// one.
func (c *Client) FetchQuery(ctx context.Context, query string, limit int, engine string) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if engine == "" {
		engine = defaultEngine
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", engine)
	params.Set("q", query)
	params.Set("tbs", recencyFilter)
	params.Set("num", strconv.Itoa(limit))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status: %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("search provider error: %s", parsed.Error)
	}

	return parsed.OrganicResults, nil
}

// Scrape runs every configured query for every institution and returns the
// combined raw grants. A failing query is logged and skipped; the other
// queries still run.
func (c *Client) Scrape(ctx context.Context, reg *config.Registry) ([]models.RawGrant, error) {
	scrapedAt := time.Now().Format(time.RFC3339)

	var all []models.RawGrant
	for school, inst := range reg.Institutions {
		for _, query := range inst.Queries {
			log.Printf("Scraping grants for %s: %q", school, query)

			results, err := c.FetchQuery(ctx, query, inst.ResultLimit, inst.Engine)
			if err != nil {
				if ctx.Err() != nil {
					return all, ctx.Err()
				}
				log.Printf("Query %q failed: %v", query, err)
				continue
			}

			for _, r := range results {
				all = append(all, parseResult(r, school, scrapedAt))
			}
		}
	}

	log.Printf("Scraping complete: %d grants found", len(all))
	return all, nil
}

// parseResult converts one search result into a raw grant record, pulling
// a funder name and a display deadline out of the free text.
func parseResult(r SearchResult, school, scrapedAt string) models.RawGrant {
	title := r.Title
	if title == "" {
		title = "No title available"
	}
	snippet := r.Snippet
	if snippet == "" {
		snippet = "No snippet available"
	}

	return models.RawGrant{
		Title:        title,
		Snippet:      snippet,
		FundingLink:  r.Link,
		Organization: ExtractFunder(title, snippet, r.Source),
		Source:       r.DisplayedLink,
		Deadline:     filter.ExtractDeadlineText(snippet),
		DateScraped:  scrapedAt,
		School:       school,
	}
}
