package models

import (
	"time"

	"github.com/google/uuid"
)

// RawGrant is an untrusted search result as delivered by the scraper.
// Every field may be missing or padded with whitespace; nothing here has
// been validated. Records are immutable once received.
type RawGrant struct {
	Title        string `json:"title"`
	Snippet      string `json:"snippet"`
	FundingLink  string `json:"funding_link"`
	Organization string `json:"organization"`
	Source       string `json:"source"`
	Deadline     string `json:"deadline"`
	DateScraped  string `json:"date_scraped"`
	School       string `json:"school"`
}

// Grant is a normalized grant record flowing through the filter pipeline.
// It starts as the trimmed form of a RawGrant and accumulates derived
// fields as the stages run: RelevanceScore is set by the scorer, AIMetadata
// and AIConfidenceScore by the optional enrichment stage, and Deadline is
// rewritten from free text to an RFC 3339 timestamp once the deadline
// filter accepts the grant.
type Grant struct {
	Title        string `json:"title"`
	Snippet      string `json:"snippet"`
	FundingLink  string `json:"funding_link"`
	Organization string `json:"organization"`
	Source       string `json:"source"`
	Deadline     string `json:"deadline"`
	DateScraped  string `json:"date_scraped"`
	School       string `json:"school"`

	RelevanceScore    int            `json:"relevance_score"`
	AIMetadata        *GrantMetadata `json:"ai_metadata,omitempty"`
	AIConfidenceScore float64        `json:"ai_confidence_score"`
}

// GrantMetadata is the structured classification returned by the AI
// enrichment capability.
type GrantMetadata struct {
	ResearchDomain   string   `json:"research_domain"`
	Subdomains       []string `json:"subdomains"`
	FundingType      string   `json:"funding_type"`
	AcademicLevel    string   `json:"academic_level"`
	EligibleEntities []string `json:"eligible_entities"`
	GeographicScope  string   `json:"geographic_scope"`
	FundingAmount    string   `json:"funding_amount"`
	HasDeadline      bool     `json:"has_deadline"`
	IsResearchGrant  bool     `json:"is_research_grant"`
	ConfidenceScore  float64  `json:"confidence_score"`
}

// StoredGrant is a grant row as persisted by the store, returned to API
// consumers.
type StoredGrant struct {
	ID                uuid.UUID  `json:"grant_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Link              string     `json:"link"`
	Funder            string     `json:"funder"`
	Deadline          string     `json:"deadline"`
	School            string     `json:"school"`
	RelevanceScore    int        `json:"relevance_score"`
	AIConfidenceScore float64    `json:"ai_confidence_score"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// School is an institution row from the schools table.
type School struct {
	ID          uuid.UUID `json:"school_id"`
	Name        string    `json:"school_name"`
	Description string    `json:"school_description"`
	CreatedAt   time.Time `json:"created_at"`
}
