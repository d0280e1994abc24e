package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/models"
)

// Store persists grants and schools. Grants are keyed on their link so a
// re-run of the pipeline updates existing rows instead of duplicating them.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// UpsertGrant inserts a grant or refreshes the existing row with the same
// link, returning the row's id.
func (s *Store) UpsertGrant(ctx context.Context, g models.Grant) (uuid.UUID, error) {
	if g.FundingLink == "" {
		return uuid.Nil, fmt.Errorf("grant %q has no link", g.Title)
	}

	title := truncateText(sanitizeText(g.Title), maxTitleLen)
	description := truncateText(sanitizeSnippet(g.Snippet), maxDescriptionLen)
	funder := sanitizeText(g.Organization)

	var metaJSON []byte
	if g.AIMetadata != nil {
		var err error
		metaJSON, err = json.Marshal(g.AIMetadata)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal ai metadata for %q: %w", g.Title, err)
		}
	}

	var id uuid.UUID
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO grants (
			title, description, link, funder, deadline, school,
			relevance_score, ai_metadata, ai_confidence_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (link) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			funder = EXCLUDED.funder,
			deadline = EXCLUDED.deadline,
			school = EXCLUDED.school,
			relevance_score = EXCLUDED.relevance_score,
			ai_metadata = COALESCE(EXCLUDED.ai_metadata, grants.ai_metadata),
			ai_confidence_score = EXCLUDED.ai_confidence_score,
			updated_at = NOW()
		RETURNING grant_id
	`, title, description, g.FundingLink, funder, g.Deadline, g.School,
		g.RelevanceScore, metaJSON, g.AIConfidenceScore).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert grant %q: %w", g.Title, err)
	}
	return id, nil
}

// UpsertSchool inserts a school by name or refreshes its description,
// returning the row's id.
func (s *Store) UpsertSchool(ctx context.Context, name, description string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO schools (school_name, school_description)
		VALUES ($1, $2)
		ON CONFLICT (school_name) DO UPDATE SET
			school_description = EXCLUDED.school_description
		RETURNING school_id
	`, name, description).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert school %q: %w", name, err)
	}
	return id, nil
}

// LinkGrantToSchool records that a grant is relevant to a school. Linking
// twice is a no-op.
func (s *Store) LinkGrantToSchool(ctx context.Context, grantID, schoolID uuid.UUID) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO schools_grants (grant_id, school_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, grantID, schoolID)
	if err != nil {
		return fmt.Errorf("failed to link grant %s to school %s: %w", grantID, schoolID, err)
	}
	return nil
}

// SyncSchools upserts every configured institution and returns a name to id
// map for linking grants. The configured queries are stored as the school
// description for provenance.
func (s *Store) SyncSchools(ctx context.Context, reg *config.Registry) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(reg.Institutions))
	for name, inst := range reg.Institutions {
		description, err := json.Marshal(inst.Queries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal queries for %q: %w", name, err)
		}
		id, err := s.UpsertSchool(ctx, name, string(description))
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, nil
}

// StoreGrants persists a batch of filtered grants, linking each to its
// school when the school is known. Per-grant failures are logged and
// counted; the rest of the batch still lands.
func (s *Store) StoreGrants(ctx context.Context, grants []models.Grant, schoolIDs map[string]uuid.UUID) (saved, failed int) {
	for _, g := range grants {
		grantID, err := s.UpsertGrant(ctx, g)
		if err != nil {
			log.Printf("Failed to store grant %q: %v", g.Title, err)
			failed++
			continue
		}

		if schoolID, ok := schoolIDs[g.School]; ok {
			if err := s.LinkGrantToSchool(ctx, grantID, schoolID); err != nil {
				log.Printf("Failed to link grant %q: %v", g.Title, err)
			}
		}
		saved++
	}
	return saved, failed
}

// ListGrants returns stored grants, newest first, optionally filtered by
// school.
func (s *Store) ListGrants(ctx context.Context, school string, limit int) ([]models.StoredGrant, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT grant_id, title, COALESCE(description, ''), link,
		       COALESCE(funder, ''), COALESCE(deadline, ''), COALESCE(school, ''),
		       relevance_score, ai_confidence_score, created_at, updated_at
		FROM grants
	`
	args := []any{}
	if school != "" {
		query += " WHERE school = $1"
		args = append(args, school)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var grants []models.StoredGrant
	for rows.Next() {
		var g models.StoredGrant
		if err := rows.Scan(
			&g.ID, &g.Title, &g.Description, &g.Link,
			&g.Funder, &g.Deadline, &g.School,
			&g.RelevanceScore, &g.AIConfidenceScore, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan grant row: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ListSchools returns every school, alphabetically.
func (s *Store) ListSchools(ctx context.Context) ([]models.School, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT school_id, school_name, COALESCE(school_description, ''), created_at
		FROM schools
		ORDER BY school_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	defer rows.Close()

	var schools []models.School
	for rows.Next() {
		var sc models.School
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan school row: %w", err)
		}
		schools = append(schools, sc)
	}
	return schools, rows.Err()
}
