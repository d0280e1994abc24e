package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/daystar/grant-hub/internal/models"
)

// Fingerprint computes the stable identity of a grant from its title and
// funding link. Case differences never change the digest. This is an
// identity function for deduplication, not a security boundary.
func Fingerprint(title, fundingLink string) string {
	base := strings.ToLower(title) + "|" + strings.ToLower(fundingLink)
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

// Deduplicate keeps the first occurrence of each grant identity, scanning
// in input order and preserving the relative order of survivors. Grants
// are not mutated.
func Deduplicate(grants []models.Grant) []models.Grant {
	seen := make(map[string]struct{}, len(grants))
	unique := make([]models.Grant, 0, len(grants))

	for _, g := range grants {
		id := Fingerprint(g.Title, g.FundingLink)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, g)
	}

	return unique
}
