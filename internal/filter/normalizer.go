package filter

import (
	"strings"

	"github.com/daystar/grant-hub/internal/models"
)

// Normalize coerces raw search results into fixed-shape grant records.
// Every field is trimmed of surrounding whitespace; fields the scraper
// omitted stay empty strings. The output has the same length and order as
// the input. A missing funding link is not an error here; it is detected
// downstream at the storage boundary.
func Normalize(raws []models.RawGrant) []models.Grant {
	grants := make([]models.Grant, 0, len(raws))
	for _, raw := range raws {
		grants = append(grants, models.Grant{
			Title:        strings.TrimSpace(raw.Title),
			Snippet:      strings.TrimSpace(raw.Snippet),
			FundingLink:  strings.TrimSpace(raw.FundingLink),
			Organization: strings.TrimSpace(raw.Organization),
			Source:       strings.TrimSpace(raw.Source),
			Deadline:     strings.TrimSpace(raw.Deadline),
			DateScraped:  strings.TrimSpace(raw.DateScraped),
			School:       strings.TrimSpace(raw.School),
		})
	}
	return grants
}
