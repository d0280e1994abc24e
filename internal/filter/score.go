package filter

import (
	"strings"

	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/models"
)

// keywordWeight is applied once per matched keyword: presence, not
// frequency. A keyword recurring in the text still counts once.
const keywordWeight = 2

// RelevanceScore computes the signed keyword score of a grant against an
// institution's configuration. Each distinct priority keyword found in the
// lowercased title+snippet adds 2, each distinct exclude keyword subtracts
// 2. An institution with empty keyword lists scores every grant 0.
func RelevanceScore(g models.Grant, inst config.Institution) int {
	haystack := strings.ToLower(g.Title + " " + g.Snippet)

	score := 0
	for _, word := range inst.Priority {
		if strings.Contains(haystack, strings.ToLower(word)) {
			score += keywordWeight
		}
	}
	for _, word := range inst.Exclude {
		if strings.Contains(haystack, strings.ToLower(word)) {
			score -= keywordWeight
		}
	}
	return score
}
