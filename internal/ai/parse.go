package ai

import (
	"encoding/json"
	"strings"

	"github.com/daystar/grant-hub/internal/models"
)

// parseMetadata tolerates models that wrap their JSON in markdown fences
// or surround it with prose.
func parseMetadata(resp string) (*models.GrantMetadata, error) {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	if jsonStr, ok := extractFirstJSONObject(cleaned); ok {
		cleaned = jsonStr
	}

	var meta models.GrantMetadata
	if err := json.Unmarshal([]byte(cleaned), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// extractFirstJSONObject finds the first outermost balanced {...}.
func extractFirstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '{' {
				depth++
			} else if char == '}' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
