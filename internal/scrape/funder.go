package scrape

import (
	"regexp"
	"strings"
)

// funderRe matches capitalized organization names ending in an
// institutional suffix, e.g. "National Science Foundation" or
// "Wellcome Trust".
var funderRe = regexp.MustCompile(
	`\b([A-Z][a-zA-Z&\-']+(?:\s+(?:of|for|and|&|the|in))?\s*` +
		`[A-Z][a-zA-Z&\-']*(?:\s+[A-Z][a-zA-Z&\-']+)*\s+` +
		`(?:Foundation|Institute|Institutes|Agency|Department|Council|Society|` +
		`Association|Charity|Trust|Fund|Endowment|Initiative|Center|Centre|` +
		`University|Program|Commission|Network|Organization))\b`,
)

// ExtractFunder pulls a funding organization name out of the snippet or,
// failing that, the title. When neither mentions one it falls back to the
// provider-reported source, or "Unknown".
func ExtractFunder(title, snippet, fallback string) string {
	for _, text := range []string{snippet, title} {
		if m := funderRe.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			// The pattern admits a capitalized leading article as the first
			// word; "The National Science Foundation" means the NSF.
			name = strings.TrimPrefix(name, "The ")
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "Unknown"
}
