package db

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const (
	maxTitleLen       = 500
	maxDescriptionLen = 2000
)

// snippetPolicy strips every tag; search snippets are stored as plain text.
var snippetPolicy = bluemonday.StrictPolicy()

// sanitizeText renders any stray HTML in a scraped field as plain text and
// normalizes whitespace.
func sanitizeText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err == nil {
		s = doc.Text()
	}
	return normalizeSpace(sanitizeUTF8(s))
}

// sanitizeSnippet strips markup from a description snippet with a strict
// sanitization policy before storage. The policy HTML-escapes what it
// keeps, so entities are unescaped back into plain text.
func sanitizeSnippet(s string) string {
	return normalizeSpace(sanitizeUTF8(html.UnescapeString(snippetPolicy.Sanitize(s))))
}

// sanitizeUTF8 removes invalid UTF-8 byte sequences that cause PostgreSQL
// errors.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText cuts a string to max length, appending ellipsis if truncated.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return text[:maxLen-3] + "..."
	}
	return text[:maxLen]
}
