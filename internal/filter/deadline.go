package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FallbackDeadlineText is returned by the display extractor when nothing
// date-like can be found in the text.
const FallbackDeadlineText = "Check link for deadline"

var (
	// deadlineKeywordRe anchors on a deadline-announcing phrase and captures
	// the remainder of the sentence.
	deadlineKeywordRe = regexp.MustCompile(`(?i)(?:deadline|closes|due(?: date)?|applications due)[:\s\-]*([^.]+)`)

	// dateTokenRe matches "25 Oct 2026", "March 15, 2027" and "01/15/2027"
	// style tokens, tolerating -, / and . separators.
	dateTokenRe = regexp.MustCompile(`(?i)\b(?:` +
		`\d{1,2}[\s\-/]+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s\-/,]+\d{2,4}` +
		`|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s\-/.]+\d{1,2}[,\s\-/]+\d{2,4}` +
		`|\d{1,2}[\-/.]\d{1,2}[\-/.]\d{2,4}` +
		`)\b`)

	dayMonthYearRe = regexp.MustCompile(`^(\d{1,2})[\s\-/]+([A-Za-z]+)[\s\-/,]+(\d{2,4})$`)
	monthDayYearRe = regexp.MustCompile(`^([A-Za-z]+)[\s\-/.]+(\d{1,2})[,\s\-/]+(\d{2,4})$`)
	numericDateRe  = regexp.MustCompile(`^(\d{1,2})[\-/.](\d{1,2})[\-/.](\d{2,4})$`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// ExtractDeadline scans free text for a recognizable date token and parses
// the first one that yields a valid calendar date. Time-of-day defaults to
// midnight UTC. Returns false when no token parses; that is a normal
// outcome, not an error.
func ExtractDeadline(text string) (time.Time, bool) {
	for _, token := range dateTokenRe.FindAllString(text, -1) {
		if t, ok := parseDateToken(token); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractDeadlineText returns a human-readable deadline string for display
// and provenance. It prefers a date token inside a deadline-announcing
// sentence, then the start of that sentence, then any date token in the
// text, and finally a fallback message telling the reader to check the
// source page.
func ExtractDeadlineText(text string) string {
	if m := deadlineKeywordRe.FindStringSubmatch(text); m != nil {
		captured := strings.TrimSpace(m[1])
		if token := dateTokenRe.FindString(captured); token != "" {
			return strings.TrimSpace(token)
		}
		if runes := []rune(captured); len(runes) > 25 {
			return strings.TrimSpace(string(runes[:25]))
		}
		return captured
	}
	if token := dateTokenRe.FindString(text); token != "" {
		return strings.TrimSpace(token)
	}
	return FallbackDeadlineText
}

// parseDateToken parses a single matched token into a date, tolerating the
// separator and ordering variants the token pattern admits.
func parseDateToken(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)

	if m := dayMonthYearRe.FindStringSubmatch(token); m != nil {
		month, ok := monthFromName(m[2])
		if !ok {
			return time.Time{}, false
		}
		return makeDate(normalizeYear(atoi(m[3])), month, atoi(m[1]))
	}

	if m := monthDayYearRe.FindStringSubmatch(token); m != nil {
		month, ok := monthFromName(m[1])
		if !ok {
			return time.Time{}, false
		}
		return makeDate(normalizeYear(atoi(m[3])), month, atoi(m[2]))
	}

	if m := numericDateRe.FindStringSubmatch(token); m != nil {
		first, second := atoi(m[1]), atoi(m[2])
		year := normalizeYear(atoi(m[3]))
		// US ordering by default; swap when the first value cannot be a month.
		if first > 12 && second <= 12 {
			first, second = second, first
		}
		if first > 12 {
			return time.Time{}, false
		}
		return makeDate(year, time.Month(first), second)
	}

	return time.Time{}, false
}

// monthFromName resolves a month name or abbreviation of at least three
// letters. The candidate must be a prefix of a real month name, so words
// that merely start with an abbreviation ("janitor") are rejected.
func monthFromName(name string) (time.Month, bool) {
	lower := strings.ToLower(name)
	if len(lower) < 3 {
		return 0, false
	}
	for i, full := range monthNames {
		if strings.HasPrefix(full, lower) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// makeDate builds a midnight-UTC date, rejecting impossible day values
// rather than letting time.Date normalize them into the next month.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

func normalizeYear(y int) int {
	if y >= 100 {
		return y
	}
	if y < 70 {
		return y + 2000
	}
	return y + 1900
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
