package filter

import (
	"testing"

	"github.com/daystar/grant-hub/internal/models"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	a := Fingerprint("Test Grant", "https://example.com")
	b := Fingerprint("Test Grant", "https://example.com")
	if a != b {
		t.Fatalf("same input produced different digests: %s vs %s", a, b)
	}
}

func TestFingerprintIsCaseInsensitive(t *testing.T) {
	a := Fingerprint("TEST GRANT", "HTTPS://EXAMPLE.COM")
	b := Fingerprint("test grant", "https://example.com")
	if a != b {
		t.Fatalf("case variants produced different digests: %s vs %s", a, b)
	}
}

func TestFingerprintDistinguishesGrants(t *testing.T) {
	a := Fingerprint("Grant A", "https://a.com")
	b := Fingerprint("Grant B", "https://b.com")
	if a == b {
		t.Fatal("different grants produced the same digest")
	}
}

func TestDeduplicateKeepsFirstOccurrence(t *testing.T) {
	grants := []models.Grant{
		{Title: "AI Research Fellowship", FundingLink: "https://example.com/ai"},
		{Title: "Climate Science Grant", FundingLink: "https://example.com/climate"},
		{Title: "ai research fellowship", FundingLink: "HTTPS://EXAMPLE.COM/AI"},
	}

	unique := Deduplicate(grants)

	if len(unique) != 2 {
		t.Fatalf("expected 2 unique grants, got %d", len(unique))
	}
	if unique[0].Title != "AI Research Fellowship" {
		t.Errorf("expected first occurrence to survive, got %q", unique[0].Title)
	}
	if unique[1].Title != "Climate Science Grant" {
		t.Errorf("relative order broken: got %q second", unique[1].Title)
	}
}

func TestDeduplicatePreservesDistinctGrants(t *testing.T) {
	grants := []models.Grant{
		{Title: "Grant A", FundingLink: "https://a.com"},
		{Title: "Grant B", FundingLink: "https://b.com"},
		{Title: "Grant C", FundingLink: "https://c.com"},
	}

	if got := Deduplicate(grants); len(got) != 3 {
		t.Fatalf("expected 3 grants, got %d", len(got))
	}
}
