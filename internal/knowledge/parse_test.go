package knowledge

import (
	"reflect"
	"testing"
)

func TestFormatParseRoundTrip(t *testing.T) {
	e := Entry{
		Title:       "use context.Context everywhere",
		Description: "all blocking calls take a context now.",
		SessionID:   "2026-08-03-deadbeef",
		CommitSHA:   "abc123",
		Files:       []string{"internal/scm/adapter.go"},
		Area:        "scm",
		Date:        "2026-08-03",
		Rule:        "always pass ctx to subprocess calls",
	}
	got := Parse(Format(e))
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], e) {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got[0], e)
	}
}

func TestParseLegacyAndStructuredInterleaved(t *testing.T) {
	doc := "- legacy entry one\n### structured title\nsome body text\n<!-- area:cart -->\n\n- legacy entry two\n"
	entries := Parse(doc)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Title != "legacy entry one" || entries[2].Title != "legacy entry two" {
		t.Fatalf("legacy entries not parsed correctly: %+v", entries)
	}
	if entries[1].Title != "structured title" || entries[1].Area != "cart" {
		t.Fatalf("structured entry not parsed correctly: %+v", entries[1])
	}
}

func TestDeriveArea(t *testing.T) {
	cases := []struct {
		files []string
		want  string
	}{
		{nil, "general"},
		{[]string{"README.md"}, "general"},
		{[]string{"src/cart/checkout.go", "src/cart/totals.go", "src/auth/login.go"}, "cart"},
		{[]string{"app/billing/invoice.go"}, "billing"},
	}
	for _, c := range cases {
		if got := DeriveArea(c.files); got != c.want {
			t.Fatalf("DeriveArea(%v) = %q, want %q", c.files, got, c.want)
		}
	}
}

func TestIsJunkTitle(t *testing.T) {
	junk := []string{"", "none", "N/A", "No mistakes found", "no"}
	for _, j := range junk {
		if !IsJunkTitle(j) {
			t.Fatalf("expected %q to be junk", j)
		}
	}
	if IsJunkTitle("forgot to handle nil pointer in parser") {
		t.Fatal("expected real title to not be junk")
	}
}
