package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
)

func TestEntryKeyIsCaseInsensitive(t *testing.T) {
	a := knowledge.Entry{Title: "Use Context.Context", Description: "Pass it everywhere."}
	b := knowledge.Entry{Title: "use context.context", Description: "pass it everywhere."}
	if entryKey(a) != entryKey(b) {
		t.Fatalf("expected entryKey to be case-insensitive: %q vs %q", entryKey(a), entryKey(b))
	}
}

func TestEntryKeyDistinguishesDescriptions(t *testing.T) {
	a := knowledge.Entry{Title: "same title", Description: "first description"}
	b := knowledge.Entry{Title: "same title", Description: "second description"}
	if entryKey(a) == entryKey(b) {
		t.Fatal("expected different descriptions to produce different keys")
	}
}

func TestToLineSet(t *testing.T) {
	set := toLineSet([]string{"a", "b", "a"})
	if len(set) != 2 || !set["a"] || !set["b"] {
		t.Fatalf("unexpected set: %+v", set)
	}
}

func TestUnifiedLinesNoDifference(t *testing.T) {
	if got := unifiedLines("same\ntext\n", "same\ntext\n"); got != "" {
		t.Fatalf("expected no diff lines, got %q", got)
	}
}

func TestUnifiedLinesAddedAndRemoved(t *testing.T) {
	local := "kept\nremoved-line\n"
	remote := "kept\nadded-line\n"
	got := unifiedLines(local, remote)
	if !containsLine(got, "-removed-line") {
		t.Fatalf("expected a removed line, got %q", got)
	}
	if !containsLine(got, "+added-line") {
		t.Fatalf("expected an added line, got %q", got)
	}
	if containsLine(got, "-kept") || containsLine(got, "+kept") {
		t.Fatalf("expected the shared line to be omitted, got %q", got)
	}
}

func containsLine(text, line string) bool {
	for _, l := range splitLines(text) {
		if l == line {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, text[start:i])
			start = i + 1
		}
	}
	return out
}

func TestStampSessionOnlyFillsEmpty(t *testing.T) {
	entries := []knowledge.Entry{
		{Title: "a"},
		{Title: "b", SessionID: "already-set"},
	}
	stamped := stampSession(entries, "new-session")
	if stamped[0].SessionID != "new-session" {
		t.Fatalf("expected empty SessionID to be stamped, got %q", stamped[0].SessionID)
	}
	if stamped[1].SessionID != "already-set" {
		t.Fatalf("expected existing SessionID to survive, got %q", stamped[1].SessionID)
	}
}

func TestWriteMissingSkipsDuplicates(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(paths.Root(root), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(paths.Root(root), "knowledge.md")

	existing := []knowledge.Entry{{Title: "already known", Description: "same thing"}}
	fresh := []knowledge.Entry{
		{Title: "already known", Description: "same thing"},
		{Title: "brand new", Description: "worth recording"},
	}
	if err := writeMissing(path, existing, fresh); err != nil {
		t.Fatalf("writeMissing: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := knowledge.Parse(string(data))
	if len(got) != 1 {
		t.Fatalf("expected only the new entry to be appended, got %d: %+v", len(got), got)
	}
	if got[0].Title != "brand new" {
		t.Fatalf("expected 'brand new' entry, got %+v", got[0])
	}
}

func TestTrimMDExt(t *testing.T) {
	cases := map[string]string{
		"2026-08-03-deadbeef.md": "2026-08-03-deadbeef",
		"no-extension":           "no-extension",
		"x.md":                   "x",
	}
	for in, want := range cases {
		if got := trimMDExt(in); got != want {
			t.Fatalf("trimMDExt(%q) = %q, want %q", in, got, want)
		}
	}
}
