package knowledge

import (
	"path/filepath"
	"testing"
)

func TestAppendAndReadAllRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.md")
	e := Entry{Title: "cache invalidation needs a version bump", Description: "stale reads otherwise.", Area: "cache"}
	if err := Append(path, e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got := ReadAll(path)
	if len(got) != 1 || got[0].Title != e.Title {
		t.Fatalf("ReadAll = %+v, want one entry titled %q", got, e.Title)
	}
}

func TestReadAllMissingFileIsEmpty(t *testing.T) {
	got := ReadAll(filepath.Join(t.TempDir(), "missing.md"))
	if len(got) != 0 {
		t.Fatalf("expected no entries for a missing file, got %+v", got)
	}
}

func TestAppendLegacyThenAppendStructured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mistakes.md")
	if err := AppendLegacy(path, "forgot to run migrations"); err != nil {
		t.Fatalf("AppendLegacy: %v", err)
	}
	if err := Append(path, Entry{Title: "used the wrong branch", Description: "merged into main directly."}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got := ReadAll(path)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(got), got)
	}
	if got[0].Title != "forgot to run migrations" {
		t.Fatalf("expected the legacy entry first, got %+v", got[0])
	}
	if got[1].Title != "used the wrong branch" {
		t.Fatalf("expected the structured entry second, got %+v", got[1])
	}
}
