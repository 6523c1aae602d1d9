package cli

import (
	"os"
	"testing"

	"github.com/notkurt/ghost/internal/paths"
)

func TestMostRecentSessionIDPrefersCurrentIDMarker(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, paths.ActiveDir(root))
	mustMkdirAll(t, paths.CompletedDir(root))
	mustWriteFile(t, paths.CurrentIDFile(root), "2026-08-03-active")
	mustWriteFile(t, paths.CompletedSessionPath(root, "2026-08-01-old"), "front\n")

	id, ok := mostRecentSessionID(root)
	if !ok || id != "2026-08-03-active" {
		t.Fatalf("mostRecentSessionID = (%q, %v), want (2026-08-03-active, true)", id, ok)
	}
}

func TestMostRecentSessionIDFallsBackToCompleted(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, paths.ActiveDir(root))
	mustMkdirAll(t, paths.CompletedDir(root))
	mustWriteFile(t, paths.CompletedSessionPath(root, "2026-08-01-old"), "one\n")
	mustWriteFile(t, paths.CompletedSessionPath(root, "2026-08-02-newer"), "two\n")

	id, ok := mostRecentSessionID(root)
	if !ok || id != "2026-08-02-newer" {
		t.Fatalf("mostRecentSessionID = (%q, %v), want (2026-08-02-newer, true)", id, ok)
	}
}

func TestMostRecentSessionIDNoneAvailable(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, paths.ActiveDir(root))
	mustMkdirAll(t, paths.CompletedDir(root))

	if _, ok := mostRecentSessionID(root); ok {
		t.Fatal("expected no session to be found in an empty archive")
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}
}
