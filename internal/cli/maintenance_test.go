package cli

import (
	"testing"

	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/session"
)

func TestRebuildTagIndexFromDisk(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, paths.CompletedDir(root))
	mustMkdirAll(t, paths.ActiveDir(root))

	completed := session.RenderDocument(session.Frontmatter{ID: "2026-08-01-done", Tags: []string{"billing", "urgent"}}, "body\n")
	active := session.RenderDocument(session.Frontmatter{ID: "2026-08-03-wip", Tags: []string{"billing"}}, "body\n")
	mustWriteFile(t, paths.CompletedSessionPath(root, "2026-08-01-done"), completed)
	mustWriteFile(t, paths.ActiveSessionPath(root, "2026-08-03-wip"), active)

	idx := rebuildTagIndexFromDisk(root)
	billing := idx.Sessions("billing")
	if len(billing) != 2 {
		t.Fatalf("expected 2 sessions tagged billing, got %d: %v", len(billing), billing)
	}
	urgent := idx.Sessions("urgent")
	if len(urgent) != 1 || urgent[0] != "2026-08-01-done" {
		t.Fatalf("expected only the completed session tagged urgent, got %v", urgent)
	}
}

func TestRebuildTagIndexFromDiskSkipsIDlessFiles(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, paths.CompletedDir(root))
	mustMkdirAll(t, paths.ActiveDir(root))
	mustWriteFile(t, paths.CompletedSessionPath(root, "no-frontmatter"), "just a plain transcript, no YAML header\n")

	idx := rebuildTagIndexFromDisk(root)
	if len(idx) != 0 {
		t.Fatalf("expected an empty index for a file lacking frontmatter, got %+v", idx)
	}
}
