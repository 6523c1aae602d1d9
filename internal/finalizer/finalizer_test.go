package finalizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notkurt/ghost/internal/paths"
)

func TestTopModifiedFilesDedupesAndOrders(t *testing.T) {
	transcript := strings.Join([]string{
		"- Modified: internal/a.go",
		"- Modified: internal/b.go",
		"- Modified: internal/a.go",
		"- Modified: internal/c.go",
	}, "\n")
	got := topModifiedFiles(transcript, 2)
	want := []string{"internal/a.go", "internal/b.go"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTopModifiedFilesIgnoresUnrelatedLines(t *testing.T) {
	transcript := "no modification markers here\njust prose\n"
	if got := topModifiedFiles(transcript, 5); len(got) != 0 {
		t.Fatalf("expected no files, got %v", got)
	}
}

func TestSessionDateFromID(t *testing.T) {
	if got := sessionDate("2026-08-03-deadbeef"); got != "2026-08-03" {
		t.Fatalf("sessionDate = %q, want 2026-08-03", got)
	}
}

func TestSessionDateFallsBackForShortID(t *testing.T) {
	got := sessionDate("short")
	if len(got) != len("2006-01-02") {
		t.Fatalf("expected a fallback date string, got %q", got)
	}
}

func TestWriteAndReadPID(t *testing.T) {
	repo := t.TempDir()
	if err := os.MkdirAll(paths.Root(repo), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writePID(repo)
	pid, ok := PID(repo)
	if !ok {
		t.Fatal("expected a PID to be readable after writePID")
	}
	if pid != os.Getpid() {
		t.Fatalf("PID = %d, want %d", pid, os.Getpid())
	}
	removePID(repo)
	if _, ok := PID(repo); ok {
		t.Fatal("expected no PID after removePID")
	}
}

func TestAppendSummarySectionNoopOnEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.md")
	if err := os.WriteFile(path, []byte("original content\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	appendSummarySection(path, "")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "original content\n" {
		t.Fatalf("expected no-op, got %q", data)
	}
}

func TestAppendSummarySectionAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.md")
	if err := os.WriteFile(path, []byte("original content\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	appendSummarySection(path, "## Intent\ndo the thing\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "## Summary") || !strings.Contains(string(data), "do the thing") {
		t.Fatalf("expected summary section appended, got %q", data)
	}
}

func TestRotateIfLargeLeavesSmallFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("a small log\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	rotateIfLarge(path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "a small log\n" {
		t.Fatalf("expected file untouched, got %q", data)
	}
}

func TestRotateIfLargeTrimsOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	var sb strings.Builder
	for i := 0; i < 3000; i++ {
		sb.WriteString("a line of log output padding out the file\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	rotateIfLarge(path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 201 {
		t.Fatalf("expected rotation to cap line count, got %d lines", len(lines))
	}
}

func TestIsAliveForCurrentProcess(t *testing.T) {
	if !IsAlive(os.Getpid()) {
		t.Fatal("expected the current process to be reported alive")
	}
}

func TestIsAliveForImpossiblePID(t *testing.T) {
	if IsAlive(-1) {
		t.Fatal("expected an invalid PID to be reported not alive")
	}
}
