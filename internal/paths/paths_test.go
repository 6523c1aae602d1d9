package paths

import (
	"regexp"
	"testing"
	"time"
)

func TestNewSessionIDFormat(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	id, err := NewSessionID(now)
	if err != nil {
		t.Fatalf("NewSessionID: %v", err)
	}
	want := regexp.MustCompile(`^2026-03-05-[0-9a-f]{8}$`)
	if !want.MatchString(id) {
		t.Fatalf("id %q does not match expected shape", id)
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewSessionID(now)
		if err != nil {
			t.Fatalf("NewSessionID: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestLayoutHelpers(t *testing.T) {
	repo := "/tmp/repo"
	if got, want := Root(repo), "/tmp/repo/.ai-sessions"; got != want {
		t.Errorf("Root() = %q, want %q", got, want)
	}
	if got, want := ActiveSessionPath(repo, "2026-03-05-deadbeef"), "/tmp/repo/.ai-sessions/active/2026-03-05-deadbeef.md"; got != want {
		t.Errorf("ActiveSessionPath() = %q, want %q", got, want)
	}
	if got, want := CompletedSessionPath(repo, "2026-03-05-deadbeef"), "/tmp/repo/.ai-sessions/completed/2026-03-05-deadbeef.md"; got != want {
		t.Errorf("CompletedSessionPath() = %q, want %q", got, want)
	}
}
