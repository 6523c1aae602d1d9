package session

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/notkurt/ghost/internal/paths"
)

func TestCreateWritesActiveFileAndCurrentID(t *testing.T) {
	repo := t.TempDir()
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

	id, err := Create(repo, "agent-1", "main", "deadbeef", now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(id, "2026-08-03-") {
		t.Fatalf("unexpected session id: %q", id)
	}
	if !fileExists(paths.ActiveSessionPath(repo, id)) {
		t.Fatal("expected an active session file to exist")
	}
	current, ok := readCurrentID(repo)
	if !ok || current != id {
		t.Fatalf("current-id marker = (%q, %v), want (%q, true)", current, ok, id)
	}
	resolved, ok := resolveInternalID(repo, "agent-1")
	if !ok || resolved != id {
		t.Fatalf("resolveInternalID = (%q, %v), want (%q, true)", resolved, ok, id)
	}
}

func TestAppendPromptDedupesConsecutiveIdenticalText(t *testing.T) {
	repo := t.TempDir()
	id, err := Create(repo, "agent-1", "main", "deadbeef", time.Now())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := AppendPrompt(repo, "agent-1", "fix the bug"); err != nil {
		t.Fatalf("AppendPrompt: %v", err)
	}
	if err := AppendPrompt(repo, "agent-1", "fix the bug"); err != nil {
		t.Fatalf("AppendPrompt: %v", err)
	}
	if n := GetPromptCount(repo, "agent-1"); n != 1 {
		t.Fatalf("expected 1 prompt after a consecutive duplicate, got %d", n)
	}
	if err := AppendPrompt(repo, "agent-1", "a different prompt"); err != nil {
		t.Fatalf("AppendPrompt: %v", err)
	}
	if n := GetPromptCount(repo, "agent-1"); n != 2 {
		t.Fatalf("expected 2 prompts after a distinct one, got %d", n)
	}
	_ = id
}

func TestAppendPromptNumbersSequentially(t *testing.T) {
	repo := t.TempDir()
	if _, err := Create(repo, "agent-1", "main", "deadbeef", time.Now()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, text := range []string{"first", "second", "third"} {
		if err := AppendPrompt(repo, "agent-1", text); err != nil {
			t.Fatalf("AppendPrompt: %v", err)
		}
	}
	id, _ := resolveInternalID(repo, "agent-1")
	data, err := os.ReadFile(paths.ActiveSessionPath(repo, id))
	if err != nil {
		t.Fatalf("readFile: %v", err)
	}
	for i, want := range []string{"## Prompt 1 ", "## Prompt 2 ", "## Prompt 3 "} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected prompt heading %q (index %d) in:\n%s", want, i, data)
		}
	}
}

func TestAppendFileModificationNormalizesAbsolutePath(t *testing.T) {
	repo := t.TempDir()
	if _, err := Create(repo, "agent-1", "main", "deadbeef", time.Now()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	abs := repo + "/internal/scm/adapter.go"
	if err := AppendFileModification(repo, "agent-1", abs); err != nil {
		t.Fatalf("AppendFileModification: %v", err)
	}
	id, _ := resolveInternalID(repo, "agent-1")
	data, err := os.ReadFile(paths.ActiveSessionPath(repo, id))
	if err != nil {
		t.Fatalf("readFile: %v", err)
	}
	if !strings.Contains(string(data), "- Modified: internal/scm/adapter.go") {
		t.Fatalf("expected a repo-relative modification line, got:\n%s", data)
	}
}

func TestFinalizeMovesActiveToCompleted(t *testing.T) {
	repo := t.TempDir()
	id, err := Create(repo, "agent-1", "main", "deadbeef", time.Now())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	result, ok, err := Finalize(repo, "agent-1", time.Now())
	if err != nil || !ok {
		t.Fatalf("Finalize: ok=%v err=%v", ok, err)
	}
	if result.InternalID != id {
		t.Fatalf("InternalID = %q, want %q", result.InternalID, id)
	}
	if fileExists(paths.ActiveSessionPath(repo, id)) {
		t.Fatal("expected the active file to be removed after Finalize")
	}
	if !fileExists(paths.CompletedSessionPath(repo, id)) {
		t.Fatal("expected a completed file to exist after Finalize")
	}
	if _, ok := resolveInternalID(repo, "agent-1"); ok {
		t.Fatal("expected the agent session mapping to be cleared after Finalize")
	}
	if _, ok := readCurrentID(repo); ok {
		t.Fatal("expected the current-id marker to be cleared after Finalize")
	}
}

func TestFinalizeNothingToFinalize(t *testing.T) {
	repo := t.TempDir()
	_, ok, err := Finalize(repo, "no-such-agent", time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false when there is no active session for this agent")
	}
}

func TestMergeTagsDeduplicatesPreservingOrder(t *testing.T) {
	got := mergeTags([]string{"billing", "urgent"}, []string{"urgent", "followup"})
	want := []string{"billing", "urgent", "followup"}
	if len(got) != len(want) {
		t.Fatalf("mergeTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mergeTags = %v, want %v", got, want)
		}
	}
}

func TestParseDocumentDegradesOnMalformedFrontmatter(t *testing.T) {
	fm, body := ParseDocument("---\ntags: [unterminated\n---\nbody text\n")
	if fm.ID != "" {
		t.Fatalf("expected a zero-value frontmatter, got %+v", fm)
	}
	if !strings.Contains(body, "body text") || !strings.Contains(body, "---") {
		t.Fatalf("expected the raw content to be preserved as body, got %q", body)
	}
}

func TestRenderDocumentRoundTrip(t *testing.T) {
	fm := Frontmatter{ID: "2026-08-03-deadbeef", Branch: "main", Tags: []string{"a", "b"}}
	doc := RenderDocument(fm, "hello\n")
	got, body := ParseDocument(doc)
	if got.ID != fm.ID || got.Branch != fm.Branch || len(got.Tags) != 2 {
		t.Fatalf("round-trip mismatch: got %+v", got)
	}
	if body != "hello\n" {
		t.Fatalf("body = %q, want %q", body, "hello\n")
	}
}

func TestRepairTagsFieldFixesScalarTags(t *testing.T) {
	broken := "---\nid: 2026-08-03-deadbeef\ntags: justone\n---\nbody\n"
	fm, _ := ParseDocument(broken)
	if fm.ID != "" {
		t.Fatal("expected the unrepaired document to fail to parse")
	}

	repaired, changed := RepairTagsField(broken)
	if !changed {
		t.Fatal("expected RepairTagsField to report a change")
	}
	fixed, body := ParseDocument(repaired)
	if fixed.ID != "2026-08-03-deadbeef" {
		t.Fatalf("expected ID to survive repair, got %+v", fixed)
	}
	if len(fixed.Tags) != 1 || fixed.Tags[0] != "justone" {
		t.Fatalf("expected tags to become [\"justone\"], got %v", fixed.Tags)
	}
	if !strings.Contains(body, "body") {
		t.Fatalf("expected body to survive repair, got %q", body)
	}
}

func TestRepairTagsFieldNoopWhenAlreadyValid(t *testing.T) {
	valid := "---\nid: 2026-08-03-deadbeef\ntags: [a, b]\n---\nbody\n"
	_, changed := RepairTagsField(valid)
	if changed {
		t.Fatal("expected no change when tags already parses as a list")
	}
}

func TestRepairTagsFieldNoopWithoutFrontmatter(t *testing.T) {
	_, changed := RepairTagsField("just plain text, no frontmatter at all\n")
	if changed {
		t.Fatal("expected no change for content with no frontmatter block")
	}
}
