// Package session implements the Session Store: session
// creation, the many-writer append operations a transcript accumulates
// during its life, and finalize/checkpoint.
//
// Every append opens, writes, and closes the file — no long-lived
// descriptors — so that multiple hook processes interleaving appends to
// the same transcript still produce a well-defined, line-granular
// interleaving.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/redact"
	"github.com/notkurt/ghost/internal/scm"
)

var (
	promptHeadingRe = regexp.MustCompile(`(?m)^## Prompt (\d+) <!-- ph:([0-9a-f]{8}) -->`)
)

// PromptHash returns the first 8 hex characters of sha256(text), used
// both to name a Prompt block and to detect consecutive duplicates.
func PromptHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:8]
}

// Create starts a new session: generates an id, writes the
// frontmatter-only body, records the current-id marker, and — if an
// external agent session id was given — maps it to the new internal id.
func Create(repo string, agentSessionID string, branch, baseCommit string, now time.Time) (string, error) {
	if err := paths.EnsureDirs(repo); err != nil {
		return "", fmt.Errorf("ensuring session directories: %w", err)
	}

	id, err := paths.NewSessionID(now)
	if err != nil {
		return "", err
	}

	fm := Frontmatter{
		ID:         id,
		Branch:     branch,
		BaseCommit: baseCommit,
		Started:    now.UTC(),
		Tags:       []string{},
	}

	if err := os.WriteFile(paths.ActiveSessionPath(repo, id), []byte(NewDocument(fm)), 0o644); err != nil {
		return "", fmt.Errorf("writing session file: %w", err)
	}

	if err := writeCurrentID(repo, id); err != nil {
		return "", fmt.Errorf("writing current-id marker: %w", err)
	}

	if agentSessionID != "" {
		if err := mapAgentSession(repo, agentSessionID, id); err != nil {
			return "", fmt.Errorf("mapping agent session: %w", err)
		}
	}

	return id, nil
}

// appendToActive opens the active transcript for agentSessionID in
// append mode and hands it to fn. Returns ok=false — never an error —
// when there is no live session to append to: hooks must never surface
// an error to the host agent.
func appendToActive(repo, agentSessionID string, fn func(content string) (toWrite string, err error)) (bool, error) {
	id, ok := resolveInternalID(repo, agentSessionID)
	if !ok {
		return false, nil
	}
	path := paths.ActiveSessionPath(repo, id)

	existing, err := os.ReadFile(path)
	if err != nil {
		return false, nil
	}

	toWrite, err := fn(string(existing))
	if err != nil {
		return false, err
	}
	if toWrite == "" {
		return true, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return false, nil
	}
	defer f.Close()
	if _, err := f.WriteString(toWrite); err != nil {
		return false, err
	}
	return true, nil
}

// AppendPrompt appends a new "## Prompt N" block, unless the most
// recently appended prompt has the same text (consecutive-duplicate
// dedup).
func AppendPrompt(repo, agentSessionID, text string) error {
	_, err := appendToActive(repo, agentSessionID, func(content string) (string, error) {
		hash := PromptHash(text)
		matches := promptHeadingRe.FindAllStringSubmatch(content, -1)
		n := len(matches) + 1
		if len(matches) > 0 && matches[len(matches)-1][2] == hash {
			return "", nil
		}
		return fmt.Sprintf("\n## Prompt %d <!-- ph:%s -->\n> %s\n", n, hash, text), nil
	})
	return err
}

// GetPromptCount returns how many Prompt blocks the active transcript
// for agentSessionID currently has.
func GetPromptCount(repo, agentSessionID string) int {
	id, ok := resolveInternalID(repo, agentSessionID)
	if !ok {
		return 0
	}
	content, err := os.ReadFile(paths.ActiveSessionPath(repo, id))
	if err != nil {
		return 0
	}
	return len(promptHeadingRe.FindAllStringIndex(string(content), -1))
}

// AppendFileModification appends a "- Modified: <repo-relative path>"
// line, normalizing an absolute path under the repo root.
func AppendFileModification(repo, agentSessionID, path string) error {
	_, err := appendToActive(repo, agentSessionID, func(string) (string, error) {
		rel := path
		if filepath.IsAbs(path) {
			if r, err := filepath.Rel(repo, path); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
		return fmt.Sprintf("- Modified: %s\n", rel), nil
	})
	return err
}

// AppendTaskNote appends a "- Task: <text>" line.
func AppendTaskNote(repo, agentSessionID, text string) error {
	_, err := appendToActive(repo, agentSessionID, func(string) (string, error) {
		return fmt.Sprintf("- Task: %s\n", text), nil
	})
	return err
}

// AppendTurnDelimiter closes out a turn: a "---" line, a completion
// timestamp, and — if the SCM adapter can produce one within its
// budget — a fenced diff-stat block.
func AppendTurnDelimiter(repo, agentSessionID string, diffStat string) error {
	_, err := appendToActive(repo, agentSessionID, func(string) (string, error) {
		var sb strings.Builder
		sb.WriteString("\n---\n")
		sb.WriteString(fmt.Sprintf("_turn completed: %s_\n", time.Now().UTC().Format(time.RFC3339)))
		if strings.TrimSpace(diffStat) != "" {
			sb.WriteString("```diff\n")
			sb.WriteString(diffStat)
			sb.WriteString("\n```\n")
		}
		return sb.String(), nil
	})
	return err
}

// FinalizeResult is returned by a successful Finalize.
type FinalizeResult struct {
	Path       string
	InternalID string
}

// Finalize resolves the session id (preferring the session map, falling
// back to the current-id marker), redacts the transcript, stamps
// `ended`, and moves it from active/ to completed/. ok is false when
// there is nothing to finalize.
func Finalize(repo, agentSessionID string, now time.Time) (*FinalizeResult, bool, error) {
	id, ok := resolveInternalID(repo, agentSessionID)
	if !ok {
		id, ok = readCurrentID(repo)
	}
	if !ok {
		return nil, false, nil
	}

	activePath := paths.ActiveSessionPath(repo, id)
	content, err := os.ReadFile(activePath)
	if err != nil {
		return nil, false, nil
	}

	fm, body := ParseDocument(string(content))
	body = redact.Redact(body)
	ended := now.UTC()
	fm.Ended = &ended

	completedPath := paths.CompletedSessionPath(repo, id)
	if err := os.MkdirAll(filepath.Dir(completedPath), 0o755); err != nil {
		return nil, false, fmt.Errorf("ensuring completed dir: %w", err)
	}
	if err := os.WriteFile(completedPath, []byte(RenderDocument(fm, body)), 0o644); err != nil {
		return nil, false, fmt.Errorf("writing completed session: %w", err)
	}
	if err := os.Remove(activePath); err != nil {
		return nil, false, fmt.Errorf("removing active session: %w", err)
	}

	if err := unmapAgentSession(repo, agentSessionID); err != nil {
		return nil, false, err
	}
	if err := clearCurrentIDIfMatches(repo, id); err != nil {
		return nil, false, err
	}

	return &FinalizeResult{Path: completedPath, InternalID: id}, true, nil
}

// mostRecentlyCompleted returns the current-id marker if it still
// points at a completed session, else the lexicographically greatest
// file under completed/ (session ids sort chronologically since they
// are date-prefixed).
func mostRecentlyCompleted(repo string) (string, bool) {
	if id, ok := readCurrentID(repo); ok {
		if _, err := os.Stat(paths.CompletedSessionPath(repo, id)); err == nil {
			return id, true
		}
	}

	entries, err := os.ReadDir(paths.CompletedDir(repo))
	if err != nil || len(entries) == 0 {
		return "", false
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	best := names[len(names)-1]
	return strings.TrimSuffix(best, ".md"), true
}

// Checkpoint attaches the most recently completed session's transcript
// as a git note on HEAD. Silent-fail on any missing input.
func Checkpoint(repo string, adapter *scm.Adapter, notesRef string, timeoutSecs int) {
	id, ok := mostRecentlyCompleted(repo)
	if !ok {
		return
	}
	ctx, cancel := scm.WithTimeout(context.Background(), timeoutSecs)
	defer cancel()
	head, ok := adapter.HeadCommit(ctx)
	if !ok {
		return
	}
	adapter.AddNote(ctx, notesRef, head, paths.CompletedSessionPath(repo, id))
}

// LocateSessionFile finds a session's file path, checking completed/
// first, then active/, as add_tags does.
func LocateSessionFile(repo, id string) (string, bool) {
	if p := paths.CompletedSessionPath(repo, id); fileExists(p) {
		return p, true
	}
	if p := paths.ActiveSessionPath(repo, id); fileExists(p) {
		return p, true
	}
	return "", false
}

// MergeTagsIntoFile merges newTags into a session file's frontmatter tag
// sequence, preserving order and deduplicating, and returns the
// resulting tag set.
func MergeTagsIntoFile(path string, newTags []string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fm, body := ParseDocument(string(content))
	fm.Tags = mergeTags(fm.Tags, newTags)
	if err := os.WriteFile(path, []byte(RenderDocument(fm, body)), 0o644); err != nil {
		return nil, err
	}
	return fm.Tags, nil
}

// mergeTags appends tags from b not already in a, preserving a's order,
// then b's order for the new ones. Idempotent: merging the same b twice
// has no further effect.
func mergeTags(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	result := make([]string, 0, len(a)+len(b))
	for _, t := range a {
		if !seen[t] {
			seen[t] = true
			result = append(result, t)
		}
	}
	for _, t := range b {
		if !seen[t] {
			seen[t] = true
			result = append(result, t)
		}
	}
	return result
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
