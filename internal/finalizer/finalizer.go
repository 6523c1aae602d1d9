// Package finalizer implements the Background Finalizer:
// the detached post-SessionEnd pipeline that summarizes, extracts,
// redacts, attaches a note, indexes, and syncs. Every step is
// independently best-effort; none is retried.
package finalizer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/notkurt/ghost/internal/comod"
	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/redact"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/search"
	"github.com/notkurt/ghost/internal/session"
	"github.com/notkurt/ghost/internal/summarizer"
	"github.com/notkurt/ghost/internal/summary"
	"github.com/notkurt/ghost/internal/sync"
)

const summarizePrompt = "Summarize this agent session transcript into the fixed Intent/Changes/Knowledge/Decisions/Strategies/Mistakes/Open Items/Relevance/Tags schema."

// Run executes every step for one finalized session, logging failures
// to .background.log and writing its own PID file for the duration.
func Run(repo, transcriptPath, internalID string, cfg *config.Config) {
	logger := openLogger(repo)
	writePID(repo)
	defer removePID(repo)

	a := scm.New(repo)
	ctx := context.Background()

	transcript, err := os.ReadFile(transcriptPath)
	if err != nil {
		logger.Printf("reading transcript: %v", err)
		return
	}

	out, ok := summarizer.Summarize(ctx, cfg.External.SummarizerBin, summarizePrompt, string(transcript))
	if !ok {
		logger.Printf("summarizer unavailable or failed, skipping extraction")
		appendSummarySection(transcriptPath, "") // no-op; transcript remains the source of truth
		runIndependentSteps(ctx, a, repo, transcriptPath, logger, cfg)
		return
	}

	s := summary.Extract(out)
	if !s.Valid {
		logger.Printf("summarizer output did not match the fixed schema, skipping extraction")
		runIndependentSteps(ctx, a, repo, transcriptPath, logger, cfg)
		return
	}

	appendSummarySection(transcriptPath, out)

	if s.SkipKnowledge {
		if err := setSkipKnowledge(transcriptPath); err != nil {
			logger.Printf("setting skip_knowledge: %v", err)
		}
		runIndependentSteps(ctx, a, repo, transcriptPath, logger, cfg)
		return
	}

	if len(s.Tags) > 0 {
		if _, err := knowledge.AddTags(repo, internalID, s.Tags); err != nil {
			logger.Printf("applying tags: %v", err)
		}
	}

	modifiedFiles := topModifiedFiles(string(transcript), 5)
	baseCommit := readBaseCommit(transcriptPath)
	date := sessionDate(internalID)

	writeEntries(paths.DecisionsFile(repo), s.Decisions, internalID, baseCommit, date, modifiedFiles, logger)
	writeEntries(paths.MistakesFile(repo), s.Mistakes, internalID, baseCommit, date, modifiedFiles, logger)
	writeEntries(paths.KnowledgeFile(repo), append(s.Knowledge, s.Strategies...), internalID, baseCommit, date, modifiedFiles, logger)

	autoMistake(repo, string(transcript), internalID, baseCommit, date, logger)

	redactTranscript(transcriptPath, logger)
	runIndependentSteps(ctx, a, repo, transcriptPath, logger, cfg)
}

// runIndependentSteps performs the steps that proceed regardless of
// whether summarization/extraction succeeded: attach note, index,
// sync.
func runIndependentSteps(ctx context.Context, a *scm.Adapter, repo, transcriptPath string, logger *log.Logger, cfg *config.Config) {
	if head, ok := a.HeadCommit(ctx); ok {
		if !a.AddNote(ctx, cfg.Git.NotesRef, head, transcriptPath) {
			logger.Printf("attaching note to %s failed", head)
		}
	}

	collection := fmt.Sprintf(cfg.External.SearchCollectionFmt, filepath.Base(repo))
	searchAdapter := search.New(cfg.External.SearchBin, collection)
	if searchAdapter.Available() {
		if err := searchAdapter.Index(ctx, paths.CompletedDir(repo)); err != nil {
			logger.Printf("indexing: %v", err)
		}
	} else {
		logger.Printf("search engine %s not on PATH, skipping index", cfg.External.SearchBin)
	}

	sync.Push(ctx, repo, a, cfg)
}

func writeEntries(path string, entries []knowledge.Entry, sessionID, commit, date string, defaultFiles []string, logger *log.Logger) {
	for _, e := range entries {
		if knowledge.IsJunkTitle(e.Title) {
			continue
		}
		if len(e.Files) == 0 {
			e.Files = defaultFiles
		}
		if e.Area == "" {
			e.Area = knowledge.DeriveArea(e.Files)
		}
		e.SessionID = sessionID
		e.CommitSHA = commit
		if e.Date == "" {
			e.Date = date
		}
		if err := knowledge.Append(path, e); err != nil {
			logger.Printf("writing knowledge entry %q: %v", e.Title, err)
		}
	}
}

// autoMistake synthesizes a mistake entry when any file in the
// transcript shows two or more correction passes.
func autoMistake(repo, transcript, sessionID, commit, date string, logger *log.Logger) {
	counts := comod.Corrections(transcript)
	file, ok := comod.HasRepeatedCorrection(counts)
	if !ok {
		return
	}
	e := knowledge.Entry{
		Title:       fmt.Sprintf("repeated corrections on %s", file),
		Description: fmt.Sprintf("%s was modified, then modified again in %d later turns — likely a false start or a fix that needed revising.", file, counts[file]),
		SessionID:   sessionID,
		CommitSHA:   commit,
		Files:       []string{file},
		Date:        date,
	}
	e.Area = knowledge.DeriveArea(e.Files)
	if err := knowledge.Append(paths.MistakesFile(repo), e); err != nil {
		logger.Printf("writing auto-mistake: %v", err)
	}
}

func redactTranscript(path string, logger *log.Logger) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("reading transcript for deep redaction: %v", err)
		return
	}
	fm, body := session.ParseDocument(string(content))
	redacted := redact.Redact(body)
	if redacted == body {
		return
	}
	if err := os.WriteFile(path, []byte(session.RenderDocument(fm, redacted)), 0o644); err != nil {
		logger.Printf("writing deep-redacted transcript: %v", err)
	}
}

func topModifiedFiles(transcript string, n int) []string {
	seen := map[string]bool{}
	var ordered []string
	for _, line := range strings.Split(transcript, "\n") {
		const prefix = "- Modified: "
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		f := strings.TrimSpace(strings.TrimPrefix(line, prefix))
		if !seen[f] {
			seen[f] = true
			ordered = append(ordered, f)
		}
	}
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}

func readBaseCommit(transcriptPath string) string {
	content, err := os.ReadFile(transcriptPath)
	if err != nil {
		return ""
	}
	fm, _ := session.ParseDocument(string(content))
	return fm.BaseCommit
}

func sessionDate(internalID string) string {
	if len(internalID) >= 10 {
		return internalID[:10]
	}
	return time.Now().UTC().Format("2006-01-02")
}

func setSkipKnowledge(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fm, body := session.ParseDocument(string(content))
	fm.SkipKnowledge = true
	return os.WriteFile(path, []byte(session.RenderDocument(fm, body)), 0o644)
}

func appendSummarySection(path, summaryMarkdown string) {
	if summaryMarkdown == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "\n## Summary\n%s\n", strings.TrimSpace(summaryMarkdown))
}

func openLogger(repo string) *log.Logger {
	path := paths.BackgroundLogFile(repo)
	rotateIfLarge(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(os.Stderr, "", 0)
	}
	return log.New(timestampWriter{f}, "", 0)
}

type timestampWriter struct{ f *os.File }

func (w timestampWriter) Write(p []byte) (int, error) {
	_, err := fmt.Fprintf(w.f, "[%s] %s", time.Now().UTC().Format(time.RFC3339), p)
	return len(p), err
}

// rotateIfLarge keeps the background log under ~50kB by retaining only
// the last 200 lines.
func rotateIfLarge(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < 50*1024 {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 200 {
		lines = lines[len(lines)-200:]
	}
	_ = os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

func writePID(repo string) {
	_ = os.WriteFile(paths.BackgroundPIDFile(repo), []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func removePID(repo string) {
	_ = os.Remove(paths.BackgroundPIDFile(repo))
}

// PID returns the Background Finalizer's recorded PID for repo, if the
// marker file is present.
func PID(repo string) (int, bool) {
	data, err := os.ReadFile(paths.BackgroundPIDFile(repo))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}
