package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/notkurt/ghost/internal/comod"
	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/session"
	"github.com/notkurt/ghost/internal/summary"
	"github.com/spf13/cobra"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect and maintain the project knowledge base",
}

var knowledgeBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Backfill knowledge/mistakes/decisions from completed session summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _, _, err := repoContext()
		if err != nil {
			return err
		}
		n, err := buildKnowledgeBaseCounting(root)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d session(s)\n", n)
		return nil
	},
}

var knowledgeInjectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Print the mistakes, decisions and review candidates a new session would be given right now",
	RunE:  runKnowledgeInject,
}

var knowledgeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the raw knowledge, mistakes, and decisions logs",
	RunE:  runKnowledgeShow,
}

var knowledgeDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff local knowledge logs against the synced orphan branch",
	RunE:  runKnowledgeDiff,
}

func init() {
	knowledgeCmd.AddCommand(knowledgeBuildCmd, knowledgeInjectCmd, knowledgeShowCmd, knowledgeDiffCmd)
}

// buildKnowledgeBase is invoked by `ghost enable --genesis` to seed the
// knowledge base from whatever completed sessions already exist.
func buildKnowledgeBase(root string) error {
	_, err := buildKnowledgeBaseCounting(root)
	return err
}

// buildKnowledgeBaseCounting walks every completed session transcript,
// extracts its embedded Summary section (written by the Background
// Finalizer), and folds any entries missing from the three logs into
// them, deduplicating the same way knowledge sync does.
func buildKnowledgeBaseCounting(root string) (int, error) {
	entries, err := os.ReadDir(paths.CompletedDir(root))
	if err != nil {
		return 0, nil
	}

	existingKnowledge := knowledge.ReadAll(paths.KnowledgeFile(root))
	existingMistakes := knowledge.Mistakes(root)
	existingDecisions := knowledge.Decisions(root)

	var newKnowledge, newMistakes, newDecisions []knowledge.Entry
	indexed := 0

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(paths.CompletedDir(root) + "/" + e.Name())
		if err != nil {
			continue
		}
		fm, body := session.ParseDocument(string(data))
		idx := strings.Index(body, "## Summary")
		if idx < 0 {
			continue
		}
		s := summary.Extract(body[idx:])
		if !s.Valid {
			continue
		}
		indexed++

		if !s.SkipKnowledge {
			newKnowledge = append(newKnowledge, stampSession(s.Knowledge, fm.ID)...)
			newKnowledge = append(newKnowledge, stampSession(s.Strategies, fm.ID)...)
		}
		newMistakes = append(newMistakes, stampSession(s.Mistakes, fm.ID)...)
		newDecisions = append(newDecisions, stampSession(s.Decisions, fm.ID)...)
	}

	if err := writeMissing(paths.KnowledgeFile(root), existingKnowledge, newKnowledge); err != nil {
		return indexed, err
	}
	if err := writeMissing(paths.MistakesFile(root), existingMistakes, newMistakes); err != nil {
		return indexed, err
	}
	if err := writeMissing(paths.DecisionsFile(root), existingDecisions, newDecisions); err != nil {
		return indexed, err
	}
	return indexed, nil
}

func stampSession(entries []knowledge.Entry, sessionID string) []knowledge.Entry {
	for i := range entries {
		if entries[i].SessionID == "" {
			entries[i].SessionID = sessionID
		}
	}
	return entries
}

// writeMissing appends only the entries in fresh that MergeEntries
// would not already consider duplicates of existing.
func writeMissing(path string, existing, fresh []knowledge.Entry) error {
	merged := knowledge.MergeEntries(existing, fresh)
	existingSet := map[string]bool{}
	for _, e := range existing {
		existingSet[entryKey(e)] = true
	}
	for _, e := range merged {
		if existingSet[entryKey(e)] {
			continue
		}
		if err := knowledge.Append(path, e); err != nil {
			return err
		}
	}
	return nil
}

func entryKey(e knowledge.Entry) string {
	return strings.ToLower(e.Title) + "\x00" + strings.ToLower(e.Description)
}

func runKnowledgeInject(cmd *cobra.Command, args []string) error {
	root, cfg, a, err := repoContext()
	if err != nil {
		return err
	}
	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()

	files, _ := a.DiffNameOnly(ctx)
	g := comod.Load(root)

	printBlock := func(heading string, entries []knowledge.Entry) {
		if len(entries) == 0 {
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", heading)
		for _, e := range entries {
			line := "- " + e.Title
			if e.Rule != "" {
				line += " [rule: " + e.Rule + "]"
			}
			if len(e.Files) > 0 {
				line += " (" + strings.Join(e.Files, ", ") + ")"
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	mistakes := comod.Rank(ctx, a, g, knowledge.Mistakes(root), files, time.Now(), cfg.Score, cfg.Relevance.TopK)
	printBlock("Mistakes to avoid", mistakes)
	decisions := comod.Rank(ctx, a, g, knowledge.Decisions(root), files, time.Now(), cfg.Score, cfg.Relevance.TopK)
	printBlock("Relevant decisions", decisions)

	if neighbours := comod.TopNeighbours(g, files, cfg.Relevance.TopK); len(neighbours) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Review candidates:")
		for _, n := range neighbours {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+n)
		}
	}
	return nil
}

func runKnowledgeShow(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}
	for _, label := range []struct{ name, path string }{
		{"Knowledge", paths.KnowledgeFile(root)},
		{"Mistakes", paths.MistakesFile(root)},
		{"Decisions", paths.DecisionsFile(root)},
	} {
		data, err := os.ReadFile(label.path)
		if err != nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "=== %s ===\n%s\n", label.name, string(data))
	}
	return nil
}

func runKnowledgeDiff(cmd *cobra.Command, args []string) error {
	root, cfg, a, err := repoContext()
	if err != nil {
		return err
	}
	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()

	for _, f := range []struct{ name, path, rel string }{
		{"knowledge.md", paths.KnowledgeFile(root), "knowledge.md"},
		{"mistakes.md", paths.MistakesFile(root), "mistakes.md"},
		{"decisions.md", paths.DecisionsFile(root), "decisions.md"},
	} {
		local, _ := os.ReadFile(f.path)
		remote, ok := a.ReadBlob(ctx, cfg.Git.OrphanBranch, f.rel)
		if !ok {
			remote = ""
		}
		if string(local) == remote {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "--- %s (local)\n+++ %s (%s)\n", f.name, f.name, cfg.Git.OrphanBranch)
		fmt.Fprintln(cmd.OutOrStdout(), highlightDiff(unifiedLines(string(local), remote)))
	}
	return nil
}

// unifiedLines produces a minimal line-oriented diff body (no hunk
// headers) sufficient for the chroma "diff" lexer to colorize.
func unifiedLines(local, remote string) string {
	var sb strings.Builder
	localLines := strings.Split(local, "\n")
	remoteLines := strings.Split(remote, "\n")
	remoteSet := toLineSet(remoteLines)
	localSet := toLineSet(localLines)
	for _, l := range localLines {
		if !remoteSet[l] {
			sb.WriteString("-" + l + "\n")
		}
	}
	for _, l := range remoteLines {
		if !localSet[l] {
			sb.WriteString("+" + l + "\n")
		}
	}
	return sb.String()
}

func toLineSet(lines []string) map[string]bool {
	s := make(map[string]bool, len(lines))
	for _, l := range lines {
		s[l] = true
	}
	return s
}

// highlightDiff renders diff text with chroma's diff lexer, falling
// back to plain text on any formatter failure.
func highlightDiff(diff string) string {
	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, diff)
	if err != nil {
		return diff
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return diff
	}
	return buf.String()
}
