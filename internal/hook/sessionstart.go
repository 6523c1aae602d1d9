package hook

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/notkurt/ghost/internal/comod"
	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/session"
)

const standingBriefing = "Remember to persist decisions and mistakes as you go — future sessions only see what you write down."

// handleSessionStart creates the new session record and writes the
// injected context block to w. Every sub-section is assembled
// independently and omitted silently on error.
func handleSessionStart(repo string, env Envelope, cfg *config.Config, w io.Writer) {
	a := scm.New(repo)
	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()

	branch, _ := a.CurrentBranch(ctx)
	baseCommit, _ := a.HeadCommit(ctx)

	if _, err := session.Create(repo, env.SessionID, branch, baseCommit, time.Now()); err != nil {
		return
	}

	var sb strings.Builder

	if p := readProfile(repo); p != "" {
		sb.WriteString(p)
		sb.WriteString("\n\n")
	}

	if c := continuityParagraph(repo, branch, cfg); c != "" {
		sb.WriteString(c)
		sb.WriteString("\n\n")
	}

	files, _ := a.DiffNameOnly(ctx)
	g := comod.Load(repo)

	mistakes := comod.Rank(ctx, a, g, knowledge.Mistakes(repo), files, time.Now(), cfg.Score, cfg.Relevance.TopK)
	if block := formatKnowledgeBlock("Mistakes to avoid", mistakes); block != "" {
		sb.WriteString(block)
		sb.WriteString("\n")
	}

	decisions := comod.Rank(ctx, a, g, knowledge.Decisions(repo), files, time.Now(), cfg.Score, cfg.Relevance.TopK)
	if block := formatKnowledgeBlock("Relevant decisions", decisions); block != "" {
		sb.WriteString(block)
		sb.WriteString("\n")
	}

	if len(files) > 0 {
		neighbours := comod.TopNeighbours(g, files, cfg.Relevance.TopK)
		if len(neighbours) > 0 {
			sb.WriteString("Review candidates (frequently co-modified with your current changes):\n")
			for _, n := range neighbours {
				sb.WriteString("- " + n + "\n")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(standingBriefing)
	sb.WriteString("\n")

	fmt.Fprint(w, sb.String())
}

func readProfile(repo string) string {
	data, err := os.ReadFile(paths.ProfileFile(repo))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// formatKnowledgeBlock renders entries under heading, emitting
// rule-bearing entries first under their own warning heading, the rest
// grouped by their first file, groups ordered by their best-ranked entry.
func formatKnowledgeBlock(heading string, entries []knowledge.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var ruled, rest []knowledge.Entry
	for _, e := range entries {
		if e.Rule != "" {
			ruled = append(ruled, e)
		} else {
			rest = append(rest, e)
		}
	}

	var sb strings.Builder
	if len(ruled) > 0 {
		sb.WriteString("⚠ Rules:\n")
		for _, e := range ruled {
			sb.WriteString("- " + e.Rule + " (" + e.Title + ")\n")
		}
	}
	if len(rest) > 0 {
		sb.WriteString(heading + ":\n")
		var order []string
		groups := map[string][]knowledge.Entry{}
		for _, e := range rest {
			key := ""
			if len(e.Files) > 0 {
				key = e.Files[0]
			}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], e)
		}
		for _, key := range order {
			for _, e := range groups[key] {
				line := "- " + e.Title
				if len(e.Files) > 0 {
					line += " [" + strings.Join(e.Files, ", ") + "]"
				}
				sb.WriteString(line + "\n")
			}
		}
	}
	return sb.String()
}

// continuityParagraph summarizes the most recent completed session on
// the same branch that left open items, if it finished within the
// configured continuity window.
func continuityParagraph(repo, branch string, cfg *config.Config) string {
	entries, err := os.ReadDir(paths.CompletedDir(repo))
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	cutoff := time.Now().Add(-time.Duration(cfg.Relevance.ContinuityHours) * time.Hour)
	for _, name := range names {
		data, err := os.ReadFile(paths.CompletedDir(repo) + "/" + name)
		if err != nil {
			continue
		}
		fm, body := session.ParseDocument(string(data))
		if branch != "" && fm.Branch != branch {
			continue
		}
		if fm.Ended == nil || fm.Ended.Before(cutoff) {
			continue
		}
		openItems := extractOpenItems(body)
		if openItems == "" {
			continue
		}
		return fmt.Sprintf("Picking up from %s (ended %s): %s", fm.ID, fm.Ended.Format(time.RFC3339), openItems)
	}
	return ""
}

func extractOpenItems(body string) string {
	idx := strings.Index(body, "## Open Items")
	if idx < 0 {
		return ""
	}
	rest := body[idx+len("## Open Items"):]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
