package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/notkurt/ghost/internal/comod"
	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/session"
	"github.com/spf13/cobra"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Rank file pairs by how often they are modified together",
	RunE:  runHeatmap,
}

func init() {
	heatmapCmd.Flags().Int("top", 20, "maximum number of pairs to print")
}

type pairWeight struct {
	A, B   string
	Weight int
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}
	top, _ := cmd.Flags().GetInt("top")

	g := comod.Load(root)
	seen := map[string]bool{}
	var pairs []pairWeight
	for a, adj := range g {
		for b, w := range adj {
			key := a + "\x00" + b
			revKey := b + "\x00" + a
			if seen[key] || seen[revKey] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, pairWeight{A: a, B: b, Weight: w})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Weight != pairs[j].Weight {
			return pairs[i].Weight > pairs[j].Weight
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if len(pairs) > top {
		pairs = pairs[:top]
	}

	for _, p := range pairs {
		weight := padLeft(fmt.Sprintf("%d", p.Weight), 4)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s <-> %s\n", weight, p.A, p.B)
	}
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize archive volume: sessions, knowledge, mistakes, decisions",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("tag", "", "restrict to sessions carrying this tag")
	statsCmd.Flags().String("since", "", "restrict to sessions ended on or after this date (YYYY-MM-DD)")
	statsCmd.Flags().Bool("json", false, "emit machine-readable JSON")
}

type statsResult struct {
	Sessions  int `json:"sessions"`
	Knowledge int `json:"knowledge"`
	Mistakes  int `json:"mistakes"`
	Decisions int `json:"decisions"`
}

func runStats(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}
	tag, _ := cmd.Flags().GetString("tag")
	since, _ := cmd.Flags().GetString("since")
	asJSON, _ := cmd.Flags().GetBool("json")

	var sinceTime time.Time
	if since != "" {
		sinceTime, _ = time.Parse("2006-01-02", since)
	}

	var allowed map[string]bool
	if tag != "" {
		idx := knowledge.LoadTagIndex(root)
		allowed = map[string]bool{}
		for _, id := range idx.Sessions(tag) {
			allowed[id] = true
		}
	}

	entries, _ := os.ReadDir(paths.CompletedDir(root))
	sessionCount := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id := trimMDExt(e.Name())
		if allowed != nil && !allowed[id] {
			continue
		}
		if !sinceTime.IsZero() {
			data, err := os.ReadFile(paths.CompletedDir(root) + "/" + e.Name())
			if err != nil {
				continue
			}
			fm, _ := session.ParseDocument(string(data))
			if fm.Ended == nil || fm.Ended.Before(sinceTime) {
				continue
			}
		}
		sessionCount++
	}

	res := statsResult{
		Sessions:  sessionCount,
		Knowledge: len(knowledge.ReadAll(paths.KnowledgeFile(root))),
		Mistakes:  len(knowledge.Mistakes(root)),
		Decisions: len(knowledge.Decisions(root)),
	}

	if asJSON {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", padRight("sessions:", 11), res.Sessions)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", padRight("knowledge:", 11), res.Knowledge)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", padRight("mistakes:", 11), res.Mistakes)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", padRight("decisions:", 11), res.Decisions)
	return nil
}

func trimMDExt(name string) string {
	if len(name) > 3 && name[len(name)-3:] == ".md" {
		return name[:len(name)-3]
	}
	return name
}
