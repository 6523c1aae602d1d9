package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/notkurt/ghost/internal/comod"
	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/search"
	"github.com/notkurt/ghost/internal/session"
	"github.com/notkurt/ghost/internal/sync"
	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the co-modification cache and ask the search engine to reindex",
	RunE:  runReindex,
}

func runReindex(cmd *cobra.Command, args []string) error {
	root, cfg, _, err := repoContext()
	if err != nil {
		return err
	}

	if err := os.Remove(paths.ComodCacheFile(root)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing co-modification cache: %w", err)
	}
	g := comod.Load(root)
	fmt.Fprintf(cmd.OutOrStdout(), "co-modification graph: %d files\n", len(g))

	collection := fmt.Sprintf(cfg.External.SearchCollectionFmt, filepath.Base(root))
	sa := search.New(cfg.External.SearchBin, collection)
	if !sa.Available() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s not found on PATH, skipping search reindex\n", cfg.External.SearchBin)
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := sa.Reindex(ctx, paths.Root(root)); err != nil {
		return fmt.Errorf("reindexing search engine: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "search engine reindexed.")
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check archive integrity: parseable transcripts and logs",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolP("fix", "f", false, "rebuild the tag index from session frontmatter while validating")
}

func runValidate(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}
	fix, _ := cmd.Flags().GetBool("fix")

	problems := 0
	for _, dir := range []string{paths.ActiveDir(root), paths.CompletedDir(root)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			p := filepath.Join(dir, e.Name())
			data, err := os.ReadFile(p)
			if err != nil {
				problems++
				fmt.Fprintf(cmd.ErrOrStderr(), "unreadable: %s\n", p)
				continue
			}
			fm, _ := session.ParseDocument(string(data))
			if fm.ID == "" && fix {
				if repaired, changed := session.RepairTagsField(string(data)); changed {
					if err := os.WriteFile(p, []byte(repaired), 0o644); err == nil {
						fm, _ = session.ParseDocument(repaired)
					}
				}
			}
			if fm.ID == "" {
				problems++
				fmt.Fprintf(cmd.ErrOrStderr(), "missing id in frontmatter: %s\n", p)
			}
		}
	}

	for _, p := range []string{paths.KnowledgeFile(root), paths.MistakesFile(root), paths.DecisionsFile(root)} {
		if data, err := os.ReadFile(p); err == nil {
			knowledge.Parse(string(data))
		}
	}

	if fix {
		idx := rebuildTagIndexFromDisk(root)
		if err := idx.Save(root); err != nil {
			return fmt.Errorf("saving rebuilt tag index: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "tag index rebuilt.")
	}

	if problems == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "archive OK.")
		return nil
	}
	return fmt.Errorf("%d problem(s) found", problems)
}

// rebuildTagIndexFromDisk scans every session transcript's frontmatter
// tag list and reconstructs tag -> []session-id from scratch, since
// tags.json is only a cache over that ground truth.
func rebuildTagIndexFromDisk(root string) knowledge.TagIndex {
	var ids []string
	tagsOf := map[string][]string{}

	for _, dir := range []string{paths.CompletedDir(root), paths.ActiveDir(root)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			fm, _ := session.ParseDocument(string(data))
			if fm.ID == "" {
				continue
			}
			ids = append(ids, fm.ID)
			tagsOf[fm.ID] = fm.Tags
		}
	}

	return knowledge.RebuildTagIndex(root, func() []string { return ids }, func(id string) []string { return tagsOf[id] })
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Pull and push the shared knowledge branch",
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	root, cfg, a, err := repoContext()
	if err != nil {
		return err
	}
	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()

	sync.Pull(ctx, root, a, cfg, time.Now())
	sync.Push(ctx, root, a, cfg)
	fmt.Fprintln(cmd.OutOrStdout(), "knowledge branch synced.")
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ghost version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		return nil
	},
}
