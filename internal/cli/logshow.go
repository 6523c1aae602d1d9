package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/session"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List up to 20 most recent completed sessions",
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(paths.CompletedDir(root))
	if err != nil {
		return nil // empty archive: print nothing, still exit 0
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if len(names) > 20 {
		names = names[:20]
	}

	for _, name := range names {
		data, err := os.ReadFile(paths.CompletedDir(root) + "/" + name)
		if err != nil {
			continue
		}
		fm, _ := session.ParseDocument(string(data))
		ended := "in progress"
		if fm.Ended != nil {
			ended = fm.Ended.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", fm.ID, padRight(fm.Branch, 20), ended)
	}
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show <commit>",
	Short: "Print the note attached to a commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	_, cfg, a, err := repoContext()
	if err != nil {
		return err
	}
	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()
	note, ok := a.ShowNote(ctx, cfg.Git.NotesRef, args[0])
	if !ok {
		return fmt.Errorf("no ghost note attached to %s", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), note)
	return nil
}
