package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/search"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the session archive, notes ref, and external search collection",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	root, cfg, a, err := repoContext()
	if err != nil {
		return err
	}

	if err := os.RemoveAll(paths.Root(root)); err != nil {
		return fmt.Errorf("removing %s: %w", paths.Root(root), err)
	}

	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()
	a.DeleteNotesRef(ctx, cfg.Git.NotesRef)

	collection := fmt.Sprintf(cfg.External.SearchCollectionFmt, filepath.Base(root))
	sa := search.New(cfg.External.SearchBin, collection)
	if sa.Available() {
		_ = sa.Delete(ctx)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ghost archive reset.")
	return nil
}
