package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/notkurt/ghost/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Delegate a query to the external semantic-search engine",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().String("tag", "", "restrict results to sessions carrying this tag")
}

func runSearch(cmd *cobra.Command, args []string) error {
	root, cfg, _, err := repoContext()
	if err != nil {
		return err
	}
	tag, _ := cmd.Flags().GetString("tag")

	collection := fmt.Sprintf(cfg.External.SearchCollectionFmt, filepath.Base(root))
	sa := search.New(cfg.External.SearchBin, collection)
	if !sa.Available() {
		return fmt.Errorf("%s not found on PATH", cfg.External.SearchBin)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, err := sa.Query(ctx, args[0], tag)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
