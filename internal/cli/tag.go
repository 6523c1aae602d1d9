package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <id> <tags...>",
	Short: "Apply tags to a session",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTag,
}

func init() {
	tagCmd.Flags().Bool("last", false, "apply to the most recently started or completed session")
}

func runTag(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}

	last, _ := cmd.Flags().GetBool("last")
	var id string
	var tags []string
	if last {
		id, _ = mostRecentSessionID(root)
		tags = args
	} else {
		if len(args) < 2 {
			return fmt.Errorf("usage: ghost tag <id> <tags...>")
		}
		id, tags = args[0], args[1:]
	}
	if id == "" {
		return fmt.Errorf("no session to tag")
	}

	merged, err := knowledge.AddTags(root, id, tags)
	if err != nil {
		return fmt.Errorf("tagging %s: %w", id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s tags: %s\n", id, strings.Join(merged, ", "))
	return nil
}

// mostRecentSessionID prefers the current-id marker (the most recently
// started session), falling back to the lexicographically greatest
// completed file.
func mostRecentSessionID(root string) (string, bool) {
	if id, ok := currentSessionID(root); ok {
		return id, true
	}
	entries, err := os.ReadDir(paths.CompletedDir(root))
	if err != nil || len(entries) == 0 {
		return "", false
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return strings.TrimSuffix(names[len(names)-1], ".md"), true
}
