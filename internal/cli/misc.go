package cli

import (
	"fmt"

	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/spf13/cobra"
)

var mistakeCmd = &cobra.Command{
	Use:   "mistake <text>",
	Short: "Record a mistake directly, outside the automated summary pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _, _, err := repoContext()
		if err != nil {
			return err
		}
		if err := knowledge.AppendLegacy(paths.MistakesFile(root), args[0]); err != nil {
			return fmt.Errorf("recording mistake: %w", err)
		}
		return nil
	},
}

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "List recorded decisions",
	RunE:  runDecisions,
}

func init() {
	decisionsCmd.Flags().String("tag", "", "restrict to decisions from sessions carrying this tag")
}

func runDecisions(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}
	tag, _ := cmd.Flags().GetString("tag")

	entries := knowledge.Decisions(root)
	if tag != "" {
		idx := knowledge.LoadTagIndex(root)
		allowed := map[string]bool{}
		for _, id := range idx.Sessions(tag) {
			allowed[id] = true
		}
		var filtered []knowledge.Entry
		for _, e := range entries {
			if allowed[e.SessionID] {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	for _, e := range entries {
		line := "- " + e.Title
		if e.Date != "" {
			line += " (" + e.Date + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		if e.Description != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+e.Description)
		}
	}
	return nil
}
