// Package cli wires every ghost subcommand onto one *cobra.Command
// tree, the way edi/internal/cli/root.go's Execute adds each command
// to rootCmd. Hook subcommands never return an error to Cobra — each
// one catches internally and always exits 0, per the hook failure
// contract.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "ghost",
	Short:         "Durable local archive and knowledge index for agent coding sessions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns its exit code: 0 for
// success, 1 for user-command misuse.
func Execute() int {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ghost:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(
		enableCmd,
		disableCmd,
		resetCmd,
		statusCmd,
		sessionStartCmd,
		sessionEndCmd,
		promptCmd,
		stopCmd,
		postWriteCmd,
		postTaskCmd,
		checkpointCmd,
		finalizeCmd,
		searchCmd,
		logCmd,
		showCmd,
		tagCmd,
		knowledgeCmd,
		mistakeCmd,
		decisionsCmd,
		resumeCmd,
		briefCmd,
		heatmapCmd,
		statsCmd,
		reindexCmd,
		validateCmd,
		updateCmd,
		versionCmd,
	)
}
