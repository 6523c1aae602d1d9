package cli

import (
	"fmt"
	"os"

	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/session"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume [id]",
	Short: "Print a session transcript in full, defaulting to the most recent one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runResume,
}

func runResume(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		var ok bool
		id, ok = mostRecentSessionID(root)
		if !ok {
			return fmt.Errorf("no sessions recorded yet")
		}
	}

	path, ok := session.LocateSessionFile(root, id)
	if !ok {
		return fmt.Errorf("no session found for id %s", id)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

var briefCmd = &cobra.Command{
	Use:   "brief <text>",
	Short: "Append standing project context injected at every session start",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrief,
}

func runBrief(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}
	path := paths.ProfileFile(root)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(args[0] + "\n"); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "profile updated.")
	return nil
}
