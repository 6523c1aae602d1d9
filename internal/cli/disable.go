package cli

import (
	"fmt"
	"path/filepath"

	"github.com/notkurt/ghost/internal/hookwire"
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove ghost's hook entries, leaving session files intact",
	RunE:  runDisable,
}

func runDisable(cmd *cobra.Command, args []string) error {
	root, _, _, err := repoContext()
	if err != nil {
		return err
	}

	settingsPath := filepath.Join(root, ".claude", "settings.json")
	if !exists(settingsPath) {
		fmt.Fprintln(cmd.OutOrStdout(), "no hook settings found; nothing to disable.")
		return nil
	}
	settings, err := hookwire.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", settingsPath, err)
	}
	settings.Disable()
	if err := settings.Save(settingsPath); err != nil {
		return fmt.Errorf("writing %s: %w", settingsPath, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ghost hooks disabled; session files preserved.")
	return nil
}
