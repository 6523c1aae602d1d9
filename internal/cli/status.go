package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/notkurt/ghost/internal/finalizer"
	"github.com/notkurt/ghost/internal/hookwire"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/spf13/cobra"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report archive state, hook wiring, and dependency availability",
	RunE:  runStatus,
}

func check(w *cobra.Command, name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(w.OutOrStdout(), "  %s %s\n", passStyle.Render("✓"), name)
	} else {
		fmt.Fprintf(w.OutOrStdout(), "  %s %s — %s\n", failStyle.Render("✗"), name, detail)
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, cfg, a, err := repoContext()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), headStyle.Render("Archive:"))
	check(cmd, ".ai-sessions/ directory", exists(paths.Root(root)), "run: ghost enable")

	if id, ok := currentSessionID(root); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "  active session: %s\n", id)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "  active session: none")
	}

	completed, _ := os.ReadDir(paths.CompletedDir(root))
	fmt.Fprintf(cmd.OutOrStdout(), "  completed sessions: %d\n", len(completed))

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), headStyle.Render("Background Finalizer:"))
	if pid, ok := finalizer.PID(root); ok {
		check(cmd, fmt.Sprintf("pid %d", pid), finalizer.IsAlive(pid), "stale pid file; safe to ignore")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "  idle (no pid file)")
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), headStyle.Render("Hook wiring:"))
	settingsPath := filepath.Join(root, ".claude", "settings.json")
	if exists(settingsPath) {
		settings, err := hookwire.Load(settingsPath)
		check(cmd, settingsPath, err == nil, "could not parse settings.json")
		if err == nil {
			for event := range settings.Hooks {
				check(cmd, event, settings.HasAny(event), "missing matcher")
			}
		}
	} else {
		check(cmd, settingsPath, false, "run: ghost enable")
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), headStyle.Render("Dependencies:"))
	_, gitErr := exec.LookPath("git")
	check(cmd, "git", gitErr == nil, "required")
	_, sumErr := exec.LookPath(cfg.External.SummarizerBin)
	check(cmd, cfg.External.SummarizerBin, sumErr == nil, "background enrichment will be skipped")
	_, searchErr := exec.LookPath(cfg.External.SearchBin)
	check(cmd, cfg.External.SearchBin, searchErr == nil, "`search`/`reindex` will no-op")

	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()
	check(cmd, "orphan branch "+cfg.Git.OrphanBranch, a.BranchExists(ctx, cfg.Git.OrphanBranch), "run: ghost enable")

	return nil
}

func currentSessionID(root string) (string, bool) {
	data, err := os.ReadFile(paths.CurrentIDFile(root))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
