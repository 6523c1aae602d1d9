package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/hookwire"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/sync"
	"github.com/spf13/cobra"
)

const postCommitScript = `#!/bin/sh
# installed by ghost enable — attaches the last completed session as a
# note on the new commit without blocking the commit itself.
ghost checkpoint </dev/null >/dev/null 2>&1 &
`

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Install ghost's hooks and archive directory in the current repository",
	RunE:  runEnable,
}

func init() {
	enableCmd.Flags().BoolP("force", "f", false, "auto-install without prompting")
	enableCmd.Flags().Bool("genesis", false, "build an initial knowledge base from existing completed sessions")
}

func runEnable(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	genesis, _ := cmd.Flags().GetBool("genesis")
	_ = force // auto-install has no interactive prompt to skip in this non-interactive CLI

	root, cfg, a, err := repoContext()
	if err != nil {
		return err
	}

	if err := paths.EnsureDirs(root); err != nil {
		return fmt.Errorf("creating archive directories: %w", err)
	}

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := config.GlobalConfigPath(home)
		if !exists(globalPath) {
			if err := os.MkdirAll(config.GlobalDir(home), 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", config.GlobalDir(home), err)
			}
			if err := config.WriteDefaultGlobal(globalPath); err != nil {
				return fmt.Errorf("writing global config: %w", err)
			}
		}
	}
	if projectPath := paths.ConfigFile(root); !exists(projectPath) {
		if err := config.WriteDefaultProject(projectPath); err != nil {
			return fmt.Errorf("writing project config: %w", err)
		}
	}

	binPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating ghost binary: %w", err)
	}
	settingsPath := filepath.Join(root, ".claude", "settings.json")
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return fmt.Errorf("creating .claude directory: %w", err)
	}
	settings, err := hookwire.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", settingsPath, err)
	}
	settings.Enable(binPath)
	if err := settings.Save(settingsPath); err != nil {
		return fmt.Errorf("writing %s: %w", settingsPath, err)
	}

	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()
	a.SetConfig(ctx, "notes.displayRef", cfg.Git.NotesRef)

	if gitDir, ok := a.RepoRoot(ctx); ok {
		hookPath := filepath.Join(gitDir, ".git", "hooks", "post-commit")
		if err := os.WriteFile(hookPath, []byte(postCommitScript), 0o755); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not install post-commit hook: %v\n", err)
		}
	}

	sync.Init(ctx, root, a, cfg)

	if genesis {
		if err := buildKnowledgeBase(root); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: genesis knowledge build failed: %v\n", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ghost enabled.")
	return nil
}
