package cli

import (
	"os"

	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/finalizer"
	"github.com/notkurt/ghost/internal/hook"
	"github.com/spf13/cobra"
)

// runHook loads config for the current directory (never failing the
// hook on a config error — it just falls back to defaults) and
// dispatches cmd. Hook commands never return an error: RunE always
// returns nil so Cobra exits 0 regardless of what happened inside.
func runHook(name string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cwd, _ := os.Getwd()
		cfg, err := config.Load(cwd)
		if err != nil {
			cfg = config.DefaultConfig()
		}
		hook.Dispatch(name, os.Stdin, os.Stdout, cfg)
		return nil
	}
}

var sessionStartCmd = &cobra.Command{Use: "session-start", RunE: runHook("session-start")}
var sessionEndCmd = &cobra.Command{Use: "session-end", RunE: runHook("session-end")}
var promptCmd = &cobra.Command{Use: "prompt", RunE: runHook("prompt")}
var stopCmd = &cobra.Command{Use: "stop", RunE: runHook("stop")}
var postWriteCmd = &cobra.Command{Use: "post-write", RunE: runHook("post-write")}
var postTaskCmd = &cobra.Command{Use: "post-task", RunE: runHook("post-task")}
var checkpointCmd = &cobra.Command{Use: "checkpoint", RunE: runHook("checkpoint")}

// finalizeCmd is the hidden re-entry point SessionEnd forks into
//: "ghost __finalize <repo> <transcript> <id>", spawned
// detached with its standard streams closed and never awaited.
var finalizeCmd = &cobra.Command{
	Use:    "__finalize <repo> <transcript> <id>",
	Hidden: true,
	Args:   cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, transcript, id := args[0], args[1], args[2]
		cfg, err := config.Load(repo)
		if err != nil {
			cfg = config.DefaultConfig()
		}
		finalizer.Run(repo, transcript, id, cfg)
		return nil
	},
}
