package hook

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/scm"
	"github.com/notkurt/ghost/internal/session"
	"github.com/notkurt/ghost/internal/summarizer"
)

// ReentrantGuardVar is the environment variable an internal
// sub-invocation carries so that, if the summarizer spawns the hosting
// agent and that in turn fires hooks, every handler here is a silent
// no-op.
const ReentrantGuardVar = summarizer.ReentrancyGuardKey

func isReentrant() bool {
	return os.Getenv(ReentrantGuardVar) == "1"
}

// Dispatch reads one JSON envelope from r and routes it to the handler
// named by cmd. Every outcome — success, parse failure, missing
// session, SCM error — exits the hook cleanly: nothing but an
// intentional SessionStart context block is ever written to w.
func Dispatch(cmd string, r io.Reader, w io.Writer, cfg *config.Config) {
	if isReentrant() {
		return
	}

	var env Envelope
	_ = json.NewDecoder(r).Decode(&env) // malformed/empty stdin degrades to a zero Envelope

	repo := resolveRepoRoot(env.Cwd)
	if repo == "" {
		return
	}

	switch cmd {
	case "session-start":
		handleSessionStart(repo, env, cfg, w)
	case "session-end":
		handleSessionEnd(repo, env, cfg)
	case "prompt":
		_ = session.AppendPrompt(repo, env.SessionID, env.Prompt)
	case "stop":
		handleStop(repo, env, cfg)
	case "post-write":
		if env.ToolInput.FilePath != "" {
			_ = session.AppendFileModification(repo, env.SessionID, env.ToolInput.FilePath)
		}
	case "post-task":
		if env.ToolInput.Description != "" {
			_ = session.AppendTaskNote(repo, env.SessionID, env.ToolInput.Description)
		}
	case "checkpoint":
		handleCheckpoint(repo, cfg)
	}
}

func resolveRepoRoot(cwd string) string {
	if cwd == "" {
		cwd = "."
	}
	a := scm.New(cwd)
	ctx, cancel := scm.WithTimeout(context.Background(), 3)
	defer cancel()
	root, ok := a.RepoRoot(ctx)
	if !ok {
		return ""
	}
	return root
}

func handleStop(repo string, env Envelope, cfg *config.Config) {
	a := scm.New(repo)
	ctx, cancel := scm.WithTimeout(context.Background(), cfg.Latency.ScmTimeoutSecs)
	defer cancel()
	diffStat, _ := a.DiffStat(ctx)
	_ = session.AppendTurnDelimiter(repo, env.SessionID, diffStat)
}

func handleCheckpoint(repo string, cfg *config.Config) {
	a := scm.New(repo)
	session.Checkpoint(repo, a, cfg.Git.NotesRef, cfg.Latency.ScmTimeoutSecs)
}

func handleSessionEnd(repo string, env Envelope, cfg *config.Config) {
	result, ok, err := session.Finalize(repo, env.SessionID, time.Now())
	if err != nil || !ok {
		return
	}
	spawnFinalizer(repo, result.Path, result.InternalID)
}

// spawnFinalizer forks the Background Finalizer as a fully detached
// process: standard streams closed, re-entrancy guard set so it never
// re-enters the hook path itself, never awaited.
func spawnFinalizer(repo, transcriptPath, internalID string) {
	self, err := os.Executable()
	if err != nil {
		return
	}
	cmd := exec.Command(self, "__finalize", repo, transcriptPath, internalID)
	cmd.Env = append(os.Environ(), summarizer.ReentrancyGuardEnv)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	_ = cmd.Start()
}
