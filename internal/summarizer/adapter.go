// Package summarizer wraps the external summarization engine: an
// executable that reads markdown on standard input and writes a
// structured markdown summary to standard output.
package summarizer

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// ReentrancyGuardKey is the environment variable name checked by hook
// dispatch to detect a re-entrant invocation. ReentrancyGuardEnv is set
// on the summarizer's environment so that, if it in turn spawns the
// hosting agent, that child process's hooks see the guard and no-op
// instead of re-entering the capture pipeline.
const ReentrancyGuardKey = "GHOST_INTERNAL_INVOCATION"
const ReentrancyGuardEnv = ReentrancyGuardKey + "=1"

// Summarize pipes transcript into the configured binary and returns its
// stdout. ok is false if the binary is missing or exits non-zero, in
// which case the caller skips the rest of extraction.
func Summarize(ctx context.Context, bin, prompt, transcript string) (string, bool) {
	if _, err := exec.LookPath(bin); err != nil {
		return "", false
	}

	cmd := exec.CommandContext(ctx, bin, prompt)
	cmd.Env = append(cmd.Environ(), ReentrancyGuardEnv)
	cmd.Stdin = strings.NewReader(transcript)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", false
	}
	return stdout.String(), true
}
