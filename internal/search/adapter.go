// Package search wraps the external semantic-search engine: a separate
// executable with a subcommand CLI, resolved on PATH and invoked by
// subprocess, never linked in-process.
package search

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Adapter calls the configured search binary for one project.
type Adapter struct {
	Bin        string
	Collection string
}

// New returns an Adapter for the given binary name and collection,
// e.g. collection "ghost-myproject".
func New(bin, collection string) *Adapter {
	return &Adapter{Bin: bin, Collection: collection}
}

// Available reports whether the search binary can be resolved on PATH.
func (a *Adapter) Available() bool {
	_, err := exec.LookPath(a.Bin)
	return err == nil
}

func (a *Adapter) run(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, a.Bin, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", a.Bin, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Index instructs the engine to (re)index dir under a.Collection.
func (a *Adapter) Index(ctx context.Context, dir string) error {
	_, err := a.run(ctx, "", "index", "--collection", a.Collection, dir)
	return err
}

// Query runs a semantic search within a.Collection, optionally scoped
// to a tag, returning the engine's raw result text.
func (a *Adapter) Query(ctx context.Context, query, tag string) (string, error) {
	args := []string{"search", "--collection", a.Collection, query}
	if tag != "" {
		args = append(args, "--tag", tag)
	}
	return a.run(ctx, "", args...)
}

// Status returns the engine's status report for a.Collection.
func (a *Adapter) Status(ctx context.Context) (string, error) {
	return a.run(ctx, "", "status", "--collection", a.Collection)
}

// Reindex is an alias for Index used by the `reindex` command.
func (a *Adapter) Reindex(ctx context.Context, dir string) error {
	return a.Index(ctx, dir)
}

// Delete removes a.Collection entirely, used by `reset`.
func (a *Adapter) Delete(ctx context.Context) error {
	_, err := a.run(ctx, "", "delete", "--collection", a.Collection)
	return err
}
