package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/scm"
)

// repoContext resolves the current repository root and loads merged
// configuration for it. User-invoked commands surface a diagnostic and
// exit non-zero on failure.
func repoContext() (string, *config.Config, *scm.Adapter, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, nil, fmt.Errorf("getting working directory: %w", err)
	}
	a := scm.New(cwd)
	ctx, cancel := scm.WithTimeout(context.Background(), 3)
	defer cancel()
	root, ok := a.RepoRoot(ctx)
	if !ok {
		return "", nil, nil, fmt.Errorf("not inside a git repository")
	}
	a.Dir = root
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return root, cfg, a, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// padRight and padLeft pad s to width columns using display width rather
// than byte or rune count, so branch names and file paths containing
// wide or combining runes still line up in the tabular renderers.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
