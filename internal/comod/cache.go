package comod

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/notkurt/ghost/internal/paths"
)

// cacheFile is the on-disk shape: the completed-session count the
// graph was built from, used as the sole invalidation key. Crude but
// adequate, since the graph itself is only advisory.
type cacheFile struct {
	SessionCount int   `json:"sessionCount"`
	Graph        Graph `json:"graph"`
}

// Load returns the cached graph for repo, rebuilding it from
// completed/ if the cache is missing, corrupt, or stale relative to
// the current completed-session count.
func Load(repo string) Graph {
	completedDir := paths.CompletedDir(repo)
	cachePath := paths.ComodCacheFile(repo)

	currentCount := countMD(completedDir)

	if data, err := os.ReadFile(cachePath); err == nil {
		var cf cacheFile
		if json.Unmarshal(data, &cf) == nil && cf.SessionCount == currentCount {
			return cf.Graph
		}
	}

	g, count := Build(completedDir)
	_ = save(cachePath, cacheFile{SessionCount: count, Graph: g})
	return g
}

func save(path string, cf cacheFile) error {
	data, err := json.Marshal(cf)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func countMD(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".md" {
			n++
		}
	}
	return n
}
