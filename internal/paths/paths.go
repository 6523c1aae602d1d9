// Package paths is the canonical layout for a project's session archive.
// Every path helper here is pure and takes the repository root explicitly —
// there is no process-global state to resolve it from.
package paths

import (
	"os"
	"path/filepath"
)

const (
	// RootDirName is the archive directory created under the repo root.
	RootDirName = ".ai-sessions"

	activeDirName    = "active"
	completedDirName = "completed"

	knowledgeFileName = "knowledge.md"
	mistakesFileName  = "mistakes.md"
	decisionsFileName = "decisions.md"
	tagsFileName      = "tags.json"
	profileFileName   = "profile.md"
	configFileName    = "config.yaml"

	sessionMapFileName = "session-map.json"
	currentIDFileName  = "current-id"

	comodCacheFileName   = ".comod-cache.json"
	backgroundPIDName    = ".background.pid"
	backgroundLogName    = ".background.log"
	lastSyncFileName     = ".last-sync"
)

// Root returns <repo>/.ai-sessions.
func Root(repo string) string { return filepath.Join(repo, RootDirName) }

// ActiveDir returns the directory holding in-progress session files.
func ActiveDir(repo string) string { return filepath.Join(Root(repo), activeDirName) }

// CompletedDir returns the directory holding finalized session files.
func CompletedDir(repo string) string { return filepath.Join(Root(repo), completedDirName) }

// ActiveSessionPath returns the path of an in-progress session transcript.
func ActiveSessionPath(repo, id string) string {
	return filepath.Join(ActiveDir(repo), id+".md")
}

// CompletedSessionPath returns the path of a finalized session transcript.
func CompletedSessionPath(repo, id string) string {
	return filepath.Join(CompletedDir(repo), id+".md")
}

// KnowledgeFile, MistakesFile, DecisionsFile return the three append-only logs.
func KnowledgeFile(repo string) string { return filepath.Join(Root(repo), knowledgeFileName) }
func MistakesFile(repo string) string  { return filepath.Join(Root(repo), mistakesFileName) }
func DecisionsFile(repo string) string { return filepath.Join(Root(repo), decisionsFileName) }

// TagsIndexFile returns the tag -> []session-id cache.
func TagsIndexFile(repo string) string { return filepath.Join(Root(repo), tagsFileName) }

// ProfileFile returns the optional project-context paragraph.
func ProfileFile(repo string) string { return filepath.Join(Root(repo), profileFileName) }

// ConfigFile returns the project-scoped config override.
func ConfigFile(repo string) string { return filepath.Join(Root(repo), configFileName) }

// SessionMapFile returns the external-agent-id -> internal-id mapping.
func SessionMapFile(repo string) string { return filepath.Join(ActiveDir(repo), sessionMapFileName) }

// CurrentIDFile returns the most-recently-started-session marker.
func CurrentIDFile(repo string) string { return filepath.Join(ActiveDir(repo), currentIDFileName) }

// ComodCacheFile returns the co-modification graph cache.
func ComodCacheFile(repo string) string { return filepath.Join(Root(repo), comodCacheFileName) }

// BackgroundPIDFile returns the Background Finalizer's liveness marker.
func BackgroundPIDFile(repo string) string { return filepath.Join(Root(repo), backgroundPIDName) }

// BackgroundLogFile returns the Background Finalizer's log.
func BackgroundLogFile(repo string) string { return filepath.Join(Root(repo), backgroundLogName) }

// LastSyncFile returns the timestamp of the last remote fetch for knowledge sync.
func LastSyncFile(repo string) string { return filepath.Join(Root(repo), lastSyncFileName) }

// EnsureDirs creates the active/ and completed/ directories if absent.
func EnsureDirs(repo string) error {
	for _, dir := range []string{ActiveDir(repo), CompletedDir(repo)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
