package session

import (
	"os"
	"strings"

	"github.com/notkurt/ghost/internal/paths"
)

// writeCurrentID records id as the most-recently-started session. It is
// a fallback resolver only: legacy callers that don't carry an external
// agent session id (checkpoint, single-session commands) use it; hooks
// that do carry one always resolve through the session map.
func writeCurrentID(repo, id string) error {
	return os.WriteFile(paths.CurrentIDFile(repo), []byte(id), 0o644)
}

// readCurrentID returns the marker's contents, or ok=false if absent.
func readCurrentID(repo string) (string, bool) {
	data, err := os.ReadFile(paths.CurrentIDFile(repo))
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", false
	}
	return id, true
}

// clearCurrentIDIfMatches removes the marker only if it still points at
// id, so a finalize of an older session can't clobber a newer one's
// marker under racing concurrent sessions.
func clearCurrentIDIfMatches(repo, id string) error {
	current, ok := readCurrentID(repo)
	if !ok || current != id {
		return nil
	}
	err := os.Remove(paths.CurrentIDFile(repo))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
