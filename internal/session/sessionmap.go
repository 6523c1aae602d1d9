package session

import (
	"encoding/json"
	"os"

	"github.com/notkurt/ghost/internal/paths"
)

// loadSessionMap reads the external-agent-id -> internal-id mapping.
// A missing or corrupt file yields an empty map, never an error, since
// callers treat "no mapping" the same as "no active session".
func loadSessionMap(repo string) map[string]string {
	data, err := os.ReadFile(paths.SessionMapFile(repo))
	if err != nil {
		return map[string]string{}
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return map[string]string{}
	}
	return m
}

// saveSessionMap writes the mapping back atomically.
func saveSessionMap(repo string, m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	path := paths.SessionMapFile(repo)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// mapAgentSession records agentID -> internalID.
func mapAgentSession(repo, agentID, internalID string) error {
	if agentID == "" {
		return nil
	}
	m := loadSessionMap(repo)
	m[agentID] = internalID
	return saveSessionMap(repo, m)
}

// resolveInternalID looks up the internal session id for an external
// agent session id. ok is false when there is no live mapping, meaning
// callers should silently no-op.
func resolveInternalID(repo, agentID string) (string, bool) {
	if agentID == "" {
		return "", false
	}
	m := loadSessionMap(repo)
	id, ok := m[agentID]
	return id, ok
}

// unmapAgentSession removes agentID's mapping, if any.
func unmapAgentSession(repo, agentID string) error {
	if agentID == "" {
		return nil
	}
	m := loadSessionMap(repo)
	if _, ok := m[agentID]; !ok {
		return nil
	}
	delete(m, agentID)
	return saveSessionMap(repo, m)
}
