// Package hookwire edits the host agent's JSON settings file to add or
// remove this system's hook matchers,
// following the same encoding/json read-modify-write shape
// edi/internal/launch/mcp.go uses for .mcp.json.
package hookwire

import (
	"encoding/json"
	"os"
	"strings"
)

// BinaryName identifies this system's own hook matchers inside the
// settings file, both to add them on enable and to find-and-remove
// them (and only them) on disable.
const BinaryName = "ghost"

// eventCommands maps each settings.json hook event key to the ghost
// subcommand that handles it.
var eventCommands = map[string]string{
	"SessionStart":     "session-start",
	"SessionEnd":       "session-end",
	"UserPromptSubmit": "prompt",
	"Stop":             "stop",
	"PostToolUse":      "post-write",
}

// Matcher is one entry in a hook event's matcher list.
type Matcher struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// HookCommand is a single hook invocation.
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// Settings is the subset of the host agent's settings.json this system
// reads and writes; unrecognized top-level keys survive round-trips
// because they are merged into raw, not typed.
type Settings struct {
	Hooks map[string][]Matcher `json:"hooks"`
	raw   map[string]json.RawMessage
}

// Load reads settings.json, tolerating a missing or empty file.
func Load(path string) (*Settings, error) {
	s := &Settings{Hooks: map[string][]Matcher{}, raw: map[string]json.RawMessage{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.raw); err != nil {
		return nil, err
	}
	if hooksRaw, ok := s.raw["hooks"]; ok {
		_ = json.Unmarshal(hooksRaw, &s.Hooks)
	}
	return s, nil
}

// Save writes settings back, merging the current Hooks map into raw.
func (s *Settings) Save(path string) error {
	hooksData, err := json.Marshal(s.Hooks)
	if err != nil {
		return err
	}
	s.raw["hooks"] = hooksData

	data, err := json.MarshalIndent(s.raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Enable adds this system's matcher to every recognized event,
// preserving any pre-existing non-system matchers.
func (s *Settings) Enable(ghostBinPath string) {
	for event, subcmd := range eventCommands {
		entry := Matcher{Hooks: []HookCommand{{Type: "command", Command: ghostBinPath + " " + subcmd}}}
		if !s.hasGhostMatcher(s.Hooks[event]) {
			s.Hooks[event] = append(s.Hooks[event], entry)
		}
	}
}

// Disable removes only this system's matchers, leaving any others.
func (s *Settings) Disable() {
	for event, matchers := range s.Hooks {
		kept := matchers[:0]
		for _, m := range matchers {
			if !s.isGhostMatcher(m) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			delete(s.Hooks, event)
		} else {
			s.Hooks[event] = kept
		}
	}
}

// HasAny reports whether event has at least one matcher configured.
func (s *Settings) HasAny(event string) bool {
	return len(s.Hooks[event]) > 0
}

func (s *Settings) hasGhostMatcher(matchers []Matcher) bool {
	for _, m := range matchers {
		if s.isGhostMatcher(m) {
			return true
		}
	}
	return false
}

func (s *Settings) isGhostMatcher(m Matcher) bool {
	for _, h := range m.Hooks {
		if len(h.Command) >= len(BinaryName) && h.Command[:len(BinaryName)] == BinaryName {
			return true
		}
		if hasGhostPathPrefix(h.Command) {
			return true
		}
	}
	return false
}

// hasGhostPathPrefix matches an invocation whose executable, bare
// ("ghost session-start") or as a path ("/usr/local/bin/ghost
// session-start"), has a final path segment of exactly BinaryName.
func hasGhostPathPrefix(command string) bool {
	exe := command
	if i := strings.IndexByte(exe, ' '); i >= 0 {
		exe = exe[:i]
	}
	if i := strings.LastIndexByte(exe, '/'); i >= 0 {
		exe = exe[i+1:]
	}
	return exe == BinaryName
}
