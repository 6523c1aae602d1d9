package config

import "os"

// DefaultConfig returns the configuration used when no global or project
// config.yaml is present, or when a present file omits a field.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Git: GitConfig{
			NotesRef:      "refs/notes/ai-sessions",
			OrphanBranch:  "ghost/knowledge",
			DefaultRemote: "origin",
		},
		Score: ScoreConfig{
			FileMatch:         10,
			NeighbourMatch:    5,
			AreaMatch:         5,
			RecencyMax:        3,
			RecencyWindowDays: 30,
			RuleBonus:         20,
			LegacyBaseline:    1,
			StalenessCommits:  10,
			StalenessPenalty:  5,
		},
		Latency: LatencyConfig{
			HookBudgetMS:   100,
			ScmTimeoutSecs: 3,
		},
		Relevance: RelevanceConfig{
			TopK:            5,
			ProbeMultiplier: 2,
			ContinuityHours: 24,
		},
		Sync: SyncConfig{
			PullIntervalMinutes: 5,
		},
		External: ExternalConfig{
			SummarizerBin:       "ghost-summarize",
			SearchBin:           "ghost-search",
			SearchCollectionFmt: "ghost-%s",
		},
	}
}

// WriteDefaultGlobal writes the default global configuration file.
func WriteDefaultGlobal(path string) error {
	content := `# ghost global configuration
version: "1"

git:
  notes_ref: refs/notes/ai-sessions
  orphan_branch: ghost/knowledge
  default_remote: origin

score:
  file_match: 10
  neighbour_match: 5
  area_match: 5
  recency_max: 3
  recency_window_days: 30
  rule_bonus: 20
  legacy_baseline: 1
  staleness_commits: 10
  staleness_penalty: 5

latency:
  hook_budget_ms: 100
  scm_timeout_secs: 3

relevance:
  top_k: 5
  probe_multiplier: 2
  continuity_hours: 24

sync:
  pull_interval_minutes: 5

external:
  summarizer_bin: ghost-summarize
  search_bin: ghost-search
  search_collection_fmt: "ghost-%s"
`
	return os.WriteFile(path, []byte(content), 0o644)
}

// WriteDefaultProject writes the default project-scoped config override.
func WriteDefaultProject(path string) error {
	content := `# ghost project configuration
version: "1"

project:
  name: "" # auto-detected from directory name if empty

# Override global settings as needed, e.g.:
# relevance:
#   top_k: 8
`
	return os.WriteFile(path, []byte(content), 0o644)
}
