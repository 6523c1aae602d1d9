package knowledge

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/session"
)

// TagIndex maps tag -> set of session ids. On disk each value is a
// sorted []string; in memory it is a set for O(1) membership.
type TagIndex map[string]map[string]bool

// LoadTagIndex reads tags.json. A missing or corrupt file yields an
// empty index, never an error.
func LoadTagIndex(repo string) TagIndex {
	idx := TagIndex{}
	data, err := os.ReadFile(paths.TagsIndexFile(repo))
	if err != nil {
		return idx
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return idx
	}
	for tag, ids := range raw {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		idx[tag] = set
	}
	return idx
}

// Save writes the index back as tag -> sorted []string.
func (idx TagIndex) Save(repo string) error {
	raw := make(map[string][]string, len(idx))
	for tag, set := range idx {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		raw[tag] = ids
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	path := paths.TagsIndexFile(repo)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Add records sessionID under each of tags. A (tag, session) pair
// already present is a no-op, making the overall operation idempotent.
func (idx TagIndex) Add(sessionID string, tags []string) {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		set, ok := idx[tag]
		if !ok {
			set = map[string]bool{}
			idx[tag] = set
		}
		set[sessionID] = true
	}
}

// Sessions returns the sorted session ids tagged with tag.
func (idx TagIndex) Sessions(tag string) []string {
	set, ok := idx[tag]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddTags locates id's session file (completed first, then active),
// merges tags into its frontmatter, and updates tags.json to match.
// Returns the resulting merged tag set.
func AddTags(repo, id string, tags []string) ([]string, error) {
	path, ok := session.LocateSessionFile(repo, id)
	if !ok {
		return nil, nil
	}
	merged, err := session.MergeTagsIntoFile(path, tags)
	if err != nil {
		return nil, err
	}
	idx := LoadTagIndex(repo)
	idx.Add(id, tags)
	if err := idx.Save(repo); err != nil {
		return nil, err
	}
	return merged, nil
}

// RebuildTagIndex reconstructs tags.json from every session's
// frontmatter, since the index is only a cache.
func RebuildTagIndex(repo string, allSessionIDs func() []string, tagsOf func(id string) []string) TagIndex {
	idx := TagIndex{}
	for _, id := range allSessionIDs() {
		idx.Add(id, tagsOf(id))
	}
	return idx
}
