package sync

import (
	"encoding/json"
	"sort"
)

// mergeTagsJSON deep-unions two tags.json documents: for every tag key
// in either side, the value is the set union of the two session-id
// arrays.
func mergeTagsJSON(local, remote string) string {
	a := decodeTags(local)
	b := decodeTags(remote)

	merged := map[string]map[string]bool{}
	for tag, ids := range a {
		set := map[string]bool{}
		for _, id := range ids {
			set[id] = true
		}
		merged[tag] = set
	}
	for tag, ids := range b {
		set, ok := merged[tag]
		if !ok {
			set = map[string]bool{}
			merged[tag] = set
		}
		for _, id := range ids {
			set[id] = true
		}
	}

	out := map[string][]string{}
	for tag, set := range merged {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[tag] = ids
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return local
	}
	return string(data)
}

func decodeTags(s string) map[string][]string {
	m := map[string][]string{}
	if s == "" {
		return m
	}
	_ = json.Unmarshal([]byte(s), &m)
	return m
}
