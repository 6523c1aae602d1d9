package knowledge

import "strings"

// dedupKey identifies an entry for merge purposes by its lowercased
// (title, description) pair.
func dedupKey(e Entry) string {
	return strings.ToLower(e.Title) + "\x00" + strings.ToLower(e.Description)
}

// MergeEntries concatenates structured entries from both sides first,
// then legacy (title-only) entries, deduplicating by (title,
// description) and preserving first occurrence — local entries take
// priority over remote ones on a collision. Used by mistakes.md and
// decisions.md sync.
func MergeEntries(local, remote []Entry) []Entry {
	seen := map[string]bool{}
	var structured, legacy []Entry

	add := func(e Entry) {
		key := dedupKey(e)
		if seen[key] {
			return
		}
		seen[key] = true
		if isStructured(e) {
			structured = append(structured, e)
		} else {
			legacy = append(legacy, e)
		}
	}
	for _, e := range local {
		add(e)
	}
	for _, e := range remote {
		add(e)
	}
	return append(structured, legacy...)
}

func isStructured(e Entry) bool {
	return e.SessionID != "" || e.CommitSHA != "" || len(e.Files) > 0 || e.Date != "" || e.Rule != "" || len(e.Tried) > 0
}

// HasStructuredEntry reports whether any entry in es carries metadata.
func HasStructuredEntry(es []Entry) bool {
	for _, e := range es {
		if isStructured(e) {
			return true
		}
	}
	return false
}

// MergeBlocks is the fallback used when neither side has a structured
// entry: split each side on blank-line runs and dedup preserving first
// occurrence, local first.
func MergeBlocks(local, remote string) string {
	blocks := splitBlocks(local)
	blocks = append(blocks, splitBlocks(remote)...)
	seen := map[string]bool{}
	var out []string
	for _, b := range blocks {
		key := strings.ToLower(strings.TrimSpace(b))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return strings.Join(out, "\n\n")
}

func splitBlocks(text string) []string {
	var blocks []string
	for _, b := range strings.Split(text, "\n\n") {
		b = strings.TrimSpace(b)
		if b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
