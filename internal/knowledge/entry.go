// Package knowledge implements the Knowledge Store: the
// append-only decision/mistake logs, their structured-or-legacy entry
// format, area derivation, and the tag index.
package knowledge

import "strings"

// Entry is a single decision or mistake record. Tried is populated only
// for mistakes; Rule is optional on both.
type Entry struct {
	Title       string
	Description string
	SessionID   string
	CommitSHA   string
	Files       []string
	Area        string
	Date        string
	Tried       []string
	Rule        string
}

// codeRootPrefixes are stripped before deriving Area from a file path.
var codeRootPrefixes = []string{"src", "app", "lib"}

// DeriveArea returns the most common top-level segment among files
// after stripping a leading code-root prefix, or "general" when files
// is empty or every path is already root-level.
func DeriveArea(files []string) string {
	counts := make(map[string]int)
	order := make([]string, 0, len(files))
	for _, f := range files {
		f = strings.TrimPrefix(f, "./")
		parts := strings.Split(f, "/")
		if len(parts) < 2 {
			continue
		}
		if contains(codeRootPrefixes, parts[0]) {
			parts = parts[1:]
		}
		if len(parts) < 2 {
			continue
		}
		seg := parts[0]
		if counts[seg] == 0 {
			order = append(order, seg)
		}
		counts[seg]++
	}
	best := ""
	bestCount := 0
	for _, seg := range order {
		if counts[seg] > bestCount {
			best = seg
			bestCount = counts[seg]
		}
	}
	if best == "" {
		return "general"
	}
	return best
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// IsJunkTitle reports whether title reduces to a non-finding, per the
// Background Finalizer's drop rule: empty, a
// "none"/"n/a" variant, a "no mistakes/errors/issues" variant, or too
// short to be meaningful.
func IsJunkTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" || len(t) < 4 {
		return true
	}
	switch t {
	case "none", "n/a", "na", "nothing", "not applicable":
		return true
	}
	for _, prefix := range []string{"no significant", "no decisions", "no key", "no mistakes", "no errors", "no issues"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}
