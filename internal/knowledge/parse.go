package knowledge

import (
	"regexp"
	"strings"
)

var metadataCommentRe = regexp.MustCompile(`^<!--\s*(.*?)\s*-->\s*$`)

// Parse reads a knowledge log's full content and returns every entry,
// structured and legacy interleaved in document order, tolerating both
// formats in one file.
func Parse(content string) []Entry {
	var entries []Entry
	var cur *Entry
	var descLines []string

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "### ") {
			if cur != nil {
				cur.Description = strings.TrimSpace(strings.Join(descLines, "\n"))
				entries = append(entries, *cur)
			}
			title := strings.TrimSpace(strings.TrimPrefix(line, "### "))
			cur = &Entry{Title: title}
			descLines = nil
			continue
		}
		if cur != nil {
			if m := metadataCommentRe.FindStringSubmatch(line); m != nil {
				applyMetadata(cur, m[1])
				cur.Description = strings.TrimSpace(strings.Join(descLines, "\n"))
				entries = append(entries, *cur)
				cur = nil
				descLines = nil
				continue
			}
			descLines = append(descLines, line)
			continue
		}
		if strings.HasPrefix(line, "- ") {
			entries = append(entries, Entry{Title: strings.TrimSpace(strings.TrimPrefix(line, "- "))})
		}
	}
	if cur != nil {
		cur.Description = strings.TrimSpace(strings.Join(descLines, "\n"))
		entries = append(entries, *cur)
	}
	return entries
}

func applyMetadata(e *Entry, meta string) {
	for _, pair := range strings.Split(meta, "|") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.Index(pair, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(pair[:idx])
		val := strings.TrimSpace(pair[idx+1:])
		switch key {
		case "session":
			e.SessionID = val
		case "commit":
			e.CommitSHA = val
		case "files":
			e.Files = splitCSV(val)
		case "area":
			e.Area = val
		case "date":
			e.Date = val
		case "tried":
			e.Tried = splitCSV(val)
		case "rule":
			e.Rule = val
		}
	}
	if e.Area == "" {
		e.Area = "general"
	}
	if e.Date == "" && len(e.SessionID) >= 10 {
		e.Date = e.SessionID[:10]
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
