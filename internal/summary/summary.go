// Package summary implements the Summary Extractor: parsing
// the summarization engine's fixed-schema markdown output into typed
// knowledge entries and tags.
package summary

import (
	"regexp"
	"strings"

	"github.com/notkurt/ghost/internal/knowledge"
)

// Summary is the parsed result of one summarization-engine response.
type Summary struct {
	Valid         bool
	Intent        string
	Changes       string
	OpenItems     string
	Tags          []string
	SkipKnowledge bool
	Knowledge     []knowledge.Entry
	Decisions     []knowledge.Entry
	Mistakes      []knowledge.Entry
	Strategies    []knowledge.Entry
}

var sectionHeadingRe = regexp.MustCompile(`(?m)^## (.+)$`)

var noneVariantRe = regexp.MustCompile(`(?i)^\s*(none|n/a|na|nothing|not applicable|no (significant|decisions|key|mistakes|errors|issues)\b.*)\s*$`)

var boldLineRe = regexp.MustCompile(`^\*\*(.+?)\*\*:?\s*(.*)$`)

var metaLineRe = regexp.MustCompile(`^(Files|Tried|Rule):\s*(.*)$`)

var skipRe = regexp.MustCompile(`(?i)^\s*skip\s*$`)

// sections splits a document on "## " headings into name -> body.
func sections(doc string) map[string]string {
	out := map[string]string{}
	locs := sectionHeadingRe.FindAllStringSubmatchIndex(doc, -1)
	names := sectionHeadingRe.FindAllStringSubmatch(doc, -1)
	for i, loc := range locs {
		start := loc[1]
		end := len(doc)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out[strings.TrimSpace(names[i][1])] = strings.TrimSpace(doc[start:end])
	}
	return out
}

// Extract parses a summarization-engine markdown document.
func Extract(doc string) Summary {
	secs := sections(doc)
	_, hasIntent := secs["Intent"]
	_, hasTags := secs["Tags"]

	s := Summary{
		Valid:     hasIntent && hasTags,
		Intent:    secs["Intent"],
		Changes:   secs["Changes"],
		OpenItems: secs["Open Items"],
	}
	if !s.Valid {
		return s
	}

	s.Tags = parseTags(secs["Tags"])
	s.SkipKnowledge = skipRe.MatchString(secs["Relevance"])
	s.Knowledge = parseEntries(secs["Knowledge"])
	s.Decisions = parseEntries(secs["Decisions"])
	s.Mistakes = parseEntries(secs["Mistakes"])
	s.Strategies = parseEntries(secs["Strategies"])
	return s
}

func parseTags(body string) []string {
	var tags []string
	for _, t := range strings.Split(body, ",") {
		t = strings.TrimSpace(t)
		if t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//") {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}

// parseEntries splits body into bold-line-delimited blocks, dropping the
// whole section when its body is a "none" variant, and extracts the
// trailing Files:/Tried:/Rule: metadata from each block.
func parseEntries(body string) []knowledge.Entry {
	body = strings.TrimSpace(body)
	if body == "" || noneVariantRe.MatchString(body) {
		return nil
	}

	var blocks [][]string
	var cur []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "**") {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
			}
			cur = []string{line}
			continue
		}
		if len(cur) == 0 {
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}

	entries := make([]knowledge.Entry, 0, len(blocks))
	for _, b := range blocks {
		if e, ok := parseBlock(b); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func parseBlock(lines []string) (knowledge.Entry, bool) {
	var e knowledge.Entry
	var descLines []string

	first := strings.TrimSpace(lines[0])
	if m := boldLineRe.FindStringSubmatch(first); m != nil {
		e.Title = strings.TrimSpace(m[1])
		if m[2] != "" {
			descLines = append(descLines, m[2])
		}
	} else {
		e.Title = strings.Trim(first, "* ")
	}

	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if m := metaLineRe.FindStringSubmatch(trimmed); m != nil {
			switch m[1] {
			case "Files":
				e.Files = splitCSV(m[2])
			case "Tried":
				e.Tried = splitCSV(m[2])
			case "Rule":
				e.Rule = strings.TrimSpace(m[2])
			}
			continue
		}
		descLines = append(descLines, line)
	}
	e.Description = strings.TrimSpace(strings.Join(descLines, "\n"))

	if knowledge.IsJunkTitle(e.Title) {
		return knowledge.Entry{}, false
	}
	return e, true
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
