package session

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// Frontmatter is the session's YAML header.
type Frontmatter struct {
	ID            string     `yaml:"id"`
	Branch        string     `yaml:"branch"`
	BaseCommit    string     `yaml:"base_commit"`
	Started       time.Time  `yaml:"started"`
	Ended         *time.Time `yaml:"ended,omitempty"`
	Tags          []string   `yaml:"tags"`
	SkipKnowledge bool       `yaml:"skip_knowledge,omitempty"`
}

// splitDocument separates a "---\n<yaml>\n---\n<body>" document. ok is
// false when content has no recognizable frontmatter block, in which
// case the whole content is returned as body.
func splitDocument(content string) (yamlText, body string, ok bool) {
	if !strings.HasPrefix(content, frontmatterDelim) {
		return "", content, false
	}
	rest := content[len(frontmatterDelim):]
	rest = strings.TrimPrefix(rest, "\n")
	idx := strings.Index(rest, "\n"+frontmatterDelim)
	if idx < 0 {
		return "", content, false
	}
	yamlText = rest[:idx]
	body = rest[idx+len("\n"+frontmatterDelim):]
	body = strings.TrimPrefix(body, "\n")
	return yamlText, body, true
}

// ParseDocument parses a session file's frontmatter and body. A
// malformed or absent frontmatter block degrades to a zero-value
// Frontmatter and the raw content as body
func ParseDocument(content string) (Frontmatter, string) {
	yamlText, body, ok := splitDocument(content)
	if !ok {
		return Frontmatter{}, content
	}
	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(yamlText), &fm); err != nil {
		return Frontmatter{}, content
	}
	return fm, body
}

// RenderDocument serializes frontmatter and body back into one document.
func RenderDocument(fm Frontmatter, body string) string {
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		// Frontmatter is a fixed, always-marshalable struct; this branch
		// exists only so RenderDocument never panics.
		yamlBytes = []byte{}
	}
	var sb strings.Builder
	sb.WriteString(frontmatterDelim)
	sb.WriteString("\n")
	sb.Write(yamlBytes)
	sb.WriteString(frontmatterDelim)
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String()
}

// NewDocument renders the frontmatter-only body written at session
// creation.
func NewDocument(fm Frontmatter) string {
	return RenderDocument(fm, "")
}

// RepairTagsField rewrites content's frontmatter when tags was written
// as a bare scalar instead of a sequence, which otherwise fails
// ParseDocument's strict unmarshal and loses the whole frontmatter
// block, ID included. Returns the document unchanged with ok=false
// when no frontmatter is present or tags already parses as a list.
func RepairTagsField(content string) (repaired string, ok bool) {
	yamlText, body, present := splitDocument(content)
	if !present {
		return content, false
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlText), &raw); err != nil {
		return content, false
	}

	switch v := raw["tags"].(type) {
	case nil, []any:
		return content, false
	case string:
		raw["tags"] = []string{v}
	default:
		return content, false
	}

	fixedYAML, err := yaml.Marshal(raw)
	if err != nil {
		return content, false
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelim)
	sb.WriteString("\n")
	sb.Write(fixedYAML)
	sb.WriteString(frontmatterDelim)
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String(), true
}
