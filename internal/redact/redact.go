// Package redact implements the secret-pattern redactor: an
// external detection plugin, if the build was linked against one, run
// ahead of a built-in regex fallback set. Both layers are idempotent
// and replace only the secret span, never the surrounding text.
package redact

import "strings"

// Detector is the pluggable secret-detection interface. A build that
// links a real detector (no such library appears anywhere in the
// corpus, so none is wired by default — see DESIGN.md) registers one
// via RegisterDetector during init(); absent that, detectorPlugin is
// nil and Redact runs the built-in patterns alone.
type Detector interface {
	// Find returns the [start, end) byte ranges of secrets in text.
	Find(text string) [][2]int
}

var detectorPlugin Detector

// RegisterDetector installs an external detector. Intended to be called
// from a build-tag-gated init() in a file that is never compiled by
// default, so a build without that tag falls back to the built-in
// patterns alone.
func RegisterDetector(d Detector) { detectorPlugin = d }

// Redact replaces every recognized secret span in text with "****".
// It is idempotent: Redact(Redact(x)) == Redact(x), because a masked
// span either matches no pattern or is masked to itself again, and
// every non-secret byte is passed through unchanged.
func Redact(text string) string {
	if detectorPlugin != nil {
		text = redactRanges(text, detectorPlugin.Find(text))
	}
	text = privateKeyBlockRe.ReplaceAllStringFunc(text, func(block string) string {
		m := privateKeyBlockRe.FindStringSubmatch(block)
		label := "PRIVATE KEY"
		if len(m) > 1 && m[1] != "" {
			label = m[1]
		}
		return "-----BEGIN " + label + "-----\n" + mask + "\n-----END " + label + "-----"
	})
	text = authHeaderRe.ReplaceAllString(text, "$1 "+mask)
	text = urlCredsRe.ReplaceAllString(text, "${1}"+mask+"${3}")
	for _, p := range tokenPatterns {
		text = p.re.ReplaceAllString(text, mask)
	}
	text = genericAssignmentRe.ReplaceAllString(text, "${1}${2}${3}"+mask+"${5}")
	return text
}

// redactRanges replaces the given byte ranges (assumed sorted) with
// mask, building the result left to right; a range that starts before
// the end of the previous one or falls outside text is skipped.
func redactRanges(text string, ranges [][2]int) string {
	if len(ranges) == 0 {
		return text
	}
	var sb strings.Builder
	last := 0
	for _, r := range ranges {
		start, end := r[0], r[1]
		if start < last || end > len(text) || start > end {
			continue
		}
		sb.WriteString(text[last:start])
		sb.WriteString(mask)
		last = end
	}
	sb.WriteString(text[last:])
	return sb.String()
}
