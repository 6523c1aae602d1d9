package comod

// Corrections returns, for a single session's content, the number of
// correction occurrences per file: a correction is any path modified
// in both of an adjacent pair of turns. A file touched in
// three consecutive turns counts twice, matching "for each adjacent
// pair of turns".
func Corrections(sessionContent string) map[string]int {
	turns := turnsInSession(sessionContent)
	counts := map[string]int{}
	for i := 0; i+1 < len(turns); i++ {
		for f := range turns[i] {
			if turns[i+1][f] {
				counts[f]++
			}
		}
	}
	return counts
}

// HasRepeatedCorrection reports whether any file in counts has two or
// more correction passes, the trigger for the Background Finalizer's
// auto-mistake synthesis.
func HasRepeatedCorrection(counts map[string]int) (file string, ok bool) {
	for f, n := range counts {
		if n >= 2 {
			return f, true
		}
	}
	return "", false
}
