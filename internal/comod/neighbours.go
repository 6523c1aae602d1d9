package comod

import "sort"

// TopNeighbours returns the top k files not already in F, ranked by
// the count of distinct f in F whose adjacency list contains them,
// ties broken lexicographically.
func TopNeighbours(g Graph, files []string, k int) []string {
	inF := make(map[string]bool, len(files))
	for _, f := range files {
		inF[f] = true
	}

	counts := map[string]int{}
	for _, f := range files {
		for n := range g[f] {
			if inF[n] {
				continue
			}
			counts[n]++
		}
	}

	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if k >= 0 && len(names) > k {
		names = names[:k]
	}
	return names
}
