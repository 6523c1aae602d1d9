package comod

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/knowledge"
)

// StalenessProbe reports, for a path, how many commits have touched it
// since a given date. Satisfied by *scm.Adapter in production and a
// fake in tests.
type StalenessProbe interface {
	CommitsSince(ctx context.Context, path, since string) (int, bool)
}

// Scored pairs an entry with its computed relevance score.
type Scored struct {
	Entry knowledge.Entry
	Score float64
}

func intersectCount(a []string, bSet map[string]bool) int {
	n := 0
	for _, x := range a {
		if bSet[x] {
			n++
		}
	}
	return n
}

func toSet(xs []string) map[string]bool {
	s := make(map[string]bool, len(xs))
	for _, x := range xs {
		s[x] = true
	}
	return s
}

func daysSince(dateStr string, now time.Time) (float64, bool) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return 0, false
	}
	return now.Sub(t).Hours() / 24, true
}

// rawScore computes the relevance score of e given F and its
// neighbour set, before the staleness probe.
func rawScore(e knowledge.Entry, fSet, neighbourSet map[string]bool, area string, now time.Time, sc config.ScoreConfig) float64 {
	score := 0.0
	score += float64(sc.FileMatch) * float64(intersectCount(e.Files, fSet))
	score += float64(sc.NeighbourMatch) * float64(intersectCount(e.Files, neighbourSet))
	if e.Area != "" && e.Area != "general" && e.Area == area {
		score += float64(sc.AreaMatch)
	}
	if days, ok := daysSince(e.Date, now); ok {
		recency := 1 - days/sc.RecencyWindowDays
		if recency < 0 {
			recency = 0
		}
		score += float64(sc.RecencyMax) * math.Min(1, recency)
	}
	if e.Rule != "" {
		score += float64(sc.RuleBonus)
	}
	if len(e.Files) == 0 {
		score += float64(sc.LegacyBaseline)
	}
	return score
}

// Rank scores every entry in entries against F and returns the top k
// by score, applying the staleness probe to the top 2k candidates and
// re-sorting. Falls back to the k most recent entries by
// date when no entry scores positive.
func Rank(ctx context.Context, probe StalenessProbe, g Graph, entries []knowledge.Entry, files []string, now time.Time, sc config.ScoreConfig, k int) []knowledge.Entry {
	if k <= 0 {
		return nil
	}
	fSet := toSet(files)
	neighbourSet := toSet(TopNeighbours(g, files, len(files)*10+k))
	area := knowledge.DeriveArea(files)

	scored := make([]Scored, 0, len(entries))
	for _, e := range entries {
		scored = append(scored, Scored{Entry: e, Score: rawScore(e, fSet, neighbourSet, area, now, sc)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	probeN := 2 * k
	if probeN > len(scored) {
		probeN = len(scored)
	}
	for i := 0; i < probeN; i++ {
		e := scored[i].Entry
		if e.Date == "" {
			continue
		}
		stale := false
		n := 0
		for _, f := range e.Files {
			if n >= 3 {
				break
			}
			n++
			if probe == nil {
				continue
			}
			count, ok := probe.CommitsSince(ctx, f, e.Date)
			if ok && count > sc.StalenessCommits {
				stale = true
				break
			}
		}
		if stale {
			scored[i].Score -= float64(sc.StalenessPenalty)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	var positive []knowledge.Entry
	for _, s := range scored {
		if s.Score > 0 {
			positive = append(positive, s.Entry)
		}
	}
	if len(positive) > 0 {
		if len(positive) > k {
			positive = positive[:k]
		}
		return positive
	}

	byDate := append([]knowledge.Entry(nil), entries...)
	sort.SliceStable(byDate, func(i, j int) bool { return byDate[i].Date > byDate[j].Date })
	if len(byDate) > k {
		byDate = byDate[:k]
	}
	return byDate
}
