package comod

import (
	"context"
	"testing"
	"time"

	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/knowledge"
)

func TestBuildGraphAndNeighbours(t *testing.T) {
	session := "---\n" +
		"- Modified: a.go\n" +
		"- Modified: b.go\n" +
		"---\n" +
		"_turn completed: x_\n" +
		"- Modified: a.go\n" +
		"- Modified: c.go\n"
	g := Graph{}
	for _, turn := range turnsInSession(session) {
		addPairs(g, turn)
	}
	if g["a.go"]["b.go"] != 1 {
		t.Fatalf("expected a.go-b.go weight 1, got %d", g["a.go"]["b.go"])
	}
	neighbours := TopNeighbours(g, []string{"a.go"}, 5)
	if len(neighbours) != 2 {
		t.Fatalf("expected 2 neighbours, got %v", neighbours)
	}
}

func TestCorrectionsDetectsRepeats(t *testing.T) {
	session := "---\n- Modified: x.go\n---\n_turn_\n- Modified: x.go\n---\n_turn_\n- Modified: x.go\n"
	counts := Corrections(session)
	if counts["x.go"] != 2 {
		t.Fatalf("expected 2 corrections for x.go, got %d", counts["x.go"])
	}
	file, ok := HasRepeatedCorrection(counts)
	if !ok || file != "x.go" {
		t.Fatalf("expected repeated correction on x.go, got %q ok=%v", file, ok)
	}
}

type fakeProbe struct{ counts map[string]int }

func (f fakeProbe) CommitsSince(_ context.Context, path, _ string) (int, bool) {
	return f.counts[path], true
}

func TestRankRulePrecedesFileMatch(t *testing.T) {
	sc := config.DefaultConfig().Score
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	a := knowledge.Entry{Title: "A", Files: []string{"src/x.ts"}, Date: "2026-07-20"}
	b := knowledge.Entry{Title: "B", Rule: "ALWAYS y", Date: "2026-07-20"}
	c := knowledge.Entry{Title: "C", Files: []string{"unrelated.go"}, Date: "2020-01-01"}

	ranked := Rank(context.Background(), fakeProbe{}, Graph{}, []knowledge.Entry{a, b, c}, []string{"src/x.ts"}, now, sc, 3)
	if len(ranked) < 2 {
		t.Fatalf("expected at least 2 ranked entries, got %d", len(ranked))
	}
	if ranked[0].Title != "B" {
		t.Fatalf("expected B (rule bonus) to rank first, got %q", ranked[0].Title)
	}
	foundA, foundC := false, false
	posA, posC := -1, -1
	for i, e := range ranked {
		if e.Title == "A" {
			foundA, posA = true, i
		}
		if e.Title == "C" {
			foundC, posC = true, i
		}
	}
	if foundA && foundC && posA > posC {
		t.Fatalf("expected A to rank above C, got order %v", ranked)
	}
}
