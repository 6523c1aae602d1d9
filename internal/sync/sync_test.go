package sync

import "testing"

func TestMergeMistakesLegacyBothSides(t *testing.T) {
	a := "- mistake from A\n"
	b := "- mistake from B\n"

	mergedOnA := merge("mistakes.md", a, b)
	mergedOnB := merge("mistakes.md", b, a)

	for _, want := range []string{"mistake from A", "mistake from B"} {
		if !contains(mergedOnA, want) {
			t.Fatalf("side A merge missing %q: %q", want, mergedOnA)
		}
		if !contains(mergedOnB, want) {
			t.Fatalf("side B merge missing %q: %q", want, mergedOnB)
		}
	}
}

func TestMergeKnowledgeLocalWinsWhenNonEmpty(t *testing.T) {
	local := "### local entry\nbody\n\n"
	remote := "### remote entry\nbody\n\n"
	got := merge("knowledge.md", local, remote)
	if got != local {
		t.Fatalf("expected local to win, got %q", got)
	}
}

func TestMergeKnowledgeFallsBackToRemoteWhenLocalEmpty(t *testing.T) {
	got := merge("knowledge.md", "   \n", "### remote entry\nbody\n\n")
	if got != "### remote entry\nbody\n\n" {
		t.Fatalf("expected remote fallback, got %q", got)
	}
}

func TestMergeTagsJSONUnion(t *testing.T) {
	local := `{"area:cart": ["s1"]}`
	remote := `{"area:cart": ["s2"], "type:refactor": ["s3"]}`
	got := mergeTagsJSON(local, remote)
	decoded := decodeTags(got)
	if len(decoded["area:cart"]) != 2 {
		t.Fatalf("expected union of 2 session ids, got %v", decoded["area:cart"])
	}
	if len(decoded["type:refactor"]) != 1 {
		t.Fatalf("expected type:refactor to carry over, got %v", decoded["type:refactor"])
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
