package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFiles(t *testing.T) {
	repo := t.TempDir()
	cfg, err := Load(repo)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Score.FileMatch != 10 {
		t.Errorf("FileMatch = %d, want 10", cfg.Score.FileMatch)
	}
	if cfg.Project.Name != filepath.Base(repo) {
		t.Errorf("Project.Name = %q, want %q", cfg.Project.Name, filepath.Base(repo))
	}
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(GlobalDir(home), 0o755); err != nil {
		t.Fatal(err)
	}
	global := "version: \"1\"\nrelevance:\n  top_k: 7\n"
	if err := os.WriteFile(GlobalConfigPath(home), []byte(global), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := t.TempDir()
	if err := os.MkdirAll(filepath.Join(repo, ".ai-sessions"), 0o755); err != nil {
		t.Fatal(err)
	}
	override := "version: \"1\"\nrelevance:\n  top_k: 9\n"
	if err := os.WriteFile(ProjectConfigPath(repo), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(repo)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Relevance.TopK != 9 {
		t.Errorf("Relevance.TopK = %d, want 9", cfg.Relevance.TopK)
	}
	// Fields not present in the override keep their default value.
	if cfg.Score.RuleBonus != 20 {
		t.Errorf("Score.RuleBonus = %d, want 20", cfg.Score.RuleBonus)
	}
}
