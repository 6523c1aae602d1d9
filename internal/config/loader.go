package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load merges global (~/.ghost/config.yaml) and project
// (<repo>/.ai-sessions/config.yaml) configuration over the defaults, the
// project file taking precedence. Missing files are not an error.
func Load(repoRoot string) (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		_ = loadFile(GlobalConfigPath(home), cfg)
	}

	if repoRoot != "" {
		_ = loadFile(ProjectConfigPath(repoRoot), cfg)
	}

	if cfg.Project.Name == "" && repoRoot != "" {
		cfg.Project.Name = filepath.Base(repoRoot)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

// GlobalConfigPath returns ~/.ghost/config.yaml.
func GlobalConfigPath(home string) string {
	return filepath.Join(home, ".ghost", "config.yaml")
}

// GlobalDir returns ~/.ghost.
func GlobalDir(home string) string {
	return filepath.Join(home, ".ghost")
}

// ProjectConfigPath returns <repo>/.ai-sessions/config.yaml.
func ProjectConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".ai-sessions", "config.yaml")
}
