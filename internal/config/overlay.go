package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"leadhunt-engine/internal/scrapeerr"
)

// RepositoriesFile is a standalone list of curated-list repositories that
// can be kept next to the main config.
type RepositoriesFile struct {
	Repositories []string `yaml:"repositories"`
}

// OverlayRepositories replaces the curated-list repositories with the ones
// in path. A missing file is not an error.
func OverlayRepositories(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var rf RepositoriesFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return scrapeerr.Config("parse "+path, err)
	}
	if len(rf.Repositories) > 0 {
		cfg.Sources.GitHubAwesome.Repositories = rf.Repositories
	}
	return nil
}
