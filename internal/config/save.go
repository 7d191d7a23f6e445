package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"leadhunt-engine/internal/scrapeerr"
)

// Validate returns the validation errors as a single config error.
func Validate(cfg Config) error {
	_, v := NormalizeAndValidate(cfg)
	if v.OK() {
		return nil
	}
	return scrapeerr.Config("validate", errors.New("config validation failed:\n- "+joinLines(v.Errors)))
}

// SaveAtomic validates cfg and replaces path, keeping the previous file as
// path.bak.
func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return scrapeerr.Config("marshal", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return scrapeerr.IO("create "+dir, err)
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return scrapeerr.IO("write "+tmp, err)
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	if err := os.Rename(tmp, path); err != nil {
		return scrapeerr.IO("rename "+tmp, err)
	}
	return nil
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n- ")
}
