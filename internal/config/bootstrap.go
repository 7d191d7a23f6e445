package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"leadhunt-engine/internal/scrapeerr"
)

const UserConfigName = "scraper.yaml"

// EnsureUserConfig makes sure dataDir holds a config file. It copies
// defaultPath when that exists and otherwise writes Defaults.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, UserConfigName)

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", scrapeerr.IO("stat "+userPath, err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", scrapeerr.IO("create "+dataDir, err)
	}

	src, err := os.Open(defaultPath)
	if errors.Is(err, os.ErrNotExist) || defaultPath == "" {
		return userPath, SaveAtomic(userPath, Defaults())
	}
	if err != nil {
		return "", scrapeerr.IO("open "+defaultPath, err)
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", scrapeerr.IO("create "+userPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", scrapeerr.IO("copy "+defaultPath, err)
	}
	return userPath, nil
}
