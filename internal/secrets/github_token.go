package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/scrapeerr"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "leadhunt"
	GitHubAccount  = "github-token"
	GitHubEnv      = "GITHUB_TOKEN"
)

// Origin names where a resolved token came from.
type Origin string

const (
	OriginNone    Origin = ""
	OriginConfig  Origin = "config"
	OriginEnv     Origin = "env"
	OriginKeyring Origin = "keyring"
)

// ResolveGitHubToken picks the code-hosting API token: the config value,
// then GITHUB_TOKEN (a .env file in the working directory is loaded first
// without overriding the real environment), then the OS keychain. A
// missing token is not an error; requests go out unauthenticated.
func ResolveGitHubToken(cfg config.Config, envFiles ...string) (string, Origin) {
	if t := strings.TrimSpace(cfg.Scraper.GitHubToken); t != "" {
		return t, OriginConfig
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	if t := strings.TrimSpace(os.Getenv(GitHubEnv)); t != "" {
		return t, OriginEnv
	}

	if t, err := keyring.Get(KeyringService, GitHubAccount); err == nil && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t), OriginKeyring
	}
	return "", OriginNone
}

func SetGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return scrapeerr.Config("set github token", errors.New("token is empty"))
	}
	if err := keyring.Set(KeyringService, GitHubAccount, token); err != nil {
		return scrapeerr.IO("keyring set", err)
	}
	return nil
}

// DeleteGitHubToken removes the stored token. Deleting a missing token
// succeeds.
func DeleteGitHubToken() error {
	err := keyring.Delete(KeyringService, GitHubAccount)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return scrapeerr.IO("keyring delete", err)
}

// HasStoredGitHubToken reports whether the keychain holds a token.
func HasStoredGitHubToken() bool {
	t, err := keyring.Get(KeyringService, GitHubAccount)
	return err == nil && strings.TrimSpace(t) != ""
}
