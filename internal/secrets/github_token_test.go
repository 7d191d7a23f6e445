package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/scrapeerr"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestResolveGitHubTokenOrder(t *testing.T) {
	keyring.MockInit()
	t.Setenv(GitHubEnv, "")

	cfg := config.Defaults()
	tok, origin := ResolveGitHubToken(cfg, noEnvFile(t))
	assert.Empty(t, tok)
	assert.Equal(t, OriginNone, origin)

	require.NoError(t, SetGitHubToken("  from-keyring "))
	assert.True(t, HasStoredGitHubToken())
	tok, origin = ResolveGitHubToken(cfg, noEnvFile(t))
	assert.Equal(t, "from-keyring", tok)
	assert.Equal(t, OriginKeyring, origin)

	t.Setenv(GitHubEnv, "from-env")
	tok, origin = ResolveGitHubToken(cfg, noEnvFile(t))
	assert.Equal(t, "from-env", tok)
	assert.Equal(t, OriginEnv, origin)

	cfg.Scraper.GitHubToken = "from-config"
	tok, origin = ResolveGitHubToken(cfg, noEnvFile(t))
	assert.Equal(t, "from-config", tok)
	assert.Equal(t, OriginConfig, origin)
}

func TestResolveGitHubTokenReadsDotEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv(GitHubEnv, "")
	require.NoError(t, os.Unsetenv(GitHubEnv))

	f := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(f, []byte("GITHUB_TOKEN=dotenv-token\n"), 0o600))

	tok, origin := ResolveGitHubToken(config.Defaults(), f)
	assert.Equal(t, "dotenv-token", tok)
	assert.Equal(t, OriginEnv, origin)
}

func TestSetAndDeleteGitHubToken(t *testing.T) {
	keyring.MockInit()

	err := SetGitHubToken("   ")
	require.Error(t, err)
	assert.True(t, scrapeerr.Is(err, scrapeerr.KindConfig))

	require.NoError(t, SetGitHubToken("abc"))
	require.NoError(t, DeleteGitHubToken())
	assert.False(t, HasStoredGitHubToken())
	require.NoError(t, DeleteGitHubToken())
}
