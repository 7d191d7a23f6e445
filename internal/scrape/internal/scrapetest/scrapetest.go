// Package scrapetest builds adapter dependencies for tests.
package scrapetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadhunt-engine/internal/extract"
	"leadhunt-engine/internal/github"
	"leadhunt-engine/internal/scrape/base"
)

// Base returns a Base whose code-host API points at apiURL. An empty
// apiURL leaves the default API, so tests must not build code-host leads.
func Base(t testing.TB, apiURL string, log *zap.Logger) *base.Base {
	t.Helper()
	ext, err := extract.New(extract.DefaultPatterns())
	require.NoError(t, err)

	gh := github.NewClient(github.Config{BaseURL: apiURL})
	return base.New(base.Deps{
		Extractor: ext,
		GitHub:    gh,
		Miner:     github.NewMiner(gh, log),
		UserAgent: "leadhunt-test",
		Logger:    log,
	})
}
