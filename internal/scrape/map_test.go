package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/scrapeerr"
)

func TestBuildAdaptersOrder(t *testing.T) {
	cfg := config.Defaults()
	cfg.Sources.BetaList.Enabled = false

	b, err := NewBase(cfg, "", zap.NewNop())
	require.NoError(t, err)

	as := BuildAdapters(cfg, b)
	require.Len(t, as, 3)
	assert.Equal(t, "Y Combinator", as[0].Name())
	assert.Equal(t, "GitHub Awesome", as[1].Name())
	assert.Equal(t, "BetaList", as[2].Name())
	assert.True(t, as[0].Enabled())
	assert.False(t, as[2].Enabled())

	n, ok := as[0].ExpectedLeads()
	assert.True(t, ok)
	assert.Equal(t, 100, n)
}

func TestNewBaseRejectsBadPatterns(t *testing.T) {
	cfg := config.Defaults()
	cfg.Patterns.Email.Generic = "([a-z"

	_, err := NewBase(cfg, "", zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, scrapeerr.KindExtraction, scrapeerr.KindOf(err))
}
