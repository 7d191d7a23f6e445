package ycombinator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/scrape/internal/scrapetest"
)

const listing = `<html><body>
<div class="company-row">
	<h2>Test Company</h2>
	<p>A great startup doing amazing things, based in Canada.</p>
	<a href="https://testcompany.com">Website</a>
	<a href="mailto:founders@testcompany.com">Email</a>
</div>
<div class="company-row">
	<h3>Second Co</h3>
	<a href="https://x.com/secondco">x</a>
</div>
</body></html>`

func newScraper(t *testing.T, cfg Config) *Scraper {
	t.Helper()
	return New(cfg, scrapetest.Base(t, "", zap.NewNop()))
}

func TestParse(t *testing.T) {
	s := newScraper(t, Config{Enabled: true})

	recs, err := s.Parse(listing)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Test Company", recs[0].Name)
	assert.Equal(t, "https://testcompany.com", recs[0].Website)
	assert.Equal(t, "Second Co", recs[1].Name)
}

// Known edge case: the first selector that matches any element wins even
// if none of its elements carry a name, so later selectors are not tried.
func TestParseStopsAtFirstMatchingSelector(t *testing.T) {
	s := newScraper(t, Config{Enabled: true})

	html := `<div class="company-row"><p>no heading here</p></div>
		<div class="company"><h2>Would Match</h2></div>`
	recs, err := s.Parse(html)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseFallsBackToTableRows(t *testing.T) {
	s := newScraper(t, Config{Enabled: true})

	recs, err := s.Parse(`<table><tr><td><h3>Row Co</h3></td></tr></table>`)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Row Co", recs[0].Name)
}

func TestScrapeSkipsFailedEndpoints(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(listing))
	}))
	t.Cleanup(srv.Close)

	s := newScraper(t, Config{
		Enabled:   true,
		BaseURL:   srv.URL,
		Endpoints: []string{"/broken", "/companies"},
		Delay:     time.Millisecond,
	})

	leads, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)

	first := leads[0]
	assert.Equal(t, domain.DirectorySource(), first.Source)
	assert.Equal(t, "founders@testcompany.com", first.Email)
	assert.Equal(t, "Canada", first.Country)
	assert.Equal(t, "https://twitter.com/secondco", leads[1].Twitter)
}

func TestScrapeCancelledKeepsEarlierPages(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/b" {
			cancel()
			<-r.Context().Done()
			return
		}
		_, _ = w.Write([]byte(listing))
	}))
	t.Cleanup(srv.Close)

	s := newScraper(t, Config{
		Enabled:   true,
		BaseURL:   srv.URL,
		Endpoints: []string{"/a", "/b"},
		Delay:     time.Millisecond,
	})

	leads, err := s.Scrape(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, leads, 2)
	assert.Equal(t, "Test Company", leads[0].Name)
}

func TestAdapterContract(t *testing.T) {
	s := newScraper(t, Config{Enabled: false, Endpoints: []string{"/a", "/b"}})
	assert.Equal(t, "Y Combinator", s.Name())
	assert.False(t, s.Enabled())
	n, ok := s.ExpectedLeads()
	assert.True(t, ok)
	assert.Equal(t, 200, n)
}
