package betalist

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

const page = `<html><body>
<div id="startup-124183" class="block">
	<a href="/startups/rocketdesk"><span class="font-medium">RocketDesk</span></a>
	<p>Helpdesk for rocket teams</p>
	<a href="https://rocketdesk.io">Visit</a>
</div>
<div id="startup-124184" class="block">
	<a href="/startups/quietmail">QuietMail</a>
	<p>Inbox zero for founders</p>
</div>
<div id="startup-124185" class="block">
	<a href="/startups/x"><span class="font-medium">AI</span></a>
</div>
</body></html>`

func newScraper(t *testing.T, cfg Config) *Scraper {
	t.Helper()
	return New(cfg, scrapetest.Base(t, "", zap.NewNop()))
}

func TestParsePrefersExternalWebsite(t *testing.T) {
	s := newScraper(t, Config{Enabled: true, BaseURL: "https://betalist.com"})

	recs, err := s.Parse(page)
	require.NoError(t, err)
	require.Len(t, recs, 2, "names of two characters or fewer are skipped")

	assert.Equal(t, "RocketDesk", recs[0].Name)
	assert.Equal(t, "https://rocketdesk.io", recs[0].Website)

	assert.Equal(t, "QuietMail", recs[1].Name)
	assert.Equal(t, "https://betalist.com/startups/quietmail", recs[1].Website)
	assert.Contains(t, recs[1].RawText, "Inbox zero for founders")
}

func TestParseNoCards(t *testing.T) {
	s := newScraper(t, Config{Enabled: true})
	recs, err := s.Parse(`<div class="card"><h3>Nope</h3></div>`)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestScrape(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)

	s := newScraper(t, Config{Enabled: true, BaseURL: srv.URL, Endpoints: []string{"/startups"}, Delay: time.Millisecond})
	leads, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)
	for _, l := range leads {
		assert.Equal(t, domain.StartupDirectorySource(), l.Source)
		assert.False(t, l.HasContact())
	}
	assert.Equal(t, srv.URL+"/startups/quietmail", leads[1].Website)
}

func TestScrapeCancelled(t *testing.T) {
	s := newScraper(t, Config{Enabled: true, Endpoints: []string{"/a", "/b"}, Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scrape(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdapterContract(t *testing.T) {
	s := newScraper(t, Config{Enabled: true, Endpoints: []string{"/startups"}})
	assert.Equal(t, "BetaList", s.Name())
	n, ok := s.ExpectedLeads()
	assert.True(t, ok)
	assert.Equal(t, 30, n)
}
