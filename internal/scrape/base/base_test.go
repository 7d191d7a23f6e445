package base

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/extract"
	"leadhunt-engine/internal/github"
	"leadhunt-engine/internal/scrapeerr"
)

func newBase(t *testing.T, apiURL string) *Base {
	t.Helper()
	ext, err := extract.New(extract.DefaultPatterns())
	require.NoError(t, err)
	gh := github.NewClient(github.Config{BaseURL: apiURL})
	return New(Deps{
		Extractor: ext,
		GitHub:    gh,
		Miner:     github.NewMiner(gh, nil),
		UserAgent: "leadhunt-test",
	})
}

func TestFetchHTML(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "leadhunt-test", r.UserAgent())
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	t.Cleanup(srv.Close)
	b := newBase(t, srv.URL)

	body, err := b.FetchHTML(context.Background(), srv.URL+"/up")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)

	_, err = b.FetchHTML(context.Background(), srv.URL+"/down")
	assert.True(t, scrapeerr.Is(err, scrapeerr.KindNetwork))
}

func TestExtractGenericRecord(t *testing.T) {
	b := newBase(t, "")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div class="company-row">
			<h2>  Acme   Rockets </h2>
			<a href="https://twitter.com/acme">tw</a>
			<a href="https://acme.io">site</a>
			<p>Reusable rockets. Based in Germany</p>
		</div>
		<div class="company-row"><p>no heading</p></div>`))
	require.NoError(t, err)

	rows := doc.Find(".company-row")
	rec, ok := b.ExtractGenericRecord(rows.First())
	require.True(t, ok)
	assert.Equal(t, "Acme Rockets", rec.Name)
	assert.Equal(t, "https://acme.io", rec.Website)
	assert.Contains(t, rec.RawText, "Reusable rockets.")
	assert.Contains(t, rec.HTML, "company-row")

	_, ok = b.ExtractGenericRecord(rows.Last())
	assert.False(t, ok)
}

func TestBuildLeadMinesOnlyCodeHosts(t *testing.T) {
	t.Parallel()
	var repoCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widget":
			repoCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{"fork": false, "default_branch": "main"})
		case "/repos/acme/widget/commits":
			_ = json.NewEncoder(w).Encode([]map[string]any{{
				"commit": map[string]any{
					"author":    map[string]string{"email": "dev@acme.io"},
					"committer": map[string]string{"email": "noreply@github.com"},
				},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	b := newBase(t, srv.URL)

	rec := domain.ScrapedRecord{
		Name:    "Widget",
		Website: "https://github.com/acme/widget",
		RawText: "Widget toolkit, mail hello@widget.dev, based in Canada",
		HTML:    `<a href="https://www.linkedin.com/company/widget">in</a>`,
	}
	lead, err := b.BuildLead(context.Background(), rec, domain.CuratedListSource("x/awesome"))
	require.NoError(t, err)
	assert.Equal(t, "dev@acme.io", lead.GitHubEmail)
	assert.Equal(t, "hello@widget.dev", lead.Email)
	assert.Equal(t, "Canada", lead.Country)
	assert.Equal(t, "https://www.linkedin.com/company/widget", lead.LinkedIn)
	assert.Equal(t, rec.RawText, lead.Description)
	assert.EqualValues(t, 1, repoCalls.Load())

	rec.Website = "https://widget.dev"
	lead, err = b.BuildLead(context.Background(), rec, domain.WebsiteSource(rec.Website))
	require.NoError(t, err)
	assert.Empty(t, lead.GitHubEmail)
	assert.EqualValues(t, 1, repoCalls.Load(), "non code-host websites are not mined")

	_, err = b.BuildLead(context.Background(), domain.ScrapedRecord{Name: " "}, domain.DirectorySource())
	assert.True(t, scrapeerr.Is(err, scrapeerr.KindExtraction))
}

func TestIsValidProjectLink(t *testing.T) {
	cases := []struct {
		name, url string
		want      bool
	}{
		{"MyProject", "https://github.com/user/project", true},
		{"Contents", "#contents", false},
		{"Tool", "https://github.com/u/p#readme", false},
		{"", "https://github.com/user/project", false},
		{"Tool", "", false},
		{"Databases", "https://example.org/databases", false},
		{"Big Data tools", "https://example.org/bigdata", false},
		{"Tool", "http://ab", false},
		{"Mediator", "https://mediator.dev", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidProjectLink(tc.name, tc.url), "%s %s", tc.name, tc.url)
	}
}

func TestCleanProjectName(t *testing.T) {
	assert.Equal(t, "Awesome Project", CleanProjectName("🚀 Awesome Project 🎉"))
	assert.Equal(t, "spaced-name_123", CleanProjectName("  spaced-name_123  "))
	assert.Equal(t, "Node.js", CleanProjectName("**Node.js**"))
}

func TestSourceFromURL(t *testing.T) {
	assert.Equal(t, domain.CuratedListSource("x/awesome"), SourceFromURL("x/awesome", "https://github.com/u/p"))
	assert.Equal(t, domain.WebsiteSource("https://tool.io"), SourceFromURL("x/awesome", "https://tool.io"))
}
