package awesome

import (
	"context"
	"encoding/base64"
	"encoding/json"
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

const readme = `
# Awesome List

## Projects

- [Awesome Project](https://github.com/user/awesome-project) - A really awesome project
- [Cool Tool](https://cooltool.com) - Tool for doing cool things, contact hi@cooltool.com
- [Contents](#contents) - Navigation link
`

func TestParseFiltersNavigation(t *testing.T) {
	recs := Parse("- [Awesome Project](https://github.com/user/awesome-project) - desc\n- [Contents](#contents)\n")
	require.Len(t, recs, 1)
	assert.Equal(t, "Awesome Project", recs[0].Name)
	assert.Equal(t, "https://github.com/user/awesome-project", recs[0].Website)
	assert.Equal(t, "desc", recs[0].RawText)
	assert.Equal(t, "<a href='https://github.com/user/awesome-project'>Awesome Project</a> - desc", recs[0].HTML)
}

func TestParseSkipsNavigationLines(t *testing.T) {
	doc := `## [Tools](https://example.org/tools-section)
- [Table of contents](https://example.org/toc)
- [awesome-go](https://github.com/avelino/awesome-go) - another list
- [Back](https://github.com/sindresorhus/awesome)
- [Databases](https://example.org/databases)
- 🚀 [Rocket](https://rocket.dev)`

	recs := Parse(doc)
	require.Len(t, recs, 1)
	assert.Equal(t, "Rocket", recs[0].Name)
	assert.Equal(t, noDescription, recs[0].RawText)
}

func TestParseKeepsDocumentOrder(t *testing.T) {
	recs := Parse(readme)
	require.Len(t, recs, 2)
	assert.Equal(t, "Awesome Project", recs[0].Name)
	assert.Equal(t, "Cool Tool", recs[1].Name)
}

func TestParseNothing(t *testing.T) {
	assert.Empty(t, Parse("# Title\n\nplain prose only"))
}

func encoded(s string) string {
	b, _ := json.Marshal(map[string]string{"content": base64.StdEncoding.EncodeToString([]byte(s)), "encoding": "base64"})
	return string(b)
}

func TestScrapeFallsBackToCapitalizedReadme(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/list/one/contents/README.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(encoded(readme)))
	})
	mux.HandleFunc("/repos/user/awesome-project", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fork":false,"default_branch":"main"}`))
	})
	mux.HandleFunc("/repos/user/awesome-project/commits", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"commit":{"author":{"email":"dev@awesome.dev"},"committer":{"email":"noreply@github.com"}}}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := New(Config{
		Enabled:      true,
		Repositories: []string{"list/missing", "list/one"},
		Delay:        time.Millisecond,
	}, scrapetest.Base(t, srv.URL, zap.NewNop()))

	leads, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)

	gh := leads[0]
	assert.Equal(t, domain.CuratedListSource("list/one"), gh.Source)
	assert.Equal(t, "dev@awesome.dev", gh.GitHubEmail)
	assert.True(t, gh.HasContact())

	site := leads[1]
	assert.Equal(t, domain.WebsiteSource("https://cooltool.com"), site.Source)
	assert.Equal(t, "hi@cooltool.com", site.Email)
	assert.Empty(t, site.GitHubEmail)
}

func TestAdapterContract(t *testing.T) {
	s := New(Config{Enabled: true, Repositories: []string{"a/b", "c/d"}}, scrapetest.Base(t, "", zap.NewNop()))
	assert.Equal(t, "GitHub Awesome", s.Name())
	n, ok := s.ExpectedLeads()
	assert.True(t, ok)
	assert.Equal(t, 400, n)
}
