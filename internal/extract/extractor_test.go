package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhunt-engine/internal/scrapeerr"
)

func newExtractor(t *testing.T, mutate ...func(*Patterns)) *Extractor {
	t.Helper()
	p := DefaultPatterns()
	for _, m := range mutate {
		m(&p)
	}
	e, err := New(p)
	require.NoError(t, err)
	return e
}

func TestNewRejectsBadPattern(t *testing.T) {
	p := DefaultPatterns()
	p.CountryIndicators = []string{"based in ([A-Z"}
	_, err := New(p)
	require.Error(t, err)
	assert.True(t, scrapeerr.Is(err, scrapeerr.KindRegex))
}

func TestEmailPrefersMailto(t *testing.T) {
	e := newExtractor(t)
	html := `<p>Write to <a href="mailto:founders@acme.io">us</a></p>`
	text := "Questions? sales@acme.io or founders@acme.io"

	assert.Equal(t, "founders@acme.io", e.Email(text, html))
}

func TestEmailNeverReturnsPlaceholders(t *testing.T) {
	e := newExtractor(t)
	cases := []struct {
		name       string
		text, html string
		want       string
	}{
		{"generic example", "mail me at you@example.com", "", ""},
		{"generic placeholder", "placeholder@acme.io", "", ""},
		// A placeholder mailto is rejected too, even though a mailto match is
		// otherwise taken as is; the text scan then gets its turn.
		{"mailto example falls back to text", "reach hi@acme.io", `<a href="mailto:me@example.org">x</a>`, "hi@acme.io"},
		{"plain hit", "ping team@acme.io today", "", "team@acme.io"},
		{"nothing", "no contact here", "<p>nope</p>", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Email(tc.text, tc.html)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, "example.")
			assert.NotContains(t, got, "placeholder")
		})
	}
}

func TestCountry(t *testing.T) {
	e := newExtractor(t, func(p *Patterns) {
		p.TLDCountries = map[string]string{".de": "Germany", ".co.uk": "United Kingdom", ".uk": "UK"}
	})

	assert.Equal(t, "Berlin", e.Country("We are based in Berlin", ""))
	assert.Equal(t, "Germany", e.Country("nothing here", "https://acme.de/about"))
	assert.Equal(t, "United Kingdom", e.Country("", "https://shop.acme.co.uk"))
	assert.Empty(t, e.Country("", "not a url"))
	assert.Empty(t, e.Country("", ""))
}

func TestWebsiteSelectorPriority(t *testing.T) {
	e := newExtractor(t)

	html := `<div>
		<a href="https://twitter.com/acme">tw</a>
		<a href="https://linkedin.com/company/acme">li</a>
		<a href="https://acme.io">site</a>
	</div>`
	assert.Equal(t, "https://acme.io", e.Website(html))

	scoped := `<div class="website"><a href="//acme.io">relative</a></div>
		<div class="url"><a href="ftp://acme.io">ftp</a></div>`
	assert.Empty(t, e.Website(scoped))
	assert.Empty(t, e.Website(""))
}

func TestSocialMedia(t *testing.T) {
	e := newExtractor(t)

	li, tw := e.SocialMedia("", `<a href="http://www.linkedin.com/company/acme-inc">in</a> <a href="https://x.com/acmehq">x</a>`)
	assert.Equal(t, "https://www.linkedin.com/company/acme-inc", li)
	assert.Equal(t, "https://twitter.com/acmehq", tw)

	li, tw = e.SocialMedia("find us at linkedin.com/in/jane-doe and @janedoe", "")
	assert.Equal(t, "https://linkedin.com/in/jane-doe", li)
	assert.Equal(t, "https://twitter.com/janedoe", tw)
}

func TestTwitterRejectsDomainHandles(t *testing.T) {
	e := newExtractor(t)

	_, tw := e.SocialMedia("follow @twitter", "")
	assert.Empty(t, tw)

	_, tw = e.SocialMedia("mail hi@acme.io", "")
	assert.Empty(t, tw, "email domains are not handles")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Hello World", CleanText("  Hello \n\n World 😀 "))
	assert.Equal(t, "", CleanText("\n \n"))
	assert.Equal(t, "caf", CleanText("café"))
}
