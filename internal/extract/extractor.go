package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadhunt-engine/internal/scrapeerr"
)

// Patterns are the configurable pattern strings the extractor compiles once.
type Patterns struct {
	Mailto            string
	Generic           string
	CountryIndicators []string
	TLDCountries      map[string]string
}

// DefaultPatterns mirrors the defaults written by config bootstrap.
func DefaultPatterns() Patterns {
	return Patterns{
		Mailto:            `mailto:([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
		Generic:           `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`,
		CountryIndicators: []string{`based in ([A-Za-z\s]+)`},
		TLDCountries:      map[string]string{},
	}
}

type tldEntry struct {
	suffix  string
	country string
}

// Extractor pulls contact and identity fields out of raw text and markup.
// It holds only compiled patterns and is safe for concurrent use.
type Extractor struct {
	mailto    *regexp.Regexp
	generic   *regexp.Regexp
	countries []*regexp.Regexp
	tlds      []tldEntry
}

func New(p Patterns) (*Extractor, error) {
	e := &Extractor{}
	var err error

	if e.mailto, err = regexp.Compile(p.Mailto); err != nil {
		return nil, scrapeerr.Regex("compile mailto pattern", err)
	}
	if e.generic, err = regexp.Compile(p.Generic); err != nil {
		return nil, scrapeerr.Regex("compile generic email pattern", err)
	}
	for _, raw := range p.CountryIndicators {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, scrapeerr.Regex("compile country pattern "+raw, err)
		}
		e.countries = append(e.countries, re)
	}

	for suffix, country := range p.TLDCountries {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		e.tlds = append(e.tlds, tldEntry{suffix: suffix, country: strings.TrimSpace(country)})
	}
	sort.Slice(e.tlds, func(i, j int) bool {
		a, b := e.tlds[i].suffix, e.tlds[j].suffix
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return e, nil
}

func isPlaceholder(email string) bool {
	return strings.Contains(email, "example.") || strings.Contains(email, "placeholder")
}

// Email prefers a mailto link in html, then the first generic address in text.
func (e *Extractor) Email(text, html string) string {
	if m := e.mailto.FindStringSubmatch(html); len(m) > 1 && m[1] != "" && !isPlaceholder(m[1]) {
		return m[1]
	}
	if m := e.generic.FindString(text); m != "" && !isPlaceholder(m) {
		return m
	}
	return ""
}

// Country tries the indicator patterns in order, then the website's TLD.
func (e *Extractor) Country(text, website string) string {
	for _, re := range e.countries {
		m := re.FindStringSubmatch(text)
		if len(m) > 1 {
			if c := strings.TrimSpace(m[1]); c != "" {
				return c
			}
		}
	}

	if website == "" || len(e.tlds) == 0 {
		return ""
	}
	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, t := range e.tlds {
		if strings.HasSuffix(host, t.suffix) {
			return t.country
		}
	}
	return ""
}

var websiteSelectors = []string{
	"a[href*='http']:not([href*='twitter']):not([href*='linkedin']):not([href*='facebook'])",
	".website a",
	".url a",
	"a.external",
}

// Website returns the first anchor href, by selector priority, that is an
// absolute http(s) URL.
func (e *Extractor) Website(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return WebsiteIn(doc.Selection)
}

// WebsiteIn is Website over an already parsed selection.
func WebsiteIn(sel *goquery.Selection) string {
	for _, css := range websiteSelectors {
		var found string
		sel.Find(css).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, ok := a.Attr("href")
			if ok && IsWebURL(href) {
				found = strings.TrimSpace(href)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// IsWebURL reports whether raw parses as an absolute http or https URL.
func IsWebURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

var linkedinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/in/([a-zA-Z0-9-]+)`),
	regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/company/([a-zA-Z0-9-]+)`),
	regexp.MustCompile(`(?:www\.)?linkedin\.com/in/([a-zA-Z0-9-]+)`),
	regexp.MustCompile(`(?:www\.)?linkedin\.com/company/([a-zA-Z0-9-]+)`),
}

var twitterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?(?:twitter\.com|x\.com)/([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`(?:twitter\.com|x\.com)/([a-zA-Z0-9_]+)`),
	// a handle must not sit inside an email address
	regexp.MustCompile(`(?:^|[^a-zA-Z0-9._%+-])@([a-zA-Z0-9_]+)`),
}

// SocialMedia finds a LinkedIn URL and a Twitter URL. Each pattern is
// tried against html before text; the first hit wins.
func (e *Extractor) SocialMedia(text, html string) (linkedin, twitter string) {
	return LinkedIn(text, html), Twitter(text, html)
}

func LinkedIn(text, html string) string {
	for _, re := range linkedinPatterns {
		for _, s := range [2]string{html, text} {
			if m := re.FindString(s); m != "" {
				return "https://" + stripScheme(m)
			}
		}
	}
	return ""
}

func Twitter(text, html string) string {
	for _, re := range twitterPatterns {
		for _, s := range [2]string{html, text} {
			m := re.FindStringSubmatch(s)
			if len(m) < 2 {
				continue
			}
			handle := m[1]
			if handle == "" || handle == "twitter" || handle == "x" {
				continue
			}
			return "https://twitter.com/" + handle
		}
	}
	return ""
}

func stripScheme(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[i+3:]
	}
	return u
}
