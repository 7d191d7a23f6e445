// Package base holds the mechanics every source adapter shares: fetching,
// pacing, generic record extraction and lead assembly.
package base

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/extract"
	"leadhunt-engine/internal/github"
	"leadhunt-engine/internal/scrape/util"
	"leadhunt-engine/internal/scrapeerr"
)

// Deps are the shared, read-only collaborators handed to every adapter.
type Deps struct {
	Extractor  *extract.Extractor
	GitHub     *github.Client
	Miner      *github.Miner
	HTTPClient *http.Client
	UserAgent  string
	Logger     *zap.Logger
}

type Base struct {
	ext   *extract.Extractor
	gh    *github.Client
	miner *github.Miner
	hc    *http.Client
	ua    string
	log   *zap.Logger
}

func New(d Deps) *Base {
	hc := d.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gh := d.GitHub
	if gh == nil {
		gh = github.NewClient(github.Config{HTTPClient: hc, UserAgent: d.UserAgent})
	}
	return &Base{
		ext:   d.Extractor,
		gh:    gh,
		miner: d.Miner,
		hc:    hc,
		ua:    d.UserAgent,
		log:   log,
	}
}

// Named returns a copy logging under name.
func (b *Base) Named(name string) *Base {
	cp := *b
	cp.log = b.log.Named(name)
	return &cp
}

func (b *Base) Logger() *zap.Logger           { return b.log }
func (b *Base) Extractor() *extract.Extractor { return b.ext }
func (b *Base) GitHub() *github.Client        { return b.gh }

// FetchHTML GETs url and returns the body. Transport failures and non-2xx
// statuses are network errors.
func (b *Base) FetchHTML(ctx context.Context, url string) (string, error) {
	b.log.Debug("fetching", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", scrapeerr.Network("fetch "+url, err)
	}
	if b.ua != "" {
		req.Header.Set("User-Agent", b.ua)
	}

	res, err := b.hc.Do(req)
	if err != nil {
		return "", scrapeerr.Network("fetch "+url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", scrapeerr.Newf(scrapeerr.KindNetwork, "fetch "+url, "HTTP %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", scrapeerr.Network("read body "+url, err)
	}
	b.log.Debug("fetched", zap.String("url", url), zap.Int("bytes", len(body)))
	return string(body), nil
}

// FetchReadme fetches a contents-API URL and returns the decoded text.
func (b *Base) FetchReadme(ctx context.Context, contentsURL string) (string, error) {
	return b.gh.Contents(ctx, contentsURL)
}

var nameSelectors = []string{"h3", "h2", ".name", ".company-name", ".startup-name"}

// ExtractGenericRecord turns a listing element into a record. It reports
// false when no name selector yields text.
func (b *Base) ExtractGenericRecord(sel *goquery.Selection) (domain.ScrapedRecord, bool) {
	var name string
	for _, css := range nameSelectors {
		if name = util.CollapseSpace(sel.Find(css).First().Text()); name != "" {
			break
		}
	}
	if name == "" {
		return domain.ScrapedRecord{}, false
	}

	html, _ := goquery.OuterHtml(sel)
	return domain.ScrapedRecord{
		Name:    name,
		Website: b.ext.Website(html),
		RawText: extract.CleanText(sel.Text()),
		HTML:    html,
	}, true
}

// BuildLead enriches rec into a Lead. Commit mining runs only for
// code-host websites and fills GitHubEmail with the best address.
func (b *Base) BuildLead(ctx context.Context, rec domain.ScrapedRecord, source domain.Source) (domain.Lead, error) {
	lead, err := domain.NewLead(rec.Name, source)
	if err != nil {
		return domain.Lead{}, scrapeerr.New(scrapeerr.KindExtraction, "build lead", err)
	}

	linkedin, twitter := b.ext.SocialMedia(rec.RawText, rec.HTML)
	lead = lead.
		WithWebsite(rec.Website).
		WithEmail(b.ext.Email(rec.RawText, rec.HTML)).
		WithLinkedIn(linkedin).
		WithTwitter(twitter).
		WithCountry(b.ext.Country(rec.RawText, rec.Website)).
		WithDescription(rec.RawText)

	if b.miner != nil && util.IsCodeHost(lead.Website) {
		if emails := b.miner.CommitEmails(ctx, lead.Website); len(emails) > 0 {
			lead = lead.WithGitHubEmail(emails[0])
		}
	}
	return lead, nil
}

// RateLimit pauses between sequential requests.
func (b *Base) RateLimit(ctx context.Context, d time.Duration) error {
	return util.Sleep(ctx, d)
}

var categoryNames = []string{
	"platforms",
	"programming languages",
	"front-end development",
	"back-end development",
	"computer science",
	"big data",
	"theory",
	"books",
	"editors",
	"gaming",
	"development environment",
	"entertainment",
	"databases",
	"media",
	"learn",
	"security",
	"content management systems",
	"hardware",
	"business",
	"work",
	"networking",
	"decentralized systems",
	"health and social science",
	"events",
	"testing",
	"miscellaneous",
	"related",
	"contents",
}

// IsValidProjectLink rejects anchors, category headers and stub URLs in a
// curated list.
func IsValidProjectLink(name, url string) bool {
	if name == "" || url == "" {
		return false
	}
	if strings.HasPrefix(url, "#") || strings.Contains(url, "#readme") {
		return false
	}
	lower := strings.ToLower(name)
	for _, c := range categoryNames {
		if lower == c || strings.Contains(lower, c+" ") {
			return false
		}
	}
	return len(url) >= 10
}

// CleanProjectName keeps letters, digits, whitespace and "-_.".
func CleanProjectName(name string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune("-_.", r) {
			return r
		}
		return -1
	}, name))
}

// SourceFromURL attributes a curated-list project to its list when the
// project lives on a code host, otherwise to its own website.
func SourceFromURL(listRepo, projectURL string) domain.Source {
	if util.IsCodeHost(projectURL) {
		return domain.CuratedListSource(listRepo)
	}
	return domain.WebsiteSource(projectURL)
}

// ProjectHTML is the synthetic markup stored for a curated-list record.
func ProjectHTML(name, url, desc string) string {
	return fmt.Sprintf("<a href='%s'>%s</a> - %s", url, name, desc)
}
