package betalist

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/extract"
	"leadhunt-engine/internal/scrape/base"
	"leadhunt-engine/internal/scrape/util"
	"leadhunt-engine/internal/scrapeerr"
)

const (
	DefaultBaseURL = "https://betalist.com"
	// BetaList throttles harder than the other sources.
	DefaultDelay = 800 * time.Millisecond
	leadsPerPage = 30
	detailPath   = "/startups/"
)

type Config struct {
	Enabled   bool
	BaseURL   string
	Endpoints []string
	Delay     time.Duration
}

// startup cards carry ids like "startup-124183"
var selectors = []string{
	"div[id^='startup-']",
	".block[id^='startup-']",
	"div[id*='startup']",
}

var nameSelectors = []string{
	"a[href*='/startups/'] .font-medium",
	"a[href*='/startups/']",
	".font-medium",
	"h3",
	"h2",
	".name",
}

type Scraper struct {
	cfg Config
	b   *base.Base
}

func New(cfg Config, b *base.Base) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	return &Scraper{cfg: cfg, b: b.Named("betalist")}
}

func (s *Scraper) Name() string  { return domain.StartupDirectorySource().Display() }
func (s *Scraper) Enabled() bool { return s.cfg.Enabled }

func (s *Scraper) ExpectedLeads() (int, bool) {
	return len(s.cfg.Endpoints) * leadsPerPage, true
}

func (s *Scraper) Scrape(ctx context.Context) ([]domain.Lead, error) {
	urls := make([]string, 0, len(s.cfg.Endpoints))
	for _, ep := range s.cfg.Endpoints {
		urls = append(urls, util.JoinURL(s.cfg.BaseURL, ep))
	}

	s.b.Logger().Info("scrape started", zap.Int("endpoints", len(urls)))
	leads, err := s.b.ScrapePages(ctx, urls, s.cfg.Delay, s.Parse, domain.StartupDirectorySource())
	if err != nil {
		return leads, err
	}
	s.b.Logger().Info("scrape complete", zap.Int("leads", len(leads)))
	return leads, nil
}

// Parse extracts startup cards from a listing page.
func (s *Scraper) Parse(html string) ([]domain.ScrapedRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrapeerr.Parse("betalist: parse html", err)
	}

	found, css := base.FirstMatch(doc, selectors)
	if found == nil {
		s.b.Logger().Debug("no startup cards matched")
		return nil, nil
	}

	var out []domain.ScrapedRecord
	found.Each(func(_ int, el *goquery.Selection) {
		if rec, ok := s.extractRecord(el); ok {
			out = append(out, rec)
		} else {
			id, _ := el.Attr("id")
			s.b.Logger().Debug("card without name", zap.String("id", id))
		}
	})
	s.b.Logger().Debug("page parsed",
		zap.String("selector", css),
		zap.Int("elements", found.Length()),
		zap.Int("records", len(out)),
	)
	return out, nil
}

// extractRecord reads a startup card. An external link wins over the
// BetaList detail page.
func (s *Scraper) extractRecord(el *goquery.Selection) (domain.ScrapedRecord, bool) {
	var name, detail string
	for _, css := range nameSelectors {
		n := el.Find(css).First()
		if n.Length() == 0 {
			continue
		}
		candidate := util.CollapseSpace(n.Text())
		if len(candidate) <= 2 {
			continue
		}
		name = candidate
		detail = s.detailLink(n)
		break
	}
	if name == "" {
		return domain.ScrapedRecord{}, false
	}

	html, _ := goquery.OuterHtml(el)
	website := s.b.Extractor().Website(html)
	if website == "" {
		website = detail
	}
	return domain.ScrapedRecord{
		Name:    name,
		Website: website,
		RawText: extract.CleanText(el.Text()),
		HTML:    html,
	}, true
}

func (s *Scraper) detailLink(n *goquery.Selection) string {
	a := n
	if !a.Is("a") {
		a = n.Closest("a")
	}
	href, ok := a.Attr("href")
	if !ok || !strings.Contains(href, detailPath) {
		return ""
	}
	return util.Absolutize(s.cfg.BaseURL, href)
}
