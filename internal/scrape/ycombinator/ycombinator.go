package ycombinator

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/scrape/base"
	"leadhunt-engine/internal/scrape/util"
	"leadhunt-engine/internal/scrapeerr"
)

const (
	DefaultBaseURL = "https://www.ycombinator.com"
	DefaultDelay   = 500 * time.Millisecond
	leadsPerPage   = 100
)

type Config struct {
	Enabled   bool
	BaseURL   string   // https://www.ycombinator.com
	Endpoints []string // /companies?batch=W24
	Delay     time.Duration
}

// listing selectors, most specific first; "tr" catches table layouts
var selectors = []string{
	".company-row",
	".company",
	".startup-item",
	"[data-company]",
	"tr",
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
	return &Scraper{cfg: cfg, b: b.Named("ycombinator")}
}

func (s *Scraper) Name() string  { return domain.DirectorySource().Display() }
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
	leads, err := s.b.ScrapePages(ctx, urls, s.cfg.Delay, s.Parse, domain.DirectorySource())
	if err != nil {
		return leads, err
	}
	s.b.Logger().Info("scrape complete", zap.Int("leads", len(leads)))
	return leads, nil
}

// Parse extracts company records from a directory listing page.
func (s *Scraper) Parse(html string) ([]domain.ScrapedRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrapeerr.Parse("ycombinator: parse html", err)
	}

	found, css := base.FirstMatch(doc, selectors)
	if found == nil {
		s.b.Logger().Debug("no listing elements matched")
		return nil, nil
	}

	var out []domain.ScrapedRecord
	found.Each(func(_ int, el *goquery.Selection) {
		if rec, ok := s.b.ExtractGenericRecord(el); ok {
			out = append(out, rec)
		}
	})
	s.b.Logger().Debug("page parsed",
		zap.String("selector", css),
		zap.Int("elements", found.Length()),
		zap.Int("records", len(out)),
	)
	return out, nil
}
