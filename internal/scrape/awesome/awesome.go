// Package awesome mines project links out of curated "awesome" lists
// hosted as repository READMEs.
package awesome

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/scrape/base"
	"leadhunt-engine/internal/scrapeerr"
)

const (
	DefaultDelay  = 1000 * time.Millisecond
	leadsPerList  = 200
	noDescription = "No description"
)

var readmePaths = []string{"readme.md", "README.md"}

// link patterns in priority order; group 1 name, 2 url, 3 optional description
var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)(?:\s*[-–—]\s*(.+))?`),
	regexp.MustCompile(`[-*]\s*(?:[^\[\]]*\s+)?\[([^\]]+)\]\(([^)]+)\)(?:\s*[-–—]\s*(.+))?`),
	regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`),
}

var linkTarget = regexp.MustCompile(`\]\([^)]*\)`)

type Config struct {
	Enabled      bool
	Repositories []string // owner/name
	Delay        time.Duration
}

type Scraper struct {
	cfg Config
	b   *base.Base
}

func New(cfg Config, b *base.Base) *Scraper {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	return &Scraper{cfg: cfg, b: b.Named("awesome")}
}

func (s *Scraper) Name() string  { return "GitHub Awesome" }
func (s *Scraper) Enabled() bool { return s.cfg.Enabled }

func (s *Scraper) ExpectedLeads() (int, bool) {
	return len(s.cfg.Repositories) * leadsPerList, true
}

func (s *Scraper) Scrape(ctx context.Context) ([]domain.Lead, error) {
	log := s.b.Logger()
	var all []domain.Lead

	for i, repo := range s.cfg.Repositories {
		if i > 0 {
			if err := s.b.RateLimit(ctx, s.cfg.Delay); err != nil {
				return all, err
			}
		}

		leads, err := s.scrapeRepository(ctx, repo)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			// one unreadable list must not sink the others
			log.Warn("repository skipped", zap.String("repo", repo), zap.Error(err))
			continue
		}
		log.Info("repository scraped", zap.String("repo", repo), zap.Int("leads", len(leads)))
		all = append(all, leads...)
	}
	return all, nil
}

func (s *Scraper) scrapeRepository(ctx context.Context, repo string) ([]domain.Lead, error) {
	content, err := s.fetchReadme(ctx, repo)
	if err != nil {
		return nil, err
	}

	var leads []domain.Lead
	for _, rec := range Parse(content) {
		lead, err := s.b.BuildLead(ctx, rec, base.SourceFromURL(repo, rec.Website))
		if err != nil {
			s.b.Logger().Debug("record skipped", zap.String("name", rec.Name), zap.Error(err))
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// fetchReadme tries the lower-case path first, then the capitalized one.
func (s *Scraper) fetchReadme(ctx context.Context, repo string) (string, error) {
	var lastErr error
	for _, p := range readmePaths {
		u := s.b.GitHub().ContentsURL(repo, p)
		content, err := s.b.FetchReadme(ctx, u)
		if err == nil {
			return content, nil
		}
		s.b.Logger().Debug("readme fetch failed", zap.String("url", u), zap.Error(err))
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", scrapeerr.New(scrapeerr.KindNetwork, "awesome: fetch readme "+repo, lastErr)
}

// Parse extracts project records from a curated-list markdown document.
// The first link pattern yielding any valid record wins for the whole
// document, so overlapping patterns never double count a line.
func Parse(content string) []domain.ScrapedRecord {
	lines := strings.Split(content, "\n")
	for _, re := range linkPatterns {
		var out []domain.ScrapedRecord
		for _, line := range lines {
			if isNavigation(line) {
				continue
			}
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if rec, ok := recordFromMatch(m); ok {
				out = append(out, rec)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func recordFromMatch(m []string) (domain.ScrapedRecord, bool) {
	name := strings.TrimSpace(m[1])
	url := strings.TrimSpace(m[2])
	desc := noDescription
	if len(m) > 3 {
		if d := strings.TrimSpace(m[3]); d != "" {
			desc = d
		}
	}

	if !base.IsValidProjectLink(name, url) {
		return domain.ScrapedRecord{}, false
	}
	clean := base.CleanProjectName(name)
	if clean == "" {
		return domain.ScrapedRecord{}, false
	}
	return domain.ScrapedRecord{
		Name:    clean,
		Website: url,
		RawText: desc,
		HTML:    base.ProjectHTML(name, url, desc),
	}, true
}

// isNavigation flags headings, table-of-contents entries, links to other
// lists and links back to the list-of-lists root. Only the visible text is
// checked for "contents" and "awesome-" so a project whose URL slug starts
// with awesome- still counts.
func isNavigation(line string) bool {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return true
	}
	if strings.Contains(line, "github.com/sindresorhus") {
		return true
	}
	visible := linkTarget.ReplaceAllString(line, "]")
	return strings.Contains(visible, "contents") || strings.Contains(visible, "awesome-")
}
