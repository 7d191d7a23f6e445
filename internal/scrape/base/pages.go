package base

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"leadhunt-engine/internal/domain"
)

// ParseFunc turns one fetched page into records in document order.
type ParseFunc func(html string) ([]domain.ScrapedRecord, error)

// ScrapePages fetches each url in order, pausing delay between requests.
// A failed page is logged and skipped. Cancellation aborts the loop; the
// leads built so far are still returned with ctx.Err().
func (b *Base) ScrapePages(ctx context.Context, urls []string, delay time.Duration, parse ParseFunc, src domain.Source) ([]domain.Lead, error) {
	var leads []domain.Lead
	for i, u := range urls {
		if i > 0 {
			if err := b.RateLimit(ctx, delay); err != nil {
				return leads, err
			}
		}

		html, err := b.FetchHTML(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return leads, ctx.Err()
			}
			b.log.Warn("endpoint fetch failed", zap.String("url", u), zap.Error(err))
			continue
		}

		recs, err := parse(html)
		if err != nil {
			b.log.Warn("endpoint parse failed", zap.String("url", u), zap.Error(err))
			continue
		}

		before := len(leads)
		for _, rec := range recs {
			lead, err := b.BuildLead(ctx, rec, src)
			if err != nil {
				b.log.Debug("record skipped", zap.String("name", rec.Name), zap.Error(err))
				continue
			}
			leads = append(leads, lead)
		}
		b.log.Debug("endpoint processed",
			zap.String("url", u),
			zap.Int("records", len(recs)),
			zap.Int("leads", len(leads)-before),
		)
	}
	return leads, nil
}

// FirstMatch returns the matches of the first selector that hits at least
// one element, and that selector. Later selectors are not tried even when
// the winning elements yield no usable records.
func FirstMatch(doc *goquery.Document, selectors []string) (*goquery.Selection, string) {
	for _, css := range selectors {
		if found := doc.Find(css); found.Length() > 0 {
			return found, css
		}
	}
	return nil, ""
}
