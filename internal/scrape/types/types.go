package types

import (
	"context"

	"leadhunt-engine/internal/domain"
)

// Adapter is one lead source. Scrape keeps whatever it extracted even when
// some endpoints fail. It errors only on cancellation, and then still returns
// the leads extracted before the cut.
type Adapter interface {
	Name() string
	Enabled() bool
	// ExpectedLeads is a progress estimate, not a guarantee.
	ExpectedLeads() (int, bool)
	Scrape(ctx context.Context) ([]domain.Lead, error)
}
