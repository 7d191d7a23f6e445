package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyName = errors.New("lead name is empty")

// Lead is one candidate organization or project. Optional fields are empty
// strings when absent. Build it with NewLead and the With* setters; each
// setter returns a copy.
type Lead struct {
	Name        string    `json:"name"`
	Website     string    `json:"website,omitempty"`
	Email       string    `json:"email,omitempty"`
	GitHubEmail string    `json:"github_email,omitempty"`
	LinkedIn    string    `json:"linkedin,omitempty"`
	Twitter     string    `json:"twitter,omitempty"`
	Source      Source    `json:"source"`
	Country     string    `json:"country,omitempty"`
	Description string    `json:"description,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// Contact score weights.
const (
	ScoreEmail       = 3
	ScoreGitHubEmail = 2
	ScoreLinkedIn    = 1
	ScoreTwitter     = 1
	MaxContactScore  = ScoreEmail + ScoreGitHubEmail + ScoreLinkedIn + ScoreTwitter
)

func NewLead(name string, source Source) (Lead, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Lead{}, ErrEmptyName
	}
	return Lead{Name: name, Source: source, ScrapedAt: time.Now().UTC()}, nil
}

func (l Lead) WithWebsite(v string) Lead     { l.Website = strings.TrimSpace(v); return l }
func (l Lead) WithEmail(v string) Lead       { l.Email = strings.TrimSpace(v); return l }
func (l Lead) WithGitHubEmail(v string) Lead { l.GitHubEmail = strings.TrimSpace(v); return l }
func (l Lead) WithLinkedIn(v string) Lead    { l.LinkedIn = strings.TrimSpace(v); return l }
func (l Lead) WithTwitter(v string) Lead     { l.Twitter = strings.TrimSpace(v); return l }
func (l Lead) WithCountry(v string) Lead     { l.Country = strings.TrimSpace(v); return l }
func (l Lead) WithDescription(v string) Lead { l.Description = strings.TrimSpace(v); return l }

func (l Lead) WithScrapedAt(t time.Time) Lead { l.ScrapedAt = t.UTC(); return l }

// HasContact reports whether a direct or commit-mined email is present.
func (l Lead) HasContact() bool {
	return l.Email != "" || l.GitHubEmail != ""
}

// ContactScore ranks leads for export. It does not decide contactability.
func (l Lead) ContactScore() int {
	score := 0
	if l.Email != "" {
		score += ScoreEmail
	}
	if l.GitHubEmail != "" {
		score += ScoreGitHubEmail
	}
	if l.LinkedIn != "" {
		score += ScoreLinkedIn
	}
	if l.Twitter != "" {
		score += ScoreTwitter
	}
	return score
}

// Partition splits leads into contactable and research sets, keeping order.
func Partition(leads []Lead) (contactable, research []Lead) {
	contactable = make([]Lead, 0, len(leads))
	research = make([]Lead, 0, len(leads))
	for _, l := range leads {
		if l.HasContact() {
			contactable = append(contactable, l)
		} else {
			research = append(research, l)
		}
	}
	return contactable, research
}
