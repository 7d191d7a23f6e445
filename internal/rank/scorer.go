// Package rank orders leads for export and tags which contact channels
// each one carries.
package rank

import (
	"sort"

	"leadhunt-engine/internal/domain"
)

type Scorer interface {
	Score(lead domain.Lead) (score int, tags []string)
}

const (
	TagEmail       = "email"
	TagGitHubEmail = "github_email"
	TagLinkedIn    = "linkedin"
	TagTwitter     = "twitter"
	TagCountry     = "country"
)

// ContactScorer scores by domain.Lead.ContactScore and tags every filled
// contact field.
type ContactScorer struct{}

func (ContactScorer) Score(l domain.Lead) (int, []string) {
	var tags []string
	add := func(v, tag string) {
		if v != "" {
			tags = append(tags, tag)
		}
	}
	add(l.Email, TagEmail)
	add(l.GitHubEmail, TagGitHubEmail)
	add(l.LinkedIn, TagLinkedIn)
	add(l.Twitter, TagTwitter)
	add(l.Country, TagCountry)
	return l.ContactScore(), uniq(tags)
}

// ByContactScore returns a copy of leads ordered by descending score. Ties
// keep their input order.
func ByContactScore(leads []domain.Lead) []domain.Lead {
	return By(leads, ContactScorer{})
}

func By(leads []domain.Lead, s Scorer) []domain.Lead {
	out := append([]domain.Lead(nil), leads...)
	scores := make(map[int]int, len(out))
	for i := range out {
		scores[i], _ = s.Score(out[i])
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	sorted := make([]domain.Lead, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
