package domain

import (
	"time"

	"github.com/google/uuid"
)

type SourceStats struct {
	Total       int     `json:"total"`
	WithContact int     `json:"with_contact"`
	ContactRate float64 `json:"contact_rate"`
}

type EmailTypes struct {
	Direct        int `json:"direct"`
	GitHubCommits int `json:"github_commits"`
	None          int `json:"none"`
}

// LeadStats is computed once per run from the full lead collection.
type LeadStats struct {
	TotalLeads       int                    `json:"total_leads"`
	ContactableLeads int                    `json:"contactable_leads"`
	ResearchLeads    int                    `json:"research_leads"`
	ContactRate      float64                `json:"contact_rate"`
	SourcesBreakdown map[string]SourceStats `json:"sources_breakdown"`
	Countries        map[string]int         `json:"countries"`
	EmailTypes       EmailTypes             `json:"email_types"`
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// ComputeStats derives LeadStats from the two partitions.
func ComputeStats(contactable, research []Lead) LeadStats {
	st := LeadStats{
		ContactableLeads: len(contactable),
		ResearchLeads:    len(research),
		TotalLeads:       len(contactable) + len(research),
		SourcesBreakdown: map[string]SourceStats{},
		Countries:        map[string]int{},
	}
	st.ContactRate = rate(st.ContactableLeads, st.TotalLeads)

	add := func(l Lead) {
		key := l.Source.Display()
		ss := st.SourcesBreakdown[key]
		ss.Total++
		if l.HasContact() {
			ss.WithContact++
		}
		st.SourcesBreakdown[key] = ss

		if l.Country != "" {
			st.Countries[l.Country]++
		}

		switch {
		case l.Email != "":
			st.EmailTypes.Direct++
		case l.GitHubEmail != "":
			st.EmailTypes.GitHubCommits++
		default:
			st.EmailTypes.None++
		}
	}
	for _, l := range contactable {
		add(l)
	}
	for _, l := range research {
		add(l)
	}

	for k, ss := range st.SourcesBreakdown {
		ss.ContactRate = rate(ss.WithContact, ss.Total)
		st.SourcesBreakdown[k] = ss
	}
	return st
}

// RunMetadata describes one scrape run for the output folder.
type RunMetadata struct {
	RunID            string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	DurationSeconds  float64   `json:"duration_seconds"`
	TotalLeads       int       `json:"total_leads"`
	ContactableLeads int       `json:"contactable_leads"`
	ContactRate      float64   `json:"contact_rate"`
	SourcesSucceeded int       `json:"sources_succeeded"`
	SourcesFailed    int       `json:"sources_failed"`
	FailedSources    []string  `json:"failed_sources,omitempty"`
}

func NewRunMetadata(started, finished time.Time, st LeadStats) RunMetadata {
	return RunMetadata{
		RunID:            uuid.NewString(),
		StartedAt:        started.UTC(),
		FinishedAt:       finished.UTC(),
		DurationSeconds:  finished.Sub(started).Seconds(),
		TotalLeads:       st.TotalLeads,
		ContactableLeads: st.ContactableLeads,
		ContactRate:      st.ContactRate,
	}
}
