package store

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/rank"
	"leadhunt-engine/internal/scrape/util"
)

// LeadKey identifies a lead within one source. The same company found by
// two sources is stored twice.
func LeadKey(l domain.Lead) string {
	site := util.CanonicalizeURL(l.Website)
	sum := sha1.Sum([]byte(l.Source.Display() + "|" + strings.ToLower(strings.TrimSpace(l.Name)) + "|" + site))
	return hex.EncodeToString(sum[:])
}

// InsertLeadIfNew stores l unless its key exists. For an existing lead,
// empty contact fields are backfilled from l.
func InsertLeadIfNew(ctx context.Context, db *sql.DB, l domain.Lead) (bool, error) {
	key := LeadKey(l)
	if l.ScrapedAt.IsZero() {
		l.ScrapedAt = time.Now().UTC()
	}
	srcJSON, err := json.Marshal(l.Source)
	if err != nil {
		return false, err
	}
	score, tags := rank.ContactScorer{}.Score(l)
	tagsJSON, _ := json.Marshal(tags)

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO leads(lead_key, name, website, email, github_email, linkedin, twitter,
  source, source_json, country, description, contact_score, tags, scraped_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		key,
		l.Name,
		l.Website,
		l.Email,
		l.GitHubEmail,
		l.LinkedIn,
		l.Twitter,
		l.Source.Display(),
		string(srcJSON),
		l.Country,
		l.Description,
		score,
		string(tagsJSON),
		l.ScrapedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}

	if !l.HasContact() && l.LinkedIn == "" && l.Twitter == "" {
		return false, nil
	}
	// already stored; fill gaps only, then rescore from the merged row
	if _, err := db.ExecContext(ctx, `
UPDATE leads SET
  email        = CASE WHEN email = '' THEN ? ELSE email END,
  github_email = CASE WHEN github_email = '' THEN ? ELSE github_email END,
  linkedin     = CASE WHEN linkedin = '' THEN ? ELSE linkedin END,
  twitter      = CASE WHEN twitter = '' THEN ? ELSE twitter END
WHERE lead_key = ?;`,
		l.Email, l.GitHubEmail, l.LinkedIn, l.Twitter, key,
	); err != nil {
		return false, err
	}
	return false, rescore(ctx, db, key)
}

func rescore(ctx context.Context, db *sql.DB, key string) error {
	var (
		merged domain.Lead
		src    string
	)
	err := db.QueryRowContext(ctx, `
SELECT name, email, github_email, linkedin, twitter, country, source_json
FROM leads WHERE lead_key = ?;`, key).Scan(
		&merged.Name, &merged.Email, &merged.GitHubEmail, &merged.LinkedIn, &merged.Twitter, &merged.Country, &src)
	if err != nil {
		return err
	}
	_ = json.Unmarshal([]byte(src), &merged.Source)
	score, tags := rank.ContactScorer{}.Score(merged)
	tagsJSON, _ := json.Marshal(tags)
	_, err = db.ExecContext(ctx, `UPDATE leads SET contact_score = ?, tags = ? WHERE lead_key = ?;`,
		score, string(tagsJSON), key)
	return err
}

// SaveLeads inserts every lead and returns how many were new.
func SaveLeads(ctx context.Context, db *sql.DB, leads []domain.Lead) (int, error) {
	added := 0
	for _, l := range leads {
		ok, err := InsertLeadIfNew(ctx, db, l)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// InsertRun records one run's metadata.
func InsertRun(ctx context.Context, db *sql.DB, m domain.RunMetadata) error {
	failed, _ := json.Marshal(m.FailedSources)
	if m.FailedSources == nil {
		failed = []byte("[]")
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO runs(run_id, started_at, finished_at, total_leads, contactable_leads,
  sources_succeeded, sources_failed, failed_sources)
VALUES(?,?,?,?,?,?,?,?);`,
		m.RunID,
		m.StartedAt.UTC().Format(time.RFC3339),
		m.FinishedAt.UTC().Format(time.RFC3339),
		m.TotalLeads,
		m.ContactableLeads,
		m.SourcesSucceeded,
		m.SourcesFailed,
		string(failed),
	)
	return err
}

// LatestRun returns the most recent run, or ok=false when none exists.
func LatestRun(ctx context.Context, db *sql.DB) (domain.RunMetadata, bool, error) {
	var (
		m                 domain.RunMetadata
		started, finished string
		failed            string
	)
	err := db.QueryRowContext(ctx, `
SELECT run_id, started_at, finished_at, total_leads, contactable_leads,
       sources_succeeded, sources_failed, failed_sources
FROM runs ORDER BY started_at DESC LIMIT 1;`).Scan(
		&m.RunID, &started, &finished, &m.TotalLeads, &m.ContactableLeads,
		&m.SourcesSucceeded, &m.SourcesFailed, &failed)
	if err == sql.ErrNoRows {
		return m, false, nil
	}
	if err != nil {
		return m, false, err
	}
	m.StartedAt, _ = time.Parse(time.RFC3339, started)
	m.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	m.DurationSeconds = m.FinishedAt.Sub(m.StartedAt).Seconds()
	if m.TotalLeads > 0 {
		m.ContactRate = float64(m.ContactableLeads) / float64(m.TotalLeads) * 100
	}
	_ = json.Unmarshal([]byte(failed), &m.FailedSources)
	return m, true, nil
}
