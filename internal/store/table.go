package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"leadhunt-engine/internal/domain"
)

// Row is a stored lead as served by the API.
type Row struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Website      string        `json:"website,omitempty"`
	Email        string        `json:"email,omitempty"`
	GitHubEmail  string        `json:"github_email,omitempty"`
	LinkedIn     string        `json:"linkedin,omitempty"`
	Twitter      string        `json:"twitter,omitempty"`
	Source       domain.Source `json:"source"`
	Country      string        `json:"country,omitempty"`
	Description  string        `json:"description,omitempty"`
	ContactScore int           `json:"contact_score"`
	Tags         []string      `json:"tags"`
	ScrapedAt    time.Time     `json:"scraped_at"`
}

type ListLeadsOpts struct {
	Sort            string // score | name | date
	ContactableOnly bool
	Source          string // display label, empty for all
	Limit           int
}

const schemaVersion = 1

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	stmts := []string{`
CREATE TABLE IF NOT EXISTS leads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  lead_key TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  website TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  github_email TEXT NOT NULL DEFAULT '',
  linkedin TEXT NOT NULL DEFAULT '',
  twitter TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL,
  source_json TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  contact_score INTEGER NOT NULL DEFAULT 0,
  tags TEXT NOT NULL DEFAULT '[]',
  scraped_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS runs (
  run_id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  total_leads INTEGER NOT NULL,
  contactable_leads INTEGER NOT NULL,
  sources_succeeded INTEGER NOT NULL,
  sources_failed INTEGER NOT NULL,
  failed_sources TEXT NOT NULL DEFAULT '[]'
);`,
		`CREATE INDEX IF NOT EXISTS idx_leads_scraped_at ON leads(scraped_at);`,
		`CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
		fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion),
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func ListLeads(ctx context.Context, db *sql.DB, opts ListLeadsOpts) ([]Row, error) {
	// whitelisted; never interpolate caller input
	order := map[string]string{
		"score": "contact_score DESC, id ASC",
		"name":  "name COLLATE NOCASE ASC, id ASC",
		"date":  "scraped_at DESC, id DESC",
	}[opts.Sort]
	if order == "" {
		order = "contact_score DESC, id ASC"
	}
	if opts.Limit <= 0 || opts.Limit > 5000 {
		opts.Limit = 500
	}

	where := "WHERE 1=1"
	var args []any
	if opts.ContactableOnly {
		where += " AND (email != '' OR github_email != '')"
	}
	if opts.Source != "" {
		where += " AND source = ?"
		args = append(args, opts.Source)
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, name, website, email, github_email, linkedin, twitter, source_json,
       country, description, contact_score, tags, scraped_at
FROM leads
%s
ORDER BY %s
LIMIT ?;
`, where, order)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var (
			r                 Row
			srcJSON, tagsJSON string
			scraped           string
		)
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Website, &r.Email, &r.GitHubEmail, &r.LinkedIn, &r.Twitter,
			&srcJSON, &r.Country, &r.Description, &r.ContactScore, &tagsJSON, &scraped,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(srcJSON), &r.Source)
		_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
		r.ScrapedAt, _ = time.Parse(time.RFC3339, scraped)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Counts summarizes the stored leads.
type Counts struct {
	Total       int `json:"total"`
	Contactable int `json:"contactable"`
	Runs        int `json:"runs"`
}

func CountLeads(ctx context.Context, db *sql.DB) (Counts, error) {
	var c Counts
	err := db.QueryRowContext(ctx, `
SELECT
  (SELECT COUNT(*) FROM leads),
  (SELECT COUNT(*) FROM leads WHERE email != '' OR github_email != ''),
  (SELECT COUNT(*) FROM runs);`).Scan(&c.Total, &c.Contactable, &c.Runs)
	return c, err
}
