package config

import (
	"fmt"
	"net/url"
	"strings"

	"leadhunt-engine/internal/extract"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong
// with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Sources.YCombinator.Endpoints = trimList(out.Sources.YCombinator.Endpoints)
	out.Sources.BetaList.Endpoints = trimList(out.Sources.BetaList.Endpoints)
	out.Sources.GitHubAwesome.Repositories = trimList(out.Sources.GitHubAwesome.Repositories)
	out.Patterns.Location.CountryIndicators = trimList(out.Patterns.Location.CountryIndicators)
	out.Scraper.GitHubToken = strings.TrimSpace(out.Scraper.GitHubToken)

	// ---- Validation rules ----

	if out.Scraper.TimeoutSeconds <= 0 {
		res.addErr("scraper.timeout_seconds must be > 0")
	} else if out.Scraper.TimeoutSeconds > 300 {
		res.addWarn("scraper.timeout_seconds is very high (%d); a dead host will stall its source that long.", out.Scraper.TimeoutSeconds)
	}
	if out.Scraper.GitHubRequestsPerSecond < 0 {
		res.addErr("scraper.github_requests_per_second must be >= 0")
	}

	checkDirectory := func(name string, s DirectorySource) {
		if !s.Enabled {
			return
		}
		if len(s.Endpoints) == 0 {
			res.addErr("sources.%s.endpoints is required when sources.%s.enabled=true", name, name)
		}
		if u, err := url.Parse(s.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			res.addErr("sources.%s.base_url must be an absolute http(s) URL", name)
		}
		if s.DelayMS < 0 {
			res.addErr("sources.%s.delay_ms must be >= 0", name)
		}
	}
	checkDirectory("ycombinator", out.Sources.YCombinator)
	checkDirectory("betalist", out.Sources.BetaList)

	if gh := out.Sources.GitHubAwesome; gh.Enabled {
		if len(gh.Repositories) == 0 {
			res.addErr("sources.github_awesome.repositories is required when sources.github_awesome.enabled=true")
		}
		for _, r := range gh.Repositories {
			if strings.Count(strings.Trim(r, "/"), "/") != 1 {
				res.addErr("sources.github_awesome.repositories: %q must look like owner/name", r)
			}
		}
		if gh.DelayMS < 0 {
			res.addErr("sources.github_awesome.delay_ms must be >= 0")
		}
		if out.Scraper.GitHubToken == "" {
			res.addWarn("scraper.github_token is empty; the GitHub API allows 60 unauthenticated requests per hour (a keyring or GITHUB_TOKEN value is still used if present).")
		}
	}

	if !out.Sources.YCombinator.Enabled && !out.Sources.GitHubAwesome.Enabled && !out.Sources.BetaList.Enabled {
		res.addWarn("No sources enabled: a run will produce no leads.")
	}

	if _, err := extract.New(out.ExtractPatterns()); err != nil {
		res.addErr("patterns: %v", err)
	}

	if out.Storage.Enabled && strings.TrimSpace(out.Storage.SQLitePath) == "" {
		res.addErr("storage.sqlite_path is required when storage.enabled=true")
	}
	if out.App.ScrapeEveryMinutes < 0 {
		res.addErr("app.scrape_every_minutes must be >= 0")
	}

	return out, res
}
