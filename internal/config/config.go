package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"leadhunt-engine/internal/extract"
	"leadhunt-engine/internal/logger"
	"leadhunt-engine/internal/scrapeerr"
)

type DirectorySource struct {
	Enabled   bool     `yaml:"enabled"`
	BaseURL   string   `yaml:"base_url"`
	Endpoints []string `yaml:"endpoints"`
	// DelayMS overrides the source's default pause between requests.
	DelayMS int `yaml:"delay_ms,omitempty"`
}

type CuratedSource struct {
	Enabled      bool     `yaml:"enabled"`
	Repositories []string `yaml:"repositories"`
	APIBase      string   `yaml:"api_base"`
	DelayMS      int      `yaml:"delay_ms,omitempty"`
}

type Config struct {
	App struct {
		DataDir            string `yaml:"data_dir"`
		OutputDir          string `yaml:"output_dir"`
		Addr               string `yaml:"addr"`
		ScrapeEveryMinutes int    `yaml:"scrape_every_minutes"`
	} `yaml:"app"`

	Scraper struct {
		TimeoutSeconds          int     `yaml:"timeout_seconds"`
		UserAgent               string  `yaml:"user_agent"`
		GitHubToken             string  `yaml:"github_token,omitempty"`
		ParallelSources         bool    `yaml:"parallel_sources"`
		GitHubRequestsPerSecond float64 `yaml:"github_requests_per_second"`
		GitHubBurst             int     `yaml:"github_burst"`
	} `yaml:"scraper"`

	Sources struct {
		YCombinator   DirectorySource `yaml:"ycombinator"`
		GitHubAwesome CuratedSource   `yaml:"github_awesome"`
		BetaList      DirectorySource `yaml:"betalist"`
	} `yaml:"sources"`

	Patterns struct {
		Email struct {
			Mailto  string `yaml:"mailto"`
			Generic string `yaml:"generic"`
		} `yaml:"email"`
		Location struct {
			CountryIndicators []string `yaml:"country_indicators"`
		} `yaml:"location"`
		TLDMapping map[string]string `yaml:"tld_mapping"`
	} `yaml:"patterns"`

	Logging logger.Config `yaml:"logging"`

	Storage struct {
		Enabled    bool   `yaml:"enabled"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
}

// Defaults is the configuration written on first run.
func Defaults() Config {
	var c Config
	c.App.DataDir = "."
	c.App.OutputDir = "results"
	c.App.Addr = "127.0.0.1:38471"
	c.App.ScrapeEveryMinutes = 0

	c.Scraper.TimeoutSeconds = 30
	c.Scraper.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	c.Scraper.GitHubRequestsPerSecond = 1
	c.Scraper.GitHubBurst = 5

	c.Sources.YCombinator = DirectorySource{
		Enabled:   true,
		BaseURL:   "https://www.ycombinator.com",
		Endpoints: []string{"/companies"},
	}
	c.Sources.GitHubAwesome = CuratedSource{
		Enabled:      true,
		Repositories: []string{"mmccaff/PlacesToPostYourStartup"},
		APIBase:      "https://api.github.com",
	}
	c.Sources.BetaList = DirectorySource{
		Enabled:   true,
		BaseURL:   "https://betalist.com",
		Endpoints: []string{"/startups"},
	}

	p := extract.DefaultPatterns()
	c.Patterns.Email.Mailto = p.Mailto
	c.Patterns.Email.Generic = p.Generic
	c.Patterns.Location.CountryIndicators = p.CountryIndicators
	c.Patterns.TLDMapping = map[string]string{
		".de":    "Germany",
		".fr":    "France",
		".uk":    "United Kingdom",
		".co.uk": "United Kingdom",
		".ca":    "Canada",
		".in":    "India",
		".nl":    "Netherlands",
		".se":    "Sweden",
		".es":    "Spain",
		".au":    "Australia",
	}

	c.Logging.Level = logger.DefaultLevel
	c.Storage.SQLitePath = "leadhunt.db"
	return c
}

// Load reads path over Defaults, so omitted keys keep their default.
func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, scrapeerr.Config("read "+path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, scrapeerr.Config("parse "+path, err)
	}
	return cfg, nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// ExtractPatterns hands the pattern section to the extractor.
func (c Config) ExtractPatterns() extract.Patterns {
	return extract.Patterns{
		Mailto:            c.Patterns.Email.Mailto,
		Generic:           c.Patterns.Email.Generic,
		CountryIndicators: c.Patterns.Location.CountryIndicators,
		TLDCountries:      c.Patterns.TLDMapping,
	}
}

// Delay converts a per-source delay_ms override; zero means the default.
func Delay(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
