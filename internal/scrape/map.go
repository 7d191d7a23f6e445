package scrape

import (
	"net/http"

	"go.uber.org/zap"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/extract"
	"leadhunt-engine/internal/github"
	"leadhunt-engine/internal/scrape/awesome"
	"leadhunt-engine/internal/scrape/base"
	"leadhunt-engine/internal/scrape/betalist"
	"leadhunt-engine/internal/scrape/types"
	"leadhunt-engine/internal/scrape/util"
	"leadhunt-engine/internal/scrape/ycombinator"
	"leadhunt-engine/internal/scrapeerr"
)

// NewBase builds the shared adapter dependencies from cfg. A bad pattern
// fails here, before any request is made.
func NewBase(cfg config.Config, githubToken string, log *zap.Logger) (*base.Base, error) {
	ext, err := extract.New(cfg.ExtractPatterns())
	if err != nil {
		return nil, scrapeerr.New(scrapeerr.KindExtraction, "initialize extractor", err)
	}

	hc := &http.Client{Timeout: cfg.Timeout()}
	gh := github.NewClient(github.Config{
		BaseURL:    cfg.Sources.GitHubAwesome.APIBase,
		Token:      githubToken,
		UserAgent:  github.DefaultUserAgent,
		Limiter:    util.NewHostLimiter(cfg.Scraper.GitHubRequestsPerSecond, cfg.Scraper.GitHubBurst),
		HTTPClient: hc,
	})

	return base.New(base.Deps{
		Extractor:  ext,
		GitHub:     gh,
		Miner:      github.NewMiner(gh, log.Named("github")),
		HTTPClient: hc,
		UserAgent:  cfg.Scraper.UserAgent,
		Logger:     log,
	}), nil
}

// BuildAdapters returns every source in its fixed run order. Disabled
// sources are included and skipped by the orchestrator.
func BuildAdapters(cfg config.Config, b *base.Base) []types.Adapter {
	yc := cfg.Sources.YCombinator
	gh := cfg.Sources.GitHubAwesome
	bl := cfg.Sources.BetaList

	return []types.Adapter{
		ycombinator.New(ycombinator.Config{
			Enabled:   yc.Enabled,
			BaseURL:   yc.BaseURL,
			Endpoints: yc.Endpoints,
			Delay:     config.Delay(yc.DelayMS),
		}, b),
		awesome.New(awesome.Config{
			Enabled:      gh.Enabled,
			Repositories: gh.Repositories,
			Delay:        config.Delay(gh.DelayMS),
		}, b),
		betalist.New(betalist.Config{
			Enabled:   bl.Enabled,
			BaseURL:   bl.BaseURL,
			Endpoints: bl.Endpoints,
			Delay:     config.Delay(bl.DelayMS),
		}, b),
	}
}
