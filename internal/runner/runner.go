// Package runner performs one complete scrape: build the adapters, run
// them, write the output folder and record the leads.
package runner

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/export"
	"leadhunt-engine/internal/logger"
	"leadhunt-engine/internal/scrape"
	"leadhunt-engine/internal/scrape/base"
	"leadhunt-engine/internal/scrape/types"
	"leadhunt-engine/internal/scrapeerr"
	"leadhunt-engine/internal/secrets"
	"leadhunt-engine/internal/store"
)

type Options struct {
	OutputBase  string
	FolderName  string
	NoTimestamp bool
	RequestID   string
	Publish     func(string)
}

// Report describes a finished run.
type Report struct {
	Result      scrape.Result
	Metadata    domain.RunMetadata
	OutputDir   string
	Added       int
	TokenOrigin secrets.Origin
	Warnings    []string
}

type Runner struct {
	Log *zap.Logger
	// DB is optional; leads are only exported to files without it.
	DB *sql.DB
	// Adapters overrides scrape.BuildAdapters.
	Adapters func(cfg config.Config, b *base.Base) []types.Adapter
}

func (r *Runner) Run(ctx context.Context, cfg config.Config, opt Options) (Report, error) {
	log := logger.OrNop(r.Log)
	var rep Report

	cfg, v := config.NormalizeAndValidate(cfg)
	rep.Warnings = v.Warnings
	for _, w := range v.Warnings {
		log.Warn("config warning", zap.String("warning", w))
	}
	if !v.OK() {
		return rep, scrapeerr.Config("validate", errors.New(strings.Join(v.Errors, "; ")))
	}

	token, origin := secrets.ResolveGitHubToken(cfg)
	rep.TokenOrigin = origin
	log.Debug("github token resolved", zap.String("origin", string(origin)), zap.Bool("present", token != ""))

	b, err := scrape.NewBase(cfg, token, log)
	if err != nil {
		return rep, err
	}
	build := r.Adapters
	if build == nil {
		build = scrape.BuildAdapters
	}

	outBase := opt.OutputBase
	if outBase == "" {
		outBase = cfg.App.OutputDir
	}
	unlock, err := export.Lock(outBase)
	if err != nil {
		return rep, err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Warn("output unlock failed", zap.Error(err))
		}
	}()

	orch := scrape.NewOrchestrator(build(cfg, b), scrape.Options{
		Parallel:  cfg.Scraper.ParallelSources,
		Publish:   opt.Publish,
		Logger:    log,
		RequestID: opt.RequestID,
	})
	res, err := orch.Run(ctx)
	if err != nil {
		return rep, err
	}
	rep.Result = res
	rep.Metadata = res.Metadata()

	dir, err := export.OutputDir(outBase, opt.FolderName, opt.NoTimestamp, res.StartedAt)
	if err != nil {
		return rep, err
	}
	rep.OutputDir = dir
	if err := export.WriteRun(dir, export.Run{
		All:         res.Leads,
		Contactable: res.Contactable,
		Research:    res.Research,
		Stats:       res.Stats,
		Metadata:    rep.Metadata,
	}); err != nil {
		return rep, err
	}
	log.Info("results saved", zap.String("dir", dir))

	if r.DB != nil {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Minute)
		defer cancel()
		added, err := store.SaveLeads(sctx, r.DB, res.Leads)
		rep.Added = added
		if err == nil {
			err = store.InsertRun(sctx, r.DB, rep.Metadata)
		}
		if err != nil {
			return rep, scrapeerr.IO("store leads", err)
		}
		log.Info("leads stored", zap.Int("added", added))
	}
	return rep, nil
}
