package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/events"
	"leadhunt-engine/internal/httpapi"
	"leadhunt-engine/internal/runner"
	"leadhunt-engine/internal/scheduler"
	"leadhunt-engine/internal/scrapeerr"
	"leadhunt-engine/internal/store"
)

const dataDirEnv = "LEADHUNT_DATA_DIR"

type serveOptions struct {
	addr    string
	every   int
	dataDir string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, optionally scraping on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default app.addr)")
	cmd.Flags().IntVar(&opts.every, "every", -1, "minutes between scheduled runs, 0 disables (default app.scrape_every_minutes)")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory holding the user config (default $"+dataDirEnv+" or .)")
	return cmd
}

func serve(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dataDir := opts.dataDir
	if dataDir == "" {
		dataDir = os.Getenv(dataDirEnv)
	}
	if dataDir == "" {
		dataDir = "."
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir, root.configPath)
	if err != nil {
		return err
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		err = config.OverlayRepositories(&cfg, filepath.Join(dataDir, repositoriesFile))
		return cfg, err
	}
	cfg, err := loadCfg()
	if err != nil {
		return err
	}
	cfgVal.Store(cfg)

	log, err := root.logger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	r := &runner.Runner{Log: log}
	if cfg.Storage.Enabled {
		path := cfg.Storage.SQLitePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(dataDir, path)
		}
		db, err := store.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()
		r.DB = db.Pool
	}

	hub := events.NewHub()
	defer hub.Close()

	tracker := httpapi.NewTracker(func(ctx context.Context, reqID string, publish func(string)) (runner.Report, error) {
		cur := cfgVal.Load().(config.Config)
		out := cur.App.OutputDir
		if !filepath.IsAbs(out) {
			out = filepath.Join(dataDir, out)
		}
		return r.Run(ctx, cur, runner.Options{OutputBase: out, RequestID: reqID, Publish: publish})
	}, hub, log)

	deps := httpapi.Deps{
		DB:          r.DB,
		Hub:         hub,
		Log:         log.Named("http"),
		CfgVal:      &cfgVal,
		Tracker:     tracker,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		BaseCtx:     ctx,
	}
	mux := httpapi.NewMux(deps)

	addr := opts.addr
	if addr == "" {
		addr = cfg.App.Addr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return scrapeerr.Network("listen "+addr, err)
	}

	srv := &http.Server{
		Handler:           httpapi.Wrap(deps, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}

	token, err := httpapi.RandomToken(16)
	if err != nil {
		return err
	}
	mux.HandleFunc("/shutdown", httpapi.ShutdownHandler(token, shutdown))

	every := opts.every
	if every < 0 {
		every = cfg.App.ScrapeEveryMinutes
	}
	if every > 0 {
		go scheduler.Every(ctx, time.Duration(every)*time.Minute, "scrape", func(ctx context.Context) error {
			err := tracker.RunNow(ctx, "")
			if errors.Is(err, httpapi.ErrAlreadyRunning) {
				return nil
			}
			return err
		}, log.Named("scheduler"))
	}

	go func() {
		<-ctx.Done()
		shutdown()
	}()

	log.Info("engine listening",
		zap.String("addr", "http://"+ln.Addr().String()),
		zap.String("config", userCfgPath),
		zap.Int("scrape_every_minutes", every),
		zap.String("shutdown_token", token),
	)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return scrapeerr.Network("serve", err)
	}
	tracker.Wait()
	return nil
}
