package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"leadhunt-engine/internal/runner"
	"leadhunt-engine/internal/store"
)

type runOptions struct {
	output      string
	folderName  string
	noTimestamp bool
	parallel    bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every enabled source once and write the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base directory (default app.output_dir)")
	cmd.Flags().StringVar(&opts.folderName, "folder-name", "", "name appended to the timestamped folder")
	cmd.Flags().BoolVar(&opts.noTimestamp, "no-timestamp", false, "write directly into the output directory")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "run sources concurrently")
	return cmd
}

func runOnce(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	cfg, err := root.loadConfig(root.bootstrapLogger())
	if err != nil {
		return err
	}
	if opts.parallel {
		cfg.Scraper.ParallelSources = true
	}

	log, err := root.logger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	r := &runner.Runner{Log: log}
	if cfg.Storage.Enabled {
		db, err := store.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		r.DB = db.Pool
	}

	log.Info("starting lead scrape", zap.String("config", root.configPath))
	rep, err := r.Run(cmd.Context(), cfg, runner.Options{
		OutputBase:  opts.output,
		FolderName:  opts.folderName,
		NoTimestamp: opts.noTimestamp,
	})
	if err != nil {
		return err
	}

	RenderSummary(cmd.OutOrStdout(), rep)
	return nil
}
