// Package cli implements the leadhunt command line.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/logger"
	"leadhunt-engine/internal/scrapeerr"
)

const (
	DefaultConfigPath = "config/scraper.yaml"
	repositoriesFile  = "repositories.yaml"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "leadhunt",
		Short:         "Collect startup leads and their contact details",
		Long:          "leadhunt scrapes startup directories and curated lists, extracts contact details and writes ranked lead files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newRunCommand(opts),
		newServeCommand(opts),
		newSecretsCommand(),
		newConfigCommand(opts),
	)
	return cmd
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig reads path, falling back to defaults when the file does not
// exist, and applies a repositories.yaml next to it.
func (o *rootOptions) loadConfig(log *zap.Logger) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		log.Warn("config file not found, using defaults", zap.String("path", o.configPath))
		cfg = config.Defaults()
	}
	overlay := filepath.Join(filepath.Dir(o.configPath), repositoriesFile)
	if err := config.OverlayRepositories(&cfg, overlay); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (o *rootOptions) logger(cfg config.Config) (*zap.Logger, error) {
	lc := cfg.Logging
	if o.verbose {
		lc.Level = "debug"
	}
	l, err := logger.New(lc)
	if err != nil {
		return nil, scrapeerr.Config("logger", err)
	}
	return l, nil
}

// bootstrapLogger is used before the config is known.
func (o *rootOptions) bootstrapLogger() *zap.Logger {
	l, err := o.logger(config.Defaults())
	if err != nil {
		return zap.NewNop()
	}
	return l
}
