// Package serve provides the command that runs the HTTP render worker.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/internal/config"
	"github.com/open-cli-collective/wikitext-cli/internal/server"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

type serveOptions struct {
	addr        string
	mode        string
	concurrency int
	cacheSize   int
	cfg         *config.Config
}

// NewCmdServe creates the serve command.
func NewCmdServe() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render worker",
		Long: `Run a render worker that renders documents over HTTP.

Routes:
  GET  /ping              liveness check
  POST /v1/render         render one document
  POST /v1/render/batch   render several documents concurrently

Identical requests are answered from an in-memory cache. The worker stops
gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve on the default address
  wtr serve

  # Serve forum posts on all interfaces
  wtr serve --addr :8420 --mode forum-post --concurrency 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Resolve(path)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: "+config.DefaultAddr+")")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "default syntax mode")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "renders in flight per batch")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 0, "cached renders (negative disables the cache)")

	return cmd
}

// options merges flags over config.
func (o *serveOptions) options() (server.Options, error) {
	cfg := config.Config{}
	if o.cfg != nil {
		cfg = *o.cfg
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.concurrency > 0 {
		cfg.Concurrency = o.concurrency
	}
	if o.cacheSize != 0 {
		cfg.CacheSize = o.cacheSize
	}
	cfg.ApplyDefaults()

	settings := cfg.Settings()
	if o.mode != "" {
		m, err := wikitext.ParseMode(o.mode)
		if err != nil {
			return server.Options{}, err
		}
		settings.Mode = m
	}

	cacheSize := cfg.CacheSize
	if cacheSize < 0 {
		cacheSize = 0
	}

	return server.Options{
		Addr:        cfg.Addr,
		Settings:    settings,
		Concurrency: cfg.Concurrency,
		CacheSize:   cacheSize,
	}, nil
}

func runServe(ctx context.Context, opts *serveOptions) error {
	srvOpts, err := opts.options()
	if err != nil {
		return err
	}

	log.Info().
		Str("mode", string(srvOpts.Settings.Mode)).
		Int("concurrency", srvOpts.Concurrency).
		Int("cache_size", srvOpts.CacheSize).
		Msg("starting render worker")

	return server.New(srvOpts).Run(ctx)
}
