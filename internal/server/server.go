// Package server implements the HTTP render worker.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/wikitext-cli/api"
	"github.com/open-cli-collective/wikitext-cli/internal/logging"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// shutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr        string
	Settings    wikitext.Settings
	Concurrency int
	CacheSize   int
}

// Server serves render requests over HTTP.
type Server struct {
	settings    wikitext.Settings
	concurrency int
	cache       *renderCache
	router      *gin.Engine
	server      *http.Server
}

// New creates a server. It does not start listening.
func New(opts Options) *Server {
	s := &Server{
		settings:    opts.Settings,
		concurrency: opts.Concurrency,
		cache:       newRenderCache(opts.CacheSize),
	}

	s.server = &http.Server{
		Addr: opts.Addr,
		// caps how long a client can take to send the headers
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.setupRouter()

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// CacheStats reports render cache usage.
func (s *Server) CacheStats() CacheStats {
	return s.cache.Stats()
}

func (s *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware())

	router.GET(api.PingPath, func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})
	router.POST(api.RenderPath, s.render)
	router.POST(api.RenderBatchPath, s.renderBatch)

	s.router = router
	s.server.Handler = router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Str("addr", s.server.Addr).Msg("render worker listening")

		err := s.server.ListenAndServe()
		// ErrServerClosed is returned once shutdown begins
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	group.Go(func() error {
		<-ctx.Done()

		log.Info().Msg("render worker: graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("cannot shut down render worker gracefully")
			return err
		}

		log.Info().Msg("render worker stopped")
		return nil
	})

	return group.Wait()
}

// settingsFor applies a per-request mode override.
func (s *Server) settingsFor(mode string) (wikitext.Settings, error) {
	settings := s.settings
	if mode == "" {
		return settings, nil
	}
	m, err := wikitext.ParseMode(mode)
	if err != nil {
		return settings, err
	}
	settings.Mode = m
	return settings, nil
}
