package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/open-cli-collective/wikitext-cli/api"
	"github.com/open-cli-collective/wikitext-cli/internal/logging"
	"github.com/open-cli-collective/wikitext-cli/internal/worker"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// ErrBatchCancelled is reported when a batch is interrupted before all
// documents were rendered.
var ErrBatchCancelled = errors.New("batch cancelled")

func (s *Server) render(ctx *gin.Context) {
	var req api.RenderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, api.NewErrorResponse(err))
		return
	}

	settings, err := s.settingsFor(req.Mode)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, api.NewErrorResponse(err))
		return
	}

	key := keyOf(settings.Mode, req.Input, req.Page)
	if out, ok := s.cache.Get(key); ok {
		ctx.JSON(http.StatusOK, api.RenderResponse{Output: *out, Cached: true})
		return
	}

	out, err := wikitext.Render(req.Input, req.Page, settings)
	if err != nil {
		log.Warn().
			Err(err).
			Str("request_id", logging.RequestID(ctx)).
			Str("slug", req.Page.Slug).
			Msg("render failed")
		ctx.JSON(http.StatusUnprocessableEntity, api.NewErrorResponse(err))
		return
	}
	s.cache.Put(key, out)

	ctx.JSON(http.StatusOK, api.RenderResponse{Output: *out})
}

func (s *Server) renderBatch(ctx *gin.Context) {
	var req api.BatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, api.NewErrorResponse(err))
		return
	}

	settings, err := s.settingsFor(req.Mode)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, api.NewErrorResponse(err))
		return
	}

	results := make([]api.BatchResult, len(req.Documents))
	keys := make([]cacheKey, len(req.Documents))

	// Serve what the cache has; render the rest through the pool
	var jobs []worker.Job
	var pending []int
	for i, doc := range req.Documents {
		results[i].ID = doc.ID
		keys[i] = keyOf(settings.Mode, doc.Input, doc.Page)
		if out, ok := s.cache.Get(keys[i]); ok {
			results[i].Output = out
			continue
		}
		jobs = append(jobs, worker.Job{ID: doc.ID, Input: doc.Input, Page: doc.Page})
		pending = append(pending, i)
	}

	pool := &worker.Pool{Settings: settings, Concurrency: s.concurrency}
	rendered, err := pool.RenderAll(ctx.Request.Context(), jobs)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, api.NewErrorResponse(errors.Join(ErrBatchCancelled, err)))
		return
	}

	for j, res := range rendered {
		i := pending[j]
		if res.Err != nil {
			results[i].Error = res.Err.Error()
			continue
		}
		results[i].Output = res.Output
		s.cache.Put(keys[i], res.Output)
	}

	log.Debug().
		Str("request_id", logging.RequestID(ctx)).
		Int("documents", len(req.Documents)).
		Int("rendered", len(jobs)).
		Msg("batch served")

	ctx.JSON(http.StatusOK, api.BatchResponse{Results: results})
}
