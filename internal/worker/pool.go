// Package worker renders batches of independent documents concurrently.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// Job is one document to render.
type Job struct {
	ID    string
	Input string
	Page  wikitext.PageInfo
}

// Result is the outcome of one job. Exactly one of Output and Err is set.
type Result struct {
	ID     string
	Output *wikitext.Output
	Err    error
}

// Pool renders jobs with shared settings.
type Pool struct {
	Settings wikitext.Settings

	// Concurrency caps the number of renders in flight (<= 0 means one).
	Concurrency int
}

// RenderAll renders jobs and returns their results in job order. A fatal
// render error is recorded in that job's result and does not stop the
// batch. Cancelling ctx stops scheduling further jobs; the context error
// is returned along with results for the jobs that ran.
func (p *Pool) RenderAll(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	start := time.Now()

	limit := p.Concurrency
	if limit <= 0 {
		limit = 1
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	scheduled := 0
	for i := range jobs {
		if gctx.Err() != nil {
			break
		}
		scheduled++
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{ID: jobs[i].ID, Err: err}
				return err
			}
			out, err := wikitext.Render(jobs[i].Input, jobs[i].Page, p.Settings)
			results[i] = Result{ID: jobs[i].ID, Output: out, Err: err}
			return nil
		})
	}

	// gctx is always done once Wait returns; report the caller's context
	_ = group.Wait()
	err := ctx.Err()

	for i := scheduled; i < len(jobs); i++ {
		results[i] = Result{ID: jobs[i].ID, Err: err}
	}

	log.Debug().
		Int("jobs", len(jobs)).
		Int("concurrency", limit).
		Dur("elapsed", time.Since(start)).
		Msg("batch rendered")

	return results, err
}
