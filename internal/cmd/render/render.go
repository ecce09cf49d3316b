// Package render provides the commands that work on wikitext documents.
package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/api"
	"github.com/open-cli-collective/wikitext-cli/internal/config"
	"github.com/open-cli-collective/wikitext-cli/internal/view"
	"github.com/open-cli-collective/wikitext-cli/internal/worker"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

type renderOptions struct {
	ioOptions
	engine       engineOptions
	page         pageOptions
	remote       bool
	serverURL    string
	markdown     bool
	placeholders bool
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render wikitext to HTML",
		Long: `Render wikitext documents to an HTML body, stylesheet fragments and page
metadata. Problems in the markup are reported as warnings and never stop
the render.

Files are rendered concurrently. With no file, or "-", input is read from
stdin. With --remote the documents are sent to a render worker (see
"wtr serve"); the worker's own mode and limits then apply unless --mode
is given.`,
		Example: `  # Render a file
  wtr render page.wt --title "My page"

  # Render stdin as a forum post and print only the body
  echo '**hi**' | wtr render --mode forum-post -o plain

  # Render as markdown
  wtr render page.wt --markdown

  # Render on a worker
  wtr render a.wt b.wt --remote --server http://localhost:8420`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			return runRender(cmd.Context(), opts, args, nil)
		},
	}

	opts.engine.addFlags(cmd)
	opts.page.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "render on a render worker")
	cmd.Flags().StringVar(&opts.serverURL, "server", "", "render worker URL (default: server_url from config)")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "convert the body to markdown")
	cmd.Flags().BoolVar(&opts.placeholders, "show-placeholders", false, "keep unknown modules as [NAME] in markdown")

	return cmd
}

// docResult is the outcome of rendering one source.
type docResult struct {
	name string
	out  *wikitext.Output
	err  error
}

func runRender(ctx context.Context, opts *renderOptions, args []string, client *api.Client) error {
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := opts.renderer()
	if err != nil {
		return err
	}

	sources, err := readSources(args, opts.stdin)
	if err != nil {
		return err
	}

	var results []docResult
	if opts.remote {
		if client == nil {
			client, err = newClient(opts.serverURL, opts.config())
			if err != nil {
				return err
			}
		}
		results, err = renderRemote(ctx, client, opts, sources)
	} else {
		results, err = renderLocal(ctx, opts, sources)
	}
	if err != nil {
		return err
	}

	if opts.markdown {
		if err := toMarkdown(results, opts.placeholders); err != nil {
			return err
		}
	}

	if len(results) == 1 {
		if results[0].err != nil {
			return results[0].err
		}
		return r.RenderOutput(results[0].out)
	}
	return printResults(r, results)
}

func newClient(serverURL string, cfg *config.Config) (*api.Client, error) {
	if serverURL == "" {
		serverURL = cfg.ServerURL
	}
	if serverURL == "" {
		return nil, errors.New("no render worker configured (use --server or set server_url)")
	}
	return api.NewClient(serverURL).WithRequestID(uuid.NewString()), nil
}

func renderLocal(ctx context.Context, opts *renderOptions, sources []source) ([]docResult, error) {
	settings, err := opts.engine.settings(opts.config())
	if err != nil {
		return nil, err
	}

	jobs := make([]worker.Job, len(sources))
	for i, src := range sources {
		jobs[i] = worker.Job{ID: src.name, Input: src.text, Page: opts.page.pageFor(src.name)}
	}

	pool := &worker.Pool{Settings: settings, Concurrency: opts.config().Concurrency}
	if pool.Concurrency == 0 {
		pool.Concurrency = config.DefaultConcurrency
	}

	rendered, err := pool.RenderAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	results := make([]docResult, len(rendered))
	for i, res := range rendered {
		results[i] = docResult{name: res.ID, out: res.Output, err: res.Err}
	}
	return results, nil
}

func renderRemote(ctx context.Context, client *api.Client, opts *renderOptions, sources []source) ([]docResult, error) {
	if opts.engine.mode != "" {
		if _, err := wikitext.ParseMode(opts.engine.mode); err != nil {
			return nil, err
		}
	}

	if len(sources) == 1 {
		src := sources[0]
		resp, err := client.Render(ctx, &api.RenderRequest{
			Input: src.text,
			Page:  opts.page.pageFor(src.name),
			Mode:  opts.engine.mode,
		})
		if err != nil {
			return nil, err
		}
		return []docResult{{name: src.name, out: &resp.Output}}, nil
	}

	req := &api.BatchRequest{Mode: opts.engine.mode}
	for i, src := range sources {
		req.Documents = append(req.Documents, api.BatchDocument{
			ID:    strconv.Itoa(i),
			Input: src.text,
			Page:  opts.page.pageFor(src.name),
		})
	}

	resp, err := client.RenderBatch(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) != len(sources) {
		return nil, fmt.Errorf("render worker returned %d results for %d documents", len(resp.Results), len(sources))
	}

	results := make([]docResult, len(sources))
	for i, res := range resp.Results {
		results[i] = docResult{name: sources[i].name, out: res.Output}
		if res.Error != "" {
			results[i] = docResult{name: sources[i].name, err: errors.New(res.Error)}
		}
	}
	return results, nil
}

func toMarkdown(results []docResult, placeholders bool) error {
	for i := range results {
		if results[i].out == nil {
			continue
		}
		md, err := wikitext.ToMarkdownWithOptions(results[i].out.Body, wikitext.ExportOptions{ShowPlaceholders: placeholders})
		if err != nil {
			return fmt.Errorf("%s: %w", results[i].name, err)
		}
		out := *results[i].out
		out.Body = md
		results[i].out = &out
	}
	return nil
}

// printResults prints several results. A failed document does not stop the
// others from printing, but makes the command fail.
func printResults(r *view.Renderer, results []docResult) error {
	failed := 0

	if r.Format() == view.FormatJSON {
		type fileOutput struct {
			File   string           `json:"file"`
			Output *wikitext.Output `json:"output,omitempty"`
			Error  string           `json:"error,omitempty"`
		}
		out := make([]fileOutput, 0, len(results))
		for _, res := range results {
			entry := fileOutput{File: res.name, Output: res.out}
			if res.err != nil {
				entry.Error = res.err.Error()
				failed++
			}
			out = append(out, entry)
		}
		if err := r.RenderJSON(out); err != nil {
			return err
		}
	} else {
		for i, res := range results {
			if i > 0 {
				r.RenderText("")
			}
			r.RenderText(fmt.Sprintf("==> %s <==", res.name))
			if res.err != nil {
				r.Error(res.err.Error())
				failed++
				continue
			}
			if err := r.RenderOutput(res.out); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to render", failed, len(results))
	}
	return nil
}
