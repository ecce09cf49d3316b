package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/internal/config"
	"github.com/open-cli-collective/wikitext-cli/internal/view"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// stdinName is the source name used for standard input.
const stdinName = "stdin"

// ioOptions carries what every document command takes from the root command.
type ioOptions struct {
	output  string
	noColor bool
	cfg     *config.Config
	stdin   io.Reader
	stdout  io.Writer
}

func (o *ioOptions) load(cmd *cobra.Command) error {
	o.output, _ = cmd.Flags().GetString("output")
	o.noColor, _ = cmd.Flags().GetBool("no-color")

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("output") && cfg.OutputFormat != "" {
		o.output = cfg.OutputFormat
	}

	o.cfg = cfg
	o.stdin = cmd.InOrStdin()
	o.stdout = cmd.OutOrStdout()
	return nil
}

func (o *ioOptions) config() *config.Config {
	if o.cfg == nil {
		return &config.Config{}
	}
	return o.cfg
}

func (o *ioOptions) renderer() (*view.Renderer, error) {
	if err := view.ValidateFormat(o.output); err != nil {
		return nil, err
	}
	r := view.NewRenderer(view.Format(o.output), o.noColor)
	if o.stdout != nil {
		r.SetWriter(o.stdout)
	}
	return r, nil
}

// engineOptions are flags that adjust the engine settings from config.
type engineOptions struct {
	mode       string
	preprocess bool
	strict     bool
}

func (e *engineOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&e.mode, "mode", "m", "", "syntax mode: "+modeNames())
	cmd.Flags().BoolVar(&e.preprocess, "preprocess", false, "normalize newlines, tabs and blank lines first")
	cmd.Flags().BoolVar(&e.strict, "strict-inline", false, "warn about unclosed inline markers")
}

func (e *engineOptions) settings(cfg *config.Config) (wikitext.Settings, error) {
	s := cfg.Settings()
	if e.mode != "" {
		m, err := wikitext.ParseMode(e.mode)
		if err != nil {
			return s, err
		}
		s.Mode = m
	}
	if e.preprocess {
		s.Preprocess = true
	}
	if e.strict {
		s.StrictInline = true
	}
	return s, nil
}

func modeNames() string {
	names := make([]string, 0, len(wikitext.Modes()))
	for _, m := range wikitext.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// pageOptions are the page info flags.
type pageOptions struct {
	slug     string
	altSlug  string
	title    string
	altTitle string
	locale   string
	language string
	score    float64
	tags     []string
}

func (p *pageOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.slug, "slug", "", "page slug (default: file name)")
	cmd.Flags().StringVar(&p.altSlug, "alt-slug", "", "alternate slug")
	cmd.Flags().StringVar(&p.title, "title", "", "page title (default: slug)")
	cmd.Flags().StringVar(&p.altTitle, "alt-title", "", "alternate title")
	cmd.Flags().StringVar(&p.locale, "locale", "C", "page locale")
	cmd.Flags().StringVar(&p.language, "lang", "default", "page language")
	cmd.Flags().Float64Var(&p.score, "score", 0, "page score")
	cmd.Flags().StringSliceVar(&p.tags, "tag", nil, "page tag (repeatable)")
}

// pageFor builds the page info of a source. Slug and title fall back to
// the source name.
func (p *pageOptions) pageFor(name string) wikitext.PageInfo {
	info := wikitext.PageInfo{
		Slug:     p.slug,
		Title:    p.title,
		Locale:   p.locale,
		Language: p.language,
		Score:    p.score,
		Tags:     p.tags,
	}
	if info.Slug == "" {
		info.Slug = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if info.Title == "" {
		info.Title = info.Slug
	}
	if p.altSlug != "" {
		info.AltSlug = wikitext.StringPtr(p.altSlug)
	}
	if p.altTitle != "" {
		info.AltTitle = wikitext.StringPtr(p.altTitle)
	}
	return info
}

// source is one input document.
type source struct {
	name string
	text string
}

// readSources reads each named file. No names, or "-", means stdin.
func readSources(names []string, stdin io.Reader) ([]source, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}

	sources := make([]source, 0, len(names))
	for _, name := range names {
		if name == "-" {
			if stdin == nil {
				stdin = os.Stdin
			}
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			sources = append(sources, source{name: stdinName, text: string(data)})
			continue
		}

		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		sources = append(sources, source{name: name, text: string(data)})
	}
	return sources, nil
}
