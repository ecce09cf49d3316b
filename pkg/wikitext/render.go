// Package wikitext renders wikitext markup into an HTML body, stylesheet
// fragments, page metadata and a list of warnings.
//
// Rendering never fails on malformed markup. Problems are repaired and
// reported as warnings; only invalid page info, oversized input and
// excessive nesting abort a render.
package wikitext

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Output is the result of a successful render. Slices are never nil.
type Output struct {
	Body     string      `json:"body"`
	Styles   []string    `json:"styles"`
	Meta     []MetaEntry `json:"meta"`
	Warnings []Warning   `json:"warnings"`
}

// Render converts input into HTML for the page described by info.
// It holds no state and is safe for concurrent use.
func Render(input string, info PageInfo, settings Settings) (*Output, error) {
	start := time.Now()

	if err := info.Validate(); err != nil {
		return nil, err
	}

	doc, err := parse(input, &info, settings)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Body:     renderHTML(doc.blocks, settings.grammar()),
		Styles:   doc.styles,
		Meta:     SynthesizeMeta(&info, doc.meta),
		Warnings: doc.warnings,
	}
	if out.Styles == nil {
		out.Styles = []string{}
	}

	log.Debug().
		Str("slug", info.Slug).
		Str("mode", string(settings.Mode)).
		Int("input_bytes", len(input)).
		Int("warnings", len(out.Warnings)).
		Dur("elapsed", time.Since(start)).
		Msg("rendered")

	return out, nil
}

// Parse lexes, parses and evaluates input without generating HTML.
// Page-bound modules see placeholder page info.
func Parse(input string, settings Settings) (*Document, error) {
	doc, err := parse(input, placeholderPage(), settings)
	if err != nil {
		return nil, err
	}
	blocks := doc.blocks
	if blocks == nil {
		blocks = []Block{}
	}
	return &Document{Blocks: blocks, Warnings: doc.warnings}, nil
}

type parsed struct {
	blocks   []Block
	styles   []string
	meta     []MetaEntry
	warnings []Warning
}

func parse(input string, info *PageInfo, settings Settings) (*parsed, error) {
	if settings.MaxInputBytes > 0 && len(input) > settings.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(input), settings.MaxInputBytes)
	}
	if settings.Preprocess {
		input = Preprocess(input)
	}

	grammar := settings.grammar()
	diag := NewDiagnostics(settings.Severity)

	ev := &evaluator{
		grammar: grammar,
		mode:    settings.Mode,
		page:    info,
		diag:    diag,
	}
	blocks, err := parseBlocks(NewLexer(input, grammar), settings, diag, ev)
	if err != nil {
		return nil, err
	}

	return &parsed{
		blocks:   blocks,
		styles:   ev.styles,
		meta:     ev.meta,
		warnings: diag.Warnings(),
	}, nil
}
