package wikitext

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// mdConverter is a pre-configured goldmark instance with GFM tables and
// strikethrough. goldmark instances are safe for concurrent use.
var mdConverter = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// mdPolicy makes converted markdown safe to embed as trusted module output.
var mdPolicy = bluemonday.UGCPolicy()

// evalMarkdown converts the body from markdown to sanitized HTML.
func evalMarkdown(call ModuleCall) ModuleOutput {
	if strings.TrimSpace(call.Body) == "" {
		return ModuleOutput{Kind: OutputNone}
	}

	var buf bytes.Buffer
	if err := mdConverter.Convert([]byte(call.Body), &buf); err != nil {
		call.Diag.Add(RuleInvalidMarkdown, call.Open, call.Span)
		return ModuleOutput{
			Kind:    OutputInline,
			Inlines: []Inline{textInline(call.Body)},
		}
	}

	html := mdPolicy.SanitizeBytes(buf.Bytes())
	return ModuleOutput{
		Kind:    OutputInline,
		Inlines: []Inline{htmlInline(`<div class="wt-markdown">` + strings.TrimSpace(string(html)) + `</div>`)},
	}
}
