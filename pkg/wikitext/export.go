package wikitext

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

// ExportOptions configures the HTML to markdown conversion.
type ExportOptions struct {
	// ShowPlaceholders keeps the content of unknown directives and modules
	// as a bracketed name instead of dropping the element.
	ShowPlaceholders bool
}

// Classes marking the elements rendered for unrecognized markup.
const (
	unknownModuleClass    = "wt-unknown-module"
	unknownDirectiveClass = "wt-unknown-directive"
)

// ToMarkdown converts a rendered body to markdown.
func ToMarkdown(body string) (string, error) {
	return ToMarkdownWithOptions(body, ExportOptions{})
}

// ToMarkdownWithOptions converts a rendered body to markdown with
// configurable options.
func ToMarkdownWithOptions(body string, opts ExportOptions) (string, error) {
	if body == "" {
		return "", nil
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	conv.Register.RendererFor("div", converter.TagTypeBlock, placeholderRenderer(opts), converter.PriorityEarly)

	markdown, err := conv.ConvertString(body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}

// placeholderRenderer replaces a whole placeholder element, nested content
// included, with its bracketed name or with nothing. Other divs fall
// through to the standard renderer.
func placeholderRenderer(opts ExportOptions) converter.HandleRenderFunc {
	return func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
		classes := dom.GetClasses(n)
		if len(classes) == 0 || (classes[0] != unknownModuleClass && classes[0] != unknownDirectiveClass) {
			return converter.RenderTryNext
		}
		if !opts.ShowPlaceholders {
			return converter.RenderSuccess
		}

		name := "UNKNOWN"
		if len(classes) > 1 {
			name = strings.ToUpper(strings.Join(classes[1:], " "))
		}
		w.WriteString("\n\n[" + name + "]\n\n")
		return converter.RenderSuccess
	}
}
