package wikitext

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInput = "[[css]]\n" +
	"div.blockquote { color: blue; }\n" +
	"[[/css]]\n" +
	"**Test**\n" +
	"[[module CSS]]\n" +
	".my-class {\n" +
	"    display: block;\n" +
	"}\n" +
	"[[/module]]\n" +
	"__string__\n"

func TestRender_Sample(t *testing.T) {
	out := mustRender(t, sampleInput)

	assert.Equal(t, "<p><strong>Test</strong></p>\n<p><u>string</u></p>", out.Body)
	assert.Equal(t, []string{
		"div.blockquote { color: blue; }",
		".my-class {\n    display: block;\n}",
	}, out.Styles)
	assert.Equal(t, []MetaEntry{
		{Type: MetaProperty, Name: "og:title", Value: "Test page!"},
		{Type: MetaName, Name: "title", Value: "Test page!"},
	}, out.Meta)
	assert.NotNil(t, out.Warnings)
	assert.Empty(t, out.Warnings)
}

func TestRender_EmptyInput(t *testing.T) {
	out := mustRender(t, "")
	assert.Equal(t, "", out.Body)
	assert.NotNil(t, out.Styles)
	assert.NotNil(t, out.Warnings)
	assert.Len(t, out.Meta, 2)
}

func TestRender_Idempotent(t *testing.T) {
	first := mustRender(t, sampleInput+"[[div]]x")
	second := mustRender(t, sampleInput+"[[div]]x")
	assert.Equal(t, first, second)
}

func TestRender_Concurrent(t *testing.T) {
	want := mustRender(t, sampleInput)

	var wg sync.WaitGroup
	results := make([]*Output, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := Render(sampleInput, testPage(), DefaultSettings())
			if err == nil {
				results[i] = out
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestRender_UnclosedBoldIsLiteral(t *testing.T) {
	out := mustRender(t, "**bold text")
	assert.Equal(t, "<p>**bold text</p>", out.Body)
	assert.Empty(t, out.Warnings)
}

func TestRender_StrictInline(t *testing.T) {
	settings := DefaultSettings()
	settings.StrictInline = true

	out, err := Render("**bold text", testPage(), settings)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, RuleUnclosedInline, out.Warnings[0].Rule)
}

func TestRender_UnknownModule(t *testing.T) {
	out := mustRender(t, "[[module Nope]]\nbody <x>\n[[/module]]")

	assert.Equal(t, `<div class="wt-unknown-module nope">body &lt;x&gt;</div>`, out.Body)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, RuleUnknownModule, out.Warnings[0].Rule)
	assert.Equal(t, "[[module Nope]]", out.Warnings[0].Token)
	assert.Equal(t, Span{0, 15}, out.Warnings[0].Span)
	assert.Equal(t, KindWarning, out.Warnings[0].Kind)
}

func TestRender_InvalidCSSStillForwarded(t *testing.T) {
	out := mustRender(t, "[[css]]\na {\n[[/css]]")

	assert.Equal(t, []string{"a {"}, out.Styles)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, RuleInvalidCSS, out.Warnings[0].Rule)
	assert.Equal(t, "[[css]]", out.Warnings[0].Token)
}

func TestRender_MetaModule(t *testing.T) {
	input := "[[module Meta type=property]]\n" +
		"og:title = Override\n" +
		"og:image = x.png\n" +
		"[[/module]]"
	out := mustRender(t, input)

	assert.Equal(t, "", out.Body)
	assert.Equal(t, []MetaEntry{
		{Type: MetaProperty, Name: "og:title", Value: "Override"},
		{Type: MetaName, Name: "title", Value: "Test page!"},
		{Type: MetaProperty, Name: "og:image", Value: "x.png"},
	}, out.Meta)
	assert.Empty(t, out.Warnings)
}

func TestRender_MetaModuleBadLine(t *testing.T) {
	out := mustRender(t, "[[module meta]]\nnope\nkeywords = a, b\n[[/module]]")

	require.Len(t, out.Warnings, 1)
	assert.Equal(t, RuleInvalidMeta, out.Warnings[0].Rule)
	assert.Equal(t, "nope", out.Warnings[0].Token)
	assert.Equal(t, Span{16, 20}, out.Warnings[0].Span)
	assert.Contains(t, out.Meta, MetaEntry{Type: MetaName, Name: "keywords", Value: "a, b"})
}

func TestRender_RateModule(t *testing.T) {
	out := mustRender(t, "[[module Rate]]\n[[/module]]")
	assert.Equal(t,
		`<div class="page-rate-widget-box" data-page="my-page"><span class="rate-points">rating: <span class="number">+69</span></span></div>`,
		out.Body)
}

func TestRender_TagsModule(t *testing.T) {
	info := testPage()
	info.Tags = []string{"scp", "keter"}

	out, err := Render("[[module Tags]]\n[[/module]]", info, DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t,
		`<div class="page-tags"><span><a href="/system:page-tags/tag/scp">scp</a> <a href="/system:page-tags/tag/keter">keter</a></span></div>`,
		out.Body)
	assert.Equal(t, []MetaEntry{
		{Type: MetaProperty, Name: "og:title", Value: "Test page!"},
		{Type: MetaName, Name: "title", Value: "Test page!"},
		{Type: MetaProperty, Name: "og:tag", Value: "scp"},
		{Type: MetaProperty, Name: "og:tag", Value: "keter"},
	}, out.Meta)
}

func TestRender_MarkdownModule(t *testing.T) {
	out := mustRender(t, "[[module Markdown]]\n# Hi\n\n*x* <script>alert(1)</script>\n[[/module]]")

	assert.Contains(t, out.Body, `<div class="wt-markdown">`)
	assert.Contains(t, out.Body, "<h1>Hi</h1>")
	assert.Contains(t, out.Body, "<em>x</em>")
	assert.NotContains(t, out.Body, "<script>")
	assert.Empty(t, out.Warnings)
}

func TestRender_PageModulesOutsidePageMode(t *testing.T) {
	settings := DefaultSettings()
	settings.Mode = ModeForumPost

	out, err := Render("[[module Rate]]\n[[/module]]", testPage(), settings)
	require.NoError(t, err)
	assert.Equal(t, `<div class="wt-unknown-module rate"></div>`, out.Body)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, RulePageSyntaxDisabled, out.Warnings[0].Rule)
}

func TestRender_Preprocess(t *testing.T) {
	settings := DefaultSettings()
	settings.Preprocess = true

	out, err := Render("a\r\nb\tc", testPage(), settings)
	require.NoError(t, err)
	assert.Equal(t, "<p>a<br />b    c</p>", out.Body)
}

func TestRender_InvalidPageInfo(t *testing.T) {
	out, err := Render("x", PageInfo{Slug: "x"}, DefaultSettings())
	assert.Nil(t, out)
	require.ErrorIs(t, err, ErrInvalidPageInfo)
	assert.Contains(t, err.Error(), "title")
}

func TestRender_InputTooLarge(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxInputBytes = 3

	out, err := Render("four", testPage(), settings)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestRender_DescriptionFromAltTitle(t *testing.T) {
	info := testPage()
	info.AltTitle = StringPtr("Alternate")

	out, err := Render("", info, DefaultSettings())
	require.NoError(t, err)
	assert.Contains(t, out.Meta, MetaEntry{Type: MetaName, Name: "description", Value: "Alternate"})
}

func TestRender_WarningsInSourceOrder(t *testing.T) {
	out := mustRender(t, "[[foo]]x[[/foo]]\n\n[[/bar]]\n\n[[css]]\na {\n[[/css]]")

	require.Len(t, out.Warnings, 3)
	assert.Equal(t, RuleUnknownModule, out.Warnings[0].Rule)
	assert.Equal(t, Span{0, 7}, out.Warnings[0].Span)
	assert.Equal(t, RuleMismatchedClose, out.Warnings[1].Rule)
	assert.Equal(t, Span{18, 26}, out.Warnings[1].Span)
	assert.Equal(t, RuleInvalidCSS, out.Warnings[2].Rule)
	assert.Equal(t, Span{28, 35}, out.Warnings[2].Span)
}

func TestRender_UnknownAttributeSpan(t *testing.T) {
	input := `[[div id="a" foo=1]]x[[/div]]`
	out := mustRender(t, input)

	assert.Equal(t, `<div id="a"><p>x</p></div>`, out.Body)
	require.Len(t, out.Warnings, 1)
	w := out.Warnings[0]
	assert.Equal(t, RuleUnknownAttribute, w.Rule)
	assert.Equal(t, "foo", w.Token)
	assert.Equal(t, "foo", input[w.Span.Start:w.Span.End])
}

func TestRender_EmDash(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"between words", "a -- b", "<p>a \u2014 b</p>"},
		{"line start", "-- quote", "<p>\u2014 quote</p>"},
		{"strikethrough", "a --b-- c", "<p>a <s>b</s> c</p>"},
		{"rule", "----", "<p>----</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustRender(t, tt.input).Body)
		})
	}
}

func TestRender_SingleBracketLinks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"absolute",
			"see [https://example.com/a?b=1&c=2 the site]",
			`<p>see <a href="https://example.com/a?b=1&amp;c=2">the site</a></p>`,
		},
		{
			"new tab",
			"[*https://example.com Example]",
			`<p><a href="https://example.com" target="_blank" rel="noopener noreferrer">Example</a></p>`,
		},
		{
			"site path",
			"[/scp-173 SCP-173]",
			`<p><a href="/scp-173">SCP-173</a></p>`,
		},
		{
			"label is escaped",
			"[https://example.com <b>]",
			`<p><a href="https://example.com">&lt;b&gt;</a></p>`,
		},
		{
			"inside bold",
			"**[https://example.com x]**",
			`<p><strong><a href="https://example.com">x</a></strong></p>`,
		},
		{
			"prose in brackets",
			"[see above] and [sic]",
			`<p>[see above] and [sic]</p>`,
		},
		{
			"no label",
			"[https://example.com]",
			`<p>[https://example.com]</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRender(t, tt.input)
			assert.Equal(t, tt.want, out.Body)
			assert.Empty(t, out.Warnings)
		})
	}
}

func TestRender_InvalidLinkURL(t *testing.T) {
	out := mustRender(t, "[javascript:alert(1) x]")

	assert.Equal(t, `<p>[javascript:alert(1) x]</p>`, out.Body)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, RuleInvalidURL, out.Warnings[0].Rule)
	assert.Equal(t, "[javascript:alert(1) x]", out.Warnings[0].Token)
	assert.Equal(t, Span{0, 23}, out.Warnings[0].Span)
}

func TestRender_Lists(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"bullets",
			"* one\n* two",
			"<ul><li>one</li><li>two</li></ul>",
		},
		{
			"numbered",
			"# one\n# two",
			"<ol><li>one</li><li>two</li></ol>",
		},
		{
			"nested by leading spaces",
			"* one\n* two\n  # a\n  # b\n    * deep\n* three",
			"<ul><li>one</li><li>two<ol><li>a</li><li>b<ul><li>deep</li></ul></li></ol></li><li>three</li></ul>",
		},
		{
			"indented first line",
			"  * inner\n* outer",
			"<ul><li>inner</li></ul>\n<ul><li>outer</li></ul>",
		},
		{
			"paragraphs around",
			"intro\n* a\n\nafter",
			"<p>intro</p>\n<ul><li>a</li></ul>\n<p>after</p>",
		},
		{
			"text line ends list",
			"* a\nplain",
			"<ul><li>a</li></ul>\n<p>plain</p>",
		},
		{
			"inline content",
			"* **bold** -- [/x x]",
			"<ul><li><strong>bold</strong> \u2014 <a href=\"/x\">x</a></li></ul>",
		},
		{
			"inside directive",
			"[[div]]\n* a\n[[/div]]",
			"<div><ul><li>a</li></ul></div>",
		},
		{
			"bold at line start is not a bullet",
			"**a**",
			"<p><strong>a</strong></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRender(t, tt.input)
			assert.Equal(t, tt.want, out.Body)
			assert.Empty(t, out.Warnings)
		})
	}
}
