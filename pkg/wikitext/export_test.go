package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMarkdown_Empty(t *testing.T) {
	got, err := ToMarkdown("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestToMarkdown_RenderedBody(t *testing.T) {
	out := mustRender(t, sampleInput)

	got, err := ToMarkdown(out.Body)
	require.NoError(t, err)
	assert.Contains(t, got, "**Test**")
	assert.Contains(t, got, "string")
	assert.NotContains(t, got, "<p>")
}

func TestToMarkdown_Placeholders(t *testing.T) {
	body := "<p>keep</p>\n<div class=\"wt-unknown-module nope\">hidden</div>"

	got, err := ToMarkdown(body)
	require.NoError(t, err)
	assert.Contains(t, got, "keep")
	assert.NotContains(t, got, "hidden")

	got, err = ToMarkdownWithOptions(body, ExportOptions{ShowPlaceholders: true})
	require.NoError(t, err)
	assert.Contains(t, got, "NOPE")
	assert.NotContains(t, got, "hidden")
}

func TestToMarkdown_NestedUnknownDirective(t *testing.T) {
	out := mustRender(t, "[[foo]]\n[[div]]\ninner\n[[/div]]\nsecret tail\n[[/foo]]\n\nafter")
	require.Contains(t, out.Body, `<div class="wt-unknown-directive foo"><div><p>inner</p></div>`)

	got, err := ToMarkdown(out.Body)
	require.NoError(t, err)
	assert.Equal(t, "after", got)

	got, err = ToMarkdownWithOptions(out.Body, ExportOptions{ShowPlaceholders: true})
	require.NoError(t, err)
	assert.Contains(t, got, "[FOO]")
	assert.Contains(t, got, "after")
	assert.NotContains(t, got, "inner")
	assert.NotContains(t, got, "secret tail")
}

func TestToMarkdown_ListsAndLinks(t *testing.T) {
	out := mustRender(t, "* one\n* [https://example.com two]")

	got, err := ToMarkdown(out.Body)
	require.NoError(t, err)
	assert.Contains(t, got, "one")
	assert.Contains(t, got, "[two](https://example.com)")
}
