package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inlinesOf(input string, strict bool) ([]Inline, []Warning) {
	diag := NewDiagnostics(nil)
	nodes := parseInline(Tokenize(input, nil), strict, diag)
	return nodes, diag.Warnings()
}

func styled(style Style, children ...Inline) Inline {
	return Inline{Type: InlineStyled, Style: style, Children: children}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Inline
	}{
		{
			"plain text",
			"hello",
			[]Inline{textInline("hello")},
		},
		{
			"bold",
			"**bold**",
			[]Inline{styled(StyleBold, textInline("bold"))},
		},
		{
			"nested",
			"**a //b// c**",
			[]Inline{styled(StyleBold,
				textInline("a "),
				styled(StyleItalics, textInline("b")),
				textInline(" c"),
			)},
		},
		{
			"unclosed becomes literal",
			"**bold text",
			[]Inline{textInline("**bold text")},
		},
		{
			"crossed markers unwind the inner scope",
			"**a __b** c__",
			[]Inline{
				styled(StyleBold, textInline("a __b")),
				textInline(" c__"),
			},
		},
		{
			"line break",
			"a\nb",
			[]Inline{textInline("a"), {Type: InlineLineBreak}, textInline("b")},
		},
		{
			"empty scope",
			"x****y",
			[]Inline{textInline("x"), styled(StyleBold), textInline("y")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := inlinesOf(tt.input, false)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, warnings)
		})
	}
}

func TestParseInline_StrictReportsUnclosed(t *testing.T) {
	got, warnings := inlinesOf("**a __b", true)
	assert.Equal(t, []Inline{textInline("**a __b")}, got)

	require.Len(t, warnings, 2)
	assert.Equal(t, RuleUnclosedInline, warnings[0].Rule)
	assert.Equal(t, "**", warnings[0].Token)
	assert.Equal(t, Span{0, 2}, warnings[0].Span)
	assert.Equal(t, "__", warnings[1].Token)
	assert.Equal(t, Span{4, 6}, warnings[1].Span)
}

func TestParseInline_StrictReportsUnwoundScope(t *testing.T) {
	_, warnings := inlinesOf("**a __b**", true)
	require.Len(t, warnings, 1)
	assert.Equal(t, "__", warnings[0].Token)
	assert.Equal(t, KindWarning, warnings[0].Kind)
}
