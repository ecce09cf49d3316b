package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

func newTestRenderer(format Format) (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewRenderer(format, true)
	r.SetWriter(&buf)
	return r, &buf
}

func sampleOutput() *wikitext.Output {
	return &wikitext.Output{
		Body:   "<p><strong>Test</strong></p>",
		Styles: []string{"a { color: red; }", ".b {}"},
		Meta: []wikitext.MetaEntry{
			{Type: wikitext.MetaProperty, Name: "og:title", Value: "Test page!"},
		},
		Warnings: []wikitext.Warning{
			{Token: "[[/span]]", Rule: wikitext.RuleMismatchedClose, Span: wikitext.Span{Start: 8, End: 17}, Kind: wikitext.KindError},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"empty (default)", "", false},
		{"table", "table", false},
		{"json", "json", false},
		{"plain", "plain", false},
		{"xml", "xml", true},
		{"TABLE uppercase", "TABLE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid output format")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidFormats(t *testing.T) {
	assert.Equal(t, []string{"table", "json", "plain"}, ValidFormats())
}

func TestNewRenderer_DefaultFormat(t *testing.T) {
	r := NewRenderer("", true)
	assert.Equal(t, FormatTable, r.Format())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncate with ellipsis", "hello world", 8, "hello..."},
		{"very short max", "hello", 3, "hel"},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestRenderer_RenderTable_Aligned(t *testing.T) {
	r, buf := newTestRenderer(FormatTable)

	r.RenderTable([]string{"RULE", "KIND"}, [][]string{
		{"invalid-css", "warning"},
		{"x", "error"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "RULE         KIND", lines[0])
	assert.Equal(t, "invalid-css  warning", lines[1])
	assert.Equal(t, "x            error", lines[2])
}

func TestRenderer_RenderTable_JSON(t *testing.T) {
	r, buf := newTestRenderer(FormatJSON)

	r.RenderTable([]string{"ID", "NAME", "STATUS"}, [][]string{{"1", "First"}})

	var result []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "First", result[0]["name"])
	_, exists := result[0]["status"]
	assert.False(t, exists)
}

func TestRenderer_RenderTable_Plain(t *testing.T) {
	r, buf := newTestRenderer(FormatPlain)

	r.RenderTable([]string{"ID", "NAME"}, [][]string{{"1", "First"}, {"2", "Second"}})

	assert.Equal(t, "1\tFirst\n2\tSecond\n", buf.String())
}

func TestRenderer_RenderKeyValue(t *testing.T) {
	r, buf := newTestRenderer(FormatTable)
	r.RenderKeyValue("Mode", "page")
	assert.Equal(t, "Mode: page\n", buf.String())

	r, buf = newTestRenderer(FormatJSON)
	r.RenderKeyValue("mode", `a "quoted" value`)
	assert.JSONEq(t, `{"mode": "a \"quoted\" value"}`, buf.String())
}

func TestRenderer_RenderOutput_JSON(t *testing.T) {
	r, buf := newTestRenderer(FormatJSON)
	require.NoError(t, r.RenderOutput(sampleOutput()))

	var decoded wikitext.Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *sampleOutput(), decoded)
}

func TestRenderer_RenderOutput_Plain(t *testing.T) {
	r, buf := newTestRenderer(FormatPlain)
	require.NoError(t, r.RenderOutput(sampleOutput()))
	assert.Equal(t, "<p><strong>Test</strong></p>\n", buf.String())
}

func TestRenderer_RenderOutput_Table(t *testing.T) {
	r, buf := newTestRenderer(FormatTable)
	require.NoError(t, r.RenderOutput(sampleOutput()))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "<p><strong>Test</strong></p>\n"))
	assert.Contains(t, output, "Styles\na { color: red; }\n----\n.b {}\n")
	assert.Contains(t, output, "og:title")
	assert.Contains(t, output, "Warnings")
	assert.Contains(t, output, "mismatched-close")
	assert.Contains(t, output, "8..17")
}

func TestRenderer_RenderTokens(t *testing.T) {
	tokens := wikitext.Tokenize("**a**\n", nil)

	r, buf := newTestRenderer(FormatTable)
	require.NoError(t, r.RenderTokens(tokens))
	assert.Contains(t, buf.String(), "inline-marker")
	assert.Contains(t, buf.String(), `"\n"`)

	r, buf = newTestRenderer(FormatJSON)
	require.NoError(t, r.RenderTokens(tokens))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 4)
	assert.Equal(t, "inline-marker", decoded[0]["type"])
	assert.Equal(t, "**", decoded[0]["original"])
}

func TestRenderer_SuccessAndError(t *testing.T) {
	r, buf := newTestRenderer(FormatTable)

	r.Success("Operation completed")
	r.Error("Something went wrong")

	output := buf.String()
	assert.Contains(t, output, "✓ Operation completed")
	assert.Contains(t, output, "✗ Something went wrong")
}
