// Package view provides output formatting for wtr commands.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// Format represents an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ValidFormats returns the accepted values of the --output flag.
func ValidFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatPlain)}
}

// ValidateFormat checks an --output value. Empty means the default.
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	for _, f := range ValidFormats() {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
}

// Renderer renders data in a specific format.
type Renderer struct {
	format  Format
	writer  io.Writer
	noColor bool
}

// NewRenderer creates a new renderer with the specified format.
func NewRenderer(format Format, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	if format == "" {
		format = FormatTable
	}
	return &Renderer{
		format:  format,
		writer:  os.Stdout,
		noColor: noColor,
	}
}

// SetWriter sets the output writer.
func (r *Renderer) SetWriter(w io.Writer) {
	r.writer = w
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderTable renders data as a table.
func (r *Renderer) RenderTable(headers []string, rows [][]string) {
	if r.format == FormatJSON {
		r.renderTableAsJSON(headers, rows)
		return
	}

	if r.format == FormatPlain {
		r.renderTableAsPlain(rows)
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) && len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	bold := color.New(color.Bold)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(r.writer, "  ")
		}
		bold.Fprint(r.writer, pad(h, widths[i], i == len(headers)-1))
	}
	fmt.Fprintln(r.writer)

	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(r.writer, "  ")
			}
			width := len(val)
			if i < len(widths) {
				width = widths[i]
			}
			fmt.Fprint(r.writer, pad(val, width, i == len(row)-1))
		}
		fmt.Fprintln(r.writer)
	}
}

// pad right-pads s to width; the last column is left unpadded.
func pad(s string, width int, last bool) string {
	if last || len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (r *Renderer) renderTableAsJSON(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := make(map[string]string)
		for i, header := range headers {
			if i < len(row) {
				item[strings.ToLower(header)] = row[i]
			}
		}
		result = append(result, item)
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(r.writer, string(data))
}

func (r *Renderer) renderTableAsPlain(rows [][]string) {
	for _, row := range rows {
		fmt.Fprintln(r.writer, strings.Join(row, "\t"))
	}
}

// RenderJSON renders an object as JSON.
func (r *Renderer) RenderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.writer, string(data))
	return nil
}

// RenderText renders plain text.
func (r *Renderer) RenderText(text string) {
	fmt.Fprintln(r.writer, text)
}

// RenderKeyValue renders a key-value pair.
func (r *Renderer) RenderKeyValue(key, value string) {
	if r.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{key: value})
		fmt.Fprintln(r.writer, string(data))
		return
	}
	bold := color.New(color.Bold)
	bold.Fprintf(r.writer, "%s: ", key)
	fmt.Fprintln(r.writer, value)
}

// RenderOutput renders a render result. JSON emits the whole result, plain
// emits only the body, table adds styles, meta and warnings sections.
func (r *Renderer) RenderOutput(out *wikitext.Output) error {
	switch r.format {
	case FormatJSON:
		return r.RenderJSON(out)
	case FormatPlain:
		r.RenderText(out.Body)
		return nil
	}

	r.RenderText(out.Body)

	if len(out.Styles) > 0 {
		r.section("Styles")
		for i, style := range out.Styles {
			if i > 0 {
				fmt.Fprintln(r.writer, "----")
			}
			r.RenderText(style)
		}
	}

	r.section("Meta")
	r.RenderMeta(out.Meta)

	if len(out.Warnings) > 0 {
		r.section("Warnings")
		r.RenderWarnings(out.Warnings)
	}
	return nil
}

// RenderMeta renders meta entries as a table.
func (r *Renderer) RenderMeta(entries []wikitext.MetaEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Type.String(), e.Name, e.Value})
	}
	r.RenderTable([]string{"TYPE", "NAME", "VALUE"}, rows)
}

// RenderWarnings renders warnings as a table. Kinds are colored in table
// format.
func (r *Renderer) RenderWarnings(warnings []wikitext.Warning) {
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		kind := w.Kind
		if r.format == FormatTable {
			kind = r.kindColor(w.Kind).Sprint(w.Kind)
		}
		rows = append(rows, []string{w.Rule, kind, w.Span.String(), w.Token})
	}
	r.RenderTable([]string{"RULE", "KIND", "SPAN", "TOKEN"}, rows)
}

// RenderTokens renders a lexer token stream.
func (r *Renderer) RenderTokens(tokens []wikitext.Token) error {
	if r.format == FormatJSON {
		type jsonToken struct {
			Type     string        `json:"type"`
			Span     wikitext.Span `json:"span"`
			Name     string        `json:"name,omitempty"`
			Argument string        `json:"argument,omitempty"`
			Original string        `json:"original"`
		}
		out := make([]jsonToken, 0, len(tokens))
		for _, tok := range tokens {
			out = append(out, jsonToken{
				Type:     tok.Type.String(),
				Span:     tok.Span,
				Name:     tok.Name,
				Argument: tok.Argument,
				Original: tok.Original,
			})
		}
		return r.RenderJSON(out)
	}

	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, []string{
			tok.Type.String(),
			tok.Span.String(),
			Truncate(strconv.Quote(tok.Original), 60),
		})
	}
	r.RenderTable([]string{"TYPE", "SPAN", "TEXT"}, rows)
	return nil
}

func (r *Renderer) section(title string) {
	fmt.Fprintln(r.writer)
	color.New(color.Bold, color.FgCyan).Fprintln(r.writer, title)
}

func (r *Renderer) kindColor(kind string) *color.Color {
	if kind == wikitext.KindError {
		return color.New(color.FgRed)
	}
	return color.New(color.FgYellow)
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintln(r.writer, "✓ "+msg)
}

// Error prints an error message.
func (r *Renderer) Error(msg string) {
	red := color.New(color.FgRed)
	red.Fprintln(r.writer, "✗ "+msg)
}

// Truncate truncates a string to the specified length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
