// grammar.go defines the fixed vocabulary of the markup language.
package wikitext

import "strings"

// Style is an inline formatting kind.
type Style string

const (
	StyleBold          Style = "bold"
	StyleUnderline     Style = "underline"
	StyleItalics       Style = "italics"
	StyleStrikethrough Style = "strikethrough"
	StyleSuperscript   Style = "superscript"
	StyleSubscript     Style = "subscript"
)

// Marker is a symmetric inline delimiter such as "**".
type Marker struct {
	Delim string
	Style Style

	// NotAfter lists bytes that disable the marker when they immediately
	// precede it ("//" after ':' is part of a URL).
	NotAfter string

	// Isolated markers are ignored when they touch another copy of their
	// delimiter byte, so "----" stays text.
	Isolated bool
}

// DirectiveType describes how a known container directive renders.
type DirectiveType struct {
	Name   string // canonical lowercase name
	Tag    string // HTML element
	Inline bool   // children render without paragraph wrappers
}

// Grammar is the table of raw-block names, inline markers and directive
// tags. Extending it is an engine change, not runtime configuration.
type Grammar struct {
	RawBlocks  map[string]bool
	Markers    []Marker
	StyleTags  map[Style]string
	Directives map[string]DirectiveType
}

// Raw-block names understood by the evaluator.
const (
	RawCSS    = "css"
	RawCode   = "code"
	RawModule = "module"
)

var defaultGrammar = newDefaultGrammar()

// DefaultGrammar returns the built-in grammar table. Callers must not
// modify it.
func DefaultGrammar() *Grammar {
	return defaultGrammar
}

func newDefaultGrammar() *Grammar {
	g := &Grammar{
		RawBlocks: map[string]bool{
			RawCSS:    true,
			RawCode:   true,
			RawModule: true,
		},
		Markers: []Marker{
			{Delim: "**", Style: StyleBold},
			{Delim: "__", Style: StyleUnderline},
			{Delim: "//", Style: StyleItalics, NotAfter: ":"},
			{Delim: "--", Style: StyleStrikethrough, Isolated: true},
			{Delim: "^^", Style: StyleSuperscript},
			{Delim: ",,", Style: StyleSubscript},
		},
		StyleTags: map[Style]string{
			StyleBold:          "strong",
			StyleUnderline:     "u",
			StyleItalics:       "em",
			StyleStrikethrough: "s",
			StyleSuperscript:   "sup",
			StyleSubscript:     "sub",
		},
		Directives: map[string]DirectiveType{},
	}

	add := func(tag string, inline bool, names ...string) {
		for _, name := range names {
			g.Directives[name] = DirectiveType{Name: name, Tag: tag, Inline: inline}
		}
	}
	add("div", false, "div")
	add("blockquote", false, "blockquote", "quote")
	add("span", true, "span")
	add("strong", true, "b", "bold", "strong")
	add("em", true, "i", "italics", "em", "emphasis")
	add("u", true, "u", "underline")
	add("s", true, "s", "strikethrough")
	add("sup", true, "sup", "super", "superscript")
	add("sub", true, "sub", "subscript")

	return g
}

// IsRawBlock reports whether name opens a verbatim block.
func (g *Grammar) IsRawBlock(name string) bool {
	return g.RawBlocks[strings.ToLower(name)]
}

// LookupDirective returns the container directive for name.
func (g *Grammar) LookupDirective(name string) (DirectiveType, bool) {
	dt, ok := g.Directives[strings.ToLower(name)]
	return dt, ok
}

// markerAt returns the inline marker starting at pos, if any.
func (g *Grammar) markerAt(input string, pos int) (*Marker, bool) {
	for i := range g.Markers {
		m := &g.Markers[i]
		if !strings.HasPrefix(input[pos:], m.Delim) {
			continue
		}
		if pos > 0 && strings.IndexByte(m.NotAfter, input[pos-1]) >= 0 {
			continue
		}
		if m.Isolated {
			end := pos + len(m.Delim)
			if pos > 0 && input[pos-1] == m.Delim[0] {
				continue
			}
			if end < len(input) && input[end] == m.Delim[len(m.Delim)-1] {
				continue
			}
		}
		return m, true
	}
	return nil, false
}

const emDash = "\u2014"

// emDashAt reports whether a standalone "--" starts at pos: whitespace or
// a line boundary on both sides.
func emDashAt(input string, pos int) bool {
	if !strings.HasPrefix(input[pos:], "--") {
		return false
	}
	if pos > 0 && !isSpaceByte(input[pos-1]) {
		return false
	}
	end := pos + 2
	return end == len(input) || isSpaceByte(input[end])
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// styleTag returns the HTML element for an inline style.
func (g *Grammar) styleTag(s Style) string {
	if tag, ok := g.StyleTags[s]; ok {
		return tag
	}
	return "span"
}
