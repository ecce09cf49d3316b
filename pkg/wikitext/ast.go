// ast.go defines the block and inline node trees built by the parsers.
package wikitext

import "fmt"

// BlockType identifies the kind of a Block.
type BlockType int

const (
	BlockParagraph BlockType = iota // inline content
	BlockDirective                  // [[name]]...[[/name]] with child blocks
	BlockRaw                        // verbatim block such as [[css]]
	BlockList                       // bulleted or numbered list of items
	BlockListItem                   // one list line, possibly holding a sublist
)

var blockTypeNames = [...]string{
	BlockParagraph: "paragraph",
	BlockDirective: "directive",
	BlockRaw:       "raw",
	BlockList:      "list",
	BlockListItem:  "list-item",
}

func (t BlockType) String() string {
	if int(t) < len(blockTypeNames) {
		return blockTypeNames[t]
	}
	return fmt.Sprintf("block(%d)", int(t))
}

// MarshalText encodes the block type by name.
func (t BlockType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Block is a block-level node. Each block owns its children outright.
type Block struct {
	Type     BlockType `json:"type"`
	Span     Span      `json:"span"`
	Name     string    `json:"name,omitempty"`     // directive or raw-block name
	Argument string    `json:"argument,omitempty"` // raw argument string
	Open     string    `json:"-"`                  // source text of the open tag
	OpenSpan Span      `json:"-"`

	Inlines  []Inline `json:"inlines,omitempty"`  // BlockParagraph, BlockListItem
	Children []Block  `json:"children,omitempty"` // BlockDirective, BlockList, BlockListItem
	Raw      string   `json:"raw,omitempty"`      // BlockRaw
	RawSpan  Span     `json:"-"`                  // source range of Raw
	Ordered  bool     `json:"ordered,omitempty"`  // BlockList

	// Filled in by the evaluator.
	Args      *Arguments     `json:"args,omitempty"`
	Directive *DirectiveType `json:"-"`
	Result    *ModuleResult  `json:"result,omitempty"`
}

// InlineType identifies the kind of an Inline.
type InlineType int

const (
	InlineText      InlineType = iota // escaped text run
	InlineStyled                      // formatting scope with children
	InlineLineBreak                   // single newline inside a paragraph
	InlineHTML                        // trusted HTML produced by a module
	InlineLink                        // anchor with a validated URL
)

var inlineTypeNames = [...]string{
	InlineText:      "text",
	InlineStyled:    "styled",
	InlineLineBreak: "line-break",
	InlineHTML:      "html",
	InlineLink:      "link",
}

func (t InlineType) String() string {
	if int(t) < len(inlineTypeNames) {
		return inlineTypeNames[t]
	}
	return fmt.Sprintf("inline(%d)", int(t))
}

// MarshalText encodes the inline type by name.
func (t InlineType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Inline is an inline-level node owned by its parent block or scope.
type Inline struct {
	Type     InlineType `json:"type"`
	Text     string     `json:"text,omitempty"`
	Style    Style      `json:"style,omitempty"`
	Children []Inline   `json:"children,omitempty"`
	Href     string     `json:"href,omitempty"`
	NewTab   bool       `json:"new_tab,omitempty"`
}

// Document is the parsed form of one input.
type Document struct {
	Blocks   []Block   `json:"blocks"`
	Warnings []Warning `json:"warnings"`
}

// textInline creates a text node.
func textInline(s string) Inline {
	return Inline{Type: InlineText, Text: s}
}

// htmlInline creates a trusted HTML node.
func htmlInline(s string) Inline {
	return Inline{Type: InlineHTML, Text: s}
}

// appendText appends s to nodes, merging with a trailing text node.
func appendText(nodes []Inline, s string) []Inline {
	if s == "" {
		return nodes
	}
	if n := len(nodes); n > 0 && nodes[n-1].Type == InlineText {
		nodes[n-1].Text += s
		return nodes
	}
	return append(nodes, textInline(s))
}

// appendInlines appends extra to nodes, merging adjacent text.
func appendInlines(nodes []Inline, extra ...Inline) []Inline {
	for _, n := range extra {
		if n.Type == InlineText {
			nodes = appendText(nodes, n.Text)
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}
