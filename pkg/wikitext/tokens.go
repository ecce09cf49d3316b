// tokens.go defines the token types produced by the lexer.
package wikitext

import "fmt"

// Span is a half-open byte range [Start, End) into the lexed input.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String formats the span as "start..end".
func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// TokenType identifies the kind of a Token.
type TokenType int

const (
	TokenText           TokenType = iota // run of plain text, never contains '\n'
	TokenNewline                         // a single '\n'
	TokenDirectiveOpen                   // [[name arg]]
	TokenDirectiveClose                  // [[/name]]
	TokenInlineMarker                    // **, __, //, ...
	TokenRawOpen                         // [[css]] and other raw-block openers
	TokenRawContent                      // verbatim body of a raw block
	TokenRawClose                        // [[/css]]
	TokenLink                            // [url label] or [*url label]
	TokenListItem                        // "* " or "# " at the start of a line
)

var tokenTypeNames = [...]string{
	TokenText:           "text",
	TokenNewline:        "newline",
	TokenDirectiveOpen:  "directive-open",
	TokenDirectiveClose: "directive-close",
	TokenInlineMarker:   "inline-marker",
	TokenRawOpen:        "raw-open",
	TokenRawContent:     "raw-content",
	TokenRawClose:       "raw-close",
	TokenLink:           "link",
	TokenListItem:       "list-item",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a single lexical unit. Tokens are read-only once produced.
type Token struct {
	Type     TokenType
	Span     Span
	Name     string // lowercase directive name, link target or list kind
	Argument string // raw argument string of an open tag, or a link URL
	Marker   *Marker
	Text     string // text for Text, Newline and RawContent tokens; link label
	Depth    int    // leading spaces of a list item
	Original string // exact source text of the token
}

// Names carried by link and list item tokens.
const (
	LinkSameTab  = "same-tab"
	LinkNewTab   = "new-tab"
	ListBullet   = "bullet"
	ListNumbered = "numbered"
)
