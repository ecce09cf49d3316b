// lexer.go implements tokenization for [[name]]...[[/name]] directive syntax
// and inline formatting markers.
package wikitext

import (
	"strings"
)

// Lexer produces tokens lazily in a single forward pass over its input.
// It never fails: anything that is not valid syntax is returned as text.
type Lexer struct {
	input   string
	grammar *Grammar
	pos     int
	pending []Token // raw-block content and close queued behind a raw open
}

// NewLexer creates a lexer over input. A nil grammar uses DefaultGrammar.
func NewLexer(input string, grammar *Grammar) *Lexer {
	if grammar == nil {
		grammar = DefaultGrammar()
	}
	return &Lexer{input: input, grammar: grammar}
}

// Tokenize lexes the whole input and returns the token stream.
func Tokenize(input string, grammar *Grammar) []Token {
	var tokens []Token
	lx := NewLexer(input, grammar)
	for {
		tok, ok := lx.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token, or false once the input is exhausted.
func (l *Lexer) Next() (Token, bool) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, true
	}
	if l.pos >= len(l.input) {
		return Token{}, false
	}

	if l.pos == 0 || l.input[l.pos-1] == '\n' {
		if tok, ok := scanListItem(l.input, l.pos); ok {
			l.pos = tok.Span.End
			return tok, true
		}
	}

	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]

		if c == '\n' {
			if l.pos > start {
				return l.text(start, l.pos), true
			}
			l.pos++
			return Token{
				Type:     TokenNewline,
				Span:     Span{start, l.pos},
				Text:     "\n",
				Original: "\n",
			}, true
		}

		if c == '[' && strings.HasPrefix(l.input[l.pos:], "[[") {
			if tok, end, ok := scanTag(l.input, l.pos); ok {
				// Emit accumulated text first; the tag is re-scanned next call
				if l.pos > start {
					return l.text(start, l.pos), true
				}
				l.pos = end
				if tok.Type == TokenDirectiveOpen && l.grammar.IsRawBlock(tok.Name) {
					tok.Type = TokenRawOpen
					l.scanRaw(tok.Name)
				}
				return tok, true
			}
		}

		if c == '[' && !strings.HasPrefix(l.input[l.pos:], "[[") && (l.pos == 0 || l.input[l.pos-1] != '[') {
			if tok, ok := scanLink(l.input, l.pos); ok {
				if l.pos > start {
					return l.text(start, l.pos), true
				}
				l.pos = tok.Span.End
				return tok, true
			}
		}

		if emDashAt(l.input, l.pos) {
			if l.pos > start {
				return l.text(start, l.pos), true
			}
			l.pos += 2
			return Token{
				Type:     TokenText,
				Span:     Span{start, l.pos},
				Text:     emDash,
				Original: "--",
			}, true
		}

		if m, ok := l.grammar.markerAt(l.input, l.pos); ok {
			if l.pos > start {
				return l.text(start, l.pos), true
			}
			l.pos += len(m.Delim)
			return Token{
				Type:     TokenInlineMarker,
				Span:     Span{start, l.pos},
				Marker:   m,
				Original: m.Delim,
			}, true
		}

		l.pos++
	}

	return l.text(start, l.pos), true
}

func (l *Lexer) text(start, end int) Token {
	return Token{
		Type:     TokenText,
		Span:     Span{start, end},
		Text:     l.input[start:end],
		Original: l.input[start:end],
	}
}

// scanRaw queues the verbatim content and close token of a raw block whose
// open tag ends at l.pos. Without a close marker the content runs to the
// end of input and no close token is queued.
func (l *Lexer) scanRaw(name string) {
	contentStart := l.pos
	closeStart, closeEnd, found := findRawClose(l.input, contentStart, name)
	if !found {
		closeStart, closeEnd = len(l.input), len(l.input)
	}

	// One newline hugging each tag belongs to the tag line, not the content
	start, end := contentStart, closeStart
	if strings.HasPrefix(l.input[start:end], "\r\n") {
		start += 2
	} else if strings.HasPrefix(l.input[start:end], "\n") {
		start++
	}
	if found && end > start && l.input[end-1] == '\n' {
		end--
		if end > start && l.input[end-1] == '\r' {
			end--
		}
	}

	if end > start {
		l.pending = append(l.pending, Token{
			Type:     TokenRawContent,
			Span:     Span{start, end},
			Name:     name,
			Text:     l.input[start:end],
			Original: l.input[start:end],
		})
	}
	if found {
		l.pending = append(l.pending, Token{
			Type:     TokenRawClose,
			Span:     Span{closeStart, closeEnd},
			Name:     name,
			Original: l.input[closeStart:closeEnd],
		})
	}
	l.pos = closeEnd
}

// findRawClose locates the literal [[/name]] at or after pos.
func findRawClose(input string, pos int, name string) (int, int, bool) {
	for pos < len(input) {
		idx := strings.Index(input[pos:], "[[/")
		if idx < 0 {
			return 0, 0, false
		}
		start := pos + idx
		tok, end, ok := scanTag(input, start)
		if ok && tok.Type == TokenDirectiveClose && tok.Name == name {
			return start, end, true
		}
		pos = start + 3
	}
	return 0, 0, false
}

// scanTag attempts to parse a directive tag starting at pos.
// Returns the token, the position after the tag, and whether it matched.
func scanTag(input string, pos int) (Token, int, bool) {
	start := pos
	pos += 2 // skip "[["

	isClose := false
	if pos < len(input) && input[pos] == '/' {
		isClose = true
		pos++
	}

	nameStart := pos
	for pos < len(input) && isNameByte(input[pos]) {
		pos++
	}
	if pos == nameStart {
		return Token{}, start, false
	}
	name := strings.ToLower(input[nameStart:pos])

	if isClose {
		for pos < len(input) && input[pos] == ' ' {
			pos++
		}
		if !strings.HasPrefix(input[pos:], "]]") {
			return Token{}, start, false
		}
		pos += 2
		return Token{
			Type:     TokenDirectiveClose,
			Span:     Span{start, pos},
			Name:     name,
			Original: input[start:pos],
		}, pos, true
	}

	// Open tag: either "]]" right away or whitespace then an argument
	if pos < len(input) && input[pos] != ']' && input[pos] != ' ' && input[pos] != '\t' {
		return Token{}, start, false
	}
	if pos < len(input) && input[pos] == ']' && !strings.HasPrefix(input[pos:], "]]") {
		return Token{}, start, false
	}
	argStart := pos
	for pos < len(input) && !strings.HasPrefix(input[pos:], "]]") {
		if input[pos] == '\n' {
			return Token{}, start, false
		}
		pos++
	}
	if pos >= len(input) {
		return Token{}, start, false
	}
	argument := strings.TrimSpace(input[argStart:pos])
	pos += 2

	return Token{
		Type:     TokenDirectiveOpen,
		Span:     Span{start, pos},
		Name:     name,
		Argument: argument,
		Original: input[start:pos],
	}, pos, true
}

// scanListItem matches optional leading spaces, a bullet ('*') or number
// sign ('#') and the whitespace after it. The spaces give the item depth.
func scanListItem(input string, pos int) (Token, bool) {
	p := pos
	for p < len(input) && input[p] == ' ' {
		p++
	}
	depth := p - pos
	if p >= len(input) {
		return Token{}, false
	}

	var kind string
	switch input[p] {
	case '*':
		kind = ListBullet
	case '#':
		kind = ListNumbered
	default:
		return Token{}, false
	}
	p++
	if p >= len(input) || !isBlankByte(input[p]) {
		return Token{}, false
	}
	for p < len(input) && isBlankByte(input[p]) {
		p++
	}

	return Token{
		Type:     TokenListItem,
		Span:     Span{pos, p},
		Name:     kind,
		Depth:    depth,
		Original: input[pos:p],
	}, true
}

// scanLink matches a single-bracket link: "[", an optional "*" for a new
// tab, a URL, whitespace, then a label up to "]" on the same line. Only the
// shape is checked here; the URL itself is validated by the inline parser.
func scanLink(input string, pos int) (Token, bool) {
	p := pos + 1
	target := LinkSameTab
	if p < len(input) && input[p] == '*' {
		target = LinkNewTab
		p++
	}

	urlStart := p
	for p < len(input) && !isBlankByte(input[p]) && input[p] != ']' && input[p] != '[' && input[p] != '\n' {
		p++
	}
	url := input[urlStart:p]
	if !looksLikeURL(url) || p >= len(input) || !isBlankByte(input[p]) {
		return Token{}, false
	}

	labelStart := p
	for p < len(input) && input[p] != ']' {
		if input[p] == '\n' {
			return Token{}, false
		}
		p++
	}
	if p >= len(input) {
		return Token{}, false
	}
	label := strings.TrimSpace(input[labelStart:p])
	p++

	return Token{
		Type:     TokenLink,
		Span:     Span{pos, p},
		Name:     target,
		Argument: url,
		Text:     label,
		Original: input[pos:p],
	}, true
}

func isBlankByte(b byte) bool {
	return b == ' ' || b == '\t'
}

// isNameByte returns true if b is valid in a directive name.
func isNameByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '-' || b == '_'
}
