package wikitext

// scope is an open formatting marker awaiting its closing occurrence.
type scope struct {
	token    Token
	children []Inline
}

// parseInline resolves a paragraph's tokens into inline nodes.
//
// Markers are symmetric: the next occurrence of an open marker closes it.
// If that scope is not innermost, the scopes above it are unwound as
// literal text first. Scopes still open at the end become literal text.
func parseInline(tokens []Token, strict bool, diag *Diagnostics) []Inline {
	var root []Inline
	var stack []*scope

	emit := func(nodes ...Inline) {
		if len(stack) == 0 {
			root = appendInlines(root, nodes...)
			return
		}
		top := stack[len(stack)-1]
		top.children = appendInlines(top.children, nodes...)
	}

	// unwind pops the innermost scope and splices it into its parent as
	// literal marker text followed by its children.
	unwind := func(warn bool) {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if warn && strict {
			diag.Add(RuleUnclosedInline, top.token.Original, top.token.Span)
		}
		emit(textInline(top.token.Original))
		emit(top.children...)
	}

	for _, tok := range tokens {
		switch tok.Type {
		case TokenText:
			emit(textInline(tok.Text))

		case TokenNewline:
			emit(Inline{Type: InlineLineBreak})

		case TokenInlineMarker:
			open := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].token.Marker.Delim == tok.Marker.Delim {
					open = i
					break
				}
			}
			if open < 0 {
				stack = append(stack, &scope{token: tok})
				continue
			}
			for len(stack)-1 > open {
				unwind(true)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			emit(Inline{
				Type:     InlineStyled,
				Style:    top.token.Marker.Style,
				Children: top.children,
			})

		case TokenLink:
			if !validLinkURL(tok.Argument) {
				diag.Add(RuleInvalidURL, tok.Original, tok.Span)
				emit(textInline(tok.Original))
				continue
			}
			label := tok.Text
			if label == "" {
				label = tok.Argument
			}
			emit(Inline{
				Type:     InlineLink,
				Href:     tok.Argument,
				NewTab:   tok.Name == LinkNewTab,
				Children: []Inline{textInline(label)},
			})

		default:
			// Directive tokens never reach paragraphs; keep their text
			emit(textInline(tok.Original))
		}
	}

	// Report leftovers outermost first so warnings follow the source order
	if strict {
		for _, sc := range stack {
			diag.Add(RuleUnclosedInline, sc.token.Original, sc.token.Span)
		}
	}
	for len(stack) > 0 {
		unwind(false)
	}

	return root
}
