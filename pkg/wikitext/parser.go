// parser.go builds the block tree from the token stream.
package wikitext

import (
	"fmt"
	"strings"
)

// frame tracks parsing state for one open directive (or the root).
type frame struct {
	block    Block   // the directive being built; zero for the root
	children []Block // completed child blocks
	run      []Token // pending paragraph tokens
	blank    int     // consecutive newlines at the end of run
}

// listRun collects consecutive list lines until something else appears.
type listRun struct {
	lines    []listLine
	lineDone bool // the current line ended; only another item may follow
}

type listLine struct {
	depth   int
	ordered bool
	span    Span
	run     []Token
	inlines []Inline
}

type blockParser struct {
	strict   bool
	maxDepth int
	diag     *Diagnostics
	ev       *evaluator // resolves directives as they are parsed; may be nil
	stack    []*frame   // stack[0] is the implicit root
	raw      *Block     // raw block awaiting its content or close token
	list     *listRun   // list being collected
	end      int        // end offset of the input
}

// parseBlocks consumes the lexer once and returns the document's blocks.
// Structural problems are reported to diag and repaired; only a nesting
// depth violation is fatal. When ev is set, each directive is evaluated at
// its open tag and each raw block once complete, so every warning is
// reported in source order.
func parseBlocks(lx *Lexer, settings Settings, diag *Diagnostics, ev *evaluator) ([]Block, error) {
	p := &blockParser{
		strict:   settings.StrictInline,
		maxDepth: settings.MaxDepth,
		diag:     diag,
		ev:       ev,
		stack:    []*frame{{}},
		end:      len(lx.input),
	}

	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}
		if err := p.consume(tok); err != nil {
			return nil, err
		}
	}

	p.finishRaw(p.end)
	p.finishList()
	p.flush()

	// Auto-close anything still open, innermost first
	for len(p.stack) > 1 {
		current := p.top()
		diag.Add(RuleUnclosedDirective, current.block.Open, current.block.OpenSpan)
		p.closeTop(p.end)
	}

	return p.stack[0].children, nil
}

func (p *blockParser) top() *frame {
	return p.stack[len(p.stack)-1]
}

func (p *blockParser) consume(tok Token) error {
	if p.raw != nil && tok.Type != TokenRawContent && tok.Type != TokenRawClose {
		p.finishRaw(tok.Span.Start)
	}
	if p.list != nil && !p.list.accepts(tok) {
		p.finishList()
	}

	switch tok.Type {
	case TokenText, TokenInlineMarker, TokenLink:
		if p.list != nil {
			line := &p.list.lines[len(p.list.lines)-1]
			line.run = append(line.run, tok)
			line.span.End = tok.Span.End
			return nil
		}
		f := p.top()
		f.run = append(f.run, tok)
		if tok.Type != TokenText || strings.TrimSpace(tok.Text) != "" {
			f.blank = 0
		}

	case TokenListItem:
		if p.list == nil {
			p.flush()
			p.list = &listRun{}
		}
		p.list.lines = append(p.list.lines, listLine{
			depth:   tok.Depth,
			ordered: tok.Name == ListNumbered,
			span:    tok.Span,
		})
		p.list.lineDone = false

	case TokenNewline:
		if p.list != nil {
			p.list.lineDone = true
			return nil
		}
		f := p.top()
		f.run = append(f.run, tok)
		f.blank++
		if f.blank >= 2 {
			p.flush()
		}

	case TokenDirectiveOpen:
		p.flush()
		if p.maxDepth > 0 && len(p.stack) > p.maxDepth {
			return fmt.Errorf("%w: %d levels at byte %d", ErrNestingTooDeep, p.maxDepth, tok.Span.Start)
		}
		p.stack = append(p.stack, &frame{
			block: Block{
				Type:     BlockDirective,
				Span:     tok.Span,
				Name:     tok.Name,
				Argument: tok.Argument,
				Open:     tok.Original,
				OpenSpan: tok.Span,
			},
		})
		if p.ev != nil {
			p.ev.directive(&p.top().block)
		}

	case TokenDirectiveClose:
		if len(p.stack) == 1 {
			// Orphan close tag: keep it as text
			p.diag.Add(RuleMismatchedClose, tok.Original, tok.Span)
			f := p.top()
			f.run = append(f.run, tok)
			f.blank = 0
			return nil
		}
		p.flush()
		if p.top().block.Name != tok.Name {
			p.diag.Add(RuleMismatchedClose, tok.Original, tok.Span)
		}
		// Greedy recovery: the close tag always ends the innermost frame
		p.closeTop(tok.Span.End)

	case TokenRawOpen:
		p.flush()
		p.raw = &Block{
			Type:     BlockRaw,
			Span:     tok.Span,
			Name:     tok.Name,
			Argument: tok.Argument,
			Open:     tok.Original,
			OpenSpan: tok.Span,
		}

	case TokenRawContent:
		if p.raw == nil {
			f := p.top()
			f.run = append(f.run, tok)
			return nil
		}
		p.raw.Raw = tok.Text
		p.raw.RawSpan = tok.Span
		p.raw.Span.End = tok.Span.End

	case TokenRawClose:
		if p.raw == nil {
			p.diag.Add(RuleMismatchedClose, tok.Original, tok.Span)
			return nil
		}
		p.raw.Span.End = tok.Span.End
		p.completeRaw()
	}

	return nil
}

// finishRaw completes a raw block that never saw its close marker.
func (p *blockParser) finishRaw(end int) {
	if p.raw == nil {
		return
	}
	p.diag.Add(RuleUnclosedDirective, p.raw.Open, p.raw.OpenSpan)
	if end > p.raw.Span.End {
		p.raw.Span.End = end
	}
	p.completeRaw()
}

// completeRaw evaluates the pending raw block and attaches it.
func (p *blockParser) completeRaw() {
	if p.ev != nil {
		p.ev.raw(p.raw)
	}
	p.appendBlock(*p.raw)
	p.raw = nil
}

// accepts reports whether tok continues the list: inline content until the
// line ends, then only another list item.
func (l *listRun) accepts(tok Token) bool {
	if l.lineDone {
		return tok.Type == TokenListItem
	}
	switch tok.Type {
	case TokenText, TokenInlineMarker, TokenLink, TokenNewline:
		return true
	}
	return false
}

// finishList turns the collected list lines into a nested list block.
func (p *blockParser) finishList() {
	if p.list == nil {
		return
	}
	lines := p.list.lines
	p.list = nil

	for i := range lines {
		lines[i].inlines = parseInline(trimBlank(lines[i].run), p.strict, p.diag)
	}
	// A line shallower than the first starts a new list
	for len(lines) > 0 {
		var list Block
		list, lines = buildList(lines)
		p.appendBlock(list)
	}
}

// buildList nests lines by depth. Lines deeper than the first form a
// sublist of the preceding item; a shallower line ends the list.
func buildList(lines []listLine) (Block, []listLine) {
	depth := lines[0].depth
	list := Block{
		Type:    BlockList,
		Span:    lines[0].span,
		Ordered: lines[0].ordered,
	}

	for len(lines) > 0 {
		line := lines[0]
		if line.depth < depth {
			break
		}
		if line.depth > depth {
			var sub Block
			sub, lines = buildList(lines)
			if n := len(list.Children); n > 0 {
				last := &list.Children[n-1]
				last.Children = append(last.Children, sub)
				last.Span.End = sub.Span.End
			} else {
				list.Children = append(list.Children, Block{
					Type:     BlockListItem,
					Span:     sub.Span,
					Children: []Block{sub},
				})
			}
			list.Span.End = sub.Span.End
			continue
		}
		list.Children = append(list.Children, Block{
			Type:    BlockListItem,
			Span:    line.span,
			Inlines: line.inlines,
		})
		list.Span.End = line.span.End
		lines = lines[1:]
	}
	return list, lines
}

// closeTop pops the innermost directive frame and attaches it to its parent.
func (p *blockParser) closeTop(end int) {
	p.flush()
	current := p.top()
	p.stack = p.stack[:len(p.stack)-1]

	block := current.block
	block.Children = current.children
	if end > block.Span.End {
		block.Span.End = end
	}
	p.appendBlock(block)
}

func (p *blockParser) appendBlock(b Block) {
	f := p.top()
	f.children = append(f.children, b)
}

// flush turns the pending run of the innermost frame into a paragraph.
func (p *blockParser) flush() {
	f := p.top()
	run := trimBlank(f.run)
	f.run = nil
	f.blank = 0
	if len(run) == 0 {
		return
	}

	f.children = append(f.children, Block{
		Type:    BlockParagraph,
		Span:    Span{run[0].Span.Start, run[len(run)-1].Span.End},
		Inlines: parseInline(run, p.strict, p.diag),
	})
}

// trimBlank drops leading and trailing newlines and whitespace-only text.
func trimBlank(run []Token) []Token {
	isBlank := func(t Token) bool {
		return t.Type == TokenNewline || (t.Type == TokenText && strings.TrimSpace(t.Text) == "")
	}
	for len(run) > 0 && isBlank(run[0]) {
		run = run[1:]
	}
	for len(run) > 0 && isBlank(run[len(run)-1]) {
		run = run[:len(run)-1]
	}
	return run
}
