// html.go renders the evaluated block tree to an HTML body.
package wikitext

import (
	"html"
	"strings"
)

// escapeHTML escapes &, <, >, " and ' in user text.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

type htmlWriter struct {
	grammar *Grammar
	sb      strings.Builder
}

// renderHTML writes blocks in document order, one top-level block per line.
// Blocks that produce no markup (style and meta modules) leave no line.
func renderHTML(blocks []Block, grammar *Grammar) string {
	lines := make([]string, 0, len(blocks))
	for i := range blocks {
		w := &htmlWriter{grammar: grammar}
		w.block(&blocks[i])
		if w.sb.Len() > 0 {
			lines = append(lines, w.sb.String())
		}
	}
	return strings.Join(lines, "\n")
}

func (w *htmlWriter) block(b *Block) {
	switch b.Type {
	case BlockParagraph:
		w.sb.WriteString("<p>")
		w.inlines(b.Inlines)
		w.sb.WriteString("</p>")

	case BlockDirective:
		w.directive(b)

	case BlockRaw:
		w.raw(b)

	case BlockList:
		w.list(b)
	}
}

func (w *htmlWriter) list(b *Block) {
	tag := "ul"
	if b.Ordered {
		tag = "ol"
	}
	w.sb.WriteString("<" + tag + ">")
	for i := range b.Children {
		item := &b.Children[i]
		w.sb.WriteString("<li>")
		w.inlines(item.Inlines)
		for j := range item.Children {
			w.list(&item.Children[j])
		}
		w.sb.WriteString("</li>")
	}
	w.sb.WriteString("</" + tag + ">")
}

func (w *htmlWriter) directive(b *Block) {
	if b.Directive == nil {
		w.sb.WriteString(`<div class="wt-unknown-directive`)
		if class := className(b.Name); class != "" {
			w.sb.WriteString(" ")
			w.sb.WriteString(class)
		}
		w.sb.WriteString(`">`)
		w.children(b.Children, false)
		w.sb.WriteString("</div>")
		return
	}

	dt := b.Directive
	w.sb.WriteString("<")
	w.sb.WriteString(dt.Tag)
	for _, key := range b.Args.Keys() {
		if !allowedAttributes[key] {
			continue
		}
		w.sb.WriteString(" ")
		w.sb.WriteString(key)
		w.sb.WriteString(`="`)
		w.sb.WriteString(escapeHTML(b.Args.Named[key]))
		w.sb.WriteString(`"`)
	}
	w.sb.WriteString(">")
	w.children(b.Children, dt.Inline)
	w.sb.WriteString("</")
	w.sb.WriteString(dt.Tag)
	w.sb.WriteString(">")
}

// children renders nested blocks. Inside inline elements paragraphs lose
// their <p> wrapper and are separated by line breaks.
func (w *htmlWriter) children(blocks []Block, inline bool) {
	for i := range blocks {
		b := &blocks[i]
		if inline && b.Type == BlockParagraph {
			if i > 0 {
				w.sb.WriteString("<br />")
			}
			w.inlines(b.Inlines)
			continue
		}
		w.block(b)
	}
}

func (w *htmlWriter) raw(b *Block) {
	if b.Result == nil {
		if b.Name == RawCode {
			w.sb.WriteString("<pre><code")
			if lang, ok := b.Args.Get("type"); ok && lang != "" {
				w.sb.WriteString(` class="language-`)
				w.sb.WriteString(escapeHTML(className(lang)))
				w.sb.WriteString(`"`)
			}
			w.sb.WriteString(">")
			w.sb.WriteString(escapeHTML(b.Raw))
			w.sb.WriteString("</code></pre>")
			return
		}
		// A verbatim block nothing claimed: keep the text
		w.sb.WriteString("<pre>")
		w.sb.WriteString(escapeHTML(b.Raw))
		w.sb.WriteString("</pre>")
		return
	}

	if b.Result.Output.Kind == OutputInline {
		w.inlines(b.Result.Output.Inlines)
	}
}

func (w *htmlWriter) inlines(nodes []Inline) {
	for i := range nodes {
		n := &nodes[i]
		switch n.Type {
		case InlineText:
			w.sb.WriteString(escapeHTML(n.Text))
		case InlineLineBreak:
			w.sb.WriteString("<br />")
		case InlineHTML:
			w.sb.WriteString(n.Text)
		case InlineLink:
			w.sb.WriteString(`<a href="`)
			w.sb.WriteString(escapeHTML(n.Href))
			w.sb.WriteString(`"`)
			if n.NewTab {
				w.sb.WriteString(` target="_blank" rel="noopener noreferrer"`)
			}
			w.sb.WriteString(">")
			w.inlines(n.Children)
			w.sb.WriteString("</a>")
		case InlineStyled:
			tag := w.grammar.styleTag(n.Style)
			w.sb.WriteString("<")
			w.sb.WriteString(tag)
			w.sb.WriteString(">")
			w.inlines(n.Children)
			w.sb.WriteString("</")
			w.sb.WriteString(tag)
			w.sb.WriteString(">")
		}
	}
}
