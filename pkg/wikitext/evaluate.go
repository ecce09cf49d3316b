package wikitext

import (
	"strings"
)

// allowedAttributes lists the directive arguments copied onto HTML elements.
var allowedAttributes = map[string]bool{
	"class": true,
	"id":    true,
	"style": true,
	"title": true,
	"lang":  true,
}

// evaluator resolves directives and modules while the parser builds the
// tree.
type evaluator struct {
	grammar *Grammar
	mode    Mode
	page    *PageInfo
	diag    *Diagnostics
	styles  []string
	meta    []MetaEntry
}

// directive attaches the directive type and arguments of an open tag.
func (ev *evaluator) directive(b *Block) {
	if dt, ok := ev.grammar.LookupDirective(b.Name); ok {
		b.Directive = &dt
	} else {
		ev.diag.Add(RuleUnknownModule, b.Open, b.OpenSpan)
	}

	args := ev.arguments(b)
	argStart := argumentOffset(b)
	for _, key := range args.Keys() {
		if allowedAttributes[key] {
			continue
		}
		span := b.OpenSpan
		if ks, ok := args.KeySpan(key); ok {
			span = Span{argStart + ks.Start, argStart + ks.End}
		}
		ev.diag.Add(RuleUnknownAttribute, key, span)
	}
	b.Args = args
}

// argumentOffset returns the source offset of the block's argument string.
func argumentOffset(b *Block) int {
	head := 2 + len(b.Name) // "[[" and the name
	if head > len(b.Open) {
		return b.OpenSpan.Start
	}
	if idx := strings.Index(b.Open[head:], b.Argument); idx >= 0 {
		return b.OpenSpan.Start + head + idx
	}
	return b.OpenSpan.Start
}

// raw evaluates a completed raw block.
func (ev *evaluator) raw(b *Block) {
	switch b.Name {
	case RawCSS:
		b.Args = ev.arguments(b)
		ev.run(b, ModuleCSS, "css", b.Args)
	case RawModule:
		args := ev.arguments(b)
		name := args.First()
		// Arguments after the module name belong to the module
		modArgs := &Arguments{Named: args.Named}
		if len(args.Positional) > 1 {
			modArgs.Positional = args.Positional[1:]
		}
		b.Args = args
		ev.run(b, LookupModule(name), name, modArgs)
	default:
		// code and other verbatim blocks render as-is
		b.Args = ev.arguments(b)
	}
}

// run evaluates one module and routes its output.
func (ev *evaluator) run(b *Block, kind ModuleKind, name string, args *Arguments) {
	call := ModuleCall{
		Name:      name,
		Args:      args,
		Body:      b.Raw,
		BodyStart: b.RawSpan.Start,
		Page:      ev.page,
		Span:      b.OpenSpan,
		Open:      b.Open,
		Diag:      ev.diag,
	}

	mt := Module(kind)
	var out ModuleOutput
	if mt.PageOnly && !ev.mode.PageSyntax() {
		ev.diag.Add(RulePageSyntaxDisabled, b.Open, b.OpenSpan)
		out = ModuleOutput{
			Kind:    OutputInline,
			Inlines: []Inline{htmlInline(placeholderHTML("module", name, b.Raw))},
		}
	} else {
		out = EvaluateModule(kind, call)
	}

	b.Result = &ModuleResult{
		Module: strings.ToLower(name),
		Known:  kind != ModuleUnknown,
		Output: out,
	}

	switch out.Kind {
	case OutputStyle:
		ev.styles = append(ev.styles, out.Style)
	case OutputMeta:
		ev.meta = append(ev.meta, out.Meta...)
	}
}

// arguments parses the block's argument string, reporting failures.
func (ev *evaluator) arguments(b *Block) *Arguments {
	args, err := ParseArguments(b.Argument)
	if err != nil {
		ev.diag.Add(RuleInvalidArguments, b.Open, b.OpenSpan)
		return &Arguments{Named: map[string]string{}}
	}
	return args
}
