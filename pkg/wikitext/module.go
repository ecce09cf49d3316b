// module.go defines the closed set of modules and their evaluators.
package wikitext

import (
	"strings"
)

// ModuleKind identifies a built-in module.
type ModuleKind int

const (
	ModuleUnknown ModuleKind = iota
	ModuleCSS
	ModuleMarkdown
	ModuleRate
	ModuleTags
	ModuleMeta
)

// OutputKind says what a module produced.
type OutputKind int

const (
	OutputNone   OutputKind = iota
	OutputInline            // nodes spliced into the body
	OutputStyle             // a stylesheet fragment
	OutputMeta              // head meta entries
)

var outputKindNames = [...]string{
	OutputNone:   "none",
	OutputInline: "inline",
	OutputStyle:  "style",
	OutputMeta:   "meta",
}

func (k OutputKind) String() string {
	if int(k) < len(outputKindNames) {
		return outputKindNames[k]
	}
	return "none"
}

// MarshalText encodes the output kind by name.
func (k OutputKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ModuleOutput is the result of evaluating one module.
type ModuleOutput struct {
	Kind    OutputKind  `json:"kind"`
	Inlines []Inline    `json:"inlines,omitempty"`
	Style   string      `json:"style,omitempty"`
	Meta    []MetaEntry `json:"meta,omitempty"`
}

// ModuleResult records which module handled a raw block and what it made.
type ModuleResult struct {
	Module string       `json:"module"`
	Known  bool         `json:"known"`
	Output ModuleOutput `json:"output"`
}

// ModuleCall is the input to a module evaluator.
type ModuleCall struct {
	Name string     // name as written, e.g. "CSS"
	Args *Arguments // arguments after the module name
	Body string     // verbatim content
	Page *PageInfo
	Span Span   // open tag span, for diagnostics
	Open string // open tag text, for diagnostics
	Diag *Diagnostics

	// BodyStart is the source offset of Body, for diagnostics inside it.
	BodyStart int
}

// ModuleType describes a registered module.
type ModuleType struct {
	Kind     ModuleKind
	Name     string // canonical lowercase name
	PageOnly bool   // needs page syntax (see Mode.PageSyntax)
	eval     func(ModuleCall) ModuleOutput
}

// moduleTable maps each kind to its evaluator. Adding a module means adding
// a kind above and one entry here.
var moduleTable = [...]ModuleType{
	ModuleUnknown:  {Kind: ModuleUnknown, eval: evalUnknown},
	ModuleCSS:      {Kind: ModuleCSS, Name: "css", eval: evalCSS},
	ModuleMarkdown: {Kind: ModuleMarkdown, Name: "markdown", eval: evalMarkdown},
	ModuleRate:     {Kind: ModuleRate, Name: "rate", PageOnly: true, eval: evalRate},
	ModuleTags:     {Kind: ModuleTags, Name: "tags", PageOnly: true, eval: evalTags},
	ModuleMeta:     {Kind: ModuleMeta, Name: "meta", PageOnly: true, eval: evalMeta},
}

var moduleNames = func() map[string]ModuleKind {
	names := make(map[string]ModuleKind, len(moduleTable))
	for _, mt := range moduleTable {
		if mt.Name != "" {
			names[mt.Name] = mt.Kind
		}
	}
	// Aliases
	names["pagetags"] = ModuleTags
	names["page-tags"] = ModuleTags
	names["rating"] = ModuleRate
	return names
}()

// LookupModule returns the kind registered under name, ignoring case.
// Unknown names return ModuleUnknown.
func LookupModule(name string) ModuleKind {
	return moduleNames[strings.ToLower(name)]
}

// Module returns the registry entry for kind.
func Module(kind ModuleKind) ModuleType {
	if int(kind) < 0 || int(kind) >= len(moduleTable) {
		return moduleTable[ModuleUnknown]
	}
	return moduleTable[kind]
}

// String returns the module's canonical name.
func (k ModuleKind) String() string {
	if name := Module(k).Name; name != "" {
		return name
	}
	return "unknown"
}

// EvaluateModule runs the evaluator for kind.
func EvaluateModule(kind ModuleKind, call ModuleCall) ModuleOutput {
	if call.Diag == nil {
		call.Diag = NewDiagnostics(nil)
	}
	if call.Page == nil {
		call.Page = &PageInfo{}
	}
	return Module(kind).eval(call)
}

// evalUnknown renders an opaque placeholder and keeps the body as text.
func evalUnknown(call ModuleCall) ModuleOutput {
	call.Diag.Add(RuleUnknownModule, call.Open, call.Span)
	return ModuleOutput{
		Kind:    OutputInline,
		Inlines: []Inline{htmlInline(placeholderHTML("module", call.Name, call.Body))},
	}
}

// placeholderHTML builds the element used for anything the engine does not
// recognize. The name becomes a class; the body is escaped.
func placeholderHTML(kind, name, body string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="wt-unknown-`)
	sb.WriteString(kind)
	if class := className(name); class != "" {
		sb.WriteString(" ")
		sb.WriteString(class)
	}
	sb.WriteString(`">`)
	sb.WriteString(escapeHTML(body))
	sb.WriteString(`</div>`)
	return sb.String()
}

// className reduces s to a safe lowercase CSS class name.
func className(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
