// diagnostics.go collects non-fatal warnings produced while rendering.
package wikitext

import (
	"github.com/rs/zerolog/log"
)

// Rule identifiers carried by warnings.
const (
	RuleUnclosedDirective  = "unclosed-directive"
	RuleMismatchedClose    = "mismatched-close"
	RuleUnknownModule      = "unknown-module"
	RuleInvalidCSS         = "invalid-css"
	RuleInvalidMeta        = "invalid-meta"
	RuleInvalidMarkdown    = "invalid-markdown"
	RuleInvalidArguments   = "invalid-arguments"
	RuleUnknownAttribute   = "unknown-attribute"
	RuleUnclosedInline     = "unclosed-inline"
	RulePageSyntaxDisabled = "page-syntax-disabled"
	RuleInvalidURL         = "invalid-url"
)

// Warning kinds. Kind is an open classification; these are the defaults.
const (
	KindWarning = "warning"
	KindError   = "error"
)

// defaultSeverity maps rules to kinds when Settings.Severity has no entry.
var defaultSeverity = map[string]string{
	RuleMismatchedClose: KindError,
}

// Warning is a recoverable issue found in the input.
type Warning struct {
	Token string `json:"token"`
	Rule  string `json:"rule"`
	Span  Span   `json:"span"`
	Kind  string `json:"kind"`
}

// Diagnostics is an append-only warning sink for a single render.
type Diagnostics struct {
	severity map[string]string
	warnings []Warning
}

// NewDiagnostics creates a collector. severity overrides the kind per rule.
func NewDiagnostics(severity map[string]string) *Diagnostics {
	return &Diagnostics{severity: severity}
}

// Add records a warning for rule, triggered by token at span.
func (d *Diagnostics) Add(rule, token string, span Span) {
	w := Warning{
		Token: token,
		Rule:  rule,
		Span:  span,
		Kind:  d.kindOf(rule),
	}
	d.warnings = append(d.warnings, w)
	log.Debug().
		Str("rule", w.Rule).
		Str("kind", w.Kind).
		Str("token", w.Token).
		Int("start", span.Start).
		Int("end", span.End).
		Msg("render warning")
}

func (d *Diagnostics) kindOf(rule string) string {
	if kind, ok := d.severity[rule]; ok && kind != "" {
		return kind
	}
	if kind, ok := defaultSeverity[rule]; ok {
		return kind
	}
	return KindWarning
}

// Warnings returns the collected warnings in discovery order.
func (d *Diagnostics) Warnings() []Warning {
	out := make([]Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}
