// args.go parses directive argument strings such as `CSS` or
// `class="note wide" id=intro`.
package wikitext

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Arguments holds the parsed argument string of an open tag.
type Arguments struct {
	Positional []string          `json:"positional,omitempty"`
	Named      map[string]string `json:"named,omitempty"`

	keySpans map[string]Span // byte range of each named key in the argument string
}

// KeySpan returns where a named key was written, relative to the start of
// the argument string.
func (a *Arguments) KeySpan(key string) (Span, bool) {
	if a == nil {
		return Span{}, false
	}
	sp, ok := a.keySpans[strings.ToLower(key)]
	return sp, ok
}

// Get returns a named argument (keys are lowercase).
func (a *Arguments) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.Named[strings.ToLower(key)]
	return v, ok
}

// First returns the first positional argument, or "".
func (a *Arguments) First() string {
	if a == nil || len(a.Positional) == 0 {
		return ""
	}
	return a.Positional[0]
}

// Keys returns the named argument keys in sorted order.
func (a *Arguments) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, 0, len(a.Named))
	for k := range a.Named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type argumentList struct {
	Items []*argumentItem `parser:"@@*"`
}

type argumentItem struct {
	Pos lexer.Position

	Key   string         `parser:"@(Word | String)"`
	Value *argumentValue `parser:"( \"=\" @@ )?"`
}

type argumentValue struct {
	Text string `parser:"@(String | Word)"`
}

// argumentLexer tokenizes argument strings.
var argumentLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Double or single quoted values; backslash escapes the quote
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s="']+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var argumentParser = participle.MustBuild[argumentList](
	participle.Lexer(argumentLexer),
	participle.Elide("Whitespace"),
)

// ParseArguments parses an argument string. An empty string yields empty
// arguments.
func ParseArguments(s string) (*Arguments, error) {
	args := &Arguments{Named: map[string]string{}, keySpans: map[string]Span{}}
	if strings.TrimSpace(s) == "" {
		return args, nil
	}

	list, err := argumentParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments %q: %w", s, err)
	}

	for _, item := range list.Items {
		if item.Value == nil {
			args.Positional = append(args.Positional, unquote(item.Key))
			continue
		}
		key := strings.ToLower(unquote(item.Key))
		args.Named[key] = unquote(item.Value.Text)
		args.keySpans[key] = Span{item.Pos.Offset, item.Pos.Offset + len(item.Key)}
	}
	return args, nil
}

// unquote strips quotes and backslash escapes from a String token.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	if q == '"' {
		if v, err := strconv.Unquote(s); err == nil {
			return v
		}
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, `\`+string(q), string(q))
}
