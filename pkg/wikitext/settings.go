package wikitext

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal render errors. A render that fails returns one of these (wrapped)
// and no output.
var (
	ErrInputTooLarge   = errors.New("input exceeds size limit")
	ErrNestingTooDeep  = errors.New("directive nesting exceeds depth limit")
	ErrInvalidPageInfo = errors.New("invalid page info")
)

// Mode selects which syntax is available, mirroring where the text is used.
type Mode string

const (
	ModePage          Mode = "page"
	ModeDraft         Mode = "draft"
	ModeForumPost     Mode = "forum-post"
	ModeDirectMessage Mode = "direct-message"
	ModeList          Mode = "list"
)

// Modes returns all known modes.
func Modes() []Mode {
	return []Mode{ModePage, ModeDraft, ModeForumPost, ModeDirectMessage, ModeList}
}

// ParseMode converts a mode name, accepting any case.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// PageSyntax reports whether page-bound modules may run in this mode.
func (m Mode) PageSyntax() bool {
	return m == ModePage || m == ModeDraft || m == ""
}

// Settings controls a single render call.
type Settings struct {
	Mode Mode

	// MaxInputBytes fails the render when the input is larger (0 = no limit).
	MaxInputBytes int

	// MaxDepth fails the render when directives nest deeper (0 = no limit).
	MaxDepth int

	// Preprocess normalizes newlines, tabs and blank lines before lexing.
	// Spans then refer to the preprocessed text.
	Preprocess bool

	// StrictInline reports unclosed inline markers as warnings.
	StrictInline bool

	// Severity overrides the warning kind per rule.
	Severity map[string]string

	// Grammar replaces the default vocabulary when set.
	Grammar *Grammar
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		Mode:          ModePage,
		MaxInputBytes: 4 << 20,
		MaxDepth:      64,
	}
}

func (s Settings) grammar() *Grammar {
	if s.Grammar != nil {
		return s.Grammar
	}
	return DefaultGrammar()
}
