package wikitext

import "regexp"

var (
	dosNewlines      = regexp.MustCompile(`\r\n`)
	macNewlines      = regexp.MustCompile(`\r`)
	whitespaceLines  = regexp.MustCompile(`(?m)^[ \t\f\v]+$`)
	concatBackslash  = regexp.MustCompile(`\\\n`)
	tabs             = regexp.MustCompile(`\t`)
	compressNewlines = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
)

// Preprocess applies the substitutions done before parsing:
//   - DOS and legacy Mac newlines become '\n'
//   - whitespace-only lines become empty
//   - a backslash at the end of a line joins it with the next
//   - tabs become four spaces
//   - three or more newlines collapse into two
func Preprocess(text string) string {
	text = dosNewlines.ReplaceAllString(text, "\n")
	text = macNewlines.ReplaceAllString(text, "\n")
	text = whitespaceLines.ReplaceAllString(text, "")
	text = concatBackslash.ReplaceAllString(text, "")
	text = tabs.ReplaceAllString(text, "    ")
	text = compressNewlines.ReplaceAllString(text, "\n\n")
	return text
}
