package wikitext

import "strings"

// evalCSS forwards the body as a stylesheet fragment. Content that does not
// look like CSS is reported but still forwarded.
func evalCSS(call ModuleCall) ModuleOutput {
	if !plausibleCSS(call.Body) {
		call.Diag.Add(RuleInvalidCSS, call.Open, call.Span)
	}
	return ModuleOutput{
		Kind:  OutputStyle,
		Style: call.Body,
	}
}

// plausibleCSS checks that css is non-blank, its braces balance, and its
// comments and strings are terminated.
func plausibleCSS(css string) bool {
	if strings.TrimSpace(css) == "" {
		return false
	}

	depth := 0
	for i := 0; i < len(css); i++ {
		switch c := css[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		case '/':
			if i+1 < len(css) && css[i+1] == '*' {
				end := strings.Index(css[i+2:], "*/")
				if end < 0 {
					return false
				}
				i += end + 3
			}
		case '"', '\'':
			j := i + 1
			for j < len(css) && css[j] != c && css[j] != '\n' {
				if css[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(css) || css[j] != c {
				return false
			}
			i = j
		}
	}
	return depth == 0
}
