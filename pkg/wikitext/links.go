package wikitext

import "strings"

// blockedSchemes can run script in the browser and never become links.
var blockedSchemes = []string{"javascript:", "vbscript:", "data:"}

// looksLikeURL reports whether s was meant as a link target: a site path
// or something with a scheme. Bracketed prose such as "[see above]" is not.
func looksLikeURL(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '/' {
		return true
	}
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" || rest == "" {
		return false
	}
	for i := 0; i < len(scheme); i++ {
		c := scheme[i]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !letter && (i == 0 || !(c >= '0' && c <= '9' || c == '+' || c == '.' || c == '-')) {
			return false
		}
	}
	return true
}

// validLinkURL accepts site paths and absolute URLs whose scheme is not
// script-capable.
func validLinkURL(s string) bool {
	if strings.HasPrefix(s, "/") {
		return !strings.HasPrefix(s, "//") || validate.Var("https:"+s, "url") == nil
	}
	lower := strings.ToLower(s)
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return validate.Var(s, "url") == nil
}
