package wikitext

import (
	"strconv"
	"strings"
)

// evalRate renders the page score widget.
func evalRate(call ModuleCall) ModuleOutput {
	score := strconv.FormatFloat(call.Page.Score, 'f', -1, 64)
	if call.Page.Score > 0 {
		score = "+" + score
	}

	var sb strings.Builder
	sb.WriteString(`<div class="page-rate-widget-box" data-page="`)
	sb.WriteString(escapeHTML(call.Page.Slug))
	sb.WriteString(`"><span class="rate-points">rating: <span class="number">`)
	sb.WriteString(escapeHTML(score))
	sb.WriteString(`</span></span></div>`)

	return ModuleOutput{
		Kind:    OutputInline,
		Inlines: []Inline{htmlInline(sb.String())},
	}
}

// evalTags renders the page tags as a list of links.
func evalTags(call ModuleCall) ModuleOutput {
	prefix := "/system:page-tags/tag/"
	if v, ok := call.Args.Get("prefix"); ok {
		prefix = v
	}

	var sb strings.Builder
	sb.WriteString(`<div class="page-tags"><span>`)
	for i, tag := range call.Page.Tags {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(`<a href="`)
		sb.WriteString(escapeHTML(prefix + tag))
		sb.WriteString(`">`)
		sb.WriteString(escapeHTML(tag))
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</span></div>`)

	return ModuleOutput{
		Kind:    OutputInline,
		Inlines: []Inline{htmlInline(sb.String())},
	}
}

// evalMeta turns "key = value" lines into meta entries. The type= argument
// selects name (default), http-equiv or property.
func evalMeta(call ModuleCall) ModuleOutput {
	metaType := MetaName
	if v, ok := call.Args.Get("type"); ok {
		t, err := ParseMetaType(v)
		if err != nil {
			call.Diag.Add(RuleInvalidMeta, call.Open, call.Span)
		} else {
			metaType = t
		}
	}

	var entries []MetaEntry
	offset := call.BodyStart
	for _, raw := range strings.Split(call.Body, "\n") {
		lineStart := offset
		offset += len(raw) + 1

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			start := lineStart + strings.Index(raw, line)
			call.Diag.Add(RuleInvalidMeta, line, Span{start, start + len(line)})
			continue
		}
		entries = append(entries, MetaEntry{
			Type:  metaType,
			Name:  key,
			Value: strings.TrimSpace(value),
		})
	}

	if len(entries) == 0 {
		return ModuleOutput{Kind: OutputNone}
	}
	return ModuleOutput{Kind: OutputMeta, Meta: entries}
}
