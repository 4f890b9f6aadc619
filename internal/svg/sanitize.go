// Package svg provides sanitization and resizing of SVG source text.
//
// Both operations are fail-open: on input that does not look like an SVG
// document, or on any internal failure, the original text is returned
// unchanged. Serving a mildly malformed icon is preferable to failing the
// request for a cosmetic asset.
package svg

import (
	"regexp"
	"strings"
)

// Elements that can execute script or trigger network fetches. Removed
// together with their content. Drawing primitives, groups, defs, symbols
// and filters are preserved.
var forbiddenElements = []string{
	"script",
	"iframe",
	"object",
	"embed",
	"link",
	"style",
	"foreignObject",
}

var (
	forbiddenElementRes = buildForbiddenElementRes()

	// Inline event handlers: onload, onerror, onclick, ...
	eventHandlerAttrRe = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)

	// href/xlink:href values with a javascript: or data: scheme.
	scriptHrefAttrRe = regexp.MustCompile(`(?i)\s+(xlink:)?href\s*=\s*("\s*(javascript|data):[^"]*"|'\s*(javascript|data):[^']*'|(javascript|data):[^\s>]*)`)
)

func buildForbiddenElementRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(forbiddenElements)*2)
	for _, el := range forbiddenElements {
		// Paired form with content, then any self-closing or dangling
		// open tag left over.
		res = append(res,
			regexp.MustCompile(`(?is)<`+el+`\b[^>]*>.*?</`+el+`\s*>`),
			regexp.MustCompile(`(?is)<`+el+`\b[^>]*/?>`),
		)
	}
	return res
}

// Sanitize strips script-capable elements, inline event handlers, and
// script-scheme hrefs from SVG source text. Content without a recognizable
// <svg> opening tag is returned unchanged. Sanitize never returns an error
// and never panics; on internal failure the original content is returned.
func Sanitize(raw string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = raw
		}
	}()

	if !strings.Contains(strings.ToLower(raw), "<svg") {
		return raw
	}

	sanitized := raw
	for _, re := range forbiddenElementRes {
		sanitized = re.ReplaceAllString(sanitized, "")
	}
	sanitized = eventHandlerAttrRe.ReplaceAllString(sanitized, "")
	sanitized = scriptHrefAttrRe.ReplaceAllString(sanitized, "")

	return sanitized
}
