package svg

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	svgOpenTagRe = regexp.MustCompile(`(?i)<svg([^>]*)>`)

	// Leading whitespace is required so width= inside stroke-width= is
	// left alone.
	sizeAttrRe = regexp.MustCompile(`(?i)\s+(width|height)\s*=\s*("[^"]*"|'[^']*')`)

	preserveAspectRatioAttrRe = regexp.MustCompile(`(?i)\s*preserveAspectRatio\s*=\s*("[^"]*"|'[^']*')`)

	viewBoxAttrRe = regexp.MustCompile(`(?i)viewBox\s*=\s*["'][^"']+["']`)
)

// Resize rewrites the root <svg> element's intrinsic size to size×size
// pixels. When the element declares a viewBox, preserveAspectRatio is set so
// the drawing scales to fit; without geometry information width/height are
// set bare. Content without an <svg> opening tag is returned unchanged.
//
// Resize is idempotent: resizing an already-resized document to the same
// size yields byte-identical output.
func Resize(raw string, size int) string {
	loc := svgOpenTagRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return raw
	}

	attrs := raw[loc[2]:loc[3]]

	closing := ">"
	if trimmed := strings.TrimRight(attrs, " \t\r\n"); strings.HasSuffix(trimmed, "/") {
		closing = "/>"
		attrs = strings.TrimSuffix(trimmed, "/")
	}

	// Drop existing size and fit attributes so repeated calls converge.
	attrs = sizeAttrRe.ReplaceAllString(attrs, "")
	attrs = preserveAspectRatioAttrRe.ReplaceAllString(attrs, "")
	hasViewBox := viewBoxAttrRe.MatchString(attrs)

	var newTag string
	if hasViewBox {
		newTag = fmt.Sprintf(`<svg%s width="%d" height="%d" preserveAspectRatio="xMidYMid meet"%s`, attrs, size, size, closing)
	} else {
		newTag = fmt.Sprintf(`<svg%s width="%d" height="%d"%s`, attrs, size, size, closing)
	}

	// Replace only the root opening tag.
	return raw[:loc[0]] + newTag + raw[loc[1]:]
}
