package issue2html

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// htmlEscaper covers the five characters that can break out of HTML text
// and attribute contexts.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML replaces & < > " ' with their entity forms. Total function,
// never fails.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// allowedURLSchemes is the scheme allow-list for link and image targets.
var allowedURLSchemes = []string{"http:", "https:", "data:"}

// SanitizeURL returns the escaped URL unchanged if its scheme is on the
// allow-list or it is a bare fragment; everything else collapses to "#".
// This is the sole XSS defense for externally supplied link and image
// targets and must run before any URL is embedded.
func SanitizeURL(raw string) string {
	return EscapeHTML(sanitizeURLValue(raw))
}

// sanitizeURLValue applies the scheme allow-list without entity-escaping.
// Used when the value is handed to an HTML serializer that escapes on its
// own; SanitizeURL is the variant for hand-built markup.
func sanitizeURLValue(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "#"
	}
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	for _, scheme := range allowedURLSchemes {
		if strings.HasPrefix(lower, scheme) {
			return trimmed
		}
	}
	return "#"
}

var positiveInteger = regexp.MustCompile(`^[0-9]+$`)

// fragmentPolicy is the defense-in-depth gate applied to rendered markup
// fragments. SanitizeURL remains the primary URL defense; this policy
// strips any element or attribute outside the pipeline's own output
// vocabulary (mention spans, highlighted code, inlined data-URI
// attachments, GFM tables and task lists).
var fragmentPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("span", "code", "pre", "p", "div")
	p.AllowAttrs("start").Matching(positiveInteger).OnElements("ol")
	p.AllowAttrs("colspan", "rowspan").Matching(positiveInteger).OnElements("td", "th")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowElements("input")
	p.AllowURLSchemes("mailto", "http", "https")
	// Rewritten attachment references put data URIs on anchors as well as
	// images, and only URIs the pipeline built itself reach this point.
	p.AllowURLSchemeWithCustomPolicy("data", func(*url.URL) bool { return true })
	return p
})

// sanitizeFragment runs the bluemonday policy over a rendered fragment.
func sanitizeFragment(fragment string) string {
	return fragmentPolicy().Sanitize(fragment)
}
