package issue2html

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/trackerview/go-issue2html/internal/htmlwalk"
)

// emptyContentFragment is returned for items with no renderable text.
const emptyContentFragment = `<p class="empty-content">No content</p>`

// markupEngine returns the process-wide goldmark instance. Construction
// runs at most once; a goldmark.Markdown is safe for concurrent use after
// construction, so every MarkupRenderer shares it.
var markupEngine = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, autolinks
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.PreventSurroundingPre(true),
				),
				highlighting.WithWrapperRenderer(codeBlockWrapper),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // tracker comments treat newlines as breaks
			html.WithXHTML(),
		),
	)
})

// codeBlockWrapper emits <pre><code class="language-X"> around highlighted
// code. Blocks without a language label get the "text" class.
func codeBlockWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return
	}
	lang := "text"
	if l, ok := c.Language(); ok && len(l) > 0 {
		lang = string(l)
	}
	_, _ = fmt.Fprintf(w, `<pre><code class="language-%s">`, EscapeHTML(lang))
}

// Markup preprocessing patterns (line endings, blank-line runs).
var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// preprocessMarkup normalizes raw tracker text before parsing.
func preprocessMarkup(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return content
}

// Mention and attachment-reference patterns applied to rendered HTML.
// The leading boundary group keeps matches out of attribute values, which
// are always preceded by a quote character.
var (
	issueKeyPattern       = regexp.MustCompile(`(^|[>\s(])#([A-Z][A-Za-z0-9_]*-\d+)\b`)
	userMentionPattern    = regexp.MustCompile(`(^|[>\s(])@([A-Za-z0-9._-]*[A-Za-z0-9])`)
	attachmentLinkPattern = regexp.MustCompile(`\(([^()\s]*/file/(\d+))\)`)
)

// emoticonGlyphs maps parenthesized emoticon tokens to symbol glyphs.
// Tokens are substituted literally, never as regular expressions.
var emoticonGlyphs = []struct {
	token string
	glyph string
}{
	{"(smile)", "🙂"},
	{"(sad)", "🙁"},
	{"(wink)", "😉"},
	{"(grin)", "😀"},
	{"(laugh)", "😆"},
	{"(cool)", "😎"},
	{"(heart)", "❤"},
	{"(star)", "⭐"},
	{"(check)", "✔"},
	{"(cross)", "❌"},
	{"(warning)", "⚠"},
	{"(info)", "ℹ"},
	{"(question)", "❓"},
}

// MarkupRenderer converts lightweight markup text to a sanitized HTML
// fragment. Construct via NewMarkupRenderer; the zero value works but
// matches attachment references against any host.
type MarkupRenderer struct {
	baseURL string
}

// NewMarkupRenderer creates a MarkupRenderer. baseURL, when non-empty,
// restricts absolute attachment references to that tracker instance; it is
// used for matching only, never trusted for sanitization.
func NewMarkupRenderer(baseURL string) *MarkupRenderer {
	return &MarkupRenderer{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Render converts markup text to HTML: attachment placeholder rewriting,
// goldmark parsing, URL sanitization, mention and emoticon substitution,
// and a final sanitization pass. It never panics past this boundary; a
// failed parse yields an error fragment holding the escaped source.
func (r *MarkupRenderer) Render(markup string, resolved []ResolvedAttachment) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = renderErrorFragment(markup)
		}
	}()

	if strings.TrimSpace(markup) == "" {
		return emptyContentFragment
	}

	src := preprocessMarkup(markup)
	src = r.rewriteAttachmentRefs(src, resolved)

	var buf bytes.Buffer
	if err := markupEngine().Convert([]byte(src), &buf); err != nil {
		return renderErrorFragment(markup)
	}

	rendered, err := htmlwalk.RewriteURLAttrs(buf.String(), func(tag, attr, val string) string {
		return sanitizeURLValue(val)
	})
	if err != nil {
		return renderErrorFragment(markup)
	}

	rendered = substituteMentions(rendered)
	rendered = substituteEmoticons(rendered)
	return sanitizeFragment(rendered)
}

// rewriteAttachmentRefs replaces link and image destinations of the form
// .../file/<id> with the matching attachment's inline reference. Unmatched
// ids are left alone; they degrade to "#" during URL sanitization.
func (r *MarkupRenderer) rewriteAttachmentRefs(src string, resolved []ResolvedAttachment) string {
	if len(resolved) == 0 {
		return src
	}
	byID := indexResolved(resolved)
	return attachmentLinkPattern.ReplaceAllStringFunc(src, func(match string) string {
		sub := attachmentLinkPattern.FindStringSubmatch(match)
		target := sub[1]
		if r.baseURL != "" && strings.Contains(target, "://") && !strings.HasPrefix(target, r.baseURL) {
			return match
		}
		id, err := strconv.Atoi(sub[2])
		if err != nil {
			return match
		}
		att, ok := byID[id]
		if !ok {
			return match
		}
		return "(" + att.InlineRef + ")"
	})
}

// substituteMentions wraps issue keys (#PROJ-123) and user handles (@jdoe)
// in styled mention spans, retaining the literal key or handle.
func substituteMentions(rendered string) string {
	rendered = issueKeyPattern.ReplaceAllString(rendered, `$1<span class="mention mention-issue">$2</span>`)
	rendered = userMentionPattern.ReplaceAllString(rendered, `$1<span class="mention mention-user">$2</span>`)
	return rendered
}

// substituteEmoticons replaces emoticon tokens with their glyphs.
func substituteEmoticons(rendered string) string {
	for _, e := range emoticonGlyphs {
		rendered = strings.ReplaceAll(rendered, e.token, e.glyph)
	}
	return rendered
}

// renderErrorFragment is the fallback for unrenderable markup: a visibly
// marked block holding the escaped original text.
func renderErrorFragment(src string) string {
	return `<div class="render-error"><p>Content could not be rendered.</p><pre>` +
		EscapeHTML(src) + `</pre></div>`
}
