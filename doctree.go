package issue2html

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentRenderer converts a structured document tree to an HTML fragment.
// The conversion is pure with respect to the tree and total: every
// well-formed node yields some string, possibly empty.
type DocumentRenderer struct{}

// Render converts the tree rooted at root. documentID identifies the
// enclosing content item; resolved supplies inline references for embedded
// image nodes that point at attachments.
func (DocumentRenderer) Render(root *StructuredNode, documentID string, resolved []ResolvedAttachment) string {
	if root == nil {
		return emptyContentFragment
	}
	byID := indexResolved(resolved)
	var b strings.Builder
	renderNode(&b, root, byID)
	out := b.String()
	if strings.TrimSpace(out) == "" {
		return emptyContentFragment
	}
	return out
}

// renderNode dispatches on node kind. Unknown kinds render their children,
// so new tracker node types degrade instead of breaking the document.
func renderNode(b *strings.Builder, n *StructuredNode, byID map[int]ResolvedAttachment) {
	if n == nil {
		return
	}
	switch n.Type {
	case NodeText:
		b.WriteString(renderTextNode(n))
	case NodeDoc:
		renderChildren(b, n, byID)
	case NodeParagraph:
		wrapChildren(b, n, byID, "<p>", "</p>\n")
	case NodeHeading:
		level := clampInt(intAttr(n, 1, "level"), 1, 6)
		wrapChildren(b, n, byID, fmt.Sprintf("<h%d>", level), fmt.Sprintf("</h%d>\n", level))
	case NodeBulletList:
		wrapChildren(b, n, byID, "<ul>\n", "</ul>\n")
	case NodeOrderedList:
		open := "<ol>"
		if start := intAttr(n, 1, "start", "order"); start != 1 {
			open = fmt.Sprintf(`<ol start="%d">`, start)
		}
		wrapChildren(b, n, byID, open+"\n", "</ol>\n")
	case NodeListItem:
		wrapChildren(b, n, byID, "<li>", "</li>\n")
	case NodeBlockquote:
		wrapChildren(b, n, byID, "<blockquote>\n", "</blockquote>\n")
	case NodeTable:
		wrapChildren(b, n, byID, "<table>\n", "</table>\n")
	case NodeTableRow:
		wrapChildren(b, n, byID, "<tr>", "</tr>\n")
	case NodeTableCell:
		wrapChildren(b, n, byID, cellOpenTag(n, "td"), "</td>")
	case NodeTableHeader:
		wrapChildren(b, n, byID, cellOpenTag(n, "th"), "</th>")
	case NodeCodeBlock:
		b.WriteString(renderCodeBlock(n))
	case NodeHardBreak:
		b.WriteString("<br />\n")
	case NodeHorizontalRule:
		b.WriteString("<hr />\n")
	case NodeImage:
		b.WriteString(renderImageNode(n, byID))
	default:
		renderChildren(b, n, byID)
	}
}

func renderChildren(b *strings.Builder, n *StructuredNode, byID map[int]ResolvedAttachment) {
	for _, child := range n.Content {
		renderNode(b, child, byID)
	}
}

func wrapChildren(b *strings.Builder, n *StructuredNode, byID map[int]ResolvedAttachment, open, closing string) {
	b.WriteString(open)
	renderChildren(b, n, byID)
	b.WriteString(closing)
}

// renderTextNode escapes the text and folds the marks over it from the end
// of the list backwards, so the first mark in the list becomes the
// outermost tag.
func renderTextNode(n *StructuredNode) string {
	out := EscapeHTML(n.Text)
	for i := len(n.Marks) - 1; i >= 0; i-- {
		out = wrapMark(n.Marks[i], out)
	}
	return out
}

func wrapMark(m Mark, inner string) string {
	switch m.Type {
	case MarkStrong:
		return "<strong>" + inner + "</strong>"
	case MarkEmphasis:
		return "<em>" + inner + "</em>"
	case MarkCode:
		return "<code>" + inner + "</code>"
	case MarkUnderline:
		return "<u>" + inner + "</u>"
	case MarkStrikethrough:
		return "<s>" + inner + "</s>"
	case MarkLink:
		return `<a href="` + SanitizeURL(m.Href) + `">` + inner + "</a>"
	default:
		return inner
	}
}

// renderCodeBlock emits the block's text children escaped and unmarked,
// tagged with a language class (default "text").
func renderCodeBlock(n *StructuredNode) string {
	lang := strAttr(n, "text", "language")
	var text strings.Builder
	for _, child := range n.Content {
		if child != nil && child.Type == NodeText {
			text.WriteString(child.Text)
		}
	}
	return `<pre><code class="language-` + EscapeHTML(lang) + `">` +
		EscapeHTML(text.String()) + "</code></pre>\n"
}

// renderImageNode embeds an image. Internal attachment references are
// swapped for the attachment's inline reference; a malformed reference, an
// unknown id, or a failed resolution yields a visible placeholder rather
// than a broken image.
func renderImageNode(n *StructuredNode, byID map[int]ResolvedAttachment) string {
	src := strAttr(n, "", "src")
	alt := strAttr(n, "", "alt")
	title := strAttr(n, "", "title")

	if looksLikeAttachmentRef(src) {
		id, ok := parseAttachmentRef(src)
		if !ok {
			return attachmentErrorFragment(alt)
		}
		att, found := byID[id]
		if !found {
			return attachmentErrorFragment(attachmentLabel(alt, id))
		}
		src = att.InlineRef
		if alt == "" {
			alt = att.Name
		}
	}

	tag := `<img src="` + SanitizeURL(src) + `" alt="` + EscapeHTML(alt) + `"`
	if title != "" {
		tag += ` title="` + EscapeHTML(title) + `"`
	}
	return tag + " />"
}

// attachmentErrorFragment is the inline placeholder for an attachment that
// could not be embedded.
func attachmentErrorFragment(label string) string {
	out := `<span class="attachment-error">⚠ attachment unavailable`
	if label != "" {
		out += ": " + EscapeHTML(label)
	}
	return out + "</span>"
}

func attachmentLabel(alt string, id int) string {
	if alt != "" {
		return alt
	}
	return "#" + strconv.Itoa(id)
}

// cellOpenTag opens a table cell, carrying colspan/rowspan only when >1.
func cellOpenTag(n *StructuredNode, tag string) string {
	open := "<" + tag
	if colspan := intAttr(n, 1, "colspan"); colspan > 1 {
		open += fmt.Sprintf(` colspan="%d"`, colspan)
	}
	if rowspan := intAttr(n, 1, "rowspan"); rowspan > 1 {
		open += fmt.Sprintf(` rowspan="%d"`, rowspan)
	}
	return open + ">"
}

// intAttr reads the first present attribute among keys as an integer.
// JSON decoding yields float64 for numbers; string values are parsed.
func intAttr(n *StructuredNode, def int, keys ...string) int {
	for _, key := range keys {
		v, ok := n.Attrs[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case int:
			return t
		case int64:
			return int(t)
		case float64:
			return int(t)
		case string:
			if parsed, err := strconv.Atoi(t); err == nil {
				return parsed
			}
		}
	}
	return def
}

func strAttr(n *StructuredNode, def string, keys ...string) string {
	for _, key := range keys {
		if v, ok := n.Attrs[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return def
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
