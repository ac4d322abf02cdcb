// Package issue2html renders issue-tracker content into sanitized,
// self-contained HTML fragments for a read-only viewer surface.
//
// # Quick Start
//
// Create a renderer and render a content item:
//
//	r := issue2html.NewRenderer(issue2html.WithBaseURL("https://tracker.example.com"))
//
//	result, err := r.RenderContent(ctx, issue2html.ContentItem{
//	    DocumentID:  "PROJ-123",
//	    Content:     issue2html.RichContent{Markup: "# Summary\n\nSee #PROJ-99 and @jdoe (smile)"},
//	    Attachments: descriptors,
//	}, fetchBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	panel.SetHTML(result.HTML) // embed in a pre-existing styled container
//
// fetchBytes is the caller-supplied byte-fetch capability; each attachment
// it resolves is inlined as a MIME-typed, base64-encoded data URI, and each
// one it cannot resolve is surfaced in result.Failures without failing the
// render.
//
// # Rendering Pipeline
//
// A content item passes through these stages:
//
//  1. Attachment resolution (concurrent fetch, data-URI encoding)
//  2. Markup rendering via Goldmark (GFM, syntax highlighting) or
//     structured-tree conversion, depending on the content representation
//  3. URL sanitization of every link and image target
//  4. Mention and emoticon substitution (markup only)
//  5. A final sanitization pass over the fragment
//
// Activity streams render through RenderActivity: human remarks go through
// the markup renderer, system change records through the field-level diff
// formatter.
//
// # Security
//
// Every externally supplied URL passes SanitizeURL (http, https, data, and
// bare fragments only), all text is entity-escaped, and rendered markup is
// additionally filtered through a bluemonday policy. Rendering never raises
// past the RenderContent boundary: malformed input degrades to a visibly
// marked error block inside an otherwise normal fragment.
package issue2html
