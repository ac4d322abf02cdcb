package issue2html

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// defaultFetchTimeout bounds attachment resolution per render call.
const defaultFetchTimeout = 30 * time.Second

// rendererConfig holds immutable configuration applied via options.
type rendererConfig struct {
	baseURL      string
	fetchTimeout time.Duration
}

// Option customizes a Renderer.
type Option func(*rendererConfig)

// WithBaseURL sets the tracker base URL used to match absolute attachment
// references. The value is used for pattern matching only; sanitization is
// always reapplied to every URL.
func WithBaseURL(baseURL string) Option {
	return func(cfg *rendererConfig) { cfg.baseURL = baseURL }
}

// WithFetchTimeout overrides the attachment-fetch timeout. Zero disables
// the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(cfg *rendererConfig) { cfg.fetchTimeout = d }
}

// Renderer is the content pipeline orchestrator: it resolves attachments,
// dispatches a content item to the matching renderer, and surfaces
// per-attachment failures without failing the overall render.
//
// A Renderer is immutable after construction and safe for concurrent use.
type Renderer struct {
	cfg      rendererConfig
	resolver AttachmentResolver
	markup   *MarkupRenderer
	document DocumentRenderer
	changes  ChangeFormatter
}

// NewRenderer creates a Renderer with default configuration.
func NewRenderer(opts ...Option) *Renderer {
	cfg := rendererConfig{fetchTimeout: defaultFetchTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Renderer{
		cfg:    cfg,
		markup: NewMarkupRenderer(cfg.baseURL),
	}
}

// RenderContent renders one content item to an HTML fragment. Attachments
// are resolved first (concurrently, bounded by the fetch timeout), then the
// item dispatches to the markup or document renderer. Failure notices are
// appended after the content and returned for the caller to log or display.
// Recovers from internal panics so malformed content can never crash the
// hosting viewer.
func (r *Renderer) RenderContent(ctx context.Context, item ContentItem, fetch FetchFunc) (result *RenderResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	resolved, failures := r.resolveAttachments(ctx, item.DocumentID, item.Attachments, fetch)

	var fragment string
	if item.Content.IsDocument() {
		fragment = r.document.Render(item.Content.Document, item.DocumentID, resolved)
	} else {
		fragment = r.markup.Render(item.Content.Markup, resolved)
	}

	if len(failures) > 0 {
		fragment += renderFailureNotices(failures)
	}
	return &RenderResult{HTML: fragment, Failures: failures}, nil
}

// RenderActivity renders an activity stream in entry order: remarks go
// through the markup renderer, change records through the change formatter.
// Entries never carry attachments of their own.
func (r *Renderer) RenderActivity(ctx context.Context, entries []ActivityEntry) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(`<div class="activity-entry">`)
		b.WriteString(activityHeader(entry))
		if isChangeRecord(entry) {
			b.WriteString(r.changes.FormatChange(entry))
		} else {
			b.WriteString(r.markup.Render(entry.Body, nil))
		}
		b.WriteString("</div>\n")
	}
	if ctx != nil && ctx.Err() != nil {
		return "", ctx.Err()
	}
	return b.String(), nil
}

// resolveAttachments runs the resolver under the configured timeout.
func (r *Renderer) resolveAttachments(ctx context.Context, documentID string, descriptors []AttachmentDescriptor, fetch FetchFunc) ([]ResolvedAttachment, []FailureNotice) {
	if len(descriptors) == 0 {
		return nil, nil
	}
	if r.cfg.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.fetchTimeout)
		defer cancel()
	}
	return r.resolver.Resolve(ctx, documentID, descriptors, fetch)
}

// activityHeader emits the author/timestamp line of an activity entry.
func activityHeader(e ActivityEntry) string {
	var b strings.Builder
	b.WriteString(`<div class="activity-meta"><span class="activity-author">`)
	b.WriteString(EscapeHTML(e.Author))
	b.WriteString(`</span>`)
	if !e.Timestamp.IsZero() {
		b.WriteString(` <time datetime="` + e.Timestamp.Format(time.RFC3339) + `">`)
		b.WriteString(e.Timestamp.Format("2006-01-02 15:04"))
		b.WriteString(`</time>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// renderFailureNotices emits the inline block listing attachments that
// could not be resolved.
func renderFailureNotices(failures []FailureNotice) string {
	var b strings.Builder
	b.WriteString(`<div class="attachment-failures">`)
	for _, f := range failures {
		b.WriteString(`<div class="attachment-error">⚠ `)
		b.WriteString(EscapeHTML(f.Name))
		b.WriteString(`: `)
		b.WriteString(EscapeHTML(f.Reason))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
