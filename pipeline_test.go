package issue2html

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRenderer_RenderContent_Markup(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	item := ContentItem{
		DocumentID: "PROJ-7",
		Content:    RichContent{Markup: "# Report\n\nSee #PROJ-8."},
	}
	result, err := r.RenderContent(context.Background(), item, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<h1>Report</h1>", `class="mention-issue"`} {
		if !strings.Contains(result.HTML, want) {
			t.Errorf("output missing %q:\n%s", want, result.HTML)
		}
	}
	if len(result.Failures) != 0 {
		t.Errorf("unexpected failures: %v", result.Failures)
	}
}

func TestRenderer_RenderContent_Document(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	item := ContentItem{
		DocumentID: "PROJ-7",
		Content: RichContent{Document: &StructuredNode{Type: NodeDoc, Content: []*StructuredNode{
			{Type: NodeParagraph, Content: []*StructuredNode{textNode("tree content")}},
		}}},
	}
	result, err := r.RenderContent(context.Background(), item, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.HTML, "<p>tree content</p>") {
		t.Errorf("document path not taken:\n%s", result.HTML)
	}
}

func TestRenderer_RenderContent_AttachmentFlow(t *testing.T) {
	t.Parallel()

	fetch := func(ctx context.Context, documentID string, attachmentID int) ([]byte, error) {
		switch attachmentID {
		case 1:
			return []byte("imagebytes"), nil
		case 2:
			return nil, errors.New("storage unreachable")
		}
		return nil, errors.New("unknown attachment")
	}

	r := NewRenderer()
	item := ContentItem{
		DocumentID: "PROJ-7",
		Content:    RichContent{Markup: "![shot](/document/PROJ-7/file/1)"},
		Attachments: []AttachmentDescriptor{
			{ID: 1, Name: "shot.png"},
			{ID: 2, Name: "trace.log"},
		},
	}
	result, err := r.RenderContent(context.Background(), item, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.HTML, "data:image/png;base64,") {
		t.Errorf("attachment not inlined:\n%s", result.HTML)
	}
	if len(result.Failures) != 1 || result.Failures[0].ID != 2 {
		t.Fatalf("failures = %v, want one for id 2", result.Failures)
	}
	for _, want := range []string{`<div class="attachment-failures">`, "trace.log", "storage unreachable"} {
		if !strings.Contains(result.HTML, want) {
			t.Errorf("failure notice missing %q:\n%s", want, result.HTML)
		}
	}
}

func TestRenderer_RenderContent_NeverPanics(t *testing.T) {
	t.Parallel()

	fetch := func(ctx context.Context, documentID string, attachmentID int) ([]byte, error) {
		panic("fetch exploded")
	}

	r := NewRenderer(WithFetchTimeout(time.Second))
	item := ContentItem{
		DocumentID:  "PROJ-7",
		Content:     RichContent{Markup: "body"},
		Attachments: []AttachmentDescriptor{{ID: 1, Name: "a.png"}},
	}
	result, err := r.RenderContent(context.Background(), item, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failures) != 1 || result.Failures[0].ID != 1 {
		t.Fatalf("failures = %v, want one notice for id 1", result.Failures)
	}
	for _, want := range []string{`<div class="attachment-failures">`, "fetch exploded"} {
		if !strings.Contains(result.HTML, want) {
			t.Errorf("output missing %q:\n%s", want, result.HTML)
		}
	}
}

func TestRenderer_RenderContent_EmptyItem(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	result, err := r.RenderContent(context.Background(), ContentItem{DocumentID: "PROJ-7"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.HTML, `class="empty-content"`) {
		t.Errorf("empty item should render the placeholder:\n%s", result.HTML)
	}
}

func TestRenderer_RenderActivity(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []ActivityEntry{
		{Author: "alice <dev>", Timestamp: stamp, Body: "Found the **root cause**."},
		{Author: "bot", Timestamp: stamp, FieldChanges: []FieldChange{
			{Field: "status", From: "Open", To: "Resolved"},
		}},
	}
	out, err := r.RenderActivity(context.Background(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		`<span class="activity-author">alice &lt;dev&gt;</span>`,
		`<time datetime="2026-03-14T09:30:00Z">2026-03-14 09:30</time>`,
		"<strong>root cause</strong>",
		`class="change change-status"`,
		`<div class="diff-added">+ Resolved</div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, `<div class="activity-entry">`); got != 2 {
		t.Errorf("entry count = %d, want 2", got)
	}
}

func TestRenderer_RenderActivity_OrderPreserved(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	entries := []ActivityEntry{
		{Author: "a", Body: "first remark"},
		{Author: "b", Body: "Status changed to Closed"},
		{Author: "c", Body: "second remark"},
	}
	out, err := r.RenderActivity(context.Background(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := strings.Index(out, "first remark")
	change := strings.Index(out, "Status changed to Closed")
	second := strings.Index(out, "second remark")
	if first < 0 || change < 0 || second < 0 || !(first < change && change < second) {
		t.Errorf("entries rendered out of order:\n%s", out)
	}
}

func TestRenderer_RenderActivity_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRenderer()
	if _, err := r.RenderActivity(ctx, []ActivityEntry{{Author: "a", Body: "hi"}}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestRendererOptions(t *testing.T) {
	t.Parallel()

	var cfg rendererConfig
	WithBaseURL("https://tracker.example.com")(&cfg)
	WithFetchTimeout(5 * time.Second)(&cfg)
	if cfg.baseURL != "https://tracker.example.com" {
		t.Errorf("baseURL = %q", cfg.baseURL)
	}
	if cfg.fetchTimeout != 5*time.Second {
		t.Errorf("fetchTimeout = %v", cfg.fetchTimeout)
	}
}
