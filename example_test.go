package issue2html_test

import (
	"context"
	"fmt"
	"strings"

	issue2html "github.com/trackerview/go-issue2html"
)

// Example demonstrates rendering markup text to a sanitized HTML fragment.
func Example() {
	r := issue2html.NewRenderer()

	result, err := r.RenderContent(context.Background(), issue2html.ContentItem{
		DocumentID: "PROJ-1",
		Content:    issue2html.RichContent{Markup: "# Hello World\n\nSee #PROJ-2."},
	}, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(result.HTML, "<h1") && strings.Contains(result.HTML, "mention-issue") {
		fmt.Println("markup rendered")
	}
	// Output: markup rendered
}

// Example_structuredDocument demonstrates rendering a structured document
// tree received from the tracker API.
func Example_structuredDocument() {
	root, err := issue2html.ParseStructuredDocument([]byte(`{
		"type": "doc",
		"content": [
			{"type": "heading", "attrs": {"level": 2}, "content": [
				{"type": "text", "text": "Summary"}
			]},
			{"type": "paragraph", "content": [
				{"type": "text", "text": "All good.", "marks": [{"type": "strong"}]}
			]}
		]
	}`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	r := issue2html.NewRenderer()
	result, err := r.RenderContent(context.Background(), issue2html.ContentItem{
		DocumentID: "PROJ-1",
		Content:    issue2html.RichContent{Document: root},
	}, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(result.HTML, "<h2>Summary</h2>") {
		fmt.Println("document rendered")
	}
	// Output: document rendered
}

// Example_attachments demonstrates inlining attachments through a
// caller-supplied byte fetcher.
func Example_attachments() {
	fetch := func(ctx context.Context, documentID string, attachmentID int) ([]byte, error) {
		return []byte("fake image bytes"), nil
	}

	r := issue2html.NewRenderer()
	result, err := r.RenderContent(context.Background(), issue2html.ContentItem{
		DocumentID: "PROJ-1",
		Content:    issue2html.RichContent{Markup: "![screenshot](/document/PROJ-1/file/7)"},
		Attachments: []issue2html.AttachmentDescriptor{
			{ID: 7, Name: "screenshot.png"},
		},
	}, fetch)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(result.HTML, "data:image/png;base64,") && len(result.Failures) == 0 {
		fmt.Println("attachment inlined")
	}
	// Output: attachment inlined
}

// ExampleRenderer_RenderActivity demonstrates rendering an activity stream
// of remarks and change records.
func ExampleRenderer_RenderActivity() {
	r := issue2html.NewRenderer()

	out, err := r.RenderActivity(context.Background(), []issue2html.ActivityEntry{
		{Author: "alice", Body: "Reproduced on staging."},
		{Author: "tracker", FieldChanges: []issue2html.FieldChange{
			{Field: "status", From: "Open", To: "In Progress"},
		}},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(out, "Reproduced on staging.") && strings.Contains(out, "change-status") {
		fmt.Println("activity rendered")
	}
	// Output: activity rendered
}
