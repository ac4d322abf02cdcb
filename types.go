package issue2html

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// NodeKind identifies a structured-document node type.
type NodeKind string

// Node kinds understood by the document renderer. Unknown kinds degrade to
// rendering their children.
const (
	NodeDoc            NodeKind = "doc"
	NodeParagraph      NodeKind = "paragraph"
	NodeHeading        NodeKind = "heading"
	NodeBulletList     NodeKind = "bulletList"
	NodeOrderedList    NodeKind = "orderedList"
	NodeListItem       NodeKind = "listItem"
	NodeTable          NodeKind = "table"
	NodeTableRow       NodeKind = "tableRow"
	NodeTableCell      NodeKind = "tableCell"
	NodeTableHeader    NodeKind = "tableHeader"
	NodeBlockquote     NodeKind = "blockquote"
	NodeCodeBlock      NodeKind = "codeBlock"
	NodeHardBreak      NodeKind = "hardBreak"
	NodeHorizontalRule NodeKind = "horizontalRule"
	NodeImage          NodeKind = "image"
	NodeText           NodeKind = "text"
)

// MarkType identifies an inline mark on a text node.
type MarkType string

// Mark types understood by the document renderer.
const (
	MarkStrong        MarkType = "strong"
	MarkEmphasis      MarkType = "em"
	MarkCode          MarkType = "code"
	MarkUnderline     MarkType = "underline"
	MarkStrikethrough MarkType = "strike"
	MarkLink          MarkType = "link"
)

// Mark is an inline formatting annotation on a text node.
// Href is populated only for MarkLink.
type Mark struct {
	Type MarkType `json:"type"`
	Href string   `json:"href,omitempty"`
}

// UnmarshalJSON accepts both the flat form {"type":"link","href":...} and
// the tracker API form {"type":"link","attrs":{"href":...}}.
func (m *Mark) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  MarkType `json:"type"`
		Href  string   `json:"href"`
		Attrs struct {
			Href string `json:"href"`
		} `json:"attrs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Type = raw.Type
	m.Href = raw.Href
	if m.Href == "" {
		m.Href = raw.Attrs.Href
	}
	return nil
}

// StructuredNode is one node of a structured rich-text document tree.
// Text and Marks are populated only for NodeText; Content is empty for leaf
// kinds (text, hardBreak, horizontalRule, image).
type StructuredNode struct {
	Type    NodeKind          `json:"type"`
	Attrs   map[string]any    `json:"attrs,omitempty"`
	Content []*StructuredNode `json:"content,omitempty"`
	Text    string            `json:"text,omitempty"`
	Marks   []Mark            `json:"marks,omitempty"`
}

// ParseStructuredDocument unmarshals a structured document tree received
// from the tracker API.
func ParseStructuredDocument(data []byte) (*StructuredNode, error) {
	var root StructuredNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}
	if root.Type == "" {
		return nil, fmt.Errorf("%w: missing node type on root", ErrDocumentParse)
	}
	return &root, nil
}

// RichContent holds exactly one representation of a content item: either
// lightweight markup text or a structured document tree.
type RichContent struct {
	Markup   string
	Document *StructuredNode
}

// IsDocument reports whether the structured-tree representation is present.
func (c RichContent) IsDocument() bool { return c.Document != nil }

// AttachmentDescriptor identifies one attachment associated with a content
// item. Supplied by the tracker client alongside the content.
type AttachmentDescriptor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ResolvedAttachment is a successfully downloaded attachment, carrying a
// self-contained data URI ready for embedding.
type ResolvedAttachment struct {
	ID        int
	Name      string
	MimeType  string
	InlineRef string // data:<mime>;base64,<payload>
}

// FailureNotice records a single attachment that could not be resolved.
type FailureNotice struct {
	ID     int
	Name   string
	Reason string
}

// FetchFunc retrieves the raw bytes of one attachment. It is supplied by
// the tracker client and may fail per attachment.
type FetchFunc func(ctx context.Context, documentID string, attachmentID int) ([]byte, error)

// ActivityEntry is one entry of a content item's activity stream: either a
// human-authored remark or a system-generated change record.
type ActivityEntry struct {
	Author       string        `json:"author"`
	Timestamp    time.Time     `json:"timestamp"`
	Body         string        `json:"body,omitempty"`
	FieldChanges []FieldChange `json:"fieldChanges,omitempty"`
}

// FieldChange describes one field mutation inside a change record.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

// DiffKind classifies a diff line.
type DiffKind string

// Diff line kinds.
const (
	DiffRemoved DiffKind = "removed"
	DiffAdded   DiffKind = "added"
)

// DiffLine is one line of a line-presence diff.
type DiffLine struct {
	Kind    DiffKind
	Content string
}

// ContentItem is the unit of rendering: one content representation plus the
// attachments referenced by it.
type ContentItem struct {
	DocumentID  string
	Content     RichContent
	Attachments []AttachmentDescriptor
}

// RenderResult is the outcome of rendering one content item: the HTML
// fragment and any per-attachment failures that occurred along the way.
type RenderResult struct {
	HTML     string
	Failures []FailureNotice
}
