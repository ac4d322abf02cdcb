package issue2html

import "errors"

// Sentinel errors for library operations.
var (
	ErrDocumentParse   = errors.New("structured document parse failed")
	ErrAttachmentFetch = errors.New("attachment fetch failed")
)
