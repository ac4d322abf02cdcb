package issue2html

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel attachment downloads per render.
const maxConcurrentFetches = 4

// defaultMimeType is used for unknown or missing file extensions.
const defaultMimeType = "application/octet-stream"

// mimeByExtension maps lowercase file extensions to MIME types. A static
// table keeps inference deterministic across hosts, unlike the platform
// mime database.
var mimeByExtension = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"ico":  "image/x-icon",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"log":  "text/plain",
	"md":   "text/markdown",
	"csv":  "text/csv",
	"json": "application/json",
	"xml":  "application/xml",
	"yaml": "application/yaml",
	"yml":  "application/yaml",
	"html": "text/html",
	"zip":  "application/zip",
	"gz":   "application/gzip",
	"tar":  "application/x-tar",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
}

// MimeTypeForName infers a MIME type from a file name's extension.
func MimeTypeForName(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if m, ok := mimeByExtension[ext]; ok {
		return m
	}
	return defaultMimeType
}

// attachmentRefPattern matches internal attachment references: a path
// ending in /file/<id>, or the attachment://<id> shorthand.
var attachmentRefPattern = regexp.MustCompile(`(?:^attachment://|/file/)(\d+)$`)

// looksLikeAttachmentRef reports whether src points into attachment storage
// at all, regardless of whether an id can be extracted. Used to distinguish
// malformed internal references from ordinary external URLs.
func looksLikeAttachmentRef(src string) bool {
	return strings.Contains(src, "/file/") || strings.HasPrefix(src, "attachment://")
}

// parseAttachmentRef extracts the attachment id from an internal reference.
func parseAttachmentRef(src string) (int, bool) {
	s := src
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	m := attachmentRefPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// dataURI builds a self-contained, base64-encoded inline reference.
func dataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// indexResolved builds an id-keyed lookup for O(1) access during tree
// conversion and placeholder rewriting.
func indexResolved(resolved []ResolvedAttachment) map[int]ResolvedAttachment {
	byID := make(map[int]ResolvedAttachment, len(resolved))
	for _, att := range resolved {
		byID[att.ID] = att
	}
	return byID
}

// AttachmentResolver downloads attachment bytes and produces inlineable
// data-URI references. The zero value is ready to use.
type AttachmentResolver struct{}

// Resolve fetches every descriptor's bytes via fetch and returns one
// ResolvedAttachment or one FailureNotice per descriptor. Fetches for the
// same document run concurrently; a failed fetch never aborts the others.
// Result order follows descriptor order.
func (AttachmentResolver) Resolve(ctx context.Context, documentID string, descriptors []AttachmentDescriptor, fetch FetchFunc) ([]ResolvedAttachment, []FailureNotice) {
	if len(descriptors) == 0 {
		return nil, nil
	}
	if fetch == nil {
		failures := make([]FailureNotice, len(descriptors))
		for i, d := range descriptors {
			failures[i] = FailureNotice{ID: d.ID, Name: d.Name, Reason: "no byte-fetch capability supplied"}
		}
		return nil, failures
	}

	type slot struct {
		resolved *ResolvedAttachment
		failure  *FailureNotice
	}
	slots := make([]slot, len(descriptors))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, d := range descriptors {
		g.Go(func() error {
			// fetch is caller-supplied and runs outside the render
			// boundary's recover; a panic here must become a failure
			// notice, not a process crash.
			defer func() {
				if rec := recover(); rec != nil {
					reason := fmt.Errorf("%w: panic: %v", ErrAttachmentFetch, rec).Error()
					slots[i].failure = &FailureNotice{ID: d.ID, Name: d.Name, Reason: reason}
				}
			}()
			data, err := fetch(ctx, documentID, d.ID)
			if err != nil {
				reason := fmt.Errorf("%w: %v", ErrAttachmentFetch, err).Error()
				slots[i].failure = &FailureNotice{ID: d.ID, Name: d.Name, Reason: reason}
				return nil
			}
			mimeType := MimeTypeForName(d.Name)
			slots[i].resolved = &ResolvedAttachment{
				ID:        d.ID,
				Name:      d.Name,
				MimeType:  mimeType,
				InlineRef: dataURI(mimeType, data),
			}
			return nil
		})
	}
	// Goroutines report failures through their slot, never an error.
	_ = g.Wait()

	var resolved []ResolvedAttachment
	var failures []FailureNotice
	for _, s := range slots {
		switch {
		case s.resolved != nil:
			resolved = append(resolved, *s.resolved)
		case s.failure != nil:
			failures = append(failures, *s.failure)
		}
	}
	return resolved, failures
}
