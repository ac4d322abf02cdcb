package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	issue2html "github.com/trackerview/go-issue2html"
	"github.com/trackerview/go-issue2html/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input file specified")
	ErrReadInput      = errors.New("failed to read input file")
	ErrWriteOutput    = errors.New("failed to write output file")
	ErrInvalidFormat  = errors.New("invalid format")
	ErrActivityParse  = errors.New("failed to parse activity entries")
	ErrAttachmentsDir = errors.New("failed to read attachments directory")
)

// filePermissions for the output fragment: owner read+write, others read.
const filePermissions = 0o644

func run(flags *cliFlags, args []string) error {
	if flags.showVersion {
		fmt.Println("issue2html " + Version)
		return nil
	}
	if !validFormat(flags.format) {
		return fmt.Errorf("%w: %q (want auto, markup, document, or activity)", ErrInvalidFormat, flags.format)
	}
	if len(args) == 0 {
		return ErrNoInput
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	mergeConfig(flags, cfg)

	inputPath := args[0]
	data, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	descriptors, fetch, err := dirFetcher(flags.attachmentsDir)
	if err != nil {
		return err
	}

	renderer := issue2html.NewRenderer(issue2html.WithBaseURL(flags.baseURL))
	ctx := context.Background()

	fragment, failures, err := render(ctx, renderer, flags.format, inputPath, data, descriptors, fetch)
	if err != nil {
		return err
	}

	if err := writeOutput(flags.out, fragment); err != nil {
		return err
	}
	if !flags.quiet {
		fmt.Fprintf(os.Stderr, "rendered %s (%d attachment failures)\n", inputPath, len(failures))
	}
	return nil
}

// render dispatches on the input format. Format auto sniffs JSON input as a
// structured document tree and anything else as markup text.
func render(ctx context.Context, renderer *issue2html.Renderer, format, inputPath string, data []byte, descriptors []issue2html.AttachmentDescriptor, fetch issue2html.FetchFunc) (string, []issue2html.FailureNotice, error) {
	if format == formatActivity {
		var entries []issue2html.ActivityEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrActivityParse, err)
		}
		fragment, err := renderer.RenderActivity(ctx, entries)
		return fragment, nil, err
	}

	item := issue2html.ContentItem{
		DocumentID:  strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)),
		Attachments: descriptors,
	}
	switch {
	case format == formatDocument, format == formatAuto && fileutil.LooksLikeJSON(data):
		root, err := issue2html.ParseStructuredDocument(data)
		if err != nil {
			return "", nil, err
		}
		item.Content = issue2html.RichContent{Document: root}
	default:
		item.Content = issue2html.RichContent{Markup: string(data)}
	}

	result, err := renderer.RenderContent(ctx, item, fetch)
	if err != nil {
		return "", nil, err
	}
	return result.HTML, result.Failures, nil
}

// dirFetcher turns a directory of files named <id>-<name> (or <id>.<ext>)
// into attachment descriptors plus a byte-fetch capability reading from
// disk. An empty dir yields no attachments.
func dirFetcher(dir string) ([]issue2html.AttachmentDescriptor, issue2html.FetchFunc, error) {
	if dir == "" {
		return nil, nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAttachmentsDir, err)
	}

	paths := make(map[int]string)
	var descriptors []issue2html.AttachmentDescriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, name, ok := parseAttachmentFileName(entry.Name())
		if !ok {
			continue
		}
		paths[id] = filepath.Join(dir, entry.Name())
		descriptors = append(descriptors, issue2html.AttachmentDescriptor{ID: id, Name: name})
	}

	fetch := func(_ context.Context, _ string, attachmentID int) ([]byte, error) {
		path, ok := paths[attachmentID]
		if !ok {
			return nil, fmt.Errorf("no file for attachment %d", attachmentID)
		}
		return os.ReadFile(path) // #nosec G304 -- path built from the scanned directory
	}
	return descriptors, fetch, nil
}

// parseAttachmentFileName extracts the attachment id from a file name with
// a leading numeric id: "42-diagram.png" or "42.png". The display name is
// the remainder after a dash separator, or the whole file name.
func parseAttachmentFileName(fileName string) (id int, name string, ok bool) {
	digits := 0
	for digits < len(fileName) && fileName[digits] >= '0' && fileName[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, "", false
	}
	id, err := strconv.Atoi(fileName[:digits])
	if err != nil {
		return 0, "", false
	}
	name = fileName
	if digits < len(fileName) && fileName[digits] == '-' {
		name = fileName[digits+1:]
	}
	return id, name, true
}

// writeOutput writes the fragment to path, or stdout when path is empty.
func writeOutput(path, fragment string) error {
	if path == "" {
		fmt.Println(fragment)
		return nil
	}
	if err := os.WriteFile(path, []byte(fragment), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
