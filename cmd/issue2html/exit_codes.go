package main

import (
	"errors"
	"os"

	issue2html "github.com/trackerview/go-issue2html"
)

// Exit codes for the issue2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input format
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrAttachmentsDir) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/parse errors (exit 2)
	if errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrConfigParse) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrActivityParse) ||
		errors.Is(err, issue2html.ErrDocumentParse) {
		return ExitUsage
	}

	return ExitGeneral
}
