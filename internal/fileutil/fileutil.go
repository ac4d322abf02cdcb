// Package fileutil provides file and input-format helpers for the CLI.
package fileutil

import (
	"os"
	"strings"
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// LooksLikeJSON reports whether data starts like a JSON document. Used to
// distinguish structured document trees from markup text when the input
// format is not given explicitly.
func LooksLikeJSON(data []byte) bool {
	trimmed := strings.TrimPrefix(string(data), "\uFEFF")
	trimmed = strings.TrimLeft(trimmed, " \t\r\n")
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// IsFilePath returns true if the string looks like a file path rather than
// a bare name. A string containing path separators is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
