package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from external input.
const MaxNodeIDLength = 256

// MaxGraphNodes bounds the number of nodes accepted by the HTTP API.
const MaxGraphNodes = 100_000

// ValidateNodeID validates a node identifier read from a graph file or request.
//
// The rules are conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidNodeID, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateGraphSize rejects graphs larger than limit nodes.
// A non-positive limit disables the check.
func ValidateGraphSize(nodes, limit int) error {
	if limit > 0 && nodes > limit {
		return New(ErrCodeInvalidGraph, "graph has %d nodes (max %d)", nodes, limit)
	}
	return nil
}

// ValidateFilename validates an output filename for safety.
// It ensures the name is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}

	if strings.Contains(filename, "\x00") {
		return New(ErrCodeInvalidInput, "filename contains a null byte")
	}

	return nil
}
