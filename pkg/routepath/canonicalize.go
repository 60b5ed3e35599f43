// Package routepath normalizes navigation paths.
//
// Registration and matching must agree on one canonical form or lookups
// silently fail, so both go through Canonicalize. The canonical form has
// no leading or trailing separators and no empty segments; the root path
// canonicalizes to "".
package routepath

import (
	"errors"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath = errors.New("path contains backslash")
	ErrNullByteInPath  = errors.New("path contains null byte")
)

// Result contains the outcome of path canonicalization.
type Result struct {
	// Path is the canonical path ("" for root, no leading slash).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Changed indicates the path was modified during canonicalization.
	Changed bool
}

// Canonicalize normalizes a navigation path.
//
// Leading, trailing, and duplicate slashes are stripped and "." segments
// are dropped. A query string is split off and preserved verbatim.
// Paths containing backslash or NUL are rejected.
func Canonicalize(input string) (Result, error) {
	path, query, _ := strings.Cut(input, "?")

	// SECURITY: reject backslash and NUL before any processing.
	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}

	original := path

	segments := strings.Split(path, "/")
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		default:
			kept = append(kept, seg)
		}
	}

	path = strings.Join(kept, "/")

	return Result{
		Path:    path,
		Query:   query,
		Changed: path != original,
	}, nil
}

// Split returns the canonical segments of an already-canonical path.
// The root path ("") has no segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Join is the inverse of Split.
func Join(segments []string) string {
	return strings.Join(segments, "/")
}
