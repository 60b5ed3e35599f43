package router

import (
	"strings"

	"github.com/roomnav-dev/roomnav/internal/errors"
	"github.com/roomnav-dev/roomnav/pkg/routepath"
)

// wrapPattern tags a canonicalization failure as a routing error,
// naming the offending pattern.
func wrapPattern(pattern string, err error) error {
	e := errors.Newf("E003", "pattern %q", pattern)
	e.Wrapped = err
	return e
}

// MatchPattern evaluates a flat pattern against a canonical path, with
// the same segment semantics as the trie: literals must be equal, :param
// matches exactly one segment, a terminal * matches one or more
// remaining segments. Scope watchers use this to detect leaving a
// pattern's scope; it never consults the trie.
func MatchPattern(pattern, path string) bool {
	psegs := routepath.Split(pattern)
	segs := routepath.Split(path)

	for i, pseg := range psegs {
		if pseg == WildcardKey {
			// Wildcard must be terminal and consume at least one segment.
			return i == len(psegs)-1 && len(segs) > i
		}
		if i >= len(segs) {
			return false
		}
		if strings.HasPrefix(pseg, ":") {
			continue
		}
		if pseg != segs[i] {
			return false
		}
	}
	return len(segs) == len(psegs)
}
