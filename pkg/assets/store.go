// Package assets retrieves page templates and stylesheets for the
// navigation engine.
//
// Stores are dumb fetchers: they do not retry. Callers that want
// resilience use FetchRetry, which bounds the attempt count.
package assets

import (
	"context"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Store fetches an asset by its repository-relative path.
type Store interface {
	Fetch(ctx context.Context, assetPath string) ([]byte, error)
}

// FSStore serves assets from a file system root.
type FSStore struct {
	fsys fs.FS
}

// NewFSStore creates a store over an fs.FS.
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// NewDirStore creates a store over a directory on disk.
func NewDirStore(dir string) *FSStore {
	return &FSStore{fsys: os.DirFS(dir)}
}

// Fetch reads the asset from the file system.
func (s *FSStore) Fetch(ctx context.Context, assetPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, path.Clean(strings.TrimPrefix(assetPath, "/")))
}

// ResolveVariant rewrites an asset path for the device class by inserting
// a variant suffix before the extension:
//
//	css/room.css → css/room.mobi.css  (mobile)
//	css/room.css → css/room.pc.css    (desktop)
//
// Paths without an extension get the suffix appended.
func ResolveVariant(assetPath string, mobile bool) string {
	variant := "pc"
	if mobile {
		variant = "mobi"
	}
	ext := path.Ext(assetPath)
	if ext == "" {
		return assetPath + "." + variant
	}
	return strings.TrimSuffix(assetPath, ext) + "." + variant + ext
}

// FetchRetry fetches an asset, retrying up to attempts times. Retrying is
// the caller's job per the loader contract, so stores stay single-shot.
func FetchRetry(ctx context.Context, s Store, assetPath string, attempts int) ([]byte, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.Fetch(ctx, assetPath)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
