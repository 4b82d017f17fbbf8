// Package store keeps walk snapshots on the local filesystem.
//
// Objects are content-addressed by the SHA-256 digest of their uncompressed
// bytes and stored zstd-compressed in Git-style shards. Refs are plain files
// naming an object digest.
//
//	basePath/
//	  objects/
//	    sha256/ab/cd123...
//	  refs/
//	    main  ("sha256:abcd123...")
package store

import (
	"context"
	"errors"

	"github.com/opencontainers/go-digest"
)

var (
	ErrNotFound    = errors.New("store: not found")
	ErrCorrupt     = errors.New("store: object does not match its digest")
	ErrInvalidName = errors.New("store: invalid ref name")
)

// Store handles content-addressed objects and named refs.
type Store interface {
	// Get retrieves an object by digest.
	Get(ctx context.Context, d digest.Digest) ([]byte, error)

	// Put stores an object and returns its digest.
	Put(ctx context.Context, data []byte) (digest.Digest, error)

	// Has checks if an object exists.
	Has(ctx context.Context, d digest.Digest) (bool, error)

	// GetRef resolves a ref to an object digest.
	GetRef(name string) (digest.Digest, error)

	// PutRef points a ref at an object digest.
	PutRef(name string, d digest.Digest) error

	// Refs lists all refs by name.
	Refs() (map[string]digest.Digest, error)
}
