package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/taskie/treblo/internal/compression"
)

// LocalStore implements Store on a local directory.
type LocalStore struct {
	basePath   string
	compressor *compression.Compressor
}

// NewLocalStore opens the store at basePath, creating its layout if needed.
func NewLocalStore(basePath string, compressionLevel int, compressionEnabled bool) (*LocalStore, error) {
	for _, dir := range []string{filepath.Join(basePath, "objects"), filepath.Join(basePath, "refs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	compressor, err := compression.NewCompressor(compressionLevel, compressionEnabled)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}

	return &LocalStore{basePath: basePath, compressor: compressor}, nil
}

// Close releases the compressor.
func (s *LocalStore) Close() error {
	return s.compressor.Close()
}

// Get retrieves an object and checks it against its digest.
func (s *LocalStore) Get(ctx context.Context, d digest.Digest) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w", d, err)
	}

	compressed, err := os.ReadFile(s.objectPath(d))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, d)
		}
		return nil, fmt.Errorf("read object: %w", err)
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress object %s: %w", d, err)
	}
	if d.Algorithm().FromBytes(data) != d {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, d)
	}
	return data, nil
}

// Put stores an object. Existing objects are not rewritten.
func (s *LocalStore) Put(ctx context.Context, data []byte) (digest.Digest, error) {
	d := digest.FromBytes(data)

	path := s.objectPath(d)
	if _, err := os.Stat(path); err == nil {
		return d, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := writeFileAtomic(path, s.compressor.Compress(data)); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return d, nil
}

// Has checks if an object exists.
func (s *LocalStore) Has(ctx context.Context, d digest.Digest) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, fmt.Errorf("invalid digest %q: %w", d, err)
	}
	_, err := os.Stat(s.objectPath(d))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// GetRef resolves a ref.
func (s *LocalStore) GetRef(name string) (digest.Digest, error) {
	path, err := s.refPath(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: ref %s", ErrNotFound, name)
		}
		return "", err
	}
	d, err := digest.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return "", fmt.Errorf("parse ref %s: %w", name, err)
	}
	return d, nil
}

// PutRef points a ref at an object.
func (s *LocalStore) PutRef(name string, d digest.Digest) error {
	path, err := s.refPath(name)
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid digest %q: %w", d, err)
	}
	return writeFileAtomic(path, []byte(d.String()+"\n"))
}

// Refs lists every ref in the store.
func (s *LocalStore) Refs() (map[string]digest.Digest, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, "refs"))
	if err != nil {
		return nil, err
	}
	refs := make(map[string]digest.Digest, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		d, err := s.GetRef(e.Name())
		if err != nil {
			return nil, err
		}
		refs[e.Name()] = d
	}
	return refs, nil
}

// objectPath shards objects by the first two hex digits of the digest.
func (s *LocalStore) objectPath(d digest.Digest) string {
	hash := d.Encoded()
	return filepath.Join(s.basePath, "objects", string(d.Algorithm()), hash[:2], hash[2:])
}

func (s *LocalStore) refPath(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.basePath, "refs", name), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Store = (*LocalStore)(nil)
