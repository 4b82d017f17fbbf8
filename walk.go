package treblo

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/taskie/treblo/internal/fswalk"
)

// Entry is a path yielded by a directory iterator with its Lstat metadata.
type Entry = fswalk.Entry

// WalkFunc receives every hashed entry: files as they are read (isTree false)
// and directories once all of their children are known (isTree true).
// Returning an error stops the walk.
type WalkFunc func(path string, entry TreeEntry, isTree bool) error

// Walker computes blob and tree digests over a directory iterator.
// A Walker holds configuration only; each walk owns its state, so one Walker
// may run several walks.
type Walker struct {
	opts *Options
}

// New creates a Walker.
func New(opts ...Option) *Walker {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Walker{opts: options}
}

// WalkPath walks the file or directory at root with the built-in iterator.
func (w *Walker) WalkPath(root string, fn WalkFunc) error {
	return w.Walk(root, fswalk.Walk(root, w.opts.iteratorOptions()), fn)
}

// Walk hashes every entry yielded by entries, which must walk root without
// ever re-entering a subtree it has left (pre-order and lexicographic orders
// both qualify). Yielded paths must extend root textually with the platform
// separator, e.g. "./a/x" for root ".".
//
// Files are reported as soon as they are hashed. Each directory is reported
// exactly once, after all of its descendants; the root comes last.
// Directories with no surviving file below them are not part of their parent,
// matching Git, except for the root itself which hashes as the empty tree.
func (w *Walker) Walk(root string, entries iter.Seq2[Entry, error], fn WalkFunc) error {
	root = trimRoot(root)
	rootInfo, err := os.Lstat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}

	enc := NewEncoder()
	r := &resolver{
		pending: newResolvingMap(),
		hasher:  w.opts.Hasher,
		enc:     enc,
		emit:    fn,
	}
	state := NewPathWalkState(root, rootInfo.IsDir())

	for e, err := range entries {
		if err != nil {
			if err := w.fail(e.Path, err); err != nil {
				return err
			}
			continue
		}

		mode := FileModeOf(e.Info)
		if mode.IsDir() {
			continue
		}

		entry, err := w.hashBlob(enc, e.Path, mode)
		if err != nil {
			if err := w.fail(e.Path, err); err != nil {
				return err
			}
			continue
		}
		if err := fn(e.Path, entry, false); err != nil {
			return err
		}
		if w.opts.BlobOnly {
			continue
		}

		r.pending.put(e.Path, entry)
		if err := state.Process(e.Path, r.resolve); err != nil {
			return err
		}
	}

	if w.opts.BlobOnly {
		return nil
	}
	if err := state.Finish(r.resolve); err != nil {
		return err
	}
	w.opts.Logger.Debug("walk finished", slog.String("root", root), slog.Int("pending", r.pending.len()))
	return nil
}

// HashFile hashes a single file or symlink as a blob.
func (w *Walker) HashFile(path string) (TreeEntry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return TreeEntry{}, err
	}
	mode := FileModeOf(info)
	if mode.IsDir() {
		return TreeEntry{}, fmt.Errorf("%s: is a directory", path)
	}
	return w.hashBlob(NewEncoder(), path, mode)
}

func (w *Walker) hashBlob(enc *Encoder, path string, mode FileMode) (TreeEntry, error) {
	name := baseName(path)
	if !utf8.ValidString(name) {
		return TreeEntry{}, fmt.Errorf("%w: %q", ErrInvalidName, path)
	}

	h := w.opts.Hasher()
	if _, err := enc.Blob(h, path); err != nil {
		return TreeEntry{}, fmt.Errorf("hash blob %s: %w", path, err)
	}
	return TreeEntry{Mode: mode, Name: name, Digest: h.Finish()}, nil
}

// fail returns err when the walk must stop, or reports it and returns nil.
func (w *Walker) fail(path string, err error) error {
	if !w.opts.Lenient || errors.Is(err, ErrInvalidName) {
		return err
	}
	w.opts.report(Diagnostic{Path: path, Err: err})
	return nil
}
