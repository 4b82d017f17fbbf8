// Package fswalk walks a directory tree in lexicographic pre-order.
//
// The traversal never follows symlinks and never re-enters a subtree once it
// has been left, which is the order treblo's tree builder relies on. Entries
// can be filtered with per-directory gitignore-style files, doublestar
// exclude globs, hidden-file and directory-name rules.
package fswalk

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ErrBadPattern is returned for an exclude glob that doublestar cannot parse.
var ErrBadPattern = errors.New("fswalk: bad exclude pattern")

// Entry is a single path produced by a walk, with its Lstat metadata.
type Entry struct {
	Path string
	Info fs.FileInfo
}

// Options configures which entries a walk produces.
type Options struct {
	// SkipHidden drops names starting with a dot.
	SkipHidden bool
	// IgnoreFiles are file names read in every directory for gitignore
	// patterns. A pattern applies below its directory, and patterns from
	// deeper directories and later names take precedence.
	IgnoreFiles []string
	// SkipDirs are directory names that are never entered.
	SkipDirs []string
	// Excludes are doublestar globs matched against the slash-separated path
	// relative to the root and against the base name.
	Excludes []string
}

type walker struct {
	root    string
	opts    Options
	ignores []gitignore.Pattern
}

// Walk yields root and everything below it. Directories are yielded before
// their contents and siblings come in name order. Errors are yielded with the
// path they concern; the walk carries on past them unless the consumer stops.
func Walk(root string, opts Options) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for _, p := range opts.Excludes {
			if !doublestar.ValidatePattern(p) {
				yield(Entry{Path: root}, fmt.Errorf("%w: %q", ErrBadPattern, p))
				return
			}
		}

		root = trimSeparators(root)
		info, err := os.Lstat(root)
		if err != nil {
			yield(Entry{Path: root}, err)
			return
		}

		w := &walker{root: root, opts: opts}
		if !yield(Entry{Path: root, Info: info}, nil) {
			return
		}
		if info.IsDir() {
			w.walkDir(root, yield)
		}
	}
}

// walkDir yields the contents of dir and reports whether to keep going.
func (w *walker) walkDir(dir string, yield func(Entry, error) bool) bool {
	patterns, err := loadIgnorePatterns(dir, components(relSlash(w.root, dir)), w.opts.IgnoreFiles)
	if err != nil {
		if !yield(Entry{Path: dir}, err) {
			return false
		}
	}
	if len(patterns) > 0 {
		n := len(w.ignores)
		w.ignores = append(w.ignores, patterns...)
		defer func() { w.ignores = w.ignores[:n] }()
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return yield(Entry{Path: dir}, err)
	}

	for _, d := range children {
		path := join(dir, d.Name())
		skip, err := w.skip(path, d)
		if err != nil {
			if !yield(Entry{Path: path}, err) {
				return false
			}
			continue
		}
		if skip {
			continue
		}

		info, err := d.Info()
		if err != nil {
			if !yield(Entry{Path: path}, err) {
				return false
			}
			continue
		}
		if !yield(Entry{Path: path, Info: info}, nil) {
			return false
		}
		if info.IsDir() {
			if !w.walkDir(path, yield) {
				return false
			}
		}
	}
	return true
}

func (w *walker) skip(path string, d fs.DirEntry) (bool, error) {
	name := d.Name()
	if w.opts.SkipHidden && strings.HasPrefix(name, ".") {
		return true, nil
	}
	if d.IsDir() {
		for _, s := range w.opts.SkipDirs {
			if name == s {
				return true, nil
			}
		}
	}

	rel := relSlash(w.root, path)
	for _, p := range w.opts.Excludes {
		for _, candidate := range []string{rel, name} {
			matched, err := doublestar.Match(p, candidate)
			if err != nil {
				return false, fmt.Errorf("%w: %q", ErrBadPattern, p)
			}
			if matched {
				return true, nil
			}
		}
	}

	if len(w.ignores) > 0 && gitignore.NewMatcher(w.ignores).Match(components(rel), d.IsDir()) {
		return true, nil
	}
	return false, nil
}

func join(dir, name string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}

func trimSeparators(p string) string {
	for len(p) > 1 && p[len(p)-1] == os.PathSeparator {
		p = p[:len(p)-1]
	}
	return p
}

// relSlash returns path relative to dir with forward slashes. path must be
// below dir as produced by join.
func relSlash(dir, path string) string {
	rel := strings.TrimPrefix(path, dir)
	rel = strings.TrimPrefix(rel, string(os.PathSeparator))
	if os.PathSeparator != '/' {
		rel = strings.ReplaceAll(rel, string(os.PathSeparator), "/")
	}
	return rel
}
