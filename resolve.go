package treblo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// resolvingMap holds the entries not yet folded into their parent's tree,
// keyed by full path.
//
// Keys are ordered by comparePaths, so the entries below a directory D form
// one contiguous run starting at the ceiling of D's prefix. Paths must all be
// spelled from the same root with the platform separator; a map mixing "a/b"
// and "a\b" or cleaned and uncleaned forms loses that property.
type resolvingMap struct {
	tree *redblacktree.Tree
}

func newResolvingMap() *resolvingMap {
	return &resolvingMap{
		tree: redblacktree.NewWith(func(a, b any) int {
			return comparePaths(a.(string), b.(string))
		}),
	}
}

func (m *resolvingMap) put(path string, e TreeEntry) {
	m.tree.Put(path, e)
}

func (m *resolvingMap) has(path string) bool {
	_, ok := m.tree.Get(path)
	return ok
}

func (m *resolvingMap) len() int {
	return m.tree.Size()
}

// takeChildren removes and returns every entry below dir.
func (m *resolvingMap) takeChildren(dir string) []TreeEntry {
	prefix := dirPrefix(dir)
	var entries []TreeEntry
	for {
		node, ok := m.tree.Ceiling(prefix)
		if !ok {
			break
		}
		key := node.Key.(string)
		if !strings.HasPrefix(key, prefix) {
			break
		}
		entries = append(entries, node.Value.(TreeEntry))
		m.tree.Remove(key)
	}
	return entries
}

// resolver folds pending children into tree objects during one walk.
type resolver struct {
	pending *resolvingMap
	hasher  HasherFactory
	enc     *Encoder
	emit    WalkFunc
}

// resolve hashes dir from its pending children, reports it, and leaves its
// own entry pending for the parent.
func (r *resolver) resolve(dir string) error {
	name := baseName(dir)
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, dir)
	}

	entries := r.pending.takeChildren(dir)
	SortTreeEntries(entries)

	h := r.hasher()
	if err := r.enc.Tree(h, entries); err != nil {
		return fmt.Errorf("hash tree %s: %w", dir, err)
	}
	entry := TreeEntry{Mode: ModeDir, Name: name, Digest: h.Finish()}

	if r.pending.has(dir) {
		return fmt.Errorf("%w: %s", ErrRevisited, dir)
	}
	if err := r.emit(dir, entry, true); err != nil {
		return err
	}
	r.pending.put(dir, entry)
	return nil
}
