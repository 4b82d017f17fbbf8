package snapshot

import (
	"slices"
	"strings"
)

// ChangeKind classifies a difference between two snapshots.
type ChangeKind string

const (
	Added    ChangeKind = "A"
	Deleted  ChangeKind = "D"
	Modified ChangeKind = "M"
)

// Change is one path that differs between two snapshots.
type Change struct {
	Kind ChangeKind
	Path string
	Old  *Record
	New  *Record
}

// Diff compares two snapshots path by path. A path is modified when its
// digest or mode changed. Changes are sorted by path.
func Diff(from, to *Snapshot) []Change {
	before := index(from)
	after := index(to)

	var changes []Change
	for path, o := range before {
		n, ok := after[path]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: Deleted, Path: path, Old: o})
		case o.Digest != n.Digest || o.FileMode != n.FileMode:
			changes = append(changes, Change{Kind: Modified, Path: path, Old: o, New: n})
		}
	}
	for path, n := range after {
		if _, ok := before[path]; !ok {
			changes = append(changes, Change{Kind: Added, Path: path, New: n})
		}
	}

	slices.SortFunc(changes, func(a, b Change) int {
		return strings.Compare(a.Path, b.Path)
	})
	return changes
}

func index(s *Snapshot) map[string]*Record {
	m := make(map[string]*Record, len(s.Records))
	for i := range s.Records {
		m[s.Records[i].Path] = &s.Records[i]
	}
	return m
}
