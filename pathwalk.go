package treblo

// ResolveFunc is called for a directory once the walk has left it.
type ResolveFunc func(dir string) error

// PathWalkState tracks the directories that are still open during a walk.
//
// The stack always holds the ancestor chain, root first, of the last path
// passed to Process. When a path arrives whose parent is outside the top of
// the stack, the walk has left that directory for good (the iterator never
// re-enters a subtree), so it is popped and resolved. Every directory is
// therefore resolved exactly once, after all of its descendants.
//
// A PathWalkState belongs to a single walk and is not safe for concurrent use.
type PathWalkState struct {
	root  string
	stack []string
}

// NewPathWalkState starts a walk at root. A root that is a single file opens
// no directory at all.
func NewPathWalkState(root string, isDir bool) *PathWalkState {
	root = trimRoot(root)
	s := &PathWalkState{root: root}
	if isDir {
		s.stack = []string{root}
	}
	return s
}

// Stack returns a copy of the open directories, root first.
func (s *PathWalkState) Stack() []string {
	out := make([]string, len(s.stack))
	copy(out, s.stack)
	return out
}

// Process advances the walk to path, resolving every directory it leaves and
// opening the directories between the innermost open one and path's parent.
func (s *PathWalkState) Process(path string, resolve ResolveFunc) error {
	parent := parentOf(path)

	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if isAncestorOrSelf(top, parent) {
			break
		}
		s.stack = s.stack[:len(s.stack)-1]
		if err := resolve(top); err != nil {
			return err
		}
	}

	var top string
	hasTop := len(s.stack) > 0
	if hasTop {
		top = s.stack[len(s.stack)-1]
	}

	var opened []string
	for cur := parent; cur != "" && !(hasTop && cur == top); {
		if !isAncestorOrSelf(s.root, cur) {
			break
		}
		opened = append(opened, cur)
		next := parentOf(cur)
		if next == cur {
			break
		}
		cur = next
	}
	for i := len(opened) - 1; i >= 0; i-- {
		s.stack = append(s.stack, opened[i])
	}
	return nil
}

// Finish resolves every directory still open, innermost first and root last.
func (s *PathWalkState) Finish(resolve ResolveFunc) error {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if err := resolve(top); err != nil {
			return err
		}
	}
	return nil
}
