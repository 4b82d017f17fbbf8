package treblo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replay feeds paths through a fresh state and returns the resolve order.
func replay(t *testing.T, root string, isDir bool, paths ...string) []string {
	t.Helper()
	var resolved []string
	record := func(dir string) error {
		resolved = append(resolved, dir)
		return nil
	}

	s := NewPathWalkState(p(root), isDir)
	for _, path := range paths {
		require.NoError(t, s.Process(p(path), record))
	}
	require.NoError(t, s.Finish(record))
	assert.Empty(t, s.Stack())
	return resolved
}

func slashed(paths ...string) []string {
	out := make([]string, len(paths))
	for i, s := range paths {
		out[i] = p(s)
	}
	return out
}

func TestPathWalkStateResolveOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		root  string
		paths []string
		want  []string
	}{
		{
			name:  "flat",
			root:  "r",
			paths: []string{"r/a", "r/b"},
			want:  []string{"r"},
		},
		{
			name:  "files before subdirectory",
			root:  "r",
			paths: []string{"r/a/x", "r/a/y", "r/a/b/z"},
			want:  []string{"r/a/b", "r/a", "r"},
		},
		{
			name:  "leaving a subtree",
			root:  "r",
			paths: []string{"r/a/b/z", "r/a/x", "r/c"},
			want:  []string{"r/a/b", "r/a", "r"},
		},
		{
			name:  "sibling sharing a name prefix",
			root:  "r",
			paths: []string{"r/a/x", "r/ab/y"},
			want:  []string{"r/a", "r/ab", "r"},
		},
		{
			name:  "skipped levels are opened",
			root:  "r",
			paths: []string{"r/a/b/c/z"},
			want:  []string{"r/a/b/c", "r/a/b", "r/a", "r"},
		},
		{
			name:  "duplicate siblings",
			root:  "r",
			paths: []string{"r/a/x", "r/a/x"},
			want:  []string{"r/a", "r"},
		},
		{
			name:  "dot root",
			root:  ".",
			paths: []string{"./a/x", "./b"},
			want:  []string{"./a", "."},
		},
		{
			name:  "trailing separator on root",
			root:  "r/",
			paths: []string{"r/a/x"},
			want:  []string{"r/a", "r"},
		},
		{
			name: "empty root",
			root: "r",
			want: []string{"r"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, slashed(tt.want...), replay(t, tt.root, true, tt.paths...))
		})
	}
}

func TestPathWalkStateStack(t *testing.T) {
	t.Parallel()

	s := NewPathWalkState(p("r"), true)
	noop := func(string) error { return nil }

	require.NoError(t, s.Process(p("r/a/b/z"), noop))
	assert.Equal(t, slashed("r", "r/a", "r/a/b"), s.Stack())

	require.NoError(t, s.Process(p("r/c"), noop))
	assert.Equal(t, slashed("r"), s.Stack())

	stack := s.Stack()
	stack[0] = "changed"
	assert.Equal(t, slashed("r"), s.Stack())
}

func TestPathWalkStateFileRoot(t *testing.T) {
	t.Parallel()

	assert.Empty(t, replay(t, "dir/file", false, "dir/file"))
}

func TestPathWalkStateResolveError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := NewPathWalkState(p("r"), true)
	noop := func(string) error { return nil }
	fail := func(string) error { return boom }

	require.NoError(t, s.Process(p("r/a/x"), noop))
	require.ErrorIs(t, s.Process(p("r/b"), fail), boom)
	require.ErrorIs(t, s.Finish(fail), boom)
}
