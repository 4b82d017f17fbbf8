package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStore(dir, 2, true)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestLocalStorePutGet(t *testing.T) {
	t.Parallel()

	s, dir := newTestStore(t)
	ctx := context.Background()
	data := bytes.Repeat([]byte("snapshot record\n"), 64)

	d, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, digest.FromBytes(data), d)

	onDisk, err := os.ReadFile(filepath.Join(dir, "objects", "sha256", d.Encoded()[:2], d.Encoded()[2:]))
	require.NoError(t, err)
	assert.Less(t, len(onDisk), len(data))

	got, err := s.Get(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	ok, err := s.Has(ctx, d)
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestLocalStoreNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	d := digest.FromString("missing")

	_, err := s.Get(ctx, d)
	require.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Has(ctx, d)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, digest.Digest("sha256:zz"))
	require.Error(t, err)
}

func TestLocalStoreCorruptObject(t *testing.T) {
	t.Parallel()

	s, dir := newTestStore(t)
	ctx := context.Background()
	d, err := s.Put(ctx, []byte("original"))
	require.NoError(t, err)

	path := filepath.Join(dir, "objects", "sha256", d.Encoded()[:2], d.Encoded()[2:])
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))

	_, err = s.Get(ctx, d)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestLocalStoreRefs(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetRef("base")
	require.ErrorIs(t, err, ErrNotFound)

	d1, err := s.Put(ctx, []byte("one"))
	require.NoError(t, err)
	d2, err := s.Put(ctx, []byte("two"))
	require.NoError(t, err)

	require.NoError(t, s.PutRef("base", d1))
	require.NoError(t, s.PutRef("next", d2))
	require.NoError(t, s.PutRef("base", d2))

	got, err := s.GetRef("base")
	require.NoError(t, err)
	assert.Equal(t, d2, got)

	refs, err := s.Refs()
	require.NoError(t, err)
	assert.Equal(t, map[string]digest.Digest{"base": d2, "next": d2}, refs)
}

func TestLocalStoreInvalidRefName(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	d := digest.FromString("x")
	for _, name := range []string{"", ".hidden", "a/b", `a\b`, ".."} {
		require.ErrorIs(t, s.PutRef(name, d), ErrInvalidName, name)
		_, err := s.GetRef(name)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}

	require.Error(t, s.PutRef("ok", digest.Digest("bogus")))
}
