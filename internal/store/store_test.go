package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(BucketCatalog, "movies", []string{"a", "b"}))

	var got []string
	ok := s.Get(BucketCatalog, "movies", &got)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestStore_GetMissing(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	var got string
	assert.False(t, s.Get(BucketSession, "token", &got))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(BucketSession, "token", "abc123"))
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	var token string
	ok := s2.Get(BucketSession, "token", &token)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestStore_Delete(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(BucketSession, "user", "lina"))
	s.Delete(BucketSession, "user")

	var got string
	assert.False(t, s.Get(BucketSession, "user", &got))
}

func TestStore_DeletePrefix(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(BucketCatalog, "movies:all", 1))
	require.NoError(t, s.Set(BucketCatalog, "movies:ts", 2))
	require.NoError(t, s.Set(BucketCatalog, "other", 3))

	s.DeletePrefix(BucketCatalog, "movies:")

	var n int
	assert.False(t, s.Get(BucketCatalog, "movies:all", &n))
	assert.False(t, s.Get(BucketCatalog, "movies:ts", &n))
	assert.True(t, s.Get(BucketCatalog, "other", &n))
}

func TestStore_Wipe(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(BucketSession, "token", "abc"))
	require.NoError(t, s.Set(BucketCatalog, "movies", "x"))

	s.Wipe()

	var got string
	assert.False(t, s.Get(BucketSession, "token", &got))
	assert.False(t, s.Get(BucketCatalog, "movies", &got))
}

func TestStore_MemoryOnlyMode(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(BucketSession, "token", "abc"))

	var got string
	ok := s.Get(BucketSession, "token", &got)
	assert.True(t, ok)
	assert.Equal(t, "abc", got)
}
