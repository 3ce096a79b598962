package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelDBCommitAndReopen(t *testing.T) {
	dir := t.TempDir()

	db, err := NewLevelDBStore(dir)
	require.NoError(t, err)

	id, err := db.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, int64(0), id.Version)

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("escrow"), []byte("open")))
	require.NoError(t, cache.Write())

	first, err := db.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Version)
	require.Len(t, first.Hash, 32)

	cache = db.CacheWrap()
	require.NoError(t, cache.Delete([]byte("escrow")))
	require.NoError(t, cache.Set([]byte("vault"), []byte("empty")))
	require.NoError(t, cache.Write())
	second, err := db.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(2), second.Version)
	require.False(t, bytes.Equal(first.Hash, second.Hash))
	require.NoError(t, db.Close())

	db, err = NewLevelDBStore(dir)
	require.NoError(t, err)
	defer db.Close()

	id, err = db.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, second, id)

	val, err := db.Get([]byte("escrow"))
	require.NoError(t, err)
	require.Nil(t, val)
	val, err = db.Get([]byte("vault"))
	require.NoError(t, err)
	require.Equal(t, []byte("empty"), val)
}

func TestLevelDBUncommittedChangesAreNotPersisted(t *testing.T) {
	dir := t.TempDir()

	db, err := NewLevelDBStore(dir)
	require.NoError(t, err)

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("sealed"), []byte("1")))
	require.NoError(t, cache.Write())
	sealed, err := db.Commit()
	require.NoError(t, err)

	cache = db.CacheWrap()
	require.NoError(t, cache.Set([]byte("staged"), []byte("2")))
	require.NoError(t, cache.Write())

	// Written changes are visible before the commit.
	val, err := db.Get([]byte("staged"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), val)
	require.NoError(t, db.Close())

	db, err = NewLevelDBStore(dir)
	require.NoError(t, err)
	defer db.Close()

	id, err := db.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, sealed, id)
	val, err = db.Get([]byte("staged"))
	require.NoError(t, err)
	require.Nil(t, val)
	val, err = db.Get([]byte("sealed"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)
}

func TestLevelDBDiscardedCacheIsNotWritten(t *testing.T) {
	db := NewMemLevelDBStore()
	defer db.Close()

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	cache.Discard()

	val, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestLevelDBHashDependsOnContent(t *testing.T) {
	commit := func(value string) []byte {
		db := NewMemLevelDBStore()
		defer db.Close()
		cache := db.CacheWrap()
		require.NoError(t, cache.Set([]byte("k"), []byte(value)))
		require.NoError(t, cache.Write())
		id, err := db.Commit()
		require.NoError(t, err)
		return id.Hash
	}

	require.Equal(t, commit("x"), commit("x"))
	require.NotEqual(t, commit("x"), commit("y"))
}

func TestLevelDBIteratorHidesMetadata(t *testing.T) {
	db := NewMemLevelDBStore()
	defer db.Close()

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	require.NoError(t, cache.Write())
	_, err := db.Commit()
	require.NoError(t, err)

	it, err := db.CacheWrap().Iterator(nil, nil)
	require.NoError(t, err)
	require.Equal(t, []Model{
		Pair([]byte("a"), []byte("1")),
		Pair([]byte("b"), []byte("2")),
	}, readAll(t, it))
}
