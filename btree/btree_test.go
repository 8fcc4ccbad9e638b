package btree_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcdu/btreeindex/blockcache"
	"github.com/mcdu/btreeindex/btree"
)

// newFixture returns a fresh, attached index over an in-memory cache with
// 4-byte keys and values and a block size chosen to give a leaf capacity
// of exactly 6 slots (fill threshold floor(2/3*6) = 4).
func newFixture(t *testing.T, numBlocks int) (*btree.BTreeIndex, *blockcache.MemCache) {
	t.Helper()
	cache := blockcache.NewMemCache(96, numBlocks)
	idx := btree.NewIndex(4, 4, cache, false)
	require.NoError(t, idx.Attach(0, true))
	return idx, cache
}

func k(s string) btree.Key   { return btree.Key(s) }
func v(s string) btree.Value { return btree.Value(s) }

func TestEmptyRootBootstrap(t *testing.T) {
	idx, _ := newFixture(t, 16)

	require.NoError(t, idx.Insert(k("AAAA"), v("0001")))

	got, err := idx.Lookup(k("AAAA"))
	require.NoError(t, err)
	require.True(t, bytes.Equal(got, v("0001")))

	require.NoError(t, idx.SanityCheck())
}

func TestLeafFillAndSplit(t *testing.T) {
	idx, _ := newFixture(t, 16)

	for i := 1; i <= 5; i++ {
		key := k(fmt.Sprintf("%04d", i))
		require.NoError(t, idx.Insert(key, v(fmt.Sprintf("%04d", i))))
	}

	got, err := idx.Lookup(k("0003"))
	require.NoError(t, err)
	require.True(t, bytes.Equal(got, v("0003")))

	require.NoError(t, idx.SanityCheck())
}

func TestRootPromotionChain(t *testing.T) {
	idx, _ := newFixture(t, 64)

	const n = 60
	for i := 1; i <= n; i++ {
		key := k(fmt.Sprintf("%04d", i))
		require.NoError(t, idx.Insert(key, v(fmt.Sprintf("%04d", i))), "insert %d", i)
	}

	for i := 1; i <= n; i++ {
		key := k(fmt.Sprintf("%04d", i))
		got, err := idx.Lookup(key)
		require.NoError(t, err, "lookup %d", i)
		require.True(t, bytes.Equal(got, v(fmt.Sprintf("%04d", i))))
	}

	require.NoError(t, idx.SanityCheck())
}

func TestUpdateInPlace(t *testing.T) {
	idx, _ := newFixture(t, 16)

	for i := 1; i <= 5; i++ {
		key := k(fmt.Sprintf("%04d", i))
		require.NoError(t, idx.Insert(key, v(fmt.Sprintf("%04d", i))))
	}

	rootBefore := idx.RootNode()

	require.NoError(t, idx.Update(k("0003"), v("ZZZZ")))

	got, err := idx.Lookup(k("0003"))
	require.NoError(t, err)
	require.True(t, bytes.Equal(got, v("ZZZZ")))

	require.Equal(t, rootBefore, idx.RootNode())
	require.NoError(t, idx.SanityCheck())
}

func TestUpdateNonExistent(t *testing.T) {
	idx, _ := newFixture(t, 16)
	require.NoError(t, idx.Insert(k("AAAA"), v("0001")))

	err := idx.Update(k("ZZZZ"), v("0002"))
	require.ErrorIs(t, err, btree.ErrNonExistent)
}

func TestDuplicateConflict(t *testing.T) {
	idx, cache := newFixture(t, 16)

	for i := 1; i <= 3; i++ {
		key := k(fmt.Sprintf("%04d", i))
		require.NoError(t, idx.Insert(key, v(fmt.Sprintf("%04d", i))))
	}

	before := snapshot(cache)

	err := idx.Insert(k("0002"), v("9999"))
	require.ErrorIs(t, err, btree.ErrConflict)

	require.Equal(t, before, snapshot(cache))
}

func TestLookupNonExistentOnEmptyTree(t *testing.T) {
	idx, _ := newFixture(t, 16)
	_, err := idx.Lookup(k("AAAA"))
	require.ErrorIs(t, err, btree.ErrNonExistent)
}

func TestExhaustion(t *testing.T) {
	idx, _ := newFixture(t, 4)

	require.NoError(t, idx.Insert(k("0001"), v("0001")))

	var lastErr error
	for i := 2; i <= 20; i++ {
		key := k(fmt.Sprintf("%04d", i))
		lastErr = idx.Insert(key, v(fmt.Sprintf("%04d", i)))
		if lastErr != nil {
			break
		}
	}

	require.True(t, errors.Is(lastErr, btree.ErrNoSpace), "expected ErrNoSpace, got %v", lastErr)
	require.NoError(t, idx.SanityCheck())
}

func snapshot(c *blockcache.MemCache) [][]byte {
	out := make([][]byte, c.GetNumBlocks())
	for i := range out {
		b, _ := c.ReadBlock(btree.BlockPtr(i))
		out[i] = b
	}
	return out
}
