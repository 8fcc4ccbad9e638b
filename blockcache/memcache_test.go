package blockcache_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcdu/btreeindex/blockcache"
	"github.com/mcdu/btreeindex/btree"
)

func TestMemCacheReadWriteRoundTrip(t *testing.T) {
	c := blockcache.NewMemCache(64, 4)

	buf := bytes.Repeat([]byte{0xAB}, 64)
	require.NoError(t, c.WriteBlock(2, buf))

	got, err := c.ReadBlock(2)
	require.NoError(t, err)
	require.Equal(t, buf, got)
}

func TestMemCacheWriteDoesNotAliasCallerBuffer(t *testing.T) {
	c := blockcache.NewMemCache(8, 1)

	buf := make([]byte, 8)
	require.NoError(t, c.WriteBlock(0, buf))
	buf[0] = 0xFF

	got, err := c.ReadBlock(0)
	require.NoError(t, err)
	require.Equal(t, byte(0), got[0])
}

func TestMemCacheReadOutOfRange(t *testing.T) {
	c := blockcache.NewMemCache(8, 1)
	_, err := c.ReadBlock(1)
	require.Error(t, err)
}

func TestMemCacheWriteWrongSize(t *testing.T) {
	c := blockcache.NewMemCache(8, 1)
	err := c.WriteBlock(0, make([]byte, 4))
	require.Error(t, err)
}

func TestMemCacheTracksAllocationCounts(t *testing.T) {
	c := blockcache.NewMemCache(8, 2)
	c.NotifyAllocateBlock(btree.BlockPtr(0))
	c.NotifyAllocateBlock(btree.BlockPtr(1))
	c.NotifyDeallocateBlock(btree.BlockPtr(0))

	require.Equal(t, 2, c.Allocated)
	require.Equal(t, 1, c.Deallocated)
}
