package blockcache_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcdu/btreeindex/blockcache"
)

func TestFileCacheRoundTripAfterCloseReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.idx")

	c, err := blockcache.OpenFileCache(path, 64, 4)
	require.NoError(t, err)

	buf := bytes.Repeat([]byte{0x42}, 64)
	require.NoError(t, c.WriteBlock(1, buf))
	require.NoError(t, c.Sync())
	require.NoError(t, c.Close())

	c2, err := blockcache.OpenFileCache(path, 64, 4)
	require.NoError(t, err)
	defer c2.Close()

	got, err := c2.ReadBlock(1)
	require.NoError(t, err)
	require.Equal(t, buf, got)
}

func TestFileCacheRefusesAlreadyLockedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.idx")

	c, err := blockcache.OpenFileCache(path, 64, 4)
	require.NoError(t, err)
	defer c.Close()

	_, err = blockcache.OpenFileCache(path, 64, 4)
	require.Error(t, err)
}

func TestFileCacheStatsTracksNotifications(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.idx")
	c, err := blockcache.OpenFileCache(path, 32, 2)
	require.NoError(t, err)
	defer c.Close()

	c.NotifyAllocateBlock(0)
	c.NotifyDeallocateBlock(0)

	stats := c.Stats()
	require.Equal(t, 1, stats.BlocksAllocated)
	require.Equal(t, 1, stats.BlocksDeallocated)
	require.Equal(t, 32, stats.BlockSize)
	require.Equal(t, 2, stats.NumBlocks)
}

func TestFileCacheWriteWrongSizeRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.idx")
	c, err := blockcache.OpenFileCache(path, 32, 2)
	require.NoError(t, err)
	defer c.Close()

	err = c.WriteBlock(0, make([]byte, 10))
	require.Error(t, err)
}

func TestFileCacheRejectsOutOfRangeBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.idx")
	c, err := blockcache.OpenFileCache(path, 32, 2)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ReadBlock(5)
	require.Error(t, err)
}
