package blockcache

import (
	"fmt"

	"github.com/mcdu/btreeindex/btree"
)

// MemCache is an in-memory btree.BlockCache, used in tests to exercise the
// index without filesystem I/O. It keeps every block as its own byte
// slice and counts allocations/deallocations for assertions.
type MemCache struct {
	blockSize int
	blocks    [][]byte

	Allocated   int
	Deallocated int
}

// NewMemCache returns a MemCache with numBlocks blocks of blockSize bytes
// each, all zeroed.
func NewMemCache(blockSize, numBlocks int) *MemCache {
	blocks := make([][]byte, numBlocks)
	for i := range blocks {
		blocks[i] = make([]byte, blockSize)
	}
	return &MemCache{blockSize: blockSize, blocks: blocks}
}

func (c *MemCache) GetBlockSize() int { return c.blockSize }
func (c *MemCache) GetNumBlocks() int { return len(c.blocks) }

func (c *MemCache) ReadBlock(n btree.BlockPtr) ([]byte, error) {
	if int(n) >= len(c.blocks) {
		return nil, fmt.Errorf("blockcache: block %d out of range (have %d)", n, len(c.blocks))
	}
	out := make([]byte, c.blockSize)
	copy(out, c.blocks[n])
	return out, nil
}

func (c *MemCache) WriteBlock(n btree.BlockPtr, buf []byte) error {
	if int(n) >= len(c.blocks) {
		return fmt.Errorf("blockcache: block %d out of range (have %d)", n, len(c.blocks))
	}
	if len(buf) != c.blockSize {
		return fmt.Errorf("blockcache: write to block %d: got %d bytes, want %d", n, len(buf), c.blockSize)
	}
	cp := make([]byte, c.blockSize)
	copy(cp, buf)
	c.blocks[n] = cp
	return nil
}

func (c *MemCache) NotifyAllocateBlock(n btree.BlockPtr)   { c.Allocated++ }
func (c *MemCache) NotifyDeallocateBlock(n btree.BlockPtr) { c.Deallocated++ }
