package blockcache

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/mcdu/btreeindex/btree"
)

// FileCache is a btree.BlockCache backed by a single *os.File. Blocks are
// addressed by simple seek-and-read/write at n*blockSize; on unix the file
// is advisory-locked for the lifetime of the FileCache so a second process
// cannot open the same data file for writing, enforcing single-writer
// access at the process level.
type FileCache struct {
	mu sync.Mutex

	file      *os.File
	blockSize int
	numBlocks int

	blocksAllocated   int
	blocksDeallocated int
}

// Stats reports allocation traffic observed through
// NotifyAllocateBlock/NotifyDeallocateBlock, for CLI reporting.
type Stats struct {
	BlockSize         int
	NumBlocks         int
	BlocksAllocated   int
	BlocksDeallocated int
}

// OpenFileCache opens (creating if necessary) the data file at path,
// growing or truncating it to exactly numBlocks*blockSize bytes, and
// takes an exclusive advisory lock on it.
func OpenFileCache(path string, blockSize, numBlocks int) (*FileCache, error) {
	if blockSize <= 0 || numBlocks <= 0 {
		return nil, fmt.Errorf("blockcache: blockSize and numBlocks must be positive")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("blockcache: open %s: %w", path, err)
	}

	if err := flock(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("blockcache: lock %s: %w", path, err)
	}

	size := int64(blockSize) * int64(numBlocks)
	if err := f.Truncate(size); err != nil {
		_ = funlock(f)
		_ = f.Close()
		return nil, fmt.Errorf("blockcache: truncate %s to %d bytes: %w", path, size, err)
	}

	log.Printf("blockcache: opened %s (%d blocks x %d bytes)", path, numBlocks, blockSize)

	return &FileCache{
		file:      f,
		blockSize: blockSize,
		numBlocks: numBlocks,
	}, nil
}

func (c *FileCache) GetBlockSize() int { return c.blockSize }
func (c *FileCache) GetNumBlocks() int { return c.numBlocks }

func (c *FileCache) ReadBlock(n btree.BlockPtr) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(n) >= c.numBlocks {
		return nil, fmt.Errorf("blockcache: block %d out of range (have %d)", n, c.numBlocks)
	}

	buf := make([]byte, c.blockSize)
	off := int64(n) * int64(c.blockSize)
	if _, err := c.file.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("blockcache: read block %d: %w", n, err)
	}
	return buf, nil
}

func (c *FileCache) WriteBlock(n btree.BlockPtr, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(n) >= c.numBlocks {
		return fmt.Errorf("blockcache: block %d out of range (have %d)", n, c.numBlocks)
	}
	if len(buf) != c.blockSize {
		return fmt.Errorf("blockcache: write to block %d: got %d bytes, want %d", n, len(buf), c.blockSize)
	}

	off := int64(n) * int64(c.blockSize)
	if _, err := c.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("blockcache: write block %d: %w", n, err)
	}
	return nil
}

func (c *FileCache) NotifyAllocateBlock(n btree.BlockPtr) {
	c.mu.Lock()
	c.blocksAllocated++
	c.mu.Unlock()
}

func (c *FileCache) NotifyDeallocateBlock(n btree.BlockPtr) {
	c.mu.Lock()
	c.blocksDeallocated++
	c.mu.Unlock()
}

// Stats returns a snapshot of allocation traffic observed so far.
func (c *FileCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		BlockSize:         c.blockSize,
		NumBlocks:         c.numBlocks,
		BlocksAllocated:   c.blocksAllocated,
		BlocksDeallocated: c.blocksDeallocated,
	}
}

// Sync forces any buffered writes to stable storage.
func (c *FileCache) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Sync()
}

// Close releases the advisory lock and closes the backing file.
func (c *FileCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := funlock(c.file); err != nil {
		_ = c.file.Close()
		return fmt.Errorf("blockcache: unlock: %w", err)
	}
	return c.file.Close()
}
