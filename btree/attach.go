package btree

import (
	"fmt"
)

// Attach mounts the index. initblock must be 0: the superblock always
// lives at block 0.
//
// With create=true, Attach bootstraps a fresh store: block 0 becomes the
// superblock (rootnode=1, freelist=2), block 1 becomes an empty Root, and
// every remaining block is threaded onto the free list, each storing the
// next free block number, with the tail storing 0.
//
// With create=false, Attach reads the superblock at block 0 and trusts it.
func (idx *BTreeIndex) Attach(initblock BlockPtr, create bool) error {
	if initblock != 0 {
		panic("btree: Attach initblock must be 0")
	}
	idx.superblockIndex = initblock

	if create {
		if err := idx.bootstrap(initblock); err != nil {
			return err
		}
	}

	sb := newNode(typeSuperblock, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	if err := sb.Unserialize(idx.cache, initblock); err != nil {
		return fmt.Errorf("btree: attach: read superblock: %w", err)
	}
	if sb.nodeType != typeSuperblock {
		return fmt.Errorf("%w: block 0 is not a superblock", ErrInsane)
	}
	idx.superblock = sb
	return nil
}

func (idx *BTreeIndex) bootstrap(initblock BlockPtr) error {
	blockSize := idx.cache.GetBlockSize()
	numBlocks := idx.cache.GetNumBlocks()

	rootBlock := initblock + 1
	freeListHead := initblock + 2

	sb := newNode(typeSuperblock, idx.keySize, idx.valueSize, blockSize)
	sb.rootNode = rootBlock
	sb.freeList = freeListHead
	sb.numKeys = 0
	idx.cache.NotifyAllocateBlock(initblock)
	if err := sb.Serialize(idx.cache, initblock); err != nil {
		return fmt.Errorf("btree: bootstrap: write superblock: %w", err)
	}

	root := newNode(typeRoot, idx.keySize, idx.valueSize, blockSize)
	root.rootNode = rootBlock
	root.freeList = freeListHead
	root.numKeys = 0
	idx.cache.NotifyAllocateBlock(rootBlock)
	if err := root.Serialize(idx.cache, rootBlock); err != nil {
		return fmt.Errorf("btree: bootstrap: write root: %w", err)
	}

	for i := BlockPtr(initblock + 2); int(i) < numBlocks; i++ {
		free := newNode(typeUnallocated, idx.keySize, idx.valueSize, blockSize)
		free.rootNode = rootBlock
		if int(i+1) == numBlocks {
			free.freeList = 0
		} else {
			free.freeList = i + 1
		}
		if err := free.Serialize(idx.cache, i); err != nil {
			return fmt.Errorf("btree: bootstrap: write free block %d: %w", i, err)
		}
	}
	return nil
}

// Detach writes the superblock back to the cache, flushing any in-memory
// state that Attach/Insert/AllocateNode/DeallocateNode accumulated.
func (idx *BTreeIndex) Detach() error {
	if err := idx.superblock.Serialize(idx.cache, idx.superblockIndex); err != nil {
		return fmt.Errorf("btree: detach: write superblock: %w", err)
	}
	return nil
}
