package btree

import "fmt"

// AllocateNode pops the head of the free list, advances the superblock's
// free-list head to the taken block's next pointer, writes the superblock,
// and notifies the cache of the allocation. It returns ErrNoSpace if the
// free list is exhausted.
func (idx *BTreeIndex) AllocateNode() (BlockPtr, error) {
	n := idx.superblock.freeList
	if n == 0 {
		return 0, ErrNoSpace
	}

	free := newNode(typeUnallocated, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	if err := free.Unserialize(idx.cache, n); err != nil {
		return 0, fmt.Errorf("btree: allocate: read free block %d: %w", n, err)
	}
	if free.nodeType != typeUnallocated {
		return 0, fmt.Errorf("%w: free-list block %d is not unallocated", ErrInsane, n)
	}

	idx.superblock.freeList = free.freeList

	if err := idx.superblock.Serialize(idx.cache, idx.superblockIndex); err != nil {
		return 0, fmt.Errorf("btree: allocate: write superblock: %w", err)
	}

	idx.cache.NotifyAllocateBlock(n)
	return n, nil
}

// DeallocateNode re-types block n as Unallocated, chains it onto the head
// of the free list, writes it and the superblock, and notifies the cache
// of the deallocation.
func (idx *BTreeIndex) DeallocateNode(n BlockPtr) error {
	blk := newNode(typeUnallocated, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	if err := blk.Unserialize(idx.cache, n); err != nil {
		return fmt.Errorf("btree: deallocate: read block %d: %w", n, err)
	}
	if blk.nodeType == typeUnallocated {
		panic(fmt.Sprintf("btree: deallocate: block %d is already unallocated", n))
	}

	blk.nodeType = typeUnallocated
	blk.freeList = idx.superblock.freeList

	if err := blk.Serialize(idx.cache, n); err != nil {
		return fmt.Errorf("btree: deallocate: write block %d: %w", n, err)
	}

	idx.superblock.freeList = n

	if err := idx.superblock.Serialize(idx.cache, idx.superblockIndex); err != nil {
		return fmt.Errorf("btree: deallocate: write superblock: %w", err)
	}

	idx.cache.NotifyDeallocateBlock(n)
	return nil
}
