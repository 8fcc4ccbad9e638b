package btree

import "fmt"

// SanityCheck walks the whole store and verifies its structural
// invariants: key order within and across nodes, equal leaf depth,
// per-node capacity, and that the superblock/reachable/free partition of
// every block is exact and disjoint. It returns the first violation found,
// wrapping ErrInsane.
func (idx *BTreeIndex) SanityCheck() error {
	reachable := map[BlockPtr]bool{idx.superblockIndex: true}
	var leafDepth = -1

	var walk func(block BlockPtr, depth int, lo, hi Key) error
	walk = func(block BlockPtr, depth int, lo, hi Key) error {
		if reachable[block] {
			return fmt.Errorf("%w: block %d reachable via more than one path", ErrInsane, block)
		}
		reachable[block] = true

		b := newNode(typeLeaf, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
		if err := b.Unserialize(idx.cache, block); err != nil {
			return err
		}

		switch b.nodeType {
		case typeRoot, typeInterior:
			maxKeys := b.NumSlotsAsInterior()
			if b.nodeType == typeInterior && b.numKeys > maxKeys {
				return fmt.Errorf("%w: interior block %d holds %d keys, capacity %d", ErrInsane, block, b.numKeys, maxKeys)
			}
			if b.numKeys > maxKeys {
				return fmt.Errorf("%w: root block %d holds %d keys, capacity %d", ErrInsane, block, b.numKeys, maxKeys)
			}

			var prev Key
			for i := 0; i < b.numKeys; i++ {
				k, err := b.GetKey(i)
				if err != nil {
					return err
				}
				if prev != nil && !prev.Less(k) {
					return fmt.Errorf("%w: block %d keys out of order at slot %d", ErrInsane, block, i)
				}
				prev = k
			}

			for i := 0; i <= b.numKeys; i++ {
				ptr, err := b.GetPtr(i)
				if err != nil {
					return err
				}
				childLo, childHi := lo, hi
				if i > 0 {
					k, err := b.GetKey(i - 1)
					if err != nil {
						return err
					}
					childLo = k
				}
				if i < b.numKeys {
					k, err := b.GetKey(i)
					if err != nil {
						return err
					}
					childHi = k
				}
				if err := walk(ptr, depth+1, childLo, childHi); err != nil {
					return err
				}
			}
			return nil

		case typeLeaf:
			maxKeys := b.NumSlotsAsLeaf()
			if b.numKeys > maxKeys {
				return fmt.Errorf("%w: leaf block %d holds %d keys, capacity %d", ErrInsane, block, b.numKeys, maxKeys)
			}
			if leafDepth == -1 {
				leafDepth = depth
			} else if leafDepth != depth {
				return fmt.Errorf("%w: leaf block %d at depth %d, expected %d", ErrInsane, block, depth, leafDepth)
			}

			var prev Key
			for i := 0; i < b.numKeys; i++ {
				k, err := b.GetKey(i)
				if err != nil {
					return err
				}
				if prev != nil && !prev.Less(k) {
					return fmt.Errorf("%w: leaf block %d keys out of order at slot %d", ErrInsane, block, i)
				}
				if lo != nil && k.Less(lo) {
					return fmt.Errorf("%w: leaf block %d key at slot %d below lower bound", ErrInsane, block, i)
				}
				if hi != nil && !k.Less(hi) {
					return fmt.Errorf("%w: leaf block %d key at slot %d at or above upper bound", ErrInsane, block, i)
				}
				prev = k
			}
			return nil

		default:
			return fmt.Errorf("%w: block %d has unexpected type %s while walking reachable set", ErrInsane, block, b.nodeType)
		}
	}

	if err := walk(idx.superblock.rootNode, 0, nil, nil); err != nil {
		return err
	}

	free := map[BlockPtr]bool{}
	for cur := idx.superblock.freeList; cur != 0; {
		if free[cur] {
			return fmt.Errorf("%w: free list cycles at block %d", ErrInsane, cur)
		}
		if reachable[cur] {
			return fmt.Errorf("%w: block %d is both reachable and on the free list", ErrInsane, cur)
		}
		free[cur] = true

		b := newNode(typeUnallocated, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
		if err := b.Unserialize(idx.cache, cur); err != nil {
			return err
		}
		if b.nodeType != typeUnallocated {
			return fmt.Errorf("%w: free-list block %d is not unallocated", ErrInsane, cur)
		}
		cur = b.freeList
	}

	numBlocks := idx.cache.GetNumBlocks()
	for i := 0; i < numBlocks; i++ {
		blk := BlockPtr(i)
		if !reachable[blk] && !free[blk] {
			return fmt.Errorf("%w: block %d is neither reachable, free, nor the superblock", ErrInsane, blk)
		}
	}

	return nil
}
