package btree

import "fmt"

type lookupOp int

const (
	opLookup lookupOp = iota
	opUpdate
)

// Lookup returns the value associated with key, or ErrNonExistent if key
// is not present.
func (idx *BTreeIndex) Lookup(key Key) (Value, error) {
	return idx.lookupOrUpdate(idx.superblock.rootNode, opLookup, key, nil)
}

// Update overwrites the value associated with key in place. It returns
// ErrNonExistent if key is not present. Update never changes the tree's
// structure: the block set reachable from the root is unchanged.
func (idx *BTreeIndex) Update(key Key, value Value) error {
	_, err := idx.lookupOrUpdate(idx.superblock.rootNode, opUpdate, key, value)
	return err
}

// lookupOrUpdate implements the descent shared by Lookup and Update.
func (idx *BTreeIndex) lookupOrUpdate(block BlockPtr, op lookupOp, key Key, value Value) (Value, error) {
	b := newNode(typeLeaf, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	if err := b.Unserialize(idx.cache, block); err != nil {
		return nil, fmt.Errorf("btree: descend to block %d: %w", block, err)
	}

	switch b.nodeType {
	case typeRoot, typeInterior:
		for i := 0; i < b.numKeys; i++ {
			testKey, err := b.GetKey(i)
			if err != nil {
				return nil, err
			}
			if key.Compare(testKey) <= 0 {
				ptr, err := b.GetPtr(i)
				if err != nil {
					return nil, err
				}
				return idx.lookupOrUpdate(ptr, op, key, value)
			}
		}
		if b.numKeys > 0 {
			ptr, err := b.GetPtr(b.numKeys)
			if err != nil {
				return nil, err
			}
			return idx.lookupOrUpdate(ptr, op, key, value)
		}
		return nil, ErrNonExistent

	case typeLeaf:
		for i := 0; i < b.numKeys; i++ {
			testKey, err := b.GetKey(i)
			if err != nil {
				return nil, err
			}
			if testKey.Equal(key) {
				switch op {
				case opLookup:
					return b.GetVal(i)
				case opUpdate:
					if err := b.SetVal(i, value); err != nil {
						return nil, err
					}
					if err := b.Serialize(idx.cache, block); err != nil {
						return nil, fmt.Errorf("btree: update: write block %d: %w", block, err)
					}
					return nil, nil
				}
			}
		}
		return nil, ErrNonExistent

	default:
		return nil, ErrInsane
	}
}
