package btree

import "fmt"

// promotion is the (key, right_block) pair handed up to a parent when a
// child splits. A nil *promotion means the child did not split: promotion
// data is valid exactly when the pointer is non-nil, which is
// unrepresentable-by-construction any other way.
type promotion struct {
	key Key
	ptr BlockPtr
}

// Insert adds (key, value) to the index. It returns ErrConflict if key
// already exists, in which case no mutation has occurred.
func (idx *BTreeIndex) Insert(key Key, value Value) error {
	rootBlk := idx.superblock.rootNode

	root := newNode(typeRoot, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	if err := root.Unserialize(idx.cache, rootBlk); err != nil {
		return fmt.Errorf("btree: insert: read root %d: %w", rootBlk, err)
	}

	if root.nodeType == typeRoot && root.numKeys == 0 {
		return idx.bootstrapInsert(root, rootBlk, key, value)
	}

	promo, err := idx.insertAtNode(rootBlk, key, value)
	if err != nil {
		return err
	}
	if promo != nil {
		return idx.growRoot(rootBlk, promo)
	}
	return nil
}

// bootstrapInsert converts an empty root into the tree's first interior
// level: two fresh leaves are allocated, (key, value) is written into the
// left one, and the root gets one key and two child pointers. This is the
// only path that turns the root from a leaf-equivalent empty shell into a
// proper inner node.
func (idx *BTreeIndex) bootstrapInsert(root *node, rootBlk BlockPtr, key Key, value Value) error {
	lhs := idx.newNode(typeLeaf)
	if err := lhs.SetPtr(0, 0); err != nil {
		return err
	}
	if err := lhs.InsertKeyVal(0, KeyValuePair{Key: key.clone(), Value: value.clone()}); err != nil {
		return err
	}

	rhs := idx.newNode(typeLeaf)
	if err := rhs.SetPtr(0, 0); err != nil {
		return err
	}

	lhsPtr, err := idx.AllocateNode()
	if err != nil {
		return err
	}
	rhsPtr, err := idx.AllocateNode()
	if err != nil {
		return err
	}

	root.numKeys = 1
	if err := root.SetKey(0, key.clone()); err != nil {
		return err
	}
	if err := root.SetPtr(0, lhsPtr); err != nil {
		return err
	}
	if err := root.SetPtr(1, rhsPtr); err != nil {
		return err
	}

	if err := root.Serialize(idx.cache, rootBlk); err != nil {
		return fmt.Errorf("btree: insert: write root %d: %w", rootBlk, err)
	}
	if err := lhs.Serialize(idx.cache, lhsPtr); err != nil {
		return fmt.Errorf("btree: insert: write leaf %d: %w", lhsPtr, err)
	}
	if err := rhs.Serialize(idx.cache, rhsPtr); err != nil {
		return fmt.Errorf("btree: insert: write leaf %d: %w", rhsPtr, err)
	}
	return nil
}

// growRoot allocates a fresh block to hold a new root promoted above the
// old one, increasing tree height by one. It is the only place height
// grows.
func (idx *BTreeIndex) growRoot(oldRootBlk BlockPtr, promo *promotion) error {
	newRoot := idx.newNode(typeRoot)
	newRoot.numKeys = 1
	if err := newRoot.SetKey(0, promo.key); err != nil {
		return err
	}
	if err := newRoot.SetPtr(0, oldRootBlk); err != nil {
		return err
	}
	if err := newRoot.SetPtr(1, promo.ptr); err != nil {
		return err
	}

	newRootBlk, err := idx.AllocateNode()
	if err != nil {
		return err
	}

	idx.superblock.rootNode = newRootBlk
	if err := newRoot.Serialize(idx.cache, newRootBlk); err != nil {
		return fmt.Errorf("btree: insert: write new root %d: %w", newRootBlk, err)
	}
	// The superblock is written last, per the bottom-up write ordering:
	// the new root and its children are already durable by this point.
	if err := idx.superblock.Serialize(idx.cache, idx.superblockIndex); err != nil {
		return fmt.Errorf("btree: insert: write superblock: %w", err)
	}
	return nil
}

// insertAtNode descends from block, inserting (key, value) and splicing
// any promotion a child split produced into this node. It returns a
// non-nil *promotion if this node itself split in turn.
func (idx *BTreeIndex) insertAtNode(block BlockPtr, key Key, value Value) (*promotion, error) {
	b := newNode(typeLeaf, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	if err := b.Unserialize(idx.cache, block); err != nil {
		return nil, fmt.Errorf("btree: insert: read block %d: %w", block, err)
	}

	switch b.nodeType {
	case typeInterior, typeRoot:
		for i := 0; i < b.numKeys; i++ {
			testKey, err := b.GetKey(i)
			if err != nil {
				return nil, err
			}
			if testKey.Equal(key) {
				return nil, ErrConflict
			}
			if key.Less(testKey) {
				ptr, err := b.GetPtr(i)
				if err != nil {
					return nil, err
				}
				return idx.recurseAndSplice(b, block, i, ptr, key, value)
			}
		}
		if b.numKeys > 0 {
			ptr, err := b.GetPtr(b.numKeys)
			if err != nil {
				return nil, err
			}
			return idx.recurseAndSplice(b, block, b.numKeys, ptr, key, value)
		}
		return nil, ErrNonExistent

	case typeLeaf:
		for i := 0; i < b.numKeys; i++ {
			testKey, err := b.GetKey(i)
			if err != nil {
				return nil, err
			}
			if testKey.Equal(key) {
				return nil, ErrConflict
			}
			if key.Less(testKey) {
				if err := b.InsertKeyVal(i, KeyValuePair{Key: key.clone(), Value: value.clone()}); err != nil {
					return nil, err
				}
				return idx.finishLeafInsert(b, block)
			}
		}
		if err := b.InsertKeyVal(b.numKeys, KeyValuePair{Key: key.clone(), Value: value.clone()}); err != nil {
			return nil, err
		}
		return idx.finishLeafInsert(b, block)

	default:
		return nil, ErrInsane
	}
}

// recurseAndSplice recurses into child, and on return splices any
// promotion produced by the child split into b at slot i, propagating a
// new promotion upward if that splice overfills b in turn.
func (idx *BTreeIndex) recurseAndSplice(b *node, block BlockPtr, i int, child BlockPtr, key Key, value Value) (*promotion, error) {
	childPromo, err := idx.insertAtNode(child, key, value)
	if err != nil {
		return nil, err
	}
	if childPromo == nil {
		return nil, nil
	}

	if err := b.InsertKeyPtr(i, KeyPointerPair{Key: childPromo.key, Ptr: childPromo.ptr}); err != nil {
		return nil, err
	}

	maxKeys := (b.NumSlotsAsInterior() * 2) / 3
	if b.numKeys >= maxKeys {
		promo, err := idx.splitNode(b)
		if err != nil {
			return nil, err
		}
		if err := b.Serialize(idx.cache, block); err != nil {
			return nil, fmt.Errorf("btree: insert: write block %d: %w", block, err)
		}
		return promo, nil
	}

	if err := b.Serialize(idx.cache, block); err != nil {
		return nil, fmt.Errorf("btree: insert: write block %d: %w", block, err)
	}
	return nil, nil
}

// finishLeafInsert splits b if the insert just performed brought it to or
// above the fill threshold, then serializes it.
func (idx *BTreeIndex) finishLeafInsert(b *node, block BlockPtr) (*promotion, error) {
	maxKeys := (b.NumSlotsAsLeaf() * 2) / 3
	if b.numKeys >= maxKeys {
		promo, err := idx.splitLeaf(b)
		if err != nil {
			return nil, err
		}
		if err := b.Serialize(idx.cache, block); err != nil {
			return nil, fmt.Errorf("btree: insert: write block %d: %w", block, err)
		}
		return promo, nil
	}
	if err := b.Serialize(idx.cache, block); err != nil {
		return nil, fmt.Errorf("btree: insert: write block %d: %w", block, err)
	}
	return nil, nil
}

// splitLeaf splits an overfull leaf in two. The promoted key is also
// copied into the new right leaf: this is the B+-tree variant, where a
// separator key remains present in the leaf level (see splitNode for the
// classical variant that lifts the key out entirely).
func (idx *BTreeIndex) splitLeaf(b *node) (*promotion, error) {
	n := b.numKeys
	lhsN := n / 2
	rhsN := n - lhsN

	promotedKey, err := b.GetKey(lhsN)
	if err != nil {
		return nil, err
	}

	rhsPtr, err := idx.AllocateNode()
	if err != nil {
		return nil, err
	}

	rhs := b.clone()
	rhs.numKeys = rhsN

	for rhsOffset, bOffset := 0, lhsN; rhsOffset < rhsN; rhsOffset, bOffset = rhsOffset+1, bOffset+1 {
		kv, err := b.GetKeyVal(bOffset)
		if err != nil {
			return nil, err
		}
		if err := rhs.SetKeyVal(rhsOffset, kv); err != nil {
			return nil, err
		}
	}

	leadingPtr, err := b.GetPtr(0)
	if err != nil {
		return nil, err
	}
	if err := rhs.SetPtr(0, leadingPtr); err != nil {
		return nil, err
	}

	if err := rhs.Serialize(idx.cache, rhsPtr); err != nil {
		return nil, fmt.Errorf("btree: split: write leaf %d: %w", rhsPtr, err)
	}

	b.numKeys = lhsN
	return &promotion{key: promotedKey, ptr: rhsPtr}, nil
}

// splitNode splits an overfull interior/root node in two. The promoted
// key is lifted out of both children entirely: the classical B-tree
// variant, in contrast to splitLeaf's B+-tree variant.
func (idx *BTreeIndex) splitNode(b *node) (*promotion, error) {
	n := b.numKeys
	lhsN := n / 2
	rhsN := n / 2
	if n%2 == 0 {
		rhsN--
	}

	promotedKey, err := b.GetKey(lhsN)
	if err != nil {
		return nil, err
	}

	rhsPtr, err := idx.AllocateNode()
	if err != nil {
		return nil, err
	}

	rhs := b.clone()
	rhs.numKeys = rhsN

	bOffset := lhsN + 1
	for rhsOffset := 0; rhsOffset < rhsN; rhsOffset++ {
		p, err := b.GetPtr(bOffset)
		if err != nil {
			return nil, err
		}
		if err := rhs.SetPtr(rhsOffset, p); err != nil {
			return nil, err
		}
		k, err := b.GetKey(bOffset)
		if err != nil {
			return nil, err
		}
		if err := rhs.SetKey(rhsOffset, k); err != nil {
			return nil, err
		}
		bOffset++
	}
	lastPtr, err := b.GetPtr(bOffset)
	if err != nil {
		return nil, err
	}
	if err := rhs.SetPtr(rhsN, lastPtr); err != nil {
		return nil, err
	}

	if err := rhs.Serialize(idx.cache, rhsPtr); err != nil {
		return nil, fmt.Errorf("btree: split: write node %d: %w", rhsPtr, err)
	}

	b.numKeys = lhsN
	return &promotion{key: promotedKey, ptr: rhsPtr}, nil
}
