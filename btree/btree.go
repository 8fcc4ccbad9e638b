package btree

// BTreeIndex is a handle onto a single block-oriented B-tree index. All
// public operations originate here; every structural mutation is written
// through the BlockCache supplied at construction.
//
// A BTreeIndex is not safe for concurrent use: operations on a given
// handle must be strictly serialized by the caller.
type BTreeIndex struct {
	cache     BlockCache
	keySize   int
	valueSize int
	unique    bool

	superblockIndex BlockPtr
	superblock      *node
}

// NewIndex constructs a BTreeIndex bound to cache, for keys of exactly
// keysize bytes and values of exactly valuesize bytes. unique is accepted
// for forward compatibility; current behavior rejects exact duplicate
// keys on Insert regardless of its value.
//
// The returned handle is not yet mounted: call Attach before performing
// any other operation.
func NewIndex(keysize, valuesize int, cache BlockCache, unique bool) *BTreeIndex {
	return &BTreeIndex{
		cache:     cache,
		keySize:   keysize,
		valueSize: valuesize,
		unique:    unique,
	}
}

// KeySize returns the fixed key width this index was constructed with.
func (idx *BTreeIndex) KeySize() int { return idx.keySize }

// ValueSize returns the fixed value width this index was constructed with.
func (idx *BTreeIndex) ValueSize() int { return idx.valueSize }

// RootNode returns the block number of the current root, as recorded in
// the superblock. Attach must have been called first.
func (idx *BTreeIndex) RootNode() BlockPtr {
	return idx.superblock.rootNode
}

func (idx *BTreeIndex) newNode(t nodeType) *node {
	n := newNode(t, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	n.rootNode = idx.superblock.rootNode
	n.freeList = idx.superblock.freeList
	return n
}
