package btree

import "errors"

// Sentinel errors returned by BTreeIndex operations. Callers should compare
// against these with errors.Is; layers above this package are free to wrap
// them with additional context.
var (
	// ErrNoSpace is returned when the free list is exhausted and a new
	// block is needed to satisfy an insert.
	ErrNoSpace = errors.New("btree: no space left in index")

	// ErrNonExistent is returned when a lookup or update targets a key
	// that is not present, or when a descent reaches an empty interior
	// node with nowhere to go.
	ErrNonExistent = errors.New("btree: key does not exist")

	// ErrConflict is returned by Insert when the key already exists.
	// No mutation has occurred when this error is returned.
	ErrConflict = errors.New("btree: key already exists")

	// ErrUnimplemented names operations this package does not implement.
	// The package has no Delete, and no current operation returns it.
	ErrUnimplemented = errors.New("btree: operation not implemented")

	// ErrBadSlot is returned when a slot index is out of range for the
	// node's current occupancy. It indicates a programming error.
	ErrBadSlot = errors.New("btree: slot index out of range")

	// ErrInsane is returned when a node's on-disk nodetype is not one
	// the operation expects to encounter; it indicates a bug or a
	// corrupted store.
	ErrInsane = errors.New("btree: unexpected node type (corrupt index)")
)
