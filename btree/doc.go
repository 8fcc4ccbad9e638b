// Package btree implements a block-oriented, disk-resident B-tree index
// mapping fixed-width binary keys to fixed-width binary values.
//
// All state lives in a sequence of equal-sized blocks reached through an
// external BlockCache (see cache.go); every structural mutation is written
// through that cache so an index can be reattached later from the same
// backing store. The package supports point lookup, insertion and in-place
// value update. Range scans, deletion, multi-writer concurrency and
// crash-atomic commit are out of scope.
package btree
