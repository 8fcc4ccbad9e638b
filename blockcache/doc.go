// Package blockcache provides concrete implementations of the
// btree.BlockCache contract: MemCache, an in-memory store used by tests,
// and FileCache, a single-file, advisory-locked backing store used by the
// CLI driver and by anyone embedding the index in a long-running process.
package blockcache
