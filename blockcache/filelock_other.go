//go:build !unix

package blockcache

import "os"

// flock/funlock have no portable non-cgo implementation outside unix in
// this module; here they are no-ops that take no lock, and exclusivity
// relies on the caller not opening the same data file twice.
func flock(f *os.File) error   { return nil }
func funlock(f *os.File) error { return nil }
