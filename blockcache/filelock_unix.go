//go:build unix

package blockcache

import (
	"os"

	"golang.org/x/sys/unix"
)

// flock takes a non-blocking exclusive advisory lock on f.
func flock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func funlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
