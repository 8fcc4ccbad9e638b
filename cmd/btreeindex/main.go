// Command btreeindex drives a block-oriented B-tree index from the shell:
// attach/create a data file, insert and look up fixed-width records, and
// dump the tree for inspection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcdu/btreeindex/blockcache"
	"github.com/mcdu/btreeindex/btree"
	"github.com/mcdu/btreeindex/internal/config"
)

var (
	dataPath   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "btreeindex",
	Short: "Inspect and mutate a block-oriented B-tree index file",
	Long: `btreeindex operates a fixed-width-key/value B-tree index stored as a
sequence of equal-sized blocks in a single data file.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "btreeindex.dat", "path to the index data file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML geometry config (keysize/valuesize/blocksize/numblocks)")

	rootCmd.AddCommand(attachCmd, insertCmd, lookupCmd, updateCmd, displayCmd)
}

func loadGeometry() (*config.Geometry, error) {
	return config.Load(configPath)
}

// openIndex attaches an existing data file, returning both the index and
// its backing cache so the caller can Detach/Close in the right order.
func openIndex(geo *config.Geometry) (*btree.BTreeIndex, *blockcache.FileCache, error) {
	cache, err := blockcache.OpenFileCache(dataPath, geo.BlockSize, geo.NumBlocks)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", dataPath, err)
	}

	idx := btree.NewIndex(geo.KeySize, geo.ValueSize, cache, false)
	if err := idx.Attach(0, false); err != nil {
		_ = cache.Close()
		return nil, nil, fmt.Errorf("attach: %w", err)
	}
	return idx, cache, nil
}

// encodeFixed right-pads s with zero bytes to width, or errors if s is
// already longer than width: the index has no notion of variable-width
// keys or values.
func encodeFixed(s string, width int) ([]byte, error) {
	if len(s) > width {
		return nil, fmt.Errorf("%q is %d bytes, wider than the configured width %d", s, len(s), width)
	}
	buf := make([]byte, width)
	copy(buf, s)
	return buf, nil
}

// Execute runs the command tree, exiting with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
