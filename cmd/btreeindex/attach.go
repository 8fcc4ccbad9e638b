package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mcdu/btreeindex/blockcache"
	"github.com/mcdu/btreeindex/btree"
)

var createNew bool

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Create a data file, or mount one and check that block 0 is a superblock",
	RunE: func(cmd *cobra.Command, args []string) error {
		geo, err := loadGeometry()
		if err != nil {
			return err
		}

		cache, err := blockcache.OpenFileCache(dataPath, geo.BlockSize, geo.NumBlocks)
		if err != nil {
			return fmt.Errorf("open %s: %w", dataPath, err)
		}
		defer cache.Close()

		idx := btree.NewIndex(geo.KeySize, geo.ValueSize, cache, false)
		if err := idx.Attach(0, createNew); err != nil {
			return fmt.Errorf("attach: %w", err)
		}
		if err := idx.Detach(); err != nil {
			return fmt.Errorf("detach: %w", err)
		}

		log.Printf("btreeindex: attached %s (keysize=%d valuesize=%d blocksize=%d numblocks=%d create=%v)",
			dataPath, geo.KeySize, geo.ValueSize, geo.BlockSize, geo.NumBlocks, createNew)
		return nil
	},
}

func init() {
	attachCmd.Flags().BoolVar(&createNew, "create", false, "bootstrap a fresh, empty data file instead of mounting an existing one")
}
