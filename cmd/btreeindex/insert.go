package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mcdu/btreeindex/btree"
)

var insertCmd = &cobra.Command{
	Use:   "insert KEY VALUE",
	Short: "Insert a (key, value) record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		geo, err := loadGeometry()
		if err != nil {
			return err
		}

		key, err := encodeFixed(args[0], geo.KeySize)
		if err != nil {
			return err
		}
		value, err := encodeFixed(args[1], geo.ValueSize)
		if err != nil {
			return err
		}

		idx, cache, err := openIndex(geo)
		if err != nil {
			return err
		}
		defer cache.Close()

		if err := idx.Insert(btree.Key(key), btree.Value(value)); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		if err := idx.Detach(); err != nil {
			return fmt.Errorf("detach: %w", err)
		}
		if err := cache.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}

		log.Printf("btreeindex: inserted %q", args[0])
		return nil
	},
}
