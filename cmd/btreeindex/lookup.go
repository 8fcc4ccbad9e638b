package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcdu/btreeindex/btree"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup KEY",
	Short: "Print the value associated with KEY",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		geo, err := loadGeometry()
		if err != nil {
			return err
		}

		key, err := encodeFixed(args[0], geo.KeySize)
		if err != nil {
			return err
		}

		idx, cache, err := openIndex(geo)
		if err != nil {
			return err
		}
		defer cache.Close()

		value, err := idx.Lookup(btree.Key(key))
		if err != nil {
			return fmt.Errorf("lookup: %w", err)
		}

		fmt.Println(string(value))
		return nil
	},
}
