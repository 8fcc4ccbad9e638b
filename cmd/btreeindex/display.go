package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcdu/btreeindex/btree"
)

var (
	displayDot    bool
	displaySorted bool
)

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Dump the tree structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		if displayDot && displaySorted {
			return fmt.Errorf("--dot and --sorted are mutually exclusive")
		}

		geo, err := loadGeometry()
		if err != nil {
			return err
		}

		idx, cache, err := openIndex(geo)
		if err != nil {
			return err
		}
		defer cache.Close()

		dt := btree.DisplayDepth
		switch {
		case displayDot:
			dt = btree.DisplayDepthDot
		case displaySorted:
			dt = btree.DisplaySortedKeyVal
		}

		if err := idx.Display(os.Stdout, dt); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		return nil
	},
}

func init() {
	displayCmd.Flags().BoolVar(&displayDot, "dot", false, "render as a Graphviz DOT digraph")
	displayCmd.Flags().BoolVar(&displaySorted, "sorted", false, "print only (key,value) tuples in key order")
}
