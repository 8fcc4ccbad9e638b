package btree

import (
	"fmt"
	"io"
)

// DisplayType selects one of the three read-only dump formats Display can
// produce.
type DisplayType int

const (
	// DisplayDepth is a depth-first textual dump: one "Interior:"/"Leaf:"
	// line per node, naming its block number, keys, pointers and values.
	DisplayDepth DisplayType = iota
	// DisplayDepthDot is the same traversal rendered as a Graphviz DOT
	// digraph: nodes labelled by block id, edges from parent to child.
	DisplayDepthDot
	// DisplaySortedKeyVal prints only leaf (key,value) tuples, in key
	// order, via the same depth-first walk.
	DisplaySortedKeyVal
)

// Display writes a read-only dump of the whole tree to w.
func (idx *BTreeIndex) Display(w io.Writer, dt DisplayType) error {
	if dt == DisplayDepthDot {
		fmt.Fprintln(w, "digraph tree {")
	}
	err := idx.displayInternal(w, idx.superblock.rootNode, dt)
	if dt == DisplayDepthDot {
		fmt.Fprintln(w, "}")
	}
	return err
}

func (idx *BTreeIndex) displayInternal(w io.Writer, block BlockPtr, dt DisplayType) error {
	b := newNode(typeLeaf, idx.keySize, idx.valueSize, idx.cache.GetBlockSize())
	if err := b.Unserialize(idx.cache, block); err != nil {
		return err
	}

	if err := printNode(w, block, b, dt); err != nil {
		return err
	}
	if dt == DisplayDepthDot {
		fmt.Fprint(w, ";")
	}
	if dt != DisplaySortedKeyVal {
		fmt.Fprintln(w)
	}

	switch b.nodeType {
	case typeRoot, typeInterior:
		if b.numKeys == 0 {
			return nil
		}
		for i := 0; i <= b.numKeys; i++ {
			ptr, err := b.GetPtr(i)
			if err != nil {
				return err
			}
			if dt == DisplayDepthDot {
				fmt.Fprintf(w, "%d -> %d;\n", block, ptr)
			}
			if err := idx.displayInternal(w, ptr, dt); err != nil {
				return err
			}
		}
		return nil
	case typeLeaf:
		return nil
	default:
		return ErrInsane
	}
}

func printNode(w io.Writer, block BlockPtr, b *node, dt DisplayType) error {
	if dt == DisplayDepthDot {
		fmt.Fprintf(w, "%d [ label=\"%d: ", block, block)
	} else if dt == DisplayDepth {
		fmt.Fprintf(w, "%d: ", block)
	}

	switch b.nodeType {
	case typeRoot, typeInterior:
		if dt == DisplaySortedKeyVal {
			break
		}
		if dt != DisplayDepthDot {
			fmt.Fprint(w, "Interior: ")
		}
		for i := 0; i <= b.numKeys; i++ {
			ptr, err := b.GetPtr(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "*%d ", ptr)
			if i == b.numKeys {
				break
			}
			key, err := b.GetKey(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s ", key)
		}
	case typeLeaf:
		if dt != DisplaySortedKeyVal && dt != DisplayDepthDot {
			fmt.Fprint(w, "Leaf: ")
		}
		for i := 0; i < b.numKeys; i++ {
			if i == 0 && dt != DisplaySortedKeyVal {
				ptr, err := b.GetPtr(0)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "*%d ", ptr)
			}
			if dt == DisplaySortedKeyVal {
				fmt.Fprint(w, "(")
			}
			key, err := b.GetKey(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s", key)
			if dt == DisplaySortedKeyVal {
				fmt.Fprint(w, ",")
			} else {
				fmt.Fprint(w, " ")
			}
			val, err := b.GetVal(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s", val)
			if dt == DisplaySortedKeyVal {
				fmt.Fprint(w, ")\n")
			} else {
				fmt.Fprint(w, " ")
			}
		}
	default:
		if dt == DisplayDepthDot {
			fmt.Fprintf(w, "Unknown(%d)", b.nodeType)
		} else {
			fmt.Fprintf(w, "Unsupported Node Type %d", b.nodeType)
		}
	}

	if dt == DisplayDepthDot {
		fmt.Fprint(w, "\" ]")
	}
	return nil
}
