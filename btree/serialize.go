package btree

import (
	"encoding/binary"
	"fmt"
)

// Header layout. Every field is written at a fixed offset in little-endian
// form so that Serialize followed by Unserialize round-trips exactly.
const (
	hdrOffNodeType  = 0  // uint8
	hdrOffKeySize   = 1  // uint32
	hdrOffValueSize = 5  // uint32
	hdrOffBlockSize = 9  // uint32
	hdrOffRootNode  = 13 // uint64 (BlockPtr)
	hdrOffFreeList  = 21 // uint64 (BlockPtr)
	hdrOffNumKeys   = 29 // uint32

	headerSize = 33
)

func decodePtr(b []byte) BlockPtr {
	return BlockPtr(binary.LittleEndian.Uint64(b))
}

func encodePtr(b []byte, p BlockPtr) {
	binary.LittleEndian.PutUint64(b, uint64(p))
}

// Unserialize populates n from block n's image in the cache.
func (n *node) Unserialize(cache BlockCache, block BlockPtr) error {
	blockSize := cache.GetBlockSize()
	buf, err := cache.ReadBlock(block)
	if err != nil {
		return err
	}
	if len(buf) != blockSize {
		return fmt.Errorf("btree: short block read at %d: got %d bytes, want %d", block, len(buf), blockSize)
	}

	n.nodeType = nodeType(buf[hdrOffNodeType])
	n.keySize = int(binary.LittleEndian.Uint32(buf[hdrOffKeySize:]))
	n.valueSize = int(binary.LittleEndian.Uint32(buf[hdrOffValueSize:]))
	n.blockSize = int(binary.LittleEndian.Uint32(buf[hdrOffBlockSize:]))
	n.rootNode = decodePtr(buf[hdrOffRootNode:])
	n.freeList = decodePtr(buf[hdrOffFreeList:])
	n.numKeys = int(binary.LittleEndian.Uint32(buf[hdrOffNumKeys:]))

	n.slots = make([]byte, blockSize-headerSize)
	copy(n.slots, buf[headerSize:])
	return nil
}

// Serialize writes n's header and occupied slot bytes back to block n in
// the cache. Unused slot bytes are written as-is; they hold arbitrary
// content since nothing past numKeys is ever read.
func (n *node) Serialize(cache BlockCache, block BlockPtr) error {
	blockSize := cache.GetBlockSize()
	buf := make([]byte, blockSize)

	buf[hdrOffNodeType] = uint8(n.nodeType)
	binary.LittleEndian.PutUint32(buf[hdrOffKeySize:], uint32(n.keySize))
	binary.LittleEndian.PutUint32(buf[hdrOffValueSize:], uint32(n.valueSize))
	binary.LittleEndian.PutUint32(buf[hdrOffBlockSize:], uint32(n.blockSize))
	encodePtr(buf[hdrOffRootNode:], n.rootNode)
	encodePtr(buf[hdrOffFreeList:], n.freeList)
	binary.LittleEndian.PutUint32(buf[hdrOffNumKeys:], uint32(n.numKeys))

	copy(buf[headerSize:], n.slots)

	return cache.WriteBlock(block, buf)
}
