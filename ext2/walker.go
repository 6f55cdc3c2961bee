package ext2

import "encoding/binary"

// decodeBlockPointers interprets a raw 1024-byte block as an array of 256
// little-endian 32-bit block pointers (an indirect block).
func decodeBlockPointers(raw []byte) []uint32 {
	ptrs := make([]uint32, PointersPerIndirectBlock)
	for i := range ptrs {
		ptrs[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}
	return ptrs
}

// encodeBlockPointers writes ptrs into a freshly allocated raw indirect
// block.
func encodeBlockPointers(ptrs []uint32) []byte {
	raw := make([]byte, BlockSize)
	for i, p := range ptrs {
		binary.LittleEndian.PutUint32(raw[i*4:i*4+4], p)
	}
	return raw
}

var errStopWalk = errStop{}

type errStop struct{}

func (errStop) Error() string { return "ext2: internal walk short-circuit" }

// WalkBlocks visits every block reachable from inode's direct, single-,
// double-, and triple-indirect pointers, in order, invoking visit once per
// block -- data blocks and the indirect pointer blocks themselves alike,
// since both occupy a slot in the block bitmap. If visit returns a non-nil
// error the walk stops immediately and that error is returned.
//
// Sparse files aren't supported: the walk treats the first absent (zero)
// pointer in a run of sibling pointers as end-of-list for that run. A hole
// inside a nested indirect block only ends traversal of that block; it does
// not prevent visiting the next top-level category (single/double/triple
// indirect), mirroring the callback walker this is grounded on.
func WalkBlocks(img *Image, inode RawInode, visit func(BlockNo) error) error {
	categories := [][]uint32{
		inode.IBlock[0:NumDirectBlocks],
		inode.IBlock[IndIndex : IndIndex+1],
		inode.IBlock[DIndIndex : DIndIndex+1],
		inode.IBlock[TIndIndex : TIndIndex+1],
	}

	for level, ptrs := range categories {
		cont, err := walkPointerRun(img, ptrs, level, visit)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// walkPointerRun walks one run of on-disk pointers at the given indirection
// level (0 = these are data blocks themselves; 1/2/3 = these point at
// indirect/double-indirect/triple-indirect blocks). It returns false as soon
// as it finds an absent pointer in *this* run; a nested run's own early
// termination is deliberately not propagated to the caller.
func walkPointerRun(img *Image, ptrs []uint32, level int, visit func(BlockNo) error) (bool, error) {
	for _, raw := range ptrs {
		if raw == 0 {
			return false, nil
		}
		block := BlockNo(raw)

		// An indirect/double/triple-indirect pointer block is itself a block
		// this inode owns -- it needs a bitmap bit and needs freeing on
		// remove just like a data block does -- so visit is called for it
		// before descending into what it points to.
		if err := visit(block); err != nil {
			return false, err
		}
		if level == 0 {
			continue
		}

		childPtrs := decodeBlockPointers(img.Block(block))
		if _, err := walkPointerRun(img, childPtrs, level-1, visit); err != nil {
			return false, err
		}
	}
	return true, nil
}

// FindBlock walks inode's blocks in WalkBlocks order (indirect pointer
// blocks included) and returns the first one for which match returns true,
// short-circuiting the remainder of the walk.
func FindBlock(img *Image, inode RawInode, match func(BlockNo) bool) (BlockNo, bool) {
	var found BlockNo
	err := WalkBlocks(img, inode, func(b BlockNo) error {
		if match(b) {
			found = b
			return errStopWalk
		}
		return nil
	})
	if err == errStopWalk {
		return found, true
	}
	return 0, false
}

// CountBlocks returns the number of blocks reachable from inode, counting
// indirect pointer blocks as well as data blocks.
func CountBlocks(img *Image, inode RawInode) int {
	count := 0
	_ = WalkBlocks(img, inode, func(BlockNo) error {
		count++
		return nil
	})
	return count
}
