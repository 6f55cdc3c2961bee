package ext2

import "github.com/omarchehab98/ext2tools/ext2err"

// reservedInodeIndices are inode-table indices the allocator must never hand
// out, corresponding to reserved inode numbers 1 and 3-10 (inode number 2,
// root, is index 1 and is always already allocated, so it's naturally
// skipped by the free-bit scan and isn't listed here).
var reservedInodeIndices = map[int]bool{
	0: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true,
}

// AllocateInode finds the first free, non-reserved inode, marks it allocated
// in the inode bitmap, and decrements both free-inode counters. It returns
// ext2err.ErrNoSpace if none are available.
func (img *Image) AllocateInode() (InodeIndex, ext2err.Error) {
	sb := img.Superblock()
	bitmap := img.InodeBitmap()

	for i := 0; i < int(sb.InodesCount); i++ {
		if reservedInodeIndices[i] {
			continue
		}
		if !IsSet(bitmap, i) {
			SetBit(bitmap, i)

			sb.FreeInodesCount--
			img.PutSuperblock(sb)

			gd := img.GroupDesc()
			gd.FreeInodesCount--
			img.PutGroupDesc(gd)

			return InodeIndex(i), nil
		}
	}
	return 0, ext2err.ErrNoSpace.WithMessage("no free inodes")
}

// FreeInode clears idx's bit in the inode bitmap and increments both
// free-inode counters. It does not touch the inode's own fields (callers
// that are freeing a live inode are responsible for releasing its data
// blocks first, via the block-pointer walker).
func (img *Image) FreeInode(idx InodeIndex) {
	bitmap := img.InodeBitmap()
	ClearBit(bitmap, int(idx))

	sb := img.Superblock()
	sb.FreeInodesCount++
	img.PutSuperblock(sb)

	gd := img.GroupDesc()
	gd.FreeInodesCount++
	img.PutGroupDesc(gd)
}

// AllocateBlock finds the first free data block, marks it allocated in the
// block bitmap, and decrements both free-block counters. It returns
// ext2err.ErrNoSpace if none are available.
func (img *Image) AllocateBlock() (BlockNo, ext2err.Error) {
	sb := img.Superblock()
	bitmap := img.BlockBitmap()

	// Block 0 (the boot block) is never bitmap-tracked or allocatable, so
	// the bitmap only covers BlocksCount-1 items: bit i stands for block
	// i+1, up to the last valid block number BlocksCount-1.
	idx := ScanFree(bitmap, int(sb.BlocksCount)-1)
	if idx == NotFound {
		return 0, ext2err.ErrNoSpace.WithMessage("no free blocks")
	}

	SetBit(bitmap, idx)

	sb.FreeBlocksCount--
	img.PutSuperblock(sb)

	gd := img.GroupDesc()
	gd.FreeBlocksCount--
	img.PutGroupDesc(gd)

	// Block indices are 0-based in the bitmap but 1-based in i_block[] and
	// everywhere else in this engine.
	return BlockNo(idx + 1), nil
}

// FreeBlock clears block n's bit in the block bitmap and increments both
// free-block counters.
func (img *Image) FreeBlock(n BlockNo) {
	bitmap := img.BlockBitmap()
	ClearBit(bitmap, int(n)-1)

	sb := img.Superblock()
	sb.FreeBlocksCount++
	img.PutSuperblock(sb)

	gd := img.GroupDesc()
	gd.FreeBlocksCount++
	img.PutGroupDesc(gd)
}

// InitializeInode resets newly-allocated inode idx to the blank state the
// design requires before a caller installs mode-specific fields: mode is
// set, size/blocks/dtime are zeroed, ctime is set to now, links_count is
// zeroed (the caller bumps it when it installs the first directory entry
// pointing at this inode), and every i_block[] slot is cleared.
func (img *Image) InitializeInode(idx InodeIndex, mode uint16, ctime uint32) {
	inode := RawInode{
		Mode:  mode,
		Ctime: ctime,
		Mtime: ctime,
		Atime: ctime,
	}
	img.PutInode(idx, inode)
}
