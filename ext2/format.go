package ext2

import "time"

// blockBitmapBlockNo, inodeBitmapBlockNo, and inodeTableBaseNo are this
// engine's fixed single-group layout: boot block, superblock, group
// descriptor, block bitmap, inode bitmap, then the inode table.
const (
	blockBitmapBlockNo BlockNo = 3
	inodeBitmapBlockNo BlockNo = 4
	inodeTableBaseNo   BlockNo = 5
)

// inodesPerBlock is how many 128-byte inodes fit in one 1024-byte block; the
// inode table is sized in whole blocks of them.
const inodesPerBlock = BlockSize / InodeSize

// Format returns a fresh, exactly ImageSize-byte image with a populated
// superblock, single group descriptor, block and inode bitmaps, and a root
// directory inode containing "." and ".." entries pointing at itself.
// totalInodes is rounded up to a whole number of inode-table blocks.
func Format(totalInodes uint32) []byte {
	buf := make([]byte, ImageSize)
	img, err := NewImage(buf)
	if err != nil {
		panic(err)
	}

	inodeTableBlocks := (totalInodes + inodesPerBlock - 1) / inodesPerBlock
	if inodeTableBlocks == 0 {
		inodeTableBlocks = 1
	}
	totalInodes = inodeTableBlocks * inodesPerBlock

	firstFreeBlock := uint32(inodeTableBaseNo) + inodeTableBlocks
	now := uint32(time.Now().Unix())

	// Inodes 1..10 (the reserved inodes plus the root) start out allocated.
	preallocatedInodes := uint32(FirstNonReservedInode) - 1
	if preallocatedInodes > totalInodes {
		preallocatedInodes = totalInodes
	}

	sb := RawSuperblock{
		InodesCount:     totalInodes,
		BlocksCount:     TotalBlocks,
		FreeBlocksCount: TotalBlocks - firstFreeBlock,
		FreeInodesCount: totalInodes - preallocatedInodes,
		FirstDataBlock:  1,
		LogBlockSize:    0, // 1024 << 0
		BlocksPerGroup:  TotalBlocks,
		FragsPerGroup:   TotalBlocks,
		InodesPerGroup:  totalInodes,
		Mtime:           now,
		Wtime:           now,
		Magic:           magicNumber,
		RevLevel:        0,
		InodeSize:       InodeSize,
		FirstIno:        uint32(FirstNonReservedInode),
	}
	img.PutSuperblock(sb)

	gd := RawGroupDesc{
		BlockBitmap:     uint32(blockBitmapBlockNo),
		InodeBitmap:     uint32(inodeBitmapBlockNo),
		InodeTable:      uint32(inodeTableBaseNo),
		FreeBlocksCount: uint16(sb.FreeBlocksCount),
		FreeInodesCount: uint16(sb.FreeInodesCount),
		UsedDirsCount:   1,
	}
	img.PutGroupDesc(gd)

	// Mark every block below firstFreeBlock allocated: superblock, group
	// descriptor, the two bitmap blocks, and the inode table. Block 0 (the
	// boot block) isn't bitmap-tracked at all, so bit i stands for block
	// i+1 -- marking bits [0, firstFreeBlock-1) covers blocks 1..firstFreeBlock-1.
	blockBitmap := img.BlockBitmap()
	for i := 0; i < int(firstFreeBlock)-1; i++ {
		SetBit(blockBitmap, i)
	}

	inodeBitmap := img.InodeBitmap()
	for i := 0; i < int(preallocatedInodes); i++ {
		SetBit(inodeBitmap, i)
	}

	rootIdx := RootInodeNo.Index()
	img.InitializeInode(rootIdx, DefaultDirMode, now)

	rootDataBlock, aerr := img.AllocateBlock()
	if aerr != nil {
		panic(aerr)
	}
	root := img.Inode(rootIdx)
	root.IBlock[0] = uint32(rootDataBlock)
	root.Blocks = BlockSize / 512
	root.Size = BlockSize
	root.LinksCount = 2 // "." and the root's own conventional self-reference
	img.PutInode(rootIdx, root)

	dot := DirEntry{Inode: RootInodeNo, NameLen: 1, FileType: FileTypeDir, Name: "."}
	dot.RecLen = entryTrueSize(len(dot.Name))
	encodeDirEntry(dot, img.Block(rootDataBlock))

	dotdot := DirEntry{Inode: RootInodeNo, NameLen: 2, FileType: FileTypeDir, Name: ".."}
	dotdot.RecLen = BlockSize - dot.RecLen
	encodeDirEntry(dotdot, img.Block(rootDataBlock)[dot.RecLen:])

	return buf
}
