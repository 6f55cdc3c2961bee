package ext2

import "github.com/omarchehab98/ext2tools/ext2err"

// MaxFileSize is the largest content length WriteContent can lay out: 12
// direct blocks plus 256 blocks reachable through one single-indirect
// block. Double and triple indirection are never written -- the image is
// far smaller than that would require anyway.
const MaxFileSize = (NumDirectBlocks + PointersPerIndirectBlock) * BlockSize

// WriteContent lays content out across inodeIdx's direct and (if needed)
// single-indirect blocks, filling direct slots first. It sets the inode's
// size to len(content) and accumulates blocks (512-byte units) for every
// data block and indirect block it allocates, including the indirect
// pointer block itself.
func WriteContent(img *Image, inodeIdx InodeIndex, content []byte) ext2err.Error {
	if len(content) > MaxFileSize {
		return ext2err.ErrNoSpace.WithMessage("content exceeds maximum representable file size")
	}

	inode := img.Inode(inodeIdx)
	inode.Size = uint32(len(content))

	written := 0

	for i := 0; i < NumDirectBlocks && written < len(content); i++ {
		block, err := img.AllocateBlock()
		if err != nil {
			img.PutInode(inodeIdx, inode)
			return err
		}
		inode.IBlock[i] = uint32(block)
		inode.Blocks += BlockSize / 512
		written += copyChunk(img.Block(block), content[written:])
	}

	if written < len(content) {
		indirectBlock, err := img.AllocateBlock()
		if err != nil {
			img.PutInode(inodeIdx, inode)
			return err
		}
		inode.IBlock[IndIndex] = uint32(indirectBlock)
		inode.Blocks += BlockSize / 512

		ptrs := make([]uint32, PointersPerIndirectBlock)
		for i := 0; i < PointersPerIndirectBlock && written < len(content); i++ {
			block, err := img.AllocateBlock()
			if err != nil {
				copy(img.Block(indirectBlock), encodeBlockPointers(ptrs))
				img.PutInode(inodeIdx, inode)
				return err
			}
			ptrs[i] = uint32(block)
			inode.Blocks += BlockSize / 512
			written += copyChunk(img.Block(block), content[written:])
		}
		copy(img.Block(indirectBlock), encodeBlockPointers(ptrs))
	}

	img.PutInode(inodeIdx, inode)
	return nil
}

// copyChunk copies up to BlockSize bytes of src into dest (which is exactly
// one data block) and returns how many bytes were copied.
func copyChunk(dest []byte, src []byte) int {
	n := len(src)
	if n > BlockSize {
		n = BlockSize
	}
	copy(dest, src[:n])
	return n
}
