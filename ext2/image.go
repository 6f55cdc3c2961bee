package ext2

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Image is a borrowed handle to the 128 KiB mutable byte buffer that backs
// one ext2 session. It owns no resources of its own -- imageio is
// responsible for acquiring the buffer from the host file and persisting it
// back; Image only knows how to interpret and mutate the bytes it's given.
//
// Every accessor below (Superblock, GroupDesc, Inode, Block, ...) decodes a
// fresh value (or returns a fresh slice) from the underlying buffer rather
// than caching anything, so there is no stale view to invalidate across an
// allocator call: callers should treat every returned view as a short-lived
// borrow and re-fetch it after any call that might have reallocated blocks.
type Image struct {
	buf []byte
}

// NewImage wraps buf as an ext2 image. buf must be exactly ImageSize bytes;
// NewImage does not copy it, so mutations made through the returned *Image
// are visible to the caller's own buf.
func NewImage(buf []byte) (*Image, error) {
	if len(buf) != ImageSize {
		return nil, fmt.Errorf(
			"ext2: image must be exactly %d bytes, got %d", ImageSize, len(buf),
		)
	}
	return &Image{buf: buf}, nil
}

// Bytes returns the raw underlying buffer. Callers must not retain slices of
// it across calls that reallocate blocks or inodes.
func (img *Image) Bytes() []byte {
	return img.buf
}

// block returns the raw byte slice for 1-based block number n. It panics if
// n is zero or out of range: every caller is expected to have already
// checked BlockNo.IsZero() where absence is meaningful.
func (img *Image) block(n BlockNo) []byte {
	if n == 0 || uint32(n) >= TotalBlocks {
		panic(fmt.Sprintf("ext2: block number %d out of range [1, %d)", n, TotalBlocks))
	}
	start := uint32(n) * BlockSize
	return img.buf[start : start+BlockSize]
}

// Block returns the 1024-byte view of the given 1-based block number. It is
// the exported form of block() for components (directory codec, file
// writer, indirect-block walker) that need raw block access.
func (img *Image) Block(n BlockNo) []byte {
	return img.block(n)
}

// Superblock decodes and returns the current superblock (block 1).
func (img *Image) Superblock() RawSuperblock {
	var sb RawSuperblock
	reader := bytes.NewReader(img.block(SuperblockBlockNo))
	if err := binary.Read(reader, binary.LittleEndian, &sb); err != nil {
		panic(fmt.Sprintf("ext2: corrupt superblock region: %s", err.Error()))
	}
	return sb
}

// PutSuperblock re-encodes sb into block 1.
func (img *Image) PutSuperblock(sb RawSuperblock) {
	buf := new(bytes.Buffer)
	buf.Grow(BlockSize)
	if err := binary.Write(buf, binary.LittleEndian, &sb); err != nil {
		panic(fmt.Sprintf("ext2: failed to encode superblock: %s", err.Error()))
	}
	copy(img.block(SuperblockBlockNo), buf.Bytes())
}

// GroupDesc decodes and returns the (single) block group descriptor.
func (img *Image) GroupDesc() RawGroupDesc {
	var gd RawGroupDesc
	reader := bytes.NewReader(img.block(GroupDescBlockNo))
	if err := binary.Read(reader, binary.LittleEndian, &gd); err != nil {
		panic(fmt.Sprintf("ext2: corrupt group descriptor region: %s", err.Error()))
	}
	return gd
}

// PutGroupDesc re-encodes gd into block 2.
func (img *Image) PutGroupDesc(gd RawGroupDesc) {
	buf := new(bytes.Buffer)
	buf.Grow(BlockSize)
	if err := binary.Write(buf, binary.LittleEndian, &gd); err != nil {
		panic(fmt.Sprintf("ext2: failed to encode group descriptor: %s", err.Error()))
	}
	copy(img.block(GroupDescBlockNo), buf.Bytes())
}

// BlockBitmap returns the raw 1024-byte block-allocation bitmap, as a direct
// (non-copying) view into the image buffer. Writes through this slice (via
// the bitmap helpers in bitmap.go) land directly in the mapped region.
func (img *Image) BlockBitmap() []byte {
	gd := img.GroupDesc()
	return img.block(BlockNo(gd.BlockBitmap))
}

// InodeBitmap returns the raw 1024-byte inode-allocation bitmap, as a direct
// view into the image buffer.
func (img *Image) InodeBitmap() []byte {
	gd := img.GroupDesc()
	return img.block(BlockNo(gd.InodeBitmap))
}

// inodeTableBase returns the first block of the inode table.
func (img *Image) inodeTableBase() BlockNo {
	gd := img.GroupDesc()
	return BlockNo(gd.InodeTable)
}

// Inode decodes and returns the inode at the given 0-based table index.
func (img *Image) Inode(idx InodeIndex) RawInode {
	base := img.inodeTableBase()
	byteOffset := uint32(idx) * InodeSize
	tableStart := uint32(base) * BlockSize
	raw := img.buf[tableStart+byteOffset : tableStart+byteOffset+InodeSize]

	var inode RawInode
	reader := bytes.NewReader(raw)
	if err := binary.Read(reader, binary.LittleEndian, &inode); err != nil {
		panic(fmt.Sprintf("ext2: corrupt inode table entry %d: %s", idx, err.Error()))
	}
	return inode
}

// PutInode re-encodes inode into the table slot at the given 0-based index.
func (img *Image) PutInode(idx InodeIndex, inode RawInode) {
	base := img.inodeTableBase()
	byteOffset := uint32(idx) * InodeSize
	tableStart := uint32(base) * BlockSize
	dest := img.buf[tableStart+byteOffset : tableStart+byteOffset+InodeSize]

	buf := new(bytes.Buffer)
	buf.Grow(InodeSize)
	if err := binary.Write(buf, binary.LittleEndian, &inode); err != nil {
		panic(fmt.Sprintf("ext2: failed to encode inode %d: %s", idx, err.Error()))
	}
	copy(dest, buf.Bytes())
}
