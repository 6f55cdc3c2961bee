package ext2

import (
	"fmt"
	"io"
)

// Dump prints a human-readable diagnostic of img: superblock and group
// descriptor summary, every allocated inode with its type/size/links/block
// list and (for symlinks) its target, and every directory's raw entries. It
// performs no repair and mutates nothing.
//
// stream is a random-access view of the same bytes img wraps (imageio's
// Session.Stream(), ordinarily); symlink targets are read through it rather
// than through img's structured accessors, since a target is arbitrary text
// sitting at a raw byte offset, not a typed on-disk record.
func Dump(img *Image, stream io.ReadSeeker, w io.Writer) {
	sb := img.Superblock()
	gd := img.GroupDesc()

	fmt.Fprintf(w, "Inodes: %d\n", sb.InodesCount)
	fmt.Fprintf(w, "Blocks: %d\n", sb.BlocksCount)
	fmt.Fprintf(w, "Block group:\n")
	fmt.Fprintf(w, "    block bitmap: %d\n", gd.BlockBitmap)
	fmt.Fprintf(w, "    inode bitmap: %d\n", gd.InodeBitmap)
	fmt.Fprintf(w, "    inode table: %d\n", gd.InodeTable)
	fmt.Fprintf(w, "    free blocks: %d\n", gd.FreeBlocksCount)
	fmt.Fprintf(w, "    free inodes: %d\n", gd.FreeInodesCount)
	fmt.Fprintf(w, "    used dirs: %d\n", gd.UsedDirsCount)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Inodes:")
	forEachAllocatedInode(img, func(idx InodeIndex) {
		inode := img.Inode(idx)
		fmt.Fprintf(w, "[%d] type: %c size: %d links: %d blocks: %d\n",
			idx.Number(), fileModeChar(inode), inode.Size, inode.LinksCount, inode.Blocks)
		fmt.Fprintf(w, "[%d] blocks: ", idx.Number())
		_ = WalkBlocks(img, inode, func(b BlockNo) error {
			fmt.Fprintf(w, "%d ", b)
			return nil
		})
		fmt.Fprintln(w)
		if inode.IsSymlink() {
			target, err := readSymlinkTarget(stream, inode)
			if err == nil {
				fmt.Fprintf(w, "[%d] target: %s\n", idx.Number(), target)
			}
		}
	})
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Directory blocks:")
	forEachAllocatedInode(img, func(idx InodeIndex) {
		inode := img.Inode(idx)
		if !inode.IsDir() {
			return
		}
		for _, b := range directBlocksOf(inode) {
			fmt.Fprintf(w, "   dir block %d (inode %d)\n", b, idx.Number())
			raw := img.Block(b)
			iterateDirBlock(raw, func(_ int, e DirEntry) bool {
				fmt.Fprintf(w, "inode: %d rec_len: %d name_len: %d type: %c name: %s\n",
					e.Inode, e.RecLen, e.NameLen, fileTypeChar(e.FileType), e.Name)
				return true
			})
		}
	})
}

// forEachAllocatedInode calls visit once for every inode index currently
// marked allocated in the inode bitmap, skipping reserved indices -- the
// same reservation list the allocator itself respects, plus the root,
// which is never reserved because it's always allocated.
func forEachAllocatedInode(img *Image, visit func(InodeIndex)) {
	sb := img.Superblock()
	bitmap := img.InodeBitmap()
	for i := 0; i < int(sb.InodesCount); i++ {
		if reservedInodeIndices[i] {
			continue
		}
		if IsSet(bitmap, i) {
			visit(InodeIndex(i))
		}
	}
}

func fileModeChar(inode RawInode) byte {
	switch {
	case inode.IsRegular():
		return 'f'
	case inode.IsDir():
		return 'd'
	case inode.IsSymlink():
		return 'l'
	default:
		return 'u'
	}
}

// readSymlinkTarget reads a symlink inode's content -- the literal target
// path WriteContent laid out across its data blocks -- directly off stream
// at the inode's first data block's byte offset, rather than through
// img.Block(). Symlink targets never span more than one block in practice
// (WriteContent's direct slots alone cover 12 KiB), so only i_block[0] is
// consulted.
func readSymlinkTarget(stream io.ReadSeeker, inode RawInode) (string, error) {
	if inode.IBlock[0] == 0 {
		return "", io.EOF
	}

	offset := int64(inode.IBlock[0]) * BlockSize
	if _, err := stream.Seek(offset, io.SeekStart); err != nil {
		return "", err
	}

	n := int(inode.Size)
	if n > BlockSize {
		n = BlockSize
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func fileTypeChar(fileType uint8) byte {
	switch fileType {
	case FileTypeRegular:
		return 'f'
	case FileTypeDir:
		return 'd'
	case FileTypeSymlink:
		return 'l'
	default:
		return 'u'
	}
}
