package ext2

import (
	"encoding/binary"

	"github.com/omarchehab98/ext2tools/ext2err"
)

// DirEntry is the decoded form of one on-disk directory entry.
type DirEntry struct {
	Inode    InodeNo
	RecLen   uint16
	NameLen  uint8
	FileType uint8
	Name     string
}

// entryTrueSize is the minimum number of bytes an entry with the given name
// length occupies: the 8-byte header rounded up to the next multiple of 4.
func entryTrueSize(nameLen int) uint16 {
	return uint16(((dirEntryHeaderSize + nameLen + 3) / 4) * 4)
}

// decodeDirEntry reads one entry starting at raw[0]. raw must extend at
// least dirEntryHeaderSize+NameLen bytes past the start.
func decodeDirEntry(raw []byte) DirEntry {
	nameLen := raw[6]
	return DirEntry{
		Inode:    InodeNo(binary.LittleEndian.Uint32(raw[0:4])),
		RecLen:   binary.LittleEndian.Uint16(raw[4:6]),
		NameLen:  nameLen,
		FileType: raw[7],
		Name:     string(raw[8 : 8+uint16(nameLen)]),
	}
}

// encodeDirEntry writes e's header and name into raw[0:8+len(e.Name)]. It
// does not touch any bytes beyond that -- callers own the rest of e.RecLen
// (trailing slack from a previous, larger entry).
func encodeDirEntry(e DirEntry, raw []byte) {
	binary.LittleEndian.PutUint32(raw[0:4], uint32(e.Inode))
	binary.LittleEndian.PutUint16(raw[4:6], e.RecLen)
	raw[6] = e.NameLen
	raw[7] = e.FileType
	copy(raw[8:8+int(e.NameLen)], e.Name)
}

// iterateDirBlock calls visit once per entry packed into a 1024-byte
// directory block, in order, passing each entry's byte offset within the
// block. It stops when visit returns false or the block is exhausted.
// Entries with Inode==0 (logically deleted) are still visited: callers that
// only want live entries must check Inode themselves.
func iterateDirBlock(raw []byte, visit func(offset int, e DirEntry) bool) {
	offset := 0
	for offset < BlockSize {
		e := decodeDirEntry(raw[offset:])
		if e.RecLen == 0 {
			return
		}
		if !visit(offset, e) {
			return
		}
		offset += int(e.RecLen)
	}
}

// directBlocksOf returns the parent's populated direct block numbers, in
// order, stopping at the first absent (zero) slot. Directories in this
// engine never grow past the 12 direct slots -- Append always attaches new
// directory blocks at the next free direct slot and never touches the
// indirect pointers -- so every directory-entry operation (Search, Append,
// Remove, restore, and the checker's directory walk) only ever needs to
// look at direct blocks.
func directBlocksOf(inode RawInode) []BlockNo {
	var blocks []BlockNo
	for i := 0; i < NumDirectBlocks; i++ {
		if inode.IBlock[i] == 0 {
			break
		}
		blocks = append(blocks, BlockNo(inode.IBlock[i]))
	}
	return blocks
}

// SearchDir looks for a live entry named name among dirInode's direct
// directory blocks. It returns the entry, the block it was found in, and
// its byte offset within that block.
func SearchDir(img *Image, dirInode RawInode, name string) (entry DirEntry, block BlockNo, offset int, found bool) {
	for _, b := range directBlocksOf(dirInode) {
		raw := img.Block(b)
		iterateDirBlock(raw, func(off int, e DirEntry) bool {
			if e.Inode != 0 && e.Name == name {
				entry, block, offset, found = e, b, off, true
				return false
			}
			return true
		})
		if found {
			return
		}
	}
	return DirEntry{}, 0, 0, false
}

// Append installs a new directory entry named name, pointing at childInode
// with the given file_type, into the directory tracked by parentIdx, and
// increments the child inode's links_count.
//
// It locates the parent's last direct directory block (allocating one if
// the parent has none), tries to split that block's final entry's slack to
// make room, and falls back to allocating a fresh block (attached at the
// next free direct slot) when the slack is insufficient. A newly allocated
// block always receives the new entry as its sole entry spanning the full
// block; this folds together the "initialize as one big entry" and
// "split its slack" steps into a single outcome rather than materializing
// a placeholder entry that would immediately be overwritten.
func Append(img *Image, parentIdx InodeIndex, childInode InodeNo, name string, fileType uint8) ext2err.Error {
	if len(name) > MaxNameLen {
		return ext2err.ErrNameTooLong.WithMessage(name)
	}

	parent := img.Inode(parentIdx)
	newSize := entryTrueSize(len(name))

	firstFree, lastUsed := -1, -1
	for i := 0; i < NumDirectBlocks; i++ {
		if parent.IBlock[i] == 0 {
			firstFree = i
			break
		}
		lastUsed = i
	}

	entry := DirEntry{Inode: childInode, NameLen: uint8(len(name)), FileType: fileType, Name: name}

	if lastUsed >= 0 {
		lastBlock := BlockNo(parent.IBlock[lastUsed])
		raw := img.Block(lastBlock)

		var finalOffset int
		var final DirEntry
		iterateDirBlock(raw, func(off int, e DirEntry) bool {
			finalOffset, final = off, e
			return true
		})

		t := entryTrueSize(int(final.NameLen))
		slack := final.RecLen - t
		if newSize <= slack {
			final.RecLen = t
			encodeDirEntry(final, raw[finalOffset:])

			entry.RecLen = slack
			encodeDirEntry(entry, raw[finalOffset+int(t):])
			return bumpLinksCount(img, childInode)
		}
	}

	if firstFree == -1 {
		return ext2err.ErrNoSpace.WithMessage("directory has no free direct block slot")
	}
	block, err := img.AllocateBlock()
	if err != nil {
		return err
	}
	parent.IBlock[firstFree] = uint32(block)
	parent.Blocks += BlockSize / 512
	parent.Size += BlockSize
	img.PutInode(parentIdx, parent)

	entry.RecLen = BlockSize
	encodeDirEntry(entry, img.Block(block))
	return bumpLinksCount(img, childInode)
}

func bumpLinksCount(img *Image, inodeNo InodeNo) ext2err.Error {
	idx := inodeNo.Index()
	inode := img.Inode(idx)
	inode.LinksCount++
	img.PutInode(idx, inode)
	return nil
}

// Remove deletes the entry named name from the directory tracked by
// parentIdx. If the target is the first entry in its block its inode
// number is zeroed in place, leaving its rec_len slack intact for restore
// to find later; otherwise the preceding entry's rec_len is extended to
// swallow it. The target inode's links_count is decremented and persisted;
// if it reaches zero, every data block reachable from the inode (direct and
// indirect) is freed and the inode itself is freed.
func Remove(img *Image, parentIdx InodeIndex, name string) (InodeNo, ext2err.Error) {
	targetInode, child, childIdx, rerr := unlinkEntry(img, parentIdx, name)
	if rerr != nil {
		return 0, rerr
	}

	if child.LinksCount == 0 {
		_ = WalkBlocks(img, child, func(b BlockNo) error {
			img.FreeBlock(b)
			return nil
		})
		img.FreeInode(childIdx)
	}

	return targetInode, nil
}

// unlinkEntry splices name out of parentIdx's directory (the same blank-in-
// place or swallow-into-predecessor logic Remove documents) and decrements
// and persists the target inode's links_count, but never frees its blocks
// or the inode itself -- even when the count reaches zero. Remove layers its
// own free-on-zero cascade on top of this; rollback paths that already free
// the inode (and any blocks it holds) as a single separate undo action call
// this directly instead, so the inode is never freed twice.
func unlinkEntry(img *Image, parentIdx InodeIndex, name string) (InodeNo, RawInode, InodeIndex, ext2err.Error) {
	parent := img.Inode(parentIdx)

	var targetInode InodeNo
	removed := false

	for _, b := range directBlocksOf(parent) {
		raw := img.Block(b)
		prevOffset := -1

		iterateDirBlock(raw, func(off int, e DirEntry) bool {
			if e.Inode == 0 || e.Name != name {
				prevOffset = off
				return true
			}

			targetInode = e.Inode
			if prevOffset == -1 {
				e.Inode = 0
				encodeDirEntry(e, raw[off:])
			} else {
				prev := decodeDirEntry(raw[prevOffset:])
				prev.RecLen += e.RecLen
				encodeDirEntry(prev, raw[prevOffset:])
			}
			removed = true
			return false
		})
		if removed {
			break
		}
	}

	if !removed {
		return 0, RawInode{}, 0, ext2err.ErrNotFound.WithMessage(name)
	}

	childIdx := targetInode.Index()
	child := img.Inode(childIdx)
	child.LinksCount--
	img.PutInode(childIdx, child)

	return targetInode, child, childIdx, nil
}
