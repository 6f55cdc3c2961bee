package ext2

import "github.com/omarchehab98/ext2tools/ext2err"

// Restore undoes a prior Remove of name within absPath's parent directory,
// provided nothing has reallocated the inode or any of its data blocks
// since. absPath must not currently resolve to anything.
//
// Only entries removed by the "swallow into the preceding entry" path
// (Remove's non-first-in-block case) are recoverable: that merge only
// grows the preceding entry's rec_len, leaving the removed entry's own
// bytes -- inode number included -- physically intact in the block's
// slack. An entry removed because it was first in its block has its inode
// field zeroed in place, destroying the one piece of information restore
// needs; this is an intentional asymmetry of the design, not an
// oversight.
func Restore(img *Image, absPath string) ext2err.Error {
	if _, _, err := Resolve(img, absPath); err == nil {
		return ext2err.ErrAlreadyExists.WithMessage(absPath)
	}

	parentIdx, name, rerr := ResolveParent(img, absPath)
	if rerr != nil {
		return rerr
	}
	parent := img.Inode(parentIdx)

	for _, b := range directBlocksOf(parent) {
		raw := img.Block(b)
		offset := 0

		for offset < BlockSize {
			live := decodeDirEntry(raw[offset:])
			if live.RecLen == 0 {
				break
			}

			trueSize := entryTrueSize(int(live.NameLen))
			if trueSize < live.RecLen {
				candOffset := offset + int(trueSize)
				if candOffset+dirEntryHeaderSize <= offset+int(live.RecLen) {
					cand := decodeDirEntry(raw[candOffset:])
					if candidateRestorable(img, cand, name) {
						if inode := img.Inode(cand.Inode.Index()); inode.IsDir() {
							return ext2err.ErrIsADirectory.WithMessage(absPath)
						}
						restoreCandidate(img, raw, offset, live, candOffset, cand)
						return nil
					}
				}
			}

			offset += int(live.RecLen)
		}
	}

	return ext2err.ErrNotFound.WithMessage(absPath)
}

// candidateRestorable checks the three conditions a slack-window candidate
// must satisfy: its name matches, its inode is still unallocated, and none
// of its data blocks have been reused since it was removed.
func candidateRestorable(img *Image, cand DirEntry, name string) bool {
	if cand.Inode == 0 || cand.Name != name {
		return false
	}

	idx := cand.Inode.Index()
	if IsSet(img.InodeBitmap(), int(idx)) {
		return false
	}

	childInode := img.Inode(idx)
	allFree := true
	_ = WalkBlocks(img, childInode, func(b BlockNo) error {
		if IsSet(img.BlockBitmap(), int(b)-1) {
			allFree = false
		}
		return nil
	})
	return allFree
}

// restoreCandidate re-marks cand's inode and data blocks allocated, clears
// its dtime, bumps its links_count, and re-splits live's inflated rec_len
// back into live (shrunk to its true size) followed by the revived entry
// (given the reclaimed slack).
func restoreCandidate(img *Image, raw []byte, liveOffset int, live DirEntry, candOffset int, cand DirEntry) {
	idx := cand.Inode.Index()

	inodeBitmap := img.InodeBitmap()
	SetBit(inodeBitmap, int(idx))
	sb := img.Superblock()
	sb.FreeInodesCount--
	img.PutSuperblock(sb)
	gd := img.GroupDesc()
	gd.FreeInodesCount--
	img.PutGroupDesc(gd)

	childInode := img.Inode(idx)
	_ = WalkBlocks(img, childInode, func(b BlockNo) error {
		SetBit(img.BlockBitmap(), int(b)-1)
		sb := img.Superblock()
		sb.FreeBlocksCount--
		img.PutSuperblock(sb)
		gd := img.GroupDesc()
		gd.FreeBlocksCount--
		img.PutGroupDesc(gd)
		return nil
	})

	childInode.Dtime = 0
	childInode.LinksCount++
	img.PutInode(idx, childInode)

	trueLiveSize := entryTrueSize(int(live.NameLen))
	reclaimed := live.RecLen - trueLiveSize

	live.RecLen = trueLiveSize
	encodeDirEntry(live, raw[liveOffset:])

	cand.RecLen = reclaimed
	encodeDirEntry(cand, raw[candOffset:])
}
