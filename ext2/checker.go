package ext2

import "fmt"

// Fix describes one repair the checker applied.
type Fix struct {
	Message string
}

// Check walks the full reachable directory tree from the root inode,
// repairing five classes of inconsistency as it goes, and returns one Fix
// per repair performed. A second call against the resulting image always
// returns no fixes.
//
// The five classes, applied in this order as each live entry is visited:
// entry file_type disagreeing with its inode's mode, an entry pointing at
// an inode not marked allocated in the inode bitmap, a live entry whose
// inode carries a non-zero dtime, and an inode whose data blocks aren't
// all marked allocated in the block bitmap. The fifth class -- superblock
// and group descriptor free counters disagreeing with what the bitmaps
// actually show -- is reconciled last, once the tree walk has finished
// flipping any bitmap bits the other four classes required, so it always
// reflects the final state rather than racing it.
func Check(img *Image) []Fix {
	var fixes []Fix
	visited := map[InodeIndex]bool{}

	var walk func(dirIdx InodeIndex)
	walk = func(dirIdx InodeIndex) {
		if visited[dirIdx] {
			return
		}
		visited[dirIdx] = true

		dir := img.Inode(dirIdx)
		for _, b := range directBlocksOf(dir) {
			raw := img.Block(b)
			offset := 0
			for offset < BlockSize {
				e := decodeDirEntry(raw[offset:])
				if e.RecLen == 0 {
					break
				}
				if e.Inode != 0 && e.Name != "." && e.Name != ".." {
					childIdx := e.Inode.Index()
					if !reservedInodeIndices[int(childIdx)] {
						fixes = append(fixes, checkEntry(img, raw, offset, e, childIdx)...)

						if child := img.Inode(childIdx); child.IsDir() {
							walk(childIdx)
						}
					}
				}
				offset += int(e.RecLen)
			}
		}
	}
	walk(RootInodeNo.Index())

	fixes = append(fixes, reconcileCounters(img)...)
	return fixes
}

// checkEntry applies the four entry-scoped inconsistency classes to one
// live directory entry and the inode it references.
func checkEntry(img *Image, raw []byte, offset int, e DirEntry, childIdx InodeIndex) []Fix {
	var fixes []Fix
	child := img.Inode(childIdx)

	if expected := ModeToFileType(child.Mode); expected != FileTypeUnknown && e.FileType != expected {
		e.FileType = expected
		encodeDirEntry(e, raw[offset:])
		fixes = append(fixes, Fix{fmt.Sprintf("corrected file_type for %q", e.Name)})
	}

	inodeBitmap := img.InodeBitmap()
	if !IsSet(inodeBitmap, int(childIdx)) {
		SetBit(inodeBitmap, int(childIdx))
		fixes = append(fixes, Fix{fmt.Sprintf("marked inode %d allocated", childIdx.Number())})
	}

	if child.Dtime != 0 {
		child.Dtime = 0
		img.PutInode(childIdx, child)
		fixes = append(fixes, Fix{fmt.Sprintf("cleared dtime on inode %d", childIdx.Number())})
	}

	blockBitmap := img.BlockBitmap()
	_ = WalkBlocks(img, child, func(b BlockNo) error {
		if !IsSet(blockBitmap, int(b)-1) {
			SetBit(blockBitmap, int(b)-1)
			fixes = append(fixes, Fix{fmt.Sprintf("marked block %d allocated", b)})
		}
		return nil
	})

	return fixes
}

// reconcileCounters recomputes the free-inode and free-block counts by
// scanning the bitmaps directly and overwrites the superblock and group
// descriptor if either disagrees.
func reconcileCounters(img *Image) []Fix {
	var fixes []Fix

	sb := img.Superblock()
	gd := img.GroupDesc()

	freeInodes := uint32(CountFree(img.InodeBitmap(), int(sb.InodesCount)))
	freeBlocks := uint32(CountFree(img.BlockBitmap(), int(sb.BlocksCount)-1))

	if sb.FreeInodesCount != freeInodes {
		sb.FreeInodesCount = freeInodes
		fixes = append(fixes, Fix{"corrected superblock free inode count"})
	}
	if sb.FreeBlocksCount != freeBlocks {
		sb.FreeBlocksCount = freeBlocks
		fixes = append(fixes, Fix{"corrected superblock free block count"})
	}
	img.PutSuperblock(sb)

	if gd.FreeInodesCount != uint16(freeInodes) {
		gd.FreeInodesCount = uint16(freeInodes)
		fixes = append(fixes, Fix{"corrected group descriptor free inode count"})
	}
	if gd.FreeBlocksCount != uint16(freeBlocks) {
		gd.FreeBlocksCount = uint16(freeBlocks)
		fixes = append(fixes, Fix{"corrected group descriptor free block count"})
	}
	img.PutGroupDesc(gd)

	return fixes
}
