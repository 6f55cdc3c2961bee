package ext2

import (
	"time"

	"github.com/omarchehab98/ext2tools/ext2err"
)

// DefaultSymlinkMode is the mode stamped on every symbolic link this engine
// creates.
const DefaultSymlinkMode = ModeSymlink | 0777

// LinkHard makes destAbs a new name for the regular file at sourceAbs,
// incrementing its links_count. The new entry's file_type is always
// stamped regular, independent of the source inode's actual mode: this
// engine never inspects the source's type before linking it, so a hard
// link to a symlink still reads back as file_type=regular in the
// directory entry even though the inode itself is unchanged.
func LinkHard(img *Image, sourceAbs, destAbs string) ext2err.Error {
	sourceNo, sourceIdx, rerr := Resolve(img, sourceAbs)
	if rerr != nil {
		return rerr
	}
	if source := img.Inode(sourceIdx); source.IsDir() {
		return ext2err.ErrIsADirectory.WithMessage(sourceAbs)
	}

	parentIdx, name, rerr := ResolveParent(img, destAbs)
	if rerr != nil {
		return rerr
	}
	parent := img.Inode(parentIdx)
	if _, _, _, found := SearchDir(img, parent, name); found {
		return ext2err.ErrAlreadyExists.WithMessage(destAbs)
	}

	return Append(img, parentIdx, sourceNo, name, FileTypeRegular)
}

// LinkSymbolic creates a new symlink inode at destAbs whose content is the
// literal text sourceAbs.
func LinkSymbolic(img *Image, sourceAbs, destAbs string) ext2err.Error {
	parentIdx, name, rerr := ResolveParent(img, destAbs)
	if rerr != nil {
		return rerr
	}
	parent := img.Inode(parentIdx)
	if _, _, _, found := SearchDir(img, parent, name); found {
		return ext2err.ErrAlreadyExists.WithMessage(destAbs)
	}

	undo := &undoStack{}
	defer func() {
		if rerr != nil {
			undo.rollback()
		}
	}()

	newIdx, aerr := img.AllocateInode()
	if aerr != nil {
		rerr = aerr
		return rerr
	}
	undo.push(func() { freeInodeAndBlocks(img, newIdx) })

	now := uint32(time.Now().Unix())
	img.InitializeInode(newIdx, DefaultSymlinkMode, now)
	newNo := newIdx.Number()

	if rerr = Append(img, parentIdx, newNo, name, FileTypeSymlink); rerr != nil {
		return rerr
	}
	undo.push(func() { _, _, _, _ = unlinkEntry(img, parentIdx, name) })

	if rerr = WriteContent(img, newIdx, []byte(sourceAbs)); rerr != nil {
		return rerr
	}

	return nil
}
