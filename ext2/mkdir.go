package ext2

import (
	"time"

	"github.com/omarchehab98/ext2tools/ext2err"
)

// DefaultDirMode is the mode this engine stamps on every directory it
// creates: directory type bits plus owner/group/other read+execute and
// owner write, matching the permission bits the reference tool uses.
const DefaultDirMode = ModeDir | 0755

// MakeDirectory creates a new, empty directory at absPath. The parent must
// already exist and be a directory; absPath's final component must not
// already exist in it.
//
// The three directory-entry installs this performs (the name entry in the
// parent, "." in the new directory, and ".." in the new directory) all go
// through the same Append, which always bumps the *target* inode's
// links_count. That single rule is what produces the expected final
// counts without any special-casing: the new directory ends at 2 (bumped
// once for the parent's entry pointing at it, once for its own "."), and
// the parent ends up bumped by 1 (from the new directory's ".." pointing
// back at it).
func MakeDirectory(img *Image, absPath string) ext2err.Error {
	parentIdx, name, rerr := ResolveParent(img, absPath)
	if rerr != nil {
		return rerr
	}

	parent := img.Inode(parentIdx)
	if _, _, _, found := SearchDir(img, parent, name); found {
		return ext2err.ErrAlreadyExists.WithMessage(absPath)
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
	img.InitializeInode(newIdx, DefaultDirMode, now)
	newDirNo := newIdx.Number()

	if rerr = Append(img, parentIdx, newDirNo, name, FileTypeDir); rerr != nil {
		return rerr
	}
	undo.push(func() { _, _, _, _ = unlinkEntry(img, parentIdx, name) })

	gd := img.GroupDesc()
	gd.UsedDirsCount++
	img.PutGroupDesc(gd)
	undo.push(func() {
		gd := img.GroupDesc()
		gd.UsedDirsCount--
		img.PutGroupDesc(gd)
	})

	if rerr = Append(img, newIdx, newDirNo, ".", FileTypeDir); rerr != nil {
		return rerr
	}
	undo.push(func() { _, _, _, _ = unlinkEntry(img, newIdx, ".") })

	if rerr = Append(img, newIdx, parentIdx.Number(), "..", FileTypeDir); rerr != nil {
		return rerr
	}

	return nil
}
