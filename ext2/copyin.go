package ext2

import (
	"time"

	"github.com/omarchehab98/ext2tools/ext2err"
)

// DefaultFileMode is the mode stamped on every regular file this engine
// creates.
const DefaultFileMode = ModeReg | 0644

// CopyIn imports hostContent as a new regular file in the image. destAbsPath
// may name the file directly, or an existing directory -- in which case
// hostBaseName (the host file's own basename) is used as the new entry's
// name inside that directory.
func CopyIn(img *Image, hostContent []byte, hostBaseName string, destAbsPath string) ext2err.Error {
	parentIdx, name, rerr := resolveCopyDestination(img, hostBaseName, destAbsPath)
	if rerr != nil {
		return rerr
	}

	parent := img.Inode(parentIdx)
	if _, _, _, found := SearchDir(img, parent, name); found {
		return ext2err.ErrAlreadyExists.WithMessage(destAbsPath)
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
	img.InitializeInode(newIdx, DefaultFileMode, now)
	childNo := newIdx.Number()

	if rerr = Append(img, parentIdx, childNo, name, FileTypeRegular); rerr != nil {
		return rerr
	}
	undo.push(func() { _, _, _, _ = unlinkEntry(img, parentIdx, name) })

	if rerr = WriteContent(img, newIdx, hostContent); rerr != nil {
		return rerr
	}

	return nil
}

// resolveCopyDestination decides which directory the new entry lands in and
// what it will be named: destAbsPath itself, if it resolves to an existing
// directory (named hostBaseName within it), or destAbsPath's own parent and
// final component otherwise.
func resolveCopyDestination(img *Image, hostBaseName, destAbsPath string) (InodeIndex, string, ext2err.Error) {
	if _, idx, err := Resolve(img, destAbsPath); err == nil {
		if inode := img.Inode(idx); inode.IsDir() {
			return idx, hostBaseName, nil
		}
	}
	return ResolveParent(img, destAbsPath)
}
