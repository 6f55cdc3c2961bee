package ext2

import "github.com/omarchehab98/ext2tools/ext2err"

// RemovePath unlinks the file or symlink at absPath. The target must exist
// and must not be a directory -- this engine has no recursive directory
// removal.
func RemovePath(img *Image, absPath string) ext2err.Error {
	_, targetIdx, rerr := Resolve(img, absPath)
	if rerr != nil {
		return rerr
	}
	if target := img.Inode(targetIdx); target.IsDir() {
		return ext2err.ErrIsADirectory.WithMessage(absPath)
	}

	parentIdx, name, rerr := ResolveParent(img, absPath)
	if rerr != nil {
		return rerr
	}

	_, err := Remove(img, parentIdx, name)
	return err
}
