package ext2

import (
	"strings"

	"github.com/omarchehab98/ext2tools/ext2err"
)

// Resolve walks an absolute path from the root inode, returning the inode
// number and index of the final component. Every non-final component must
// name a directory (a path through a non-directory is reported as not
// found); Resolve only ever searches direct directory blocks
// (directBlocksOf), so a path through a directory that somehow grew past 12
// data blocks would fail to resolve past that point -- this engine's own
// Append never produces such a directory, so the limitation never bites in
// practice.
func Resolve(img *Image, absPath string) (InodeNo, InodeIndex, ext2err.Error) {
	components := splitPath(absPath)

	inodeNo := RootInodeNo
	idx := inodeNo.Index()

	for i, name := range components {
		inode := img.Inode(idx)
		if !inode.IsDir() {
			return 0, 0, ext2err.ErrNotFound.WithMessage(absPath)
		}

		entry, _, _, found := SearchDir(img, inode, name)
		if !found {
			return 0, 0, ext2err.ErrNotFound.WithMessage(absPath)
		}
		if entry.Inode == 0 {
			return 0, 0, ext2err.ErrNotFound.WithMessage(absPath)
		}

		inodeNo = entry.Inode
		idx = inodeNo.Index()
		_ = i
	}

	return inodeNo, idx, nil
}

// ResolveParent splits absPath into its parent directory and final
// component name, resolving the parent. It's the shape every operation that
// installs or removes a directory entry needs: mkdir, copy_in, link, rm,
// and restore all start by resolving a destination's parent.
func ResolveParent(img *Image, absPath string) (parentIdx InodeIndex, name string, err ext2err.Error) {
	components := splitPath(absPath)
	if len(components) == 0 {
		return 0, "", ext2err.ErrInvalidArgument.WithMessage("path has no final component")
	}

	name = components[len(components)-1]
	parentPath := "/" + strings.Join(components[:len(components)-1], "/")

	_, parentIdx, rerr := Resolve(img, parentPath)
	if rerr != nil {
		return 0, "", rerr
	}

	parent := img.Inode(parentIdx)
	if !parent.IsDir() {
		return 0, "", ext2err.ErrNotADirectory.WithMessage(parentPath)
	}

	return parentIdx, name, nil
}

// splitPath splits an absolute path into its non-empty components, so
// "/a//b/" and "/a/b" both yield ["a", "b"]; "/" yields no components.
func splitPath(absPath string) []string {
	parts := strings.Split(absPath, "/")
	components := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			components = append(components, p)
		}
	}
	return components
}
