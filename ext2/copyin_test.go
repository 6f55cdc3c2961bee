package ext2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyInDirectDestination(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, CopyIn(img, []byte("hello world"), "ignored.txt", "/hello.txt"))

	_, idx, err := Resolve(img, "/hello.txt")
	require.Nil(t, err)
	inode := img.Inode(idx)
	assert.True(t, inode.IsRegular())
	assert.EqualValues(t, len("hello world"), inode.Size)
}

func TestCopyInIntoExistingDirectoryUsesHostBasename(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, MakeDirectory(img, "/dir"))
	require.Nil(t, CopyIn(img, []byte("x"), "name.txt", "/dir"))

	_, _, err := Resolve(img, "/dir/name.txt")
	assert.Nil(t, err)
}

func TestCopyInRejectsExistingDestination(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, CopyIn(img, []byte("x"), "a.txt", "/a.txt"))

	err := CopyIn(img, []byte("y"), "a.txt", "/a.txt")
	assert.NotNil(t, err)
}
