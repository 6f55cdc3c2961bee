package ext2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeDirectoryLinksCounts(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, MakeDirectory(img, "/sub"))

	root := img.Inode(RootInodeNo.Index())
	assert.EqualValues(t, 3, root.LinksCount, "root gains one link from the new subdir's ..")

	_, idx, err := Resolve(img, "/sub")
	require.Nil(t, err)
	sub := img.Inode(idx)
	assert.EqualValues(t, 2, sub.LinksCount)
	assert.True(t, sub.IsDir())

	_, _, _, found := SearchDir(img, sub, ".")
	assert.True(t, found)
	_, _, _, found = SearchDir(img, sub, "..")
	assert.True(t, found)
}

func TestMakeDirectoryRejectsExistingName(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, MakeDirectory(img, "/sub"))

	err := MakeDirectory(img, "/sub")
	assert.NotNil(t, err)
}

func TestMakeDirectoryBumpsUsedDirsCount(t *testing.T) {
	img := newTestImage(t)
	before := img.GroupDesc().UsedDirsCount

	require.Nil(t, MakeDirectory(img, "/sub"))

	after := img.GroupDesc().UsedDirsCount
	assert.Equal(t, before+1, after)
}

func TestMakeDirectoryRequiresExistingParent(t *testing.T) {
	img := newTestImage(t)
	err := MakeDirectory(img, "/missing/sub")
	assert.NotNil(t, err)
}
