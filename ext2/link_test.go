package ext2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkHardIncrementsLinksCount(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, CopyIn(img, []byte("data"), "src.txt", "/src.txt"))

	require.Nil(t, LinkHard(img, "/src.txt", "/dst.txt"))

	_, idx, err := Resolve(img, "/src.txt")
	require.Nil(t, err)
	inode := img.Inode(idx)
	assert.EqualValues(t, 2, inode.LinksCount)

	dstNo, dstIdx, err := Resolve(img, "/dst.txt")
	require.Nil(t, err)
	assert.Equal(t, idx.Number(), dstNo)
	assert.Equal(t, idx, dstIdx)
}

func TestLinkHardRejectsDirectorySource(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, MakeDirectory(img, "/dir"))

	err := LinkHard(img, "/dir", "/dst")
	assert.NotNil(t, err)
}

func TestLinkSymbolicWritesTargetPathAsContent(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, LinkSymbolic(img, "/some/target", "/link"))

	_, idx, err := Resolve(img, "/link")
	require.Nil(t, err)

	inode := img.Inode(idx)
	assert.True(t, inode.IsSymlink())

	content := make([]byte, inode.Size)
	n := 0
	_ = WalkBlocks(img, inode, func(b BlockNo) error {
		n += copy(content[n:], img.Block(b))
		return nil
	})
	assert.Equal(t, "/some/target", string(content))
}
