package ext2

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteContentWithinDirectBlocks(t *testing.T) {
	img := newTestImage(t)
	idx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(idx, DefaultFileMode, 0)

	content := bytes.Repeat([]byte("x"), BlockSize*2+10)
	require.Nil(t, WriteContent(img, idx, content))

	inode := img.Inode(idx)
	assert.EqualValues(t, len(content), inode.Size)
	assert.NotZero(t, inode.IBlock[0])
	assert.NotZero(t, inode.IBlock[1])
	assert.NotZero(t, inode.IBlock[2])
	assert.Zero(t, inode.IBlock[IndIndex])

	assert.True(t, bytes.Equal(content[:BlockSize], img.Block(BlockNo(inode.IBlock[0]))))
}

func TestWriteContentSpillsIntoSingleIndirect(t *testing.T) {
	img := newTestImage(t)
	idx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(idx, DefaultFileMode, 0)

	content := bytes.Repeat([]byte("y"), BlockSize*13)
	require.Nil(t, WriteContent(img, idx, content))

	inode := img.Inode(idx)
	assert.NotZero(t, inode.IBlock[IndIndex])

	var seen int
	_ = WalkBlocks(img, inode, func(BlockNo) error {
		seen++
		return nil
	})
	// 12 direct + 1 indirect pointer block + 1 data block through it.
	assert.Equal(t, 14, seen)
}

func TestWriteContentRejectsOversizedInput(t *testing.T) {
	img := newTestImage(t)
	idx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(idx, DefaultFileMode, 0)

	content := make([]byte, MaxFileSize+1)
	werr := WriteContent(img, idx, content)
	assert.NotNil(t, werr)
}
