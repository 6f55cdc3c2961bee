package ext2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCopyInRollsBackOnWriteFailure exercises the undo-stack path: when
// WriteContent fails partway through (content too large for the blocks
// actually available), CopyIn's rollback removes the directory entry and
// frees both the inode and whatever data blocks WriteContent had already
// allocated, leaving no trace of the failed operation.
func TestCopyInRollsBackOnWriteFailure(t *testing.T) {
	img := newTestImage(t)
	sbBefore := img.Superblock()

	tooBig := make([]byte, int(sbBefore.FreeBlocksCount+10)*BlockSize)
	err := CopyIn(img, tooBig, "big.bin", "/big.bin")
	require.NotNil(t, err)

	_, _, rerr := Resolve(img, "/big.bin")
	assert.NotNil(t, rerr, "failed copy must not leave a resolvable entry")

	sbAfter := img.Superblock()
	assert.Equal(t, sbBefore.FreeInodesCount, sbAfter.FreeInodesCount)
	assert.Equal(t, sbBefore.FreeBlocksCount, sbAfter.FreeBlocksCount)
}
