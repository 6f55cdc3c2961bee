package ext2

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendFirstEntryInFreshDirectory(t *testing.T) {
	img := newTestImage(t)
	dirIdx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(dirIdx, DefaultDirMode, 0)

	fileIdx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(fileIdx, DefaultFileMode, 0)

	aerr := Append(img, dirIdx, fileIdx.Number(), "hello.txt", FileTypeRegular)
	require.Nil(t, aerr)

	dir := img.Inode(dirIdx)
	entry, _, _, found := SearchDir(img, dir, "hello.txt")
	require.True(t, found)
	assert.Equal(t, fileIdx.Number(), entry.Inode)
	assert.Equal(t, FileTypeRegular, int(entry.FileType))

	file := img.Inode(fileIdx)
	assert.EqualValues(t, 1, file.LinksCount)
}

func TestAppendSplitsSlackForSecondEntry(t *testing.T) {
	img := newTestImage(t)
	dirIdx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(dirIdx, DefaultDirMode, 0)

	a, _ := img.AllocateInode()
	b, _ := img.AllocateInode()
	require.Nil(t, Append(img, dirIdx, a.Number(), "a", FileTypeRegular))
	require.Nil(t, Append(img, dirIdx, b.Number(), "bb", FileTypeRegular))

	dir := img.Inode(dirIdx)
	assert.Len(t, directBlocksOf(dir), 1, "second entry should reuse slack, not allocate a new block")

	_, _, _, found := SearchDir(img, dir, "a")
	assert.True(t, found)
	_, _, _, found = SearchDir(img, dir, "bb")
	assert.True(t, found)
}

func TestAppendAllocatesNewBlockWhenSlackInsufficient(t *testing.T) {
	img := newTestImage(t)
	dirIdx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(dirIdx, DefaultDirMode, 0)

	// Three entries with max-length names take 264 bytes each, leaving
	// 1024-3*264 = 232 bytes of slack: too little for a fourth such entry
	// to share the first block.
	for i := 0; i < 3; i++ {
		a, _ := img.AllocateInode()
		require.Nil(t, Append(img, dirIdx, a.Number(), strings.Repeat(string(rune('a'+i)), MaxNameLen), FileTypeRegular))
	}
	b, _ := img.AllocateInode()
	require.Nil(t, Append(img, dirIdx, b.Number(), strings.Repeat("n", MaxNameLen), FileTypeRegular))

	dir := img.Inode(dirIdx)
	assert.Len(t, directBlocksOf(dir), 2)
}

func TestRemoveFirstEntryBlanksInPlace(t *testing.T) {
	img := newTestImage(t)
	dirIdx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(dirIdx, DefaultDirMode, 0)

	fileIdx, _ := img.AllocateInode()
	img.InitializeInode(fileIdx, DefaultFileMode, 0)
	require.Nil(t, Append(img, dirIdx, fileIdx.Number(), "only.txt", FileTypeRegular))

	removed, rerr := Remove(img, dirIdx, "only.txt")
	require.Nil(t, rerr)
	assert.Equal(t, fileIdx.Number(), removed)

	_, _, _, found := SearchDir(img, img.Inode(dirIdx), "only.txt")
	assert.False(t, found)

	assert.False(t, IsSet(img.InodeBitmap(), int(fileIdx)))
}

func TestRemoveSecondEntryMergesIntoFirst(t *testing.T) {
	img := newTestImage(t)
	dirIdx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(dirIdx, DefaultDirMode, 0)

	a, _ := img.AllocateInode()
	b, _ := img.AllocateInode()
	require.Nil(t, Append(img, dirIdx, a.Number(), "a", FileTypeRegular))
	require.Nil(t, Append(img, dirIdx, b.Number(), "bb", FileTypeRegular))

	_, rerr := Remove(img, dirIdx, "bb")
	require.Nil(t, rerr)

	dir := img.Inode(dirIdx)
	_, _, _, found := SearchDir(img, dir, "a")
	assert.True(t, found)
	_, _, _, found = SearchDir(img, dir, "bb")
	assert.False(t, found)
}

func TestRemoveFreesInodeWhenLinksReachZero(t *testing.T) {
	img := newTestImage(t)
	dirIdx, err := img.AllocateInode()
	require.Nil(t, err)
	img.InitializeInode(dirIdx, DefaultDirMode, 0)

	fileIdx, _ := img.AllocateInode()
	img.InitializeInode(fileIdx, DefaultFileMode, 0)
	require.Nil(t, Append(img, dirIdx, fileIdx.Number(), "x", FileTypeRegular))
	require.Nil(t, WriteContent(img, fileIdx, []byte("hello")))

	sbBefore := img.Superblock()

	_, rerr := Remove(img, dirIdx, "x")
	require.Nil(t, rerr)

	sbAfter := img.Superblock()
	assert.Greater(t, sbAfter.FreeBlocksCount, sbBefore.FreeBlocksCount)
	assert.Greater(t, sbAfter.FreeInodesCount, sbBefore.FreeInodesCount)
}
