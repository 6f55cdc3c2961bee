package imageio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarchehab98/ext2tools/ext2"
	"github.com/omarchehab98/ext2tools/imageio"
)

func writeTempImage(t *testing.T, content []byte) string {
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestLoadRejectsWrongSizedFile(t *testing.T) {
	path := writeTempImage(t, []byte("too small"))

	_, err := imageio.Load(path)
	assert.Error(t, err)
}

func TestLoadAndSaveRoundTrips(t *testing.T) {
	path := writeTempImage(t, ext2.Format(32))

	session, err := imageio.Load(path)
	require.NoError(t, err)

	img, err := session.Image()
	require.NoError(t, err)
	require.NoError(t, ext2.MakeDirectory(img, "/sub"))

	require.NoError(t, session.Save())

	reloaded, err := imageio.Load(path)
	require.NoError(t, err)
	img2, err := reloaded.Image()
	require.NoError(t, err)

	_, _, rerr := ext2.Resolve(img2, "/sub")
	assert.Nil(t, rerr, "directory created before Save must survive the round trip")
}

func TestStreamSharesSessionBuffer(t *testing.T) {
	path := writeTempImage(t, ext2.Format(32))
	session, err := imageio.Load(path)
	require.NoError(t, err)

	stream := session.Stream()
	marker := []byte{0xAB, 0xCD}
	n, err := stream.Write(marker)
	require.NoError(t, err)
	assert.Equal(t, len(marker), n)

	img, err := session.Image()
	require.NoError(t, err)
	assert.Equal(t, marker, img.Bytes()[:len(marker)])
}

func TestReadHostFileRejectsOversizedInput(t *testing.T) {
	path := writeTempImage(t, []byte("0123456789"))

	_, err := imageio.ReadHostFile(path, 4)
	assert.Error(t, err)
}

func TestReadHostFileReturnsExactContent(t *testing.T) {
	path := writeTempImage(t, []byte("hello world"))

	content, err := imageio.ReadHostFile(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
}
