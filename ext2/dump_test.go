package ext2

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xaionaro-go/bytesextra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpListsInodesAndDirectoryEntries(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, CopyIn(img, []byte("hello"), "hello.txt", "/hello.txt"))

	var out bytes.Buffer
	Dump(img, bytesextra.NewReadWriteSeeker(img.Bytes()), &out)

	dump := out.String()
	assert.Contains(t, dump, "Inodes: ")
	assert.Contains(t, dump, "name: hello.txt")
}

func TestDumpPrintsSymlinkTarget(t *testing.T) {
	img := newTestImage(t)
	require.Nil(t, LinkSymbolic(img, "/some/target", "/link"))

	var out bytes.Buffer
	Dump(img, bytesextra.NewReadWriteSeeker(img.Bytes()), &out)

	lines := strings.Split(out.String(), "\n")
	found := false
	for _, line := range lines {
		if strings.Contains(line, "target: /some/target") {
			found = true
		}
	}
	assert.True(t, found, "expected a target line for the symlink, got:\n%s", out.String())
}
