// Package imageio bridges an ext2 image on the host filesystem and the
// in-memory buffer ext2.Image operates on: loading a file into a buffer of
// the right size, handing back a seekable stream view of it, and writing
// it back out once an operation has mutated it.
package imageio

import (
	"fmt"
	"io"
	"os"

	"github.com/noxer/bytewriter"
	"github.com/xaionaro-go/bytesextra"

	"github.com/omarchehab98/ext2tools/ext2"
)

// Session is a host file loaded into memory for one CLI invocation.
type Session struct {
	path string
	buf  []byte
}

// Load reads path into memory and wraps it as a Session. The file must be
// exactly ext2.ImageSize bytes.
func Load(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: reading %s: %w", path, err)
	}
	if len(raw) != ext2.ImageSize {
		return nil, fmt.Errorf(
			"imageio: %s is %d bytes, expected exactly %d", path, len(raw), ext2.ImageSize,
		)
	}
	return &Session{path: path, buf: raw}, nil
}

// Image returns an ext2.Image borrowing the session's buffer. Mutations
// through it are visible to Save.
func (s *Session) Image() (*ext2.Image, error) {
	return ext2.NewImage(s.buf)
}

// Stream returns a seekable view over the session's buffer, for callers
// that want to treat the image as a random-access byte stream (e.g. for
// diagnostics) instead of going through ext2.Image's structured accessors.
// Writes through it land directly in the session's own buffer, the same
// one Save persists.
func (s *Session) Stream() io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(s.buf)
}

// Save writes the session's current buffer back to its host file.
func (s *Session) Save() error {
	if err := os.WriteFile(s.path, s.buf, 0644); err != nil {
		return fmt.Errorf("imageio: writing %s: %w", s.path, err)
	}
	return nil
}

// ReadHostFile reads path's entire contents into a buffer capped at
// maxSize, via a bounded writer so a host file that doesn't fit fails
// loudly instead of silently truncating.
func ReadHostFile(path string, maxSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: opening %s: %w", path, err)
	}
	defer f.Close()

	staging := make([]byte, maxSize)
	bounded := bytewriter.New(staging)

	n, err := io.Copy(bounded, f)
	if err != nil {
		return nil, fmt.Errorf("imageio: %s exceeds the maximum representable file size: %w", path, err)
	}
	return staging[:n], nil
}
