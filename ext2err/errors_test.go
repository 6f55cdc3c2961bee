package ext2err_test

import (
	"errors"
	"testing"

	"github.com/omarchehab98/ext2tools/ext2err"
	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorMessage(t *testing.T) {
	assert.Equal(t, "no such file or directory", ext2err.ErrNotFound.Error())
}

func TestWithMessagePreservesReason(t *testing.T) {
	wrapped := ext2err.ErrNotFound.WithMessage("/foo/bar")

	assert.Equal(t, "/foo/bar", wrapped.Error())
	assert.ErrorIs(t, wrapped, ext2err.ErrNotFound)
	assert.Equal(t, ext2err.ErrNotFound, wrapped.Reason())
}

func TestWrapErrorChainsCause(t *testing.T) {
	cause := errors.New("disk read failed")
	wrapped := ext2err.ErrHostIO.WrapError(cause)

	assert.Equal(t, "input/output error: disk read failed", wrapped.Error())
	assert.ErrorIs(t, wrapped, ext2err.ErrHostIO)
	assert.ErrorIs(t, wrapped, cause)
}

func TestWithMessageOnAlreadyWrappedErrorKeepsOriginalReason(t *testing.T) {
	first := ext2err.ErrAlreadyExists.WithMessage("/a")
	second := first.WithMessage("/a (retried)")

	assert.Equal(t, "/a (retried)", second.Error())
	assert.ErrorIs(t, second, ext2err.ErrAlreadyExists)
	assert.ErrorIs(t, second, first)
}

func TestCLIReasonUsesCanonicalWording(t *testing.T) {
	assert.Equal(t, "No such file or directory", ext2err.CLIReason(ext2err.ErrNotFound))
	assert.Equal(t, "Directory not empty", ext2err.CLIReason(ext2err.ErrNotEmpty))
}

func TestCLIReasonFollowsReasonThroughWrapping(t *testing.T) {
	wrapped := ext2err.ErrIsADirectory.WithMessage("/etc")
	assert.Equal(t, "Is a directory", ext2err.CLIReason(wrapped))
}

func TestDiagnosticFormatsPrognamePathReason(t *testing.T) {
	line := ext2err.Diagnostic("rm", "/etc/passwd", ext2err.ErrIsADirectory)
	assert.Equal(t, "rm: /etc/passwd: Is a directory", line)
}
