package ext2

import (
	bitmap "github.com/boljen/go-bitmap"
)

// NotFound is the sentinel returned by ScanFree when every bit in the range
// is set.
const NotFound = -1

// asBitmap reinterprets a raw 1024-byte block slice as a bit-addressable
// bitmap.Bitmap, with bit 0 of byte 0 corresponding to item 0 (the same
// little-endian, LSB-first convention spec.md requires: bit i of byte b is
// item b*8+i). Because bitmap.Bitmap is itself backed by a []byte, this is a
// reinterpretation, not a copy: Set/Clear calls through the result mutate
// the image buffer directly.
func asBitmap(block []byte) bitmap.Bitmap {
	return bitmap.Bitmap(block)
}

// IsSet reports whether bit i is set in the given bitmap block.
func IsSet(block []byte, i int) bool {
	return asBitmap(block).Get(i)
}

// SetBit sets bit i in the given bitmap block.
func SetBit(block []byte, i int) {
	asBitmap(block).Set(i, true)
}

// ClearBit clears bit i in the given bitmap block.
func ClearBit(block []byte, i int) {
	asBitmap(block).Set(i, false)
}

// ScanFree returns the lowest index in [0, nItems) whose bit is clear, or
// NotFound if every bit in that range is set.
func ScanFree(block []byte, nItems int) int {
	bm := asBitmap(block)
	for i := 0; i < nItems; i++ {
		if !bm.Get(i) {
			return i
		}
	}
	return NotFound
}

// CountFree returns the number of clear bits in [0, nItems).
func CountFree(block []byte, nItems int) int {
	bm := asBitmap(block)
	count := 0
	for i := 0; i < nItems; i++ {
		if !bm.Get(i) {
			count++
		}
	}
	return count
}
