package qoi

import (
	"encoding/binary"
	"testing"

	"github.com/LukiDS/mage/pixel"
)

func generateHeader(t testing.TB, h qoiHeader) []byte {
	t.Helper()

	b := make([]byte, qoiHeaderSize)
	copy(b, qoiMagic)
	binary.BigEndian.PutUint32(b[4:], h.width)
	binary.BigEndian.PutUint32(b[8:], h.height)
	b[12] = h.channels
	b[13] = h.colorspace
	return b
}

// generateFileStub wraps chunk data in a header and, unless noEnd is set,
// the end marker.
func generateFileStub(t testing.TB, h qoiHeader, chunks []byte, noEnd bool) []byte {
	t.Helper()

	b := append(generateHeader(t, h), chunks...)
	if noEnd {
		return b
	}
	return append(b, qoiEndMarker...)
}

func generateImageStub(t testing.TB, width, height int, rgba []byte) *pixel.Buffer {
	t.Helper()

	if len(rgba) != 4*width*height {
		t.Fatalf("expected %d bytes, got %d", 4*width*height, len(rgba))
	}

	m := pixel.New(width, height)
	copy(m.Pix(), rgba)
	return m
}
