// Package qoi decodes and encodes images in the Quite OK Image format.
package qoi

import (
	"image"

	"github.com/LukiDS/mage/pixel"
	"github.com/pkg/errors"
)

const (
	/*
		2GB is the max file size that this implementation can safely handle.
		We guard against anything larger than that, assuming the worst case with 5 bytes per pixel,
		rounded down to a nice clean value.

		400 million pixels ought to be enough for anybody.
	*/
	qoiMaxPixels = 400_000_000
	qoiMagic     = "qoif"

	qoiDefaultChannel    uint8 = 4
	qoiDefaultColorSpace uint8 = 0

	qoiHeaderSize    = 14 //size in bytes
	qoiMaxBufferSize = 64
	qoiMaxRunSize    = 62
)

var qoiEndMarker = []byte{0, 0, 0, 0, 0, 0, 0, 1}

const (
	opINDEX uint8 = 0b00000000
	opDIFF  uint8 = 0b01000000
	opLUMA  uint8 = 0b10000000
	opRUN   uint8 = 0b11000000
	opRGB   uint8 = 0b11111110
	opRGBA  uint8 = 0b11111111
)

const (
	maskOP uint8 = 0b11000000
	mask6  uint8 = 0b00111111
	mask4  uint8 = 0b00001111
	mask2  uint8 = 0b00000011
)

var (
	ErrInvalidHeader = errors.New("qoi: image not valid qoi file")
	ErrInvalidSize   = errors.New("qoi: invalid image size")
	ErrTruncated     = errors.New("qoi: unexpected end of data")
	ErrEndMarker     = errors.New("qoi: missing end marker")
	ErrTrailingData  = errors.New("qoi: data after end marker")
)

func init() {
	image.RegisterFormat("qoi", qoiMagic, Decode, DecodeConfig)
}

// The sum wraps at 256, a multiple of 64, so the index is unaffected.
func hash(p pixel.RGBA) uint8 {
	return (3*p.R + 5*p.G + 7*p.B + 11*p.A) % qoiMaxBufferSize
}

func validSize(width, height uint64) bool {
	return width > 0 && height > 0 && width*height <= qoiMaxPixels
}
