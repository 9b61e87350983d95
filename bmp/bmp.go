// Package bmp decodes and encodes 32-bit BITFIELDS Windows bitmaps.
//
// Only one on-disk layout is supported: 32 bits per pixel, BI_BITFIELDS
// compression and the RGBA channel masks. Palette, RLE and other mask
// layouts are rejected with an UnsupportedError.
package bmp

import (
	"image"
)

const (
	/*
		Same guard as the qoi package: 400 million pixels keep the decoded
		buffer below 2GB and the encoded file size inside a uint32.
	*/
	bmpMaxPixels = 400_000_000
	bmpMagic     = "BM"

	fileHeaderLen   = 14
	infoHeaderLen   = 40
	v4InfoHeaderLen = 108
	v5InfoHeaderLen = 124
	colorMaskLen    = 16

	// The encoder always writes a V4 header, so pixel data starts at 122.
	encodedHeaderLen = fileHeaderLen + v4InfoHeaderLen
	bytesPerPixel    = 4
	bitsPerPixel     = 32
	planes           = 1

	defaultPixelsPerMeter = 2835       // 72 DPI
	lcsWindowsColorSpace  = 0x57696E20 // "Win "
)

func init() {
	image.RegisterFormat("bmp", bmpMagic, Decode, DecodeConfig)
}
