// Package pixel provides the rectangular RGBA buffer the codecs decode into
// and encode from.
package pixel

import (
	"image"
	"image/color"
)

const bytesPerPixel = 4

// RGBA is a single non-premultiplied pixel. An alpha of 0 is fully
// transparent, 255 fully opaque.
type RGBA struct {
	R, G, B, A uint8
}

// Source is what an encoder needs from a pixel buffer.
type Source interface {
	Width() int
	Height() int
	// Each calls fn for every pixel in row-major order, top row first.
	Each(fn func(x, y int, p RGBA))
}

// Buffer stores pixels row-major, top row first, 4 bytes per pixel.
type Buffer struct {
	pix    []uint8
	width  int
	height int
}

// New allocates a width x height buffer filled with black, transparent pixels.
func New(width, height int) *Buffer {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}

	return &Buffer{
		pix:    make([]uint8, bytesPerPixel*width*height),
		width:  width,
		height: height,
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// InBounds reports whether (x, y) addresses a pixel of b.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// Read returns the pixel at (x, y). It does not check bounds.
func (b *Buffer) Read(x, y int) RGBA {
	i := b.offset(x, y)
	p := b.pix[i : i+bytesPerPixel : i+bytesPerPixel]
	return RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Write stores p at (x, y). It does not check bounds.
func (b *Buffer) Write(x, y int, p RGBA) {
	i := b.offset(x, y)
	s := b.pix[i : i+bytesPerPixel : i+bytesPerPixel]
	s[0] = p.R
	s[1] = p.G
	s[2] = p.B
	s[3] = p.A
}

func (b *Buffer) Each(fn func(x, y int, p RGBA)) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			fn(x, y, b.Read(x, y))
		}
	}
}

// Pix exposes the raw R, G, B, A bytes, row-major. Renderers that accept
// RGBA8888 textures can use it directly.
func (b *Buffer) Pix() []uint8 {
	return b.pix
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * bytesPerPixel
}

func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

func (b *Buffer) At(x, y int) color.Color {
	if !b.InBounds(x, y) {
		return color.NRGBA{}
	}

	p := b.Read(x, y)
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Set converts c to non-premultiplied RGBA and stores it. Points outside
// the buffer are ignored, as with the image package types.
func (b *Buffer) Set(x, y int, c color.Color) {
	if !b.InBounds(x, y) {
		return
	}

	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	b.Write(x, y, RGBA{R: n.R, G: n.G, B: n.B, A: n.A})
}
