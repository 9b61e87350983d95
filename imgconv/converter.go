package imgconv

import (
	"image"
	"image/color"

	"github.com/LukiDS/mage/pixel"
)

// ToBuffer converts any image m to a *pixel.Buffer whose origin is the
// top-left corner of m.
// Any Image may be converted, but images that are not NRGBA might be converted lossily.
func ToBuffer(m image.Image) *pixel.Buffer {
	if b, ok := m.(*pixel.Buffer); ok {
		return b
	}

	r := m.Bounds()
	b := pixel.New(r.Dx(), r.Dy())

	if n, ok := m.(*image.NRGBA); ok {
		for y := 0; y < r.Dy(); y++ {
			row := n.Pix[n.PixOffset(r.Min.X, r.Min.Y+y):]
			copy(b.Pix()[y*4*r.Dx():(y+1)*4*r.Dx()], row[:4*r.Dx()])
		}
		return b
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.Set(x-r.Min.X, y-r.Min.Y, m.At(x, y))
		}
	}

	return b
}

// ToNRGBA converts any image m to an *image.NRGBA image.
// Any Image may be converted, but images that are not NRGBA might be converted lossily.
func ToNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok {
		return n
	}

	img := image.NewNRGBA(m.Bounds())

	if b, ok := m.(*pixel.Buffer); ok {
		copy(img.Pix, b.Pix())
		return img
	}

	for y := m.Bounds().Min.Y; y < m.Bounds().Max.Y; y++ {
		for x := m.Bounds().Min.X; x < m.Bounds().Max.X; x++ {
			img.Set(x, y, color.NRGBAModel.Convert(m.At(x, y)))
		}
	}

	return img
}
