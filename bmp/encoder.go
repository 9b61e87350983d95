package bmp

import (
	"image"
	"io"
	"math"

	"github.com/LukiDS/mage/imgconv"
	"github.com/LukiDS/mage/pixel"
)

type encoder struct {
	w   io.Writer
	src pixel.Source
	err error
}

// WriteImage writes src to w as a top-down 32-bit BITFIELDS bitmap with a
// V4 header. Errors from w are returned unchanged; bytes already written
// are not taken back.
func WriteImage(w io.Writer, src pixel.Source) error {
	e := encoder{
		w:   w,
		src: src,
	}

	e.encodeHeader()
	e.encodeBody()

	return e.err
}

// Encode writes m to w in BMP format. Images that are not a *pixel.Buffer
// are converted first.
func Encode(w io.Writer, m image.Image) error {
	return WriteImage(w, imgconv.ToBuffer(m))
}

func (e *encoder) encodeHeader() {
	mw, mh := e.src.Width(), e.src.Height()
	if mw < 0 || mh < 0 || uint64(mw) > math.MaxUint32 || uint64(mh) > math.MaxInt32 ||
		uint64(mw)*uint64(mh) > bmpMaxPixels {
		e.err = UnsupportedError("image too large")
		return
	}

	h := newHeader(mw, mh)
	e.writeBytes(h.appendTo(make([]byte, 0, encodedHeaderLen)))
}

func (e *encoder) encodeBody() {
	if e.err != nil {
		return
	}

	width := e.src.Width()
	masks := RGBA.Masks()
	row := make([]byte, 0, width*bytesPerPixel)

	e.src.Each(func(x, y int, p pixel.RGBA) {
		if e.err != nil {
			return
		}

		row = appendUint32(row, masks.pack(p))
		if x == width-1 {
			e.writeBytes(row)
			row = row[:0]
		}
	})
}

func (e *encoder) writeBytes(data []byte) {
	if _, err := e.w.Write(data); err != nil {
		e.err = err
	}
}
