package qoi

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/LukiDS/mage/imgconv"
	"github.com/LukiDS/mage/pixel"
)

type encoder struct {
	src pixel.Source
	out []byte
	err error
}

// Encode writes the Image m to w in QOI format. Any Image may be
// encoded, but images that are not NRGBA might be encoded lossily.
func Encode(w io.Writer, m image.Image) error {
	return WriteImage(w, imgconv.ToBuffer(m))
}

// WriteImage encodes src and writes it to w with a single Write call.
func WriteImage(w io.Writer, src pixel.Source) error {
	e := encoder{
		src: src,
	}

	e.encodeHeader()
	e.encodeBody()
	e.encodeEndMarker()

	if e.err != nil {
		return e.err
	}

	_, err := w.Write(e.out)
	return err
}

func (e *encoder) encodeHeader() {
	mw, mh := e.src.Width(), e.src.Height()
	if mw < 0 || mh < 0 || !validSize(uint64(mw), uint64(mh)) {
		e.err = ErrInvalidSize
		return
	}

	e.out = make([]byte, qoiHeaderSize, qoiHeaderSize+mw*mh+len(qoiEndMarker))
	copy(e.out, qoiMagic)
	binary.BigEndian.PutUint32(e.out[4:], uint32(mw))
	binary.BigEndian.PutUint32(e.out[8:], uint32(mh))
	e.out[12] = qoiDefaultChannel
	e.out[13] = qoiDefaultColorSpace
}

func (e *encoder) encodeEndMarker() {
	if e.err != nil {
		return
	}

	e.out = append(e.out, qoiEndMarker...)
}

func (e *encoder) encodeBody() {
	if e.err != nil {
		return
	}

	var index [qoiMaxBufferSize]pixel.RGBA
	prev := pixel.RGBA{A: 255}
	last := e.src.Width()*e.src.Height() - 1
	run := 0
	pxPos := 0

	e.src.Each(func(_, _ int, px pixel.RGBA) {
		defer func() {
			prev = px
			pxPos++
		}()

		if px == prev {
			run++
			if run == qoiMaxRunSize || pxPos == last {
				e.out = append(e.out, opRUN|uint8(run-1))
				run = 0
			}
			return
		}

		if run > 0 {
			e.out = append(e.out, opRUN|uint8(run-1))
			run = 0
		}

		indexPos := hash(px)
		if index[indexPos] == px {
			e.out = append(e.out, opINDEX|indexPos)
			return
		}
		index[indexPos] = px

		if px.A != prev.A {
			e.out = append(e.out, opRGBA, px.R, px.G, px.B, px.A)
			return
		}

		vr := int8(px.R - prev.R)
		vg := int8(px.G - prev.G)
		vb := int8(px.B - prev.B)
		vgR := vr - vg
		vgB := vb - vg

		switch {
		case vr > -3 && vr < 2 && vg > -3 && vg < 2 && vb > -3 && vb < 2:
			e.out = append(e.out, opDIFF|uint8(vr+2)<<4|uint8(vg+2)<<2|uint8(vb+2))
		case vgR > -9 && vgR < 8 && vg > -33 && vg < 32 && vgB > -9 && vgB < 8:
			e.out = append(e.out, opLUMA|uint8(vg+32), uint8(vgR+8)<<4|uint8(vgB+8))
		default:
			e.out = append(e.out, opRGB, px.R, px.G, px.B)
		}
	})
}
