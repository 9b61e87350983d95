package qoi

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"github.com/LukiDS/mage/pixel"
	"github.com/pkg/errors"
)

type qoiHeader struct {
	width      uint32
	height     uint32
	channels   uint8
	colorspace uint8
}

func parseHeader(h []byte) (qoiHeader, error) {
	if len(h) < qoiHeaderSize || !bytes.Equal(h[:4], []byte(qoiMagic)) {
		return qoiHeader{}, ErrInvalidHeader
	}

	hdr := qoiHeader{
		width:      binary.BigEndian.Uint32(h[4:8]),
		height:     binary.BigEndian.Uint32(h[8:12]),
		channels:   h[12],
		colorspace: h[13],
	}

	if hdr.channels < 3 || hdr.channels > 4 || hdr.colorspace > 1 {
		return qoiHeader{}, ErrInvalidHeader
	}

	if !validSize(uint64(hdr.width), uint64(hdr.height)) {
		return qoiHeader{}, ErrInvalidSize
	}

	return hdr, nil
}

type decoder struct {
	data []byte
	pos  int
	h    qoiHeader
	m    *pixel.Buffer
	err  error
}

// next returns the following n bytes, or nil once the data is exhausted.
func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}

	if d.pos+n > len(d.data) {
		d.err = ErrTruncated
		return nil
	}

	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) decodeHeader() {
	if b := d.next(qoiHeaderSize); b != nil {
		d.h, d.err = parseHeader(b)
	} else {
		d.err = ErrInvalidHeader
	}
}

func (d *decoder) decode() {
	if d.err != nil {
		return
	}
	width, height := int(d.h.width), int(d.h.height)
	d.m = pixel.New(width, height)

	var index [qoiMaxBufferSize]pixel.RGBA
	prev := pixel.RGBA{A: 255}
	run := 0

	for pxPos := 0; pxPos < width*height; pxPos++ {
		x, y := pxPos%width, pxPos/width

		if run > 0 {
			run--
			d.m.Write(x, y, prev)
			continue
		}

		op := d.next(1)
		if op == nil {
			return
		}
		b1 := op[0]

		switch {
		case b1 == opRGB:
			rgb := d.next(3)
			if rgb == nil {
				return
			}
			prev.R, prev.G, prev.B = rgb[0], rgb[1], rgb[2]

		case b1 == opRGBA:
			rgba := d.next(4)
			if rgba == nil {
				return
			}
			prev = pixel.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}

		case b1&maskOP == opINDEX:
			prev = index[b1&mask6]

		case b1&maskOP == opDIFF:
			prev.R += ((b1 >> 4) & mask2) - 2
			prev.G += ((b1 >> 2) & mask2) - 2
			prev.B += (b1 & mask2) - 2

		case b1&maskOP == opLUMA:
			b2 := d.next(1)
			if b2 == nil {
				return
			}
			vg := (b1 & mask6) - 32
			prev.R += vg - 8 + ((b2[0] >> 4) & mask4)
			prev.G += vg
			prev.B += vg - 8 + (b2[0] & mask4)

		case b1&maskOP == opRUN:
			run = int(b1 & mask6)
		}

		index[hash(prev)] = prev
		d.m.Write(x, y, prev)
	}
}

func (d *decoder) decodePadding() {
	if d.err != nil {
		return
	}

	end := d.next(len(qoiEndMarker))
	if end == nil || !bytes.Equal(end, qoiEndMarker) {
		d.err = ErrEndMarker
		return
	}

	if d.pos != len(d.data) {
		d.err = ErrTrailingData
	}
}

// ParseImage decodes a complete QOI image held in data.
func ParseImage(data []byte) (*pixel.Buffer, error) {
	d := decoder{
		data: data,
	}

	d.decodeHeader()
	d.decode()
	d.decodePadding()

	if d.err != nil {
		return nil, d.err
	}

	return d.m, nil
}

func DecodeConfig(r io.Reader) (image.Config, error) {
	h := make([]byte, qoiHeaderSize)
	if _, err := io.ReadFull(r, h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return image.Config{}, ErrInvalidHeader
		}
		return image.Config{}, errors.Wrap(err, "qoi: reading header")
	}

	hdr, err := parseHeader(h)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(hdr.width),
		Height:     int(hdr.height),
	}, nil
}

// Decode reads a QOI image from r. The returned image is a *pixel.Buffer.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "qoi: reading image")
	}

	m, err := ParseImage(data)
	if err != nil {
		return nil, err
	}

	return m, nil
}
