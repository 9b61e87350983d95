package bmp

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/LukiDS/mage/pixel"
	"github.com/pkg/errors"
)

type decoder struct {
	data    []byte
	h       Header
	width   int
	height  int
	topDown bool
	m       *pixel.Buffer
	err     error
}

func (d *decoder) decodeHeader() {
	if d.h, d.err = ParseHeader(d.data); d.err != nil {
		return
	}

	if uint64(len(d.data)) < uint64(d.h.File.Size) {
		d.err = FormatError("data shorter than declared file size")
		return
	}

	d.width, d.height, d.topDown, d.err = d.h.Image.dimensions()
}

func (d *decoder) decode() {
	if d.err != nil {
		return
	}

	maxPixel := d.width * d.height
	if d.h.Image.ImageBytes != 0 {
		if declared := int(d.h.Image.ImageBytes / bytesPerPixel); declared < maxPixel {
			maxPixel = declared
		}
	}

	start := int(d.h.File.Offset)
	if start+maxPixel*bytesPerPixel > len(d.data) {
		d.err = FormatError("pixel data past end of data")
		return
	}

	d.m = pixel.New(d.width, d.height)

	masks := d.h.Format.Masks()
	body := d.data[start:]

	for pxPos := 0; pxPos < maxPixel; pxPos++ {
		x := pxPos % d.width
		y := pxPos / d.width
		if !d.topDown {
			y = d.height - 1 - y
		}

		word := readUint32(body[pxPos*bytesPerPixel:])
		d.m.Write(x, y, masks.unpack(word))
	}
}

// ParseImage decodes a complete bitmap held in data.
func ParseImage(data []byte) (*pixel.Buffer, error) {
	d := decoder{
		data: data,
	}

	d.decodeHeader()
	d.decode()

	if d.err != nil {
		return nil, d.err
	}

	return d.m, nil
}

// Decode reads a BMP image from r. The returned image is a *pixel.Buffer.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "bmp: reading image")
	}

	m, err := ParseImage(data)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// DecodeConfig returns the dimensions of a BMP image without reading its
// pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	b := make([]byte, fileHeaderLen+v5InfoHeaderLen)
	n, err := io.ReadFull(r, b)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return image.Config{}, errors.Wrap(err, "bmp: reading header")
	}

	h, err := parseHeader(b[:n], math.MaxUint32)
	if err != nil {
		return image.Config{}, err
	}

	width, height, _, err := h.Image.dimensions()
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      width,
		Height:     height,
	}, nil
}
