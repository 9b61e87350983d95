package bmp

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/LukiDS/mage/pixel"
)

// FileHeader is the 14-byte BITMAPFILEHEADER.
type FileHeader struct {
	// Size is the length of the whole file, this header included.
	Size uint32 `yaml:"size"`
	// Offset is where the pixel data starts, counted from the start of the file.
	Offset uint32 `yaml:"offset"`
}

// ImageHeader holds the fields of the BITMAPINFOHEADER part of the DIB
// header. Later header versions extend it; their extra fields are skipped.
type ImageHeader struct {
	Size  uint32 `yaml:"size"`
	Width uint32 `yaml:"width"`
	// Height is negative for top-down images, positive for bottom-up ones.
	Height          int32           `yaml:"height"`
	BitCount        uint16          `yaml:"bit_count"`
	Compression     CompressionType `yaml:"compression"`
	ImageBytes      uint32          `yaml:"image_bytes"`
	XPixelsPerMeter uint32          `yaml:"x_pixels_per_meter"`
	YPixelsPerMeter uint32          `yaml:"y_pixels_per_meter"`
	ColorUsed       uint32          `yaml:"color_used"`
	ColorImportant  uint32          `yaml:"color_important"`
}

// Header is the complete, validated header of a supported bitmap.
type Header struct {
	File   FileHeader  `yaml:"file"`
	Image  ImageHeader `yaml:"image"`
	Format ColorFormat `yaml:"format"`
}

type CompressionType uint8

const (
	Uncompressed CompressionType = iota
	RLE8
	RLE4
	Bitfields
	Unknown
)

// The on-disk codes follow the BI_* constants: BI_RLE8 is 1, BI_RLE4 is 2.
func compressionFromCode(code uint32) CompressionType {
	switch code {
	case 0:
		return Uncompressed
	case 1:
		return RLE8
	case 2:
		return RLE4
	case 3:
		return Bitfields
	default:
		return Unknown
	}
}

// Code returns the on-disk value of c. Unknown has no code and maps to
// math.MaxUint32.
func (c CompressionType) Code() uint32 {
	switch c {
	case Uncompressed:
		return 0
	case RLE8:
		return 1
	case RLE4:
		return 2
	case Bitfields:
		return 3
	default:
		return math.MaxUint32
	}
}

func (c CompressionType) String() string {
	switch c {
	case Uncompressed:
		return "BI_RGB"
	case RLE8:
		return "BI_RLE8"
	case RLE4:
		return "BI_RLE4"
	case Bitfields:
		return "BI_BITFIELDS"
	default:
		return "unknown"
	}
}

func (c CompressionType) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// ColorMasks selects the bits of a 32-bit pixel word that carry each channel.
type ColorMasks struct {
	R uint32 `yaml:"r"`
	G uint32 `yaml:"g"`
	B uint32 `yaml:"b"`
	A uint32 `yaml:"a"`
}

// ColorFormat is one of the pixel layouts this package can read and write.
type ColorFormat uint8

const (
	// RGBA keeps red in the most significant byte of the pixel word, which
	// puts the bytes on disk in A, B, G, R order.
	RGBA ColorFormat = iota
)

var colorFormats = []ColorFormat{RGBA}

// Masks returns the channel masks of f.
func (f ColorFormat) Masks() ColorMasks {
	switch f {
	case RGBA:
		return ColorMasks{R: 0xFF000000, G: 0x00FF0000, B: 0x0000FF00, A: 0x000000FF}
	default:
		return ColorMasks{}
	}
}

func (f ColorFormat) String() string {
	switch f {
	case RGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("ColorFormat(%d)", uint8(f))
	}
}

func (f ColorFormat) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// FormatFromMasks returns the ColorFormat whose masks are exactly m.
func FormatFromMasks(m ColorMasks) (ColorFormat, bool) {
	for _, f := range colorFormats {
		if f.Masks() == m {
			return f, true
		}
	}
	return 0, false
}

func (m ColorMasks) unpack(word uint32) pixel.RGBA {
	return pixel.RGBA{
		R: channel(word, m.R),
		G: channel(word, m.G),
		B: channel(word, m.B),
		A: channel(word, m.A),
	}
}

func (m ColorMasks) pack(p pixel.RGBA) uint32 {
	return place(p.R, m.R) | place(p.G, m.G) | place(p.B, m.B) | place(p.A, m.A)
}

// channel and place assume 8-bit wide masks, which every ColorFormat has.
func channel(word, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	return uint8((word & mask) >> bits.TrailingZeros32(mask))
}

func place(v uint8, mask uint32) uint32 {
	if mask == 0 {
		return 0
	}
	return (uint32(v) << bits.TrailingZeros32(mask)) & mask
}

// ParseHeader validates the file header, the image header and the channel
// masks at the start of data. Nothing is returned unless all three are
// well-formed and supported.
func ParseHeader(data []byte) (Header, error) {
	return parseHeader(data, uint64(len(data)))
}

// parseHeader checks the pixel data offset against avail, the number of
// bytes the whole input holds, which may exceed len(data).
func parseHeader(data []byte, avail uint64) (Header, error) {
	fh, err := parseFileHeader(data)
	if err != nil {
		return Header{}, err
	}

	if avail < uint64(fh.Offset) {
		return Header{}, FormatError("pixel data offset past end of data")
	}

	ih, err := parseImageHeader(data[fileHeaderLen:])
	if err != nil {
		return Header{}, err
	}

	if err := ih.checkSupported(); err != nil {
		return Header{}, err
	}

	format, err := parseColorFormat(data[fileHeaderLen+infoHeaderLen:])
	if err != nil {
		return Header{}, err
	}

	minOffset := fileHeaderLen + ih.Size
	if ih.Size == infoHeaderLen {
		minOffset += colorMaskLen
	}
	if fh.Offset < minOffset {
		return Header{}, FormatError("pixel data offset overlaps header")
	}

	return Header{File: fh, Image: ih, Format: format}, nil
}

func parseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < fileHeaderLen || string(data[:2]) != bmpMagic {
		return FileHeader{}, FormatError("not a BMP file")
	}

	if readUint32(data[6:]) != 0 {
		return FileHeader{}, FormatError("reserved bytes not zero")
	}

	fh := FileHeader{
		Size:   readUint32(data[2:]),
		Offset: readUint32(data[10:]),
	}
	if fh.Offset > fh.Size {
		return FileHeader{}, FormatError("pixel data offset past declared file size")
	}

	return fh, nil
}

func parseImageHeader(data []byte) (ImageHeader, error) {
	if len(data) < infoHeaderLen {
		return ImageHeader{}, FormatError("image header truncated")
	}

	if p := readUint16(data[12:]); p != planes {
		return ImageHeader{}, FormatError(fmt.Sprintf("%d color planes", p))
	}

	return ImageHeader{
		Size:            readUint32(data[0:]),
		Width:           readUint32(data[4:]),
		Height:          readInt32(data[8:]),
		BitCount:        readUint16(data[14:]),
		Compression:     compressionFromCode(readUint32(data[16:])),
		ImageBytes:      readUint32(data[20:]),
		XPixelsPerMeter: readUint32(data[24:]),
		YPixelsPerMeter: readUint32(data[28:]),
		ColorUsed:       readUint32(data[32:]),
		ColorImportant:  readUint32(data[36:]),
	}, nil
}

func (ih ImageHeader) checkSupported() error {
	switch ih.Size {
	case infoHeaderLen, v4InfoHeaderLen, v5InfoHeaderLen:
	default:
		return UnsupportedError(fmt.Sprintf("image header size %d", ih.Size))
	}

	switch ih.Compression {
	case Bitfields:
	case Unknown:
		return UnsupportedError("unknown compression")
	default:
		return UnsupportedError("compression " + ih.Compression.String())
	}

	if ih.BitCount != bitsPerPixel {
		return UnsupportedError(fmt.Sprintf("%d bits per pixel", ih.BitCount))
	}

	return nil
}

// dimensions returns the logical size and whether rows are stored top-down.
func (ih ImageHeader) dimensions() (width, height int, topDown bool, err error) {
	h := int64(ih.Height)
	if h < 0 {
		h, topDown = -h, true
	}

	if uint64(ih.Width)*uint64(h) > bmpMaxPixels {
		return 0, 0, false, UnsupportedError("image too large")
	}

	return int(ih.Width), int(h), topDown, nil
}

func parseColorFormat(data []byte) (ColorFormat, error) {
	if len(data) < colorMaskLen {
		return 0, FormatError("color masks truncated")
	}

	masks := ColorMasks{
		R: readUint32(data[0:]),
		G: readUint32(data[4:]),
		B: readUint32(data[8:]),
		A: readUint32(data[12:]),
	}

	f, ok := FormatFromMasks(masks)
	if !ok {
		return 0, UnsupportedError(fmt.Sprintf("color masks %08x %08x %08x %08x", masks.R, masks.G, masks.B, masks.A))
	}

	return f, nil
}

// newHeader builds the header the encoder writes for a width x height image.
func newHeader(width, height int) Header {
	imageBytes := uint32(bytesPerPixel * width * height)

	return Header{
		File: FileHeader{
			Size:   encodedHeaderLen + imageBytes,
			Offset: encodedHeaderLen,
		},
		Image: ImageHeader{
			Size:            v4InfoHeaderLen,
			Width:           uint32(width),
			Height:          -int32(height),
			BitCount:        bitsPerPixel,
			Compression:     Bitfields,
			ImageBytes:      imageBytes,
			XPixelsPerMeter: defaultPixelsPerMeter,
			YPixelsPerMeter: defaultPixelsPerMeter,
		},
		Format: RGBA,
	}
}

// appendTo serializes h as a V4 header: file header, image header, channel
// masks, the color space id and 48 zero bytes of endpoints and gamma.
func (h Header) appendTo(b []byte) []byte {
	b = append(b, bmpMagic...)
	b = appendUint32(b, h.File.Size)
	b = appendUint32(b, 0)
	b = appendUint32(b, h.File.Offset)

	b = appendUint32(b, h.Image.Size)
	b = appendUint32(b, h.Image.Width)
	b = appendInt32(b, h.Image.Height)
	b = appendUint16(b, planes)
	b = appendUint16(b, h.Image.BitCount)
	b = appendUint32(b, h.Image.Compression.Code())
	b = appendUint32(b, h.Image.ImageBytes)
	b = appendUint32(b, h.Image.XPixelsPerMeter)
	b = appendUint32(b, h.Image.YPixelsPerMeter)
	b = appendUint32(b, h.Image.ColorUsed)
	b = appendUint32(b, h.Image.ColorImportant)

	m := h.Format.Masks()
	b = appendUint32(b, m.R)
	b = appendUint32(b, m.G)
	b = appendUint32(b, m.B)
	b = appendUint32(b, m.A)
	b = appendUint32(b, lcsWindowsColorSpace)

	return append(b, make([]byte, 48)...)
}
