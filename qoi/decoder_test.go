package qoi

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/LukiDS/mage/pixel"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImage(t *testing.T) {
	h1x1 := qoiHeader{width: 1, height: 1, channels: 4, colorspace: 0}

	tests := []struct {
		name          string
		data          []byte
		expectedError error
		expectedImage *pixel.Buffer
	}{
		{
			name:          "should return an error if width is zero",
			data:          generateFileStub(t, qoiHeader{width: 0, height: 1, channels: 4}, nil, false),
			expectedError: ErrInvalidSize,
		},
		{
			name:          "should return an error if height is zero",
			data:          generateFileStub(t, qoiHeader{width: 1, height: 0, channels: 3, colorspace: 1}, nil, false),
			expectedError: ErrInvalidSize,
		},
		{
			name:          "should return an error if channel is less than 3",
			data:          generateFileStub(t, qoiHeader{width: 1, height: 1, channels: 0, colorspace: 1}, nil, false),
			expectedError: ErrInvalidHeader,
		},
		{
			name:          "should return an error if channel is greater than 4",
			data:          generateFileStub(t, qoiHeader{width: 1, height: 1, channels: 5, colorspace: 1}, nil, false),
			expectedError: ErrInvalidHeader,
		},
		{
			name:          "should return an error if colorspace is greater than 1",
			data:          generateFileStub(t, qoiHeader{width: 1, height: 1, channels: 4, colorspace: 2}, nil, false),
			expectedError: ErrInvalidHeader,
		},
		{
			name:          "should return an error if data is empty",
			data:          nil,
			expectedError: ErrInvalidHeader,
		},
		{
			name:          "should return an error if data does not contain enough pixels",
			data:          generateFileStub(t, qoiHeader{width: 1, height: 5, channels: 4}, []byte{opRGB, 255, 255, 255}, true),
			expectedError: ErrTruncated,
		},
		{
			name:          "should return an error if a chunk is cut short",
			data:          generateFileStub(t, h1x1, []byte{opRGBA, 1, 2}, true),
			expectedError: ErrTruncated,
		},
		{
			name:          "should return an error if end marker is missing",
			data:          generateFileStub(t, h1x1, []byte{opRGB, 255, 255, 255}, true),
			expectedError: ErrEndMarker,
		},
		{
			name:          "should return an error if end marker is wrong",
			data:          generateFileStub(t, h1x1, []byte{opRGB, 255, 255, 255, 0, 0, 0, 0, 0, 0, 0, 4}, true),
			expectedError: ErrEndMarker,
		},
		{
			name:          "should return an error if data follows the end marker",
			data:          append(generateFileStub(t, h1x1, []byte{opRGB, 255, 255, 255}, false), 255),
			expectedError: ErrTrailingData,
		},
		{
			name:          "should return default pixel from index",
			data:          generateFileStub(t, h1x1, []byte{opINDEX | 10}, false),
			expectedImage: generateImageStub(t, 1, 1, []byte{0, 0, 0, 0}),
		},
		{
			name:          "should return pixel at index",
			data:          generateFileStub(t, qoiHeader{width: 2, height: 1, channels: 4}, []byte{opRGBA, 1, 2, 3, 200, opINDEX | hash(pixel.RGBA{R: 1, G: 2, B: 3, A: 200})}, false),
			expectedImage: generateImageStub(t, 2, 1, []byte{1, 2, 3, 200, 1, 2, 3, 200}),
		},
		{
			name:          "should return default pixels from run",
			data:          generateFileStub(t, qoiHeader{width: 3, height: 1, channels: 4}, []byte{opRUN | 2}, false),
			expectedImage: generateImageStub(t, 3, 1, []byte{0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255}),
		},
		{
			name:          "should repeat last pixel in run",
			data:          generateFileStub(t, qoiHeader{width: 4, height: 1, channels: 4}, []byte{opRGB, 1, 2, 3, opRUN | 2}, false),
			expectedImage: generateImageStub(t, 4, 1, []byte{1, 2, 3, 255, 1, 2, 3, 255, 1, 2, 3, 255, 1, 2, 3, 255}),
		},
		{
			name:          "should return diff of default pixel",
			data:          generateFileStub(t, h1x1, []byte{opDIFF | 0}, false),
			expectedImage: generateImageStub(t, 1, 1, []byte{254, 254, 254, 255}),
		},
		{
			name:          "should return diff of last pixel",
			data:          generateFileStub(t, qoiHeader{width: 2, height: 1, channels: 4}, []byte{opRGB, 100, 200, 50, opDIFF | 0b00_10_11_00}, false),
			expectedImage: generateImageStub(t, 2, 1, []byte{100, 200, 50, 255, 100, 201, 48, 255}),
		},
		{
			name:          "should return luma of default pixel",
			data:          generateFileStub(t, h1x1, []byte{opLUMA | 0, 0b0000_0000}, false),
			expectedImage: generateImageStub(t, 1, 1, []byte{216, 224, 216, 255}),
		},
		{
			name:          "should return luma of last pixel",
			data:          generateFileStub(t, qoiHeader{width: 2, height: 1, channels: 4}, []byte{opRGB, 100, 200, 50, opLUMA | 0b00_100000, 0b1001_0101}, false),
			expectedImage: generateImageStub(t, 2, 1, []byte{100, 200, 50, 255, 101, 200, 47, 255}),
		},
		{
			name:          "should keep alpha on rgb",
			data:          generateFileStub(t, qoiHeader{width: 2, height: 1, channels: 4}, []byte{opRGBA, 1, 2, 3, 4, opRGB, 5, 6, 7}, false),
			expectedImage: generateImageStub(t, 2, 1, []byte{1, 2, 3, 4, 5, 6, 7, 4}),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actualImage, err := ParseImage(test.data)
			if test.expectedError != nil {
				assert.Equal(t, test.expectedError, err)
				assert.Nil(t, actualImage)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedImage.Bounds(), actualImage.Bounds())
			assert.Equal(t, test.expectedImage.Pix(), actualImage.Pix())
		})
	}
}

func TestDecodeConfig(t *testing.T) {
	c, err := DecodeConfig(bytes.NewReader(generateHeader(t, qoiHeader{width: 3, height: 2, channels: 4})))
	require.NoError(t, err)
	assert.Equal(t, image.Config{ColorModel: color.NRGBAModel, Width: 3, Height: 2}, c)

	_, err = DecodeConfig(bytes.NewReader([]byte("qoif")))
	assert.Equal(t, ErrInvalidHeader, err)

	_, err = DecodeConfig(bytes.NewReader(generateHeader(t, qoiHeader{width: 3, height: 2, channels: 9})))
	assert.Equal(t, ErrInvalidHeader, err)
}

func TestDecodeRegistered(t *testing.T) {
	data := generateFileStub(t, qoiHeader{width: 1, height: 1, channels: 4}, []byte{opRGBA, 9, 8, 7, 6}, false)

	m, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "qoi", format)
	assert.Equal(t, color.NRGBA{9, 8, 7, 6}, m.At(0, 0))
}

type failingReader struct{}

var errRead = errors.New("read failed")

func (failingReader) Read([]byte) (int, error) { return 0, errRead }

func TestDecodeReaderError(t *testing.T) {
	_, err := Decode(failingReader{})
	assert.Equal(t, errRead, errors.Cause(err))

	_, err = DecodeConfig(failingReader{})
	assert.Equal(t, errRead, errors.Cause(err))
}

func BenchmarkDecodeFromMemory(b *testing.B) {
	src := pixel.New(512, 512)
	src.Each(func(x, y int, _ pixel.RGBA) {
		src.Write(x, y, pixel.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
	})

	buf := bytes.NewBuffer(nil)
	if err := WriteImage(buf, src); err != nil {
		b.Fatalf("could not encode image: %v\n", err)
	}
	data := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseImage(data); err != nil {
			b.Fatalf("could not decode image: %v\n", err)
		}
	}
}
