package main

import (
	"bufio"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LukiDS/mage/bmp"
	"github.com/LukiDS/mage/imgconv"
	"github.com/LukiDS/mage/qoi"
	"github.com/pkg/errors"
)

type encodeFunc func(w io.Writer, m image.Image) error

var encoders = map[string]encodeFunc{
	".bmp": bmp.Encode,
	".qoi": qoi.Encode,
	".png": func(w io.Writer, m image.Image) error {
		return png.Encode(w, imgconv.ToNRGBA(m))
	},
}

func encoderFor(path string) (encodeFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	enc, ok := encoders[ext]
	if !ok {
		return nil, errors.Errorf("no encoder for %q files", ext)
	}
	return enc, nil
}

// readImage decodes any registered format.
func readImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "unable to open %s", path)
	}
	defer f.Close()

	m, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, "", errors.Wrapf(err, "unable to decode %s", path)
	}
	return m, format, nil
}

// writeImage picks the encoder from the extension of path.
func writeImage(path string, m image.Image) (err error) {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "unable to close %s", path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := enc(w, m); err != nil {
		return errors.Wrapf(err, "unable to encode %s", path)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}

	return nil
}
