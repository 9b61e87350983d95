package bmp

import (
	"github.com/pkg/errors"
)

// FormatError reports that the input violates the BMP format itself.
type FormatError string

func (e FormatError) Error() string { return "bmp: invalid format: " + string(e) }

// UnsupportedError reports that the input is a valid BMP that uses a
// feature this package does not implement.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "bmp: unsupported format: " + string(e) }

// IsInvalidFormat reports whether err, or any error it wraps, is a FormatError.
func IsInvalidFormat(err error) bool {
	var fe FormatError
	return errors.As(err, &fe)
}

// IsUnsupportedFormat reports whether err, or any error it wraps, is an
// UnsupportedError.
func IsUnsupportedFormat(err error) bool {
	var ue UnsupportedError
	return errors.As(err, &ue)
}
