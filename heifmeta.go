// Package heifmeta reads image metadata from HEIF files without decoding
// the image.
package heifmeta

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/jdeng/heifmeta/heif"
)

// ErrNoEXIF is returned by ExtractExif when a file does not contain an
// EXIF item.
var ErrNoEXIF = errors.New("heifmeta: no EXIF found")

// ReadMetadata reads the metadata of the HEIF file in r. Sources that are
// not an io.ReaderAt are read into memory first.
func ReadMetadata(r io.Reader, opts ...heif.Option) (*heif.Result, error) {
	ra, size, err := asReaderAt(r)
	if err != nil {
		return nil, err
	}
	return heif.Extract(ra, size, opts...)
}

// ReadFile reads the metadata of the HEIF file at path.
func ReadFile(path string, opts ...heif.Option) (*heif.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return heif.Extract(f, fi.Size(), opts...)
}

// ExtractExif returns the raw EXIF data of the HEIF file in the first
// size bytes of ra, starting at the TIFF header. The error is ErrNoEXIF if
// the file did not contain EXIF.
//
// The raw EXIF data can be parsed by the
// github.com/rwcarlsen/goexif/exif package's Decode function.
func ExtractExif(ra io.ReaderAt, size int64) ([]byte, error) {
	res, err := heif.Extract(ra, size, heif.WithExifDecoder(nil))
	if err != nil {
		return nil, err
	}
	if res.Exif == nil {
		if err := res.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoEXIF
	}
	return res.Exif, nil
}

type sizer interface {
	Size() int64
}

func asReaderAt(r io.Reader) (io.ReaderAt, int64, error) {
	if ra, ok := r.(io.ReaderAt); ok {
		switch v := r.(type) {
		case sizer:
			return ra, v.Size(), nil
		case io.Seeker:
			size, err := v.Seek(0, io.SeekEnd)
			if err != nil {
				return nil, 0, err
			}
			return ra, size, nil
		}
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}

	return bytes.NewReader(b), int64(len(b)), nil
}
