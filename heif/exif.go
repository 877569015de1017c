/*
Copyright 2026 The heifmeta Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package heif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-kit/log/level"

	"github.com/jdeng/heifmeta/heif/bmff"
	"github.com/jdeng/heifmeta/metadata"
)

// ExifDecoder decodes a TIFF stream starting at buf[start:] and adds its
// tags to md.
type ExifDecoder interface {
	DecodeExif(buf []byte, start int, md *metadata.Metadata) error
}

// ExifDecoderFunc adapts a function to ExifDecoder.
type ExifDecoderFunc func(buf []byte, start int, md *metadata.Metadata) error

func (f ExifDecoderFunc) DecodeExif(buf []byte, start int, md *metadata.Metadata) error {
	return f(buf, start, md)
}

var (
	// ErrNoExifLocation is recorded when the Exif item has no usable
	// entry in the item location table.
	ErrNoExifLocation = errors.New("heif: no location for Exif item")

	// ErrExifTooLarge is recorded when the Exif item declares a length
	// above maxExifSize.
	ErrExifTooLarge = errors.New("heif: Exif item too large")
)

const (
	maxExifSize = 200 << 20 // 200MB cap it for sanity

	// An Exif item starts with the offset of the TIFF header from the end
	// of this field, usually followed by the JPEG APP1 marker string.
	exifPreambleLength = 4
)

var exifMarker = []byte("Exif\x00\x00")

// extractExif reads the Exif item, keeps its TIFF stream on s and hands
// it to the configured decoder. The cursor position is restored.
func extractExif(s *State, c *bmff.Cursor) error {
	if s.ItemInfo == nil {
		return nil
	}
	entry := s.ItemInfo.ExifEntry()
	if entry == nil {
		return nil
	}
	id := entry.ItemID
	if s.ItemLocation == nil {
		return fmt.Errorf("%w: item %d, no iloc box", ErrNoExifLocation, id)
	}
	loc, ok := s.ItemLocation.Location(id)
	if !ok {
		return fmt.Errorf("%w: item %d", ErrNoExifLocation, id)
	}
	if len(loc.Extents) == 0 {
		return fmt.Errorf("%w: item %d has no extents", ErrNoExifLocation, id)
	}
	if n := len(loc.Extents); n > 1 {
		level.Warn(s.logger).Log("msg", "Exif item has several extents, reading the first only", "item", id, "extents", n)
	}
	ext := loc.Extents[0]
	if ext.Length > maxExifSize {
		return fmt.Errorf("%w: declared size %d exceeds threshold of %d bytes", ErrExifTooLarge, ext.Length, maxExifSize)
	}

	offset := loc.BaseOffsetValue() + ext.Offset
	switch loc.ConstructionMethod {
	case 0: // file offset
	case 1: // idat offset
		if s.ItemData == nil {
			return fmt.Errorf("%w: item %d is stored in a missing idat box", ErrNoExifLocation, id)
		}
		if offset+ext.Length > uint64(s.ItemData.DataSize) {
			return fmt.Errorf("%w: item %d exceeds idat box", ErrNoExifLocation, id)
		}
		offset += uint64(s.ItemData.DataOffset)
	default:
		return fmt.Errorf("%w: item %d uses construction method %d", ErrNoExifLocation, id, loc.ConstructionMethod)
	}
	if offset > math.MaxInt64 {
		return fmt.Errorf("%w: Exif item %d at offset %d", bmff.ErrOutOfRange, id, offset)
	}

	saved := c.Pos()
	defer c.Seek(saved)
	if err := c.Seek(int64(offset)); err != nil {
		return fmt.Errorf("heif: seeking to Exif item %d: %w", id, err)
	}
	buf, err := c.Bytes(int(ext.Length))
	if err != nil {
		return fmt.Errorf("heif: reading Exif item %d: %w", id, err)
	}

	start, err := exifStart(buf)
	if err != nil {
		return err
	}
	s.Exif = buf[start:]
	s.metrics.exifBytes(len(s.Exif))
	level.Debug(s.logger).Log("msg", "Exif item", "item", id, "offset", offset, "length", ext.Length, "tiff", start)

	if s.exif == nil {
		return nil
	}
	if err := s.exif.DecodeExif(buf, start, s.Metadata); err != nil {
		return fmt.Errorf("heif: decoding Exif item %d: %w", id, err)
	}
	return nil
}

// exifStart returns the offset of the TIFF header in an Exif item.
func exifStart(buf []byte) (int, error) {
	if len(buf) >= exifPreambleLength+len(exifMarker) &&
		bytes.Equal(buf[exifPreambleLength:exifPreambleLength+len(exifMarker)], exifMarker) {
		return exifPreambleLength + len(exifMarker), nil
	}
	if len(buf) < exifPreambleLength {
		return 0, fmt.Errorf("heif: Exif item of %d bytes has no header", len(buf))
	}
	off := uint64(binary.BigEndian.Uint32(buf)) + exifPreambleLength
	if off > uint64(len(buf)) {
		return 0, fmt.Errorf("heif: Exif TIFF header offset %d beyond item of %d bytes", off, len(buf))
	}
	return int(off), nil
}
