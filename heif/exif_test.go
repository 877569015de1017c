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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdeng/heifmeta/heif/bmff"
	bt "github.com/jdeng/heifmeta/internal/bmfftest"
	"github.com/jdeng/heifmeta/metadata"
)

func TestExifStart(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		want    int
		wantErr bool
	}{
		{"marker", bt.ExifPayload([]byte("MM\x00*")), 10, false},
		{"marker with odd preamble", bt.Cat(bt.U32(0), bt.Str("Exif\x00\x00"), bt.Str("MM\x00*")), 10, false},
		{"preamble offset", bt.Cat(bt.U32(2), []byte{0, 0}, bt.Str("II*\x00")), 6, false},
		{"no preamble", []byte{0, 0}, 0, true},
		{"offset past end", bt.Cat(bt.U32(100), bt.Str("MM")), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := exifStart(tt.buf)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// exifState returns a State whose item tables locate one Exif item of
// length n at offset off.
func exifState(t *testing.T, off, n uint32, cfg ...Option) *State {
	t.Helper()
	s := NewState(nil, cfg...)

	c := bmff.NewBytesCursor(bt.Iinf(bt.Infe(1, "Exif", "")))
	b, err := bmff.ReadBox(c)
	require.NoError(t, err)
	s.ItemInfo, err = bmff.ReadItemInfoBox(c, b)
	require.NoError(t, err)

	c = bmff.NewBytesCursor(bt.Iloc(bt.IlocItem{ID: 1, Offset: off, Length: n}))
	b, err = bmff.ReadBox(c)
	require.NoError(t, err)
	s.ItemLocation, err = bmff.ReadItemLocationBox(c, b)
	require.NoError(t, err)
	return s
}

func TestExtractExifHandsOffsetToDecoder(t *testing.T) {
	tiff := bt.OrientationTIFF(8)
	payload := bt.ExifPayload(tiff)
	data := bt.Cat(make([]byte, 16), payload, make([]byte, 4))

	var gotBuf []byte
	gotStart := -1
	dec := ExifDecoderFunc(func(buf []byte, start int, md *metadata.Metadata) error {
		gotBuf, gotStart = buf, start
		return nil
	})
	s := exifState(t, 16, uint32(len(payload)), WithExifDecoder(dec))

	c := bmff.NewBytesCursor(data)
	require.NoError(t, c.Seek(3))
	require.NoError(t, extractExif(s, c))

	assert.Equal(t, int64(3), c.Pos(), "position is restored")
	assert.Equal(t, 10, gotStart)
	assert.Equal(t, payload, gotBuf)
	assert.Equal(t, tiff, s.Exif)
}

func TestExtractExifWithoutDecoder(t *testing.T) {
	payload := bt.ExifPayload(bt.OrientationTIFF(1))
	s := exifState(t, 0, uint32(len(payload)), WithExifDecoder(nil))
	require.NoError(t, extractExif(s, bmff.NewBytesCursor(payload)))
	assert.Equal(t, bt.OrientationTIFF(1), s.Exif)
	assert.Nil(t, s.Metadata.Directory(metadata.ExifDirectoryName))
}

func TestExtractExifDecoderError(t *testing.T) {
	payload := bt.ExifPayload(bt.OrientationTIFF(1))
	boom := errors.New("boom")
	s := exifState(t, 0, uint32(len(payload)), WithExifDecoder(ExifDecoderFunc(
		func([]byte, int, *metadata.Metadata) error { return boom })))
	err := extractExif(s, bmff.NewBytesCursor(payload))
	require.ErrorIs(t, err, boom)
	assert.NotNil(t, s.Exif)
}

func TestExtractExifTooLarge(t *testing.T) {
	s := exifState(t, 0, maxExifSize+1)
	err := extractExif(s, bmff.NewBytesCursor(make([]byte, 16)))
	require.ErrorIs(t, err, ErrExifTooLarge)
}

func TestExtractExifOutOfRange(t *testing.T) {
	s := exifState(t, 8, 100)
	c := bmff.NewBytesCursor(make([]byte, 16))
	err := extractExif(s, c)
	require.ErrorIs(t, err, bmff.ErrOutOfRange)
	assert.Equal(t, int64(0), c.Pos())
}

func TestExtractExifNoEntry(t *testing.T) {
	s := NewState(nil)
	require.NoError(t, extractExif(s, bmff.NewBytesCursor(nil)))

	s = exifState(t, 0, 4)
	s.ItemLocation = nil
	require.ErrorIs(t, extractExif(s, bmff.NewBytesCursor(nil)), ErrNoExifLocation)
}

func TestGoexifDecoderInvalidData(t *testing.T) {
	md := &metadata.Metadata{}
	err := GoexifDecoder{}.DecodeExif([]byte("not a tiff stream at all"), 0, md)
	require.Error(t, err)
	assert.Nil(t, md.Directory(metadata.ExifDirectoryName))
}
