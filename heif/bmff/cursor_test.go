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

package bmff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReadsAdvance(t *testing.T) {
	c := NewBytesCursor([]byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06,
		0x07, 0x08, 0x09, 0x0a,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00,
	})

	u8, err := c.Uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	u16, err := c.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), u16)

	u24, err := c.Uint24()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x040506), u24)

	u32, err := c.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0708090a), u32)

	u64, err := c.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(256), u64)

	assert.Equal(t, int64(18), c.Pos())
	assert.Equal(t, int64(0), c.Remaining())
}

func TestCursorAtLeavesPosition(t *testing.T) {
	c := NewBytesCursor([]byte{0xde, 0xad, 0xbe, 0xef})
	v, err := c.Uint16At(2)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), v)
	assert.Equal(t, int64(0), c.Pos())
}

func TestCursorFailedReadDoesNotMove(t *testing.T) {
	c := NewBytesCursor([]byte{1, 2, 3})
	require.NoError(t, c.Skip(1))

	_, err := c.Uint32()
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, int64(1), c.Pos())

	_, err = c.Bytes(3)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, int64(1), c.Pos())

	_, err = c.Uint8At(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestCursorSigned(t *testing.T) {
	c := NewBytesCursor([]byte{0xff, 0xff, 0xfe, 0x7f, 0xff, 0xff, 0xff, 0xfe})

	i24, err := c.Int24At(0)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i24)

	i24, err = c.Int24At(3)
	require.NoError(t, err)
	assert.Equal(t, int32(0x7fffff), i24)

	i8, err := c.Int8At(7)
	require.NoError(t, err)
	assert.Equal(t, int8(-2), i8)

	i16, err := c.Int16At(6)
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)
}

func TestCursorS15Fixed16(t *testing.T) {
	c := NewBytesCursor([]byte{0x00, 0x01, 0x80, 0x00, 0xff, 0xff, 0x00, 0x00})

	v, err := c.S15Fixed16()
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = c.S15Fixed16()
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
}

func TestCursorFloats(t *testing.T) {
	b := binary.BigEndian.AppendUint32(nil, 0x3fc00000) // 1.5
	b = binary.BigEndian.AppendUint64(b, 0xc004000000000000)
	c := NewBytesCursor(b)

	f32, err := c.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := c.Float64()
	require.NoError(t, err)
	assert.Equal(t, -2.5, f64)
}

func TestCursorBitAt(t *testing.T) {
	c := NewBytesCursor([]byte{0x05, 0x80})
	for i, want := range map[int64]bool{0: true, 1: false, 2: true, 7: false, 8: false, 15: true} {
		got, err := c.BitAt(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "bit %d", i)
	}
	_, err := c.BitAt(16)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestCursorLittleEndian(t *testing.T) {
	c := NewBytesCursor([]byte{0x01, 0x02, 0x03, 0x04})
	c.SetByteOrder(binary.LittleEndian)
	assert.Equal(t, binary.LittleEndian, c.ByteOrder())

	v, err := c.Uint32At(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), v)

	v24, err := c.Uint24At(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x030201), v24)
}

func TestCursorNullTerminated(t *testing.T) {
	c := NewBytesCursor([]byte("abc\x00def"))

	s, err := c.NullTerminatedString(10)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	assert.Equal(t, int64(4), c.Pos(), "terminator is consumed")

	// No terminator within maxLength: exactly maxLength bytes.
	s, n, err := c.NullTerminatedStringAt(4, 2)
	require.NoError(t, err)
	assert.Equal(t, "de", s)
	assert.Equal(t, 2, n)

	// Runs off the end without a terminator.
	_, err = c.NullTerminatedString(5)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, int64(4), c.Pos())

	// Empty string.
	c = NewBytesCursor([]byte{0, 'x'})
	b, err := c.NullTerminatedBytes(2)
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.Equal(t, int64(1), c.Pos())
}

func TestCursorSeekSkip(t *testing.T) {
	c := NewBytesCursor(make([]byte, 10))

	require.NoError(t, c.Seek(10))
	require.ErrorIs(t, c.Seek(11), ErrOutOfRange)
	assert.Equal(t, int64(10), c.Pos())

	require.NoError(t, c.Seek(2))
	require.NoError(t, c.Skip(3))
	assert.Equal(t, int64(5), c.Pos())
	require.ErrorIs(t, c.Skip(6), ErrOutOfRange)
	assert.Equal(t, int64(5), c.Pos())
	require.Error(t, c.Skip(-1))

	assert.Equal(t, int64(5), c.TrySkip(100))
	assert.Equal(t, int64(10), c.Pos())
	assert.Equal(t, int64(0), c.TrySkip(1))
}

func TestCursorStrings(t *testing.T) {
	c := NewBytesCursor([]byte("ftypheic"))
	s, err := c.StringAt(4, 4)
	require.NoError(t, err)
	assert.Equal(t, "heic", s)

	s, err = c.String(4)
	require.NoError(t, err)
	assert.Equal(t, "ftyp", s)
}
