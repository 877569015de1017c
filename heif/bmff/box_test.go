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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bt "github.com/jdeng/heifmeta/internal/bmfftest"
)

var testUserType = [16]byte{0xa5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

func TestReadBoxHeaderSizes(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		headerSize int64
		size       uint64
	}{
		{"plain", bt.Box("free", make([]byte, 4)), 8, 12},
		{"large", bt.LargeBox("mdat", make([]byte, 4)), 16, 20},
		{"uuid", bt.UUIDBox(testUserType, make([]byte, 4)), 24, 28},
		{"large uuid", bt.Cat(bt.U32(1), bt.Str("uuid"), bt.U64(36), testUserType[:], make([]byte, 4)), 32, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBytesCursor(tt.data)
			b, err := ReadBox(c)
			require.NoError(t, err)
			assert.Equal(t, tt.headerSize, b.HeaderSize)
			assert.Equal(t, tt.size, b.Size)
			assert.Equal(t, tt.headerSize, c.Pos())
			assert.Equal(t, int64(len(tt.data)), b.End())

			// The header encodes back to the bytes it was read from.
			assert.Equal(t, tt.data[:tt.headerSize], b.AppendHeader(nil))
		})
	}
}

func TestReadBoxUserType(t *testing.T) {
	b, err := ReadBox(NewBytesCursor(bt.UUIDBox(testUserType)))
	require.NoError(t, err)
	assert.Equal(t, TypeUUID, b.Type)
	assert.Equal(t, testUserType[:], b.UserType)
}

func TestReadBoxUnsized(t *testing.T) {
	c := NewBytesCursor(bt.UnsizedBox("mdat", make([]byte, 10)))
	b, err := ReadBox(c)
	require.NoError(t, err)
	assert.True(t, b.IsLast())
	assert.Equal(t, int64(-1), b.End())
	assert.Equal(t, int64(10), b.Remaining(c))
	assert.Equal(t, "mdat", b.Type.String())
	assert.True(t, b.Type.EqualString("mdat"))
	assert.False(t, b.Type.EqualString("mdat "))
}

func TestReadBoxErrorsRestorePosition(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", []byte{0, 0, 0, 8, 'f'}, ErrOutOfRange},
		{"size below header", bt.Cat(bt.U32(4), bt.Str("free")), ErrInvalidBoxSize},
		{"large size below header", bt.Cat(bt.U32(1), bt.Str("free"), bt.U64(12)), ErrInvalidBoxSize},
		{"large size overflow", bt.Cat(bt.U32(1), bt.Str("free"), bt.U64(1<<63)), ErrInvalidBoxSize},
		{"truncated large size", bt.Cat(bt.U32(1), bt.Str("free"), bt.U32(0)), ErrOutOfRange},
		{"truncated user type", bt.Cat(bt.U32(24), bt.Str("uuid"), make([]byte, 8)), ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte{0xff, 0xff}, tt.data...)
			c := NewBytesCursor(data)
			require.NoError(t, c.Seek(2))
			_, err := ReadBox(c)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, int64(2), c.Pos())
		})
	}
}

func TestReadFullBox(t *testing.T) {
	c := NewBytesCursor(bt.FullBox("pitm", 1, 0x0a0b0c, bt.U32(7)))
	b, err := ReadBox(c)
	require.NoError(t, err)
	fb, err := ReadFullBox(c, b)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), fb.Version)
	assert.Equal(t, uint32(0x0a0b0c), fb.Flags)
	assert.Equal(t, int64(12), c.Pos())

	c = NewBytesCursor(bt.Cat(bt.U32(10), bt.Str("pitm"), bt.U16(0)))
	b, err = ReadBox(c)
	require.NoError(t, err)
	_, err = ReadFullBox(c, b)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, int64(8), c.Pos())
}
