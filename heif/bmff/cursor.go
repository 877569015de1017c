/*
Copyright 2018 The go4 Authors

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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrOutOfRange is returned (wrapped) by every Cursor read, seek or skip
// that would extend past the end of the source.
var ErrOutOfRange = errors.New("bmff: read out of range")

// Cursor is a random-access reader over a fixed-length byte source with
// a current position.
//
// Every read comes in two forms: XxxAt reads at an explicit index and
// leaves the position alone, Xxx reads at the position and advances past
// the bytes it consumed. A failed read never moves the position.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	src    io.ReaderAt
	length int64
	pos    int64
	order  binary.ByteOrder
}

// NewCursor returns a big-endian Cursor over the first length bytes of src.
func NewCursor(src io.ReaderAt, length int64) *Cursor {
	if length < 0 {
		length = 0
	}
	return &Cursor{src: src, length: length, order: binary.BigEndian}
}

// NewBytesCursor returns a big-endian Cursor over b.
func NewBytesCursor(b []byte) *Cursor {
	return NewCursor(bytes.NewReader(b), int64(len(b)))
}

// SetByteOrder changes the order used by multi-byte reads.
// ISO BMFF is always big-endian ("Motorola" order).
func (c *Cursor) SetByteOrder(order binary.ByteOrder) { c.order = order }

func (c *Cursor) ByteOrder() binary.ByteOrder { return c.order }

// Len returns the length of the source.
func (c *Cursor) Len() int64 { return c.length }

// Pos returns the current position.
func (c *Cursor) Pos() int64 { return c.pos }

// Remaining returns the number of bytes between the position and the end
// of the source.
func (c *Cursor) Remaining() int64 { return c.length - c.pos }

func (c *Cursor) validate(index, n int64) error {
	if n < 0 || index < 0 || index > c.length || n > c.length-index {
		return fmt.Errorf("%w: %d bytes at offset %d (length %d)", ErrOutOfRange, n, index, c.length)
	}
	return nil
}

// Seek moves the position to pos, which may equal Len.
func (c *Cursor) Seek(pos int64) error {
	if err := c.validate(pos, 0); err != nil {
		return err
	}
	c.pos = pos
	return nil
}

// Skip advances the position by exactly n bytes or fails without moving.
func (c *Cursor) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("bmff: negative skip %d", n)
	}
	if err := c.validate(c.pos, n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// TrySkip advances the position by up to n bytes and reports how many
// bytes were actually skipped.
func (c *Cursor) TrySkip(n int64) int64 {
	if n <= 0 {
		return 0
	}
	if rem := c.Remaining(); n > rem {
		n = rem
	}
	c.pos += n
	return n
}

// BytesAt returns n bytes starting at index.
func (c *Cursor) BytesAt(index int64, n int) ([]byte, error) {
	if err := c.validate(index, int64(n)); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	got, err := c.src.ReadAt(buf, index)
	if got == n {
		return buf, nil
	}
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: short read of %d/%d bytes at offset %d", ErrOutOfRange, got, n, index)
	}
	return nil, fmt.Errorf("bmff: reading %d bytes at offset %d: %w", n, index, err)
}

// Bytes reads n bytes at the position.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	b, err := c.BytesAt(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += int64(n)
	return b, nil
}

func (c *Cursor) advance(n int64, err error) {
	if err == nil {
		c.pos += n
	}
}

func (c *Cursor) Uint8At(index int64) (uint8, error) {
	b, err := c.BytesAt(index, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) Uint8() (uint8, error) {
	v, err := c.Uint8At(c.pos)
	c.advance(1, err)
	return v, err
}

func (c *Cursor) Int8At(index int64) (int8, error) {
	v, err := c.Uint8At(index)
	return int8(v), err
}

func (c *Cursor) Int8() (int8, error) {
	v, err := c.Uint8()
	return int8(v), err
}

func (c *Cursor) Uint16At(index int64) (uint16, error) {
	b, err := c.BytesAt(index, 2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

func (c *Cursor) Uint16() (uint16, error) {
	v, err := c.Uint16At(c.pos)
	c.advance(2, err)
	return v, err
}

func (c *Cursor) Int16At(index int64) (int16, error) {
	v, err := c.Uint16At(index)
	return int16(v), err
}

func (c *Cursor) Int16() (int16, error) {
	v, err := c.Uint16()
	return int16(v), err
}

// Uint24At reads a 3-byte unsigned integer.
func (c *Cursor) Uint24At(index int64) (uint32, error) {
	b, err := c.BytesAt(index, 3)
	if err != nil {
		return 0, err
	}
	if c.order == binary.LittleEndian {
		return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (c *Cursor) Uint24() (uint32, error) {
	v, err := c.Uint24At(c.pos)
	c.advance(3, err)
	return v, err
}

// Int24At reads a 3-byte two's complement integer.
func (c *Cursor) Int24At(index int64) (int32, error) {
	v, err := c.Uint24At(index)
	if err != nil {
		return 0, err
	}
	return int32(v<<8) >> 8, nil
}

func (c *Cursor) Int24() (int32, error) {
	v, err := c.Int24At(c.pos)
	c.advance(3, err)
	return v, err
}

func (c *Cursor) Uint32At(index int64) (uint32, error) {
	b, err := c.BytesAt(index, 4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

func (c *Cursor) Uint32() (uint32, error) {
	v, err := c.Uint32At(c.pos)
	c.advance(4, err)
	return v, err
}

func (c *Cursor) Int32At(index int64) (int32, error) {
	v, err := c.Uint32At(index)
	return int32(v), err
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

func (c *Cursor) Uint64At(index int64) (uint64, error) {
	b, err := c.BytesAt(index, 8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(b), nil
}

func (c *Cursor) Uint64() (uint64, error) {
	v, err := c.Uint64At(c.pos)
	c.advance(8, err)
	return v, err
}

func (c *Cursor) Int64At(index int64) (int64, error) {
	v, err := c.Uint64At(index)
	return int64(v), err
}

func (c *Cursor) Int64() (int64, error) {
	v, err := c.Uint64()
	return int64(v), err
}

func (c *Cursor) Float32At(index int64) (float32, error) {
	v, err := c.Uint32At(index)
	return math.Float32frombits(v), err
}

func (c *Cursor) Float32() (float32, error) {
	v, err := c.Uint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) Float64At(index int64) (float64, error) {
	v, err := c.Uint64At(index)
	return math.Float64frombits(v), err
}

func (c *Cursor) Float64() (float64, error) {
	v, err := c.Uint64()
	return math.Float64frombits(v), err
}

// S15Fixed16At reads a signed 16.16 fixed-point number: a signed 16-bit
// integer part followed by a 16-bit fraction in units of 1/65536.
func (c *Cursor) S15Fixed16At(index int64) (float64, error) {
	v, err := c.Int32At(index)
	if err != nil {
		return 0, err
	}
	return float64(v) / 65536, nil
}

func (c *Cursor) S15Fixed16() (float64, error) {
	v, err := c.S15Fixed16At(c.pos)
	c.advance(4, err)
	return v, err
}

// BitAt reports whether bit bitIndex%8 (least significant first) of byte
// bitIndex/8 is set.
func (c *Cursor) BitAt(bitIndex int64) (bool, error) {
	if bitIndex < 0 {
		return false, fmt.Errorf("%w: bit index %d", ErrOutOfRange, bitIndex)
	}
	b, err := c.Uint8At(bitIndex / 8)
	if err != nil {
		return false, err
	}
	return (b>>(bitIndex%8))&1 == 1, nil
}

// StringAt returns n bytes at index as a string.
func (c *Cursor) StringAt(index int64, n int) (string, error) {
	b, err := c.BytesAt(index, n)
	return string(b), err
}

func (c *Cursor) String(n int) (string, error) {
	b, err := c.Bytes(n)
	return string(b), err
}

// NullTerminatedBytesAt reads at most maxLength bytes starting at index,
// stopping after the first zero byte. The terminator is not part of the
// returned value; consumed counts it when it was found.
func (c *Cursor) NullTerminatedBytesAt(index int64, maxLength int) (b []byte, consumed int, err error) {
	if maxLength < 0 {
		return nil, 0, fmt.Errorf("bmff: negative string length %d", maxLength)
	}
	n := maxLength
	if avail := c.length - index; index >= 0 && avail < int64(n) {
		n = int(avail)
	}
	buf, err := c.BytesAt(index, n)
	if err != nil {
		return nil, 0, err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return buf[:i], i + 1, nil
	}
	if n < maxLength {
		return nil, 0, fmt.Errorf("%w: unterminated string at offset %d", ErrOutOfRange, index)
	}
	return buf, n, nil
}

func (c *Cursor) NullTerminatedBytes(maxLength int) ([]byte, error) {
	b, n, err := c.NullTerminatedBytesAt(c.pos, maxLength)
	if err != nil {
		return nil, err
	}
	c.pos += int64(n)
	return b, nil
}

func (c *Cursor) NullTerminatedStringAt(index int64, maxLength int) (string, int, error) {
	b, n, err := c.NullTerminatedBytesAt(index, maxLength)
	return string(b), n, err
}

func (c *Cursor) NullTerminatedString(maxLength int) (string, error) {
	b, err := c.NullTerminatedBytes(maxLength)
	return string(b), err
}
