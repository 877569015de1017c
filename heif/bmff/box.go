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

// Package bmff reads ISO BMFF boxes, as used by HEIF, etc.
//
// This is not so much as a generic BMFF reader as it is a BMFF reader
// as needed by HEIF metadata extraction. Boxes are read through a Cursor
// over a random-access source; every decoder leaves the cursor exactly at
// the end of the box it decoded.
package bmff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

type BoxType [4]byte

func boxType(s string) BoxType {
	if len(s) != 4 {
		panic("bogus boxType length")
	}
	return BoxType{s[0], s[1], s[2], s[3]}
}

// Box types known to this package.
var (
	TypeFtyp = boxType("ftyp")
	TypeMeta = boxType("meta")
	TypeMdat = boxType("mdat")
	TypeHdlr = boxType("hdlr")
	TypeIinf = boxType("iinf")
	TypeInfe = boxType("infe")
	TypeIloc = boxType("iloc")
	TypeIpro = boxType("ipro")
	TypeSinf = boxType("sinf")
	TypePitm = boxType("pitm")
	TypeIprp = boxType("iprp")
	TypeIpco = boxType("ipco")
	TypeIpma = boxType("ipma")
	TypeIspe = boxType("ispe")
	TypePixi = boxType("pixi")
	TypeAuxC = boxType("auxC")
	TypeIrot = boxType("irot")
	TypeImir = boxType("imir")
	TypeColr = boxType("colr")
	TypeIdat = boxType("idat")
	TypeHvcC = boxType("hvcC")
	TypeAv1C = boxType("av1C")
	TypeUUID = boxType("uuid")
)

func (t BoxType) String() string { return string(t[:]) }

func (t BoxType) EqualString(s string) bool {
	// Could be cleaner, but see https://github.com/golang/go/issues/24765
	return len(s) == 4 && s[0] == t[0] && s[1] == t[1] && s[2] == t[2] && s[3] == t[3]
}

var (
	// ErrInvalidBoxSize is returned when a box declares a size smaller
	// than its own header.
	ErrInvalidBoxSize = errors.New("bmff: invalid box size")

	// ErrUnsupportedVersion is returned for FullBox versions a decoder
	// does not know the layout of.
	ErrUnsupportedVersion = errors.New("bmff: unsupported box version")

	// ErrInvalidFieldWidth is returned for iloc width selectors outside
	// {0, 1, 2, 4, 8}.
	ErrInvalidFieldWidth = errors.New("bmff: invalid field width")

	// ErrBoxOverrun is returned when a decoder consumed more bytes than
	// the box declared.
	ErrBoxOverrun = errors.New("bmff: read past end of box")
)

// Box is a decoded box envelope.
type Box struct {
	Offset     int64   // position of the first header byte
	Size       uint64  // total size including the header; 0 means the box extends to the end of its container
	Type       BoxType //
	UserType   []byte  // 16 bytes when Type is "uuid", nil otherwise
	HeaderSize int64   // bytes consumed by the header: 8, 16, 24 or 32
	LargeSize  bool    // size was carried in the 64-bit field
}

// ReadBox reads the box envelope at the cursor position.
// On error the cursor is left where it was.
func ReadBox(c *Cursor) (Box, error) {
	start := c.Pos()
	b, err := readBox(c)
	if err != nil {
		c.Seek(start)
		return Box{}, err
	}
	return b, nil
}

func readBox(c *Cursor) (Box, error) {
	b := Box{Offset: c.Pos()}
	size, err := c.Uint32()
	if err != nil {
		return b, err
	}
	typ, err := c.Bytes(4)
	if err != nil {
		return b, err
	}
	copy(b.Type[:], typ)
	b.Size = uint64(size)

	if size == 1 {
		// 1 means it's actually a 64-bit size, after the type.
		b.Size, err = c.Uint64()
		if err != nil {
			return b, err
		}
		if b.Size > math.MaxInt64 {
			// BMFF uses uint64 but nobody actually uses boxes larger
			// than int64.
			return b, fmt.Errorf("%w: unexpectedly large box %q", ErrInvalidBoxSize, b.Type)
		}
		b.LargeSize = true
	}
	if b.Type == TypeUUID {
		b.UserType, err = c.Bytes(16)
		if err != nil {
			return b, err
		}
	}
	b.HeaderSize = c.Pos() - b.Offset
	if b.Size != 0 && b.Size < uint64(b.HeaderSize) {
		return b, fmt.Errorf("%w: box header for %q has size %d, header alone is %d", ErrInvalidBoxSize, b.Type, b.Size, b.HeaderSize)
	}
	return b, nil
}

// IsLast reports whether this box has no declared length, which makes it
// the last box of its container.
func (b Box) IsLast() bool { return b.Size == 0 }

// End returns the offset just past the box, or -1 when the box extends
// to the end of its container.
func (b Box) End() int64 {
	if b.Size == 0 {
		return -1
	}
	return b.Offset + int64(b.Size)
}

// Remaining returns the number of box bytes after the cursor position.
// It is negative when the cursor is past the end of the box.
func (b Box) Remaining(c *Cursor) int64 {
	if b.Size == 0 {
		return c.Remaining()
	}
	return b.End() - c.Pos()
}

// finish moves the cursor to the end of the box, skipping declared bytes
// the decoder did not interpret.
func (b Box) finish(c *Cursor) error {
	if b.Size == 0 {
		return nil
	}
	rem := b.Remaining(c)
	if rem < 0 {
		return fmt.Errorf("%w: %q read %d bytes beyond its size %d", ErrBoxOverrun, b.Type, -rem, b.Size)
	}
	return c.Skip(rem)
}

// overrun reports a read that failed past the end of the data as
// ErrBoxOverrun when b itself lies within the data.
func (b Box) overrun(c *Cursor, err error) error {
	if b.Size == 0 || b.End() > c.Len() || !errors.Is(err, ErrOutOfRange) {
		return err
	}
	return fmt.Errorf("%w: %q: %v", ErrBoxOverrun, b.Type, err)
}

// AppendHeader appends the wire form of the box header to dst.
func (b Box) AppendHeader(dst []byte) []byte {
	if b.LargeSize {
		dst = binary.BigEndian.AppendUint32(dst, 1)
		dst = append(dst, b.Type[:]...)
		dst = binary.BigEndian.AppendUint64(dst, b.Size)
	} else {
		dst = binary.BigEndian.AppendUint32(dst, uint32(b.Size))
		dst = append(dst, b.Type[:]...)
	}
	if b.Type == TypeUUID {
		var ut [16]byte
		copy(ut[:], b.UserType)
		dst = append(dst, ut[:]...)
	}
	return dst
}

func (b Box) String() string {
	return fmt.Sprintf("[%s] offset=%d, size=%d, header=%d", b.Type, b.Offset, b.Size, b.HeaderSize)
}

type FullBox struct {
	Box
	Version uint8
	Flags   uint32 // 24 bits
}

// ReadFullBox reads the version and flags that follow the envelope of a
// "full" box.
func ReadFullBox(c *Cursor, b Box) (FullBox, error) {
	fb := FullBox{Box: b}
	v, err := c.Uint8()
	if err != nil {
		return FullBox{}, fmt.Errorf("failed to read 4 bytes of FullBox: %w", err)
	}
	flags, err := c.Uint24()
	if err != nil {
		c.Seek(c.Pos() - 1)
		return FullBox{}, fmt.Errorf("failed to read 4 bytes of FullBox: %w", err)
	}
	fb.Version = v
	fb.Flags = flags
	return fb, nil
}
