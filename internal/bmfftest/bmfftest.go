// Package bmfftest builds ISO BMFF byte streams for tests.
package bmfftest

import "encoding/binary"

func U8(v uint8) []byte { return []byte{v} }

func U16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }

func U24(v uint32) []byte { return []byte{byte(v >> 16), byte(v >> 8), byte(v)} }

func U32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

func U64(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) }

// Str returns s without a terminator.
func Str(s string) []byte { return []byte(s) }

// CStr returns s followed by a zero byte.
func CStr(s string) []byte { return append([]byte(s), 0) }

// Cat concatenates parts.
func Cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Box returns a box with a 32-bit size.
func Box(typ string, payload ...[]byte) []byte {
	body := Cat(payload...)
	return Cat(U32(uint32(8+len(body))), Str(typ), body)
}

// FullBox returns a box whose payload starts with version and flags.
func FullBox(typ string, version uint8, flags uint32, payload ...[]byte) []byte {
	return Box(typ, append([][]byte{U8(version), U24(flags)}, payload...)...)
}

// LargeBox returns a box whose size is carried in the 64-bit field.
func LargeBox(typ string, payload ...[]byte) []byte {
	body := Cat(payload...)
	return Cat(U32(1), Str(typ), U64(uint64(16+len(body))), body)
}

// UnsizedBox returns a box with size 0, which extends to the end of its
// container.
func UnsizedBox(typ string, payload ...[]byte) []byte {
	return Cat(U32(0), Str(typ), Cat(payload...))
}

// UUIDBox returns a "uuid" box carrying userType.
func UUIDBox(userType [16]byte, payload ...[]byte) []byte {
	body := Cat(payload...)
	return Cat(U32(uint32(24+len(body))), Str("uuid"), userType[:], body)
}

// FileType returns an "ftyp" box.
func FileType(major string, minor uint32, compatible ...string) []byte {
	parts := [][]byte{Str(major), U32(minor)}
	for _, b := range compatible {
		parts = append(parts, Str(b))
	}
	return Box("ftyp", parts...)
}

// Handler returns an "hdlr" box.
func Handler(handlerType, name string) []byte {
	return FullBox("hdlr", 0, 0, U32(0), Str(handlerType), make([]byte, 12), CStr(name))
}

// Infe returns a version 2 "infe" box.
func Infe(itemID uint16, itemType, name string) []byte {
	return FullBox("infe", 2, 0, U16(itemID), U16(0), Str(itemType), CStr(name))
}

// Iinf returns a version 0 "iinf" box holding entries.
func Iinf(entries ...[]byte) []byte {
	return FullBox("iinf", 0, 0, append([][]byte{U16(uint16(len(entries)))}, entries...)...)
}

// IlocItem is one item of a version 1 "iloc" box with 4-byte offsets and
// lengths and a single extent.
type IlocItem struct {
	ID                 uint16
	ConstructionMethod uint8
	Offset, Length     uint32
}

// Iloc returns a version 1 "iloc" box with 4-byte offset and length
// fields, no base offset and no extent index.
func Iloc(items ...IlocItem) []byte {
	parts := [][]byte{U8(0x44), U8(0x00), U16(uint16(len(items)))}
	for _, it := range items {
		parts = append(parts,
			U16(it.ID), U16(uint16(it.ConstructionMethod)), U16(0),
			U16(1), U32(it.Offset), U32(it.Length))
	}
	return FullBox("iloc", 1, 0, parts...)
}

// IpmaEntry associates an item with 1-based property indices.
type IpmaEntry struct {
	ItemID  uint16
	Indices []uint8 // below 0x80; the essential bit is left clear
}

// Ipma returns a version 0 "ipma" box with 1-byte property indices.
func Ipma(entries ...IpmaEntry) []byte {
	parts := [][]byte{U32(uint32(len(entries)))}
	for _, e := range entries {
		parts = append(parts, U16(e.ItemID), U8(uint8(len(e.Indices))), e.Indices)
	}
	return FullBox("ipma", 0, 0, parts...)
}

// Ispe returns an "ispe" box.
func Ispe(width, height uint32) []byte {
	return FullBox("ispe", 0, 0, U32(width), U32(height))
}

// ExifPayload wraps TIFF data the way HEIF stores an Exif item: a 4-byte
// offset to the TIFF header followed by the "Exif\0\0" marker.
func ExifPayload(tiff []byte) []byte {
	return Cat(U32(6), Str("Exif\x00\x00"), tiff)
}

// OrientationTIFF returns a big-endian TIFF stream whose only IFD0 entry
// is Orientation (0x0112).
func OrientationTIFF(orientation uint16) []byte {
	return Cat(
		Str("MM"), U16(42), U32(8),
		U16(1),
		U16(0x0112), U16(3), U32(1), U16(orientation), U16(0),
		U32(0),
	)
}

// HEIC describes a minimal still image file.
type HEIC struct {
	MajorBrand string
	Brands     []string
	Exif       []byte   // Exif item payload, stored in mdat; none when nil
	Properties [][]byte // boxes placed in iprp/ipco
	Ipma       []byte   // placed in iprp after ipco; none when nil
	Extra      [][]byte // boxes appended to meta
}

// Bytes lays out ftyp, meta and mdat. The Exif item has ID 1 and the
// primary item ID 2.
func (h HEIC) Bytes() []byte {
	major := h.MajorBrand
	if major == "" {
		major = "heic"
	}
	ftyp := FileType(major, 0, h.Brands...)

	meta := func(exifOffset uint32) []byte {
		children := [][]byte{
			Handler("pict", ""),
			FullBox("pitm", 0, 0, U16(2)),
		}
		if h.Exif != nil {
			children = append(children,
				Iinf(Infe(1, "Exif", ""), Infe(2, "hvc1", "")),
				Iloc(IlocItem{ID: 1, Offset: exifOffset, Length: uint32(len(h.Exif))}))
		} else {
			children = append(children, Iinf(Infe(2, "hvc1", "")))
		}
		if len(h.Properties) > 0 || h.Ipma != nil {
			iprp := [][]byte{Box("ipco", h.Properties...)}
			if h.Ipma != nil {
				iprp = append(iprp, h.Ipma)
			}
			children = append(children, Box("iprp", iprp...))
		}
		children = append(children, h.Extra...)
		return FullBox("meta", 0, 0, children...)
	}

	first := meta(0)
	offset := uint32(len(ftyp) + len(first) + 8)
	return Cat(ftyp, meta(offset), Box("mdat", h.Exif))
}
