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
	"encoding/binary"
	"fmt"
	"strings"
)

// remainingInt returns the bytes left in b as an int, 0 when none.
func remainingInt(c *Cursor, b Box) int {
	rem := b.Remaining(c)
	if rem <= 0 {
		return 0
	}
	if rem > int64(c.Remaining()) {
		rem = c.Remaining()
	}
	return int(rem)
}

// readRemainingString reads a null-terminated string bounded by the rest
// of the box. It returns "" when the box has no bytes left.
func readRemainingString(c *Cursor, b Box) (string, error) {
	n := remainingInt(c, b)
	if n == 0 {
		return "", nil
	}
	return c.NullTerminatedString(n)
}

type FileTypeBox struct {
	Box
	MajorBrand       string   // 4 bytes
	MinorVersion     uint32   //
	CompatibleBrands []string // all 4 bytes
}

// HasCompatibleBrand reports whether brand is listed as compatible.
func (ft *FileTypeBox) HasCompatibleBrand(brand string) bool {
	for _, b := range ft.CompatibleBrands {
		if b == brand {
			return true
		}
	}
	return false
}

func ReadFileTypeBox(c *Cursor, b Box) (*FileTypeBox, error) {
	major, err := c.String(4)
	if err != nil {
		return nil, err
	}
	minor, err := c.Uint32()
	if err != nil {
		return nil, err
	}
	ft := &FileTypeBox{Box: b, MajorBrand: major, MinorVersion: minor}
	for remainingInt(c, b) >= 4 {
		brand, err := c.String(4)
		if err != nil {
			return nil, err
		}
		ft.CompatibleBrands = append(ft.CompatibleBrands, brand)
	}
	return ft, b.finish(c)
}

// a "hdlr" box.
type HandlerBox struct {
	FullBox
	HandlerType string // always 4 bytes; usually "pict" for iOS Camera images
	Name        string
}

func ReadHandlerBox(c *Cursor, b Box) (*HandlerBox, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	hb := &HandlerBox{FullBox: fb}
	if err := c.Skip(4); err != nil { // pre_defined
		return nil, err
	}
	if hb.HandlerType, err = c.String(4); err != nil {
		return nil, err
	}
	if err := c.Skip(12); err != nil { // reserved
		return nil, err
	}
	if hb.Name, err = readRemainingString(c, b); err != nil {
		return nil, err
	}
	return hb, b.finish(c)
}

// ItemInfoEntry represents an "infe" box. Which fields are set depends on
// the box version and, from version 2 on, on the item type. Fields that
// were not present in the box are left empty.
type ItemInfoEntry struct {
	FullBox

	ItemID          uint32
	ProtectionIndex uint16
	ItemType        string // always 4 bytes; version 2 and later

	ItemName string

	ContentType     string
	ContentEncoding string // version 0/1: always 4 bytes, version 1 only
	ExtensionType   string // version 0/1 only

	// If ItemType == "uri ":
	ItemURIType string
}

func ReadItemInfoEntry(c *Cursor, b Box) (*ItemInfoEntry, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	ie := &ItemInfoEntry{FullBox: fb}

	switch fb.Version {
	case 0, 1:
		id, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		ie.ItemID = uint32(id)
		if ie.ProtectionIndex, err = c.Uint16(); err != nil {
			return nil, err
		}
		for _, dst := range []*string{&ie.ItemName, &ie.ContentType, &ie.ExtensionType} {
			if *dst, err = readRemainingString(c, b); err != nil {
				return nil, err
			}
		}
		if fb.Version == 1 && b.Remaining(c) >= 4 {
			if ie.ContentEncoding, err = c.String(4); err != nil {
				return nil, err
			}
		}
	case 2, 3:
		if fb.Version == 2 {
			id, err := c.Uint16()
			if err != nil {
				return nil, err
			}
			ie.ItemID = uint32(id)
		} else if ie.ItemID, err = c.Uint32(); err != nil {
			return nil, err
		}
		if ie.ProtectionIndex, err = c.Uint16(); err != nil {
			return nil, err
		}
		if ie.ItemType, err = c.String(4); err != nil {
			return nil, err
		}
		if ie.ItemName, err = readRemainingString(c, b); err != nil {
			return nil, err
		}
		switch ie.ItemType {
		case "mime":
			if ie.ContentType, err = readRemainingString(c, b); err != nil {
				return nil, err
			}
			if ie.ContentEncoding, err = readRemainingString(c, b); err != nil {
				return nil, err
			}
		case "uri ":
			if n := remainingInt(c, b); n > 0 {
				if ie.ItemURIType, err = c.String(n); err != nil {
					return nil, err
				}
				ie.ItemURIType = strings.TrimRight(ie.ItemURIType, "\x00")
			}
		}
	default:
		if err := b.finish(c); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: infe version %d", ErrUnsupportedVersion, fb.Version)
	}
	return ie, b.finish(c)
}

// ItemInfoBox represents an "iinf" box.
type ItemInfoBox struct {
	FullBox
	EntryCount uint32
	Entries    map[uint32]*ItemInfoEntry
	ItemIDs    []uint32 // in box order

	exif *ItemInfoEntry
}

// ExifEntry returns the first entry of item type "Exif", or nil.
func (ib *ItemInfoBox) ExifEntry() *ItemInfoEntry { return ib.exif }

// Entry returns the entry for an item ID.
func (ib *ItemInfoBox) Entry(id uint32) (*ItemInfoEntry, bool) {
	e, ok := ib.Entries[id]
	return e, ok
}

func ReadItemInfoBox(c *Cursor, b Box) (*ItemInfoBox, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	ib := &ItemInfoBox{FullBox: fb, Entries: make(map[uint32]*ItemInfoEntry)}

	if ib.Version == 0 {
		count, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		ib.EntryCount = uint32(count)
	} else if ib.EntryCount, err = c.Uint32(); err != nil {
		return nil, err
	}

	for i := uint32(0); i < ib.EntryCount && b.Remaining(c) > 0; i++ {
		inner, err := ReadBox(c)
		if err != nil {
			return nil, err
		}
		if inner.Type != TypeInfe || inner.IsLast() {
			if err := inner.finish(c); err != nil {
				return nil, err
			}
			continue
		}
		ie, err := ReadItemInfoEntry(c, inner)
		if err != nil {
			return nil, fmt.Errorf("error parsing ItemInfoEntry in ItemInfoBox: %w", err)
		}
		if _, dup := ib.Entries[ie.ItemID]; dup {
			continue
		}
		ib.Entries[ie.ItemID] = ie
		ib.ItemIDs = append(ib.ItemIDs, ie.ItemID)
		if ib.exif == nil && ie.ItemType == "Exif" {
			ib.exif = ie
		}
	}
	return ib, b.finish(c)
}

// not a box
type Extent struct {
	Index    uint64
	HasIndex bool // index is only stored by version 1 and 2 boxes with a non-zero index size
	Offset   uint64
	Length   uint64
}

// not a box
type ItemLocation struct {
	ItemID             uint32
	ConstructionMethod uint8 // actually uint4
	DataReferenceIndex uint16
	BaseOffset         []byte // BaseOffsetSize raw bytes
	Extents            []Extent
}

// BaseOffsetValue returns BaseOffset as a big-endian unsigned integer.
func (l *ItemLocation) BaseOffsetValue() uint64 {
	var v uint64
	for _, b := range l.BaseOffset {
		v = v<<8 | uint64(b)
	}
	return v
}

// box "iloc"
type ItemLocationBox struct {
	FullBox

	OffsetSize, LengthSize, BaseOffsetSize, IndexSize uint8 // actually uint4

	ItemCount uint32
	Locations map[uint32]*ItemLocation
	ItemIDs   []uint32 // in box order
}

// Location returns the location of an item ID.
func (ilb *ItemLocationBox) Location(id uint32) (*ItemLocation, bool) {
	l, ok := ilb.Locations[id]
	return l, ok
}

// ReadSizedUint reads an unsigned integer of width bytes. A width of 0
// means the field is absent and reports ok == false.
func ReadSizedUint(c *Cursor, width uint8) (v uint64, ok bool, err error) {
	switch width {
	case 0:
		return 0, false, nil
	case 1:
		b, err := c.Uint8()
		return uint64(b), err == nil, err
	case 2:
		b, err := c.Uint16()
		return uint64(b), err == nil, err
	case 4:
		b, err := c.Uint32()
		return uint64(b), err == nil, err
	case 8:
		v, err = c.Uint64()
		return v, err == nil, err
	default:
		return 0, false, fmt.Errorf("%w: %d bytes", ErrInvalidFieldWidth, width)
	}
}

func validWidth(w uint8) bool {
	return w == 0 || w == 1 || w == 2 || w == 4 || w == 8
}

// ReadItemLocationBox reads an "iloc" box. Items are read while the box
// has bytes left, whatever count it declares. A read that runs past the
// end of the box is ErrBoxOverrun.
func ReadItemLocationBox(c *Cursor, b Box) (*ItemLocationBox, error) {
	ilb, err := readItemLocationBox(c, b)
	if err != nil {
		return nil, b.overrun(c, err)
	}
	return ilb, nil
}

func readItemLocationBox(c *Cursor, b Box) (*ItemLocationBox, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	if fb.Version > 2 {
		if err := b.finish(c); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: iloc version %d", ErrUnsupportedVersion, fb.Version)
	}
	ilb := &ItemLocationBox{FullBox: fb, Locations: make(map[uint32]*ItemLocation)}
	sizes, err := c.Bytes(2)
	if err != nil {
		return nil, err
	}
	ilb.OffsetSize = sizes[0] >> 4
	ilb.LengthSize = sizes[0] & 15
	ilb.BaseOffsetSize = sizes[1] >> 4
	if fb.Version == 1 || fb.Version == 2 {
		ilb.IndexSize = sizes[1] & 15
	}
	for _, w := range []uint8{ilb.OffsetSize, ilb.LengthSize, ilb.BaseOffsetSize, ilb.IndexSize} {
		if !validWidth(w) {
			if err := b.finish(c); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: iloc declares %d bytes", ErrInvalidFieldWidth, w)
		}
	}

	readID := func() (uint32, error) {
		if fb.Version < 2 {
			v, err := c.Uint16()
			return uint32(v), err
		}
		return c.Uint32()
	}
	if ilb.ItemCount, err = readID(); err != nil {
		return nil, err
	}

	for i := uint32(0); i < ilb.ItemCount && b.Remaining(c) > 0; i++ {
		loc, err := ilb.readLocation(c, b, readID)
		if err != nil {
			return nil, err
		}
		if _, dup := ilb.Locations[loc.ItemID]; !dup {
			ilb.Locations[loc.ItemID] = loc
			ilb.ItemIDs = append(ilb.ItemIDs, loc.ItemID)
		}
	}
	return ilb, b.finish(c)
}

func (ilb *ItemLocationBox) readLocation(c *Cursor, b Box, readID func() (uint32, error)) (*ItemLocation, error) {
	v1or2 := ilb.Version == 1 || ilb.Version == 2
	loc := &ItemLocation{}
	var err error
	if loc.ItemID, err = readID(); err != nil {
		return nil, err
	}
	if v1or2 {
		cmeth, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		loc.ConstructionMethod = byte(cmeth & 15)
	}
	if loc.DataReferenceIndex, err = c.Uint16(); err != nil {
		return nil, err
	}
	if loc.BaseOffset, err = c.Bytes(int(ilb.BaseOffsetSize)); err != nil {
		return nil, err
	}
	extentCount, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	if b.Remaining(c) < 0 {
		return nil, b.finish(c)
	}
	loc.Extents = make([]Extent, 0, extentCount)
	for j := 0; j < int(extentCount); j++ {
		var ext Extent
		if v1or2 {
			if ext.Index, ext.HasIndex, err = ReadSizedUint(c, ilb.IndexSize); err != nil {
				return nil, err
			}
		}
		if ext.Offset, _, err = ReadSizedUint(c, ilb.OffsetSize); err != nil {
			return nil, err
		}
		if ext.Length, _, err = ReadSizedUint(c, ilb.LengthSize); err != nil {
			return nil, err
		}
		if b.Remaining(c) < 0 {
			return nil, b.finish(c)
		}
		loc.Extents = append(loc.Extents, ext)
	}
	return loc, nil
}

// ItemPropertyAssociation represents an "ipma" box.
type ItemPropertyAssociation struct {
	FullBox
	EntryCount uint32
	Entries    []ItemPropertyAssociationItem
}

// not a box
type ItemProperty struct {
	Essential bool
	Index     uint16 // 1-based position in the ipco box, 0 means none
}

// not a box
type ItemPropertyAssociationItem struct {
	ItemID            uint32
	AssociationsCount int            // as declared
	Associations      []ItemProperty // as parsed
}

// Associations returns the property associations of the first entry for
// an item.
func (ipa *ItemPropertyAssociation) Associations(id uint32) ([]ItemProperty, bool) {
	for _, e := range ipa.Entries {
		if e.ItemID == id {
			return e.Associations, true
		}
	}
	return nil, false
}

func ReadItemPropertyAssociation(c *Cursor, b Box) (*ItemPropertyAssociation, error) {
	ipa, err := readItemPropertyAssociation(c, b)
	if err != nil {
		return nil, b.overrun(c, err)
	}
	return ipa, nil
}

func readItemPropertyAssociation(c *Cursor, b Box) (*ItemPropertyAssociation, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	ipa := &ItemPropertyAssociation{FullBox: fb}
	if ipa.EntryCount, err = c.Uint32(); err != nil {
		return nil, err
	}

	for i := uint32(0); i < ipa.EntryCount && b.Remaining(c) > 0; i++ {
		var item ItemPropertyAssociationItem
		if fb.Version < 1 {
			id, err := c.Uint16()
			if err != nil {
				return nil, err
			}
			item.ItemID = uint32(id)
		} else if item.ItemID, err = c.Uint32(); err != nil {
			return nil, err
		}
		count, err := c.Uint8()
		if err != nil {
			return nil, err
		}
		item.AssociationsCount = int(count)
		for j := 0; j < int(count); j++ {
			first, err := c.Uint8()
			if err != nil {
				return nil, err
			}
			prop := ItemProperty{Essential: first&(1<<7) != 0}
			first &^= 1 << 7
			if fb.Flags&1 != 0 {
				second, err := c.Uint8()
				if err != nil {
					return nil, err
				}
				prop.Index = uint16(first)<<8 | uint16(second)
			} else {
				prop.Index = uint16(first)
			}
			item.Associations = append(item.Associations, prop)
		}
		if b.Remaining(c) < 0 {
			return nil, b.finish(c)
		}
		ipa.Entries = append(ipa.Entries, item)
	}
	return ipa, b.finish(c)
}

// "ipro" box. The protection scheme boxes are kept as envelopes only.
type ItemProtectionBox struct {
	FullBox
	ProtectionCount uint16
	Schemes         []Box
}

func ReadItemProtectionBox(c *Cursor, b Box) (*ItemProtectionBox, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	ipb := &ItemProtectionBox{FullBox: fb}
	if ipb.ProtectionCount, err = c.Uint16(); err != nil {
		return nil, err
	}
	for i := 0; i < int(ipb.ProtectionCount) && b.Remaining(c) > 0; i++ {
		inner, err := ReadBox(c)
		if err != nil {
			return nil, err
		}
		if err := inner.finish(c); err != nil {
			return nil, err
		}
		ipb.Schemes = append(ipb.Schemes, inner)
		if inner.IsLast() {
			break
		}
	}
	return ipb, b.finish(c)
}

// "pitm" box
type PrimaryItemBox struct {
	FullBox
	ItemID uint32
}

func ReadPrimaryItemBox(c *Cursor, b Box) (*PrimaryItemBox, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	pib := &PrimaryItemBox{FullBox: fb}
	if fb.Version == 0 {
		id, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		pib.ItemID = uint32(id)
	} else if pib.ItemID, err = c.Uint32(); err != nil {
		return nil, err
	}
	return pib, b.finish(c)
}

type ImageSpatialExtentsProperty struct {
	FullBox
	ImageWidth  uint32
	ImageHeight uint32
}

func ReadImageSpatialExtentsProperty(c *Cursor, b Box) (*ImageSpatialExtentsProperty, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	w, err := c.Uint32()
	if err != nil {
		return nil, err
	}
	h, err := c.Uint32()
	if err != nil {
		return nil, err
	}
	return &ImageSpatialExtentsProperty{
		FullBox:     fb,
		ImageWidth:  w,
		ImageHeight: h,
	}, b.finish(c)
}

// "pixi" box
type PixelInformationBox struct {
	FullBox
	BitsPerChannel []uint8
}

func ReadPixelInformationBox(c *Cursor, b Box) (*PixelInformationBox, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	n, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	bits, err := c.Bytes(int(n))
	if err != nil {
		return nil, err
	}
	return &PixelInformationBox{FullBox: fb, BitsPerChannel: bits}, b.finish(c)
}

// "auxC" box
type AuxiliaryTypeProperty struct {
	FullBox
	AuxType    string // URN, e.g. urn:mpeg:hevc:2015:auxid:1 for alpha planes
	AuxSubtype []byte
}

func ReadAuxiliaryTypeProperty(c *Cursor, b Box) (*AuxiliaryTypeProperty, error) {
	fb, err := ReadFullBox(c, b)
	if err != nil {
		return nil, err
	}
	ap := &AuxiliaryTypeProperty{FullBox: fb}
	s, err := readRemainingString(c, b)
	if err != nil {
		return nil, err
	}
	ap.AuxType = strings.TrimSpace(s)
	if n := remainingInt(c, b); n > 0 {
		if ap.AuxSubtype, err = c.Bytes(n); err != nil {
			return nil, err
		}
	}
	return ap, b.finish(c)
}

// ImageRotationBox is a HEIF "irot" rotation property.
type ImageRotationBox struct {
	Box
	Angle uint8 // 1 means 90 degrees counter-clockwise, 2 means 180 counter-clockwise
}

// Degrees returns the counter-clockwise rotation in degrees.
func (r *ImageRotationBox) Degrees() int { return 90 * int(r.Angle) }

func ReadImageRotationBox(c *Cursor, b Box) (*ImageRotationBox, error) {
	v, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	// The upper 6 bits are reserved.
	return &ImageRotationBox{Box: b, Angle: v & 3}, b.finish(c)
}

// Mirror axes of an "imir" box.
const (
	MirrorVertical   uint8 = 0
	MirrorHorizontal uint8 = 1
)

// ImageMirrorBox is a HEIF "imir" mirror property.
type ImageMirrorBox struct {
	Box
	Axis uint8
}

func ReadImageMirrorBox(c *Cursor, b Box) (*ImageMirrorBox, error) {
	v, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	return &ImageMirrorBox{Box: b, Axis: v & 1}, b.finish(c)
}

// ItemDataBox is an "idat" box. Only the location of its payload is
// recorded; items with construction method 1 are addressed relative to it.
type ItemDataBox struct {
	Box
	DataOffset int64
	DataSize   int64
}

func ReadItemDataBox(c *Cursor, b Box) (*ItemDataBox, error) {
	idb := &ItemDataBox{Box: b, DataOffset: c.Pos(), DataSize: b.Remaining(c)}
	if b.IsLast() {
		c.TrySkip(idb.DataSize)
		return idb, nil
	}
	return idb, b.finish(c)
}

// Colour types of a "colr" box.
const (
	ColourTypeNCLX            = "nclx"
	ColourTypeRestrictedICC   = "rICC"
	ColourTypeUnrestrictedICC = "prof"
)

// ColourInformationBox is a "colr" box carrying either nclx parameters or
// an ICC profile.
type ColourInformationBox struct {
	Box
	ColourType string

	// nclx
	ColourPrimaries         uint16
	TransferCharacteristics uint16
	MatrixCoefficients      uint16
	FullRange               bool

	// rICC / prof
	ICCProfile []byte
}

func ReadColourInformationBox(c *Cursor, b Box) (*ColourInformationBox, error) {
	ct, err := c.String(4)
	if err != nil {
		return nil, err
	}
	cb := &ColourInformationBox{Box: b, ColourType: ct}
	switch ct {
	case ColourTypeNCLX:
		buf, err := c.Bytes(7)
		if err != nil {
			return nil, err
		}
		cb.ColourPrimaries = binary.BigEndian.Uint16(buf[0:2])
		cb.TransferCharacteristics = binary.BigEndian.Uint16(buf[2:4])
		cb.MatrixCoefficients = binary.BigEndian.Uint16(buf[4:6])
		cb.FullRange = buf[6]&0x80 != 0
	case ColourTypeRestrictedICC, ColourTypeUnrestrictedICC:
		if cb.ICCProfile, err = c.Bytes(remainingInt(c, b)); err != nil {
			return nil, err
		}
	}
	return cb, b.finish(c)
}

// HevcConfigBox is a HEIF "hvcC" property. Only the decoder configuration
// record header and the NAL unit arrays are kept.
type HevcConfigBox struct {
	Box
	ConfigurationVersion             uint8
	GeneralProfileSpace              uint8
	GeneralTierFlag                  uint8
	GeneralProfileIdc                uint8
	GeneralProfileCompatibilityFlags uint32
	GeneralLevelIdc                  uint8
	ChromaFormat                     uint8 // 0 monochrome, 1 4:2:0, 2 4:2:2, 3 4:4:4
	BitDepthLuma                     uint8
	BitDepthChroma                   uint8
	NALArrays                        []HevcNALArray
}

type HevcNALArray struct {
	Completeness uint8
	UnitType     uint8
	Units        [][]byte
}

// AsHeader returns the NAL units with 4-byte length prefixes, as expected
// by HEVC decoders.
func (hb *HevcConfigBox) AsHeader() []byte {
	var out []byte
	for _, na := range hb.NALArrays {
		for _, unit := range na.Units {
			out = binary.BigEndian.AppendUint32(out, uint32(len(unit)))
			out = append(out, unit...)
		}
	}
	return out
}

func ReadHevcConfigBox(c *Cursor, b Box) (*HevcConfigBox, error) {
	buf, err := c.Bytes(23)
	if err != nil {
		return nil, err
	}
	hb := &HevcConfigBox{Box: b}
	hb.ConfigurationVersion = buf[0]
	hb.GeneralProfileSpace = (buf[1] >> 6) & 3
	hb.GeneralTierFlag = (buf[1] >> 5) & 1
	hb.GeneralProfileIdc = buf[1] & 0x1F
	hb.GeneralProfileCompatibilityFlags = binary.BigEndian.Uint32(buf[2:6])
	// buf[6:12] general_constraint_indicator_flags
	hb.GeneralLevelIdc = buf[12]
	// buf[13:15] min_spatial_segmentation_idc, buf[15] parallelismType
	hb.ChromaFormat = buf[16] & 3
	hb.BitDepthLuma = buf[17]&7 + 8
	hb.BitDepthChroma = buf[18]&7 + 8
	// buf[19:21] avgFrameRate, buf[21] frame rate / temporal layers
	numArrays := int(buf[22])

	for i := 0; i < numArrays; i++ {
		ch, err := c.Uint8()
		if err != nil {
			return nil, err
		}
		na := HevcNALArray{Completeness: (ch >> 7) & 1, UnitType: ch & 0x3F}
		numUnits, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(numUnits); j++ {
			size, err := c.Uint16()
			if err != nil {
				return nil, err
			}
			if size == 0 { // ignore empty NAL units
				continue
			}
			unit, err := c.Bytes(int(size))
			if err != nil {
				return nil, err
			}
			na.Units = append(na.Units, unit)
		}
		hb.NALArrays = append(hb.NALArrays, na)
	}
	return hb, b.finish(c)
}

// Av1ConfigBox is a HEIF "av1C" property.
type Av1ConfigBox struct {
	Box
	Marker               uint8 // must be 1
	Version              uint8 // must be 1
	SeqProfile           uint8
	SeqLevelIdx0         uint8
	SeqTier0             uint8
	HighBitdepth         bool
	TwelveBit            bool
	Monochrome           bool
	ChromaSubsamplingX   uint8
	ChromaSubsamplingY   uint8
	ChromaSamplePosition uint8
	ConfigOBUs           []byte
}

// BitDepth returns 8, 10 or 12.
func (ab *Av1ConfigBox) BitDepth() int {
	switch {
	case ab.HighBitdepth && ab.TwelveBit:
		return 12
	case ab.HighBitdepth:
		return 10
	}
	return 8
}

func ReadAv1ConfigBox(c *Cursor, b Box) (*Av1ConfigBox, error) {
	buf, err := c.Bytes(4)
	if err != nil {
		return nil, err
	}
	ab := &Av1ConfigBox{Box: b}
	ab.Marker = (buf[0] >> 7) & 1
	ab.Version = buf[0] & 0x7F
	ab.SeqProfile = (buf[1] >> 5) & 0x07
	ab.SeqLevelIdx0 = buf[1] & 0x1F
	ab.SeqTier0 = (buf[2] >> 7) & 1
	ab.HighBitdepth = (buf[2]>>6)&1 == 1
	ab.TwelveBit = (buf[2]>>5)&1 == 1
	ab.Monochrome = (buf[2]>>4)&1 == 1
	ab.ChromaSubsamplingX = (buf[2] >> 3) & 1
	ab.ChromaSubsamplingY = (buf[2] >> 2) & 1
	ab.ChromaSamplePosition = buf[2] & 0x03
	// buf[3] carries the initial presentation delay, unused here.
	if n := remainingInt(c, b); n > 0 {
		if ab.ConfigOBUs, err = c.Bytes(n); err != nil {
			return nil, err
		}
	}
	return ab, b.finish(c)
}
