package metadata

// Directory names.
const (
	HeifDirectoryName = "HEIF"
	ExifDirectoryName = "Exif"
)

// Tags of the HEIF directory.
const (
	TagMajorBrand       Tag = 1
	TagMinorVersion     Tag = 2
	TagCompatibleBrands Tag = 3
	TagImageWidth       Tag = 4
	TagImageHeight      Tag = 5
	TagImageRotation    Tag = 6 // counter-clockwise, in units of 90 degrees
	TagBitsPerChannel   Tag = 7

	TagHandlerType             Tag = 8
	TagPrimaryItemID           Tag = 9
	TagAuxiliaryType           Tag = 10
	TagMirrorAxis              Tag = 11
	TagColourType              Tag = 12
	TagColourPrimaries         Tag = 13
	TagTransferCharacteristics Tag = 14
	TagMatrixCoefficients      Tag = 15
	TagFullRange               Tag = 16
	TagICCColorSpace           Tag = 17
	TagICCProfileVersion       Tag = 18
	TagICCDeviceClass          Tag = 19
	TagChromaFormat            Tag = 20
	TagBitDepthLuma            Tag = 21
	TagBitDepthChroma          Tag = 22
	TagProtectionCount         Tag = 23
	TagCodecConfiguration      Tag = 24
)

var heifTagNames = map[Tag]string{
	TagMajorBrand:              "Major Brand",
	TagMinorVersion:            "Minor Version",
	TagCompatibleBrands:        "Compatible Brands",
	TagImageWidth:              "Image Width",
	TagImageHeight:             "Image Height",
	TagImageRotation:           "Image Rotation",
	TagBitsPerChannel:          "Bits Per Channel",
	TagHandlerType:             "Handler Type",
	TagPrimaryItemID:           "Primary Item ID",
	TagAuxiliaryType:           "Auxiliary Type",
	TagMirrorAxis:              "Mirror Axis",
	TagColourType:              "Colour Type",
	TagColourPrimaries:         "Colour Primaries",
	TagTransferCharacteristics: "Transfer Characteristics",
	TagMatrixCoefficients:      "Matrix Coefficients",
	TagFullRange:               "Full Range",
	TagICCColorSpace:           "ICC Color Space",
	TagICCProfileVersion:       "ICC Profile Version",
	TagICCDeviceClass:          "ICC Device Class",
	TagChromaFormat:            "Chroma Format",
	TagBitDepthLuma:            "Bit Depth Luma",
	TagBitDepthChroma:          "Bit Depth Chroma",
	TagProtectionCount:         "Protection Count",
	TagCodecConfiguration:      "Codec Configuration",
}

// NewHeifDirectory returns an empty HEIF directory with its tag names
// registered.
func NewHeifDirectory() *Directory {
	d := New(HeifDirectoryName)
	for tag, name := range heifTagNames {
		d.SetTagName(tag, name)
	}
	return d
}

// NewExifDirectory returns an empty EXIF directory. Its tags are TIFF tag
// IDs; names are registered by the decoder that fills it.
func NewExifDirectory() *Directory {
	return New(ExifDirectoryName)
}
