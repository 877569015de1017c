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
	"github.com/jdeng/heifmeta/heif/bmff"
	"github.com/jdeng/heifmeta/metadata"
)

// Projections of decoded boxes into the HEIF directory. Directory writes
// are first-writer-wins, so the first box of each type sets the values.

func projectItemProtection(d *metadata.Directory, b *bmff.ItemProtectionBox) {
	d.SetLong(metadata.TagProtectionCount, int64(b.ProtectionCount))
}

func projectPrimaryItem(d *metadata.Directory, b *bmff.PrimaryItemBox) {
	d.SetLong(metadata.TagPrimaryItemID, int64(b.ItemID))
}

func projectSpatialExtents(d *metadata.Directory, b *bmff.ImageSpatialExtentsProperty) {
	d.SetLong(metadata.TagImageWidth, int64(b.ImageWidth))
	d.SetLong(metadata.TagImageHeight, int64(b.ImageHeight))
}

func projectPixelInformation(d *metadata.Directory, b *bmff.PixelInformationBox) {
	bits := make([]int, len(b.BitsPerChannel))
	for i, v := range b.BitsPerChannel {
		bits[i] = int(v)
	}
	d.SetIntArray(metadata.TagBitsPerChannel, bits)
}

func projectAuxiliaryType(d *metadata.Directory, b *bmff.AuxiliaryTypeProperty) {
	if b.AuxType != "" {
		d.SetString(metadata.TagAuxiliaryType, b.AuxType)
	}
}

func projectRotation(d *metadata.Directory, b *bmff.ImageRotationBox) {
	d.SetLong(metadata.TagImageRotation, int64(b.Angle))
}

func projectMirror(d *metadata.Directory, b *bmff.ImageMirrorBox) {
	d.SetLong(metadata.TagMirrorAxis, int64(b.Axis))
}

func projectHevcConfig(d *metadata.Directory, b *bmff.HevcConfigBox) {
	if d.SetString(metadata.TagCodecConfiguration, "hvcC") {
		d.SetLong(metadata.TagChromaFormat, int64(b.ChromaFormat))
		d.SetLong(metadata.TagBitDepthLuma, int64(b.BitDepthLuma))
		d.SetLong(metadata.TagBitDepthChroma, int64(b.BitDepthChroma))
	}
}

func projectAv1Config(d *metadata.Directory, b *bmff.Av1ConfigBox) {
	if d.SetString(metadata.TagCodecConfiguration, "av1C") {
		d.SetLong(metadata.TagChromaFormat, int64(av1ChromaFormat(b)))
		d.SetLong(metadata.TagBitDepthLuma, int64(b.BitDepth()))
		d.SetLong(metadata.TagBitDepthChroma, int64(b.BitDepth()))
	}
}

// av1ChromaFormat maps the AV1 subsampling flags to the chroma_format_idc
// values used by HEVC: 0 monochrome, 1 4:2:0, 2 4:2:2, 3 4:4:4.
func av1ChromaFormat(b *bmff.Av1ConfigBox) int {
	switch {
	case b.Monochrome:
		return 0
	case b.ChromaSubsamplingX == 1 && b.ChromaSubsamplingY == 1:
		return 1
	case b.ChromaSubsamplingX == 1:
		return 2
	}
	return 3
}
