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
	"fmt"

	"github.com/go-andiamo/iccarus"

	"github.com/jdeng/heifmeta/heif/bmff"
	"github.com/jdeng/heifmeta/metadata"
)

// projectColour writes the nclx parameters or the ICC profile header of a
// colr box. Files often carry one colr box of each kind; each kind is set
// by the first box carrying it.
func projectColour(s *State, b *bmff.ColourInformationBox) {
	d := s.Heif
	d.SetString(metadata.TagColourType, b.ColourType)

	switch b.ColourType {
	case bmff.ColourTypeNCLX:
		if !d.SetLong(metadata.TagColourPrimaries, int64(b.ColourPrimaries)) {
			return
		}
		d.SetLong(metadata.TagTransferCharacteristics, int64(b.TransferCharacteristics))
		d.SetLong(metadata.TagMatrixCoefficients, int64(b.MatrixCoefficients))
		var full int64
		if b.FullRange {
			full = 1
		}
		d.SetLong(metadata.TagFullRange, full)

	case bmff.ColourTypeRestrictedICC, bmff.ColourTypeUnrestrictedICC:
		if d.ContainsTag(metadata.TagICCColorSpace) {
			return
		}
		p, err := iccarus.ParseProfile(bytes.NewReader(b.ICCProfile), &iccarus.ParseOptions{
			Mode: iccarus.ParseHeaderOnly,
		})
		if err != nil {
			s.AddError(fmt.Errorf("heif: ICC profile in colr box at offset %d: %w", b.Offset, err))
			return
		}
		d.SetString(metadata.TagICCColorSpace, p.Header.ColorSpace)
		d.SetString(metadata.TagICCProfileVersion, p.Header.Version.String())
		d.SetString(metadata.TagICCDeviceClass, p.Header.DeviceClass)
	}
}
