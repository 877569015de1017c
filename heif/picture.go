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

import "github.com/jdeng/heifmeta/heif/bmff"

// pictureHandler handles the content of a meta box whose handler type is
// "pict": the item tables and the item properties of a still image file.
type pictureHandler struct {
	depth int // depth of the meta box content
}

func newPictureHandler(depth int) Handler { return &pictureHandler{depth: depth} }

func (p *pictureHandler) IsContainer(b bmff.Box) bool {
	return b.Type == bmff.TypeIprp || b.Type == bmff.TypeIpco
}

func (p *pictureHandler) IsLeaf(b bmff.Box) bool {
	switch b.Type {
	case bmff.TypeIpro, bmff.TypePitm, bmff.TypeIinf, bmff.TypeIloc, bmff.TypeIpma,
		bmff.TypeIspe, bmff.TypeAuxC, bmff.TypeIrot, bmff.TypeColr, bmff.TypePixi,
		bmff.TypeImir, bmff.TypeIdat, bmff.TypeHvcC, bmff.TypeAv1C:
		return true
	}
	return false
}

// EnterContainer walks iprp and ipco. The children of the first ipco box
// are kept on the state in order, so ipma indices can be resolved.
func (p *pictureHandler) EnterContainer(s *State, depth int, b bmff.Box, c *bmff.Cursor) error {
	var next Handler = p
	if b.Type == bmff.TypeIpco && !s.propertiesRead {
		s.propertiesRead = true
		next = &propertyHandler{picture: p}
	}
	Walk(s, depth+1, c, b.End(), next)
	return nil
}

func (p *pictureHandler) DecodeLeaf(s *State, depth int, b bmff.Box, c *bmff.Cursor) error {
	_, err := p.decode(s, b, c)
	return err
}

// decode decodes a leaf, projects it and returns the decoded box.
func (p *pictureHandler) decode(s *State, b bmff.Box, c *bmff.Cursor) (any, error) {
	d := s.Heif
	switch b.Type {
	case bmff.TypeIpro:
		v, err := bmff.ReadItemProtectionBox(c, b)
		if err != nil {
			return nil, err
		}
		projectItemProtection(d, v)
		return v, nil
	case bmff.TypePitm:
		v, err := bmff.ReadPrimaryItemBox(c, b)
		if err != nil {
			return nil, err
		}
		if s.setPrimaryItem(v) {
			projectPrimaryItem(d, v)
		}
		return v, nil
	case bmff.TypeIinf:
		v, err := bmff.ReadItemInfoBox(c, b)
		if err != nil {
			return nil, err
		}
		s.setItemInfo(v)
		return v, nil
	case bmff.TypeIloc:
		v, err := bmff.ReadItemLocationBox(c, b)
		if err != nil {
			return nil, err
		}
		s.setItemLocation(v)
		return v, nil
	case bmff.TypeIpma:
		v, err := bmff.ReadItemPropertyAssociation(c, b)
		if err != nil {
			return nil, err
		}
		s.setAssociations(v)
		return v, nil
	case bmff.TypeIdat:
		v, err := bmff.ReadItemDataBox(c, b)
		if err != nil {
			return nil, err
		}
		s.setItemData(v)
		return v, nil
	case bmff.TypeIspe:
		v, err := bmff.ReadImageSpatialExtentsProperty(c, b)
		if err != nil {
			return nil, err
		}
		projectSpatialExtents(d, v)
		return v, nil
	case bmff.TypePixi:
		v, err := bmff.ReadPixelInformationBox(c, b)
		if err != nil {
			return nil, err
		}
		projectPixelInformation(d, v)
		return v, nil
	case bmff.TypeAuxC:
		v, err := bmff.ReadAuxiliaryTypeProperty(c, b)
		if err != nil {
			return nil, err
		}
		projectAuxiliaryType(d, v)
		return v, nil
	case bmff.TypeIrot:
		v, err := bmff.ReadImageRotationBox(c, b)
		if err != nil {
			return nil, err
		}
		projectRotation(d, v)
		return v, nil
	case bmff.TypeImir:
		v, err := bmff.ReadImageMirrorBox(c, b)
		if err != nil {
			return nil, err
		}
		projectMirror(d, v)
		return v, nil
	case bmff.TypeColr:
		v, err := bmff.ReadColourInformationBox(c, b)
		if err != nil {
			return nil, err
		}
		projectColour(s, v)
		return v, nil
	case bmff.TypeHvcC:
		v, err := bmff.ReadHevcConfigBox(c, b)
		if err != nil {
			return nil, err
		}
		projectHevcConfig(d, v)
		return v, nil
	case bmff.TypeAv1C:
		v, err := bmff.ReadAv1ConfigBox(c, b)
		if err != nil {
			return nil, err
		}
		projectAv1Config(d, v)
		return v, nil
	}
	return nil, nil
}

// OnCompleted extracts the Exif item once the whole meta box content has
// been read. Nested property containers complete at deeper levels and
// are ignored.
func (p *pictureHandler) OnCompleted(s *State, depth int, c *bmff.Cursor) error {
	if depth != p.depth {
		return nil
	}
	return extractExif(s, c)
}

// propertyHandler reads the children of an ipco box. Every child is a
// property, whether decoded or not, since ipma refers to them by position.
type propertyHandler struct {
	picture *pictureHandler
}

func (h *propertyHandler) IsContainer(bmff.Box) bool { return false }

func (h *propertyHandler) IsLeaf(bmff.Box) bool { return true }

func (h *propertyHandler) EnterContainer(*State, int, bmff.Box, *bmff.Cursor) error { return nil }

func (h *propertyHandler) DecodeLeaf(s *State, depth int, b bmff.Box, c *bmff.Cursor) error {
	var (
		v   any
		err error
	)
	if h.picture.IsLeaf(b) {
		v, err = h.picture.decode(s, b, c)
	}
	s.Properties = append(s.Properties, Property{Box: b, Value: v})
	return err
}

func (h *propertyHandler) OnCompleted(*State, int, *bmff.Cursor) error { return nil }
