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
	"errors"
	"fmt"

	"github.com/go-kit/log/level"

	"github.com/jdeng/heifmeta/heif/bmff"
	"github.com/jdeng/heifmeta/metadata"
)

// requiredBrand is the brand every HEIF still image file lists.
const requiredBrand = "mif1"

// rootHandler handles the top level of a file.
type rootHandler struct{}

func (rootHandler) IsContainer(b bmff.Box) bool { return b.Type == bmff.TypeMeta }

func (rootHandler) IsLeaf(b bmff.Box) bool {
	return b.Type == bmff.TypeFtyp || b.Type == bmff.TypeHdlr
}

// EnterContainer reads a meta box. Its first child should be the hdlr
// box naming the handler for the rest of its content.
func (r rootHandler) EnterContainer(s *State, depth int, b bmff.Box, c *bmff.Cursor) error {
	if _, err := bmff.ReadFullBox(c, b); err != nil {
		return err
	}

	var next Handler = r
	start := c.Pos()
	child, err := bmff.ReadBox(c)
	switch {
	case err != nil:
		return err
	case child.Type == bmff.TypeHdlr:
		hb, err := bmff.ReadHandlerBox(c, child)
		if errors.Is(err, bmff.ErrOutOfRange) {
			return err
		}
		if err != nil {
			s.AddError(fmt.Errorf("heif: hdlr box at offset %d: %w", child.Offset, err))
			if err := c.Seek(child.End()); err != nil {
				return err
			}
			break
		}
		s.setHandler(hb)
		projectHandler(s.Heif, hb)
		next = handlerFor(hb.HandlerType, depth+1, r)
		level.Debug(s.logger).Log("msg", "meta handler", "type", hb.HandlerType)
		if child.IsLast() {
			return nil
		}
	default:
		if err := c.Seek(start); err != nil {
			return err
		}
	}

	Walk(s, depth+1, c, b.End(), next)
	return nil
}

func (rootHandler) DecodeLeaf(s *State, depth int, b bmff.Box, c *bmff.Cursor) error {
	switch b.Type {
	case bmff.TypeFtyp:
		ft, err := bmff.ReadFileTypeBox(c, b)
		if err != nil {
			return err
		}
		if s.setFileType(ft) {
			projectFileType(s, ft)
		}
	case bmff.TypeHdlr:
		hb, err := bmff.ReadHandlerBox(c, b)
		if err != nil {
			return err
		}
		s.setHandler(hb)
		projectHandler(s.Heif, hb)
	}
	return nil
}

func (rootHandler) OnCompleted(*State, int, *bmff.Cursor) error { return nil }

func projectFileType(s *State, ft *bmff.FileTypeBox) {
	d := s.Heif
	d.SetString(metadata.TagMajorBrand, ft.MajorBrand)
	d.SetLong(metadata.TagMinorVersion, int64(ft.MinorVersion))
	if len(ft.CompatibleBrands) > 0 {
		d.SetStringArray(metadata.TagCompatibleBrands, ft.CompatibleBrands)
	}
	if !ft.HasCompatibleBrand(requiredBrand) {
		msg := "File Type Box does not contain required brand, " + requiredBrand
		d.AddError(msg)
		s.AddError(errors.New("heif: " + msg))
	}
}

func projectHandler(d *metadata.Directory, hb *bmff.HandlerBox) {
	d.SetString(metadata.TagHandlerType, hb.HandlerType)
}
