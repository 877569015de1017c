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

// Package heif reads HEIF containers, as found in Apple HEIC/HEVC images.
// This package does not decode images; it only reads the metadata.
//
// Extract walks the box tree of a file, projects the image properties it
// finds into a HEIF metadata directory and hands the Exif item, if any,
// to an ExifDecoder. Parsing is fail-open: problems are recorded on the
// Result and everything that could be read is kept.
package heif

import (
	"errors"
	"io"

	"github.com/jdeng/heifmeta/heif/bmff"
	"github.com/jdeng/heifmeta/metadata"
)

// ErrNoReader is returned by Extract for a nil source or a negative
// length.
var ErrNoReader = errors.New("heif: no data to read")

// Result is the outcome of Extract.
type Result struct {
	Metadata *metadata.Metadata

	// Exif is the raw TIFF stream of the Exif item, nil if there is none.
	// It can be parsed by the github.com/rwcarlsen/goexif/exif package's
	// Decode function.
	Exif []byte

	// PrimaryItemID is the ID from the pitm box, 0 if there is none.
	PrimaryItemID uint32

	state *State
}

// Errors returns the problems recorded while parsing.
func (r *Result) Errors() []error { return r.state.Errors() }

// Err returns the problems recorded while parsing as a single
// *multierror.Error, or nil if there were none.
func (r *Result) Err() error { return r.state.Err() }

// Truncated reports whether the data ended inside a box.
func (r *Result) Truncated() bool { return r.state.Truncated() }

// Heif returns the HEIF directory.
func (r *Result) Heif() *metadata.Directory { return r.state.Heif }

// ItemProperties returns the properties associated with an item by the
// ipma box, in association order. ok is false when no ipma box lists the
// item.
func (r *Result) ItemProperties(id uint32) (props []Property, ok bool) {
	return r.state.ItemProperties(id)
}

// primaryProperty returns the first property of the primary item for
// which match is true. ok is false when the file does not associate
// properties with the primary item.
func (r *Result) primaryProperty(match func(v any) bool) (v any, ok bool) {
	if r.PrimaryItemID == 0 {
		return nil, false
	}
	props, ok := r.ItemProperties(r.PrimaryItemID)
	if !ok {
		return nil, false
	}
	for _, p := range props {
		if match(p.Value) {
			return p.Value, true
		}
	}
	return nil, true
}

// SpatialExtents returns the width and height of the primary image, not
// correcting for any rotation. Without property associations for the
// primary item, the first ispe box of the file is used.
func (r *Result) SpatialExtents() (width, height int, ok bool) {
	v, assoc := r.primaryProperty(func(v any) bool {
		_, ok := v.(*bmff.ImageSpatialExtentsProperty)
		return ok
	})
	if assoc {
		if p, ok := v.(*bmff.ImageSpatialExtentsProperty); ok {
			return int(p.ImageWidth), int(p.ImageHeight), true
		}
		return 0, 0, false
	}

	d := r.state.Heif
	w, okw := d.Long(metadata.TagImageWidth)
	h, okh := d.Long(metadata.TagImageHeight)
	if !okw || !okh {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// Rotations returns the number of 90 degree rotations counter-clockwise
// that the primary image should be rendered at, in the range [0,3].
func (r *Result) Rotations() int {
	v, assoc := r.primaryProperty(func(v any) bool {
		_, ok := v.(*bmff.ImageRotationBox)
		return ok
	})
	if assoc {
		if p, ok := v.(*bmff.ImageRotationBox); ok {
			return int(p.Angle)
		}
		return 0
	}
	n, _ := r.state.Heif.Long(metadata.TagImageRotation)
	return int(n)
}

// VisualDimensions returns the width and height after correcting for any
// rotations.
func (r *Result) VisualDimensions() (width, height int, ok bool) {
	width, height, ok = r.SpatialExtents()
	for i := 0; i < r.Rotations(); i++ {
		width, height = height, width
	}
	return
}

// Extract reads the metadata of the HEIF file in the first length bytes
// of ra. The returned error only reports unusable arguments; parse
// problems are on the Result.
func Extract(ra io.ReaderAt, length int64, opts ...Option) (*Result, error) {
	if ra == nil || length < 0 {
		return nil, ErrNoReader
	}
	cfg := newConfig(opts)
	s := newState(&metadata.Metadata{}, cfg)
	c := bmff.NewCursor(ra, length)

	Walk(s, 0, c, length, rootHandler{})

	res := &Result{Metadata: s.Metadata, Exif: s.Exif, state: s}
	if s.PrimaryItem != nil {
		res.PrimaryItemID = s.PrimaryItem.ItemID
	}
	return res, nil
}
