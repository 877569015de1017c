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

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"

	"github.com/jdeng/heifmeta/heif/bmff"
	"github.com/jdeng/heifmeta/metadata"
)

// State is threaded through one walk. It holds the sink, the tables read
// so far and the findings recorded on the way.
//
// Each table is set by the first box of its type; later boxes of the same
// type are decoded, but do not replace it.
type State struct {
	Metadata *metadata.Metadata
	Heif     *metadata.Directory

	FileType     *bmff.FileTypeBox
	Handler      *bmff.HandlerBox
	PrimaryItem  *bmff.PrimaryItemBox
	ItemInfo     *bmff.ItemInfoBox
	ItemLocation *bmff.ItemLocationBox
	ItemData     *bmff.ItemDataBox
	Associations *bmff.ItemPropertyAssociation

	// Properties are the boxes of the first ipco box, in box order.
	Properties []Property

	// Exif is the TIFF stream of the Exif item, if one was found.
	Exif []byte

	errs           *multierror.Error
	truncated      bool
	propertiesRead bool

	logger   log.Logger
	metrics  *Metrics
	exif     ExifDecoder
	maxDepth int
}

// Property is a box of the item property container. Value is the decoded
// box, nil for box types that are not decoded.
type Property struct {
	Box   bmff.Box
	Value any
}

// NewState returns a State writing into md, which gets a HEIF directory
// if it has none.
func NewState(md *metadata.Metadata, opts ...Option) *State {
	return newState(md, newConfig(opts))
}

func newState(md *metadata.Metadata, cfg *config) *State {
	if md == nil {
		md = &metadata.Metadata{}
	}
	return &State{
		Metadata: md,
		Heif:     md.DirectoryOrAdd(metadata.HeifDirectoryName, metadata.NewHeifDirectory),
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		exif:     cfg.exif,
		maxDepth: cfg.maxDepth,
	}
}

// AddError records a non-fatal finding. Truncation is recorded once; the
// data simply ends there, so later reads failing the same way add nothing.
func (s *State) AddError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, bmff.ErrOutOfRange) {
		if s.truncated {
			return
		}
		s.truncated = true
	}
	s.errs = multierror.Append(s.errs, err)
	s.metrics.parseError()
	level.Warn(s.logger).Log("msg", "heif parse error", "err", err)
}

// Truncated reports whether the data ended before a box did.
func (s *State) Truncated() bool { return s.truncated }

// Errors returns the recorded findings in order.
func (s *State) Errors() []error {
	if s.errs == nil {
		return nil
	}
	return append([]error(nil), s.errs.Errors...)
}

// Err returns the recorded findings as a single error, or nil.
func (s *State) Err() error {
	return s.errs.ErrorOrNil()
}

func (s *State) setFileType(ft *bmff.FileTypeBox) bool {
	if s.FileType != nil {
		return false
	}
	s.FileType = ft
	return true
}

func (s *State) setHandler(hb *bmff.HandlerBox) bool {
	if s.Handler != nil {
		return false
	}
	s.Handler = hb
	return true
}

func (s *State) setPrimaryItem(pb *bmff.PrimaryItemBox) bool {
	if s.PrimaryItem != nil {
		return false
	}
	s.PrimaryItem = pb
	return true
}

func (s *State) setItemInfo(ib *bmff.ItemInfoBox) bool {
	if s.ItemInfo != nil {
		return false
	}
	s.ItemInfo = ib
	return true
}

func (s *State) setItemLocation(lb *bmff.ItemLocationBox) bool {
	if s.ItemLocation != nil {
		return false
	}
	s.ItemLocation = lb
	return true
}

func (s *State) setItemData(db *bmff.ItemDataBox) bool {
	if s.ItemData != nil {
		return false
	}
	s.ItemData = db
	return true
}

func (s *State) setAssociations(ipa *bmff.ItemPropertyAssociation) bool {
	if s.Associations != nil {
		return false
	}
	s.Associations = ipa
	return true
}

// ItemProperties returns the properties associated with an item, in
// association order. ok is false when no ipma box lists the item.
func (s *State) ItemProperties(id uint32) (props []Property, ok bool) {
	if s.Associations == nil {
		return nil, false
	}
	assoc, ok := s.Associations.Associations(id)
	if !ok {
		return nil, false
	}
	for _, a := range assoc {
		if i := int(a.Index); i >= 1 && i <= len(s.Properties) {
			props = append(props, s.Properties[i-1])
		}
	}
	return props, true
}
