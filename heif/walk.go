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
)

// ErrMaxDepth is recorded for containers nested deeper than the
// configured limit. Their content is skipped.
var ErrMaxDepth = errors.New("heif: maximum box depth exceeded")

// Walk visits the boxes between the cursor position and end, dispatching
// each one to h. An end below zero means the boxes run to the end of the
// data. A box of size zero is the last one of its level.
//
// Findings are recorded on s rather than returned. Reading past the end
// of the data ends the level; any other decode error is recorded and the
// walk resumes after the offending box. h.OnCompleted runs exactly once,
// after the last box of the level.
func Walk(s *State, depth int, c *bmff.Cursor, end int64, h Handler) {
	for {
		if end < 0 {
			if c.Remaining() <= 0 {
				break
			}
		} else if c.Pos() >= end {
			break
		}
		b, err := bmff.ReadBox(c)
		if err != nil {
			s.AddError(fmt.Errorf("heif: reading box at offset %d: %w", c.Pos(), err))
			break
		}
		level.Debug(s.logger).Log("msg", "box", "depth", depth, "type", b.Type, "offset", b.Offset, "size", b.Size)
		if !visit(s, depth, b, c, h) || b.IsLast() {
			break
		}
	}
	if err := h.OnCompleted(s, depth, c); err != nil {
		s.AddError(err)
	}
}

// visit dispatches b and leaves the cursor at its end. It reports whether
// the enclosing level can go on.
func visit(s *State, depth int, b bmff.Box, c *bmff.Cursor, h Handler) bool {
	typ := b.Type.String()

	var err error
	switch {
	case h.IsContainer(b):
		if depth+1 > s.maxDepth {
			s.metrics.box(b.Type, dispositionSkipped)
			s.AddError(fmt.Errorf("%w: %q at offset %d", ErrMaxDepth, typ, b.Offset))
			break
		}
		s.metrics.box(b.Type, dispositionContainer)
		err = h.EnterContainer(s, depth, b, c)
	case h.IsLeaf(b):
		s.metrics.box(b.Type, dispositionLeaf)
		err = h.DecodeLeaf(s, depth, b, c)
	default:
		s.metrics.box(b.Type, dispositionSkipped)
		if b.IsLast() {
			return false
		}
	}

	if err != nil {
		s.metrics.box(b.Type, dispositionFailed)
		s.AddError(fmt.Errorf("heif: %q box at offset %d: %w", typ, b.Offset, err))
		if errors.Is(err, bmff.ErrOutOfRange) {
			return false
		}
	}
	if b.IsLast() {
		return false
	}
	if c.Pos() != b.End() {
		if err := c.Seek(b.End()); err != nil {
			s.AddError(fmt.Errorf("heif: %q box at offset %d: %w", typ, b.Offset, err))
			return false
		}
	}
	return true
}
