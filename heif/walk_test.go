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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdeng/heifmeta/heif/bmff"
	bt "github.com/jdeng/heifmeta/internal/bmfftest"
)

// recorder is a Handler that notes what the walk did.
type recorder struct {
	containers map[string]bool
	leaves     map[string]error // error returned by DecodeLeaf

	seen      []string
	decoded   []string
	completed []int
}

func newRecorder(containers []string, leaves map[string]error) *recorder {
	r := &recorder{containers: map[string]bool{}, leaves: leaves}
	for _, c := range containers {
		r.containers[c] = true
	}
	if r.leaves == nil {
		r.leaves = map[string]error{}
	}
	return r
}

func (r *recorder) IsContainer(b bmff.Box) bool {
	r.seen = append(r.seen, b.Type.String())
	return r.containers[b.Type.String()]
}

func (r *recorder) IsLeaf(b bmff.Box) bool {
	_, ok := r.leaves[b.Type.String()]
	return ok
}

func (r *recorder) EnterContainer(s *State, depth int, b bmff.Box, c *bmff.Cursor) error {
	Walk(s, depth+1, c, b.End(), r)
	return nil
}

func (r *recorder) DecodeLeaf(s *State, depth int, b bmff.Box, c *bmff.Cursor) error {
	r.decoded = append(r.decoded, b.Type.String())
	return r.leaves[b.Type.String()]
}

func (r *recorder) OnCompleted(s *State, depth int, c *bmff.Cursor) error {
	r.completed = append(r.completed, depth)
	return nil
}

func walkBytes(t *testing.T, data []byte, r *recorder, opts ...Option) *State {
	t.Helper()
	s := NewState(nil, opts...)
	c := bmff.NewBytesCursor(data)
	Walk(s, 0, c, c.Len(), r)
	return s
}

func TestWalkStopsAfterUnsizedBox(t *testing.T) {
	data := bt.Cat(bt.Box("free"), bt.UnsizedBox("mdat", make([]byte, 10)), bt.Box("skip"))

	r := newRecorder(nil, nil)
	s := walkBytes(t, data, r)
	assert.Equal(t, []string{"free", "mdat"}, r.seen)
	assert.Empty(t, s.Errors())
	assert.Equal(t, []int{0}, r.completed)

	// The same holds when the unsized box is decoded.
	r = newRecorder(nil, map[string]error{"mdat": nil, "skip": nil})
	s = walkBytes(t, data, r)
	assert.Equal(t, []string{"mdat"}, r.decoded)
	assert.Empty(t, s.Errors())
}

func TestWalkTruncated(t *testing.T) {
	full := bt.Cat(bt.Box("free"), bt.Box("skip", make([]byte, 20)))
	r := newRecorder(nil, nil)
	s := walkBytes(t, full[:len(full)-5], r)

	assert.Equal(t, []string{"free", "skip"}, r.seen)
	assert.True(t, s.Truncated())
	require.Len(t, s.Errors(), 1)
	assert.ErrorIs(t, s.Errors()[0], bmff.ErrOutOfRange)
	assert.Equal(t, []int{0}, r.completed)
}

func TestWalkRecordsFirstTruncationOnly(t *testing.T) {
	// A container whose child runs past the end of the data: both levels
	// hit the end.
	data := bt.Box("moov", bt.Box("trak", make([]byte, 8)))
	data = data[:len(data)-4]

	r := newRecorder([]string{"moov", "trak"}, nil)
	s := walkBytes(t, data, r)
	require.Len(t, s.Errors(), 1)
	assert.ErrorIs(t, s.Err(), bmff.ErrOutOfRange)
}

func TestWalkCompletesOncePerLevel(t *testing.T) {
	data := bt.Cat(
		bt.FileType("heic", 0, "mif1"),
		bt.Box("moov", bt.Box("free"), bt.Box("trak", bt.Box("free"))),
		bt.Box("free"),
	)
	r := newRecorder([]string{"moov", "trak"}, nil)
	s := walkBytes(t, data, r)
	assert.Empty(t, s.Errors())
	assert.Equal(t, []string{"ftyp", "moov", "free", "trak", "free", "free"}, r.seen)
	assert.Equal(t, []int{2, 1, 0}, r.completed)
}

func TestWalkMaxDepth(t *testing.T) {
	data := bt.Box("moov", bt.Box("moov", bt.Box("moov", bt.Box("moov"))))
	r := newRecorder([]string{"moov"}, nil)
	s := walkBytes(t, data, r, WithMaxDepth(2))

	assert.Equal(t, []string{"moov", "moov", "moov"}, r.seen)
	require.Len(t, s.Errors(), 1)
	assert.ErrorIs(t, s.Errors()[0], ErrMaxDepth)
	assert.Equal(t, []int{2, 1, 0}, r.completed)
}

func TestWalkResumesAfterDecodeError(t *testing.T) {
	data := bt.Cat(bt.Box("pitm", make([]byte, 6)), bt.Box("ispe", make([]byte, 12)))
	r := newRecorder(nil, map[string]error{"pitm": bmff.ErrUnsupportedVersion, "ispe": nil})
	s := walkBytes(t, data, r)

	assert.Equal(t, []string{"pitm", "ispe"}, r.decoded)
	require.Len(t, s.Errors(), 1)
	assert.ErrorIs(t, s.Errors()[0], bmff.ErrUnsupportedVersion)
	assert.False(t, s.Truncated())
}

func TestWalkUnboundedEnd(t *testing.T) {
	data := bt.Cat(bt.Box("free"), bt.Box("skip"))
	s := NewState(nil)
	r := newRecorder(nil, nil)
	c := bmff.NewBytesCursor(data)
	Walk(s, 0, c, -1, r)

	assert.Equal(t, []string{"free", "skip"}, r.seen)
	assert.Empty(t, s.Errors())
	assert.Equal(t, c.Len(), c.Pos())
}

func TestWalkBadBoxSize(t *testing.T) {
	data := bt.Cat(bt.Box("free"), bt.U32(3), bt.Str("skip"), bt.Box("free"))
	r := newRecorder(nil, nil)
	s := walkBytes(t, data, r)

	assert.Equal(t, []string{"free"}, r.seen)
	require.Len(t, s.Errors(), 1)
	assert.ErrorIs(t, s.Errors()[0], bmff.ErrInvalidBoxSize)
}
