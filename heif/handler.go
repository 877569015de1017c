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

// Handler decides which boxes of a level are containers to descend into
// and which are leaves to decode, and does both.
//
// EnterContainer and DecodeLeaf are called with the cursor just after the
// box header. They may leave the cursor anywhere inside the box; Walk
// moves it to the end of the box afterwards.
type Handler interface {
	IsContainer(b bmff.Box) bool
	IsLeaf(b bmff.Box) bool
	EnterContainer(s *State, depth int, b bmff.Box, c *bmff.Cursor) error
	DecodeLeaf(s *State, depth int, b bmff.Box, c *bmff.Cursor) error

	// OnCompleted is called once per level, after its last box.
	OnCompleted(s *State, depth int, c *bmff.Cursor) error
}

// handlerFactories maps "hdlr" handler types to the handler for the
// content of their meta box. depth is the depth of that content.
var handlerFactories = map[string]func(depth int) Handler{
	"pict": newPictureHandler,
}

// handlerFor returns the handler registered for handlerType, or parent
// when there is none.
func handlerFor(handlerType string, depth int, parent Handler) Handler {
	if f, ok := handlerFactories[handlerType]; ok {
		return f(depth)
	}
	return parent
}
