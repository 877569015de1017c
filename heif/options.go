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

import "github.com/go-kit/log"

// DefaultMaxDepth is the deepest box nesting Extract descends into.
const DefaultMaxDepth = 32

type config struct {
	logger   log.Logger
	metrics  *Metrics
	exif     ExifDecoder
	maxDepth int
}

// Option configures Extract.
type Option func(*config)

// WithLogger sets the logger for parse diagnostics. The default discards
// everything.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics makes Extract record box and error counts in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithExifDecoder replaces the decoder the Exif payload is handed to.
// A nil decoder leaves the payload undecoded; it is still returned on
// the Result.
func WithExifDecoder(d ExifDecoder) Option {
	return func(c *config) {
		c.exif = d
	}
}

// WithMaxDepth limits box nesting. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:   log.NewNopLogger(),
		exif:     GoexifDecoder{},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
