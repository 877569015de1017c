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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jdeng/heifmeta/heif/bmff"
	bt "github.com/jdeng/heifmeta/internal/bmfftest"
)

func TestMetrics_Extract(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	require.NotNil(t, m)

	tiff := bt.OrientationTIFF(6)
	data := bt.HEIC{
		Brands:     []string{"heic"},
		Exif:       bt.ExifPayload(tiff),
		Properties: [][]byte{bt.Ispe(1, 1)},
	}.Bytes()
	extractBytes(t, data, WithMetrics(m))

	require.Equal(t, float64(1), testutil.ToFloat64(m.Boxes.WithLabelValues("meta", dispositionContainer)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Boxes.WithLabelValues("ispe", dispositionLeaf)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Boxes.WithLabelValues("mdat", dispositionSkipped)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ParseErrors), "missing mif1")
	require.Equal(t, float64(len(tiff)), testutil.ToFloat64(m.ExifBytes))
}

func TestMetrics_UnknownBoxTypes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	data := bt.Cat(
		bt.FileType("heic", 0, "mif1"),
		[]byte{0, 0, 0, 8, 0xff, 0xfe, 'a', 'b'},
		bt.Box("free"),
		bt.Box("zzzz", bt.U32(1)),
	)
	var res *Result
	require.NotPanics(t, func() { res = extractBytes(t, data, WithMetrics(m)) })
	require.NoError(t, res.Err())

	require.Equal(t, float64(1), testutil.ToFloat64(m.Boxes.WithLabelValues("ftyp", dispositionLeaf)))
	require.Equal(t, float64(3), testutil.ToFloat64(m.Boxes.WithLabelValues(otherBoxType, dispositionSkipped)))
	require.Equal(t, 2, testutil.CollectAndCount(m.Boxes))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.box(bmff.TypeFtyp, dispositionLeaf)
	m.parseError()
	m.exifBytes(10)
}

func TestMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	m.Boxes.WithLabelValues("ftyp", dispositionLeaf).Add(0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["heif_boxes_total"])
	require.True(t, names["heif_parse_errors_total"])
	require.True(t, names["heif_exif_bytes_total"])

	require.Panics(t, func() { NewMetrics(reg) }, "duplicate registration")
}
