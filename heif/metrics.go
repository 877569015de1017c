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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jdeng/heifmeta/heif/bmff"
)

// Box dispositions counted by Metrics.Boxes.
const (
	dispositionContainer = "container"
	dispositionLeaf      = "leaf"
	dispositionSkipped   = "skipped"
	dispositionFailed    = "failed"
)

// otherBoxType is the type label of boxes outside knownBoxTypes.
const otherBoxType = "other"

var knownBoxTypes = map[bmff.BoxType]bool{}

func init() {
	for _, t := range []bmff.BoxType{
		bmff.TypeFtyp, bmff.TypeMeta, bmff.TypeMdat, bmff.TypeHdlr,
		bmff.TypeIinf, bmff.TypeInfe, bmff.TypeIloc, bmff.TypeIpro,
		bmff.TypeSinf, bmff.TypePitm, bmff.TypeIprp, bmff.TypeIpco,
		bmff.TypeIpma, bmff.TypeIspe, bmff.TypePixi, bmff.TypeAuxC,
		bmff.TypeIrot, bmff.TypeImir, bmff.TypeColr, bmff.TypeIdat,
		bmff.TypeHvcC, bmff.TypeAv1C, bmff.TypeUUID,
	} {
		knownBoxTypes[t] = true
	}
}

// boxTypeLabel keeps the type label to a fixed set of valid UTF-8 values.
func boxTypeLabel(t bmff.BoxType) string {
	if knownBoxTypes[t] {
		return t.String()
	}
	return otherBoxType
}

// Metrics holds the Prometheus collectors updated by Extract. A Metrics
// value may be shared by concurrent parses.
type Metrics struct {
	Boxes       *prometheus.CounterVec
	ParseErrors prometheus.Counter
	ExifBytes   prometheus.Counter
}

// NewMetrics creates and registers all collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	boxes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heif_boxes_total",
		Help: "Boxes seen while walking HEIF files",
	}, []string{"type", "disposition"})

	parseErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heif_parse_errors_total",
		Help: "Errors recorded while parsing HEIF files",
	})

	exifBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heif_exif_bytes_total",
		Help: "Bytes of TIFF data extracted from Exif items",
	})

	reg.MustRegister(boxes, parseErrors, exifBytes)

	return &Metrics{
		Boxes:       boxes,
		ParseErrors: parseErrors,
		ExifBytes:   exifBytes,
	}
}

func (m *Metrics) box(typ bmff.BoxType, disposition string) {
	if m == nil {
		return
	}
	m.Boxes.WithLabelValues(boxTypeLabel(typ), disposition).Inc()
}

func (m *Metrics) parseError() {
	if m == nil {
		return
	}
	m.ParseErrors.Inc()
}

func (m *Metrics) exifBytes(n int) {
	if m == nil {
		return
	}
	m.ExifBytes.Add(float64(n))
}
