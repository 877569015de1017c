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
	"bytes"
	"sort"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/jdeng/heifmeta/metadata"
)

// GoexifDecoder is the default ExifDecoder. It decodes with
// github.com/rwcarlsen/goexif and fills the Exif directory, keyed by TIFF
// tag ID.
//
// Parsers registered with exif.RegisterParsers, such as the maker note
// parsers of goexif's mknote package, run as part of decoding.
type GoexifDecoder struct{}

type exifField struct {
	name exif.FieldName
	tag  *tiff.Tag
}

type fieldCollector []exifField

func (fc *fieldCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	*fc = append(*fc, exifField{name, tag})
	return nil
}

// DecodeExif adds every field goexif found. Errors that leave part of the
// data usable are returned after those fields were added.
func (GoexifDecoder) DecodeExif(buf []byte, start int, md *metadata.Metadata) error {
	x, err := exif.Decode(bytes.NewReader(buf[start:]))
	if x == nil {
		return err
	}

	var fields fieldCollector
	if werr := x.Walk(&fields); werr != nil && err == nil {
		err = werr
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].tag.Id != fields[j].tag.Id {
			return fields[i].tag.Id < fields[j].tag.Id
		}
		return fields[i].name < fields[j].name
	})

	d := md.DirectoryOrAdd(metadata.ExifDirectoryName, metadata.NewExifDirectory)
	for _, f := range fields {
		tag := metadata.Tag(f.tag.Id)
		if !setExifValue(d, tag, f.tag) {
			continue
		}
		d.SetTagName(tag, string(f.name))
	}
	return err
}

func setExifValue(d *metadata.Directory, tag metadata.Tag, t *tiff.Tag) bool {
	switch t.Format() {
	case tiff.IntVal:
		if t.Count == 1 {
			v, err := t.Int64(0)
			if err != nil {
				return false
			}
			return d.SetLong(tag, v)
		}
		vals := make([]int, 0, t.Count)
		for i := 0; i < int(t.Count); i++ {
			v, err := t.Int(i)
			if err != nil {
				return false
			}
			vals = append(vals, v)
		}
		return d.SetIntArray(tag, vals)
	case tiff.StringVal:
		v, err := t.StringVal()
		if err != nil {
			return false
		}
		return d.SetString(tag, v)
	default:
		return d.SetString(tag, t.String())
	}
}
