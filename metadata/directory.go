// Package metadata holds decoded tag values grouped in named directories.
//
// Writes are first-writer-wins: a Set method stores a value only if the
// tag is not present yet and reports whether it did. Repeated boxes in a
// file therefore never overwrite the value of the first one.
package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag identifies a value within a Directory.
type Tag int

// Directory is an ordered set of tag values.
//
// A Directory is not safe for concurrent use.
type Directory struct {
	name   string
	order  []Tag
	values map[Tag]interface{}
	names  map[Tag]string
	errors []string
}

// New returns an empty directory.
func New(name string) *Directory {
	return &Directory{
		name:   name,
		values: make(map[Tag]interface{}),
		names:  make(map[Tag]string),
	}
}

func (d *Directory) Name() string { return d.name }

func (d *Directory) set(tag Tag, v interface{}) bool {
	if _, ok := d.values[tag]; ok {
		return false
	}
	d.values[tag] = v
	d.order = append(d.order, tag)
	return true
}

func (d *Directory) SetString(tag Tag, v string) bool { return d.set(tag, v) }

func (d *Directory) SetLong(tag Tag, v int64) bool { return d.set(tag, v) }

func (d *Directory) SetIntArray(tag Tag, v []int) bool {
	return d.set(tag, append([]int(nil), v...))
}

func (d *Directory) SetStringArray(tag Tag, v []string) bool {
	return d.set(tag, append([]string(nil), v...))
}

// SetTagName registers the display name of a tag.
func (d *Directory) SetTagName(tag Tag, name string) { d.names[tag] = name }

func (d *Directory) ContainsTag(tag Tag) bool {
	_, ok := d.values[tag]
	return ok
}

// Value returns the raw value of a tag.
func (d *Directory) Value(tag Tag) (interface{}, bool) {
	v, ok := d.values[tag]
	return v, ok
}

func (d *Directory) String(tag Tag) (string, bool) {
	v, ok := d.values[tag].(string)
	return v, ok
}

func (d *Directory) Long(tag Tag) (int64, bool) {
	v, ok := d.values[tag].(int64)
	return v, ok
}

func (d *Directory) IntArray(tag Tag) ([]int, bool) {
	v, ok := d.values[tag].([]int)
	return v, ok
}

func (d *Directory) StringArray(tag Tag) ([]string, bool) {
	v, ok := d.values[tag].([]string)
	return v, ok
}

// Tags returns the tags present, in the order they were first set.
func (d *Directory) Tags() []Tag {
	return append([]Tag(nil), d.order...)
}

// Len returns the number of tags present.
func (d *Directory) Len() int { return len(d.order) }

// TagName returns the registered name of a tag, or a generic name built
// from its hex value.
func (d *Directory) TagName(tag Tag) string {
	if n, ok := d.names[tag]; ok {
		return n
	}
	return fmt.Sprintf("Unknown tag (0x%04x)", int(tag))
}

// Description formats the value of a tag for display. It returns "" when
// the tag is absent.
func (d *Directory) Description(tag Tag) string {
	switch v := d.values[tag].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case []int:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(v, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// AddError records a non-fatal finding about the data this directory was
// populated from.
func (d *Directory) AddError(msg string) { d.errors = append(d.errors, msg) }

func (d *Directory) Errors() []string {
	return append([]string(nil), d.errors...)
}

func (d *Directory) HasErrors() bool { return len(d.errors) > 0 }
