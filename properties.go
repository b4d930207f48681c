package audiotag

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/registry"
)

// Properties yields one key/value pair per tag value, keys in sorted order.
//
// When the backend has no generic property maps it yields the fixed field
// set instead, always all seven fields in order: title, artist, album,
// comment, genre, year and track, the last two as decimal text.
func (f *File) Properties() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if f.closed {
			return
		}
		if !f.caps.Has(registry.CapPropertyMap) {
			for _, p := range f.fixedProperties() {
				if !yield(p[0], p[1]) {
					return
				}
			}
			return
		}
		for _, k := range slices.Sorted(maps.Keys(f.tags)) {
			for _, v := range f.tags[k] {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// PropertyMap returns a copy of the tags as a property map, or nil once the
// file is closed.
func (f *File) PropertyMap() map[string][]string {
	if f.closed {
		return nil
	}
	if f.caps.Has(registry.CapPropertyMap) {
		return cloneTags(f.tags)
	}
	m := make(map[string][]string)
	for _, p := range f.fixedProperties() {
		m[p[0]] = append(m[p[0]], p[1])
	}
	return m
}

func (f *File) fixedProperties() [][2]string {
	t := &Tag{file: f}
	out := make([][2]string, 0, len(stringFields)+len(intFields))
	for i, sf := range stringFields {
		v, _ := t.String(StringField(i))
		out = append(out, [2]string{sf.name, v})
	}
	for i, nf := range intFields {
		n, _ := t.Int(IntField(i))
		out = append(out, [2]string{nf.name, strconv.Itoa(n)})
	}
	return out
}

// SetProperties replaces every tag with props. Keys are upper-cased and
// empty values dropped. It returns *UnsupportedOperationError when the
// backend has no generic property maps.
func (f *File) SetProperties(props map[string][]string) error {
	if f.closed {
		return ErrClosed
	}
	if !f.caps.Has(registry.CapPropertyMap) {
		return &UnsupportedOperationError{Op: "set properties", Backend: f.backend.Name(), Type: f.fileType}
	}

	tags := make(map[string][]string, len(props))
	for k, vs := range props {
		key := strings.ToUpper(k)
		for _, v := range vs {
			if v != "" {
				tags[key] = append(tags[key], v)
			}
		}
	}
	f.tags = tags
	return nil
}
