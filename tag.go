package audiotag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// StringField names a text field of the fixed field set.
type StringField int

const (
	Title StringField = iota
	Artist
	Album
	Comment
	Genre
)

var stringFields = [...]struct {
	name string
	key  string
}{
	Title:   {"title", types.KeyTitle},
	Artist:  {"artist", types.KeyArtist},
	Album:   {"album", types.KeyAlbum},
	Comment: {"comment", types.KeyComment},
	Genre:   {"genre", types.KeyGenre},
}

func (f StringField) String() string {
	if f < 0 || int(f) >= len(stringFields) {
		return fmt.Sprintf("StringField(%d)", int(f))
	}
	return stringFields[f].name
}

// IntField names a numeric field of the fixed field set.
type IntField int

const (
	Year IntField = iota
	Track
)

var intFields = [...]struct {
	name string
	key  string
}{
	Year:  {"year", types.KeyDate},
	Track: {"track", types.KeyTrackNumber},
}

func (f IntField) String() string {
	if f < 0 || int(f) >= len(intFields) {
		return fmt.Sprintf("IntField(%d)", int(f))
	}
	return intFields[f].name
}

// ParseStringField returns the field with the given lower-case name.
func ParseStringField(name string) (StringField, error) {
	for i, f := range stringFields {
		if f.name == name {
			return StringField(i), nil
		}
	}
	return 0, fmt.Errorf("unknown string field %q", name)
}

// ParseIntField returns the field with the given lower-case name.
func ParseIntField(name string) (IntField, error) {
	for i, f := range intFields {
		if f.name == name {
			return IntField(i), nil
		}
	}
	return 0, fmt.Errorf("unknown int field %q", name)
}

// Tag is a view of a File's tag. It does not own the data: edits go to the
// File and are written by File.Save.
//
// Empty strings and zero integers are indistinguishable from absent fields:
// getters report them with ok == false, and setting them removes the field.
// Once the File is closed, getters report every field absent and setters do
// nothing.
type Tag struct {
	file *File
}

// String returns the first value of a text field.
func (t *Tag) String(field StringField) (string, bool) {
	if t.file.closed || field < 0 || int(field) >= len(stringFields) {
		return "", false
	}
	v := first(t.file.tags[stringFields[field].key])
	return v, v != ""
}

// SetString replaces a text field with a single value, or removes it when
// value is empty.
func (t *Tag) SetString(field StringField, value string) {
	if field < 0 || int(field) >= len(stringFields) {
		return
	}
	t.file.set(stringFields[field].key, value)
}

// Int returns a numeric field. Year is read from the leading digits of the
// date, and Track from the leading digits of "n/total".
func (t *Tag) Int(field IntField) (int, bool) {
	if t.file.closed || field < 0 || int(field) >= len(intFields) {
		return 0, false
	}
	n := leadingInt(first(t.file.tags[intFields[field].key]))
	return n, n != 0
}

// SetInt replaces a numeric field, or removes it when value is zero.
func (t *Tag) SetInt(field IntField, value int) {
	if field < 0 || int(field) >= len(intFields) {
		return
	}
	if value == 0 {
		t.file.set(intFields[field].key, "")
		return
	}
	t.file.set(intFields[field].key, strconv.Itoa(value))
}

func (f *File) set(key, value string) {
	if f.closed {
		return
	}
	if value == "" {
		delete(f.tags, key)
		return
	}
	f.tags[key] = []string{value}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// leadingInt parses the decimal digits at the start of s, after spaces.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
