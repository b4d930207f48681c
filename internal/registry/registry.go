// Package registry manages tagging backends and per-type audio-property readers.
package registry

import (
	"io"
	"slices"

	"github.com/simonhull/audiotag/internal/types"
)

// Capabilities describes what a backend can do for a file type.
type Capabilities uint8

const (
	// CapWrite means WriteTags is supported.
	CapWrite Capabilities = 1 << iota
	// CapPropertyMap means the backend exposes arbitrary property keys, not
	// just the fixed field set.
	CapPropertyMap
)

// Has reports whether every capability in c2 is present.
func (c Capabilities) Has(c2 Capabilities) bool {
	return c&c2 == c2
}

// Backend is a tagging library that reads and writes tags by path.
type Backend interface {
	// Name identifies the backend in options and errors.
	Name() string

	// Supports reports whether the backend can open the file type at all.
	Supports(ft types.FileType) bool

	Capabilities(ft types.FileType) Capabilities

	// ReadTags returns the file's tags keyed by upper-case property name.
	// It returns types.ErrNoTag when the file has no tag container.
	ReadTags(path string, ft types.FileType) (map[string][]string, error)

	// ReadProperties returns audio properties, or types.ErrNotFound when the
	// backend cannot determine them.
	ReadProperties(path string, ft types.FileType) (types.AudioProperties, error)

	// WriteTags replaces every tag in the file with tags.
	WriteTags(path string, ft types.FileType, tags map[string][]string) error
}

// PropertiesReader reads audio properties from file content.
type PropertiesReader interface {
	ReadProperties(r io.ReaderAt, size int64, path string) (types.AudioProperties, error)
}

// PropertiesReaderFunc adapts a function to PropertiesReader.
type PropertiesReaderFunc func(r io.ReaderAt, size int64, path string) (types.AudioProperties, error)

// ReadProperties calls f.
func (f PropertiesReaderFunc) ReadProperties(r io.ReaderAt, size int64, path string) (types.AudioProperties, error) {
	return f(r, size, path)
}

// backends maps names to backends.
var backends = make(map[string]Backend)

// properties maps file types to their property readers.
var properties = make(map[types.FileType]PropertiesReader)

// RegisterBackend registers a backend under its name.
// This is called by backend packages during initialization (init functions).
func RegisterBackend(b Backend) {
	backends[b.Name()] = b
}

// GetBackend returns the named backend.
// Returns nil if no backend is registered under that name.
func GetBackend(name string) Backend {
	return backends[name]
}

// BackendNames returns the registered backend names, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterProperties registers a property reader for a file type.
// This is called by format packages during initialization (init functions).
func RegisterProperties(ft types.FileType, r PropertiesReader) {
	properties[ft] = r
}

// GetProperties returns the property reader for a file type.
// Returns nil if none is registered.
func GetProperties(ft types.FileType) PropertiesReader {
	return properties[ft]
}
