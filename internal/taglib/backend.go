// Package taglib is the default tagging backend, bound to the TagLib C++
// library through go.senan.xyz/taglib.
package taglib

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	gotaglib "go.senan.xyz/taglib"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Name is the registry name of this backend.
const Name = "taglib"

type backend struct{}

func (backend) Name() string { return Name }

// Supports reports true for every file type TagLib can open.
func (backend) Supports(ft types.FileType) bool {
	return slices.Contains(types.FileTypes(), ft)
}

func (b backend) Capabilities(ft types.FileType) registry.Capabilities {
	if !b.Supports(ft) {
		return 0
	}
	return registry.CapWrite | registry.CapPropertyMap
}

// ReadTags returns the property map with upper-cased keys and empty values
// removed. TagLib opens files without a tag container as empty, so this
// never returns types.ErrNoTag.
func (backend) ReadTags(path string, _ types.FileType) (map[string][]string, error) {
	raw, err := gotaglib.ReadTags(path)
	if err != nil {
		return nil, wrapErr(path, err)
	}
	return normalise(raw), nil
}

func (backend) ReadProperties(path string, _ types.FileType) (types.AudioProperties, error) {
	p, err := gotaglib.ReadProperties(path)
	if err != nil {
		return types.AudioProperties{}, wrapErr(path, err)
	}
	props := types.AudioProperties{
		Length:     p.Length,
		Bitrate:    int(p.Bitrate),
		SampleRate: int(p.SampleRate),
		Channels:   int(p.Channels),
	}
	if props.IsZero() {
		return types.AudioProperties{}, types.ErrNotFound
	}
	return props, nil
}

// WriteTags replaces every tag in the file with tags.
func (backend) WriteTags(path string, _ types.FileType, tags map[string][]string) error {
	if err := gotaglib.WriteTags(path, normalise(tags), gotaglib.Clear); err != nil {
		return wrapErr(path, err)
	}
	return nil
}

// normalise upper-cases keys, merging values of keys that differ only in
// case, and drops empty values and keys left without values.
func normalise(tags map[string][]string) map[string][]string {
	out := make(map[string][]string, len(tags))
	for k, vs := range tags {
		key := strings.ToUpper(k)
		for _, v := range vs {
			if v != "" {
				out[key] = append(out[key], v)
			}
		}
	}
	return out
}

func wrapErr(path string, err error) error {
	if errors.Is(err, gotaglib.ErrInvalidFile) {
		return &types.InvalidFileError{Path: path, Reason: "TagLib could not open the file", Err: err}
	}
	return fmt.Errorf("taglib: %s: %w", path, err)
}

func init() {
	registry.RegisterBackend(backend{})
}
