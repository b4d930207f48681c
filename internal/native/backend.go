// Package native is a tagging backend written in Go. It reads the fixed
// field set from every supported container and writes ID3v2 tags on MPEG
// files, but has no generic property maps.
package native

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"

	"github.com/simonhull/audiotag/internal/ogg"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"

	// Property readers register themselves.
	_ "github.com/simonhull/audiotag/internal/flac"
	_ "github.com/simonhull/audiotag/internal/mp4"
	_ "github.com/simonhull/audiotag/internal/mpeg"
)

// Name is the registry name of this backend.
const Name = "native"

type backend struct{}

func (backend) Name() string { return Name }

func (backend) Supports(ft types.FileType) bool {
	switch ft {
	case types.MPEG, types.FLAC, types.MP4,
		types.OggVorbis, types.OggOpus, types.Speex, types.OggFLAC:
		return true
	}
	return false
}

// Capabilities reports CapWrite for MPEG only.
func (backend) Capabilities(ft types.FileType) registry.Capabilities {
	if ft == types.MPEG {
		return registry.CapWrite
	}
	return 0
}

func (b backend) ReadTags(path string, ft types.FileType) (map[string][]string, error) {
	switch ft {
	case types.MPEG:
		return readMPEGTags(path)
	case types.OggOpus, types.Speex, types.OggFLAC:
		return readOggComments(path)
	case types.FLAC, types.MP4, types.OggVorbis:
		return readGeneric(path)
	}
	return nil, &types.UnsupportedFormatError{Path: path, Reason: fmt.Sprintf("%s backend cannot read %s", Name, ft)}
}

// ReadProperties runs the property reader registered for ft. Reader
// failures match types.ErrNotFound and keep the underlying cause.
func (backend) ReadProperties(path string, ft types.FileType) (types.AudioProperties, error) {
	reader := registry.GetProperties(ft)
	if reader == nil {
		return types.AudioProperties{}, types.ErrNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		return types.AudioProperties{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return types.AudioProperties{}, err
	}

	props, err := reader.ReadProperties(f, info.Size(), path)
	if err != nil {
		return types.AudioProperties{}, fmt.Errorf("%w: %w", types.ErrNotFound, err)
	}
	if props.IsZero() {
		return types.AudioProperties{}, types.ErrNotFound
	}
	return props, nil
}

func (backend) WriteTags(path string, ft types.FileType, tags map[string][]string) error {
	if ft != types.MPEG {
		return &types.UnsupportedWriteError{Backend: Name, Type: ft, Reason: "only ID3v2 on MPEG is writable"}
	}
	return writeMPEGTags(path, tags)
}

// readGeneric reads FLAC, MP4 and Ogg Vorbis tags, and ID3v1 tags.
func readGeneric(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return nil, types.ErrNoTag
	}
	if err != nil {
		return nil, &types.InvalidFileError{Path: path, Reason: "read tags", Err: err}
	}
	tags := fromMetadata(m)
	if len(tags) == 0 {
		return nil, types.ErrNoTag
	}
	return tags, nil
}

func fromMetadata(m tag.Metadata) map[string][]string {
	tags := make(map[string][]string)
	set := func(key, value string) {
		if value != "" {
			tags[key] = []string{value}
		}
	}

	set(types.KeyTitle, m.Title())
	set(types.KeyArtist, m.Artist())
	set(types.KeyAlbum, m.Album())
	set(types.KeyComment, m.Comment())
	set(types.KeyGenre, m.Genre())
	if y := m.Year(); y > 0 {
		set(types.KeyDate, strconv.Itoa(y))
	}
	if n, _ := m.Track(); n > 0 {
		set(types.KeyTrackNumber, strconv.Itoa(n))
	}
	return tags
}

func readOggComments(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	c, _, err := ogg.ReadComments(f, info.Size(), path)
	if err != nil {
		return nil, err
	}

	tags := make(map[string][]string)
	for _, key := range types.FixedKeys {
		if vs := nonEmpty(c.Tags[key]); len(vs) > 0 {
			tags[key] = vs
		}
	}
	if len(tags) == 0 {
		return nil, types.ErrNoTag
	}
	return tags, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func init() {
	registry.RegisterBackend(backend{})
}
