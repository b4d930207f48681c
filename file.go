package audiotag

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// File is an opened audio file with its tags loaded into memory.
//
// Tags are edited through Tag and SetProperties and written back by Save.
// Audio properties are read on first use. A File is not safe for concurrent
// mutation.
//
// Always call Close() when done:
//
//	file, err := audiotag.Open("song.flac", audiotag.Autodetect)
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	path     string
	fileType FileType
	backend  registry.Backend
	caps     registry.Capabilities
	logger   *slog.Logger

	tags   map[string][]string
	saved  map[string][]string
	hasTag bool
	closed bool

	properties func() (AudioProperties, error)
}

// Open opens an audio file and reads its tags.
//
// With hint Autodetect the type is detected from content. An explicit hint
// is checked against detection: content positively detected as another type
// is an *InvalidFileError.
//
// A missing file matches ErrNotFound. A type the backend cannot handle is an
// *UnsupportedFormatError, and a file the backend fails to read is an
// *InvalidFileError.
func Open(path string, hint FileType, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	ft, err := resolveType(path, hint, options.strictType)
	if err != nil {
		return nil, err
	}

	backend := registry.GetBackend(options.backend)
	if backend == nil {
		return nil, fmt.Errorf("unknown backend %q (have %v)", options.backend, registry.BackendNames())
	}
	if !backend.Supports(ft) {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("%s backend does not support %s", backend.Name(), ft),
		}
	}

	tags, err := backend.ReadTags(path, ft)
	hasTag := true
	switch {
	case errors.Is(err, types.ErrNoTag):
		tags, hasTag = make(map[string][]string), false
	case err != nil:
		var ife *InvalidFileError
		if errors.As(err, &ife) {
			return nil, err
		}
		return nil, &InvalidFileError{Path: path, Reason: "read tags", Err: err}
	}

	f := &File{
		path:     path,
		fileType: ft,
		backend:  backend,
		caps:     backend.Capabilities(ft),
		logger:   options.logger,
		tags:     tags,
		saved:    cloneTags(tags),
		hasTag:   hasTag,
	}
	f.properties = sync.OnceValues(func() (AudioProperties, error) {
		return backend.ReadProperties(path, ft)
	})

	options.logger.Debug("open", "path", path, "type", ft, "backend", backend.Name(), "tag", hasTag)
	return f, nil
}

// resolveType detects the file type and reconciles it with the hint.
func resolveType(path string, hint FileType, strict bool) (FileType, error) {
	if hint != Autodetect && !slices.Contains(types.FileTypes(), hint) {
		return Autodetect, &UnsupportedFormatError{Path: path, Reason: fmt.Sprintf("unknown file type %d", int(hint))}
	}

	r, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Autodetect, fmt.Errorf("open %s: %w: %w", path, ErrNotFound, err)
	}
	if err != nil {
		return Autodetect, fmt.Errorf("open file: %w", err)
	}
	defer r.Close()

	stat, err := r.Stat()
	if err != nil {
		return Autodetect, fmt.Errorf("stat file: %w", err)
	}
	if stat.IsDir() {
		return Autodetect, &InvalidFileError{Path: path, Reason: "is a directory"}
	}

	detected, detectErr := types.DetectFileType(r, stat.Size(), path)

	switch {
	case hint == Autodetect:
		if detectErr != nil {
			return Autodetect, detectErr
		}
		return detected, nil
	case detectErr != nil:
		if strict {
			return Autodetect, &InvalidFileError{Path: path, Reason: fmt.Sprintf("content is not %s", hint), Err: detectErr}
		}
		return hint, nil
	case !compatible(hint, detected):
		return Autodetect, &InvalidFileError{Path: path, Reason: fmt.Sprintf("content is %s, not %s", detected, hint)}
	}
	return hint, nil
}

// compatible reports whether content detected as detected can be opened with
// the hint. Ogg FLAC carries a FLAC stream, and an unknown Ogg codec is
// detected as Vorbis.
func compatible(hint, detected FileType) bool {
	if hint == detected {
		return true
	}
	return detected == OggVorbis && (hint == OggOpus || hint == Speex || hint == OggFLAC)
}

// OpenContext is Open with a cancellation check before any I/O.
func OpenContext(ctx context.Context, path string, hint FileType, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, hint, opts...)
}

// OpenMany opens multiple audio files concurrently.
//
// Files are opened in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
func OpenMany(ctx context.Context, hint FileType, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			file, err := OpenContext(ctx, path, hint)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Type returns the resolved file type.
func (f *File) Type() FileType { return f.fileType }

// Backend returns the name of the backend that opened the file.
func (f *File) Backend() string { return f.backend.Name() }

// Tag returns a view of the file's tag.
//
// It returns ErrNotFound when the file has no tag and the backend cannot
// create one. The view stays bound to the file; edits become visible to
// Properties and are written by Save.
func (f *File) Tag() (*Tag, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if !f.hasTag && !f.caps.Has(registry.CapWrite) {
		return nil, ErrNotFound
	}
	return &Tag{file: f}, nil
}

// AudioProperties returns the audio properties, read once on first call. It
// returns an error matching ErrNotFound when the backend has none for the
// file.
func (f *File) AudioProperties() (AudioProperties, error) {
	if f.closed {
		return AudioProperties{}, ErrClosed
	}
	return f.properties()
}

// Close releases the file. Later calls to Save, Tag and AudioProperties
// return ErrClosed. Close is idempotent.
func (f *File) Close() error {
	f.closed = true
	return nil
}

// Modified reports whether tags changed since the file was opened or last
// saved.
func (f *File) Modified() bool {
	return !maps.EqualFunc(f.tags, f.saved, slices.Equal[[]string])
}

func cloneTags(tags map[string][]string) map[string][]string {
	out := make(map[string][]string, len(tags))
	for k, vs := range tags {
		out[k] = slices.Clone(vs)
	}
	return out
}
