package audiotag

import (
	"log/slog"

	"github.com/simonhull/audiotag/internal/native"
	"github.com/simonhull/audiotag/internal/taglib"
)

// Backend names accepted by WithBackend.
const (
	// BackendTagLib reads and writes every file type through TagLib, with
	// generic property maps.
	BackendTagLib = taglib.Name

	// BackendNative reads the fixed field set without cgo or WebAssembly,
	// and writes ID3v2 tags on MPEG files only.
	BackendNative = native.Name
)

// Option configures behavior when opening audio files.
//
// Example:
//
//	file, err := audiotag.Open("song.mp3", audiotag.Autodetect,
//	    audiotag.WithBackend(audiotag.BackendNative),
//	    audiotag.WithLogger(logger),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	backend    string
	logger     *slog.Logger
	strictType bool
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		backend: BackendTagLib,
		logger:  slog.Default(),
	}
}

// WithBackend selects the tagging backend by name. Unknown names make Open
// fail.
func WithBackend(name string) Option {
	return func(o *openOptions) {
		o.backend = name
	}
}

// WithLogger sets the logger for open and save records. A nil logger keeps
// the default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictType makes an explicit type hint fail unless the content is
// detected as that type.
//
// By default a hint is trusted when detection is inconclusive, and only a
// positive detection of a different type is an error.
func WithStrictType() Option {
	return func(o *openOptions) {
		o.strictType = true
	}
}
