package audiotag

import (
	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrNotFound reports a missing file, tag or set of audio properties.
	ErrNotFound = types.ErrNotFound

	// ErrClosed is returned when a closed File is used.
	ErrClosed = types.ErrClosed

	// ErrInvalidFile matches every *InvalidFileError.
	ErrInvalidFile = types.ErrInvalidFile
)

// InvalidFileError is returned when a file exists but cannot be opened as
// the requested type.
type InvalidFileError = types.InvalidFileError

// UnsupportedFormatError is returned for file types the backend cannot handle.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedWriteError is returned by Save when the backend cannot write the
// file type.
type UnsupportedWriteError = types.UnsupportedWriteError

// UnsupportedOperationError is returned when the backend lacks a capability,
// such as generic property maps.
type UnsupportedOperationError = types.UnsupportedOperationError

// OutOfBoundsError is an alias to the bounds-checked reader's error.
type OutOfBoundsError = binutil.OutOfBoundsError
