package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing file, tag or set of audio properties.
	ErrNotFound = errors.New("not found")

	// ErrNoTag is returned by backends when a file has no tag container.
	ErrNoTag = errors.New("no tag")

	// ErrClosed is returned when a closed File is used.
	ErrClosed = errors.New("file already closed")

	// ErrInvalidFile reports a file the backend could not open.
	ErrInvalidFile = errors.New("invalid file")
)

// InvalidFileError is returned when a file exists but cannot be read as the
// requested type.
type InvalidFileError struct {
	Err    error
	Path   string
	Reason string
}

func (e *InvalidFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid file: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: invalid file: %s", e.Path, e.Reason)
}

func (e *InvalidFileError) Is(target error) bool { return target == ErrInvalidFile }

func (e *InvalidFileError) Unwrap() error { return e.Err }

// UnsupportedFormatError is returned when the file type is not recognised or
// not handled by the selected backend.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// UnsupportedWriteError indicates the backend cannot write this file type.
type UnsupportedWriteError struct {
	Reason  string
	Backend string
	Type    FileType
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s by %s backend: %s", e.Type, e.Backend, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s by %s backend", e.Type, e.Backend)
}

// UnsupportedOperationError is returned when the backend lacks a capability,
// such as generic property maps.
type UnsupportedOperationError struct {
	Op      string
	Backend string
	Type    FileType
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s not supported for %s by %s backend", e.Op, e.Type, e.Backend)
}
