package id3v2

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching. The typed errors below report
// details and match the corresponding sentinel.
var (
	ErrMalformedHeader = errors.New("id3v2: malformed header")
	ErrMalformedFrame  = errors.New("id3v2: malformed frame")
	ErrTruncatedFrame  = errors.New("id3v2: truncated frame")
	ErrPrecondition    = errors.New("id3v2: precondition violated")

	// ErrNoTag is returned by ReadFrom and ReadFile when the source does not
	// begin with an ID3v2 tag.
	ErrNoTag = errors.New("id3v2: no tag")
)

// MalformedHeaderError is returned when a tag header or extended header
// cannot be decoded.
type MalformedHeaderError struct {
	Reason string
	Err    error
}

func (e *MalformedHeaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("id3v2: malformed header: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("id3v2: malformed header: %s", e.Reason)
}

func (e *MalformedHeaderError) Is(target error) bool { return target == ErrMalformedHeader }

func (e *MalformedHeaderError) Unwrap() error { return e.Err }

// MalformedFrameError is returned when a frame header or body cannot be decoded.
type MalformedFrameError struct {
	ID     string
	Offset int
	Reason string
	Err    error
}

func (e *MalformedFrameError) Error() string {
	msg := fmt.Sprintf("id3v2: malformed frame %q at offset %d: %s", e.ID, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedFrameError) Is(target error) bool { return target == ErrMalformedFrame }

func (e *MalformedFrameError) Unwrap() error { return e.Err }

// TruncatedFrameError is returned when a declared size runs past the end of
// the supplied buffer. ID is empty when the tag body itself is short.
type TruncatedFrameError struct {
	ID        string
	Offset    int
	Size      uint32
	Remaining int
}

func (e *TruncatedFrameError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("id3v2: truncated tag: declared %d bytes, %d available", e.Size, e.Remaining)
	}
	return fmt.Sprintf("id3v2: truncated frame %q at offset %d: declared %d bytes, %d remaining",
		e.ID, e.Offset, e.Size, e.Remaining)
}

func (e *TruncatedFrameError) Is(target error) bool { return target == ErrTruncatedFrame }

// UnsupportedVersionError is returned for tag versions the codec cannot handle.
type UnsupportedVersionError struct {
	Major byte
	Minor byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("id3v2: unsupported version 2.%d.%d", e.Major, e.Minor)
}

// UnsupportedEncodingError is returned when a text frame declares an unknown
// encoding byte.
type UnsupportedEncodingError struct {
	ID       string
	Encoding byte
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("id3v2: frame %q: unsupported text encoding %d", e.ID, e.Encoding)
}

// PreconditionError reports a caller error caught before the tag was changed.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("id3v2: %s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }
