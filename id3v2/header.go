package id3v2

import (
	"fmt"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

// HeaderSize is the length of the fixed tag header, and of the v2.4 footer.
const HeaderSize = 10

const marker = "ID3"

// HeaderFlags is the flag byte of a tag header.
type HeaderFlags byte

const (
	FlagUnsynchronisation HeaderFlags = 0x80
	FlagExtendedHeader    HeaderFlags = 0x40
	FlagExperimental      HeaderFlags = 0x20
	FlagFooter            HeaderFlags = 0x10 // v2.4 only
)

// Has reports whether every bit of flag is set.
func (f HeaderFlags) Has(flag HeaderFlags) bool {
	return f&flag == flag
}

// Header is the fixed 10-byte structure at the start of an ID3v2 region.
type Header struct {
	MajorVersion byte
	MinorVersion byte
	Flags        HeaderFlags

	// TagSize is the number of bytes after the header, excluding any footer.
	TagSize uint32
}

// ParseHeader decodes the first HeaderSize bytes of raw.
//
// It fails with *MalformedHeaderError when raw is short, does not start with
// "ID3", or carries a size byte with its top bit set.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < HeaderSize {
		return Header{}, &MalformedHeaderError{
			Reason: fmt.Sprintf("need %d bytes, have %d", HeaderSize, len(raw)),
		}
	}
	if string(raw[0:3]) != marker {
		return Header{}, &MalformedHeaderError{
			Reason: fmt.Sprintf("bad marker %q", raw[0:3]),
		}
	}

	size, err := binutil.ReadSynchSafe(raw[6:10])
	if err != nil {
		return Header{}, &MalformedHeaderError{Reason: "tag size", Err: err}
	}

	return Header{
		MajorVersion: raw[3],
		MinorVersion: raw[4],
		Flags:        HeaderFlags(raw[5]),
		TagSize:      size,
	}, nil
}

// Bytes renders the header. It is the inverse of ParseHeader.
//
// It panics if TagSize exceeds the synch-safe range.
func (h Header) Bytes() []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, marker...)
	b = append(b, h.MajorVersion, h.MinorVersion, byte(h.Flags))
	return binutil.AppendSynchSafe(b, h.TagSize)
}

// HasFooter reports whether a 10-byte footer follows the tag body.
func (h Header) HasFooter() bool {
	return h.MajorVersion >= 4 && h.Flags.Has(FlagFooter)
}

// CompleteTagSize returns the number of bytes the whole tag occupies in a
// file: header, body and footer.
func (h Header) CompleteTagSize() uint32 {
	size := HeaderSize + h.TagSize
	if h.HasFooter() {
		size += HeaderSize
	}
	return size
}

// Version returns the version as "2.major.minor".
func (h Header) Version() string {
	return fmt.Sprintf("2.%d.%d", h.MajorVersion, h.MinorVersion)
}
