package id3v2

import (
	"bytes"
	"fmt"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

// ParseFrames splits a tag body into frames.
//
// Parsing stops without error when fewer than FrameHeaderSize bytes remain or
// the next frame id is all zero bytes (padding). Frame sizes are synch-safe
// for major version 4 and above, big-endian otherwise. Version 2.2, with its
// 6-byte frame headers, is rejected.
//
// Returned frames own copies of their bodies.
func ParseFrames(body []byte, major, minor byte) ([]Frame, error) {
	if major < 3 {
		return nil, &UnsupportedVersionError{Major: major, Minor: minor}
	}

	var frames []Frame
	offset := 0
	for len(body)-offset >= FrameHeaderSize {
		hdr := body[offset : offset+FrameHeaderSize]
		if hdr[0] == 0 && hdr[1] == 0 && hdr[2] == 0 && hdr[3] == 0 {
			break
		}

		id := string(hdr[0:4])
		size, err := frameSize(hdr[4:8], major)
		if err != nil {
			return nil, &MalformedFrameError{ID: id, Offset: offset, Reason: "frame size", Err: err}
		}
		flags, _ := binutil.Decode[uint16](hdr[8:10], binutil.BigEndian)

		remaining := len(body) - offset - FrameHeaderSize
		if uint64(size) > uint64(remaining) {
			return nil, &TruncatedFrameError{ID: id, Offset: offset, Size: size, Remaining: remaining}
		}

		start := offset + FrameHeaderSize
		frames = append(frames, Frame{
			ID:    id,
			Flags: flags,
			Body:  bytes.Clone(body[start : start+int(size)]),
		})
		if frames[len(frames)-1].Body == nil {
			frames[len(frames)-1].Body = []byte{}
		}

		offset = start + int(size)
	}

	return frames, nil
}

func frameSize(b []byte, major byte) (uint32, error) {
	if major >= 4 {
		return binutil.ReadSynchSafe(b)
	}
	return binutil.Decode[uint32](b, binutil.BigEndian)
}

// resync reverses unsynchronisation: every 0xFF 0x00 pair becomes 0xFF.
func resync(b []byte) []byte {
	if bytes.IndexByte(b, 0xFF) < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// skipExtendedHeader returns the number of bytes the extended header
// occupies at the start of body.
//
// v2.3 stores a big-endian size that excludes its own 4 bytes; v2.4 stores a
// synch-safe size that includes them.
func skipExtendedHeader(body []byte, major byte) (int, error) {
	if len(body) < 4 {
		return 0, &MalformedHeaderError{Reason: "extended header size: body too short"}
	}

	var n uint64
	if major >= 4 {
		size, err := binutil.ReadSynchSafe(body)
		if err != nil {
			return 0, &MalformedHeaderError{Reason: "extended header size", Err: err}
		}
		n = uint64(size)
	} else {
		size, _ := binutil.Decode[uint32](body, binutil.BigEndian)
		n = uint64(size) + 4
	}

	if n < 4 || n > uint64(len(body)) {
		return 0, &MalformedHeaderError{
			Reason: fmt.Sprintf("extended header size %d does not fit tag body of %d bytes", n, len(body)),
		}
	}
	return int(n), nil
}

// Parse decodes a complete tag (header and body) from the start of data.
func Parse(data []byte) (*Tag, error) {
	t := &Tag{}
	if err := t.ParseHeader(data); err != nil {
		return nil, err
	}

	end := uint64(HeaderSize) + uint64(t.header.TagSize)
	if uint64(len(data)) < end {
		return nil, &TruncatedFrameError{Size: t.header.TagSize, Remaining: len(data) - HeaderSize}
	}
	if err := t.ParseBody(data[HeaderSize:end]); err != nil {
		return nil, err
	}
	return t, nil
}
