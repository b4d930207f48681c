package id3v2

import (
	"fmt"
	"io"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

// RenderFrames encodes frames in order, with sizes encoded for the given
// major version. No tag header is written.
//
// It panics if a frame body exceeds MaxFrameSize; Tag rejects such frames
// when they are added.
func RenderFrames(frames []Frame, major byte) []byte {
	n := 0
	for _, f := range frames {
		n += FrameHeaderSize + len(f.Body)
	}

	out := make([]byte, 0, n)
	for _, f := range frames {
		out = appendFrame(out, f, major)
	}
	return out
}

func appendFrame(dst []byte, f Frame, major byte) []byte {
	var id [4]byte
	copy(id[:], f.ID)
	dst = append(dst, id[:]...)

	if major >= 4 {
		dst = binutil.AppendSynchSafe(dst, f.Size())
	} else {
		dst = binutil.Append(dst, f.Size(), binutil.BigEndian)
	}
	dst = binutil.Append(dst, f.Flags, binutil.BigEndian)
	return append(dst, f.Body...)
}

// Render encodes the tag's frames without a header.
func (t *Tag) Render() []byte {
	return RenderFrames(t.frames, t.header.MajorVersion)
}

// RenderTag encodes a complete tag: a fresh header, the frames and padding
// zero bytes. The header keeps the tag's version. Unsynchronisation, the
// extended header and the footer are never written, so their flags are
// cleared.
//
// It panics if frames plus padding exceed the synch-safe range.
func (t *Tag) RenderTag(padding int) []byte {
	frames := t.Render()
	hdr := t.renderHeader(len(frames), padding)

	out := make([]byte, 0, HeaderSize+int(hdr.TagSize))
	out = append(out, hdr.Bytes()...)
	out = append(out, frames...)
	return append(out, make([]byte, hdr.TagSize-uint32(len(frames)))...)
}

func (t *Tag) renderHeader(framesLen, padding int) Header {
	padding = max(padding, 0)
	if padding > binutil.MaxSynchSafe-framesLen {
		panic(fmt.Sprintf("id3v2: %d bytes of frames plus %d bytes of padding exceed the tag size limit", framesLen, padding))
	}
	return Header{
		MajorVersion: t.header.MajorVersion,
		MinorVersion: t.header.MinorVersion,
		Flags:        t.header.Flags &^ (FlagUnsynchronisation | FlagExtendedHeader | FlagFooter),
		TagSize:      uint32(framesLen + padding),
	}
}

// WriteTo writes RenderTag(0) to w.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	frames := t.Render()
	hdr := t.renderHeader(len(frames), 0)

	sw := binutil.NewSafeWriter(w)
	if err := sw.WriteString(marker); err != nil {
		return sw.Offset(), err
	}
	for _, b := range []byte{hdr.MajorVersion, hdr.MinorVersion, byte(hdr.Flags)} {
		if err := binutil.Write(sw, b); err != nil {
			return sw.Offset(), err
		}
	}
	if err := sw.WriteSynchSafe(hdr.TagSize); err != nil {
		return sw.Offset(), err
	}
	err := sw.WriteBytes(frames)
	return sw.Offset(), err
}
