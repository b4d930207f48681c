package id3v2

import "fmt"

// Tag is an ID3v2 header plus an ordered list of frames. Insertion order is
// render order and duplicate IDs are kept.
//
// A Tag never shares frame bodies with its caller: frames passed in and
// handed out are copies. A Tag is not safe for concurrent use.
type Tag struct {
	header Header
	frames []Frame
}

// NewTag returns an empty ID3v2.4.0 tag.
func NewTag() *Tag {
	return &Tag{header: Header{MajorVersion: 4}}
}

// NewTagVersion returns an empty tag of major version 3 or 4.
func NewTagVersion(major byte) (*Tag, error) {
	if major != 3 && major != 4 {
		return nil, &UnsupportedVersionError{Major: major}
	}
	return &Tag{header: Header{MajorVersion: major}}, nil
}

// Header returns the header the tag was parsed with or created with.
func (t *Tag) Header() Header {
	return t.header
}

// Version returns the major version.
func (t *Tag) Version() byte {
	return t.header.MajorVersion
}

// TagSize returns the declared size from the parsed header.
// It is not updated by mutations; RenderTag computes a fresh one.
func (t *Tag) TagSize() uint32 {
	return t.header.TagSize
}

// CompleteTagSize returns the size the parsed tag occupies in its file.
func (t *Tag) CompleteTagSize() uint32 {
	return t.header.CompleteTagSize()
}

// ParseHeader decodes raw into the tag's header. Only versions 2.3 and 2.4
// are accepted.
func (t *Tag) ParseHeader(raw []byte) error {
	h, err := ParseHeader(raw)
	if err != nil {
		return err
	}
	if h.MajorVersion != 3 && h.MajorVersion != 4 {
		return &UnsupportedVersionError{Major: h.MajorVersion, Minor: h.MinorVersion}
	}
	t.header = h
	return nil
}

// ParseBody decodes the TagSize bytes following the header and replaces the
// tag's frames. On error the tag is left unchanged.
func (t *Tag) ParseBody(body []byte) error {
	h := t.header

	// v2.4 unsynchronisation is per frame and left in the frame bodies.
	if h.MajorVersion == 3 && h.Flags.Has(FlagUnsynchronisation) {
		body = resync(body)
	}

	if h.Flags.Has(FlagExtendedHeader) {
		n, err := skipExtendedHeader(body, h.MajorVersion)
		if err != nil {
			return err
		}
		body = body[n:]
	}

	frames, err := ParseFrames(body, h.MajorVersion, h.MinorVersion)
	if err != nil {
		return err
	}
	t.frames = frames
	return nil
}

// AttachFrame appends a UTF-8 text frame. It never replaces an existing frame
// with the same id; use SetText for that.
func (t *Tag) AttachFrame(id, text string) error {
	f, err := NewTextFrame(id, text)
	if err != nil {
		return err
	}
	t.frames = append(t.frames, f)
	return nil
}

// AddFrame appends a copy of f.
func (t *Tag) AddFrame(f Frame) error {
	if err := checkFrame("add frame", f.ID, len(f.Body)); err != nil {
		return err
	}
	t.frames = append(t.frames, f.clone())
	return nil
}

// SetText replaces every frame with the given id by a single text frame.
func (t *Tag) SetText(id, text string) error {
	f, err := NewTextFrame(id, text)
	if err != nil {
		return err
	}
	t.RemoveFrames(id)
	t.frames = append(t.frames, f)
	return nil
}

// RemoveFrames deletes every frame with the given id and returns how many
// were removed.
func (t *Tag) RemoveFrames(id string) int {
	return t.RemoveFramesFunc(func(f Frame) bool { return f.ID == id })
}

// RemoveFramesFunc deletes every frame for which del returns true and
// returns how many were removed. Remaining frames keep their order.
func (t *Tag) RemoveFramesFunc(del func(Frame) bool) int {
	kept := t.frames[:0]
	for _, f := range t.frames {
		if !del(f) {
			kept = append(kept, f)
		}
	}
	removed := len(t.frames) - len(kept)
	clear(t.frames[len(kept):])
	t.frames = kept
	return removed
}

// Text returns the decoded text of the first frame with the given id that
// decodes cleanly.
func (t *Tag) Text(id string) (string, bool) {
	for _, f := range t.frames {
		if f.ID != id {
			continue
		}
		s, err := f.Text()
		if err == nil {
			return s, true
		}
	}
	return "", false
}

// Frames returns copies of all frames in order.
func (t *Tag) Frames() []Frame {
	out := make([]Frame, len(t.frames))
	for i, f := range t.frames {
		out[i] = f.clone()
	}
	return out
}

// FramesByID returns copies of the frames with the given id, in order.
func (t *Tag) FramesByID(id string) []Frame {
	var out []Frame
	for _, f := range t.frames {
		if f.ID == id {
			out = append(out, f.clone())
		}
	}
	return out
}

// Len returns the number of frames.
func (t *Tag) Len() int {
	return len(t.frames)
}

func (t *Tag) String() string {
	return fmt.Sprintf("ID3v%s (%d frames)", t.header.Version(), len(t.frames))
}
