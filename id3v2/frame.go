package id3v2

import (
	"bytes"
	"fmt"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

const (
	// FrameHeaderSize is the length of a v2.3/v2.4 frame header: id, size, flags.
	FrameHeaderSize = 10

	// MaxFrameSize is the largest body a frame may carry so that its size
	// fits a synch-safe field.
	MaxFrameSize = binutil.MaxSynchSafe
)

// Frame is a single tag entry. The declared size is always len(Body).
type Frame struct {
	ID    string
	Flags uint16
	Body  []byte
}

// Size returns the body length as written in the frame header.
func (f Frame) Size() uint32 {
	return uint32(len(f.Body))
}

func (f Frame) clone() Frame {
	f.Body = bytes.Clone(f.Body)
	if f.Body == nil {
		f.Body = []byte{}
	}
	return f
}

// IsText reports whether f is a text identification frame (T000-TZZZ other
// than TXXX).
func (f Frame) IsText() bool {
	return len(f.ID) == 4 && f.ID[0] == 'T' && f.ID != "TXXX"
}

// Encoding returns the text encoding byte of a text-bearing frame. An empty
// body reports EncodingISO88591.
func (f Frame) Encoding() TextEncoding {
	if len(f.Body) == 0 {
		return EncodingISO88591
	}
	return TextEncoding(f.Body[0])
}

// TextValues decodes the NUL-separated values of a text frame.
func (f Frame) TextValues() ([]string, error) {
	if len(f.Body) == 0 {
		return []string{""}, nil
	}
	enc := f.Encoding()
	if !enc.valid() {
		return nil, &UnsupportedEncodingError{ID: f.ID, Encoding: byte(enc)}
	}

	parts := splitValues(f.Body[1:], enc)
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		s, err := decodeText(p, enc)
		if err != nil {
			return nil, &MalformedFrameError{ID: f.ID, Reason: "decode text", Err: err}
		}
		values = append(values, s)
	}
	return values, nil
}

// Text decodes a text frame, joining multiple values with a space.
func (f Frame) Text() (string, error) {
	values, err := f.TextValues()
	if err != nil {
		return "", err
	}
	return strings.Join(values, " "), nil
}

// NewTextFrame builds a UTF-8 text identification frame.
func NewTextFrame(id, text string) (Frame, error) {
	body := make([]byte, 0, 1+len(text))
	body = append(body, byte(EncodingUTF8))
	body = append(body, text...)

	if err := checkFrame("new text frame", id, len(body)); err != nil {
		return Frame{}, err
	}
	return Frame{ID: id, Body: body}, nil
}

// Comment is the decoded body of a COMM frame.
type Comment struct {
	Language    string
	Description string
	Text        string
}

// NewCommentFrame builds a UTF-8 COMM frame. lang is a 3-letter ISO-639-2 code.
func NewCommentFrame(lang, description, text string) (Frame, error) {
	if len(lang) != 3 {
		return Frame{}, &PreconditionError{
			Op:     "new comment frame",
			Reason: fmt.Sprintf("language %q must be 3 bytes", lang),
		}
	}

	body := make([]byte, 0, 5+len(description)+len(text))
	body = append(body, byte(EncodingUTF8))
	body = append(body, lang...)
	body = append(body, description...)
	body = append(body, 0)
	body = append(body, text...)

	if err := checkFrame("new comment frame", "COMM", len(body)); err != nil {
		return Frame{}, err
	}
	return Frame{ID: "COMM", Body: body}, nil
}

// Comment decodes a COMM frame.
// Format: [encoding][language(3)][description\0][text]
func (f Frame) Comment() (Comment, error) {
	if f.ID != "COMM" {
		return Comment{}, &MalformedFrameError{ID: f.ID, Reason: "not a comment frame"}
	}
	if len(f.Body) < 4 {
		return Comment{}, &MalformedFrameError{ID: f.ID, Reason: fmt.Sprintf("body too short: %d bytes", len(f.Body))}
	}

	enc := f.Encoding()
	if !enc.valid() {
		return Comment{}, &UnsupportedEncodingError{ID: f.ID, Encoding: byte(enc)}
	}

	c := Comment{Language: string(f.Body[1:4])}
	data := f.Body[4:]

	// Some writers omit the description terminator.
	idx := findTerminator(data, enc)
	if idx < 0 {
		text, err := decodeText(data, enc)
		if err != nil {
			return Comment{}, &MalformedFrameError{ID: f.ID, Reason: "decode text", Err: err}
		}
		c.Text = text
		return c, nil
	}

	desc, err := decodeText(data[:idx], enc)
	if err != nil {
		return Comment{}, &MalformedFrameError{ID: f.ID, Reason: "decode description", Err: err}
	}
	text, err := decodeText(trimTerminator(data[idx+enc.terminatorSize():], enc), enc)
	if err != nil {
		return Comment{}, &MalformedFrameError{ID: f.ID, Reason: "decode text", Err: err}
	}
	c.Description = desc
	c.Text = text
	return c, nil
}

// checkFrame validates a frame the caller is about to add.
func checkFrame(op, id string, bodyLen int) error {
	if !validID(id) {
		return &PreconditionError{Op: op, Reason: fmt.Sprintf("invalid frame id %q", id)}
	}
	if bodyLen > MaxFrameSize {
		return &PreconditionError{
			Op:     op,
			Reason: fmt.Sprintf("frame %s body is %d bytes, limit %d", id, bodyLen, MaxFrameSize),
		}
	}
	return nil
}

// validID reports whether id is four characters from A-Z and 0-9.
func validID(id string) bool {
	if len(id) != 4 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
