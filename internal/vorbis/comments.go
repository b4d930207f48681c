// Package vorbis decodes Vorbis comment blocks.
//
// The same block layout is carried by Ogg Vorbis, Ogg Opus, Speex and Ogg
// FLAC streams: a vendor string followed by UTF-8 "KEY=VALUE" comments, all
// lengths 32-bit little-endian.
package vorbis

import (
	"fmt"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

// Comments is a decoded comment block.
type Comments struct {
	Vendor string
	// Tags maps upper-cased field names to their values in stream order.
	Tags map[string][]string
}

// ParseComment splits a single "KEY=VALUE" comment. Field names are
// case-insensitive and returned upper-cased.
func ParseComment(comment string) (key, value string, err error) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return "", "", fmt.Errorf("missing '=' in comment: %q", comment)
	}
	if key == "" {
		return "", "", fmt.Errorf("empty field name in comment: %q", comment)
	}
	return strings.ToUpper(key), value, nil
}

// ParseComments decodes a comment block that starts at the vendor length.
//
// Comments without a separator are skipped. A comment list that runs past
// the end of data is an error; the vendor string must be complete.
func ParseComments(data []byte) (*Comments, error) {
	offset := 0

	vendorLen, err := readLength(data, offset, "vendor length")
	if err != nil {
		return nil, err
	}
	offset += 4
	if offset+vendorLen > len(data) {
		return nil, fmt.Errorf("truncated vendor string: need %d bytes, have %d", vendorLen, len(data)-offset)
	}
	c := &Comments{
		Vendor: string(data[offset : offset+vendorLen]),
		Tags:   make(map[string][]string),
	}
	offset += vendorLen

	count, err := readLength(data, offset, "comment count")
	if err != nil {
		return nil, err
	}
	offset += 4

	for i := 0; i < count; i++ {
		n, err := readLength(data, offset, fmt.Sprintf("comment %d length", i))
		if err != nil {
			return nil, err
		}
		offset += 4
		if offset+n > len(data) {
			return nil, fmt.Errorf("truncated comment %d: need %d bytes, have %d", i, n, len(data)-offset)
		}
		comment := string(data[offset : offset+n])
		offset += n

		key, value, err := ParseComment(comment)
		if err != nil {
			continue
		}
		c.Tags[key] = append(c.Tags[key], value)
	}

	return c, nil
}

func readLength(data []byte, offset int, what string) (int, error) {
	if offset+4 > len(data) {
		return 0, fmt.Errorf("truncated %s at offset %d", what, offset)
	}
	v, err := binutil.Decode[uint32](data[offset:offset+4], binutil.LittleEndian)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
