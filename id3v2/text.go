package id3v2

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextEncoding is the encoding byte that starts a text-bearing frame body.
type TextEncoding byte

const (
	EncodingISO88591 TextEncoding = 0
	EncodingUTF16    TextEncoding = 1 // with BOM
	EncodingUTF16BE  TextEncoding = 2
	EncodingUTF8     TextEncoding = 3
)

func (e TextEncoding) String() string {
	switch e {
	case EncodingISO88591:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("TextEncoding(%d)", byte(e))
	}
}

func (e TextEncoding) valid() bool {
	return e <= EncodingUTF8
}

func (e TextEncoding) terminatorSize() int {
	if e == EncodingUTF16 || e == EncodingUTF16BE {
		return 2
	}
	return 1
}

func (e TextEncoding) decoder() *encoding.Decoder {
	switch e {
	case EncodingISO88591:
		return charmap.ISO8859_1.NewDecoder()
	case EncodingUTF16:
		// Without a BOM, assume big-endian.
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	}
	return nil
}

// decodeText converts one value (without terminator) to a Go string.
func decodeText(data []byte, enc TextEncoding) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if enc == EncodingUTF8 {
		return string(data), nil
	}
	if enc.terminatorSize() == 2 && len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	dec := enc.decoder()
	if dec == nil {
		return "", fmt.Errorf("no decoder for %s", enc)
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// findTerminator returns the index of the first value terminator in data,
// or -1. UTF-16 terminators are only matched on even offsets.
func findTerminator(data []byte, enc TextEncoding) int {
	if enc.terminatorSize() == 1 {
		return bytes.IndexByte(data, 0)
	}
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return i
		}
	}
	return -1
}

// trimTerminator drops one trailing terminator, if present.
func trimTerminator(data []byte, enc TextEncoding) []byte {
	n := enc.terminatorSize()
	if len(data) >= n && findTerminator(data[len(data)-n:], enc) == 0 {
		return data[:len(data)-n]
	}
	return data
}

// splitValues splits a text frame payload on value terminators. A single
// trailing terminator closes the last value instead of opening a new one.
func splitValues(data []byte, enc TextEncoding) [][]byte {
	var parts [][]byte
	for {
		i := findTerminator(data, enc)
		if i < 0 {
			parts = append(parts, data)
			break
		}
		parts = append(parts, data[:i])
		data = data[i+enc.terminatorSize():]
	}
	if n := len(parts); n > 1 && len(parts[n-1]) == 0 {
		parts = parts[:n-1]
	}
	return parts
}
