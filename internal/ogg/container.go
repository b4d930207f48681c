// Package ogg reads audio properties and comment headers from Ogg streams
// carrying Vorbis, Opus, Speex or FLAC.
package ogg

import (
	"bytes"
	"fmt"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

const (
	pageHeaderSize = 27

	flagContinued = 0x01

	// granuleUnset marks a page on which no packet completes.
	granuleUnset = -1

	// lastPageSearch is how far from the end the final page is searched for.
	// It covers the largest possible Ogg page.
	lastPageSearch = 65536
)

var capturePattern = []byte("OggS")

// Page represents an Ogg page.
type Page struct {
	HeaderType      byte   // 0x01=continued, 0x02=BOS, 0x04=EOS
	GranulePosition int64  // codec-defined position, -1 when unset
	SerialNumber    uint32 // logical bitstream identifier
	SequenceNumber  uint32
	Segments        []byte // lacing values
	Data            []byte // payload, the concatenated segments
}

// readPage reads an Ogg page at the given offset and returns it with the
// offset of the following page.
func readPage(sr *binutil.SafeReader, offset int64) (*Page, int64, error) {
	hdr := make([]byte, pageHeaderSize)
	if err := sr.ReadAt(hdr, offset, "Ogg page header"); err != nil {
		return nil, 0, err
	}
	if !bytes.Equal(hdr[0:4], capturePattern) {
		return nil, 0, fmt.Errorf("invalid Ogg page at offset %d", offset)
	}
	if hdr[4] != 0 {
		return nil, 0, fmt.Errorf("unsupported Ogg version %d at offset %d", hdr[4], offset)
	}

	granule, _ := binutil.Decode[uint64](hdr[6:14], binutil.LittleEndian)
	serial, _ := binutil.Decode[uint32](hdr[14:18], binutil.LittleEndian)
	sequence, _ := binutil.Decode[uint32](hdr[18:22], binutil.LittleEndian)

	segments := make([]byte, hdr[26])
	if err := sr.ReadAt(segments, offset+pageHeaderSize, "segment table"); err != nil {
		return nil, 0, err
	}

	dataSize := 0
	for _, seg := range segments {
		dataSize += int(seg)
	}

	dataOffset := offset + pageHeaderSize + int64(len(segments))
	data := make([]byte, dataSize)
	if dataSize > 0 {
		if err := sr.ReadAt(data, dataOffset, "page data"); err != nil {
			return nil, 0, err
		}
	}

	page := &Page{
		HeaderType:      hdr[5],
		GranulePosition: int64(granule),
		SerialNumber:    serial,
		SequenceNumber:  sequence,
		Segments:        segments,
		Data:            data,
	}
	return page, dataOffset + int64(dataSize), nil
}

// packetReader reassembles the packets of one logical stream from
// consecutive pages. A packet ends at the first lacing value below 255 and
// may span pages.
type packetReader struct {
	sr      *binutil.SafeReader
	offset  int64
	serial  uint32
	pending []byte
	queue   [][]byte
	started bool
}

func newPacketReader(sr *binutil.SafeReader, offset int64) *packetReader {
	return &packetReader{sr: sr, offset: offset}
}

// Offset returns the offset of the first page not yet consumed.
func (pr *packetReader) Offset() int64 {
	return pr.offset
}

// Next returns the next complete packet of the first stream encountered.
// Pages of other multiplexed streams are skipped.
func (pr *packetReader) Next() ([]byte, error) {
	for len(pr.queue) == 0 {
		page, next, err := readPage(pr.sr, pr.offset)
		if err != nil {
			return nil, err
		}
		pr.offset = next

		if !pr.started {
			pr.serial = page.SerialNumber
			pr.started = true
		} else if page.SerialNumber != pr.serial {
			continue
		}
		if page.HeaderType&flagContinued == 0 && len(pr.pending) > 0 {
			// Unterminated packet followed by a fresh page; drop it.
			pr.pending = nil
		}

		pos := 0
		for _, seg := range page.Segments {
			pr.pending = append(pr.pending, page.Data[pos:pos+int(seg)]...)
			pos += int(seg)
			if seg < 255 {
				pr.queue = append(pr.queue, pr.pending)
				pr.pending = nil
			}
		}
	}

	p := pr.queue[0]
	pr.queue = pr.queue[1:]
	return p, nil
}

// lastGranule returns the granule position of the last page of the stream
// with the given serial number that has one set.
func lastGranule(sr *binutil.SafeReader, serial uint32) (int64, error) {
	size := sr.Size()
	start := max(size-lastPageSearch, 0)

	buf := make([]byte, size-start)
	if err := sr.ReadAt(buf, start, "last Ogg pages"); err != nil {
		return 0, err
	}

	for end := len(buf); end > 0; {
		i := bytes.LastIndex(buf[:end], capturePattern)
		if i < 0 {
			break
		}
		end = i
		if i+pageHeaderSize > len(buf) {
			continue
		}
		pageStart := start + int64(i)
		pageSerial, err := binutil.ReadLE[uint32](sr, pageStart+14, "page serial number")
		if err != nil {
			return 0, err
		}
		granule, err := binutil.ReadLE[uint64](sr, pageStart+6, "granule position")
		if err != nil {
			return 0, err
		}
		if pageSerial != serial || int64(granule) == granuleUnset {
			continue
		}
		return int64(granule), nil
	}

	return 0, fmt.Errorf("%s: no final Ogg page with a granule position", sr.Path())
}
