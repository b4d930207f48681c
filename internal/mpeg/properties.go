package mpeg

import (
	"io"
	"math"
	"time"

	"github.com/simonhull/audiotag/id3v2"
	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// maxSyncScan bounds how far past the tag the first frame is searched for.
const maxSyncScan = 64 * 1024

// ReadProperties reads length, bitrate, sample rate and channel count from
// the first layer III frame after any ID3v2 tag.
//
// Length comes from a Xing/Info or VBRI header when the first frame carries
// one, and is otherwise estimated from the stream size and the first frame's
// bitrate.
func ReadProperties(r io.ReaderAt, size int64, path string) (types.AudioProperties, error) {
	sr := binutil.NewSafeReader(r, size, path)

	start := audioStart(sr)
	offset, hdr, err := findFirstFrame(sr, start)
	if err != nil {
		return types.AudioProperties{}, err
	}

	props := types.AudioProperties{
		Bitrate:    hdr.bitrate,
		SampleRate: hdr.sampleRate,
		Channels:   hdr.channels,
	}

	if frames, bytes, ok := readVBRHeader(sr, offset, hdr); ok && frames > 0 {
		samples := int64(frames) * int64(hdr.samplesPerFrame())
		props.Length = time.Duration(samples) * time.Second / time.Duration(hdr.sampleRate)
		if bytes > 0 && props.Length > 0 {
			props.Bitrate = int(math.Round(float64(bytes) * 8 / props.Length.Seconds() / 1000))
		}
		return props, nil
	}

	end := size
	if hasID3v1(sr) {
		end -= 128
	}
	props.Length = estimateCBRDuration(hdr.bitrate, end-offset)
	return props, nil
}

// audioStart returns the offset after a leading ID3v2 tag, or 0.
func audioStart(sr *binutil.SafeReader) int64 {
	raw := make([]byte, id3v2.HeaderSize)
	if err := sr.ReadAt(raw, 0, "ID3v2 header"); err != nil {
		return 0
	}
	h, err := id3v2.ParseHeader(raw)
	if err != nil {
		return 0
	}
	return min(int64(h.CompleteTagSize()), sr.Size())
}

// findFirstFrame scans forward from start for a valid frame header. When the
// following frame lies inside the file it must also be valid, which rejects
// stray sync patterns in junk data.
func findFirstFrame(sr *binutil.SafeReader, start int64) (int64, frameHeader, error) {
	limit := min(sr.Size()-4, start+maxSyncScan)
	buf := make([]byte, 4)

	for offset := start; offset <= limit; offset++ {
		if err := sr.ReadAt(buf, offset, "MPEG frame header"); err != nil {
			break
		}
		hdr, err := parseFrameHeader(buf)
		if err != nil {
			continue
		}

		next := offset + int64(hdr.frameLength())
		if next+4 <= sr.Size() {
			if err := sr.ReadAt(buf, next, "MPEG frame header"); err != nil {
				continue
			}
			if _, err := parseFrameHeader(buf); err != nil {
				continue
			}
		}
		return offset, hdr, nil
	}

	return 0, frameHeader{}, &types.CorruptedFileError{
		Path:   sr.Path(),
		Reason: "no valid MPEG audio frame found",
		Offset: start,
	}
}

// readVBRHeader looks for a Xing/Info header after the side information, or
// a VBRI header 32 bytes after the frame header. It returns the total frame
// and byte counts when present.
func readVBRHeader(sr *binutil.SafeReader, offset int64, hdr frameHeader) (frames, bytes uint32, ok bool) {
	buf := make([]byte, 16)

	xing := offset + 4 + int64(hdr.sideInfoSize())
	if err := sr.ReadAt(buf, xing, "Xing header"); err == nil {
		if tag := string(buf[0:4]); tag == "Xing" || tag == "Info" {
			flags, _ := binutil.Decode[uint32](buf[4:8], binutil.BigEndian)
			pos := 8
			if flags&0x1 != 0 {
				frames, _ = binutil.Decode[uint32](buf[pos:pos+4], binutil.BigEndian)
				pos += 4
			}
			if flags&0x2 != 0 {
				bytes, _ = binutil.Decode[uint32](buf[pos:pos+4], binutil.BigEndian)
			}
			return frames, bytes, flags&0x1 != 0
		}
	}

	// VBRI: tag(4) version(2) delay(2) quality(2) bytes(4) frames(4)
	vbri := make([]byte, 18)
	if err := sr.ReadAt(vbri, offset+4+32, "VBRI header"); err == nil && string(vbri[0:4]) == "VBRI" {
		bytes, _ = binutil.Decode[uint32](vbri[10:14], binutil.BigEndian)
		frames, _ = binutil.Decode[uint32](vbri[14:18], binutil.BigEndian)
		return frames, bytes, true
	}

	return 0, 0, false
}

// hasID3v1 reports whether the file ends with a 128-byte ID3v1 tag.
func hasID3v1(sr *binutil.SafeReader) bool {
	if sr.Size() < 128 {
		return false
	}
	buf := make([]byte, 3)
	if err := sr.ReadAt(buf, sr.Size()-128, "ID3v1 marker"); err != nil {
		return false
	}
	return string(buf) == "TAG"
}

// estimateCBRDuration estimates duration for constant bitrate streams.
func estimateCBRDuration(bitrate int, audioSize int64) time.Duration {
	if bitrate == 0 || audioSize <= 0 {
		return 0
	}
	seconds := float64(audioSize*8) / float64(bitrate*1000)
	return time.Duration(seconds * float64(time.Second))
}

func init() {
	registry.RegisterProperties(types.MPEG, registry.PropertiesReaderFunc(ReadProperties))
}
