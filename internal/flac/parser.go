// Package flac reads audio properties from native FLAC streams.
package flac

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/simonhull/audiotag/id3v2"
	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Metadata block types
const (
	blockStreamInfo    = 0
	blockPadding       = 1
	blockApplication   = 2
	blockSeekTable     = 3
	blockVorbisComment = 4
	blockCueSheet      = 5
	blockPicture       = 6
)

// StreamInfoSize is the fixed length of a STREAMINFO block body.
const StreamInfoSize = 34

// StreamInfo holds the fields of a STREAMINFO block that describe the audio.
type StreamInfo struct {
	MinBlockSize  uint16
	MaxBlockSize  uint16
	SampleRate    int
	Channels      int
	BitsPerSample int
	TotalSamples  uint64
}

// Length returns the stream duration, or 0 when the sample count or rate is unknown.
func (si StreamInfo) Length() time.Duration {
	if si.SampleRate == 0 || si.TotalSamples == 0 {
		return 0
	}
	seconds := float64(si.TotalSamples) / float64(si.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// ParseStreamInfo decodes a STREAMINFO block body.
func ParseStreamInfo(data []byte) (StreamInfo, error) {
	if len(data) < StreamInfoSize {
		return StreamInfo{}, fmt.Errorf("STREAMINFO block is %d bytes, need %d", len(data), StreamInfoSize)
	}

	minBlock, _ := binutil.Decode[uint16](data[0:2], binutil.BigEndian)
	maxBlock, _ := binutil.Decode[uint16](data[2:4], binutil.BigEndian)

	// Bytes 10-17: sample rate (20), channels-1 (3), bits per sample-1 (5), total samples (36)
	packed, _ := binutil.Decode[uint64](data[10:18], binutil.BigEndian)

	return StreamInfo{
		MinBlockSize:  minBlock,
		MaxBlockSize:  maxBlock,
		SampleRate:    int(packed>>44&0xFFFFF),
		Channels:      int(packed>>41&0x7) + 1,
		BitsPerSample: int(packed>>36&0x1F) + 1,
		TotalSamples:  packed & 0xFFFFFFFFF,
	}, nil
}

// ReadProperties reads the STREAMINFO block of a native FLAC stream. A
// leading ID3v2 tag is skipped. Bitrate is the average over the audio frames
// that follow the last metadata block.
func ReadProperties(r io.ReaderAt, size int64, path string) (types.AudioProperties, error) {
	sr := binutil.NewSafeReader(r, size, path)

	start := skipID3v2(sr)
	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, start, "FLAC marker"); err != nil {
		return types.AudioProperties{}, err
	}
	if string(magic) != "fLaC" {
		return types.AudioProperties{}, &types.CorruptedFileError{
			Path:   path,
			Reason: "missing fLaC marker",
			Offset: start,
		}
	}

	var (
		info    StreamInfo
		haveSI  bool
		offset  = start + 4
		isLast  bool
		scanned int
	)

	for !isLast {
		header, err := binutil.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return types.AudioProperties{}, err
		}
		isLast = header>>31 == 1
		blockType := (header >> 24) & 0x7F
		length := int64(header & 0xFFFFFF)
		offset += 4

		if blockType == 127 {
			return types.AudioProperties{}, &types.CorruptedFileError{
				Path:   path,
				Reason: "invalid metadata block type 127",
				Offset: offset - 4,
			}
		}

		if blockType == blockStreamInfo {
			if scanned != 0 {
				return types.AudioProperties{}, &types.CorruptedFileError{
					Path:   path,
					Reason: "STREAMINFO is not the first metadata block",
					Offset: offset - 4,
				}
			}
			if length != StreamInfoSize {
				return types.AudioProperties{}, &types.CorruptedFileError{
					Path:   path,
					Reason: fmt.Sprintf("STREAMINFO length is %d, expected %d", length, StreamInfoSize),
					Offset: offset - 4,
				}
			}
			data := make([]byte, StreamInfoSize)
			if err := sr.ReadAt(data, offset, "STREAMINFO"); err != nil {
				return types.AudioProperties{}, err
			}
			if info, err = ParseStreamInfo(data); err != nil {
				return types.AudioProperties{}, err
			}
			haveSI = true
		}

		offset += length
		scanned++
	}

	if !haveSI {
		return types.AudioProperties{}, &types.CorruptedFileError{
			Path:   path,
			Reason: "no STREAMINFO block",
			Offset: start + 4,
		}
	}

	props := types.AudioProperties{
		Length:     info.Length(),
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
	}
	if audio := size - offset; audio > 0 && props.Length > 0 {
		props.Bitrate = int(math.Round(float64(audio) * 8 / props.Length.Seconds() / 1000))
	}
	return props, nil
}

// skipID3v2 returns the offset after a leading ID3v2 tag, or 0.
func skipID3v2(sr *binutil.SafeReader) int64 {
	raw := make([]byte, id3v2.HeaderSize)
	if err := sr.ReadAt(raw, 0, "ID3v2 header"); err != nil {
		return 0
	}
	h, err := id3v2.ParseHeader(raw)
	if err != nil {
		return 0
	}
	return int64(h.CompleteTagSize())
}

func init() {
	registry.RegisterProperties(types.FLAC, registry.PropertiesReaderFunc(ReadProperties))
}
