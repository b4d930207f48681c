package ogg

import (
	"bytes"
	"fmt"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/flac"
	"github.com/simonhull/audiotag/internal/types"
)

// opusRate is the decode rate of every Opus stream and the unit of its
// granule positions.
const opusRate = 48000

// identification holds what the first packet of a stream says about it.
type identification struct {
	fileType   types.FileType
	sampleRate int
	channels   int
	// nominal bitrate in bits per second, 0 when not declared
	nominal int
	// preSkip is subtracted from the final granule position.
	preSkip int64
	// granuleRate converts granule positions to seconds.
	granuleRate int
	// headerPackets counts identification, comment and setup packets.
	headerPackets int
}

// codecFor returns the file type announced by a first packet, or
// types.Autodetect when the codec is not recognised.
func codecFor(packet []byte) types.FileType {
	switch {
	case bytes.HasPrefix(packet, []byte("\x01vorbis")):
		return types.OggVorbis
	case bytes.HasPrefix(packet, []byte("OpusHead")):
		return types.OggOpus
	case bytes.HasPrefix(packet, []byte("Speex   ")):
		return types.Speex
	case bytes.HasPrefix(packet, []byte("\x7fFLAC")):
		return types.OggFLAC
	}
	return types.Autodetect
}

func parseIdentification(packet []byte) (identification, error) {
	switch codecFor(packet) {
	case types.OggVorbis:
		return parseVorbisIdentification(packet)
	case types.OggOpus:
		return parseOpusHead(packet)
	case types.Speex:
		return parseSpeexHeader(packet)
	case types.OggFLAC:
		return parseFLACMapping(packet)
	}
	return identification{}, fmt.Errorf("unknown Ogg codec in first packet")
}

// parseVorbisIdentification parses the Vorbis identification header.
func parseVorbisIdentification(data []byte) (identification, error) {
	if len(data) < 30 {
		return identification{}, fmt.Errorf("Vorbis identification header too short: %d bytes", len(data))
	}
	if version, _ := binutil.Decode[uint32](data[7:11], binutil.LittleEndian); version != 0 {
		return identification{}, fmt.Errorf("unsupported Vorbis version: %d", version)
	}

	rate, _ := binutil.Decode[uint32](data[12:16], binutil.LittleEndian)
	nominal, _ := binutil.Decode[uint32](data[20:24], binutil.LittleEndian)

	id := identification{
		fileType:      types.OggVorbis,
		sampleRate:    int(rate),
		channels:      int(data[11]),
		granuleRate:   int(rate),
		headerPackets: 3,
	}
	// The field is signed; values at or below zero mean unset.
	if n := int32(nominal); n > 0 {
		id.nominal = int(n)
	}
	return id, nil
}

// parseOpusHead parses the OpusHead identification header. Opus always
// decodes at 48 kHz; the input sample rate is informational only.
func parseOpusHead(data []byte) (identification, error) {
	if len(data) < 19 {
		return identification{}, fmt.Errorf("OpusHead packet too short: %d bytes (need at least 19)", len(data))
	}
	// Major version in the upper nibble; only 0 is defined.
	if data[8]>>4 != 0 {
		return identification{}, fmt.Errorf("unsupported Opus version: %d", data[8])
	}

	preSkip, _ := binutil.Decode[uint16](data[10:12], binutil.LittleEndian)

	return identification{
		fileType:      types.OggOpus,
		sampleRate:    opusRate,
		channels:      int(data[9]),
		preSkip:       int64(preSkip),
		granuleRate:   opusRate,
		headerPackets: 2,
	}, nil
}

// parseSpeexHeader parses the 80-byte Speex header.
func parseSpeexHeader(data []byte) (identification, error) {
	if len(data) < 80 {
		return identification{}, fmt.Errorf("Speex header too short: %d bytes (need 80)", len(data))
	}

	rate, _ := binutil.Decode[uint32](data[36:40], binutil.LittleEndian)
	channels, _ := binutil.Decode[uint32](data[48:52], binutil.LittleEndian)
	bitrate, _ := binutil.Decode[uint32](data[52:56], binutil.LittleEndian)
	extra, _ := binutil.Decode[uint32](data[68:72], binutil.LittleEndian)

	id := identification{
		fileType:      types.Speex,
		sampleRate:    int(rate),
		channels:      int(channels),
		granuleRate:   int(rate),
		headerPackets: 2 + int(min(extra, 16)),
	}
	if n := int32(bitrate); n > 0 {
		id.nominal = int(n)
	}
	return id, nil
}

// parseFLACMapping parses the Ogg FLAC mapping header: 0x7F "FLAC", a
// two-byte mapping version, a big-endian count of header packets that
// follow, the native "fLaC" marker and a STREAMINFO metadata block.
func parseFLACMapping(data []byte) (identification, error) {
	const infoOffset = 13 + 4 // block header follows the fLaC marker
	if len(data) < infoOffset+flac.StreamInfoSize {
		return identification{}, fmt.Errorf("Ogg FLAC mapping header too short: %d bytes", len(data))
	}
	if data[5] != 1 {
		return identification{}, fmt.Errorf("unsupported Ogg FLAC mapping version: %d.%d", data[5], data[6])
	}
	if string(data[9:13]) != "fLaC" {
		return identification{}, fmt.Errorf("missing fLaC marker in Ogg FLAC mapping header")
	}

	info, err := flac.ParseStreamInfo(data[infoOffset : infoOffset+flac.StreamInfoSize])
	if err != nil {
		return identification{}, err
	}

	// Zero means the number of header packets is unknown; the comment
	// packet always follows.
	count, _ := binutil.Decode[uint16](data[7:9], binutil.BigEndian)
	return identification{
		fileType:      types.OggFLAC,
		sampleRate:    info.SampleRate,
		channels:      info.Channels,
		granuleRate:   info.SampleRate,
		headerPackets: 1 + max(int(count), 1),
	}, nil
}
