// Package mpeg reads audio properties from MPEG audio layer III streams.
package mpeg

import (
	"errors"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

// MPEG audio version IDs as stored in the frame header.
const (
	version25 = 0 // MPEG 2.5
	version2  = 2 // MPEG 2
	version1  = 3 // MPEG 1
)

const layer3 = 1

// Layer III bitrates in kb/s, indexed by bitrate index.
var (
	bitratesV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitratesV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rates in Hz, indexed by version ID then sample-rate index.
var sampleRates = [4][4]int{
	version25: {11025, 12000, 8000, 0},
	version2:  {22050, 24000, 16000, 0},
	version1:  {44100, 48000, 32000, 0},
}

var errNoSync = errors.New("no frame sync")

// frameHeader is a decoded 4-byte layer III frame header.
type frameHeader struct {
	version    int
	bitrate    int // kb/s
	sampleRate int // Hz
	channels   int
	padding    bool
}

// parseFrameHeader decodes and validates a frame header.
func parseFrameHeader(b []byte) (frameHeader, error) {
	raw, err := binutil.Decode[uint32](b, binutil.BigEndian)
	if err != nil {
		return frameHeader{}, err
	}
	if raw&0xFFE00000 != 0xFFE00000 {
		return frameHeader{}, errNoSync
	}

	version := int(raw>>19) & 0x3
	layer := int(raw>>17) & 0x3
	bitrateIdx := int(raw>>12) & 0xF
	rateIdx := int(raw>>10) & 0x3

	if version == 1 {
		return frameHeader{}, errors.New("reserved MPEG version")
	}
	if layer != layer3 {
		return frameHeader{}, errors.New("not layer III")
	}

	h := frameHeader{
		version:    version,
		sampleRate: sampleRates[version][rateIdx],
		padding:    raw&0x200 != 0,
		channels:   2,
	}
	if version == version1 {
		h.bitrate = bitratesV1[bitrateIdx]
	} else {
		h.bitrate = bitratesV2[bitrateIdx]
	}
	if (raw>>6)&0x3 == 3 {
		h.channels = 1
	}

	// Free-format (index 0) streams are not supported.
	if h.bitrate == 0 || h.sampleRate == 0 {
		return frameHeader{}, errors.New("invalid bitrate or sample rate index")
	}
	return h, nil
}

// samplesPerFrame is the number of PCM samples one layer III frame decodes to.
func (h frameHeader) samplesPerFrame() int {
	if h.version == version1 {
		return 1152
	}
	return 576
}

// frameLength returns the frame size in bytes, header included.
func (h frameHeader) frameLength() int {
	n := h.samplesPerFrame() / 8 * h.bitrate * 1000 / h.sampleRate
	if h.padding {
		n++
	}
	return n
}

// sideInfoSize is the length of the side information that follows the
// 4-byte header. The Xing/Info header starts right after it.
func (h frameHeader) sideInfoSize() int {
	switch {
	case h.version == version1 && h.channels == 1:
		return 17
	case h.version == version1:
		return 32
	case h.channels == 1:
		return 9
	default:
		return 17
	}
}
