package ogg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// stream is an opened logical stream positioned after its first packet.
type stream struct {
	sr *binutil.SafeReader
	pr *packetReader
	id identification
}

func openStream(r io.ReaderAt, size int64, path string) (*stream, error) {
	sr := binutil.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "Ogg magic bytes"); err != nil {
		return nil, fmt.Errorf("read Ogg magic: %w", err)
	}
	if !bytes.Equal(magic, capturePattern) {
		return nil, &types.CorruptedFileError{Path: path, Reason: "invalid Ogg magic bytes"}
	}

	pr := newPacketReader(sr, 0)
	first, err := pr.Next()
	if err != nil {
		return nil, fmt.Errorf("read first Ogg packet: %w", err)
	}
	id, err := parseIdentification(first)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Reason: err.Error()}
	}
	return &stream{sr: sr, pr: pr, id: id}, nil
}

// ReadProperties reads the identification header of the first logical
// stream and derives the length from the final granule position.
//
// Bitrate is averaged over the pages after the header packets; when the
// length is unknown the declared nominal bitrate is used instead.
func ReadProperties(r io.ReaderAt, size int64, path string) (types.AudioProperties, error) {
	s, err := openStream(r, size, path)
	if err != nil {
		return types.AudioProperties{}, err
	}

	for i := 1; i < s.id.headerPackets; i++ {
		if _, err := s.pr.Next(); err != nil {
			break
		}
	}
	headerEnd := s.pr.Offset()

	props := types.AudioProperties{
		SampleRate: s.id.sampleRate,
		Channels:   s.id.channels,
	}

	if granule, err := lastGranule(s.sr, s.pr.serial); err == nil && s.id.granuleRate > 0 {
		if samples := granule - s.id.preSkip; samples > 0 {
			seconds := float64(samples) / float64(s.id.granuleRate)
			props.Length = time.Duration(seconds * float64(time.Second))
		}
	}

	switch {
	case props.Length > 0 && size > headerEnd:
		props.Bitrate = int(math.Round(float64(size-headerEnd) * 8 / props.Length.Seconds() / 1000))
	case s.id.nominal > 0:
		props.Bitrate = int(math.Round(float64(s.id.nominal) / 1000))
	}
	return props, nil
}

// ReadComments returns the comment header of the first logical stream and
// the file type its codec maps to. It returns types.ErrNoTag when the stream
// ends before the comment packet.
func ReadComments(r io.ReaderAt, size int64, path string) (*vorbis.Comments, types.FileType, error) {
	s, err := openStream(r, size, path)
	if err != nil {
		return nil, types.Autodetect, err
	}
	ft := s.id.fileType

	pkt, err := s.pr.Next()
	if err != nil {
		return nil, ft, types.ErrNoTag
	}

	var body []byte
	switch ft {
	case types.OggVorbis:
		body, err = cutPrefix(pkt, "\x03vorbis")
	case types.OggOpus:
		body, err = cutPrefix(pkt, "OpusTags")
	case types.Speex:
		body = pkt
	case types.OggFLAC:
		// A native metadata block header precedes the comments.
		if len(pkt) < 4 || pkt[0]&0x7F != 4 {
			err = fmt.Errorf("second Ogg FLAC packet is not a VORBIS_COMMENT block")
		} else {
			body = pkt[4:]
		}
	}
	if err != nil {
		return nil, ft, &types.CorruptedFileError{Path: path, Reason: err.Error()}
	}

	c, err := vorbis.ParseComments(body)
	if err != nil {
		return nil, ft, &types.CorruptedFileError{Path: path, Reason: err.Error()}
	}
	return c, ft, nil
}

func cutPrefix(pkt []byte, prefix string) ([]byte, error) {
	body, ok := bytes.CutPrefix(pkt, []byte(prefix))
	if !ok {
		return nil, fmt.Errorf("comment packet does not start with %q", prefix)
	}
	return body, nil
}

func init() {
	reader := registry.PropertiesReaderFunc(ReadProperties)
	for _, ft := range []types.FileType{types.OggVorbis, types.OggOpus, types.Speex, types.OggFLAC} {
		registry.RegisterProperties(ft, reader)
	}
}
