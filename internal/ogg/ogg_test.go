package ogg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// segment is a piece of packet data placed on a page. An open segment is
// continued on the next page.
type segment struct {
	data []byte
	open bool
}

func packet(data []byte) segment { return segment{data: data} }

// buildPage renders one Ogg page holding the given packet segments.
func buildPage(flags byte, granule int64, serial, seq uint32, segs ...segment) []byte {
	var lacing, payload []byte
	for _, s := range segs {
		n := len(s.data)
		for n >= 255 {
			lacing = append(lacing, 255)
			n -= 255
		}
		if !s.open {
			lacing = append(lacing, byte(n))
		}
		payload = append(payload, s.data...)
	}

	var b []byte
	b = append(b, "OggS"...)
	b = append(b, 0, flags)
	b = binary.LittleEndian.AppendUint64(b, uint64(granule))
	b = binary.LittleEndian.AppendUint32(b, serial)
	b = binary.LittleEndian.AppendUint32(b, seq)
	b = append(b, 0, 0, 0, 0) // checksum
	b = append(b, byte(len(lacing)))
	b = append(b, lacing...)
	return append(b, payload...)
}

func commentBlock(vendor string, comments ...string) []byte {
	var b []byte
	b = binary.LittleEndian.AppendUint32(b, uint32(len(vendor)))
	b = append(b, vendor...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(comments)))
	for _, c := range comments {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(c)))
		b = append(b, c...)
	}
	return b
}

func vorbisIdent(channels byte, rate, nominal uint32) []byte {
	b := []byte("\x01vorbis")
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = append(b, channels)
	b = binary.LittleEndian.AppendUint32(b, rate)
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = binary.LittleEndian.AppendUint32(b, nominal)
	b = binary.LittleEndian.AppendUint32(b, 0)
	return append(b, 0xB8, 0x01)
}

func opusHead(channels byte, preSkip uint16) []byte {
	b := []byte("OpusHead")
	b = append(b, 1, channels)
	b = binary.LittleEndian.AppendUint16(b, preSkip)
	b = binary.LittleEndian.AppendUint32(b, 44100)
	b = binary.LittleEndian.AppendUint16(b, 0)
	return append(b, 0)
}

func speexHeader(rate, channels, bitrate uint32) []byte {
	b := make([]byte, 80)
	copy(b, "Speex   1.2.1")
	binary.LittleEndian.PutUint32(b[36:], rate)
	binary.LittleEndian.PutUint32(b[48:], channels)
	binary.LittleEndian.PutUint32(b[52:], bitrate)
	return b
}

func flacMapping(rate, channels, samples uint64) []byte {
	b := []byte("\x7fFLAC\x01\x00")
	b = binary.BigEndian.AppendUint16(b, 1)
	b = append(b, "fLaC"...)
	b = append(b, 0x00, 0x00, 0x00, 34)
	info := make([]byte, 34)
	binary.BigEndian.PutUint32(info[0:], 4096<<16|4096)
	binary.BigEndian.PutUint64(info[10:], rate<<44|(channels-1)<<41|15<<36|samples)
	return append(b, info...)
}

func readProps(t *testing.T, data []byte) types.AudioProperties {
	t.Helper()
	props, err := ReadProperties(bytes.NewReader(data), int64(len(data)), "test.ogg")
	if err != nil {
		t.Fatalf("ReadProperties() error = %v", err)
	}
	return props
}

func expectedBitrate(audioBytes int, length time.Duration) int {
	return int(math.Round(float64(audioBytes) * 8 / length.Seconds() / 1000))
}

func TestReadProperties_Vorbis(t *testing.T) {
	headers := append(
		buildPage(0x02, 0, 7, 0, packet(vorbisIdent(2, 44100, 128000))),
		buildPage(0, 0, 7, 1,
			packet(append([]byte("\x03vorbis"), commentBlock("test", "TITLE=Song")...)),
			packet([]byte("\x05vorbis setup")))...,
	)
	audio := buildPage(0x04, 441000, 7, 2, packet(make([]byte, 10000)))
	data := append(headers, audio...)

	props := readProps(t, data)
	if props.SampleRate != 44100 || props.Channels != 2 || props.Length != 10*time.Second {
		t.Errorf("got %+v", props)
	}
	if want := expectedBitrate(len(audio), 10*time.Second); props.Bitrate != want {
		t.Errorf("Bitrate = %d, want %d", props.Bitrate, want)
	}
}

func TestReadProperties_VorbisNominalWithoutLength(t *testing.T) {
	data := append(
		buildPage(0x02, 0, 7, 0, packet(vorbisIdent(1, 22050, 96000))),
		buildPage(0x04, 0, 7, 1,
			packet(append([]byte("\x03vorbis"), commentBlock("")...)),
			packet([]byte("\x05vorbis")))...,
	)

	props := readProps(t, data)
	if props.Length != 0 || props.Bitrate != 96 || props.Channels != 1 {
		t.Errorf("got %+v", props)
	}
}

func TestReadProperties_Opus(t *testing.T) {
	headers := append(
		buildPage(0x02, 0, 1, 0, packet(opusHead(2, 312))),
		buildPage(0, 0, 1, 1, packet(append([]byte("OpusTags"), commentBlock("libopus")...)))...,
	)
	audio := buildPage(0x04, 5*opusRate+312, 1, 2, packet(make([]byte, 4000)))
	data := append(headers, audio...)

	props := readProps(t, data)
	if props.SampleRate != 48000 || props.Channels != 2 || props.Length != 5*time.Second {
		t.Errorf("got %+v", props)
	}
	if want := expectedBitrate(len(audio), 5*time.Second); props.Bitrate != want {
		t.Errorf("Bitrate = %d, want %d", props.Bitrate, want)
	}
}

func TestReadProperties_Speex(t *testing.T) {
	headers := append(
		buildPage(0x02, 0, 3, 0, packet(speexHeader(16000, 1, 24000))),
		buildPage(0, 0, 3, 1, packet(commentBlock("speex")))...,
	)
	audio := buildPage(0x04, 32000, 3, 2, packet(make([]byte, 2000)))
	data := append(headers, audio...)

	props := readProps(t, data)
	if props.SampleRate != 16000 || props.Channels != 1 || props.Length != 2*time.Second {
		t.Errorf("got %+v", props)
	}
	if want := expectedBitrate(len(audio), 2*time.Second); props.Bitrate != want {
		t.Errorf("Bitrate = %d, want %d", props.Bitrate, want)
	}
}

func TestReadProperties_OggFLAC(t *testing.T) {
	comment := append([]byte{0x84, 0, 0, 0}, commentBlock("flac")...)
	headers := append(
		buildPage(0x02, 0, 9, 0, packet(flacMapping(48000, 2, 96000))),
		buildPage(0, 0, 9, 1, packet(comment))...,
	)
	audio := buildPage(0x04, 96000, 9, 2, packet(make([]byte, 3000)))
	data := append(headers, audio...)

	props := readProps(t, data)
	if props.SampleRate != 48000 || props.Channels != 2 || props.Length != 2*time.Second {
		t.Errorf("got %+v", props)
	}
}

func TestReadProperties_IgnoresOtherStreams(t *testing.T) {
	data := append(
		buildPage(0x02, 0, 1, 0, packet(opusHead(1, 0))),
		buildPage(0x02, 0, 2, 0, packet([]byte("other stream")))...,
	)
	data = append(data, buildPage(0, 0, 1, 1, packet(append([]byte("OpusTags"), commentBlock("")...)))...)
	data = append(data, buildPage(0x04, opusRate, 1, 2, packet(make([]byte, 100)))...)
	data = append(data, buildPage(0x04, 99*opusRate, 2, 1, packet(make([]byte, 100)))...)

	props := readProps(t, data)
	if props.Length != time.Second {
		t.Errorf("Length = %v, want 1s", props.Length)
	}
}

func TestReadProperties_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not ogg", append([]byte("RIFF"), make([]byte, 60)...)},
		{"unknown codec", buildPage(0x02, 0, 1, 0, packet([]byte("\x80theora and more")))},
		{"short vorbis", buildPage(0x02, 0, 1, 0, packet([]byte("\x01vorbis\x00")))},
		{"short speex", buildPage(0x02, 0, 1, 0, packet([]byte("Speex   1.2")))},
		{"bad opus version", buildPage(0x02, 0, 1, 0, packet(append([]byte("OpusHead\x10"), make([]byte, 10)...)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProperties(bytes.NewReader(tt.data), int64(len(tt.data)), "bad.ogg")
			var cfe *types.CorruptedFileError
			if !errors.As(err, &cfe) {
				t.Fatalf("error = %v, want CorruptedFileError", err)
			}
		})
	}
}

func TestReadComments(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		wantFT types.FileType
	}{
		{
			name: "vorbis",
			data: append(
				buildPage(0x02, 0, 1, 0, packet(vorbisIdent(2, 44100, 0))),
				buildPage(0, 0, 1, 1, packet(append([]byte("\x03vorbis"), commentBlock("v", "TITLE=Song", "artist=A")...)))...,
			),
			wantFT: types.OggVorbis,
		},
		{
			name: "opus",
			data: append(
				buildPage(0x02, 0, 1, 0, packet(opusHead(2, 0))),
				buildPage(0, 0, 1, 1, packet(append([]byte("OpusTags"), commentBlock("v", "TITLE=Song", "ARTIST=A")...)))...,
			),
			wantFT: types.OggOpus,
		},
		{
			name: "speex",
			data: append(
				buildPage(0x02, 0, 1, 0, packet(speexHeader(8000, 1, 0))),
				buildPage(0, 0, 1, 1, packet(commentBlock("v", "TITLE=Song", "ARTIST=A")))...,
			),
			wantFT: types.Speex,
		},
		{
			name: "flac",
			data: append(
				buildPage(0x02, 0, 1, 0, packet(flacMapping(44100, 2, 0))),
				buildPage(0, 0, 1, 1, packet(append([]byte{0x84, 0, 0, 0}, commentBlock("v", "TITLE=Song", "ARTIST=A")...)))...,
			),
			wantFT: types.OggFLAC,
		},
	}

	want := map[string][]string{"TITLE": {"Song"}, "ARTIST": {"A"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ft, err := ReadComments(bytes.NewReader(tt.data), int64(len(tt.data)), "test.ogg")
			if err != nil {
				t.Fatalf("ReadComments() error = %v", err)
			}
			if ft != tt.wantFT {
				t.Errorf("file type = %v, want %v", ft, tt.wantFT)
			}
			if c.Vendor != "v" || !reflect.DeepEqual(c.Tags, want) {
				t.Errorf("got %+v", c)
			}
		})
	}
}

func TestReadComments_SpansPages(t *testing.T) {
	long := "COMMENT=" + string(bytes.Repeat([]byte("x"), 700))
	comment := append([]byte("OpusTags"), commentBlock("v", long)...)

	data := buildPage(0x02, 0, 1, 0, packet(opusHead(2, 0)))
	data = append(data, buildPage(0, 0, 1, 1, segment{data: comment[:510], open: true})...)
	data = append(data, buildPage(flagContinued, 0, 1, 2, packet(comment[510:]))...)

	c, _, err := ReadComments(bytes.NewReader(data), int64(len(data)), "long.opus")
	if err != nil {
		t.Fatalf("ReadComments() error = %v", err)
	}
	if got := c.Tags["COMMENT"]; len(got) != 1 || len(got[0]) != 700 {
		t.Errorf("COMMENT not reassembled: %d values", len(got))
	}
}

func TestReadComments_NoCommentPacket(t *testing.T) {
	data := buildPage(0x06, 0, 1, 0, packet(opusHead(2, 0)))
	_, ft, err := ReadComments(bytes.NewReader(data), int64(len(data)), "bare.opus")
	if !errors.Is(err, types.ErrNoTag) {
		t.Errorf("error = %v, want ErrNoTag", err)
	}
	if ft != types.OggOpus {
		t.Errorf("file type = %v", ft)
	}
}

func TestReadComments_WrongPrefix(t *testing.T) {
	data := append(
		buildPage(0x02, 0, 1, 0, packet(opusHead(2, 0))),
		buildPage(0, 0, 1, 1, packet(commentBlock("v")))...,
	)
	_, _, err := ReadComments(bytes.NewReader(data), int64(len(data)), "bad.opus")
	var cfe *types.CorruptedFileError
	if !errors.As(err, &cfe) {
		t.Errorf("error = %v, want CorruptedFileError", err)
	}
}

func TestRegistered(t *testing.T) {
	for _, ft := range []types.FileType{types.OggVorbis, types.OggOpus, types.Speex, types.OggFLAC} {
		if registry.GetProperties(ft) == nil {
			t.Errorf("%v property reader not registered", ft)
		}
	}
}
