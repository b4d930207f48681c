package types

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	ftypes "github.com/h2non/filetype/types"

	"github.com/simonhull/audiotag/id3v2"
	"github.com/simonhull/audiotag/internal/binary"
)

// FileType identifies the container and codec of an audio file. It is
// resolved once when a file is opened.
type FileType int

const (
	// Autodetect asks Open to determine the type from the file's content.
	Autodetect FileType = iota
	MPEG
	OggVorbis
	OggOpus
	FLAC
	MPC
	OggFLAC
	WavPack
	Speex
	TrueAudio
	MP4
	ASF
)

var fileTypeNames = [...]string{
	Autodetect: "Autodetect",
	MPEG:       "MPEG",
	OggVorbis:  "Ogg Vorbis",
	OggOpus:    "Ogg Opus",
	FLAC:       "FLAC",
	MPC:        "MusePack",
	OggFLAC:    "Ogg FLAC",
	WavPack:    "WavPack",
	Speex:      "Ogg Speex",
	TrueAudio:  "TrueAudio",
	MP4:        "MP4",
	ASF:        "ASF",
}

func (t FileType) String() string {
	if t >= 0 && int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return "Unknown"
}

// FileTypes returns every concrete file type, in declaration order.
func FileTypes() []FileType {
	return []FileType{MPEG, OggVorbis, OggOpus, FLAC, MPC, OggFLAC, WavPack, Speex, TrueAudio, MP4, ASF}
}

// Extensions returns common file extensions for this type.
func (t FileType) Extensions() []string {
	switch t {
	case MPEG:
		return []string{".mp3", ".mp2", ".mpga"}
	case OggVorbis:
		return []string{".ogg", ".oga"}
	case OggOpus:
		return []string{".opus"}
	case FLAC:
		return []string{".flac"}
	case MPC:
		return []string{".mpc", ".mpp", ".mp+"}
	case OggFLAC:
		return []string{".oga"}
	case WavPack:
		return []string{".wv"}
	case Speex:
		return []string{".spx"}
	case TrueAudio:
		return []string{".tta"}
	case MP4:
		return []string{".m4a", ".m4b", ".m4p", ".mp4", ".3g2"}
	case ASF:
		return []string{".wma", ".asf"}
	default:
		return nil
	}
}

// FileTypeFromExtension maps a path's extension to a file type. ".oga" is
// ambiguous and resolves to OggVorbis. It returns Autodetect when nothing
// matches.
func FileTypeFromExtension(path string) FileType {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Autodetect
	}
	for _, t := range FileTypes() {
		for _, e := range t.Extensions() {
			if e == ext {
				return t
			}
		}
	}
	return Autodetect
}

var asfGUID = []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C}

// sniffSize is how many leading bytes content sniffing inspects.
const sniffSize = 262

// DetectFileType determines the file type from its content.
//
// Leading ID3v2 tags are skipped first, so an ID3-prefixed FLAC file is
// still FLAC. Magic bytes are checked next, then generic content sniffing,
// and finally the file extension.
func DetectFileType(r io.ReaderAt, size int64, path string) (FileType, error) {
	if size < 4 {
		return Autodetect, &UnsupportedFormatError{Path: path, Reason: "file too small"}
	}

	sr := binary.NewSafeReader(r, size, path)

	offset, tagged := skipID3v2(sr)
	if t, ok := detectMagic(sr, offset); ok {
		return t, nil
	}
	if tagged {
		// An ID3v2 tag followed by unrecognised data is almost always MPEG.
		return MPEG, nil
	}

	kind := sniff(sr)
	if t, ok := fileTypeForKind(kind); ok {
		return t, nil
	}
	if kind != filetype.Unknown {
		return Autodetect, &UnsupportedFormatError{Path: path, Reason: "content is " + kind.MIME.Value}
	}
	if t := FileTypeFromExtension(path); t != Autodetect {
		return t, nil
	}

	return Autodetect, &UnsupportedFormatError{Path: path, Reason: "unrecognised file content"}
}

// skipID3v2 returns the offset after any ID3v2 tags at the start of the file.
func skipID3v2(sr *binary.SafeReader) (int64, bool) {
	var offset int64
	tagged := false
	raw := make([]byte, id3v2.HeaderSize)
	for offset+id3v2.HeaderSize <= sr.Size() {
		if err := sr.ReadAt(raw, offset, "ID3v2 header"); err != nil {
			break
		}
		h, err := id3v2.ParseHeader(raw)
		if err != nil {
			break
		}
		offset += int64(h.CompleteTagSize())
		tagged = true
	}
	return offset, tagged
}

func detectMagic(sr *binary.SafeReader, offset int64) (FileType, bool) {
	n := min(sr.Size()-offset, 16)
	if n < 4 {
		return Autodetect, false
	}
	head := make([]byte, n)
	if err := sr.ReadAt(head, offset, "file magic bytes"); err != nil {
		return Autodetect, false
	}

	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FLAC, true
	case bytes.HasPrefix(head, []byte("OggS")):
		return detectOggCodec(sr, offset), true
	case bytes.HasPrefix(head, []byte("MPCK")), bytes.HasPrefix(head, []byte("MP+")):
		return MPC, true
	case bytes.HasPrefix(head, []byte("wvpk")):
		return WavPack, true
	case bytes.HasPrefix(head, []byte("TTA1")):
		return TrueAudio, true
	case bytes.HasPrefix(head, asfGUID):
		return ASF, true
	case len(head) >= 8 && string(head[4:8]) == "ftyp":
		return MP4, true
	case isFrameSync(head):
		return MPEG, true
	}
	return Autodetect, false
}

// isFrameSync reports whether b starts with an MPEG audio frame header:
// 11 sync bits and a layer other than the reserved 00.
func isFrameSync(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0 && b[1]&0x06 != 0
}

// detectOggCodec reads the first packet of the Ogg page at offset.
//
// Ogg page header: 27 bytes fixed, then a segment table of segCount bytes,
// then the first packet.
func detectOggCodec(sr *binary.SafeReader, offset int64) FileType {
	segCount, err := binary.Read[uint8](sr, offset+26, "segment count")
	if err != nil {
		return OggVorbis
	}

	packet := offset + 27 + int64(segCount)
	n := min(sr.Size()-packet, 8)
	if n <= 0 {
		return OggVorbis
	}
	magic := make([]byte, n)
	if err := sr.ReadAt(magic, packet, "codec magic"); err != nil {
		return OggVorbis
	}

	switch {
	case bytes.HasPrefix(magic, []byte("OpusHead")):
		return OggOpus
	case bytes.HasPrefix(magic, []byte("Speex   ")):
		return Speex
	case bytes.HasPrefix(magic, []byte("\x7fFLAC")):
		return OggFLAC
	default:
		return OggVorbis
	}
}

// sniff runs generic content matching on the first bytes of the file.
func sniff(sr *binary.SafeReader) ftypes.Type {
	head := make([]byte, min(sr.Size(), sniffSize))
	if err := sr.ReadAt(head, 0, "sniff buffer"); err != nil {
		return filetype.Unknown
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return filetype.Unknown
	}
	return kind
}

func fileTypeForKind(kind ftypes.Type) (FileType, bool) {
	switch kind.Extension {
	case "mp3":
		return MPEG, true
	case "flac":
		return FLAC, true
	case "ogg":
		return OggVorbis, true
	case "m4a", "mp4":
		return MP4, true
	}
	return Autodetect, false
}
