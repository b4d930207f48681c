package audiotag

import (
	"io"

	"github.com/simonhull/audiotag/internal/types"
)

// FileType identifies an audio container. It is resolved once, when a file
// is opened.
type FileType = types.FileType

// File types. Autodetect asks Open to detect the type from content.
const (
	Autodetect = types.Autodetect
	MPEG       = types.MPEG
	OggVorbis  = types.OggVorbis
	OggOpus    = types.OggOpus
	FLAC       = types.FLAC
	MPC        = types.MPC
	OggFLAC    = types.OggFLAC
	WavPack    = types.WavPack
	Speex      = types.Speex
	TrueAudio  = types.TrueAudio
	MP4        = types.MP4
	ASF        = types.ASF
)

// FileTypes returns every concrete file type.
func FileTypes() []FileType {
	return types.FileTypes()
}

// DetectFileType identifies the container from magic bytes, falling back to
// the file extension.
func DetectFileType(r io.ReaderAt, size int64, path string) (FileType, error) {
	return types.DetectFileType(r, size, path)
}

// FileTypeFromExtension maps a path's extension to a file type, or
// Autodetect when the extension is unknown.
func FileTypeFromExtension(path string) FileType {
	return types.FileTypeFromExtension(path)
}
