// Package mp4 reads audio properties from MP4/M4A files.
package mp4

import (
	"fmt"
	"io"
	"math"
	"time"

	gomp4 "github.com/abema/go-mp4"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// ReadProperties probes the movie box and reads the first audio track.
func ReadProperties(r io.ReaderAt, size int64, path string) (types.AudioProperties, error) {
	info, err := gomp4.Probe(io.NewSectionReader(r, 0, size))
	if err != nil {
		return types.AudioProperties{}, &types.CorruptedFileError{
			Path:   path,
			Reason: fmt.Sprintf("probe MP4 boxes: %v", err),
		}
	}

	track := audioTrack(info.Tracks)
	if track == nil {
		return types.AudioProperties{}, &types.CorruptedFileError{
			Path:   path,
			Reason: "no audio track",
		}
	}
	return trackProperties(track, size), nil
}

// audioTrack returns the first track with an audio sample entry.
func audioTrack(tracks gomp4.Tracks) *gomp4.Track {
	for _, t := range tracks {
		if t.MP4A != nil || t.Codec == gomp4.CodecMP4A {
			return t
		}
	}
	return nil
}

// trackProperties derives properties from an audio track. Audio tracks use
// the sample rate as their timescale. Bitrate comes from the summed sample
// sizes, or from the file size when the sample table is empty.
func trackProperties(t *gomp4.Track, fileSize int64) types.AudioProperties {
	var props types.AudioProperties

	if t.Timescale > 0 {
		props.SampleRate = int(t.Timescale)
		seconds := float64(t.Duration) / float64(t.Timescale)
		props.Length = time.Duration(seconds * float64(time.Second))
	}
	if t.MP4A != nil {
		props.Channels = int(t.MP4A.ChannelCount)
	}

	if props.Length > 0 {
		var audio uint64
		for _, s := range t.Samples {
			audio += uint64(s.Size)
		}
		if audio == 0 {
			audio = uint64(fileSize)
		}
		props.Bitrate = int(math.Round(float64(audio) * 8 / props.Length.Seconds() / 1000))
	}
	return props
}

func init() {
	registry.RegisterProperties(types.MP4, registry.PropertiesReaderFunc(ReadProperties))
}
