package mp4

import (
	"bytes"
	"errors"
	"testing"
	"time"

	gomp4 "github.com/abema/go-mp4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

func TestAudioTrack(t *testing.T) {
	video := &gomp4.Track{TrackID: 1, Codec: gomp4.CodecAVC1}
	audio := &gomp4.Track{TrackID: 2, Codec: gomp4.CodecMP4A, MP4A: &gomp4.MP4AInfo{ChannelCount: 2}}

	assert.Same(t, audio, audioTrack(gomp4.Tracks{video, audio}))
	assert.Nil(t, audioTrack(gomp4.Tracks{video}))
	assert.Nil(t, audioTrack(nil))
}

func TestTrackProperties(t *testing.T) {
	samples := make(gomp4.Samples, 100)
	for i := range samples {
		samples[i] = &gomp4.Sample{Size: 400, TimeDelta: 1024}
	}
	track := &gomp4.Track{
		Timescale: 44100,
		Duration:  44100 * 4,
		Codec:     gomp4.CodecMP4A,
		MP4A:      &gomp4.MP4AInfo{ChannelCount: 2},
		Samples:   samples,
	}

	props := trackProperties(track, 1<<20)
	assert.Equal(t, 44100, props.SampleRate)
	assert.Equal(t, 2, props.Channels)
	assert.Equal(t, 4*time.Second, props.Length)
	// 40000 bytes over 4 seconds
	assert.Equal(t, 80, props.Bitrate)
}

func TestTrackProperties_FileSizeFallback(t *testing.T) {
	track := &gomp4.Track{Timescale: 48000, Duration: 48000 * 2, MP4A: &gomp4.MP4AInfo{ChannelCount: 1}}

	props := trackProperties(track, 64000)
	assert.Equal(t, 2*time.Second, props.Length)
	assert.Equal(t, 256, props.Bitrate)
	assert.Equal(t, 1, props.Channels)
}

func TestTrackProperties_NoTimescale(t *testing.T) {
	props := trackProperties(&gomp4.Track{Duration: 1000}, 1000)
	assert.True(t, props.IsZero())
}

func TestReadProperties_NotMP4(t *testing.T) {
	data := bytes.Repeat([]byte{0}, 64)
	_, err := ReadProperties(bytes.NewReader(data), int64(len(data)), "empty.m4a")

	var cfe *types.CorruptedFileError
	require.True(t, errors.As(err, &cfe), "error = %v", err)
	assert.Equal(t, "empty.m4a", cfe.Path)
}

func TestRegistered(t *testing.T) {
	require.NotNil(t, registry.GetProperties(types.MP4))
}
