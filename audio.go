package audiotag

import "github.com/simonhull/audiotag/internal/types"

// AudioProperties are the technical properties of an audio stream: length,
// bitrate in kb/s, sample rate in Hz and channel count.
type AudioProperties = types.AudioProperties

// AudioProperty selects one integer property for AudioProperties.Int.
type AudioProperty = types.AudioProperty

const (
	PropertyLength     = types.PropertyLength
	PropertyBitrate    = types.PropertyBitrate
	PropertySampleRate = types.PropertySampleRate
	PropertyChannels   = types.PropertyChannels
)
