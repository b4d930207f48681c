package types

import (
	"fmt"
	"strings"
	"time"
)

// AudioProperties are the technical properties of an audio stream.
type AudioProperties struct {
	Length     time.Duration
	Bitrate    int // kb/s
	SampleRate int // Hz
	Channels   int
}

// AudioProperty selects one integer property for AudioProperties.Int.
type AudioProperty int

const (
	PropertyLength     AudioProperty = iota // seconds
	PropertyBitrate                         // kb/s
	PropertySampleRate                      // Hz
	PropertyChannels
)

func (p AudioProperty) String() string {
	switch p {
	case PropertyLength:
		return "length"
	case PropertyBitrate:
		return "bitrate"
	case PropertySampleRate:
		return "samplerate"
	case PropertyChannels:
		return "channels"
	default:
		return fmt.Sprintf("AudioProperty(%d)", int(p))
	}
}

// Int returns the property as an integer. Length is whole seconds. Unknown
// properties return 0.
func (a AudioProperties) Int(p AudioProperty) int {
	switch p {
	case PropertyLength:
		return int(a.Length / time.Second)
	case PropertyBitrate:
		return a.Bitrate
	case PropertySampleRate:
		return a.SampleRate
	case PropertyChannels:
		return a.Channels
	default:
		return 0
	}
}

// IsZero reports whether no property is known.
func (a AudioProperties) IsZero() bool {
	return a == AudioProperties{}
}

// String returns a human-readable representation of the properties.
// Example output: "44.1kHz stereo 320kbps 3:25".
func (a AudioProperties) String() string {
	var parts []string
	if a.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(a.SampleRate)/1000))
	}
	if ch := channelDescription(a.Channels); ch != "" {
		parts = append(parts, ch)
	}
	if a.Bitrate > 0 {
		parts = append(parts, fmt.Sprintf("%dkbps", a.Bitrate))
	}
	if a.Length > 0 {
		secs := int(a.Length / time.Second)
		parts = append(parts, fmt.Sprintf("%d:%02d", secs/60, secs%60))
	}
	return strings.Join(parts, " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}
