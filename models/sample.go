package models

import "math"

// Channel identifies one acceleration axis of the logger.
type Channel int

const (
	ChannelX Channel = iota
	ChannelY
	ChannelZ
)

// AllChannels lists the axes in plotting order.
var AllChannels = []Channel{ChannelX, ChannelY, ChannelZ}

var channelNames = [...]string{"X", "Y", "Z"}

func (c Channel) String() string {
	if int(c) >= 0 && int(c) < len(channelNames) {
		return channelNames[c]
	}
	return "unknown"
}

// Sample holds one data row of an MSR175 export.
type Sample struct {
	Row    int        `json:"row"`     // 1-based line number in the source file
	TimeMs float64    `json:"time_ms"` // NaN when the file has no time column
	Accel  [3]float64 `json:"accel_g"` // indexed by Channel, g
}

// HasTime reports whether the row carried an explicit timestamp.
func (s Sample) HasTime() bool { return !math.IsNaN(s.TimeMs) }

// Value returns the reading for one axis.
func (s Sample) Value(c Channel) float64 { return s.Accel[c] }
