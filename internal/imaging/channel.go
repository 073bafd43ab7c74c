package imaging

import (
	"fmt"
	"image/color"
	"strings"
)

// Channel names one histogram series.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Gray
)

// AllChannels lists the channels in draw order. Later series overlay earlier
// ones in a plot.
var AllChannels = []Channel{Red, Green, Blue, Gray}

// Name returns the lowercase name used as the histogram key.
func (c Channel) Name() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Gray:
		return "gray"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Title returns the capitalized name shown in plot legends.
func (c Channel) Title() string {
	n := c.Name()
	return strings.ToUpper(n[:1]) + n[1:]
}

// Index returns the frame component holding the channel in BGR order, or -1 for
// Gray, which is derived rather than stored.
func (c Channel) Index() int {
	switch c {
	case Blue:
		return 0
	case Green:
		return 1
	case Red:
		return 2
	}
	return -1
}

// Color returns the plot color of the channel.
func (c Channel) Color() color.RGBA {
	switch c {
	case Red:
		return color.RGBA{R: 255, A: 255}
	case Green:
		return color.RGBA{G: 255, A: 255}
	case Blue:
		return color.RGBA{B: 255, A: 255}
	case Gray:
		return color.RGBA{R: 180, G: 180, B: 180, A: 255}
	}
	return color.RGBA{A: 255}
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return c.Name()
}

// ParseChannel maps a channel name (case-insensitive) to a Channel.
func ParseChannel(name string) (Channel, error) {
	for _, c := range AllChannels {
		if strings.EqualFold(name, c.Name()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown channel: %q", name)
}

// ChannelSet holds the four independent channel toggles.
type ChannelSet struct {
	Red   bool `json:"red"`
	Green bool `json:"green"`
	Blue  bool `json:"blue"`
	Gray  bool `json:"gray"`
}

// Enabled reports whether c is switched on.
func (s ChannelSet) Enabled(c Channel) bool {
	switch c {
	case Red:
		return s.Red
	case Green:
		return s.Green
	case Blue:
		return s.Blue
	case Gray:
		return s.Gray
	}
	return false
}

// Channels returns the enabled channels in draw order.
func (s ChannelSet) Channels() []Channel {
	out := make([]Channel, 0, len(AllChannels))
	for _, c := range AllChannels {
		if s.Enabled(c) {
			out = append(out, c)
		}
	}
	return out
}

// Any reports whether at least one channel is enabled.
func (s ChannelSet) Any() bool {
	return s.Red || s.Green || s.Blue || s.Gray
}
