package imaging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/histogram-update/internal/frame"
)

// Series is the histogram of one channel. Counts[i] is the number of pixels
// whose value equals Range.Min + i.
type Series struct {
	Channel Channel
	Counts  []int
}

// Histograms is an ordered channel -> counts mapping.
//
// Series are always kept in draw order (red, green, blue, gray) no matter the
// order they were added in, and JSON encoding preserves that order.
type Histograms struct {
	series []Series
}

// NewHistograms creates an empty collection.
func NewHistograms() *Histograms {
	return &Histograms{}
}

// Set stores counts for c, replacing any previous series for the channel.
func (h *Histograms) Set(c Channel, counts []int) {
	for i := range h.series {
		if h.series[i].Channel == c {
			h.series[i].Counts = counts
			return
		}
	}
	h.series = append(h.series, Series{Channel: c, Counts: counts})
	sort.SliceStable(h.series, func(i, j int) bool {
		return h.series[i].Channel < h.series[j].Channel
	})
}

// Get returns the counts stored for c.
func (h *Histograms) Get(c Channel) ([]int, bool) {
	if h == nil {
		return nil, false
	}
	for _, s := range h.series {
		if s.Channel == c {
			return s.Counts, true
		}
	}
	return nil, false
}

// Len returns the number of series.
func (h *Histograms) Len() int {
	if h == nil {
		return 0
	}
	return len(h.series)
}

// Series returns the series in draw order.
func (h *Histograms) Series() []Series {
	if h == nil {
		return nil
	}
	return append([]Series(nil), h.series...)
}

// Max returns the largest count across every series, 0 when empty.
func (h *Histograms) Max() int {
	max := 0
	for _, s := range h.Series() {
		for _, v := range s.Counts {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// MarshalJSON encodes the collection as a JSON object in draw order.
func (h *Histograms) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range h.Series() {
		if i > 0 {
			buf.WriteByte(',')
		}
		counts := s.Counts
		if counts == nil {
			counts = []int{}
		}
		values, err := json.Marshal(counts)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", s.Channel.Name())
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of channel name -> counts.
func (h *Histograms) UnmarshalJSON(data []byte) error {
	var raw map[string][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	h.series = nil
	for name, counts := range raw {
		c, err := ParseChannel(name)
		if err != nil {
			return err
		}
		h.Set(c, counts)
	}
	return nil
}

// ChannelHistogram counts the values of one frame component over r.
//
// index selects the component in BGR order (0 blue, 1 green, 2 red). A
// 1-channel frame has a single intensity plane, so every color index reads that
// plane. Values outside r are skipped, never clamped into the edge bins. Float
// frames bin floor(v), so v in [min, max+1) lands in a bin.
//
// Returns (nil, nil) for an absent or empty frame. A present frame always
// yields r.Bins() counts.
func ChannelHistogram(f *frame.Frame, index int, r PixelRange) ([]int, error) {
	if f.Empty() {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Channels == 1 {
		index = 0
	}
	if index < 0 || index >= f.Channels {
		return nil, fmt.Errorf("channel index %d out of range for %d-channel frame", index, f.Channels)
	}
	r = NewPixelRange(r.Min, r.Max)

	counts := make([]int, r.Bins())
	n := f.Height * f.Width

	if f.Depth == frame.Depth32F {
		lo, hi := float64(r.Min), float64(r.Max+1)
		for i := 0; i < n; i++ {
			v := float64(f.Float[i*f.Channels+index])
			if math.IsNaN(v) || v < lo || v >= hi {
				continue
			}
			counts[int(math.Floor(v))-r.Min]++
		}
		return counts, nil
	}

	for i := 0; i < n; i++ {
		v := int(f.Pix[i*f.Channels+index])
		if !r.Contains(v) {
			continue
		}
		counts[v-r.Min]++
	}
	return counts, nil
}

// GrayHistogram converts f to luminance and bins the result over r.
func GrayHistogram(f *frame.Frame, r PixelRange) ([]int, error) {
	if f.Empty() {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return ChannelHistogram(Luminance(f), 0, r)
}

// ComputeHistograms bins every enabled channel of f over r.
//
// The result is empty when no channel is enabled or when f is absent.
func ComputeHistograms(f *frame.Frame, set ChannelSet, r PixelRange) (*Histograms, error) {
	h := NewHistograms()
	if f.Empty() {
		return h, nil
	}

	for _, c := range set.Channels() {
		var (
			counts []int
			err    error
		)
		if c == Gray {
			counts, err = GrayHistogram(f, r)
		} else {
			counts, err = ChannelHistogram(f, c.Index(), r)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s histogram: %w", c.Name(), err)
		}
		h.Set(c, counts)
	}
	return h, nil
}
