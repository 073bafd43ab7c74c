package imaging

import "fmt"

// Bounds accepted for a pixel range. Min may be at most 254 and Max at least 1
// so that a non-inverted range always has room for two distinct values.
const (
	PixelFloor   = 0
	PixelCeiling = 255
	MaxPixelMin  = 254
	MinPixelMax  = 1
)

// PixelRange is an inclusive range of 8-bit pixel values, one histogram bin per
// integer value.
type PixelRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// NewPixelRange builds a range, swapping the bounds when they arrive inverted.
// Equal bounds are kept and produce a single-bin histogram.
func NewPixelRange(min, max int) PixelRange {
	if min > max {
		min, max = max, min
	}
	return PixelRange{Min: min, Max: max}
}

// FullRange covers every 8-bit value.
func FullRange() PixelRange {
	return PixelRange{Min: PixelFloor, Max: PixelCeiling}
}

// Bins returns the number of histogram bins the range produces.
func (r PixelRange) Bins() int {
	return r.Max - r.Min + 1
}

// Contains reports whether v falls inside the range.
func (r PixelRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// String formats the range as "min-max".
func (r PixelRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}
