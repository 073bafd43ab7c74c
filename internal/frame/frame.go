package frame

import (
	"errors"
	"fmt"
)

// Depth identifies the component type of a frame.
type Depth uint8

const (
	// Depth8U stores one unsigned byte per component in Frame.Pix.
	Depth8U Depth = iota
	// Depth32F stores one float32 per component in Frame.Float.
	Depth32F
)

// String returns the conventional name of the depth ("8U" or "32F").
func (d Depth) String() string {
	switch d {
	case Depth8U:
		return "8U"
	case Depth32F:
		return "32F"
	default:
		return fmt.Sprintf("Depth(%d)", uint8(d))
	}
}

// ErrCorrupt is returned when a frame's buffers disagree with its shape.
var ErrCorrupt = errors.New("corrupt frame")

// Frame is a dense H x W x C pixel grid.
//
// Components are interleaved row by row. Color frames use BGR ordering, with
// alpha as the fourth component when present:
//   - index 0: blue
//   - index 1: green
//   - index 2: red
//   - index 3: alpha
//
// Single-channel frames hold intensity only. A nil *Frame stands for "no image"
// throughout this module.
type Frame struct {
	Height   int
	Width    int
	Channels int
	Depth    Depth

	// Pix holds 8-bit components when Depth is Depth8U.
	Pix []uint8
	// Float holds 32-bit float components when Depth is Depth32F.
	Float []float32
}

// New allocates a zeroed 8-bit frame.
func New(height, width, channels int) *Frame {
	return &Frame{
		Height:   height,
		Width:    width,
		Channels: channels,
		Depth:    Depth8U,
		Pix:      make([]uint8, height*width*channels),
	}
}

// NewFloat allocates a zeroed float frame.
func NewFloat(height, width, channels int) *Frame {
	return &Frame{
		Height:   height,
		Width:    width,
		Channels: channels,
		Depth:    Depth32F,
		Float:    make([]float32, height*width*channels),
	}
}

// Empty reports whether f is absent or has no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Height <= 0 || f.Width <= 0 || f.Channels <= 0
}

// Len returns the number of components in the frame.
func (f *Frame) Len() int {
	if f.Empty() {
		return 0
	}
	return f.Height * f.Width * f.Channels
}

// Offset returns the index of component c of pixel (x, y) in Pix or Float.
func (f *Frame) Offset(y, x, c int) int {
	return (y*f.Width+x)*f.Channels + c
}

// Plane copies component c of an 8-bit frame into a new W*H slice.
func (f *Frame) Plane(c int) []uint8 {
	plane := make([]uint8, f.Height*f.Width)
	for i := range plane {
		plane[i] = f.Pix[i*f.Channels+c]
	}
	return plane
}

// SetPlane overwrites component c of an 8-bit frame from a W*H slice.
func (f *Frame) SetPlane(c int, plane []uint8) {
	for i, v := range plane {
		f.Pix[i*f.Channels+c] = v
	}
}

// Clone returns a deep copy of f. Cloning nil returns nil.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	out := &Frame{
		Height:   f.Height,
		Width:    f.Width,
		Channels: f.Channels,
		Depth:    f.Depth,
	}
	if f.Pix != nil {
		out.Pix = append([]uint8(nil), f.Pix...)
	}
	if f.Float != nil {
		out.Float = append([]float32(nil), f.Float...)
	}
	return out
}

// Validate checks that the buffers match the declared shape.
func (f *Frame) Validate() error {
	if f == nil {
		return nil
	}
	if f.Height < 0 || f.Width < 0 || f.Channels < 0 {
		return fmt.Errorf("%w: negative shape %dx%dx%d", ErrCorrupt, f.Height, f.Width, f.Channels)
	}
	want := f.Len()
	switch f.Depth {
	case Depth8U:
		if len(f.Pix) != want {
			return fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrCorrupt, len(f.Pix), f.Height, f.Width, f.Channels)
		}
	case Depth32F:
		if len(f.Float) != want {
			return fmt.Errorf("%w: %d floats for %dx%dx%d", ErrCorrupt, len(f.Float), f.Height, f.Width, f.Channels)
		}
	default:
		return fmt.Errorf("%w: unknown depth %s", ErrCorrupt, f.Depth)
	}
	return nil
}
