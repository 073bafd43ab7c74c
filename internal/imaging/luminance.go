package imaging

import "github.com/ironsheep/histogram-update/internal/frame"

// BT.601 luma weights in 14-bit fixed point; they sum to 1<<14 so a pixel with
// equal components keeps its value.
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaHalf  = 1 << (lumaShift - 1)
)

// Luminance converts a frame to a single intensity channel.
//
// Conversion uses ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B). 8-bit
// frames use the fixed-point form with rounding; float frames use the float
// weights unrounded. Alpha is ignored. A 1-channel frame is already intensity
// and comes back as an unchanged copy, which keeps the conversion idempotent.
//
// Returns nil for a nil frame.
func Luminance(f *frame.Frame) *frame.Frame {
	if f == nil {
		return nil
	}
	if f.Channels == 1 {
		return f.Clone()
	}
	if f.Channels == 2 {
		// gray + alpha: the first component is the intensity
		return channelPlane(f, 0)
	}

	n := f.Height * f.Width
	if f.Depth == frame.Depth32F {
		out := frame.NewFloat(f.Height, f.Width, 1)
		for i := 0; i < n; i++ {
			o := i * f.Channels
			b, g, r := f.Float[o], f.Float[o+1], f.Float[o+2]
			out.Float[i] = 0.299*r + 0.587*g + 0.114*b
		}
		return out
	}

	out := frame.New(f.Height, f.Width, 1)
	for i := 0; i < n; i++ {
		o := i * f.Channels
		b, g, r := int(f.Pix[o]), int(f.Pix[o+1]), int(f.Pix[o+2])
		out.Pix[i] = uint8((r*lumaR + g*lumaG + b*lumaB + lumaHalf) >> lumaShift)
	}
	return out
}

// channelPlane extracts component c of f into a 1-channel frame of the same depth.
func channelPlane(f *frame.Frame, c int) *frame.Frame {
	n := f.Height * f.Width
	if f.Depth == frame.Depth32F {
		out := frame.NewFloat(f.Height, f.Width, 1)
		for i := 0; i < n; i++ {
			out.Float[i] = f.Float[i*f.Channels+c]
		}
		return out
	}
	out := frame.New(f.Height, f.Width, 1)
	for i := 0; i < n; i++ {
		out.Pix[i] = f.Pix[i*f.Channels+c]
	}
	return out
}
