package imaging

import (
	"math"

	"github.com/ironsheep/histogram-update/internal/frame"
)

// ToUint8 returns an 8-bit version of f.
//
// 8-bit frames are returned as is. Float frames whose largest component is at
// most 1.0 are treated as normalized and scaled by 255; any other float frame is
// clipped to [0, 255]. Both paths truncate toward zero. NaN becomes 0.
func ToUint8(f *frame.Frame) *frame.Frame {
	if f == nil || f.Depth == frame.Depth8U {
		return f
	}

	scale := 1.0
	if maxFloat(f.Float) <= 1.0 {
		scale = 255.0
	}

	out := frame.New(f.Height, f.Width, f.Channels)
	for i, v := range f.Float {
		x := float64(v) * scale
		switch {
		case math.IsNaN(x) || x <= 0:
			out.Pix[i] = 0
		case x >= 255:
			out.Pix[i] = 255
		default:
			out.Pix[i] = uint8(x)
		}
	}
	return out
}

func maxFloat(values []float32) float64 {
	max := math.Inf(-1)
	for _, v := range values {
		if float64(v) > max {
			max = float64(v)
		}
	}
	return max
}
