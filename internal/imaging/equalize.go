package imaging

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/histogram-update/internal/frame"
)

// Defaults for contrast equalization.
const (
	DefaultClipLimit = 2.0
	DefaultTileGrid  = 8

	// MaxTileGrid bounds the tiles per side. Each tile holds a 256-entry
	// lookup table, so the grid caps the memory one frame can claim.
	MaxTileGrid = 64
)

// Equalizer enhances local contrast of a frame.
//
// Implementations share one contract:
//   - a nil frame returns (nil, nil)
//   - float frames are first brought to 8 bits with ToUint8
//   - 1 channel: the plane is equalized directly
//   - 3 channels: only the lightness of a L*a*b* conversion is equalized
//   - 4 channels: as 3 channels, with alpha copied through untouched
//   - any other channel count is returned unchanged
type Equalizer interface {
	Equalize(f *frame.Frame) (*frame.Frame, error)
}

// LabEqualizer is the pure Go Equalizer. Color frames go through CIE L*a*b*
// (D65) and only L*, quantized to 8 bits, is equalized.
type LabEqualizer struct {
	clahe CLAHE
}

// NewLabEqualizer creates a pure Go equalizer with a square tile grid.
func NewLabEqualizer(clipLimit float64, grid int) *LabEqualizer {
	return &LabEqualizer{clahe: NewCLAHE(clipLimit, grid)}
}

// Equalize implements Equalizer.
func (e *LabEqualizer) Equalize(f *frame.Frame) (*frame.Frame, error) {
	if f == nil {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	src := ToUint8(f)
	if src.Empty() {
		return src.Clone(), nil
	}

	switch src.Channels {
	case 1:
		out := frame.New(src.Height, src.Width, 1)
		out.Pix = e.clahe.Apply(src.Pix, src.Width, src.Height)
		return out, nil
	case 3, 4:
		out := src.Clone()
		e.equalizeLightness(out)
		return out, nil
	default:
		return src.Clone(), nil
	}
}

// equalizeLightness rewrites the BGR components of f in place, leaving any
// fourth component alone.
func (e *LabEqualizer) equalizeLightness(f *frame.Frame) {
	n := f.Height * f.Width
	light := make([]uint8, n)
	chromaA := make([]float64, n)
	chromaB := make([]float64, n)

	for i := 0; i < n; i++ {
		o := i * f.Channels
		c := colorful.Color{
			R: float64(f.Pix[o+2]) / 255.0,
			G: float64(f.Pix[o+1]) / 255.0,
			B: float64(f.Pix[o]) / 255.0,
		}
		l, a, b := c.Lab()
		light[i] = uint8(math.Max(0, math.Min(255, math.Round(l*255))))
		chromaA[i], chromaB[i] = a, b
	}

	equalized := e.clahe.Apply(light, f.Width, f.Height)

	for i := 0; i < n; i++ {
		if equalized[i] == light[i] {
			continue
		}
		c := colorful.Lab(float64(equalized[i])/255.0, chromaA[i], chromaB[i]).Clamped()
		r, g, b := c.RGB255()
		o := i * f.Channels
		f.Pix[o], f.Pix[o+1], f.Pix[o+2] = b, g, r
	}
}

var _ Equalizer = (*LabEqualizer)(nil)
