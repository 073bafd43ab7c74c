//go:build gocv
// +build gocv

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/histogram-update/internal/frame"
)

// Backend names the equalizer implementation compiled in.
const Backend = "opencv"

// NewEqualizer returns the equalizer for this build: OpenCV's CLAHE.
func NewEqualizer(clipLimit float64, grid int) Equalizer {
	return &OpenCVEqualizer{clipLimit: clipLimit, grid: clamp(grid, 1, MaxTileGrid)}
}

// OpenCVEqualizer runs CLAHE through gocv. Color frames are equalized on the L
// plane of OpenCV's 8-bit Lab conversion.
type OpenCVEqualizer struct {
	clipLimit float64
	grid      int
}

// Equalize implements Equalizer.
func (e *OpenCVEqualizer) Equalize(f *frame.Frame) (*frame.Frame, error) {
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

	clahe := gocv.NewCLAHEWithParams(e.clipLimit, image.Pt(e.grid, e.grid))
	defer clahe.Close()

	switch src.Channels {
	case 1:
		mat, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC1, src.Pix)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap frame: %w", err)
		}
		defer mat.Close()

		dst := gocv.NewMat()
		defer dst.Close()
		clahe.Apply(mat, &dst)

		out := frame.New(src.Height, src.Width, 1)
		copy(out.Pix, dst.ToBytes())
		return out, nil

	case 3, 4:
		bgr := src
		if src.Channels == 4 {
			bgr = frame.New(src.Height, src.Width, 3)
			for c := 0; c < 3; c++ {
				bgr.SetPlane(c, src.Plane(c))
			}
		}

		mat, err := gocv.NewMatFromBytes(bgr.Height, bgr.Width, gocv.MatTypeCV8UC3, bgr.Pix)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap frame: %w", err)
		}
		defer mat.Close()

		lab := gocv.NewMat()
		defer lab.Close()
		gocv.CvtColor(mat, &lab, gocv.ColorBGRToLab)

		planes := gocv.Split(lab)
		defer func() {
			for i := range planes {
				planes[i].Close()
			}
		}()

		light := gocv.NewMat()
		clahe.Apply(planes[0], &light)
		planes[0].Close()
		planes[0] = light
		gocv.Merge(planes, &lab)

		result := gocv.NewMat()
		defer result.Close()
		gocv.CvtColor(lab, &result, gocv.ColorLabToBGR)

		equalized := &frame.Frame{
			Height:   bgr.Height,
			Width:    bgr.Width,
			Channels: 3,
			Pix:      result.ToBytes(),
		}

		out := src.Clone()
		for c := 0; c < 3; c++ {
			out.SetPlane(c, equalized.Plane(c))
		}
		return out, nil

	default:
		return src.Clone(), nil
	}
}

var _ Equalizer = (*OpenCVEqualizer)(nil)
