package frame

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmpty is returned when an operation needs pixels and the frame has none.
var ErrEmpty = errors.New("empty frame")

// FromImage converts a decoded image into an 8-bit frame.
//
// The channel layout follows the source:
//   - *image.Gray becomes a 1-channel frame
//   - images with at least one non-opaque pixel become 4-channel BGRA
//   - everything else becomes 3-channel BGR
//
// Alpha is kept non-premultiplied so channel values match the stored pixels.
// A nil image yields a nil frame.
func FromImage(img image.Image) *Frame {
	if img == nil {
		return nil
	}
	b := img.Bounds()

	if g, ok := img.(*image.Gray); ok {
		f := New(b.Dy(), b.Dx(), 1)
		for y := 0; y < f.Height; y++ {
			row := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(f.Pix[y*f.Width:(y+1)*f.Width], g.Pix[row:row+f.Width])
		}
		return f
	}

	src := imaging.Clone(img)
	channels := 3
	if !src.Opaque() {
		channels = 4
	}

	f := New(b.Dy(), b.Dx(), channels)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := src.PixOffset(x, y)
			o := f.Offset(y, x, 0)
			f.Pix[o] = src.Pix[i+2]
			f.Pix[o+1] = src.Pix[i+1]
			f.Pix[o+2] = src.Pix[i]
			if channels == 4 {
				f.Pix[o+3] = src.Pix[i+3]
			}
		}
	}
	return f
}

// Image converts an 8-bit frame back into a standard library image.
//
// 1-channel frames become *image.Gray; 3- and 4-channel frames become
// *image.NRGBA (opaque for 3 channels). Float frames must be converted to 8-bit
// first.
func (f *Frame) Image() (image.Image, error) {
	if f.Empty() {
		return nil, ErrEmpty
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Depth != Depth8U {
		return nil, fmt.Errorf("cannot convert %s frame to image", f.Depth)
	}

	rect := image.Rect(0, 0, f.Width, f.Height)
	switch f.Channels {
	case 1:
		g := image.NewGray(rect)
		copy(g.Pix, f.Pix)
		return g, nil
	case 3, 4:
		dst := image.NewNRGBA(rect)
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				o := f.Offset(y, x, 0)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = f.Pix[o+2]
				dst.Pix[i+1] = f.Pix[o+1]
				dst.Pix[i+2] = f.Pix[o]
				if f.Channels == 4 {
					dst.Pix[i+3] = f.Pix[o+3]
				} else {
					dst.Pix[i+3] = 0xff
				}
			}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("cannot convert %d-channel frame to image", f.Channels)
	}
}
