package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelFace is the bitmap face used for axis ticks and legend entries. Its
// glyph masks are fully on or off, so rendered text is reproducible pixel for
// pixel.
var labelFace font.Face = basicfont.Face7x13

// drawLine draws a 1-pixel line between two points (both inclusive) using
// Bresenham's algorithm. Pixels outside the image are skipped.
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawPolyline connects consecutive points with drawLine.
func drawPolyline(img *image.NRGBA, pts []image.Point, c color.Color) {
	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, c)
	}
}

// fillRect paints the rectangle with corners (x0,y0) and (x1,y1), both
// inclusive.
func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	r := image.Rect(x0, y0, x1+1, y1+1)
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawText renders text with its baseline starting at (x, y).
func drawText(img *image.NRGBA, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: labelFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
