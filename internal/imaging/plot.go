package imaging

import (
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/histogram-update/internal/frame"
)

// Plot geometry. The drawable area is the canvas minus the margins.
const (
	PlotWidth  = 640
	PlotHeight = 480

	plotMarginLeft   = 50
	plotMarginRight  = 20
	plotMarginTop    = 20
	plotMarginBottom = 40

	plotAreaWidth  = PlotWidth - plotMarginLeft - plotMarginRight
	plotAreaHeight = PlotHeight - plotMarginTop - plotMarginBottom

	// y coordinate of the horizontal axis
	plotBaseline = PlotHeight - plotMarginBottom

	legendRowHeight = 18
)

var (
	plotBackground = color.White
	plotInk        = color.RGBA{A: 255}
)

// RenderPlot draws the histograms as overlaid line series on a 640x480 canvas
// and returns it as a 3-channel BGR frame.
//
// # Layout
//
//   - white background, black L-shaped axis along the left and bottom margins
//   - the range minimum and maximum printed under the two ends of the x axis
//   - one polyline per series in draw order (red, green, blue, gray)
//   - a legend of color swatches and channel titles near the top-left corner
//
// # Scaling
//
// Bin i of n maps to x = 50 + floor(i/(n-1) * 570). Every series is scaled
// against the largest count across all series, so their heights are
// comparable: y = 440 - floor(v/max * 420). When every count is zero the
// denominator becomes 1 and all series lie on the axis. A series with fewer than
// two bins has no line to draw.
//
// Output is a pure function of its inputs: identical histograms and range give
// byte-identical frames.
func RenderPlot(h *Histograms, r PixelRange) *frame.Frame {
	canvas := imaging.New(PlotWidth, PlotHeight, plotBackground)

	// Axes
	drawLine(canvas, plotMarginLeft, plotMarginTop, plotMarginLeft, plotBaseline, plotInk)
	drawLine(canvas, plotMarginLeft, plotBaseline, PlotWidth-plotMarginRight, plotBaseline, plotInk)

	// Tick labels
	drawText(canvas, plotMarginLeft, plotBaseline+25, strconv.Itoa(r.Min), plotInk)
	drawText(canvas, PlotWidth-plotMarginRight-30, plotBaseline+25, strconv.Itoa(r.Max), plotInk)

	globalMax := float64(h.Max())
	if globalMax == 0 {
		globalMax = 1.0
	}

	series := h.Series()
	for _, s := range series {
		pts := seriesPoints(s.Counts, globalMax)
		if len(pts) < 2 {
			continue
		}
		drawPolyline(canvas, pts, s.Channel.Color())
	}

	// Legend
	lx := plotMarginLeft + 10
	ly := plotMarginTop + 15
	for _, s := range series {
		fillRect(canvas, lx, ly-8, lx+12, ly+2, s.Channel.Color())
		drawText(canvas, lx+18, ly+2, s.Channel.Title(), plotInk)
		ly += legendRowHeight
	}

	return frame.FromImage(canvas)
}

// seriesPoints maps bins to canvas coordinates.
func seriesPoints(counts []int, globalMax float64) []image.Point {
	n := len(counts)
	if n == 0 {
		return nil
	}
	span := n - 1
	if span < 1 {
		span = 1
	}

	pts := make([]image.Point, n)
	for i, v := range counts {
		x := plotMarginLeft + int(float64(i)/float64(span)*plotAreaWidth)
		y := plotBaseline - int(float64(v)/globalMax*plotAreaHeight)
		pts[i] = image.Pt(x, clamp(y, plotMarginTop, plotBaseline))
	}
	return pts
}
