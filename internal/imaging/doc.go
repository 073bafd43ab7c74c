// Package imaging provides the pixel operations behind the executors:
// channel histograms, the histogram plot, luminance conversion and CLAHE
// (Contrast Limited Adaptive Histogram Equalization).
//
// All functions take and return *frame.Frame values in BGR(A) order and
// never modify their input.
//
// # Histograms
//
// ComputeHistogram counts the values of one channel that fall inside a
// PixelRange. Bin i holds the count of value Min+i, so a range always has
// Max-Min+1 bins. Float frames are binned by the floor of each sample.
// The Gray channel is computed from BT.601 luminance.
//
// # Plot
//
// RenderPlot draws the histograms as polylines on a fixed 640x480 white
// canvas. All series share one vertical scale, and the output depends only
// on its inputs.
//
// # Equalization
//
// CLAHE reproduces the OpenCV algorithm on 8-bit planes: tiles padded by
// reflect-101, clip limit max(int(clip*tileArea/256), 1), excess
// redistributed evenly then by residual stepping, and bilinear blending of
// the four nearest tile lookup tables.
//
// The Equalizer used by the Equalization executor runs CLAHE on the L
// channel of a Lab conversion for color frames and directly on gray
// frames. Building with the gocv tag swaps in an OpenCV-backed Equalizer;
// Backend reports which one is compiled in.
//
// # Thread Safety
//
// Every function is stateless and safe for concurrent use.
package imaging
