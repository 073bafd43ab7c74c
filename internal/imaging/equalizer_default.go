//go:build !gocv
// +build !gocv

package imaging

// NewEqualizer returns the equalizer for this build: the pure Go L*a*b*
// implementation. Build with -tags gocv to use OpenCV instead.
func NewEqualizer(clipLimit float64, grid int) Equalizer {
	return NewLabEqualizer(clipLimit, grid)
}

// Backend names the equalizer implementation compiled in.
const Backend = "go"
