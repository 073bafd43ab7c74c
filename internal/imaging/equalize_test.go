package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/histogram-update/internal/frame"
)

func TestLabEqualizer_AbsentFrame(t *testing.T) {
	out, err := NewLabEqualizer(DefaultClipLimit, DefaultTileGrid).Equalize(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestLabEqualizer_GrayMatchesCLAHE(t *testing.T) {
	f := frame.New(64, 64, 1)
	copy(f.Pix, stepPlane(60))

	out, err := NewLabEqualizer(3, 4).Equalize(f)
	require.NoError(t, err)
	require.Equal(t, 1, out.Channels)
	assert.Equal(t, NewCLAHE(3, 4).Apply(f.Pix, 64, 64), out.Pix)
}

func TestLabEqualizer_PreservesShape(t *testing.T) {
	for _, channels := range []int{1, 3, 4} {
		f := frame.FromImage(noiseImage(23, 17))
		if channels == 1 {
			f = Luminance(f)
		}
		if channels == 4 {
			f = withAlpha(f, 128)
		}

		out, err := NewLabEqualizer(DefaultClipLimit, DefaultTileGrid).Equalize(f)
		require.NoError(t, err)
		assert.Equal(t, f.Height, out.Height)
		assert.Equal(t, f.Width, out.Width)
		assert.Equal(t, channels, out.Channels)
		assert.Equal(t, frame.Depth8U, out.Depth)
	}
}

func TestLabEqualizer_AlphaUntouched(t *testing.T) {
	f := withAlpha(frame.FromImage(noiseImage(16, 16)), 0)
	for i := 0; i < 16*16; i++ {
		f.Pix[4*i+3] = uint8(i)
	}

	out, err := NewLabEqualizer(DefaultClipLimit, 2).Equalize(f)
	require.NoError(t, err)
	assert.Equal(t, f.Plane(3), out.Plane(3))
}

func TestLabEqualizer_DoesNotModifyInput(t *testing.T) {
	f := frame.FromImage(noiseImage(16, 16))
	orig := f.Clone()

	_, err := NewLabEqualizer(DefaultClipLimit, DefaultTileGrid).Equalize(f)
	require.NoError(t, err)
	assert.Equal(t, orig.Pix, f.Pix)
}

func TestLabEqualizer_NeutralStaysNeutral(t *testing.T) {
	f := frame.New(64, 64, 3)
	plane := stepPlane(90)
	for c := 0; c < 3; c++ {
		f.SetPlane(c, plane)
	}

	out, err := NewLabEqualizer(DefaultClipLimit, DefaultTileGrid).Equalize(f)
	require.NoError(t, err)

	for i := 0; i < 64*64; i++ {
		b, g, r := int(out.Pix[3*i]), int(out.Pix[3*i+1]), int(out.Pix[3*i+2])
		require.InDelta(t, b, g, 1, "pixel %d", i)
		require.InDelta(t, g, r, 1, "pixel %d", i)
	}
}

func TestLabEqualizer_UniformColorStaysUniform(t *testing.T) {
	f := uniformBGR(32, 32, 40, 90, 200)

	out, err := NewLabEqualizer(DefaultClipLimit, DefaultTileGrid).Equalize(f)
	require.NoError(t, err)
	for i := 0; i < 32*32; i++ {
		require.Equal(t, out.Pix[0:3], out.Pix[3*i:3*i+3])
	}
}

func TestLabEqualizer_OtherChannelCountsPassThrough(t *testing.T) {
	f := frame.New(3, 3, 2)
	for i := range f.Pix {
		f.Pix[i] = uint8(i)
	}

	out, err := NewLabEqualizer(DefaultClipLimit, DefaultTileGrid).Equalize(f)
	require.NoError(t, err)
	assert.Equal(t, f.Pix, out.Pix)
}

func TestLabEqualizer_FloatInput(t *testing.T) {
	f := frame.NewFloat(8, 8, 1)
	for i := range f.Float {
		f.Float[i] = 0.5
	}

	out, err := NewLabEqualizer(DefaultClipLimit, 2).Equalize(f)
	require.NoError(t, err)
	assert.Equal(t, frame.Depth8U, out.Depth)
	for _, v := range out.Pix {
		assert.Equal(t, out.Pix[0], v)
	}
}

func TestLabEqualizer_CorruptFrame(t *testing.T) {
	f := &frame.Frame{Height: 4, Width: 4, Channels: 1, Pix: make([]uint8, 3)}
	_, err := NewLabEqualizer(DefaultClipLimit, DefaultTileGrid).Equalize(f)
	require.Error(t, err)
}

func TestNewEqualizer(t *testing.T) {
	eq := NewEqualizer(DefaultClipLimit, DefaultTileGrid)
	require.NotNil(t, eq)
	assert.NotEmpty(t, Backend)

	out, err := eq.Equalize(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestNewEqualizer_AlphaUntouched(t *testing.T) {
	f := withAlpha(frame.FromImage(noiseImage(16, 16)), 0)
	for i := 0; i < 16*16; i++ {
		f.Pix[4*i+3] = uint8(255 - i)
	}

	out, err := NewEqualizer(DefaultClipLimit, 4).Equalize(f)
	require.NoError(t, err)
	assert.Equal(t, f.Plane(3), out.Plane(3))
}

func TestToUint8(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		f := uniformGray(2, 2, 9)
		assert.Same(t, f, ToUint8(f))
	})

	t.Run("normalized", func(t *testing.T) {
		f := frame.NewFloat(1, 3, 1)
		copy(f.Float, []float32{0, 0.5, 1})
		assert.Equal(t, []uint8{0, 127, 255}, ToUint8(f).Pix)
	})

	t.Run("clipped", func(t *testing.T) {
		f := frame.NewFloat(1, 4, 1)
		copy(f.Float, []float32{-5, 12.7, 254.99, 300})
		assert.Equal(t, []uint8{0, 12, 254, 255}, ToUint8(f).Pix)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToUint8(nil))
	})
}

// withAlpha widens a BGR frame to BGRA with a constant alpha.
func withAlpha(f *frame.Frame, alpha uint8) *frame.Frame {
	out := frame.New(f.Height, f.Width, 4)
	for c := 0; c < 3; c++ {
		out.SetPlane(c, f.Plane(c))
	}
	for i := 0; i < f.Height*f.Width; i++ {
		out.Pix[4*i+3] = alpha
	}
	return out
}
