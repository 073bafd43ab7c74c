package imaging

import "math"

const histSize = 256

// CLAHE performs contrast-limited adaptive histogram equalization on 8-bit
// single-channel planes.
//
// The plane is split into TilesX x TilesY tiles. Each tile gets its own
// equalization lookup table built from a clipped histogram, and every output
// pixel blends the tables of the four nearest tile centers bilinearly, which
// hides tile seams.
//
// # Clipping
//
// With ClipLimit > 0, each tile histogram is capped at
// max(int(ClipLimit * tileArea / 256), 1). The excess is spread evenly over all
// bins and the remainder is handed out one count at a time at a regular stride.
// ClipLimit <= 0 disables clipping (plain adaptive equalization).
//
// # Borders
//
// When the plane size is not a multiple of the grid, the tile statistics are
// taken from a copy extended to the right and bottom by reflection (without
// repeating the edge pixel). Output always has the input size.
//
// The arithmetic (float32 lookup scaling, round-half-even) matches the common
// OpenCV implementation so results agree bit for bit on typical inputs.
type CLAHE struct {
	ClipLimit float64
	TilesX    int
	TilesY    int
}

// NewCLAHE builds a square grid equalizer. The grid is clamped to
// [1, MaxTileGrid].
func NewCLAHE(clipLimit float64, grid int) CLAHE {
	grid = clamp(grid, 1, MaxTileGrid)
	return CLAHE{ClipLimit: clipLimit, TilesX: grid, TilesY: grid}
}

// Apply equalizes a width x height plane stored row by row and returns a new
// plane. src is not modified.
func (c CLAHE) Apply(src []uint8, width, height int) []uint8 {
	dst := make([]uint8, width*height)
	if width <= 0 || height <= 0 {
		return dst
	}

	tilesX := clamp(c.TilesX, 1, MaxTileGrid)
	tilesY := clamp(c.TilesY, 1, MaxTileGrid)

	ext, extW, extH := src, width, height
	if width%tilesX != 0 || height%tilesY != 0 {
		ext, extW, extH = padReflect101(src, width, height, tilesX-width%tilesX, tilesY-height%tilesY)
	}

	tileW, tileH := extW/tilesX, extH/tilesY
	tileArea := tileW * tileH
	lutScale := float32(255.0) / float32(tileArea)

	clip := 0
	if c.ClipLimit > 0 {
		clip = int(c.ClipLimit * float64(tileArea) / histSize)
		if clip < 1 {
			clip = 1
		}
	}

	luts := make([][histSize]uint8, tilesX*tilesY)
	var hist [histSize]int
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			hist = [histSize]int{}
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				row := ext[y*extW : (y+1)*extW]
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[row[x]]++
				}
			}

			if clip > 0 {
				clipHistogram(&hist, clip)
			}

			lut := &luts[ty*tilesX+tx]
			sum := 0
			for i := 0; i < histSize; i++ {
				sum += hist[i]
				lut[i] = saturateUint8(float32(sum) * lutScale)
			}
		}
	}

	// Per-column tile neighbors and weights are the same for every row.
	invTW := float32(1.0) / float32(tileW)
	invTH := float32(1.0) / float32(tileH)
	colTile1 := make([]int, width)
	colTile2 := make([]int, width)
	colWeight := make([]float32, width)
	for x := 0; x < width; x++ {
		txf := float32(x)*invTW - 0.5
		tx1 := int(math.Floor(float64(txf)))
		tx2 := tx1 + 1
		colWeight[x] = txf - float32(tx1)
		colTile1[x] = clamp(tx1, 0, tilesX-1)
		colTile2[x] = clamp(tx2, 0, tilesX-1)
	}

	for y := 0; y < height; y++ {
		tyf := float32(y)*invTH - 0.5
		ty1 := int(math.Floor(float64(tyf)))
		ty2 := ty1 + 1
		ya := tyf - float32(ty1)
		ya1 := 1 - ya
		ty1 = clamp(ty1, 0, tilesY-1)
		ty2 = clamp(ty2, 0, tilesY-1)

		top := luts[ty1*tilesX : (ty1+1)*tilesX]
		bottom := luts[ty2*tilesX : (ty2+1)*tilesX]
		srcRow := src[y*width : (y+1)*width]
		dstRow := dst[y*width : (y+1)*width]

		for x, v := range srcRow {
			xa := colWeight[x]
			xa1 := 1 - xa
			t1, t2 := colTile1[x], colTile2[x]
			res := (float32(top[t1][v])*xa1+float32(top[t2][v])*xa)*ya1 +
				(float32(bottom[t1][v])*xa1+float32(bottom[t2][v])*xa)*ya
			dstRow[x] = saturateUint8(res)
		}
	}
	return dst
}

// clipHistogram caps every bin at limit and redistributes the excess.
func clipHistogram(hist *[histSize]int, limit int) {
	clipped := 0
	for i := range hist {
		if hist[i] > limit {
			clipped += hist[i] - limit
			hist[i] = limit
		}
	}

	batch := clipped / histSize
	residual := clipped - batch*histSize
	for i := range hist {
		hist[i] += batch
	}

	if residual != 0 {
		step := histSize / residual
		if step < 1 {
			step = 1
		}
		for i := 0; i < histSize && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}

// padReflect101 extends a plane to the right and bottom, mirroring around the
// edge pixel (dcb|abcd|cba).
func padReflect101(src []uint8, width, height, right, bottom int) ([]uint8, int, int) {
	extW, extH := width+right, height+bottom
	ext := make([]uint8, extW*extH)
	for y := 0; y < extH; y++ {
		sy := reflect101(y, height)
		srcRow := src[sy*width : (sy+1)*width]
		dstRow := ext[y*extW : (y+1)*extW]
		copy(dstRow, srcRow)
		for x := width; x < extW; x++ {
			dstRow[x] = srcRow[reflect101(x, width)]
		}
	}
	return ext, extW, extH
}

// reflect101 maps an out-of-range coordinate back into [0, n), bouncing as
// often as needed for pads wider than the plane.
func reflect101(p, n int) int {
	if n == 1 {
		return 0
	}
	for p < 0 || p >= n {
		if p < 0 {
			p = -p
		} else {
			p = 2*(n-1) - p
		}
	}
	return p
}

// saturateUint8 rounds half to even and clamps to [0, 255].
func saturateUint8(v float32) uint8 {
	r := math.RoundToEven(float64(v))
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}
