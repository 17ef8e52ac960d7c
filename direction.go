package img2glyph

import (
	"math"

	"github.com/wbrown/img2glyph/imageutil"
)

// orientation is the magnitude-weighted mean of doubled gradient angles
// over a region. Doubling the angle makes opposite gradients (the two
// sides of one stroke) reinforce instead of cancel. Its length is in
// [0, 1]: 0 for a flat region, 1 for a region of maximal, uniformly
// oriented edges.
type orientation struct {
	X, Y float64
}

func (o orientation) distance(p orientation) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// quantizeDirection maps a gradient onto one of bins orientations evenly
// spaced over [0, π). Gradients pointing in opposite directions share a bin.
func quantizeDirection(gx, gy float64, bins int) uint8 {
	theta := math.Atan2(gy, gx)
	if theta < 0 {
		theta += math.Pi
	}
	step := math.Pi / float64(bins)
	return uint8(int(math.Round(theta/step)) % bins)
}

// binVectors returns (cos 2φ, sin 2φ) for the centre angle φ of each bin.
func binVectors(bins int) [][2]float64 {
	vecs := make([][2]float64, bins)
	step := math.Pi / float64(bins)
	for i := range vecs {
		phi := 2 * step * float64(i)
		vecs[i] = [2]float64{math.Cos(phi), math.Sin(phi)}
	}
	return vecs
}

// normalizedMagnitude scales a Sobel response on [0, 1] input to [0, 1].
func normalizedMagnitude(gx, gy float64) float64 {
	return min(math.Hypot(gx, gy)/imageutil.MaxSobelMagnitude, 1)
}

// gradientField runs Sobel over a row-major plane of values in [0, 1],
// with borders replicated, and returns normalized magnitudes and
// direction bins.
func gradientField(values []float64, width, height, bins int) ([]float64, []uint8) {
	rows := make([][]float64, height)
	for y := range rows {
		rows[y] = values[y*width : (y+1)*width]
	}
	gx, gy := imageutil.SobelGradientsFloat(rows)

	mag := make([]float64, width*height)
	dir := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			mag[i] = normalizedMagnitude(gx[y][x], gy[y][x])
			dir[i] = quantizeDirection(gx[y][x], gy[y][x], bins)
		}
	}
	return mag, dir
}

// orientationOf folds magnitudes and direction bins into an orientation.
func orientationOf(mag []float64, dir []uint8, vecs [][2]float64) orientation {
	var o orientation
	if len(mag) == 0 {
		return o
	}
	for i, m := range mag {
		if m == 0 {
			continue
		}
		v := vecs[dir[i]]
		o.X += m * v[0]
		o.Y += m * v[1]
	}
	n := float64(len(mag))
	o.X /= n
	o.Y /= n
	return o
}

// dominantBin returns the bin carrying the most gradient magnitude, or
// -1 for a region without any edges.
func dominantBin(mag []float64, dir []uint8, bins int) int {
	totals := make([]float64, bins)
	for i, m := range mag {
		totals[dir[i]] += m
	}
	best, bestTotal := -1, 0.0
	for b, t := range totals {
		if t > bestTotal {
			best, bestTotal = b, t
		}
	}
	return best
}
