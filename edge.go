package img2glyph

import (
	"github.com/wbrown/img2glyph/imageutil"
)

// DefaultEdgeBlur is the Gaussian sigma applied before edge detection.
const DefaultEdgeBlur = 1.0

// EdgeMap holds a per-pixel gradient magnitude, normalized to [0, 1], and
// a direction bin in [0, Bins).
type EdgeMap struct {
	Width     int
	Height    int
	Bins      int
	Magnitude []float64
	Direction []uint8
}

// DetectEdges computes the EdgeMap of a grayscale image: intensities are
// normalized to [0, 1], blurred with the given sigma (0 disables the
// blur), then run through Sobel. Directions are quantized into bins
// orientations over a half turn.
func DetectEdges(gray *imageutil.GrayImage, bins int, sigma float64) *EdgeMap {
	blurred := imageutil.GaussianBlurGray(gray, sigma)
	gx, gy := imageutil.SobelGradients(blurred)

	width, height := gray.Width(), gray.Height()
	e := &EdgeMap{
		Width:     width,
		Height:    height,
		Bins:      bins,
		Magnitude: make([]float64, width*height),
		Direction: make([]uint8, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			e.Magnitude[i] = normalizedMagnitude(gx[y][x], gy[y][x])
			e.Direction[i] = quantizeDirection(gx[y][x], gy[y][x], bins)
		}
	}
	return e
}

// Resize scales the map to a new pixel size. Magnitudes are interpolated
// bilinearly; direction bins take their nearest neighbour.
func (e *EdgeMap) Resize(width, height int) *EdgeMap {
	if width == e.Width && height == e.Height {
		return e
	}
	return &EdgeMap{
		Width:     width,
		Height:    height,
		Bins:      e.Bins,
		Magnitude: imageutil.ResizeFloat(e.Magnitude, e.Width, e.Height, width, height, imageutil.InterpolationLinear),
		Direction: imageutil.ResizeIndex(e.Direction, e.Width, e.Height, width, height),
	}
}

// region copies the magnitudes and bins of a rectangle. The rectangle
// must lie inside the map.
func (e *EdgeMap) region(x0, y0, width, height int) ([]float64, []uint8) {
	mag := make([]float64, 0, width*height)
	dir := make([]uint8, 0, width*height)
	for y := y0; y < y0+height; y++ {
		start := y*e.Width + x0
		mag = append(mag, e.Magnitude[start:start+width]...)
		dir = append(dir, e.Direction[start:start+width]...)
	}
	return mag, dir
}

// MagnitudeImage renders the magnitudes as an 8-bit grayscale image.
func (e *EdgeMap) MagnitudeImage() *imageutil.GrayImage {
	img := imageutil.NewGrayImage(e.Width, e.Height)
	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			img.SetGrayValue(x, y, uint8(e.Magnitude[y*e.Width+x]*255+0.5))
		}
	}
	return img
}
