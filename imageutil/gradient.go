package imageutil

import "math"

// MaxSobelMagnitude is the largest gradient magnitude the Sobel operator
// reports for intensities in [0, 1].
const MaxSobelMagnitude = 4 * math.Sqrt2

// SobelGradients computes horizontal and vertical Sobel gradients of a
// grayscale image whose intensities are first scaled to [0, 1].
func SobelGradients(img *GrayImage) (gx, gy [][]float64) {
	return SobelGradientsFloat(img.Float())
}

// SobelGradientsFloat computes horizontal and vertical Sobel gradients of
// a float image. Borders replicate edge values.
func SobelGradientsFloat(img [][]float64) (gx, gy [][]float64) {
	gx = ConvolveGrayFloat(img, SobelXKernel())
	gy = ConvolveGrayFloat(img, SobelYKernel())
	return gx, gy
}
