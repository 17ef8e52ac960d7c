package imageutil

import (
	"math"

	"github.com/disintegration/gift"
)

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// SobelXKernel returns the horizontal Sobel kernel.
func SobelXKernel() *Kernel {
	return NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
}

// SobelYKernel returns the vertical Sobel kernel.
func SobelYKernel() *Kernel {
	return NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
}

// ConvolveGrayFloat applies a convolution kernel to a grayscale float image.
// Border pixels are handled by replicating edge values. Returns float values
// without clamping.
func ConvolveGrayFloat(img [][]float64, kernel *Kernel) [][]float64 {
	height := len(img)
	if height == 0 {
		return nil
	}
	width := len(img[0])

	dst := make([][]float64, height)
	for y := 0; y < height; y++ {
		dst[y] = make([]float64, width)
	}

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64

			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)

					sum += img[sy][sx] * kernel.Values[ky][kx]
				}
			}

			dst[y][x] = sum
		}
	}

	return dst
}

// GaussianBlurGray blurs a grayscale image with the given standard
// deviation. A non-positive sigma returns an unmodified copy. The filter
// runs single-threaded so its output never depends on scheduling.
func GaussianBlurGray(img *GrayImage, sigma float64) *GrayImage {
	if sigma <= 0 {
		return img.Clone()
	}
	g := gift.New(gift.GaussianBlur(float32(sigma)))
	g.SetParallelization(false)

	dst := NewGrayImage(img.Width(), img.Height())
	g.Draw(dst.Gray, img.Gray)
	return dst
}

// clampInt clamps an integer to the given range.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
