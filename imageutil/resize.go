package imageutil

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest, and keeps hard glyph-sized edges intact.
	InterpolationNearest Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea

	// InterpolationLanczos uses a Lanczos-3 kernel.
	InterpolationLanczos
)

// String returns the configuration name of the interpolation.
func (i Interpolation) String() string {
	switch i {
	case InterpolationNearest:
		return "nearest"
	case InterpolationLinear:
		return "linear"
	case InterpolationArea:
		return "area"
	case InterpolationLanczos:
		return "lanczos"
	}
	return "unknown"
}

// ParseInterpolation maps a configuration name onto an Interpolation.
func ParseInterpolation(name string) (Interpolation, bool) {
	for _, i := range []Interpolation{
		InterpolationNearest, InterpolationLinear,
		InterpolationArea, InterpolationLanczos,
	} {
		if i.String() == name {
			return i, true
		}
	}
	return InterpolationNearest, false
}

func scalerFor(interp Interpolation) draw.Scaler {
	switch interp {
	case InterpolationArea:
		// CatmullRom provides high quality for both up and down scaling
		return draw.CatmullRom
	case InterpolationLinear:
		return draw.BiLinear
	default:
		return draw.NearestNeighbor
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	if interp == InterpolationLanczos {
		out := resize.Resize(uint(width), uint(height), img.RGBA, resize.Lanczos3)
		return RGBAImageFromImage(out)
	}

	dst := NewRGBAImage(width, height)
	dstRect := image.Rect(0, 0, width, height)
	scalerFor(interp).Scale(dst.RGBA, dstRect, img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeGray resizes a grayscale image to the specified dimensions.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	if interp == InterpolationLanczos {
		out := resize.Resize(uint(width), uint(height), img.Gray, resize.Lanczos3)
		return GrayImageFromImage(out)
	}

	dst := NewGrayImage(width, height)
	dstRect := image.Rect(0, 0, width, height)
	scalerFor(interp).Scale(dst.Gray, dstRect, img.Gray, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeFloat resizes a row-major plane of values in [0, 1]. Values are
// carried at 16-bit precision through the scaler and clamped to [0, 1].
func ResizeFloat(values []float64, width, height, newWidth, newHeight int, interp Interpolation) []float64 {
	src := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := values[y*width+x]
			src.SetGray16(x, y, color.Gray16{Y: clampUint16(v * 0xffff)})
		}
	}

	var scaled image.Image
	if interp == InterpolationLanczos {
		scaled = resize.Resize(uint(newWidth), uint(newHeight), src, resize.Lanczos3)
	} else {
		dst := image.NewGray16(image.Rect(0, 0, newWidth, newHeight))
		scalerFor(interp).Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		scaled = dst
	}

	out := make([]float64, newWidth*newHeight)
	bounds := scaled.Bounds()
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			c := color.Gray16Model.Convert(scaled.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			out[y*newWidth+x] = float64(c.Y) / 0xffff
		}
	}
	return out
}

// ResizeIndex resizes a row-major plane of small integer labels with
// nearest-neighbor sampling, so no label is ever blended into another.
func ResizeIndex(labels []uint8, width, height, newWidth, newHeight int) []uint8 {
	src := GrayImageFromPix(width, height, labels)
	dst := ResizeGray(src, newWidth, newHeight, InterpolationNearest)
	return dst.Pix
}

func clampUint16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v + 0.5)
}
