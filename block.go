package img2glyph

import (
	"github.com/wbrown/img2glyph/imageutil"
)

// frameState is everything the blocks of one frame read. It is built once
// per frame and only read while the frame's blocks are converted.
type frameState struct {
	index  int
	geo    Geometry
	luma   []float64 // scaled grayscale in [0, 1], row-major
	edges  *EdgeMap  // scaled to the same size as luma, or nil
	color  *imageutil.RGBAImage
	offset float64 // brightness offset in [0, 1] units
}

// block is the pixel data of one cell, ready for scoring.
type block struct {
	values []float64
	sum    float64
	mean   float64
	orient orientation
	edge   float64
}

func (fs *frameState) origin(row, col int) (int, int) {
	return col * fs.geo.CellWidth, row * fs.geo.CellHeight
}

// lumaBlock extracts a block of offset-adjusted intensities.
func (fs *frameState) lumaBlock(row, col int) *block {
	w, h := fs.geo.CellWidth, fs.geo.CellHeight
	stride := fs.geo.PixelWidth()
	x0, y0 := fs.origin(row, col)

	b := &block{values: make([]float64, 0, w*h)}
	for y := y0; y < y0+h; y++ {
		for _, v := range fs.luma[y*stride+x0 : y*stride+x0+w] {
			b.values = append(b.values, clamp01(v-fs.offset))
		}
	}
	b.finish()
	if fs.edges != nil {
		mag, _ := fs.edges.region(x0, y0, w, h)
		b.edge = mean(mag)
	}
	return b
}

// augmentedBlock blends intensities with edge magnitudes before the
// brightness offset is applied. The frame must carry an edge map.
func (fs *frameState) augmentedBlock(row, col int, s EdgeAugmented) *block {
	w, h := fs.geo.CellWidth, fs.geo.CellHeight
	stride := fs.geo.PixelWidth()
	x0, y0 := fs.origin(row, col)
	mag, _ := fs.edges.region(x0, y0, w, h)

	b := &block{values: make([]float64, 0, w*h), edge: mean(mag)}
	i := 0
	for y := y0; y < y0+h; y++ {
		for _, v := range fs.luma[y*stride+x0 : y*stride+x0+w] {
			blend := s.IntensityWeight*v + s.EdgeWeight*mag[i]
			b.values = append(b.values, clamp01(blend-fs.offset))
			i++
		}
	}
	b.finish()
	return b
}

// orientFromEdges takes the block's orientation from the frame edge map.
func (fs *frameState) orientFromEdges(b *block, row, col int, vecs [][2]float64) {
	x0, y0 := fs.origin(row, col)
	mag, dir := fs.edges.region(x0, y0, fs.geo.CellWidth, fs.geo.CellHeight)
	b.orient = orientationOf(mag, dir, vecs)
}

// orientFromPixels computes the block's orientation from its own values,
// the same way glyph orientations are computed.
func (fs *frameState) orientFromPixels(b *block, vecs [][2]float64) {
	mag, dir := gradientField(b.values, fs.geo.CellWidth, fs.geo.CellHeight, len(vecs))
	b.orient = orientationOf(mag, dir, vecs)
}

// meanColor averages the block's pixels in the scaled color plane.
func (fs *frameState) meanColor(row, col int) imageutil.RGB {
	x0, y0 := fs.origin(row, col)
	return imageutil.MeanRGB(fs.color, x0, y0, x0+fs.geo.CellWidth, y0+fs.geo.CellHeight)
}

func (b *block) finish() {
	for _, v := range b.values {
		b.sum += v
	}
	b.mean = b.sum / float64(len(b.values))
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
