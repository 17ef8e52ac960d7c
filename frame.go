package img2glyph

import (
	"image"
	"math"
	"strings"
	"time"

	"github.com/wbrown/img2glyph/imageutil"
)

// Frame is one decoded input picture. Gray is required; Color is optional
// and, when set, must have the same dimensions as Gray. Frames are never
// modified by the converter.
type Frame struct {
	Gray  *imageutil.GrayImage
	Color *imageutil.RGBAImage
}

// NewFrame pairs a grayscale image with an optional color image.
func NewFrame(gray *imageutil.GrayImage, color *imageutil.RGBAImage) *Frame {
	return &Frame{Gray: gray, Color: color}
}

// FrameFromImage decodes any image into a frame, converting to grayscale
// with the given mode and keeping the colors.
func FrameFromImage(img image.Image, mode imageutil.GrayscaleMode) *Frame {
	rgba := imageutil.RGBAImageFromImage(img)
	return &Frame{
		Gray:  imageutil.ToGrayscaleMode(rgba, mode),
		Color: rgba,
	}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.Gray.Width() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.Gray.Height() }

func (f *Frame) validate(index int) error {
	if f == nil || f.Gray == nil {
		return inputErrorf(index, "frame has no grayscale pixels")
	}
	if f.Color != nil && (f.Color.Width() != f.Width() || f.Color.Height() != f.Height()) {
		return inputErrorf(index, "color plane is %dx%d, grayscale is %dx%d",
			f.Color.Width(), f.Color.Height(), f.Width(), f.Height())
	}
	return nil
}

// Geometry is the block grid of a conversion: Cols by Rows blocks, each
// CellWidth by CellHeight pixels of the scaled frame.
type Geometry struct {
	Cols       int
	Rows       int
	CellWidth  int
	CellHeight int
}

// PixelWidth returns the width the frame is scaled to before splitting.
func (g Geometry) PixelWidth() int { return g.Cols * g.CellWidth }

// PixelHeight returns the height the frame is scaled to before splitting.
func (g Geometry) PixelHeight() int { return g.Rows * g.CellHeight }

// Blocks returns the number of blocks in the grid.
func (g Geometry) Blocks() int { return g.Cols * g.Rows }

// computeGeometry fits a width by height frame into cols columns. Rows
// follow the frame's aspect ratio corrected for the glyph cell shape,
// rounded to the nearest whole row.
func computeGeometry(width, height, cols, cellWidth, cellHeight int, index int) (Geometry, error) {
	if width < cellWidth || height < cellHeight {
		return Geometry{}, inputErrorf(index, "frame is %dx%d, smaller than one %dx%d glyph",
			width, height, cellWidth, cellHeight)
	}
	rows := int(math.Round(float64(height) * float64(cols) / float64(width) *
		float64(cellWidth) / float64(cellHeight)))
	return Geometry{
		Cols:       cols,
		Rows:       max(rows, 1),
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}, nil
}

// Cell is the selection for one block: a character and, when color
// output is enabled, the block's mean color.
type Cell struct {
	Rune     rune
	Color    imageutil.RGB
	HasColor bool
}

// ResultGrid is the converted form of one frame, stored row-major.
type ResultGrid struct {
	Cols  int
	Rows  int
	Cells []Cell

	// Edges is the frame's edge map at block-grid pixel size, set only
	// when edge data was requested.
	Edges *EdgeMap
}

// At returns the cell at column col of row row.
func (g *ResultGrid) At(col, row int) Cell {
	return g.Cells[row*g.Cols+col]
}

// Row returns the cells of one row.
func (g *ResultGrid) Row(row int) []Cell {
	return g.Cells[row*g.Cols : (row+1)*g.Cols]
}

// Lines returns the characters of each row.
func (g *ResultGrid) Lines() []string {
	lines := make([]string, g.Rows)
	var sb strings.Builder
	for row := 0; row < g.Rows; row++ {
		sb.Reset()
		for _, c := range g.Row(row) {
			sb.WriteRune(c.Rune)
		}
		lines[row] = sb.String()
	}
	return lines
}

// String returns the rows joined by newlines.
func (g *ResultGrid) String() string {
	return strings.Join(g.Lines(), "\n")
}

// Animation is the converted form of a frame sequence. Every grid shares
// the same geometry.
type Animation struct {
	Geometry Geometry
	FPS      float64
	Frames   []*ResultGrid
}

// FrameDelay returns how long each frame is shown, at least one
// nanosecond.
func (a *Animation) FrameDelay() time.Duration {
	delay := float64(time.Second) / a.FPS
	switch {
	case !(delay >= 1):
		return time.Nanosecond
	case delay >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}
