package render

import (
	"fmt"
	"image"

	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/imageutil"
)

// white is the ink color of cells without color.
var white = imageutil.RGB{R: 255, G: 255, B: 255}

// Image draws the grid with the model's glyph bitmaps on a black
// background. Ink is tinted with the cell's color, or white when the cell
// has none. Every glyph pixel becomes a scale x scale square.
func Image(grid *img2glyph.ResultGrid, model *img2glyph.GlyphModel, scale int) (*imageutil.RGBAImage, error) {
	if scale < 1 {
		return nil, fmt.Errorf("failed to render image: scale %d", scale)
	}
	cw, ch := model.Width(), model.Height()
	img := imageutil.NewRGBAImage(grid.Cols*cw*scale, grid.Rows*ch*scale)

	values := make(map[rune][]float64, model.Len())
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			cell := grid.At(col, row)
			v, ok := values[cell.Rune]
			if !ok {
				g, found := model.Glyph(cell.Rune)
				if !found {
					return nil, fmt.Errorf("failed to render image: %q is not in the glyph model", cell.Rune)
				}
				v = g.Values()
				values[cell.Rune] = v
			}

			ink := white
			if cell.HasColor {
				ink = cell.Color
			}
			renderGlyph(img, col*cw*scale, row*ch*scale, cw, ch, v, ink, scale)
		}
	}
	return img, nil
}

// Frames renders every grid of an animation.
func Frames(anim *img2glyph.Animation, model *img2glyph.GlyphModel, scale int) ([]image.Image, error) {
	frames := make([]image.Image, len(anim.Frames))
	for i, grid := range anim.Frames {
		img, err := Image(grid, model, scale)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames[i] = img.RGBA
	}
	return frames, nil
}

// renderGlyph draws one glyph with its top left corner at (x, y).
func renderGlyph(img *imageutil.RGBAImage, x, y, w, h int, values []float64, ink imageutil.RGB, scale int) {
	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			v := values[gy*w+gx]
			c := imageutil.RGB{
				R: uint8(float64(ink.R)*v + 0.5),
				G: uint8(float64(ink.G)*v + 0.5),
				B: uint8(float64(ink.B)*v + 0.5),
			}
			fillRect(img, x+gx*scale, y+gy*scale, scale, scale, c)
		}
	}
}

func fillRect(img *imageutil.RGBAImage, x, y, w, h int, c imageutil.RGB) {
	rgba := c.ToColor()
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.SetRGBA(x+dx, y+dy, rgba)
		}
	}
}
