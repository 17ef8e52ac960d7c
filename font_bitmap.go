package img2glyph

import (
	"fmt"
	"slices"
)

// GlyphBitmap is the rasterized cell of one character. Pix holds one ink
// coverage value per pixel, row-major: 0 is background, 255 is full ink.
// Fonts rasterized with a coverage threshold only ever hold 0 or 255.
type GlyphBitmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGlyphBitmap creates an empty (all background) bitmap.
func NewGlyphBitmap(width, height int) GlyphBitmap {
	return GlyphBitmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// ParseGlyphBitmap builds a bitmap from rows of text, where any character
// other than '.' or ' ' is ink. All rows must have the same length.
func ParseGlyphBitmap(rows ...string) (GlyphBitmap, error) {
	if len(rows) == 0 {
		return GlyphBitmap{}, fmt.Errorf("failed to parse glyph: no rows")
	}
	width := len(rows[0])
	bm := NewGlyphBitmap(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return GlyphBitmap{}, fmt.Errorf("failed to parse glyph: row %d has width %d, want %d", y, len(row), width)
		}
		for x := 0; x < width; x++ {
			if row[x] != '.' && row[x] != ' ' {
				bm.Set(x, y, 255)
			}
		}
	}
	return bm, nil
}

// At returns the coverage at (x, y). Out of bounds pixels are background.
func (g GlyphBitmap) At(x, y int) uint8 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0
	}
	return g.Pix[y*g.Width+x]
}

// Set sets the coverage at (x, y). Out of bounds writes are ignored.
func (g GlyphBitmap) Set(x, y int, v uint8) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	g.Pix[y*g.Width+x] = v
}

// FontBitmaps holds pre-rendered character bitmaps for a font. Every
// bitmap is expected to have the font's cell dimensions; BuildGlyphModel
// enforces this for the characters it uses.
type FontBitmaps struct {
	Name   string
	Width  int
	Height int
	glyphs map[rune]GlyphBitmap
}

// NewFontBitmaps creates an empty font with the given cell size.
func NewFontBitmaps(name string, width, height int) *FontBitmaps {
	return &FontBitmaps{
		Name:   name,
		Width:  width,
		Height: height,
		glyphs: make(map[rune]GlyphBitmap),
	}
}

// SetGlyph adds or replaces the bitmap for a character.
func (fb *FontBitmaps) SetGlyph(r rune, bitmap GlyphBitmap) {
	fb.glyphs[r] = bitmap
}

// GetGlyph returns the bitmap for a character.
func (fb *FontBitmaps) GetGlyph(r rune) (GlyphBitmap, bool) {
	bitmap, exists := fb.glyphs[r]
	return bitmap, exists
}

// Len returns the number of characters in the font.
func (fb *FontBitmaps) Len() int {
	return len(fb.glyphs)
}

// Runes returns every character in the font in code point order.
func (fb *FontBitmaps) Runes() []rune {
	runes := make([]rune, 0, len(fb.glyphs))
	for r := range fb.glyphs {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return runes
}
