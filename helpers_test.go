package img2glyph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2glyph/imageutil"
)

// testFont is a 4x4 font with a blank, a full block and four strokes.
func testFont(t *testing.T) *FontBitmaps {
	t.Helper()
	fb := NewFontBitmaps("test", 4, 4)
	glyphs := map[rune][]string{
		' ':  {"....", "....", "....", "...."},
		'#':  {"####", "####", "####", "####"},
		'-':  {"....", "####", "####", "...."},
		'|':  {".##.", ".##.", ".##.", ".##."},
		'/':  {"...#", "..#.", ".#..", "#..."},
		'\\': {"#...", ".#..", "..#.", "...#"},
	}
	for r, rows := range glyphs {
		bm, err := ParseGlyphBitmap(rows...)
		require.NoError(t, err)
		fb.SetGlyph(r, bm)
	}
	return fb
}

func testModel(t *testing.T, alphabet string, opts ...GlyphOption) *GlyphModel {
	t.Helper()
	m, err := BuildGlyphModel(testFont(t), []rune(alphabet), opts...)
	require.NoError(t, err)
	return m
}

func solidFrame(width, height int, v uint8) *Frame {
	gray := imageutil.NewGrayImage(width, height)
	for i := range gray.Pix {
		gray.Pix[i] = v
	}
	return NewFrame(gray, nil)
}

// squareFrame is black with a white square covering the middle half.
func squareFrame(size int) *Frame {
	gray := imageutil.NewGrayImage(size, size)
	for y := size / 4; y < 3*size/4; y++ {
		for x := size / 4; x < 3*size/4; x++ {
			gray.SetGrayValue(x, y, 255)
		}
	}
	return NewFrame(gray, nil)
}

func testBlock(values ...float64) *block {
	b := &block{values: values}
	b.finish()
	return b
}

func testGlyph(values ...float64) *Glyph {
	g := &Glyph{values: values}
	for _, v := range values {
		g.sum += v
	}
	g.mean = g.sum / float64(len(values))
	return g
}
