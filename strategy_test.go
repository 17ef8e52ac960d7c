package img2glyph

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2glyph/imageutil"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"base", Base{}},
		{"edge", Edge{}},
		{"edge-augmented", EdgeAugmented{IntensityWeight: 0.25, EdgeWeight: 1}},
		{"two-pass", TwoPass{}},
		{"TwoPass", TwoPass{}},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseStrategy("three-pass")
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	for _, name := range StrategyNames() {
		s, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}
}

func TestValidateStrategy(t *testing.T) {
	assert.NoError(t, validateStrategy(EdgeAugmented{IntensityWeight: 0, EdgeWeight: 1}))
	assert.Error(t, validateStrategy(EdgeAugmented{}))
	assert.Error(t, validateStrategy(EdgeAugmented{IntensityWeight: -1, EdgeWeight: 1}))
	assert.Error(t, validateStrategy(nil))
}

func TestMidGrayResolvesToClosestDensity(t *testing.T) {
	model := testModel(t, " #")
	grid, err := ConvertFrame(solidFrame(16, 16, 128), model,
		WithMetric(Intensity{}),
		WithBrightnessOffset(0),
		WithOutputWidth(8),
	)
	require.NoError(t, err)

	assert.Equal(t, 8, grid.Cols)
	assert.Equal(t, 8, grid.Rows)
	// 128/255 is just above one half, so full ink is closer.
	for i, c := range grid.Cells {
		assert.Equal(t, '#', c.Rune, "cell %d", i)
	}
}

func TestBrightnessOffsetFavoursLighterGlyphs(t *testing.T) {
	model := testModel(t, " #")
	grid, err := ConvertFrame(solidFrame(16, 16, 128), model,
		WithBrightnessOffset(10), WithOutputWidth(4))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat(" ", 4), grid.Lines()[0])
}

func TestTiesKeepAlphabetOrder(t *testing.T) {
	// '-' and '|' have the same density.
	for _, alphabet := range []string{"-|", "|-"} {
		model := testModel(t, alphabet)
		grid, err := ConvertFrame(solidFrame(8, 8, 128), model, WithOutputWidth(2))
		require.NoError(t, err)
		for _, c := range grid.Cells {
			assert.Equal(t, rune(alphabet[0]), c.Rune)
		}
	}
}

func TestEdgeStrategyFollowsStrokes(t *testing.T) {
	model := testModel(t, " -|")

	// Tiles of the '|' glyph, then tiles of '-', then black.
	vertical, _ := model.Glyph('|')
	horizontal, _ := model.Glyph('-')
	gray := imageutil.NewGrayImage(48, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			src := vertical.Bitmap
			if x >= 16 {
				src = horizontal.Bitmap
			}
			gray.SetGrayValue(x, y, src.At(x%4, y%4))
		}
	}

	grid, err := ConvertFrame(NewFrame(gray, nil), model,
		WithStrategy(Edge{}), WithEdgeBlur(0), WithOutputWidth(12))
	require.NoError(t, err)
	require.Equal(t, 4, grid.Rows)

	assert.Equal(t, '|', grid.At(1, 1).Rune)
	assert.Equal(t, '-', grid.At(6, 1).Rune)
	// Flat regions have no orientation, like the blank glyph.
	assert.Equal(t, ' ', grid.At(10, 1).Rune)
}

func TestTwoPassMatchesEdgeOrBase(t *testing.T) {
	model := testModel(t, " #-|/\\")
	frame := squareFrame(64)

	for _, metric := range []Metric{Intensity{}, Jaccard{}, Grad{DirectionWeight: 0.5}} {
		common := []Option{WithEdgeBlur(0), WithOutputWidth(16), WithMetric(metric), WithNoise(0.01, 7)}

		convert := func(s Strategy) (*Converter, *ResultGrid) {
			c, err := NewConverter(model, append(common, WithStrategy(s))...)
			require.NoError(t, err)
			grid, err := c.ConvertFrame(frame)
			require.NoError(t, err)
			return c, grid
		}
		twoPassConv, twoPass := convert(TwoPass{})
		_, edge := convert(Edge{})
		_, base := convert(Base{})

		fs := twoPassConv.prepare(frame, 0, Geometry{Cols: 16, Rows: 16, CellWidth: 4, CellHeight: 4})
		var onEdge, offEdge int
		for row := 0; row < twoPass.Rows; row++ {
			for col := 0; col < twoPass.Cols; col++ {
				if fs.lumaBlock(row, col).edge > TwoPassEdgeThreshold {
					onEdge++
					assert.Equal(t, edge.At(col, row), twoPass.At(col, row), "%s: edge block (%d, %d)", metric.Name(), col, row)
				} else {
					offEdge++
					assert.Equal(t, base.At(col, row), twoPass.At(col, row), "%s: base block (%d, %d)", metric.Name(), col, row)
				}
			}
		}
		assert.Positive(t, onEdge)
		assert.Positive(t, offEdge)
	}
}

func TestEdgeAugmentedBrightensEdges(t *testing.T) {
	// '/' inks a quarter of its cell, as much as one edge column covers.
	model := testModel(t, " /#")
	frame := squareFrame(64)

	grid, err := ConvertFrame(frame, model,
		WithStrategy(EdgeAugmented{IntensityWeight: 0, EdgeWeight: 2}),
		WithEdgeBlur(0), WithOutputWidth(16))
	require.NoError(t, err)

	// Only blocks on the square's outline carry any brightness.
	assert.Equal(t, ' ', grid.At(0, 0).Rune)
	assert.Equal(t, ' ', grid.At(8, 8).Rune)
	assert.Equal(t, '/', grid.At(3, 8).Rune)
}
