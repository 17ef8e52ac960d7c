package img2glyph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/fontdata"
	"github.com/wbrown/img2glyph/imageutil"
)

func printableASCII() []rune {
	var runes []rune
	for r := rune(32); r <= 126; r++ {
		runes = append(runes, r)
	}
	return runes
}

// TestConvertWithRealFont converts synthetic images with Go Mono glyphs.
func TestConvertWithRealFont(t *testing.T) {
	font, err := fontdata.Default(fontdata.DefaultOptions, printableASCII())
	require.NoError(t, err)

	model, err := img2glyph.BuildGlyphModel(font, printableASCII())
	require.NoError(t, err)
	assert.Equal(t, 95, model.Len())
	assert.Contains(t, []int{4, 8}, model.Directions())

	rgba := imageutil.CreateEdgeImage(320, 320)
	frame := img2glyph.FrameFromImage(rgba, imageutil.GrayscaleBT601)

	for _, name := range img2glyph.StrategyNames() {
		strategy, err := img2glyph.ParseStrategy(name)
		require.NoError(t, err)

		grid, err := img2glyph.ConvertFrame(frame, model,
			img2glyph.WithStrategy(strategy),
			img2glyph.WithMetric(img2glyph.Grad{DirectionWeight: 0.5}),
			img2glyph.WithOutputWidth(40),
			img2glyph.WithWorkers(4))
		require.NoError(t, err, name)

		// 320x320 at 40 columns of 8x16 cells is 20 rows.
		assert.Equal(t, 40, grid.Cols)
		assert.Equal(t, 20, grid.Rows)
		lines := grid.Lines()
		require.Len(t, lines, 20)
		for _, line := range lines {
			assert.Equal(t, 40, len([]rune(line)))
		}
	}
}

func TestRealFontMissingCharacter(t *testing.T) {
	font, err := fontdata.Default(fontdata.DefaultOptions, printableASCII())
	require.NoError(t, err)

	_, err = img2glyph.BuildGlyphModel(font, []rune("ab☃"))
	var cfgErr *img2glyph.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, strings.Contains(err.Error(), "☃"))
}

func TestDarkOnLightInvertsSelection(t *testing.T) {
	font, err := fontdata.Default(fontdata.DefaultOptions, []rune(" @"))
	require.NoError(t, err)

	white := imageutil.CreateSolidImage(32, 64, imageutil.RGB{R: 255, G: 255, B: 255})
	frame := img2glyph.FrameFromImage(white, imageutil.GrayscaleBT601)

	normal, err := img2glyph.BuildGlyphModel(font, []rune(" @"))
	require.NoError(t, err)
	inverted, err := img2glyph.BuildGlyphModel(font, []rune(" @"), img2glyph.WithInvert())
	require.NoError(t, err)

	grid, err := img2glyph.ConvertFrame(frame, normal, img2glyph.WithOutputWidth(4))
	require.NoError(t, err)
	assert.Equal(t, "@@@@", grid.Lines()[0])

	grid, err = img2glyph.ConvertFrame(frame, inverted, img2glyph.WithOutputWidth(4))
	require.NoError(t, err)
	assert.Equal(t, "    ", grid.Lines()[0])
}
