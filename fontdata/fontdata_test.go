package fontdata

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/freetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func ink(pix []uint8) int {
	n := 0
	for _, v := range pix {
		if v > 0 {
			n++
		}
	}
	return n
}

func TestDefaultFont(t *testing.T) {
	fb, err := Default(DefaultOptions, []rune(" A|.\uE000"))
	require.NoError(t, err)

	assert.Equal(t, "Go Mono", fb.Name)
	assert.Equal(t, 8, fb.Width)
	assert.Equal(t, 16, fb.Height)

	space, ok := fb.GetGlyph(' ')
	require.True(t, ok)
	assert.Zero(t, ink(space.Pix))

	a, ok := fb.GetGlyph('A')
	require.True(t, ok)
	assert.Equal(t, 8, a.Width)
	assert.Equal(t, 16, a.Height)
	assert.Greater(t, ink(a.Pix), 10)

	dot, _ := fb.GetGlyph('.')
	assert.Less(t, ink(dot.Pix), ink(a.Pix))

	// Binary coverage after thresholding.
	for _, v := range a.Pix {
		assert.Contains(t, []uint8{0, 255}, v)
	}

	// Private use area characters have no glyph.
	_, ok = fb.GetGlyph('\uE000')
	assert.False(t, ok)
}

func TestThresholdControlsInk(t *testing.T) {
	loose, err := Default(Options{Width: 8, Height: 16, Threshold: 1}, []rune("o"))
	require.NoError(t, err)
	strict, err := Default(Options{Width: 8, Height: 16, Threshold: 200}, []rune("o"))
	require.NoError(t, err)

	lo, _ := loose.GetGlyph('o')
	st, _ := strict.GetGlyph('o')
	assert.Greater(t, ink(lo.Pix), ink(st.Pix))
}

func TestFromTrueTypeErrors(t *testing.T) {
	_, err := FromTrueType("bad", []byte("not a font"), DefaultOptions, []rune("a"))
	assert.Error(t, err)

	_, err = FromTrueType("Go Mono", gomono.TTF, Options{}, []rune("a"))
	assert.Error(t, err)
}

func TestRenderDrawError(t *testing.T) {
	ttfFont, err := freetype.ParseFont(gomono.TTF)
	require.NoError(t, err)

	r := newRasterizer(ttfFont, 16, DefaultOptions)
	defer r.face.Close()

	bm, err := r.render('a')
	require.NoError(t, err)
	assert.Greater(t, ink(bm.Pix), 0)

	// A context without a font cannot draw.
	r.ctx.SetFont(nil)
	_, err = r.render('a')
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to draw 'a'`)
}

func TestEncodeDecode(t *testing.T) {
	fb, err := Default(Options{Width: 6, Height: 12}, []rune(" #@xy"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fb))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, fb.Name, decoded.Name)
	assert.Equal(t, 6, decoded.Width)
	assert.Equal(t, 12, decoded.Height)
	assert.Equal(t, fb.Runes(), decoded.Runes())
	for _, r := range fb.Runes() {
		want, _ := fb.GetGlyph(r)
		got, _ := decoded.GetGlyph(r)
		assert.Equal(t, want, got, "glyph %q", r)
	}

	_, err = Decode(bytes.NewReader([]byte("garbage")))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	fb, err := Default(DefaultOptions, []rune("ab"))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fb))
	glyphsPath := filepath.Join(dir, "mono.glyphs")
	require.NoError(t, os.WriteFile(glyphsPath, buf.Bytes(), 0o644))

	loaded, err := Load(glyphsPath, DefaultOptions, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())

	ttfPath := filepath.Join(dir, "GoMono.ttf")
	require.NoError(t, os.WriteFile(ttfPath, gomono.TTF, 0o644))
	loaded, err = Load(ttfPath, DefaultOptions, []rune("xyz"))
	require.NoError(t, err)
	assert.Equal(t, "GoMono.ttf", loaded.Name)
	assert.Equal(t, 3, loaded.Len())

	bdfPath := filepath.Join(dir, "font.bdf")
	require.NoError(t, os.WriteFile(bdfPath, []byte("STARTFONT"), 0o644))
	_, err = Load(bdfPath, DefaultOptions, nil)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.ttf"), DefaultOptions, nil)
	assert.Error(t, err)
}
