package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2glyph/fontdata"
)

func TestCharacters(t *testing.T) {
	runes, err := characters(Options{Alphabet: "minimal", Blocks: true})
	require.NoError(t, err)
	// The block set starts with a space the alphabet already has.
	assert.Len(t, runes, 10+len(blockChars)-1)
	assert.Equal(t, ' ', runes[0])
	assert.Equal(t, '▀', runes[10])
}

func TestComputeGlyphs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mono.glyphs")
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	opts := Options{Output: out, Alphabet: "lowercase", Box: true, Width: 8, Height: 16, Threshold: 64}
	require.NoError(t, computeGlyphs(opts, logger))

	fb, err := fontdata.Load(out, fontdata.DefaultOptions, nil)
	require.NoError(t, err)
	assert.Equal(t, "Go Mono", fb.Name)
	_, ok := fb.GetGlyph('q')
	assert.True(t, ok)
	assert.Contains(t, logs.String(), "saved glyph data")
	assert.Contains(t, logs.String(), "suggested_name=go_mono.glyphs")
}

func TestComputeGlyphsMissingFont(t *testing.T) {
	dir := t.TempDir()
	opts := Options{Font: filepath.Join(dir, "none.ttf"), Output: filepath.Join(dir, "x.glyphs"), Alphabet: "minimal", Width: 8, Height: 16}
	err := computeGlyphs(opts, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	assert.Error(t, err)
}
