// Package fontdata turns fonts into the glyph tables the converter reads:
// it rasterizes TrueType fonts into uniform cells and stores precomputed
// tables as gzip-compressed gob files.
package fontdata

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/wbrown/img2glyph"
)

// DefaultThreshold is the coverage above which an anti-aliased pixel
// counts as ink: 25%. Anti-aliased text has many edge pixels at 25-75%
// coverage, and a 50% cut loses thin strokes such as the dot on 'i'.
const DefaultThreshold = 64

// Options controls rasterization.
type Options struct {
	// Width and Height are the cell size in pixels.
	Width  int
	Height int

	// Size is the font size in points at 72 DPI. Zero fits the font's
	// ascent plus descent to the cell height.
	Size float64

	// Threshold is the alpha above which a pixel is ink. Zero means
	// DefaultThreshold.
	Threshold uint8
}

// DefaultOptions is an 8x16 cell, a typical terminal character shape.
var DefaultOptions = Options{Width: 8, Height: 16}

// FontGlyphData is the serialized form of a glyph table.
type FontGlyphData struct {
	FontName string
	Width    int
	Height   int
	Glyphs   map[rune]img2glyph.GlyphBitmap
}

// FromTrueType rasterizes the given characters of a TrueType font.
// Characters the font has no glyph for are left out, so a glyph model
// built over them reports which ones are missing.
func FromTrueType(name string, ttf []byte, opts Options, runes []rune) (*img2glyph.FontBitmaps, error) {
	if opts.Width < 1 || opts.Height < 1 {
		return nil, fmt.Errorf("failed to rasterize %s: cell size %dx%d", name, opts.Width, opts.Height)
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}

	ttfFont, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}

	size := opts.Size
	if size == 0 {
		size = fitSize(ttfFont, opts.Height)
	}

	r := newRasterizer(ttfFont, size, opts)
	defer r.face.Close()

	fb := img2glyph.NewFontBitmaps(name, opts.Width, opts.Height)
	for _, ch := range runes {
		if ch != ' ' && ttfFont.Index(ch) == 0 {
			continue
		}
		bm, err := r.render(ch)
		if err != nil {
			return nil, fmt.Errorf("failed to rasterize %s: %w", name, err)
		}
		fb.SetGlyph(ch, bm)
	}
	return fb, nil
}

// Default rasterizes the Go Mono font.
func Default(opts Options, runes []rune) (*img2glyph.FontBitmaps, error) {
	return FromTrueType("Go Mono", gomono.TTF, opts, runes)
}

// fitSize returns the point size whose ascent plus descent fill height.
func fitSize(ttfFont *truetype.Font, height int) float64 {
	face := truetype.NewFace(ttfFont, &truetype.Options{Size: float64(height), DPI: 72})
	defer face.Close()
	m := face.Metrics()
	extent := float64(m.Ascent+m.Descent) / 64
	if extent <= 0 {
		return float64(height)
	}
	return float64(height) * float64(height) / extent
}

type rasterizer struct {
	ctx       *freetype.Context
	face      font.Face
	img       *image.Alpha
	width     int
	height    int
	baseline  int
	threshold uint8
}

func newRasterizer(ttfFont *truetype.Font, size float64, opts Options) *rasterizer {
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	// Alpha holds the anti-aliased coverage directly.
	img := image.NewAlpha(image.Rect(0, 0, opts.Width, opts.Height))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttfFont)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	// Centre the ascent+descent band vertically.
	metrics := face.Metrics()
	ascent := metrics.Ascent.Round()
	descent := metrics.Descent.Round()

	return &rasterizer{
		ctx:       ctx,
		face:      face,
		img:       img,
		width:     opts.Width,
		height:    opts.Height,
		baseline:  (opts.Height + ascent - descent) / 2,
		threshold: opts.Threshold,
	}
}

func (r *rasterizer) render(ch rune) (img2glyph.GlyphBitmap, error) {
	clear(r.img.Pix)

	x := 0
	if adv, ok := r.face.GlyphAdvance(ch); ok {
		x = (r.width - adv.Round()) / 2
	}
	pt := fixed.P(x, r.baseline)
	if _, err := r.ctx.DrawString(string(ch), pt); err != nil {
		return img2glyph.GlyphBitmap{}, fmt.Errorf("failed to draw %q: %w", ch, err)
	}

	bm := img2glyph.NewGlyphBitmap(r.width, r.height)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if r.img.AlphaAt(x, y).A > r.threshold {
				bm.Set(x, y, 255)
			}
		}
	}
	return bm, nil
}

// Encode writes a glyph table as gzip-compressed gob.
func Encode(w io.Writer, fb *img2glyph.FontBitmaps) error {
	data := FontGlyphData{
		FontName: fb.Name,
		Width:    fb.Width,
		Height:   fb.Height,
		Glyphs:   make(map[rune]img2glyph.GlyphBitmap, fb.Len()),
	}
	for _, r := range fb.Runes() {
		data.Glyphs[r], _ = fb.GetGlyph(r)
	}

	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(&data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode glyph data: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to close gzip: %w", err)
	}
	return nil
}

// Decode reads a glyph table written by Encode.
func Decode(r io.Reader) (*img2glyph.FontBitmaps, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	var data FontGlyphData
	if err := gob.NewDecoder(gr).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode glyph data: %w", err)
	}

	fb := img2glyph.NewFontBitmaps(data.FontName, data.Width, data.Height)
	for r, bm := range data.Glyphs {
		fb.SetGlyph(r, bm)
	}
	return fb, nil
}

// Load reads a font from disk. ".glyphs" files are decoded as glyph
// tables; ".ttf" and ".otf" files are rasterized with opts.
func Load(path string, opts Options, runes []rune) (*img2glyph.FontBitmaps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glyphs":
		return Decode(bytes.NewReader(data))
	case ".ttf", ".otf":
		return FromTrueType(filepath.Base(path), data, opts, runes)
	default:
		return nil, fmt.Errorf("failed to load font %s: unsupported format %q", path, ext)
	}
}
