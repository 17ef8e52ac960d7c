package img2glyph

// Glyph is one alphabet character together with the values the metrics
// compare blocks against. Values are ink coverage in [0, 1], row-major.
type Glyph struct {
	Rune   rune
	Index  int
	Bitmap GlyphBitmap

	values []float64
	sum    float64
	mean   float64
	orient orientation
}

// Values returns a copy of the glyph's normalized ink coverage.
func (g *Glyph) Values() []float64 {
	return append([]float64(nil), g.values...)
}

// Density returns the mean ink coverage of the glyph.
func (g *Glyph) Density() float64 {
	return g.mean
}

// GlyphModel is the immutable, validated alphabet a conversion selects
// from. It is safe for concurrent use.
type GlyphModel struct {
	fontName   string
	width      int
	height     int
	directions int
	glyphs     *OrderedMap[rune, *Glyph]
	ordered    []*Glyph
	binVecs    [][2]float64
}

type glyphConfig struct {
	invert bool
}

// GlyphOption configures BuildGlyphModel.
type GlyphOption func(*glyphConfig)

// WithInvert swaps ink and background, for dark text on a light surface.
func WithInvert() GlyphOption {
	return func(c *glyphConfig) {
		c.invert = true
	}
}

// BuildGlyphModel validates an alphabet against a font and precomputes
// everything the metrics need per glyph. It fails with a
// *ConfigurationError if the alphabet is empty, repeats a character,
// references a character the font lacks, or a glyph does not have the
// font's cell dimensions.
func BuildGlyphModel(font *FontBitmaps, alphabet []rune, opts ...GlyphOption) (*GlyphModel, error) {
	var cfg glyphConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if font == nil {
		return nil, configErrorf("font", "no font")
	}
	if font.Width < 1 || font.Height < 1 {
		return nil, configErrorf("font", "cell size %dx%d", font.Width, font.Height)
	}
	if len(alphabet) == 0 {
		return nil, configErrorf("alphabet", "empty")
	}

	m := &GlyphModel{
		fontName: font.Name,
		width:    font.Width,
		height:   font.Height,
		glyphs:   NewOrderedMap[rune, *Glyph](),
		ordered:  make([]*Glyph, 0, len(alphabet)),
	}
	n := float64(m.width * m.height)

	for i, r := range alphabet {
		if m.glyphs.Has(r) {
			return nil, configErrorf("alphabet", "character %q appears more than once", r)
		}
		bitmap, ok := font.GetGlyph(r)
		if !ok {
			return nil, configErrorf("alphabet", "character %q has no glyph in font %q", r, font.Name)
		}
		if bitmap.Width != m.width || bitmap.Height != m.height || len(bitmap.Pix) != m.width*m.height {
			return nil, configErrorf("font", "glyph %q is %dx%d, want %dx%d",
				r, bitmap.Width, bitmap.Height, m.width, m.height)
		}

		g := &Glyph{
			Rune:   r,
			Index:  i,
			Bitmap: NewGlyphBitmap(m.width, m.height),
			values: make([]float64, len(bitmap.Pix)),
		}
		for p, v := range bitmap.Pix {
			if cfg.invert {
				v = 255 - v
			}
			g.Bitmap.Pix[p] = v
			g.values[p] = float64(v) / 255
			g.sum += g.values[p]
		}
		g.mean = g.sum / n

		m.glyphs.Set(r, g)
		m.ordered = append(m.ordered, g)
	}

	m.directions = 4
	for _, g := range m.ordered {
		mag, dir := gradientField(g.values, m.width, m.height, 8)
		if b := dominantBin(mag, dir, 8); b >= 0 && b%2 == 1 {
			// An intermediate angle that four bins cannot tell apart.
			m.directions = 8
			break
		}
	}

	m.binVecs = binVectors(m.directions)
	for _, g := range m.ordered {
		mag, dir := gradientField(g.values, m.width, m.height, m.directions)
		g.orient = orientationOf(mag, dir, m.binVecs)
	}

	return m, nil
}

// Width returns the glyph cell width in pixels.
func (m *GlyphModel) Width() int { return m.width }

// Height returns the glyph cell height in pixels.
func (m *GlyphModel) Height() int { return m.height }

// Len returns the alphabet size.
func (m *GlyphModel) Len() int { return len(m.ordered) }

// FontName returns the name of the font the model was built from.
func (m *GlyphModel) FontName() string { return m.fontName }

// Directions returns how many stroke directions the glyph set
// distinguishes, 4 or 8. Edge maps are quantized to this many bins.
func (m *GlyphModel) Directions() int { return m.directions }

// Runes returns the alphabet in its original order.
func (m *GlyphModel) Runes() []rune {
	return m.glyphs.Keys()
}

// Glyph looks up the glyph for a character.
func (m *GlyphModel) Glyph(r rune) (*Glyph, bool) {
	return m.glyphs.Get(r)
}
