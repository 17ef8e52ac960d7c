package img2glyph

import (
	"fmt"
	"math"
	"strings"
)

// TwoPassEdgeThreshold is the mean normalized edge magnitude above which
// the two-pass strategy treats a block as lying on an edge.
const TwoPassEdgeThreshold = 0.1

// Default blend weights of EdgeAugmented as returned by ParseStrategy.
const (
	DefaultIntensityWeight = 0.25
	DefaultEdgeWeight      = 1.0
)

// Strategy decides how blocks are turned into characters. The set of
// strategies is closed; use one of the types below.
type Strategy interface {
	Name() string
	usesEdges() bool
	isStrategy()
}

// Base scores every block's intensities with the configured metric.
type Base struct{}

// Edge scores every block's edge orientation with the Direction metric.
type Edge struct{}

// EdgeAugmented adds weighted edge magnitudes to block intensities, then
// scores with the configured metric.
type EdgeAugmented struct {
	IntensityWeight float64
	EdgeWeight      float64
}

// TwoPass uses the Edge result for blocks whose mean edge magnitude
// exceeds TwoPassEdgeThreshold and the Base result for all others.
type TwoPass struct{}

func (Base) Name() string          { return "base" }
func (Edge) Name() string          { return "edge" }
func (EdgeAugmented) Name() string { return "edge-augmented" }
func (TwoPass) Name() string       { return "two-pass" }

func (Base) usesEdges() bool          { return false }
func (Edge) usesEdges() bool          { return true }
func (EdgeAugmented) usesEdges() bool { return true }
func (TwoPass) usesEdges() bool       { return true }

func (Base) isStrategy()          {}
func (Edge) isStrategy()          {}
func (EdgeAugmented) isStrategy() {}
func (TwoPass) isStrategy()       {}

// ParseStrategy maps a strategy name onto its variant.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "base":
		return Base{}, nil
	case "edge":
		return Edge{}, nil
	case "edge-augmented", "edge_augmented":
		return EdgeAugmented{
			IntensityWeight: DefaultIntensityWeight,
			EdgeWeight:      DefaultEdgeWeight,
		}, nil
	case "two-pass", "two_pass", "twopass":
		return TwoPass{}, nil
	}
	return nil, configErrorf("strategy", "unknown strategy %q", name)
}

// StrategyNames lists the canonical strategy names.
func StrategyNames() []string {
	return []string{"base", "edge", "edge-augmented", "two-pass"}
}

func validateStrategy(s Strategy) error {
	switch s := s.(type) {
	case nil:
		return configErrorf("strategy", "no strategy")
	case EdgeAugmented:
		if !(s.IntensityWeight >= 0) || !(s.EdgeWeight >= 0) ||
			math.IsInf(s.IntensityWeight, 0) || math.IsInf(s.EdgeWeight, 0) {
			return configErrorf("strategy", "edge-augmented weights must be finite and non-negative")
		}
		if s.IntensityWeight == 0 && s.EdgeWeight == 0 {
			return configErrorf("strategy", "edge-augmented weights are both zero")
		}
	}
	return nil
}

// convertBlock runs the configured strategy for one block. It reads only
// the frame state and the glyph model, so blocks may be converted in any
// order and on any goroutine.
func (c *Converter) convertBlock(fs *frameState, row, col int) (Cell, error) {
	index := row*fs.geo.Cols + col
	noise := newNoiseSource(c.noiseScale, c.noiseSeed, fs.index, index)
	vecs := c.model.binVecs

	var (
		r   rune
		err error
	)
	switch s := c.strategy.(type) {
	case Base:
		b := fs.lumaBlock(row, col)
		if needsOrientation(c.metric) {
			fs.orientFromPixels(b, vecs)
		}
		r, err = c.match(b, c.metric, noise)

	case Edge:
		b := fs.lumaBlock(row, col)
		fs.orientFromEdges(b, row, col, vecs)
		r, err = c.match(b, Direction{}, noise)

	case EdgeAugmented:
		b := fs.augmentedBlock(row, col, s)
		if needsOrientation(c.metric) {
			fs.orientFromEdges(b, row, col, vecs)
		}
		r, err = c.match(b, c.metric, noise)

	case TwoPass:
		b := fs.lumaBlock(row, col)
		if b.edge > TwoPassEdgeThreshold {
			fs.orientFromEdges(b, row, col, vecs)
			r, err = c.match(b, Direction{}, noise)
		} else {
			if needsOrientation(c.metric) {
				fs.orientFromPixels(b, vecs)
			}
			r, err = c.match(b, c.metric, noise)
		}

	default:
		panic(fmt.Sprintf("img2glyph: unhandled strategy %T", s))
	}
	if err != nil {
		return Cell{}, err
	}

	cell := Cell{Rune: r}
	if fs.color != nil {
		cell.Color = fs.meanColor(row, col)
		cell.HasColor = true
	}
	return cell, nil
}

// match returns the glyph with the most favourable score. Ties keep the
// glyph that comes first in the alphabet.
func (c *Converter) match(b *block, m Metric, noise *noiseSource) (rune, error) {
	order := m.Order()
	var (
		best      *Glyph
		bestScore float64
	)
	for _, g := range c.model.ordered {
		s := score(m, b, g)
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return 0, fmt.Errorf("%s score for %q: %w", m.Name(), g.Rune, ErrNonFiniteScore)
		}
		s = noise.apply(s, order)
		if best == nil || order.better(s, bestScore) {
			best, bestScore = g, s
		}
	}
	return best.Rune, nil
}
