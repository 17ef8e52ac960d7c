package img2glyph

import (
	"fmt"
	"math"
	"strings"
)

// Order tells whether a metric's best score is its smallest or largest.
type Order int

const (
	LowerIsBetter Order = iota
	HigherIsBetter
)

// better reports whether score a beats score b. Equal scores never win,
// so the earliest glyph in alphabet order keeps a tie.
func (o Order) better(a, b float64) bool {
	if o == HigherIsBetter {
		return a > b
	}
	return a < b
}

// Metric scores a block against a glyph. The set of metrics is closed;
// use one of the types below.
type Metric interface {
	Name() string
	Order() Order
	isMetric()
}

// Intensity compares mean block brightness with mean glyph ink density.
type Intensity struct{}

// Dot is the dot product of block values and glyph ink.
type Dot struct{}

// Jaccard is the weighted intersection over union of block values and
// glyph ink.
type Jaccard struct{}

// Occlusion is the larger of the brightness the glyph leaves uncovered
// and the ink it lays over dark pixels.
type Occlusion struct{}

// Clear is the fraction of block brightness the glyph removes, less the
// ink it spills outside it.
type Clear struct{}

// Direction compares the block's gradient orientation with the glyph's
// stroke orientation.
type Direction struct{}

// Grad blends Direction and Intensity. DirectionWeight is in [0, 1].
type Grad struct {
	DirectionWeight float64
}

// DefaultGradDirectionWeight is the Grad weighting ParseMetric uses.
const DefaultGradDirectionWeight = 0.5

func (Intensity) Name() string { return "intensity" }
func (Dot) Name() string       { return "dot" }
func (Jaccard) Name() string   { return "jaccard" }
func (Occlusion) Name() string { return "occlusion" }
func (Clear) Name() string     { return "clear" }
func (Direction) Name() string { return "direction" }
func (Grad) Name() string      { return "direction-and-intensity" }

func (Intensity) Order() Order { return LowerIsBetter }
func (Dot) Order() Order       { return HigherIsBetter }
func (Jaccard) Order() Order   { return HigherIsBetter }
func (Occlusion) Order() Order { return LowerIsBetter }
func (Clear) Order() Order     { return HigherIsBetter }
func (Direction) Order() Order { return LowerIsBetter }
func (Grad) Order() Order      { return LowerIsBetter }

func (Intensity) isMetric() {}
func (Dot) isMetric()       {}
func (Jaccard) isMetric()   {}
func (Occlusion) isMetric() {}
func (Clear) isMetric()     {}
func (Direction) isMetric() {}
func (Grad) isMetric()      {}

// ParseMetric maps a metric name onto its variant. "fast" and "color" are
// accepted for Intensity and "grad" for Grad.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fast", "color", "intensity":
		return Intensity{}, nil
	case "dot":
		return Dot{}, nil
	case "jaccard":
		return Jaccard{}, nil
	case "occlusion":
		return Occlusion{}, nil
	case "clear":
		return Clear{}, nil
	case "direction":
		return Direction{}, nil
	case "grad", "direction-and-intensity":
		return Grad{DirectionWeight: DefaultGradDirectionWeight}, nil
	}
	return nil, configErrorf("metric", "unknown metric %q", name)
}

// MetricNames lists the canonical metric names.
func MetricNames() []string {
	return []string{"intensity", "dot", "jaccard", "occlusion", "clear", "direction", "direction-and-intensity"}
}

// needsOrientation reports whether scoring reads block orientation.
func needsOrientation(m Metric) bool {
	switch m.(type) {
	case Direction, Grad:
		return true
	}
	return false
}

func validateMetric(m Metric) error {
	switch m := m.(type) {
	case nil:
		return configErrorf("metric", "no metric")
	case Grad:
		if !(m.DirectionWeight >= 0 && m.DirectionWeight <= 1) {
			return configErrorf("metric", "grad direction weight %v outside [0, 1]", m.DirectionWeight)
		}
	}
	return nil
}

// score computes the raw metric value of glyph g for block b.
func score(m Metric, b *block, g *Glyph) float64 {
	switch m := m.(type) {
	case Intensity:
		return math.Abs(b.mean - g.mean)

	case Dot:
		var sum float64
		for i, v := range b.values {
			sum += v * g.values[i]
		}
		return sum

	case Jaccard:
		var inter, union float64
		for i, v := range b.values {
			inter += min(v, g.values[i])
			union += max(v, g.values[i])
		}
		if union == 0 {
			return 1
		}
		return inter / union

	case Occlusion:
		over, under := residuals(b.values, g.values)
		return max(over, under)

	case Clear:
		over, under := residuals(b.values, g.values)
		if b.sum == 0 {
			return -under
		}
		return (b.sum - over - under) / b.sum

	case Direction:
		return b.orient.distance(g.orient)

	case Grad:
		w := m.DirectionWeight
		return w*b.orient.distance(g.orient)/2 + (1-w)*math.Abs(b.mean-g.mean)
	}
	panic(fmt.Sprintf("img2glyph: unhandled metric %T", m))
}

// residuals returns the block brightness left uncovered by the glyph and
// the glyph ink lying over darker block pixels.
func residuals(block, glyph []float64) (over, under float64) {
	for i, v := range block {
		d := v - glyph[i]
		if d > 0 {
			over += d
		} else {
			under -= d
		}
	}
	return over, under
}
