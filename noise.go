package img2glyph

import (
	"math/rand/v2"
)

// noiseSource perturbs scores for one block. Its stream depends only on
// the seed and the block's position in the run, never on which worker
// converts the block or when.
type noiseSource struct {
	scale float64
	rng   *rand.Rand
}

func newNoiseSource(scale float64, seed uint64, frame, index int) *noiseSource {
	if scale == 0 {
		return nil
	}
	stream := uint64(uint32(frame))<<32 | uint64(uint32(index))
	return &noiseSource{
		scale: scale,
		rng:   rand.New(rand.NewPCG(seed, stream)),
	}
}

// apply moves score by up to scale in the direction the order favours.
// A nil source leaves the score unchanged.
func (n *noiseSource) apply(score float64, order Order) float64 {
	if n == nil {
		return score
	}
	u := n.rng.Float64() * n.scale
	if order == HigherIsBetter {
		return score + u
	}
	return score - u
}
