package img2glyph

import (
	"fmt"
	"time"
)

// ConvertAnimation converts a frame sequence. The block grid is computed
// once from the first frame and shared by all frames, which must
// therefore have identical dimensions. Frames are converted in order,
// each one spread across the worker pool. On error no partial animation
// is returned.
func (c *Converter) ConvertAnimation(frames []*Frame) (*Animation, error) {
	if len(frames) == 0 {
		return nil, inputErrorf(-1, "animation has no frames")
	}
	for i, f := range frames {
		if err := f.validate(i); err != nil {
			return nil, err
		}
	}
	first := frames[0]
	for i, f := range frames[1:] {
		if f.Width() != first.Width() || f.Height() != first.Height() {
			return nil, inputErrorf(i+1, "frame is %dx%d, first frame is %dx%d",
				f.Width(), f.Height(), first.Width(), first.Height())
		}
	}

	geo, err := computeGeometry(first.Width(), first.Height(),
		c.outputWidth, c.model.width, c.model.height, 0)
	if err != nil {
		return nil, err
	}
	c.logGeometry(first, geo)

	start := time.Now()
	anim := &Animation{
		Geometry: geo,
		FPS:      c.fps,
		Frames:   make([]*ResultGrid, len(frames)),
	}
	for i, f := range frames {
		grid, err := c.convert(f, i, geo)
		if err != nil {
			return nil, fmt.Errorf("img2glyph: frame %d: %w", i, err)
		}
		anim.Frames[i] = grid
		if c.progress != nil {
			c.progress(i+1, len(frames))
		}
	}

	c.logger.Debug("img2glyph: animation converted",
		"frames", len(frames), "elapsed", time.Since(start))
	return anim, nil
}

// ConvertAnimation converts a frame sequence with a one-shot Converter.
func ConvertAnimation(frames []*Frame, model *GlyphModel, opts ...Option) (*Animation, error) {
	c, err := NewConverter(model, opts...)
	if err != nil {
		return nil, err
	}
	return c.ConvertAnimation(frames)
}
