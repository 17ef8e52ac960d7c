package img2glyph

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2glyph/imageutil"
)

func TestConvertFrameDeterministicAcrossWorkers(t *testing.T) {
	model := testModel(t, " #-|/\\")
	rgba := imageutil.CreateEdgeImage(96, 64)
	frame := FrameFromImage(rgba, imageutil.GrayscaleBT601)

	strategies := []Strategy{Base{}, Edge{}, EdgeAugmented{IntensityWeight: 0.25, EdgeWeight: 1}, TwoPass{}}
	metrics := []Metric{Intensity{}, Dot{}, Jaccard{}, Occlusion{}, Clear{}, Direction{}, Grad{DirectionWeight: 0.5}}

	for _, s := range strategies {
		for _, m := range metrics {
			var reference *ResultGrid
			for _, workers := range []int{1, 4, 7} {
				grid, err := ConvertFrame(frame, model,
					WithStrategy(s), WithMetric(m),
					WithOutputWidth(24), WithWorkers(workers),
					WithNoise(0.05, 42), WithColor(true))
				require.NoError(t, err)
				if reference == nil {
					reference = grid
					continue
				}
				assert.Equal(t, reference.Cells, grid.Cells,
					"%s/%s differs with %d workers", s.Name(), m.Name(), workers)
			}
		}
	}
}

func TestConvertFrameRepeatable(t *testing.T) {
	model := testModel(t, " #-|")
	c, err := NewConverter(model, WithStrategy(TwoPass{}), WithMetric(Jaccard{}),
		WithOutputWidth(16), WithWorkers(3))
	require.NoError(t, err)

	frame := squareFrame(64)
	first, err := c.ConvertFrame(frame)
	require.NoError(t, err)
	second, err := c.ConvertFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNoiseSeedChangesOutput(t *testing.T) {
	model := testModel(t, " #-|/\\")
	frame := FrameFromImage(imageutil.CreateGradientImage(128, 32), imageutil.GrayscaleBT601)

	convert := func(seed uint64) string {
		grid, err := ConvertFrame(frame, model, WithOutputWidth(32), WithNoise(0.5, seed))
		require.NoError(t, err)
		return grid.String()
	}
	assert.Equal(t, convert(1), convert(1))
	assert.NotEqual(t, convert(1), convert(2))
}

func TestScheduleWritesEveryBlock(t *testing.T) {
	model := testModel(t, " #")
	c, err := NewConverter(model, WithWorkers(5))
	require.NoError(t, err)

	// Alternate black and white rows of blocks.
	geo := Geometry{Cols: 3, Rows: 7, CellWidth: 4, CellHeight: 4}
	fs := &frameState{geo: geo, luma: make([]float64, geo.PixelWidth()*geo.PixelHeight())}
	for y := 0; y < geo.PixelHeight(); y++ {
		if (y/4)%2 == 1 {
			for x := 0; x < geo.PixelWidth(); x++ {
				fs.luma[y*geo.PixelWidth()+x] = 1
			}
		}
	}

	cells, err := c.schedule(fs)
	require.NoError(t, err)
	require.Len(t, cells, 21)
	for i, cell := range cells {
		want := ' '
		if (i/3)%2 == 1 {
			want = '#'
		}
		assert.Equal(t, want, cell.Rune, "block %d", i)
	}
}

func TestScheduleAggregatesFailures(t *testing.T) {
	model := testModel(t, " #")
	c, err := NewConverter(model, WithWorkers(2))
	require.NoError(t, err)

	geo := Geometry{Cols: 2, Rows: 3, CellWidth: 4, CellHeight: 4}
	fs := &frameState{geo: geo, luma: make([]float64, geo.PixelWidth()*geo.PixelHeight())}
	// Poison the first pixel of block rows 0 and 2.
	fs.luma[0] = math.NaN()
	fs.luma[8*geo.PixelWidth()] = math.NaN()

	cells, err := c.schedule(fs)
	require.Error(t, err)
	assert.Nil(t, cells)
	assert.True(t, errors.Is(err, ErrNonFiniteScore))
	assert.Contains(t, err.Error(), "block (0, 0)")
	assert.Contains(t, err.Error(), "block (2, 0)")
	assert.NotContains(t, err.Error(), "block (1, 0)")
}

func TestScheduleRecoversPanics(t *testing.T) {
	model := testModel(t, " #")
	c, err := NewConverter(model, WithStrategy(Edge{}))
	require.NoError(t, err)

	// An edge strategy without an edge map cannot read block orientation.
	geo := Geometry{Cols: 1, Rows: 2, CellWidth: 4, CellHeight: 4}
	fs := &frameState{geo: geo, luma: make([]float64, geo.PixelWidth()*geo.PixelHeight())}

	_, err = c.schedule(fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}
