package img2glyph

import (
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/wbrown/img2glyph/imageutil"
)

// Converter turns frames into character grids. Its configuration is fixed
// at construction, so one Converter may convert any number of frames and
// animations, including from several goroutines at once.
type Converter struct {
	model *GlyphModel

	strategy         Strategy
	metric           Metric
	brightnessOffset float64
	outputWidth      int
	noiseScale       float64
	noiseSeed        uint64
	workers          int
	fps              float64
	interp           imageutil.Interpolation
	edgeBlur         float64
	color            bool
	edgeData         bool

	logger   *slog.Logger
	progress func(done, total int)
}

// Option is a functional option for configuring a Converter.
type Option func(*Converter)

// NewConverter creates a Converter for a glyph model. Defaults: Base
// strategy, Intensity metric, no brightness offset, 100 columns, no
// noise, 1 worker, 30 fps, nearest-neighbor scaling, edge blur sigma 1.0,
// no color, no edge data. Invalid settings fail with a
// *ConfigurationError.
func NewConverter(model *GlyphModel, opts ...Option) (*Converter, error) {
	c := &Converter{
		model:       model,
		strategy:    Base{},
		metric:      Intensity{},
		outputWidth: 100,
		workers:     1,
		fps:         30,
		interp:      imageutil.InterpolationNearest,
		edgeBlur:    DefaultEdgeBlur,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Converter) validate() error {
	if c.model == nil {
		return configErrorf("glyph model", "no glyph model")
	}
	if err := validateStrategy(c.strategy); err != nil {
		return err
	}
	if err := validateMetric(c.metric); err != nil {
		return err
	}
	if !finite(c.brightnessOffset) {
		return configErrorf("brightness offset", "%v is not finite", c.brightnessOffset)
	}
	if c.outputWidth < 1 {
		return configErrorf("output width", "%d columns", c.outputWidth)
	}
	if !finite(c.noiseScale) || c.noiseScale < 0 {
		return configErrorf("noise scale", "%v is negative or not finite", c.noiseScale)
	}
	if c.workers < 1 {
		return configErrorf("workers", "%d workers", c.workers)
	}
	if !finite(c.fps) || c.fps <= 0 || c.fps > MaxFPS {
		return configErrorf("fps", "%v outside (0, %d]", c.fps, MaxFPS)
	}
	if !finite(c.edgeBlur) || c.edgeBlur < 0 {
		return configErrorf("edge blur", "sigma %v", c.edgeBlur)
	}
	if c.logger == nil {
		return configErrorf("logger", "nil logger")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// WithStrategy sets the conversion strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Converter) {
		c.strategy = s
	}
}

// WithMetric sets the metric used by Base, EdgeAugmented and the
// fallback pass of TwoPass.
func WithMetric(m Metric) Option {
	return func(c *Converter) {
		c.metric = m
	}
}

// WithBrightnessOffset sets the value, on the 0-255 scale, subtracted
// from every pixel before scoring. Positive offsets favour lighter glyphs.
func WithBrightnessOffset(offset float64) Option {
	return func(c *Converter) {
		c.brightnessOffset = offset
	}
}

// WithOutputWidth sets the number of character columns.
func WithOutputWidth(cols int) Option {
	return func(c *Converter) {
		c.outputWidth = cols
	}
}

// WithNoise perturbs every score by a uniform amount in [0, scale), in the
// direction the metric favours. The same seed always gives the same
// output.
func WithNoise(scale float64, seed uint64) Option {
	return func(c *Converter) {
		c.noiseScale = scale
		c.noiseSeed = seed
	}
}

// WithWorkers sets the number of goroutines converting blocks of a frame.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

// MaxFPS is the highest frame rate an animation may record, one frame
// per millisecond.
const MaxFPS = 1000

// WithFPS sets the frame rate recorded on animations.
func WithFPS(fps float64) Option {
	return func(c *Converter) {
		c.fps = fps
	}
}

// WithInterpolation sets how frames are scaled to the block grid.
func WithInterpolation(interp imageutil.Interpolation) Option {
	return func(c *Converter) {
		c.interp = interp
	}
}

// WithEdgeBlur sets the Gaussian sigma applied before edge detection.
// Zero disables the blur.
func WithEdgeBlur(sigma float64) Option {
	return func(c *Converter) {
		c.edgeBlur = sigma
	}
}

// WithColor records each block's mean color in its cell. Frames without
// a color plane produce cells without color.
func WithColor(enabled bool) Option {
	return func(c *Converter) {
		c.color = enabled
	}
}

// WithEdgeData attaches the scaled edge map to every ResultGrid.
func WithEdgeData(enabled bool) Option {
	return func(c *Converter) {
		c.edgeData = enabled
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithProgress sets a callback invoked after each frame of an animation
// with the number of frames done and the total.
func WithProgress(fn func(done, total int)) Option {
	return func(c *Converter) {
		c.progress = fn
	}
}

// Model returns the glyph model the converter selects from.
func (c *Converter) Model() *GlyphModel { return c.model }

// Strategy returns the configured strategy.
func (c *Converter) Strategy() Strategy { return c.strategy }

// Metric returns the configured metric.
func (c *Converter) Metric() Metric { return c.metric }

// Geometry returns the block grid a frame of the given size converts to.
func (c *Converter) Geometry(width, height int) (Geometry, error) {
	return computeGeometry(width, height, c.outputWidth, c.model.width, c.model.height, -1)
}

// ConvertFrame converts a single frame. On error no grid is returned.
func (c *Converter) ConvertFrame(frame *Frame) (*ResultGrid, error) {
	if err := frame.validate(-1); err != nil {
		return nil, err
	}
	geo, err := computeGeometry(frame.Width(), frame.Height(),
		c.outputWidth, c.model.width, c.model.height, -1)
	if err != nil {
		return nil, err
	}
	c.logGeometry(frame, geo)
	return c.convert(frame, 0, geo)
}

func (c *Converter) logGeometry(frame *Frame, geo Geometry) {
	c.logger.Debug("img2glyph: block grid",
		"frame_width", frame.Width(), "frame_height", frame.Height(),
		"cols", geo.Cols, "rows", geo.Rows,
		"cell_width", geo.CellWidth, "cell_height", geo.CellHeight,
		"strategy", c.strategy.Name(), "metric", c.metric.Name(),
		"workers", c.workers)
}

// convert scales one validated frame to geo, runs edge detection when
// required and schedules its blocks.
func (c *Converter) convert(frame *Frame, index int, geo Geometry) (*ResultGrid, error) {
	start := time.Now()
	fs := c.prepare(frame, index, geo)

	cells, err := c.schedule(fs)
	if err != nil {
		return nil, err
	}

	grid := &ResultGrid{Cols: geo.Cols, Rows: geo.Rows, Cells: cells}
	if c.edgeData {
		grid.Edges = fs.edges
	}
	c.logger.Debug("img2glyph: frame converted",
		"frame", index, "blocks", geo.Blocks(), "elapsed", time.Since(start))
	return grid, nil
}

func (c *Converter) prepare(frame *Frame, index int, geo Geometry) *frameState {
	pw, ph := geo.PixelWidth(), geo.PixelHeight()
	scaled := imageutil.ResizeGray(frame.Gray, pw, ph, c.interp)

	fs := &frameState{
		index:  index,
		geo:    geo,
		luma:   make([]float64, 0, pw*ph),
		offset: c.brightnessOffset / 255,
	}
	for y := 0; y < ph; y++ {
		for _, v := range scaled.Pix[y*scaled.Stride : y*scaled.Stride+pw] {
			fs.luma = append(fs.luma, float64(v)/255)
		}
	}

	if c.strategy.usesEdges() || c.edgeData {
		// Detect at source resolution, then scale the result down.
		fs.edges = DetectEdges(frame.Gray, c.model.directions, c.edgeBlur).Resize(pw, ph)
	}
	if c.color && frame.Color != nil {
		fs.color = imageutil.Resize(frame.Color, pw, ph, c.interp)
	}
	return fs
}

// ConvertFrame converts one frame with a one-shot Converter.
func ConvertFrame(frame *Frame, model *GlyphModel, opts ...Option) (*ResultGrid, error) {
	c, err := NewConverter(model, opts...)
	if err != nil {
		return nil, err
	}
	return c.ConvertFrame(frame)
}
