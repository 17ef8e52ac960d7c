// Command glyphify converts images and animated GIFs into character art.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"

	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/alphabet"
	"github.com/wbrown/img2glyph/fontdata"
	"github.com/wbrown/img2glyph/imageutil"
	"github.com/wbrown/img2glyph/internal/config"
)

// Options are the command line flags. Values loaded from the config files
// are filled in before parsing, so flags only override what they name.
type Options struct {
	Output string `short:"o" long:"output" description:"Output file (.txt, .ans, .html, .json, .png or .gif); stdout if empty"`
	Edges  string `long:"edges" description:"Also write the first frame's edge magnitudes to this image file"`

	Font       string `short:"f" long:"font" description:"Font file (.ttf, .otf or .glyphs); Go Mono if empty"`
	CellWidth  int    `long:"cell-width" description:"Glyph cell width in pixels when rasterizing a TrueType font"`
	CellHeight int    `long:"cell-height" description:"Glyph cell height in pixels when rasterizing a TrueType font"`
	Alphabet   string `short:"a" long:"alphabet" description:"Alphabet preset name, alphabet file or literal characters"`
	Invert     bool   `short:"i" long:"invert" description:"Dark characters on a light background"`

	Width            int     `short:"w" long:"width" description:"Output width in characters"`
	Strategy         string  `short:"s" long:"strategy" description:"Conversion strategy: base, edge, edge-augmented or two-pass"`
	IntensityWeight  float64 `long:"intensity-weight" description:"Weight of the gray level in the edge-augmented blend"`
	EdgeWeight       float64 `long:"edge-weight" description:"Weight of the edge magnitude in the edge-augmented blend"`
	Metric           string  `short:"m" long:"metric" description:"Metric: intensity, dot, jaccard, occlusion, clear, direction or grad"`
	DirectionWeight  float64 `long:"direction-weight" description:"Weight of the direction term of the grad metric, in [0, 1]"`
	BrightnessOffset float64 `short:"b" long:"brightness-offset" description:"Subtracted from every gray level before matching"`
	Noise            float64 `short:"n" long:"noise" description:"Scale of the random score perturbation"`
	Seed             uint64  `long:"seed" description:"Seed of the random score perturbation"`
	Workers          int     `short:"j" long:"workers" description:"Worker goroutines; 0 uses one per CPU"`
	FPS              float64 `long:"fps" description:"Playback rate; defaults to the GIF's own timing"`
	Interpolation    string  `long:"interpolation" description:"Resize filter: nearest, linear, area or lanczos"`
	Grayscale        string  `long:"grayscale" description:"Grayscale conversion: bt601, naive or colorimetric"`
	EdgeBlur         float64 `long:"edge-blur" description:"Gaussian sigma applied before edge detection; 0 disables"`

	Color bool `short:"c" long:"color" description:"Color characters with the mean color of their block"`
	Scale int  `long:"scale" description:"Pixels per glyph pixel in .png and .gif output"`
	Loop  int  `long:"loop" description:"Extra repetitions of terminal playback; -1 loops forever"`

	Verbose bool `short:"v" long:"verbose" description:"Log debug information"`
	Quiet   bool `short:"q" long:"quiet" description:"No progress bar or summary"`

	Args struct {
		Input string `positional-arg-name:"image" required:"yes"`
	} `positional-args:"yes"`
}

func optionsFromConfig(cfg *config.Config) Options {
	return Options{
		Font:             cfg.Font,
		CellWidth:        cfg.CellWidth,
		CellHeight:       cfg.CellHeight,
		Alphabet:         cfg.Alphabet,
		Invert:           cfg.Invert,
		Width:            cfg.Width,
		Strategy:         cfg.Strategy,
		IntensityWeight:  *cfg.IntensityWeight,
		EdgeWeight:       *cfg.EdgeWeight,
		Metric:           cfg.Metric,
		DirectionWeight:  *cfg.DirectionWeight,
		BrightnessOffset: cfg.BrightnessOffset,
		Noise:            cfg.Noise,
		Seed:             cfg.Seed,
		Workers:          cfg.Workers,
		FPS:              cfg.FPS,
		Interpolation:    cfg.Interpolation,
		Grayscale:        cfg.Grayscale,
		EdgeBlur:         *cfg.EdgeBlur,
		Color:            cfg.Color,
		Scale:            cfg.Scale,
		Loop:             cfg.Loop,
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "glyphify: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := optionsFromConfig(cfg)
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	fpsSet := parser.FindOptionByLongName("fps").IsSet()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	start := time.Now()
	model, err := loadModel(opts, logger)
	if err != nil {
		return err
	}

	mode, ok := imageutil.ParseGrayscaleMode(opts.Grayscale)
	if !ok {
		return fmt.Errorf("unknown grayscale mode %q", opts.Grayscale)
	}
	loaded, err := imageutil.LoadFrames(opts.Args.Input)
	if err != nil {
		return err
	}
	frames := make([]*img2glyph.Frame, len(loaded.Images))
	for i, img := range loaded.Images {
		frames[i] = img2glyph.FrameFromImage(img, mode)
	}
	if !fpsSet {
		if fps := gifFPS(loaded.Delays); fps > 0 {
			opts.FPS = fps
		}
	}
	logger.Debug("img2glyph: input loaded",
		"path", opts.Args.Input,
		"frames", len(frames),
		"width", frames[0].Width(),
		"height", frames[0].Height())

	converterOpts, err := converterOptions(opts, logger)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if len(frames) > 1 && !opts.Quiet {
		bar = pb.StartNew(len(frames))
		converterOpts = append(converterOpts, img2glyph.WithProgress(func(done, _ int) {
			bar.SetCurrent(int64(done))
		}))
	}

	conv, err := img2glyph.NewConverter(model, converterOpts...)
	if err != nil {
		return err
	}
	if geo, err := conv.Geometry(frames[0].Width(), frames[0].Height()); err == nil {
		logger.Debug("img2glyph: converting",
			"strategy", conv.Strategy().Name(),
			"metric", conv.Metric().Name(),
			"cols", geo.Cols,
			"rows", geo.Rows)
	}
	anim, err := conv.ConvertAnimation(frames)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	written, err := writeOutput(os.Stdout, opts, anim, conv.Model())
	if err != nil {
		return err
	}
	if opts.Edges != "" {
		if err := imageutil.SaveGrayImage(anim.Frames[0].Edges.MagnitudeImage(), opts.Edges); err != nil {
			return err
		}
	}

	if !opts.Quiet {
		cells := anim.Geometry.Blocks() * len(anim.Frames)
		logger.Info("img2glyph: done",
			"frames", len(anim.Frames),
			"cols", anim.Geometry.Cols,
			"rows", anim.Geometry.Rows,
			"cells", humanize.Comma(int64(cells)),
			"output", humanize.Bytes(uint64(written)),
			"elapsed", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// loadModel reads the font and alphabet and builds the glyph model.
func loadModel(opts Options, logger *slog.Logger) (*img2glyph.GlyphModel, error) {
	runes, err := alphabet.Resolve(opts.Alphabet)
	if err != nil {
		return nil, err
	}

	fontOpts := fontdata.Options{Width: opts.CellWidth, Height: opts.CellHeight}
	var fb *img2glyph.FontBitmaps
	if opts.Font == "" {
		fb, err = fontdata.Default(fontOpts, runes)
	} else {
		fb, err = fontdata.Load(opts.Font, fontOpts, runes)
	}
	if err != nil {
		return nil, err
	}

	var glyphOpts []img2glyph.GlyphOption
	if opts.Invert {
		glyphOpts = append(glyphOpts, img2glyph.WithInvert())
	}
	model, err := img2glyph.BuildGlyphModel(fb, runes, glyphOpts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("img2glyph: glyph model",
		"font", model.FontName(),
		"glyphs", model.Len(),
		"cell", fmt.Sprintf("%dx%d", model.Width(), model.Height()),
		"directions", model.Directions())
	return model, nil
}

// converterOptions translates the flags into converter options.
func converterOptions(opts Options, logger *slog.Logger) ([]img2glyph.Option, error) {
	strategy, err := img2glyph.ParseStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	metric, err := img2glyph.ParseMetric(opts.Metric)
	if err != nil {
		return nil, err
	}
	if _, ok := strategy.(img2glyph.EdgeAugmented); ok {
		strategy = img2glyph.EdgeAugmented{
			IntensityWeight: opts.IntensityWeight,
			EdgeWeight:      opts.EdgeWeight,
		}
	}
	if _, ok := metric.(img2glyph.Grad); ok {
		metric = img2glyph.Grad{DirectionWeight: opts.DirectionWeight}
	}
	interp, ok := imageutil.ParseInterpolation(opts.Interpolation)
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q", opts.Interpolation)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	converterOpts := []img2glyph.Option{
		img2glyph.WithStrategy(strategy),
		img2glyph.WithMetric(metric),
		img2glyph.WithBrightnessOffset(opts.BrightnessOffset),
		img2glyph.WithOutputWidth(opts.Width),
		img2glyph.WithNoise(opts.Noise, opts.Seed),
		img2glyph.WithWorkers(workers),
		img2glyph.WithFPS(opts.FPS),
		img2glyph.WithInterpolation(interp),
		img2glyph.WithEdgeBlur(opts.EdgeBlur),
		img2glyph.WithColor(opts.Color),
		img2glyph.WithLogger(logger),
	}
	if opts.Edges != "" {
		converterOpts = append(converterOpts, img2glyph.WithEdgeData(true))
	}
	return converterOpts, nil
}

// gifFPS derives a frame rate from GIF delays, in hundredths of a second,
// capped at img2glyph.MaxFPS. It returns 0 when the delays carry no timing.
func gifFPS(delays []int) float64 {
	total := 0
	for _, d := range delays {
		total += d
	}
	if total <= 0 {
		return 0
	}
	mean := float64(total) / float64(len(delays))
	return min(100/mean, img2glyph.MaxFPS)
}
