// Package config loads glyphify's run configuration from TOML files.
package config

import (
	"math"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config mirrors the glyphify command line. Flags given on the command
// line override these values.
type Config struct {
	Font       string `koanf:"font"` // ".ttf", ".otf" or ".glyphs"; empty means Go Mono
	CellWidth  int    `koanf:"cell_width"`
	CellHeight int    `koanf:"cell_height"`
	Alphabet   string `koanf:"alphabet"` // preset name, file or literal characters
	Invert     bool   `koanf:"invert"`

	Width            int      `koanf:"width"`
	Strategy         string   `koanf:"strategy"`
	IntensityWeight  *float64 `koanf:"intensity_weight"` // edge-augmented only
	EdgeWeight       *float64 `koanf:"edge_weight"`      // edge-augmented only
	Metric           string   `koanf:"metric"`
	DirectionWeight  *float64 `koanf:"direction_weight"` // grad only
	BrightnessOffset float64  `koanf:"brightness_offset"`
	Noise            float64  `koanf:"noise"`
	Seed             uint64   `koanf:"seed"`
	Workers          int      `koanf:"workers"`
	FPS              float64  `koanf:"fps"`
	Interpolation    string   `koanf:"interpolation"`
	Grayscale        string   `koanf:"grayscale"`
	EdgeBlur         *float64 `koanf:"edge_blur"` // 0 disables the pre-blur

	Color bool `koanf:"color"`
	Scale int  `koanf:"scale"` // pixels per glyph pixel in image output
	Loop  int  `koanf:"loop"`  // extra terminal playback repetitions, -1 forever
}

// Defaults.
const (
	DefaultWidth           = 100
	DefaultStrategy        = "edge-augmented"
	DefaultIntensityWeight = 0.25
	DefaultEdgeWeight      = 1.0
	DefaultMetric          = "grad"
	DefaultDirectionWeight = 0.5
	DefaultFPS             = 30
	DefaultInterpolation   = "nearest"
	DefaultGrayscale       = "bt601"
	DefaultEdgeBlur        = 1.0
	DefaultAlphabet        = "alphabet"
	DefaultCellWidth       = 8
	DefaultCellHeight      = 16
	DefaultScale           = 1
)

// Load reads ~/.config/img2glyph/config.toml and then ./img2glyph.toml,
// later files overriding earlier ones. Missing files are skipped.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given TOML files in order and applies defaults to
// whatever they leave unset.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Font = expandPath(cfg.Font)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Strategy == "" {
		c.Strategy = DefaultStrategy
	}
	if c.Metric == "" {
		c.Metric = DefaultMetric
	}
	c.IntensityWeight = weightOrDefault(c.IntensityWeight, DefaultIntensityWeight, math.Inf(1))
	c.EdgeWeight = weightOrDefault(c.EdgeWeight, DefaultEdgeWeight, math.Inf(1))
	c.DirectionWeight = weightOrDefault(c.DirectionWeight, DefaultDirectionWeight, 1)
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Interpolation == "" {
		c.Interpolation = DefaultInterpolation
	}
	if c.Grayscale == "" {
		c.Grayscale = DefaultGrayscale
	}
	if c.EdgeBlur == nil || *c.EdgeBlur < 0 {
		blur := DefaultEdgeBlur
		c.EdgeBlur = &blur
	}
	if c.Alphabet == "" {
		c.Alphabet = DefaultAlphabet
	}
	if c.CellWidth <= 0 {
		c.CellWidth = DefaultCellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = DefaultCellHeight
	}
	if c.Scale <= 0 {
		c.Scale = DefaultScale
	}
	if c.Loop < -1 {
		c.Loop = -1
	}
}

// weightOrDefault keeps an explicit weight in [0, upper], zero included, and
// replaces a missing or out-of-range one with def.
func weightOrDefault(w *float64, def, upper float64) *float64 {
	if w != nil && *w >= 0 && *w <= upper && !math.IsInf(*w, 0) {
		return w
	}
	return &def
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/img2glyph/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "img2glyph", "config.toml"))
	}

	// 2. ./img2glyph.toml (pwd, highest priority)
	paths = append(paths, "img2glyph.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
