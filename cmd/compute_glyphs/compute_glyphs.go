// Command compute_glyphs rasterizes a TrueType font into a .glyphs table
// that glyphify can load without rasterizing on every run.
package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"

	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/alphabet"
	"github.com/wbrown/img2glyph/fontdata"
)

// blockChars are the Unicode block elements.
var blockChars = []rune{
	' ', '▀', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█',
	'▌', '▍', '▎', '▏', '▐', '░', '▒', '▓',
	'▔', '▕', '▖', '▗', '▘', '▙', '▚', '▛', '▜', '▝', '▞', '▟',
}

// boxChars are the Unicode box drawing characters.
var boxChars = []rune{
	'─', '━', '│', '┃', '┄', '┅', '┆', '┇', '┈', '┉', '┊', '┋',
	'┌', '┍', '┎', '┏', '┐', '┑', '┒', '┓',
	'└', '┕', '┖', '┗', '┘', '┙', '┚', '┛',
	'├', '┝', '┞', '┟', '┠', '┡', '┢', '┣',
	'┤', '┥', '┦', '┧', '┨', '┩', '┪', '┫',
	'┬', '┭', '┮', '┯', '┰', '┱', '┲', '┳',
	'┴', '┵', '┶', '┷', '┸', '┹', '┺', '┻',
	'┼', '┽', '┾', '┿', '╀', '╁', '╂', '╃', '╄', '╅', '╆', '╇', '╈', '╉', '╊', '╋',
	'╌', '╍', '╎', '╏',
	'═', '║', '╒', '╓', '╔', '╕', '╖', '╗',
	'╘', '╙', '╚', '╛', '╜', '╝', '╞', '╟',
	'╠', '╡', '╢', '╣', '╤', '╥', '╦', '╧',
	'╨', '╩', '╪', '╫', '╬',
}

// Options are the command line flags.
type Options struct {
	Font      string  `short:"f" long:"font" description:"TrueType font to rasterize; Go Mono if empty"`
	Output    string  `short:"o" long:"output" description:"Output .glyphs file" required:"yes"`
	Alphabet  string  `short:"a" long:"alphabet" description:"Alphabet preset name, alphabet file or literal characters" default:"alphabet"`
	Blocks    bool    `long:"blocks" description:"Add the Unicode block elements"`
	Box       bool    `long:"box" description:"Add the Unicode box drawing characters"`
	Width     int     `long:"cell-width" description:"Cell width in pixels" default:"8"`
	Height    int     `long:"cell-height" description:"Cell height in pixels" default:"16"`
	Size      float64 `long:"size" description:"Font size in points; 0 fits the cell height" default:"0"`
	Threshold uint8   `long:"threshold" description:"Alpha above which a pixel is ink" default:"64"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := computeGlyphs(opts, logger); err != nil {
		logger.Error("img2glyph: failed to compute glyphs", "error", err)
		os.Exit(1)
	}
}

// characters collects the runes to rasterize: the alphabet followed by
// the optional Unicode sets, without repeats.
func characters(opts Options) ([]rune, error) {
	runes, err := alphabet.Resolve(opts.Alphabet)
	if err != nil {
		return nil, err
	}
	text := string(runes)
	if opts.Blocks {
		text += string(blockChars)
	}
	if opts.Box {
		text += string(boxChars)
	}
	return alphabet.Parse(text), nil
}

func computeGlyphs(opts Options, logger *slog.Logger) error {
	runes, err := characters(opts)
	if err != nil {
		return err
	}

	fontOpts := fontdata.Options{
		Width:     opts.Width,
		Height:    opts.Height,
		Size:      opts.Size,
		Threshold: opts.Threshold,
	}
	name := "Go Mono"
	var ttf []byte
	if opts.Font != "" {
		name = filepath.Base(opts.Font)
		if ttf, err = os.ReadFile(opts.Font); err != nil {
			return fmt.Errorf("failed to read font: %w", err)
		}
	}

	logger.Info("img2glyph: computing glyphs", "font", name, "characters", len(runes))
	fb, err := rasterize(name, ttf, fontOpts, runes)
	if err != nil {
		return err
	}
	if missing := len(runes) - fb.Len(); missing > 0 {
		logger.Warn("img2glyph: font lacks characters", "missing", missing)
	}

	var buf bytes.Buffer
	if err := fontdata.Encode(&buf, fb); err != nil {
		return err
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	baseName := strings.TrimSuffix(name, filepath.Ext(name))
	logger.Info("img2glyph: saved glyph data",
		"path", opts.Output,
		"glyphs", fb.Len(),
		"cell", fmt.Sprintf("%dx%d", fb.Width, fb.Height),
		"size", humanize.Bytes(uint64(buf.Len())),
		"suggested_name", strings.ToLower(strings.ReplaceAll(baseName, " ", "_"))+".glyphs")
	return nil
}

func rasterize(name string, ttf []byte, opts fontdata.Options, runes []rune) (*img2glyph.FontBitmaps, error) {
	if ttf == nil {
		return fontdata.Default(opts, runes)
	}
	return fontdata.FromTrueType(name, ttf, opts, runes)
}
