package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/imageutil"
	"github.com/wbrown/img2glyph/render"
)

// writeOutput writes the animation where opts.Output says, choosing the
// format by extension, and returns the number of bytes written.
func writeOutput(stdout io.Writer, opts Options, anim *img2glyph.Animation, model *img2glyph.GlyphModel) (int64, error) {
	if opts.Output == "" {
		return writeTerminal(stdout, anim, opts.Color, opts.Loop)
	}

	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(opts.Output)); ext {
	case ".txt":
		for i, grid := range anim.Frames {
			if i > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(render.Text(grid))
		}
	case ".ans":
		for _, grid := range anim.Frames {
			buf.WriteString(render.ANSI(grid))
		}
	case ".html", ".htm":
		buf.WriteString(render.HTML(anim.Frames...))
	case ".json":
		frames := make([]string, len(anim.Frames))
		for i, grid := range anim.Frames {
			if opts.Color {
				frames[i] = render.HTMLFragment(grid)
			} else {
				frames[i] = render.Text(grid)
			}
		}
		data, err := json.Marshal(frames)
		if err != nil {
			return 0, fmt.Errorf("failed to encode frames: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case ".png":
		img, err := render.Image(anim.Frames[0], model, opts.Scale)
		if err != nil {
			return 0, err
		}
		if err := imageutil.SaveImage(img, opts.Output); err != nil {
			return 0, err
		}
		return fileSize(opts.Output)
	case ".gif":
		frames, err := render.Frames(anim, model, opts.Scale)
		if err != nil {
			return 0, err
		}
		if err := imageutil.SaveGIF(frames, gifDelay(anim.FPS), opts.Output); err != nil {
			return 0, err
		}
		return fileSize(opts.Output)
	default:
		return 0, fmt.Errorf("unsupported output format %q", ext)
	}

	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write output: %w", err)
	}
	return int64(buf.Len()), nil
}

// writeTerminal prints a single frame, or plays an animation in place at
// its frame rate until the loops are done or the process is interrupted.
func writeTerminal(w io.Writer, anim *img2glyph.Animation, color bool, loop int) (int64, error) {
	frames := make([]string, len(anim.Frames))
	for i, grid := range anim.Frames {
		if color {
			frames[i] = render.ANSI(grid)
		} else {
			frames[i] = render.Text(grid)
		}
	}

	if len(frames) == 1 {
		n, err := io.WriteString(w, frames[0])
		return int64(n), err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return play(ctx, w, frames, anim.FrameDelay(), loop)
}

// play redraws frames from the top left corner of the terminal. loop is
// the number of extra passes, -1 for no limit.
func play(ctx context.Context, w io.Writer, frames []string, delay time.Duration, loop int) (int64, error) {
	var written int64
	write := func(s string) error {
		n, err := io.WriteString(w, s)
		written += int64(n)
		return err
	}

	if err := write(render.ClearScreen); err != nil {
		return written, err
	}
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for pass := 0; loop < 0 || pass <= loop; pass++ {
		for _, frame := range frames {
			if err := write(render.Home + frame); err != nil {
				return written, err
			}
			select {
			case <-ctx.Done():
				return written, write(render.Reset)
			case <-ticker.C:
			}
		}
	}
	return written, write(render.Reset)
}

// gifDelay converts a frame rate into a GIF delay in hundredths of a
// second, at least 1.
func gifDelay(fps float64) int {
	return max(int(math.Round(100/fps)), 1)
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
