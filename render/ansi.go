package render

import (
	"strconv"
	"strings"

	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/imageutil"
)

const (
	// ESC starts every escape sequence.
	ESC = "\u001b"

	// Reset clears all attributes.
	Reset = ESC + "[0m"

	// Home moves the cursor to the top left corner, for redrawing frames
	// in place.
	Home = ESC + "[H"

	// ClearScreen erases the terminal.
	ClearScreen = ESC + "[2J"
)

// ANSI renders the grid with 24-bit foreground colors. Adjacent cells of
// the same color share one escape sequence, and every line ends with a
// reset. Cells without color are written after a reset.
func ANSI(grid *img2glyph.ResultGrid) string {
	var sb strings.Builder
	for row := 0; row < grid.Rows; row++ {
		writeANSIRow(&sb, grid.Row(row))
		sb.WriteString(Reset)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// writeANSIRow writes one row as runs of equally colored cells.
func writeANSIRow(sb *strings.Builder, cells []img2glyph.Cell) {
	var run []rune
	var current img2glyph.Cell
	flush := func() {
		if len(run) > 0 {
			sb.WriteString(formatANSICode(current, run))
			run = run[:0]
		}
	}

	for i, c := range cells {
		if i == 0 || c.HasColor != current.HasColor || (c.HasColor && c.Color != current.Color) {
			flush()
			current = c
		}
		run = append(run, c.Rune)
	}
	flush()
}

// formatANSICode returns the escape sequence for a run's color followed
// by the run's characters.
func formatANSICode(c img2glyph.Cell, run []rune) string {
	var code strings.Builder
	if c.HasColor {
		code.WriteString(foreground(c.Color))
	} else {
		code.WriteString(Reset)
	}
	code.WriteString(string(run))
	return code.String()
}

// foreground returns the truecolor foreground escape for a color.
func foreground(c imageutil.RGB) string {
	var code strings.Builder
	code.WriteString(ESC)
	code.WriteString("[38;2;")
	code.WriteString(strconv.Itoa(int(c.R)))
	code.WriteByte(';')
	code.WriteString(strconv.Itoa(int(c.G)))
	code.WriteByte(';')
	code.WriteString(strconv.Itoa(int(c.B)))
	code.WriteByte('m')
	return code.String()
}
