// Package render turns converted grids into something a person can look
// at: plain text, truecolor ANSI, HTML and raster images.
package render

import (
	"strings"

	"github.com/wbrown/img2glyph"
)

// Text returns the grid's characters, one line per row, each line ending
// in a newline.
func Text(grid *img2glyph.ResultGrid) string {
	var sb strings.Builder
	sb.Grow((grid.Cols + 1) * grid.Rows)
	for _, line := range grid.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
