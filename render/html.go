package render

import (
	"html"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wbrown/img2glyph"
)

// HTML renders grids as a standalone page with one preformatted block.
// Frames follow each other separated by a blank line.
func HTML(grids ...*img2glyph.ResultGrid) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n")
	sb.WriteString("<body style=\"background:#000;color:#fff\">\n")
	sb.WriteString("<pre style=\"font-family:monospace;line-height:1\">\n")
	for i, grid := range grids {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(HTMLFragment(grid))
	}
	sb.WriteString("\n</pre>\n</body>\n</html>\n")
	return sb.String()
}

// HTMLFragment renders one grid as escaped text, rows separated by
// newlines. Colored runs become spans with an inline color.
func HTMLFragment(grid *img2glyph.ResultGrid) string {
	var sb strings.Builder
	for row := 0; row < grid.Rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		writeHTMLRow(&sb, grid.Row(row))
	}
	return sb.String()
}

func writeHTMLRow(sb *strings.Builder, cells []img2glyph.Cell) {
	var run []rune
	var current img2glyph.Cell
	flush := func() {
		if len(run) == 0 {
			return
		}
		text := html.EscapeString(string(run))
		if current.HasColor {
			c, _ := colorful.MakeColor(current.Color.ToColor())
			sb.WriteString(`<span style="color:` + c.Hex() + `">` + text + `</span>`)
		} else {
			sb.WriteString(text)
		}
		run = run[:0]
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
