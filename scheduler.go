package img2glyph

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// schedule converts every block of a frame on a pool of c.workers
// goroutines, one task per block row. Each block writes only its own
// slot of the preallocated cell slice, so the grid is the same for any
// worker count or completion order. Failures are collected per row and
// joined in row order; the whole frame fails if any block does.
func (c *Converter) schedule(fs *frameState) ([]Cell, error) {
	cols, rows := fs.geo.Cols, fs.geo.Rows
	cells := make([]Cell, cols*rows)
	rowErrs := make([]error, rows)

	var g errgroup.Group
	g.SetLimit(c.workers)
	for row := 0; row < rows; row++ {
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					rowErrs[row] = fmt.Errorf("row %d: panic: %v", row, p)
				}
			}()
			for col := 0; col < cols; col++ {
				cell, err := c.convertBlock(fs, row, col)
				if err != nil {
					rowErrs[row] = fmt.Errorf("block (%d, %d): %w", row, col, err)
					return nil
				}
				cells[row*cols+col] = cell
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(rowErrs...); err != nil {
		return nil, err
	}
	return cells, nil
}
