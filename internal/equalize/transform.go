package equalize

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TransformRows remaps every channel of the rows in span from src into dst.
// All arguments are validated before the first write.
func TransformRows(dst, src *Raster, table RemapTable, span Span) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("%w: src %dx%d, dst %dx%d",
			ErrDimensionMismatch, src.Width, src.Height, dst.Width, dst.Height)
	}
	if err := validateBins(len(table)); err != nil {
		return fmt.Errorf("%w: %d entries", ErrTableSize, len(table))
	}
	if err := span.validate(src.Height); err != nil {
		return err
	}

	lut := table.lookup()
	for y := span.Start; y < span.End; y++ {
		srcRow := src.Row(y)
		dstRow := dst.Row(y)
		for i, v := range srcRow {
			dstRow[i] = lut[v]
		}
	}
	return nil
}

// transformSpans runs one goroutine per span and waits for all of them.
// The first failure is returned.
func transformSpans(dst, src *Raster, table RemapTable, spans []Span) error {
	var g errgroup.Group
	for _, span := range spans {
		span := span
		g.Go(func() error {
			if span.Empty() {
				return nil
			}
			return TransformRows(dst, src, table, span)
		})
	}
	return g.Wait()
}
