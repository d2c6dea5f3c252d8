package equalize

import (
	"fmt"
	"runtime"
)

// Options carries the tunables of an equalization call.
type Options struct {
	// Bins is the histogram size. Zero selects DefaultBins.
	Bins     int
	Rounding Rounding
	// ParallelHistogram scans the histogram across the worker spans too.
	// Only EqualizeParallel honours it.
	ParallelHistogram bool
}

func DefaultOptions() Options {
	return Options{Bins: DefaultBins, Rounding: RoundTruncate}
}

// DefaultWorkers is the worker count used when callers have no preference.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

func (o Options) bins() int {
	if o.Bins == 0 {
		return DefaultBins
	}
	return o.Bins
}

// Equalize runs histogram, remap and transform over the whole raster on the
// calling goroutine. The input is not modified.
func Equalize(r *Raster, opts Options) (*Raster, error) {
	table, err := remapFor(r, opts, nil)
	if err != nil {
		return nil, err
	}

	dst, err := NewRaster(r.Width, r.Height)
	if err != nil {
		return nil, err
	}

	if err := TransformRows(dst, r, table, Span{Start: 0, End: r.Height}); err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	return dst, nil
}

// EqualizeParallel builds the remap table once, then transforms the rows in
// workers concurrent spans. It returns only after every worker has finished
// and yields the same pixels as Equalize.
func EqualizeParallel(r *Raster, workers int, opts Options) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	spans, err := Partition(r.Height, workers)
	if err != nil {
		return nil, err
	}

	var histogramSpans []Span
	if opts.ParallelHistogram {
		histogramSpans = spans
	}

	table, err := remapFor(r, opts, histogramSpans)
	if err != nil {
		return nil, err
	}

	dst, err := NewRaster(r.Width, r.Height)
	if err != nil {
		return nil, err
	}

	if err := transformSpans(dst, r, table, spans); err != nil {
		return nil, fmt.Errorf("parallel transform failed: %w", err)
	}
	return dst, nil
}

// remapFor builds the histogram (sequentially, or over spans when given)
// and derives the remap table from it.
func remapFor(r *Raster, opts Options, spans []Span) (RemapTable, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var (
		hist Histogram
		err  error
	)
	if spans != nil {
		hist, err = BuildHistogramParallel(r, opts.bins(), spans)
	} else {
		hist, err = BuildHistogram(r, opts.bins())
	}
	if err != nil {
		return nil, fmt.Errorf("histogram failed: %w", err)
	}

	table, err := BuildRemapTable(hist, r.Width*r.Height, opts.Rounding)
	if err != nil {
		return nil, fmt.Errorf("remap table failed: %w", err)
	}
	return table, nil
}
