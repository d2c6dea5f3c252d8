package equalize

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBins = 256
	MinBins     = 2
	MaxBins     = 256
)

// Histogram counts pixels per grayscale bin.
type Histogram []int

// Total is the number of pixels counted.
func (h Histogram) Total() int {
	return lo.Sum([]int(h))
}

// Bins is the number of bins in the table.
func (h Histogram) Bins() int {
	return len(h)
}

func validateBins(bins int) error {
	if bins < MinBins || bins > MaxBins {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBins, bins, MinBins, MaxBins)
	}
	return nil
}

// grayscale truncates the channel mean.
func grayscale(red, green, blue uint8) int {
	return (int(red) + int(green) + int(blue)) / 3
}

// binIndex maps an intensity in [0,255] onto one of bins buckets.
func binIndex(value, bins int) int {
	if bins == MaxBins {
		return value
	}
	return value * bins / 256
}

// BuildHistogram scans every pixel of r into a table of the given size.
func BuildHistogram(r *Raster, bins int) (Histogram, error) {
	if err := validateBins(bins); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	hist := make(Histogram, bins)
	accumulateRows(hist, r, Span{Start: 0, End: r.Height})
	return hist, nil
}

// BuildHistogramParallel scans each span into a private table and merges the
// partial tables once every scan has finished.
func BuildHistogramParallel(r *Raster, bins int, spans []Span) (Histogram, error) {
	if err := validateBins(bins); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	partials := make([]Histogram, len(spans))

	var g errgroup.Group
	for i, span := range spans {
		i, span := i, span
		g.Go(func() error {
			if err := span.validate(r.Height); err != nil {
				return err
			}
			partial := make(Histogram, bins)
			accumulateRows(partial, r, span)
			partials[i] = partial
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("histogram scan failed: %w", err)
	}

	hist := make(Histogram, bins)
	for _, partial := range partials {
		for bin, count := range partial {
			hist[bin] += count
		}
	}
	return hist, nil
}

func accumulateRows(hist Histogram, r *Raster, span Span) {
	bins := len(hist)
	for y := span.Start; y < span.End; y++ {
		row := r.Row(y)
		for i := 0; i < len(row); i += 3 {
			hist[binIndex(grayscale(row[i], row[i+1], row[i+2]), bins)]++
		}
	}
}
