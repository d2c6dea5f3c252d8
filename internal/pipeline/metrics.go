package pipeline

import (
	"math"

	"histeq/internal/equalize"
)

// LuminanceStats summarises the grayscale distribution of a raster.
type LuminanceStats struct {
	Min     int
	Max     int
	Mean    float64
	StdDev  float64
	Entropy float64 // bits
}

// CalculateLuminanceStats derives the stats from the 256-bin histogram.
// An empty raster yields the zero value.
func CalculateLuminanceStats(r *equalize.Raster) (LuminanceStats, error) {
	hist, err := equalize.BuildHistogram(r, equalize.DefaultBins)
	if err != nil {
		return LuminanceStats{}, err
	}

	total := hist.Total()
	if total == 0 {
		return LuminanceStats{}, nil
	}

	stats := LuminanceStats{Min: -1}
	var sum, sumSq float64
	for value, count := range hist {
		if count == 0 {
			continue
		}
		if stats.Min < 0 {
			stats.Min = value
		}
		stats.Max = value

		v := float64(value)
		sum += v * float64(count)
		sumSq += v * v * float64(count)

		p := float64(count) / float64(total)
		stats.Entropy -= p * math.Log2(p)
	}

	n := float64(total)
	stats.Mean = sum / n
	stats.StdDev = math.Sqrt(math.Max(sumSq/n-stats.Mean*stats.Mean, 0))
	return stats, nil
}
