package equalize

import (
	"fmt"
	"strings"
)

// Rounding selects how cumulative counts are scaled onto [0,255].
type Rounding int

const (
	// RoundTruncate floors cdf*255/T, matching the reference output.
	RoundTruncate Rounding = iota
	// RoundNearest rounds half up instead.
	RoundNearest
)

func (r Rounding) valid() bool {
	return r == RoundTruncate || r == RoundNearest
}

func (r Rounding) String() string {
	switch r {
	case RoundTruncate:
		return "truncate"
	case RoundNearest:
		return "nearest"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate", "floor":
		return RoundTruncate, nil
	case "nearest", "round":
		return RoundNearest, nil
	default:
		return RoundTruncate, fmt.Errorf("%w %q", ErrInvalidRounding, s)
	}
}

const maxIntensity = 255

// RemapTable maps a histogram bin to an output intensity. It is never
// written after construction and may be shared between goroutines.
type RemapTable []uint8

// Cumulative returns the running sum of h.
func Cumulative(h Histogram) []int {
	cumulative := make([]int, len(h))
	sum := 0
	for i, count := range h {
		sum += count
		cumulative[i] = sum
	}
	return cumulative
}

// IdentityTable spreads bins evenly over [0,255]. With 256 bins entry i is i.
func IdentityTable(bins int) (RemapTable, error) {
	if err := validateBins(bins); err != nil {
		return nil, err
	}

	table := make(RemapTable, bins)
	for i := range table {
		table[i] = uint8(i * maxIntensity / (bins - 1))
	}
	return table, nil
}

// BuildRemapTable converts a histogram over total pixels into a remap table.
// An empty image (total == 0) yields the identity table.
func BuildRemapTable(h Histogram, total int, rounding Rounding) (RemapTable, error) {
	if err := validateBins(len(h)); err != nil {
		return nil, err
	}
	if !rounding.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRounding, rounding)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: negative total %d", ErrTotalMismatch, total)
	}

	cumulative := Cumulative(h)
	if sum := cumulative[len(cumulative)-1]; sum != total {
		return nil, fmt.Errorf("%w: histogram sums to %d, expected %d", ErrTotalMismatch, sum, total)
	}

	if total == 0 {
		return IdentityTable(len(h))
	}

	table := make(RemapTable, len(h))
	for i, c := range cumulative {
		var v int
		switch rounding {
		case RoundNearest:
			v = (2*c*maxIntensity + total) / (2 * total)
		case RoundTruncate:
			v = c * maxIntensity / total
		}
		table[i] = uint8(min(max(v, 0), maxIntensity))
	}
	return table, nil
}

// lookup expands the table into a per-intensity lookup so each channel
// needs a single index.
func (t RemapTable) lookup() [256]uint8 {
	var lut [256]uint8
	for v := range lut {
		lut[v] = t[binIndex(v, len(t))]
	}
	return lut
}
