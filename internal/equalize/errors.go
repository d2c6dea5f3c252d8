package equalize

import "errors"

var (
	ErrInvalidBins       = errors.New("bin count out of range")
	ErrInvalidWorkers    = errors.New("worker count must be at least 1")
	ErrInvalidDimensions = errors.New("invalid raster dimensions")
	ErrRowRange          = errors.New("row range out of bounds")
	ErrDimensionMismatch = errors.New("source and destination dimensions differ")
	ErrTableSize         = errors.New("remap table size does not match bin count")
	ErrTotalMismatch     = errors.New("pixel total does not match histogram sum")
	ErrInvalidRounding   = errors.New("unknown rounding mode")
)
