package equalize

import "fmt"

// Span is the half-open row range [Start, End).
type Span struct {
	Start int
	End   int
}

func (s Span) Empty() bool {
	return s.Start >= s.End
}

func (s Span) Rows() int {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) validate(height int) error {
	if s.Start < 0 || s.End > height || s.Start > s.End {
		return fmt.Errorf("%w: [%d, %d) for height %d", ErrRowRange, s.Start, s.End, height)
	}
	return nil
}

// Partition splits height rows into workers contiguous spans of
// floor(height/workers) rows. The last span absorbs the remainder, so when
// workers > height every span but the last is empty.
func Partition(height, workers int) ([]Span, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	}
	if height < 0 {
		return nil, fmt.Errorf("%w: height %d", ErrInvalidDimensions, height)
	}

	rowsPerWorker := height / workers
	spans := make([]Span, workers)
	for k := range spans {
		start := k * rowsPerWorker
		end := start + rowsPerWorker
		if k == workers-1 {
			end = height
		}
		spans[k] = Span{Start: start, End: end}
	}
	return spans, nil
}
