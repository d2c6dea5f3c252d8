package pipeline

import (
	"context"
	"time"

	"histeq/internal/equalize"
)

// Codec loads and stores rasters. Implementations live in internal/codec
// (Go image decoders) and internal/opencv/imgcodecs (OpenCV).
type Codec interface {
	Name() string
	Load(path string) (*equalize.Raster, error)
	Save(path string, r *equalize.Raster) error
}

type TimingTracker interface {
	StartTiming(ctx context.Context, operation string) context.Context
	EndTiming(ctx context.Context) time.Duration
	Measure(ctx context.Context, operation string, fn func() error) (time.Duration, error)
}

const (
	OperationLoad       = "load"
	OperationSequential = "equalize_sequential"
	OperationParallel   = "equalize_parallel"
	OperationSave       = "save"
)
