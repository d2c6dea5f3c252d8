package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"histeq/internal/equalize"
	"histeq/internal/logger"
)

var ErrOutputMismatch = errors.New("sequential and parallel outputs differ")

// Job describes one equalization run.
type Job struct {
	Input          string
	SequentialPath string
	ParallelPath   string
	Workers        int
	Options        equalize.Options
}

// Report is what a run measured.
type Report struct {
	Width          int
	Height         int
	Workers        int
	SequentialTime time.Duration
	ParallelTime   time.Duration
	SequentialPath string
	ParallelPath   string
	Before         LuminanceStats
	After          LuminanceStats
}

// Runner loads an image, equalizes it both ways, checks that the results
// agree, and writes both.
type Runner struct {
	loader        *imageLoader
	saver         *imageSaver
	logger        logger.Logger
	timingTracker TimingTracker
}

func NewRunner(codec Codec, log logger.Logger, tracker TimingTracker) *Runner {
	return &Runner{
		loader:        &imageLoader{codec: codec, logger: log, timingTracker: tracker},
		saver:         &imageSaver{codec: codec, logger: log, timingTracker: tracker},
		logger:        log,
		timingTracker: tracker,
	}
}

// Run stops at the next stage boundary once ctx is cancelled; nothing is
// written after cancellation.
func (r *Runner) Run(ctx context.Context, job Job) (*Report, error) {
	if err := r.checkCancelled(ctx, "load"); err != nil {
		return nil, err
	}

	input, err := r.loader.Load(ctx, job.Input)
	if err != nil {
		return nil, err
	}
	if err := r.checkCancelled(ctx, "sequential"); err != nil {
		return nil, err
	}

	report := &Report{
		Width:          input.Width,
		Height:         input.Height,
		Workers:        job.Workers,
		SequentialPath: job.SequentialPath,
		ParallelPath:   job.ParallelPath,
	}

	if report.Before, err = CalculateLuminanceStats(input); err != nil {
		return nil, fmt.Errorf("input statistics failed: %w", err)
	}

	var sequential, parallel *equalize.Raster

	report.SequentialTime, err = r.timingTracker.Measure(ctx, OperationSequential, func() error {
		sequential, err = equalize.Equalize(input, job.Options)
		return err
	})
	if err != nil {
		r.logger.Error("Runner", err, map[string]interface{}{"mode": "sequential"})
		return nil, fmt.Errorf("sequential equalization failed: %w", err)
	}
	if err := r.checkCancelled(ctx, "parallel"); err != nil {
		return nil, err
	}

	report.ParallelTime, err = r.timingTracker.Measure(ctx, OperationParallel, func() error {
		parallel, err = equalize.EqualizeParallel(input, job.Workers, job.Options)
		return err
	})
	if err != nil {
		r.logger.Error("Runner", err, map[string]interface{}{"mode": "parallel", "workers": job.Workers})
		return nil, fmt.Errorf("parallel equalization failed: %w", err)
	}
	if err := r.checkCancelled(ctx, "compare"); err != nil {
		return nil, err
	}

	if !sequential.Equal(parallel) {
		r.logger.Error("Runner", ErrOutputMismatch, map[string]interface{}{"workers": job.Workers})
		return nil, ErrOutputMismatch
	}

	if report.After, err = CalculateLuminanceStats(sequential); err != nil {
		return nil, fmt.Errorf("output statistics failed: %w", err)
	}

	r.logger.Info("Runner", "equalization completed", map[string]interface{}{
		"size":             fmt.Sprintf("%dx%d", input.Width, input.Height),
		"workers":          job.Workers,
		"bins":             job.Options.Bins,
		"rounding":         job.Options.Rounding.String(),
		"sequential_ms":    report.SequentialTime.Milliseconds(),
		"parallel_ms":      report.ParallelTime.Milliseconds(),
		"entropy_before":   report.Before.Entropy,
		"entropy_after":    report.After.Entropy,
		"luminance_stddev": report.After.StdDev,
	})

	if err := r.checkCancelled(ctx, "save"); err != nil {
		return nil, err
	}
	if err := r.saver.Save(ctx, job.SequentialPath, sequential); err != nil {
		return nil, err
	}
	if err := r.checkCancelled(ctx, "save"); err != nil {
		return nil, err
	}
	if err := r.saver.Save(ctx, job.ParallelPath, parallel); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *Runner) checkCancelled(ctx context.Context, stage string) error {
	select {
	case <-ctx.Done():
		r.logger.Warning("Runner", "run cancelled", map[string]interface{}{"stage": stage})
		return fmt.Errorf("cancelled before %s: %w", stage, ctx.Err())
	default:
		return nil
	}
}
