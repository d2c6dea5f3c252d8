package pipeline

import (
	"context"
	"fmt"

	"histeq/internal/equalize"
	"histeq/internal/logger"
)

type imageLoader struct {
	codec         Codec
	logger        logger.Logger
	timingTracker TimingTracker
}

func (l *imageLoader) Load(ctx context.Context, path string) (*equalize.Raster, error) {
	timed := l.timingTracker.StartTiming(ctx, OperationLoad)
	defer l.timingTracker.EndTiming(timed)

	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":    path,
		"backend": l.codec.Name(),
	})

	raster, err := l.codec.Load(path)
	if err != nil {
		l.logger.Error("ImageLoader", err, map[string]interface{}{"path": path})
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":  raster.Width,
		"height": raster.Height,
	})

	return raster, nil
}
