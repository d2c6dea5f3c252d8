package pipeline

import (
	"context"
	"fmt"

	"histeq/internal/equalize"
	"histeq/internal/logger"
)

type imageSaver struct {
	codec         Codec
	logger        logger.Logger
	timingTracker TimingTracker
}

func (s *imageSaver) Save(ctx context.Context, path string, raster *equalize.Raster) error {
	if raster == nil {
		return fmt.Errorf("no image data to save")
	}

	timed := s.timingTracker.StartTiming(ctx, OperationSave)
	defer s.timingTracker.EndTiming(timed)

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"path":    path,
		"backend": s.codec.Name(),
		"width":   raster.Width,
		"height":  raster.Height,
	})

	if err := s.codec.Save(path, raster); err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{"path": path})
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{"path": path})
	return nil
}
