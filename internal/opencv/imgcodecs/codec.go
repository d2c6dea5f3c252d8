// Package imgcodecs reads and writes rasters through OpenCV.
package imgcodecs

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"histeq/internal/equalize"
	"histeq/internal/opencv/conversion"
)

const DefaultJPEGQuality = 95

type Codec struct {
	JPEGQuality int
}

// New falls back to DefaultJPEGQuality when jpegQuality is not positive.
func New(jpegQuality int) *Codec {
	if jpegQuality <= 0 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Codec{JPEGQuality: jpegQuality}
}

func (c *Codec) Name() string {
	return "opencv"
}

func (c *Codec) Load(path string) (*equalize.Raster, error) {
	// IMRead reports failures as an empty Mat, so check the path first
	// to keep the error specific.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %s", path)
	}

	return conversion.MatToRaster(mat)
}

func (c *Codec) Save(path string, r *equalize.Raster) error {
	mat, err := conversion.RasterToMat(r)
	if err != nil {
		return err
	}
	defer mat.Close()

	params := []int{int(gocv.IMWriteJpegQuality), c.JPEGQuality}
	if ok := gocv.IMWriteWithParams(path, mat, params); !ok {
		return fmt.Errorf("failed to save image with OpenCV: %s", path)
	}
	return nil
}
