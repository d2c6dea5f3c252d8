package conversion

import (
	"fmt"
	"runtime"

	"gocv.io/x/gocv"

	"histeq/internal/equalize"
)

// MatToRaster converts an 8-bit gray, BGR or BGRA Mat to an RGB raster.
func MatToRaster(src gocv.Mat) (*equalize.Raster, error) {
	if err := ValidateMatForOperation(src, "Mat to raster conversion"); err != nil {
		return nil, err
	}
	if err := ValidateMatType(src.Type(), "Mat to raster conversion"); err != nil {
		return nil, err
	}

	rows := src.Rows()
	cols := src.Cols()
	channels := src.Channels()

	data := src.ToBytes()
	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("Mat data is not continuous: %d bytes for %dx%dx%d", len(data), cols, rows, channels)
	}

	dst, err := equalize.NewRaster(cols, rows)
	if err != nil {
		return nil, err
	}

	switch channels {
	case 1:
		for i, v := range data {
			dst.Pix[i*3] = v
			dst.Pix[i*3+1] = v
			dst.Pix[i*3+2] = v
		}
	case 3, 4:
		for p := 0; p < rows*cols; p++ {
			in := p * channels
			out := p * 3
			dst.Pix[out] = data[in+2]
			dst.Pix[out+1] = data[in+1]
			dst.Pix[out+2] = data[in]
		}
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}

	return dst, nil
}

// RasterToMat converts an RGB raster to a BGR Mat. The caller owns the Mat.
func RasterToMat(src *equalize.Raster) (gocv.Mat, error) {
	if err := src.Validate(); err != nil {
		return gocv.Mat{}, err
	}
	if err := ValidateDimensions(src.Width, src.Height, "raster to Mat conversion"); err != nil {
		return gocv.Mat{}, err
	}

	bgr := make([]byte, len(src.Pix))
	for i := 0; i < len(src.Pix); i += 3 {
		bgr[i] = src.Pix[i+2]
		bgr[i+1] = src.Pix[i+1]
		bgr[i+2] = src.Pix[i]
	}

	view, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("destination Mat creation failed: %w", err)
	}
	defer view.Close()

	// The view borrows bgr; the clone owns its pixels.
	mat := view.Clone()
	runtime.KeepAlive(bgr)
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("failed to clone Mat")
	}
	return mat, nil
}
