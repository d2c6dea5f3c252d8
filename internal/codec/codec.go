// Package codec loads and saves rasters with the Go image decoders.
package codec

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"histeq/internal/equalize"
)

const DefaultJPEGQuality = 95

// Codec reads any registered format and writes by file extension.
type Codec struct {
	JPEGQuality int
}

func New(jpegQuality int) *Codec {
	if jpegQuality <= 0 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Codec{JPEGQuality: jpegQuality}
}

func (c *Codec) Name() string {
	return "stdlib"
}

// Load decodes path and normalises it to 8-bit RGB.
func (c *Codec) Load(path string) (*equalize.Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return equalize.FromImage(img)
}

// Save encodes r according to the extension of path.
func (c *Codec) Save(path string, r *equalize.Raster) (err error) {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Empty() {
		return fmt.Errorf("cannot encode empty %dx%d image", r.Width, r.Height)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff":
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	img := r.ToImage()

	var saveErr error
	switch ext {
	case ".jpg", ".jpeg":
		saveErr = jpeg.Encode(file, img, &jpeg.Options{Quality: c.JPEGQuality})
	case ".png":
		saveErr = png.Encode(file, img)
	case ".bmp":
		saveErr = bmp.Encode(file, img)
	case ".tif", ".tiff":
		saveErr = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	}

	if saveErr != nil {
		return fmt.Errorf("failed to save image: %w", saveErr)
	}
	return nil
}
