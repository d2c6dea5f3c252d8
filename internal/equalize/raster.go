package equalize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Raster is an 8-bit RGB image stored packed row-major, three bytes per pixel.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster allocates a zeroed raster. Zero width or height is allowed.
func NewRaster(width, height int) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}, nil
}

// Validate checks that Pix holds exactly Width*Height pixels.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: raster is nil", ErrInvalidDimensions)
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, r.Width, r.Height)
	}
	if len(r.Pix) != r.Width*r.Height*3 {
		return fmt.Errorf("%w: %dx%d raster holds %d bytes", ErrInvalidDimensions, r.Width, r.Height, len(r.Pix))
	}
	return nil
}

// Stride is the number of bytes in one row.
func (r *Raster) Stride() int {
	return r.Width * 3
}

// Empty reports whether the raster holds no pixels.
func (r *Raster) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

func (r *Raster) offset(x, y int) int {
	return y*r.Stride() + x*3
}

func (r *Raster) RGBAt(x, y int) (red, green, blue uint8) {
	i := r.offset(x, y)
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

func (r *Raster) SetRGB(x, y int, red, green, blue uint8) {
	i := r.offset(x, y)
	r.Pix[i] = red
	r.Pix[i+1] = green
	r.Pix[i+2] = blue
}

// Row returns the packed pixels of row y. The slice aliases Pix.
func (r *Raster) Row(y int) []uint8 {
	start := y * r.Stride()
	return r.Pix[start : start+r.Stride()]
}

func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Equal reports whether both rasters have the same dimensions and pixels.
func (r *Raster) Equal(other *Raster) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Width == other.Width && r.Height == other.Height && bytes.Equal(r.Pix, other.Pix)
}

// FromImage normalises any Go image to 8-bit RGB. Alpha is dropped.
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	raster, err := NewRaster(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	switch typedImg := img.(type) {
	case *image.RGBA:
		for y := 0; y < raster.Height; y++ {
			for x := 0; x < raster.Width; x++ {
				pixel := typedImg.RGBAAt(x+bounds.Min.X, y+bounds.Min.Y)
				raster.SetRGB(x, y, pixel.R, pixel.G, pixel.B)
			}
		}
	case *image.Gray:
		for y := 0; y < raster.Height; y++ {
			for x := 0; x < raster.Width; x++ {
				pixel := typedImg.GrayAt(x+bounds.Min.X, y+bounds.Min.Y)
				raster.SetRGB(x, y, pixel.Y, pixel.Y, pixel.Y)
			}
		}
	default:
		for y := 0; y < raster.Height; y++ {
			for x := 0; x < raster.Width; x++ {
				r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

				// Convert from 16-bit to 8-bit
				raster.SetRGB(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8))
			}
		}
	}

	return raster, nil
}

// ToImage returns an opaque RGBA copy of the raster.
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			red, green, blue := r.RGBAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: red, G: green, B: blue, A: 255})
		}
	}
	return img
}
