package equalize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRasterT(t *testing.T, width, height int) *Raster {
	t.Helper()

	r, err := NewRaster(width, height)
	require.NoError(t, err)
	return r
}

// randomRaster fills a raster with reproducible noise.
func randomRaster(t *testing.T, width, height int, seed int64) *Raster {
	t.Helper()

	r := newRasterT(t, width, height)
	rng := rand.New(rand.NewSource(seed))
	for i := range r.Pix {
		r.Pix[i] = uint8(rng.Intn(256))
	}
	return r
}

// darkRaster concentrates intensities in a narrow low band, the classic
// input that equalization stretches.
func darkRaster(t *testing.T, width, height int) *Raster {
	t.Helper()

	r := newRasterT(t, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(20 + (x+y)%40)
			r.SetRGB(x, y, v, v/2, v+10)
		}
	}
	return r
}
