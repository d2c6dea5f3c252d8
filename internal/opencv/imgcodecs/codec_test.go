package imgcodecs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histeq/internal/equalize"
)

func TestCodec_PNGRoundTrip(t *testing.T) {
	src, err := equalize.NewRaster(4, 3)
	require.NoError(t, err)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	c := New(95)
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, c.Save(path, src))

	got, err := c.Load(path)
	require.NoError(t, err)
	assert.True(t, src.Equal(got))
}

func TestNew_DefaultsQuality(t *testing.T) {
	assert.Equal(t, DefaultJPEGQuality, New(0).JPEGQuality)
	assert.Equal(t, DefaultJPEGQuality, New(-3).JPEGQuality)
	assert.Equal(t, 70, New(70).JPEGQuality)
}

func TestCodec_ZeroQualityStillWritesJPEG(t *testing.T) {
	src, err := equalize.NewRaster(8, 8)
	require.NoError(t, err)
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	c := New(0)
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, c.Save(path, src))

	got, err := c.Load(path)
	require.NoError(t, err)
	assert.Equal(t, src.Width, got.Width)
	assert.Equal(t, src.Height, got.Height)
}

func TestCodec_Errors(t *testing.T) {
	c := New(95)

	_, err := c.Load(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorContains(t, err, "failed to open file")

	empty, err := equalize.NewRaster(0, 0)
	require.NoError(t, err)
	assert.Error(t, c.Save(filepath.Join(t.TempDir(), "empty.jpg"), empty))
}
